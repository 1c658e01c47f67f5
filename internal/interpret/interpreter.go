// Package interpret turns a free-form expense sentence, typed or transcribed
// from audio, into structured expense fields. It is a total function over
// strings: missing information degrades to defaults (zero amount, "Others",
// "Unknown"), never to an error, because a partial record is still useful
// and can be corrected later.
package interpret

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
)

// amountPattern matches the first token of one to six integer digits with an
// optional 1-2 digit decimal part. Commas are stripped from the text before
// scanning, so "1,200" is seen as "1200".
var amountPattern = regexp.MustCompile(`\d{1,6}(?:\.\d{1,2})?`)

// Interpret parses text into expense fields. The empty string yields a fully
// defaulted record with AmountPending set.
func Interpret(text string) core.ExpenseFields {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	fields := core.ExpenseFields{
		Category:      core.CategoryOthers,
		PaymentMethod: core.PaymentMethodUnknown,
		Description:   capitalize(lower),
		AmountPending: true,
	}
	if lower == "" {
		return fields
	}

	if tok := amountPattern.FindString(strings.ReplaceAll(lower, ",", "")); tok != "" {
		if cents, err := core.ParseDecimalToCents(tok); err == nil {
			fields.Amount = core.Money{Cents: cents}
			fields.AmountPending = false
		}
	}

	fields.PaymentMethod = DetectPaymentMethod(lower, "")
	fields.Category = DetectCategory(lower, "")
	return fields
}

// DetectCategory returns the first category, in canonical order, with any
// keyword present in text as a whole word. A caller-supplied non-placeholder
// category wins over detection.
func DetectCategory(text, given string) string {
	switch given {
	case "", core.PaymentMethodUnknown, core.CategoryOthers, "Other":
	default:
		return given
	}
	lower := strings.ToLower(text)
	for _, cat := range categoryOrder {
		if categoryPatterns[cat].MatchString(lower) {
			return cat
		}
	}
	return core.CategoryOthers
}

// DetectPaymentMethod returns the first payment method whose phrase appears
// as a substring of text, tested in priority order. A caller-supplied
// non-placeholder method wins over detection.
func DetectPaymentMethod(text, given string) string {
	if given != "" && given != core.PaymentMethodUnknown {
		return given
	}
	lower := strings.ToLower(text)
	for _, pm := range paymentMethods {
		for _, phrase := range pm.phrases {
			if strings.Contains(lower, phrase) {
				return pm.label
			}
		}
	}
	return core.PaymentMethodUnknown
}

// capitalize upper-cases the first letter only, the display form used for
// descriptions.
func capitalize(s string) string {
	for i, r := range s {
		return s[:i] + string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
