// Package goalparse extracts a savings amount and a goal-name candidate
// from a loosely structured spoken sentence such as "add 500 to my watch"
// or "save 1,200 for laptop". Unlike the expense interpreter it does fail:
// a voice goal update without an amount or a recognizable name is an error
// surfaced to the user, never a silently defaulted record.
package goalparse

import (
	"regexp"
	"strings"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
)

// Update is the parsed form of a voice goal-update sentence. Name is the raw
// extracted candidate; Slug is its canonical lookup key.
type Update struct {
	Amount core.Money
	Name   string
	Slug   string
}

var (
	// First numeric token wins; commas are stripped from the transcript
	// before scanning so "1,200" reads as 1200.
	amountPattern = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)

	// Name extraction strategies, tried in order. The first three mirror
	// common phrasings; the trailing literal "goal" is trimmed from their
	// captures.
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:to|into|for|towards)\s+(?:my\s+)?([a-z][a-z0-9 ]+?)(?:\s+goal)?\b`),
		regexp.MustCompile(`\bmy\s+([a-z][a-z0-9 ]+?)(?:\s+goal)?\b`),
		regexp.MustCompile(`\b([a-z][a-z0-9 ]+?)\s+goal\b`),
	}

	wordPattern = regexp.MustCompile(`[a-z0-9]+`)

	// noiseWords are separator tokens removed before the last-resort
	// extraction takes the trailing tokens as the goal name.
	noiseWords = map[string]struct{}{
		"add": {}, "put": {}, "save": {}, "deposit": {}, "set": {},
		"aside": {}, "transfer": {}, "move": {}, "to": {}, "into": {},
		"for": {}, "towards": {}, "my": {}, "goal": {}, "rs": {},
		"rupees": {},
	}
)

// Parse extracts the amount and goal-name candidate from a transcript.
// Returns core.ErrAmountNotFound when no numeric token is present and
// core.ErrGoalNameNotFound when every extraction strategy comes up empty.
func Parse(transcript string) (Update, error) {
	t := strings.ToLower(strings.TrimSpace(transcript))

	tok := amountPattern.FindString(strings.ReplaceAll(t, ",", ""))
	if tok == "" {
		return Update{}, core.ErrAmountNotFound
	}
	cents, err := core.ParseDecimalToCents(tok)
	if err != nil {
		return Update{}, core.ErrAmountNotFound
	}

	name := extractName(t)
	if name == "" {
		return Update{}, core.ErrGoalNameNotFound
	}

	return Update{
		Amount: core.Money{Cents: cents},
		Name:   name,
		Slug:   core.Slugify(name),
	}, nil
}

func extractName(t string) string {
	for _, pat := range namePatterns {
		if m := pat.FindStringSubmatch(t); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	// Fallback: drop noise and digit tokens, keep the last up to three
	// remaining words as the candidate name.
	var tokens []string
	for _, w := range wordPattern.FindAllString(t, -1) {
		if _, noisy := noiseWords[w]; noisy {
			continue
		}
		if isDigits(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) > 3 {
		tokens = tokens[len(tokens)-3:]
	}
	return strings.Join(tokens, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
