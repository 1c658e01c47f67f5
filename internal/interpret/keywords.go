package interpret

import (
	"regexp"
	"strings"
)

// Category labels in detection order. Order is the tie-break when a text
// matches keywords from more than one category, so it must not be reordered.
var categoryOrder = []string{
	"Food",
	"Shopping",
	"Transport",
	"Bills",
	"Entertainment",
	"Health",
	"Education",
	"Rent",
	"Travel",
}

// categoryKeywords maps each category to its trigger words. Matching is
// whole-word so that "cashew" does not trip "cash"-style substrings.
var categoryKeywords = map[string][]string{
	"Food": {
		"pizza", "burger", "food", "meal", "restaurant", "coffee", "snack",
		"dinner", "lunch", "breakfast", "sandwich", "tea",
	},
	"Shopping": {
		"dress", "clothes", "shopping", "furniture", "electronics", "jeans",
		"bag", "shoes", "watch", "mobile", "laptop", "accessory",
	},
	"Transport": {
		"taxi", "uber", "ola", "bus", "train", "fuel", "petrol", "diesel",
		"cab", "bike", "metro", "auto", "rickshaw", "parking", "toll",
	},
	"Bills": {
		"electric", "electricity", "bill", "wifi", "internet", "broadband",
		"recharge", "mobile recharge", "dth", "subscription", "netflix",
		"prime", "spotify",
	},
	"Entertainment": {
		"movie", "cinema", "game", "music", "concert", "ott", "theatre",
		"theater",
	},
	"Health": {
		"medicine", "hospital", "doctor", "gym", "health", "protein",
		"pharmacy", "clinic",
	},
	"Education": {
		"book", "course", "exam", "college", "school", "tuition", "fees",
		"coaching",
	},
	"Rent": {
		"rent", "flat", "room", "hostel", "pg",
	},
	"Travel": {
		"flight", "hotel", "trip", "vacation", "travel", "tour", "airbnb",
	},
}

// paymentMethods lists detection phrases per label in priority order.
// Payment matching is plain substring, unlike categories: "gpay" must match
// inside arbitrary surrounding text.
var paymentMethods = []struct {
	label   string
	phrases []string
}{
	{"Google Pay", []string{"google pay", "gpay"}},
	{"PhonePe", []string{"phonepe"}},
	{"Paytm", []string{"paytm"}},
	{"UPI", []string{"upi"}},
	{"Cash", []string{"cash"}},
	{"Card", []string{"credit", "debit", "card"}},
}

// categoryPatterns holds one compiled word-boundary regexp per category,
// built once at startup and read-only afterwards.
var categoryPatterns = compileCategoryPatterns()

func compileCategoryPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(categoryKeywords))
	for cat, kws := range categoryKeywords {
		quoted := make([]string, len(kws))
		for i, kw := range kws {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		out[cat] = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return out
}
