package goalparse

import (
	"errors"
	"testing"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		cents int64
		slug  string
	}{
		{"to my", "add 500 to my watch", 50000, "watch"},
		{"for with comma", "save 1,200 for laptop", 120000, "laptop"},
		{"into with goal suffix", "deposit 250 into vacation goal", 25000, "vacation"},
		{"towards", "put 300 towards trip", 30000, "trip"},
		{"my pattern stops at first word", "my bike fund 750", 75000, "bike"},
		{"word goal pattern", "new phone goal 900", 90000, "new-phone"},
		{"fallback last tokens", "2000 emergency fund", 200000, "emergency-fund"},
		{"decimal amount, lazy capture", "add 99.50 to my piggy bank", 9950, "piggy"},
		{"first number wins", "add 100 then 900 to my watch", 10000, "watch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Amount.Cents != tc.cents {
				t.Fatalf("amount=%d, want %d", u.Amount.Cents, tc.cents)
			}
			if u.Slug != tc.slug {
				t.Fatalf("slug=%q (name %q), want %q", u.Slug, u.Name, tc.slug)
			}
		})
	}
}

func TestParseAmountNotFound(t *testing.T) {
	for _, in := range []string{"hello world", "add money to my watch", ""} {
		_, err := Parse(in)
		if !errors.Is(err, core.ErrAmountNotFound) {
			t.Fatalf("%q: got %v, want ErrAmountNotFound", in, err)
		}
	}
}

func TestParseGoalNameNotFound(t *testing.T) {
	// Amount present but every remaining token is noise or digits.
	_, err := Parse("add 500 rupees")
	if !errors.Is(err, core.ErrGoalNameNotFound) {
		t.Fatalf("got %v, want ErrGoalNameNotFound", err)
	}
}

func TestParseFallbackSkipsNoise(t *testing.T) {
	u, err := Parse("500 rs emergency fund please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Slug != "emergency-fund-please" {
		t.Fatalf("slug=%q", u.Slug)
	}
}
