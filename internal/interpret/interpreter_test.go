package interpret

import (
	"testing"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/core"
)

func TestInterpret(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		cents   int64
		pending bool
		cat     string
		pay     string
	}{
		{"typical sentence", "I spent 500 on pizza via Google Pay", 50000, false, "Food", "Google Pay"},
		{"rent no payment", "paid rent 12000", 1200000, false, "Rent", "Unknown"},
		{"bare word pending amount", "coffee", 0, true, "Food", "Unknown"},
		{"comma thousands", "save 1,200 shopping bag", 120000, false, "Shopping", "Unknown"},
		{"decimal amount", "bus ticket 45.50 cash", 4550, false, "Transport", "Cash"},
		{"gpay substring", "250 snack gpay", 25000, false, "Food", "Google Pay"},
		{"plural keyword misses whole word", "250 snacks gpay", 25000, false, "Others", "Google Pay"},
		{"card via debit", "680 jeans debit card", 68000, false, "Shopping", "Card"},
		{"upi", "paid 99 netflix upi", 9900, false, "Bills", "UPI"},
		{"no signals at all", "hello there", 0, true, "Others", "Unknown"},
		{"empty", "", 0, true, "Others", "Unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Interpret(tc.text)
			if f.Amount.Cents != tc.cents {
				t.Fatalf("amount=%d, want %d", f.Amount.Cents, tc.cents)
			}
			if f.AmountPending != tc.pending {
				t.Fatalf("pending=%v, want %v", f.AmountPending, tc.pending)
			}
			if f.Category != tc.cat {
				t.Fatalf("category=%q, want %q", f.Category, tc.cat)
			}
			if f.PaymentMethod != tc.pay {
				t.Fatalf("payment=%q, want %q", f.PaymentMethod, tc.pay)
			}
			if f.Amount.Cents < 0 {
				t.Fatal("amount must never be negative")
			}
		})
	}
}

func TestInterpretDescription(t *testing.T) {
	f := Interpret("Bought PIZZA 500")
	if f.Description != "Bought pizza 500" {
		t.Fatalf("description=%q", f.Description)
	}
}

func TestInterpretFirstAmountWins(t *testing.T) {
	f := Interpret("split 300 of the 900 dinner")
	if f.Amount.Cents != 30000 {
		t.Fatalf("amount=%d, want first number 30000", f.Amount.Cents)
	}
}

func TestDetectCategoryWholeWord(t *testing.T) {
	// Category keywords require word boundaries, so "cashew" matches nothing.
	if got := DetectCategory("bought cashew nuts 200", ""); got != core.CategoryOthers {
		t.Fatalf("got %q, want Others", got)
	}
	// Payment detection is substring based, so "cashew" does contain "cash".
	if got := DetectPaymentMethod("bought cashew nuts 200", ""); got != "Cash" {
		t.Fatalf("got %q, want Cash", got)
	}
}

func TestDetectCategoryOrderIsTieBreak(t *testing.T) {
	// Matches Food ("dinner") and Entertainment ("movie"); Food is tested
	// first in the canonical order.
	if got := DetectCategory("movie and dinner", ""); got != "Food" {
		t.Fatalf("got %q, want Food", got)
	}
}

func TestDetectOverrides(t *testing.T) {
	if got := DetectCategory("pizza night", "Travel"); got != "Travel" {
		t.Fatalf("explicit category must win, got %q", got)
	}
	for _, placeholder := range []string{"", "Unknown", "Others", "Other"} {
		if got := DetectCategory("pizza night", placeholder); got != "Food" {
			t.Fatalf("placeholder %q must fall back to detection, got %q", placeholder, got)
		}
	}
	if got := DetectPaymentMethod("500 via paytm", "Cash"); got != "Cash" {
		t.Fatalf("explicit payment must win, got %q", got)
	}
	if got := DetectPaymentMethod("500 via paytm", "Unknown"); got != "Paytm" {
		t.Fatalf("Unknown must fall back to detection, got %q", got)
	}
}
