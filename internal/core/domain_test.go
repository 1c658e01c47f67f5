package core

import "testing"

func TestGoalRecompute(t *testing.T) {
	cases := []struct {
		target, saved int64
		completed     bool
	}{
		{100000, 0, false},
		{100000, 99999, false},
		{100000, 100000, true},
		{100000, 120000, true},
		{0, 50000, false}, // zero target never completes
	}
	for i, tc := range cases {
		g := Goal{TargetCents: tc.target, SavedCents: tc.saved}
		g.Recompute()
		if g.IsCompleted != tc.completed {
			t.Fatalf("case %d: completed=%v, want %v", i, g.IsCompleted, tc.completed)
		}
	}
}

func TestGoalProgress(t *testing.T) {
	g := Goal{TargetCents: 100000, SavedCents: 20000}

	p := g.Progress(Money{Cents: 50000})
	if p.Goal.SavedCents != 70000 {
		t.Fatalf("saved=%d, want 70000", p.Goal.SavedCents)
	}
	if p.Completed || p.Exceeded || p.OverBy.Cents != 0 {
		t.Fatalf("unexpected flags: %+v", p)
	}

	g = Goal{TargetCents: 100000, SavedCents: 0}
	p = g.Progress(Money{Cents: 120000})
	if !p.Completed || !p.Exceeded {
		t.Fatalf("expected completed and exceeded: %+v", p)
	}
	if p.OverBy.Cents != 20000 {
		t.Fatalf("over_by=%d, want 20000", p.OverBy.Cents)
	}

	// Exact hit completes but does not exceed.
	g = Goal{TargetCents: 100000, SavedCents: 50000}
	p = g.Progress(Money{Cents: 50000})
	if !p.Completed || p.Exceeded || p.OverBy.Cents != 0 {
		t.Fatalf("exact target: %+v", p)
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{Name: "Laptop", Slug: "laptop", TargetCents: 100}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Goal{
		{Name: "", Slug: "", TargetCents: 100},
		{Name: "  ", Slug: "", TargetCents: 100},
		{Name: "x", Slug: "x", TargetCents: 0},
		{Name: "x", Slug: "x", TargetCents: 100, SavedCents: -1},
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Description: "Coffee", Amount: Money{Cents: 0}}
	if err := good.Validate(); err != nil {
		t.Fatalf("zero amount must be valid (amount-pending), got %v", err)
	}
	if err := (Expense{Description: "", Amount: Money{Cents: 100}}).Validate(); err == nil {
		t.Fatal("expected error for empty description")
	}
	if err := (Expense{Description: "x", Amount: Money{Cents: -1}}).Validate(); err == nil {
		t.Fatal("expected error for negative amount")
	}
}
