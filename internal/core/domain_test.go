package core

import (
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		OwnerID:  "u1",
		Amount:   Money{Units: 25000},
		Category: CategoryFood,
		Date:     time.Date(2025, 11, 16, 8, 15, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{OwnerID: "", Amount: Money{Units: 1}, Category: CategoryFood, Date: good.Date},
		{OwnerID: "u1", Amount: Money{Units: 0}, Category: CategoryFood, Date: good.Date},
		{OwnerID: "u1", Amount: Money{Units: -5}, Category: CategoryFood, Date: good.Date},
		{OwnerID: "u1", Amount: Money{Units: 1}, Category: "", Date: good.Date},
		{OwnerID: "u1", Amount: Money{Units: 1}, Category: CategoryFood},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryDisplayFallback(t *testing.T) {
	cases := []struct {
		in   Category
		want Category
	}{
		{CategoryFood, CategoryFood},
		{"Transport", CategoryTransport},
		{"groceries", CategoryOthers},
		{"", CategoryOthers},
	}
	for _, tc := range cases {
		if got := tc.in.Display(); got != tc.want {
			t.Fatalf("Display(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBudgetActiveFor(t *testing.T) {
	now := time.Date(2025, 11, 16, 12, 0, 0, 0, time.UTC)
	b := Budget{OwnerID: "u1", Amount: Money{Units: 1000000}, Month: "2025-11"}
	if !b.ActiveFor(now) {
		t.Fatalf("budget for 2025-11 should be active in November 2025")
	}
	if b.ActiveFor(now.AddDate(0, 1, 0)) {
		t.Fatalf("budget should expire when the calendar month rolls over")
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{OwnerID: "u1", Amount: Money{Units: 1}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{OwnerID: "u1", Amount: Money{Units: 0}}).Validate(); err == nil {
		t.Fatalf("expected error for zero budget")
	}
}
