package core

import (
	"testing"
	"time"
)

func TestComputeSummaryEmpty(t *testing.T) {
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	s := ComputeSummary(nil, Money{Units: 1000000}, now)
	if s.TotalSpent.Units != 0 || s.TransactionCount != 0 || len(s.Groups) != 0 {
		t.Fatalf("empty input should yield a zeroed summary, got %+v", s)
	}
	if s.BudgetRemaining.Units != 1000000 {
		t.Fatalf("remaining should equal the untouched budget, got %d", s.BudgetRemaining.Units)
	}
}

func TestComputeSummaryTodayScenario(t *testing.T) {
	now := time.Date(2025, 11, 16, 18, 0, 0, 0, time.UTC)
	records := []Expense{
		expAt("a", CategoryFood, 25000, time.Date(2025, 11, 16, 8, 15, 0, 0, time.UTC)),
		expAt("b", CategoryTransport, 50000, time.Date(2025, 11, 16, 17, 30, 0, 0, time.UTC)),
	}
	filtered := ApplyFilter(records, Filter{Token: FilterToday}, now)
	s := ComputeSummary(filtered, Money{}, now)

	if s.TotalSpent.Units != 75000 {
		t.Fatalf("total = %d, want 75000", s.TotalSpent.Units)
	}
	if s.TransactionCount != 2 {
		t.Fatalf("count = %d, want 2", s.TransactionCount)
	}
	// Tie on count (1 each); higher amount wins.
	if s.TopCategory.Name != CategoryTransport || s.TopCategory.Amount.Units != 50000 {
		t.Fatalf("top category = %+v, want transport/50000", s.TopCategory)
	}
}

func TestTopCategoryTieBreak(t *testing.T) {
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 11, d, 10, 0, 0, 0, time.UTC) }
	var records []Expense
	// Category A: 3 transactions summing 30000; B: 3 transactions summing 50000.
	for i, u := range []int64{10000, 10000, 10000} {
		records = append(records, expAt("a", CategoryFood, u, day(10+i)))
	}
	for i, u := range []int64{20000, 20000, 10000} {
		records = append(records, expAt("b", CategoryShopping, u, day(10+i)))
	}
	s := ComputeSummary(records, Money{}, now)
	if s.TopCategory.Name != CategoryShopping {
		t.Fatalf("tie-break should prefer the higher total amount, got %s", s.TopCategory.Name)
	}
	if s.TopCategory.Count != 3 || s.TopCategory.Amount.Units != 50000 {
		t.Fatalf("top category = %+v", s.TopCategory)
	}
}

func TestDailyAverageRoundHalfUp(t *testing.T) {
	// Day 3 of the month, month-to-date total 100 -> 100/3 = 33.33 -> 33;
	// total 110 -> 36.67 -> 37; total 105 -> 35 exactly.
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		total int64
		want  int64
	}{
		{100, 33},
		{110, 37},
		{105, 35},
		{101, 34}, // 33.67
	}
	for _, tc := range cases {
		records := []Expense{expAt("a", CategoryFood, tc.total, now.Add(-time.Hour))}
		s := ComputeSummary(records, Money{}, now)
		if s.DailyAverage.Units != tc.want {
			t.Fatalf("total %d: daily average = %d, want %d", tc.total, s.DailyAverage.Units, tc.want)
		}
	}
}

func TestDailyAverageCountsCurrentMonthOnly(t *testing.T) {
	now := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	records := []Expense{
		expAt("this", CategoryFood, 2000, time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)),
		expAt("prev", CategoryFood, 90000, time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)),
	}
	s := ComputeSummary(records, Money{}, now)
	if s.DailyAverage.Units != 1000 {
		t.Fatalf("daily average should only cover month-to-date, got %d", s.DailyAverage.Units)
	}
}

func TestBudgetPercentage(t *testing.T) {
	now := time.Date(2025, 11, 16, 13, 0, 0, 0, time.UTC)
	records := []Expense{expAt("a", CategoryFood, 1500000, now.Add(-time.Hour))}

	s := ComputeSummary(records, Money{Units: 1000000}, now)
	if s.BudgetPercentage != 1.5 {
		t.Fatalf("percentage must stay unclamped past 1.0, got %v", s.BudgetPercentage)
	}
	if s.BudgetRemaining.Units != -500000 {
		t.Fatalf("remaining = %d, want -500000", s.BudgetRemaining.Units)
	}

	// Zero budget: percentage treated as 0, no divide-by-zero.
	s = ComputeSummary(records, Money{}, now)
	if s.BudgetPercentage != 0 {
		t.Fatalf("zero budget should give percentage 0, got %v", s.BudgetPercentage)
	}
}

func TestGroupByDayLabelsAndOrder(t *testing.T) {
	now := time.Date(2025, 11, 16, 20, 0, 0, 0, time.UTC)
	records := []Expense{
		expAt("t1", CategoryFood, 25000, time.Date(2025, 11, 16, 8, 15, 0, 0, time.UTC)),
		expAt("t2", CategoryTransport, 50000, time.Date(2025, 11, 16, 17, 30, 0, 0, time.UTC)),
		expAt("y1", CategoryFood, 35000, time.Date(2025, 11, 15, 12, 30, 0, 0, time.UTC)),
		expAt("o1", CategoryTransport, 15000, time.Date(2025, 11, 14, 8, 0, 0, 0, time.UTC)),
	}
	s := ComputeSummary(ApplyFilter(records, Filter{}, now), Money{}, now)

	if len(s.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(s.Groups))
	}
	labels := []string{"TODAY", "YESTERDAY", "14 NOV"}
	for i, want := range labels {
		if s.Groups[i].Label != want {
			t.Fatalf("group %d label = %q, want %q", i, s.Groups[i].Label, want)
		}
	}
	// Within a group, newest first.
	if s.Groups[0].Items[0].ID != "t2" || s.Groups[0].Items[1].ID != "t1" {
		t.Fatalf("today's bucket not newest-first: %v", []string{s.Groups[0].Items[0].ID, s.Groups[0].Items[1].ID})
	}
	if s.Groups[0].Total.Units != 75000 {
		t.Fatalf("today's total = %d, want 75000", s.Groups[0].Total.Units)
	}
	if s.StartDate.Day() != 14 || s.EndDate.Day() != 16 {
		t.Fatalf("date range = %v..%v", s.StartDate, s.EndDate)
	}
}
