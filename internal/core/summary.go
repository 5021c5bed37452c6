package core

import (
	"sort"
	"strings"
	"time"
)

type (
	// CategorySummary is the aggregate for a single category.
	CategorySummary struct {
		Name   Category
		Amount Money
		Count  int
	}

	// DayGroup is one history bucket: all records of a single calendar day,
	// newest first, labelled TODAY / YESTERDAY / "16 NOV".
	DayGroup struct {
		Label string
		Date  time.Time // midnight of the bucket's day
		Total Money
		Items []Expense
	}

	// Summary is the aggregation result for one filtered record set. It is
	// derived, never persisted, and recomputed on every load.
	Summary struct {
		TotalSpent       Money
		TransactionCount int
		TopCategory      CategorySummary
		DailyAverage     Money
		Budget           Money
		BudgetRemaining  Money
		BudgetPercentage float64 // unclamped; >1 means over budget
		StartDate        time.Time
		EndDate          time.Time
		Groups           []DayGroup
	}
)

// ComputeSummary aggregates an already-filtered record list. budget is the
// active monthly budget (zero when unset or expired) and now anchors the
// daily average and the TODAY/YESTERDAY bucket labels. Pure function; an
// empty input yields a zeroed summary.
func ComputeSummary(records []Expense, budget Money, now time.Time) Summary {
	s := Summary{Budget: budget, BudgetRemaining: budget}
	if len(records) == 0 {
		return s
	}

	sorted := make([]Expense, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	var monthToDate int64
	month := startOfMonth(now)
	for _, e := range sorted {
		s.TotalSpent.Units += e.Amount.Units
		if !e.Date.Before(month) {
			monthToDate += e.Amount.Units
		}
	}
	s.TransactionCount = len(sorted)
	s.EndDate = sorted[0].Date
	s.StartDate = sorted[len(sorted)-1].Date

	s.TopCategory = topCategory(sorted)
	s.DailyAverage = Money{Units: divRoundHalfUp(monthToDate, int64(now.Day()))}

	s.BudgetRemaining = budget.Sub(s.TotalSpent)
	if budget.Units > 0 {
		s.BudgetPercentage = float64(s.TotalSpent.Units) / float64(budget.Units)
	}

	s.Groups = groupByDay(sorted, now)
	return s
}

// topCategory picks the category with the most transactions; among ties the
// highest summed amount wins.
func topCategory(records []Expense) CategorySummary {
	type agg struct {
		count  int
		amount int64
	}
	byName := make(map[Category]*agg)
	var order []Category
	for _, e := range records {
		name := Category(strings.ToLower(string(e.Category)))
		if name == "" {
			name = CategoryOthers
		}
		a, ok := byName[name]
		if !ok {
			a = &agg{}
			byName[name] = a
			order = append(order, name)
		}
		a.count++
		a.amount += e.Amount.Units
	}

	var top CategorySummary
	for _, name := range order {
		a := byName[name]
		if a.count > top.Count || (a.count == top.Count && a.amount > top.Amount.Units) {
			top = CategorySummary{Name: name, Amount: Money{Units: a.amount}, Count: a.count}
		}
	}
	return top
}

// groupByDay buckets records by calendar day, preserving the newest-first
// order inside each bucket. Buckets come out newest first.
func groupByDay(sorted []Expense, now time.Time) []DayGroup {
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	var groups []DayGroup
	for _, e := range sorted {
		day := startOfDay(e.Date)
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(day) {
			groups[n-1].Items = append(groups[n-1].Items, e)
			groups[n-1].Total.Units += e.Amount.Units
			continue
		}
		groups = append(groups, DayGroup{
			Label: dayLabel(day, today, yesterday),
			Date:  day,
			Total: e.Amount,
			Items: []Expense{e},
		})
	}
	return groups
}

func dayLabel(day, today, yesterday time.Time) string {
	switch {
	case day.Equal(today):
		return "TODAY"
	case day.Equal(yesterday):
		return "YESTERDAY"
	default:
		return strings.ToUpper(day.Format("2 Jan"))
	}
}

// divRoundHalfUp divides two non-negative integers rounding half up.
func divRoundHalfUp(total, n int64) int64 {
	if n <= 0 {
		return 0
	}
	return (total + n/2) / n
}
