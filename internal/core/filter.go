package core

import (
	"sort"
	"strings"
	"time"
)

// Special filter tokens. Any other non-empty, non-"All" token is treated as
// a category name.
const (
	FilterAll       = "All"
	FilterToday     = "Today"
	FilterYesterday = "Yesterday"
	FilterThisWeek  = "This Week"
	FilterThisMonth = "This Month"
	FilterPrevMonth = "Prev Month"
)

// Filter describes what the history and map screens are looking at: a date
// range token or category name, plus an optional free-text search. Search is
// applied after the token filter, so a record must pass both.
type Filter struct {
	Token  string
	Search string
}

// IsRange reports whether the filter token selects a multi-day date range.
// The heatmap layer is only rendered for these; other filters show
// individual markers.
func (f Filter) IsRange() bool {
	switch f.Token {
	case FilterThisWeek, FilterThisMonth, FilterPrevMonth:
		return true
	}
	return false
}

// ApplyFilter filters records by the token and search query, relative to
// now, and returns them sorted newest first. Day boundaries are midnight in
// now's location; weeks start on Monday.
func ApplyFilter(records []Expense, f Filter, now time.Time) []Expense {
	out := make([]Expense, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	if f.Token != "" && f.Token != FilterAll {
		today := startOfDay(now)
		switch f.Token {
		case FilterToday:
			out = keep(out, func(e Expense) bool {
				return !e.Date.Before(today) && e.Date.Before(today.AddDate(0, 0, 1))
			})
		case FilterYesterday:
			yesterday := today.AddDate(0, 0, -1)
			out = keep(out, func(e Expense) bool {
				return !e.Date.Before(yesterday) && e.Date.Before(today)
			})
		case FilterThisWeek:
			week := startOfWeek(now)
			out = keep(out, func(e Expense) bool {
				return !e.Date.Before(week)
			})
		case FilterThisMonth:
			month := startOfMonth(now)
			out = keep(out, func(e Expense) bool {
				return !e.Date.Before(month)
			})
		case FilterPrevMonth:
			month := startOfMonth(now)
			prev := month.AddDate(0, -1, 0)
			out = keep(out, func(e Expense) bool {
				return !e.Date.Before(prev) && e.Date.Before(month)
			})
		default:
			out = keep(out, func(e Expense) bool {
				return strings.EqualFold(string(e.Category), f.Token)
			})
		}
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		out = keep(out, func(e Expense) bool {
			return strings.Contains(strings.ToLower(e.LocationName), q) ||
				strings.Contains(strings.ToLower(e.Note), q) ||
				strings.Contains(strings.ToLower(string(e.Category)), q)
		})
	}

	return out
}

func keep(in []Expense, pred func(Expense) bool) []Expense {
	out := in[:0]
	for _, e := range in {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday midnight of the week containing t. On a
// Sunday the week started six days earlier.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}
