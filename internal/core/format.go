// Package core provides the pure domain model: expense records, monthly
// budgets, display filters and the aggregation engine. Nothing in this
// package performs I/O.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// FormatNumber inserts a dot grouping separator every three digits, the way
// amounts are shown in the app ("25000" -> "25.000"). Non-digit characters
// in the input are dropped first, so re-formatting an already formatted
// string is a no-op.
func FormatNumber(s string) string {
	digits := stripNonDigits(s)
	if digits == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseFormattedNumber is the inverse of FormatNumber: it strips grouping
// separators and parses the remaining digit string as a positive amount.
func ParseFormattedNumber(s string) (Money, error) {
	digits := stripNonDigits(s)
	if digits == "" {
		return Money{}, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if units <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Units: units}, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
