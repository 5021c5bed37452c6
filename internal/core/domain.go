package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryBills         Category = "bills"
	CategoryOthers        Category = "others"
)

type (
	// Category is one of the fixed expense categories. Stored values are kept
	// as written; unknown values fall back to CategoryOthers at display time
	// only (see Display).
	Category string

	// Money is an amount in the smallest currency unit. No fractional units.
	Money struct {
		Units int64
	}

	// Location is a geocoordinate attached to an expense.
	Location struct {
		Latitude  float64
		Longitude float64
	}

	Expense struct {
		ID           string
		OwnerID      string
		Amount       Money
		Category     Category
		LocationName string    // optional
		Location     *Location // optional
		Note         string    // optional
		Date         time.Time // authoritative for ordering and bucketing
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// Budget is the monthly budget document, one per owner, overwritten on
	// every save. It is active only while Month matches the current calendar
	// month; afterwards it is ignored, never purged.
	Budget struct {
		OwnerID   string
		Amount    Money
		Month     string // "YYYY-MM"
		UpdatedAt time.Time
	}

	User struct {
		UID          string
		Email        string
		DisplayName  string
		PhotoURL     string
		Provider     string // "email" or "google"
		PasswordHash string // empty for OAuth accounts
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	Notification struct {
		ID        string
		OwnerID   string
		Kind      string // "expense_added" or "budget_warning"
		Title     string
		Body      string
		Read      bool
		CreatedAt time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyOwner    = errors.New("empty owner id")
	ErrEmptyCategory = errors.New("empty category")
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrInvalidBudget = errors.New("budget must be greater than zero")
)

// Categories lists the fixed enumeration in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryHealth,
		CategoryBills,
		CategoryOthers,
	}
}

// Known reports whether c is one of the fixed categories.
func (c Category) Known() bool {
	switch Category(strings.ToLower(string(c))) {
	case CategoryFood, CategoryTransport, CategoryShopping,
		CategoryEntertainment, CategoryHealth, CategoryBills, CategoryOthers:
		return true
	}
	return false
}

// Display returns the category to use for presentation (icon and color
// lookup). Unrecognized stored values resolve to CategoryOthers; the stored
// value itself is never rewritten.
func (c Category) Display() Category {
	if c.Known() {
		return Category(strings.ToLower(string(c)))
	}
	return CategoryOthers
}

// Money serializes as its bare integer amount.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Units, 10), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	units, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Units = units
	return nil
}

func (m Money) Validate() error {
	if m.Units <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Units: m.Units + o.Units}
}

func (m Money) Sub(o Money) Money {
	return Money{Units: m.Units - o.Units}
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(string(e.Category)) == "" {
		return ErrEmptyCategory
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if len(e.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if b.Amount.Units <= 0 {
		return ErrInvalidBudget
	}
	return nil
}

// MonthKey formats t as the "YYYY-MM" key used by budget documents.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ActiveFor reports whether the budget applies to the month containing now.
func (b Budget) ActiveFor(now time.Time) bool {
	return b.Month == MonthKey(now)
}
