// Package store defines the record-store ports consumed by the aggregation
// and heatmap pipeline, and a factory over the available backends.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
)

// ErrNotFound is returned when a record id or user lookup has no match.
var ErrNotFound = errors.New("record not found")

// Ports for the remote document store. Read-your-writes consistency is
// assumed: the next read reflects the last successful write from the same
// client. Nothing stronger.
type (
	ExpenseStore interface {
		// AddExpense stores a new expense and returns its store-assigned id.
		AddExpense(ctx context.Context, e core.Expense) (string, error)

		// UpdateExpense overwrites all mutable fields of the expense with
		// e.ID. The edit flow is a full overwrite, never a partial patch.
		UpdateExpense(ctx context.Context, e core.Expense) error

		// DeleteExpense removes the expense outright; there is no soft delete.
		DeleteExpense(ctx context.Context, id string) error

		GetExpense(ctx context.Context, id string) (core.Expense, error)

		// ListExpenses returns the owner's records matching the filter,
		// sorted newest first.
		ListExpenses(ctx context.Context, ownerID string, f core.Filter) ([]core.Expense, error)
	}

	BudgetStore interface {
		// SetMonthlyBudget overwrites the owner's single budget document,
		// stamping it with the month containing now.
		SetMonthlyBudget(ctx context.Context, ownerID string, amount core.Money, now time.Time) error

		// GetMonthlyBudget returns the budget amount when the stored month
		// matches the month containing now, zero otherwise. The stale
		// document is ignored, not purged.
		GetMonthlyBudget(ctx context.Context, ownerID string, now time.Time) (core.Money, error)
	}

	UserStore interface {
		CreateUser(ctx context.Context, u core.User) error
		GetUser(ctx context.Context, uid string) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
	}

	NotificationStore interface {
		AppendNotification(ctx context.Context, n core.Notification) error
		ListNotifications(ctx context.Context, ownerID string, limit int) ([]core.Notification, error)
	}

	// Store is the full record store consumed by the services layer.
	Store interface {
		ExpenseStore
		BudgetStore
		UserStore
		NotificationStore
		Close() error
	}
)
