// Package worker consumes expense events and turns them into user
// notifications.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/events"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

// Notification kinds.
const (
	KindExpenseAdded  = "expense_added"
	KindBudgetWarning = "budget_warning"
)

// NotificationWorker writes a notification for every created expense and a
// budget warning once month-to-date spending crosses the warn ratio.
type NotificationWorker struct {
	expenses      store.ExpenseStore
	budgets       store.BudgetStore
	notifications store.NotificationStore
	warnRatio     float64
}

func NewNotificationWorker(expenses store.ExpenseStore, budgets store.BudgetStore, notifications store.NotificationStore, warnRatio float64) *NotificationWorker {
	return &NotificationWorker{
		expenses:      expenses,
		budgets:       budgets,
		notifications: notifications,
		warnRatio:     warnRatio,
	}
}

// HandleEvent processes a single expense event from the queue
func (w *NotificationWorker) HandleEvent(ctx context.Context, event *events.ExpenseEvent) error {
	slog.InfoContext(ctx, "Processing expense event",
		"event_id", event.ID,
		"action", event.Action,
		"expense_id", event.ExpenseID)

	if event.Action != events.ActionCreate {
		return nil
	}

	if err := w.notifyExpenseAdded(ctx, event); err != nil {
		return fmt.Errorf("notify expense added: %w", err)
	}
	if err := w.checkBudget(ctx, event.OwnerID); err != nil {
		return fmt.Errorf("check budget: %w", err)
	}
	return nil
}

func (w *NotificationWorker) notifyExpenseAdded(ctx context.Context, event *events.ExpenseEvent) error {
	amount := core.FormatNumber(fmt.Sprintf("%d", event.AmountUnits))
	n := core.Notification{
		ID:        uuid.NewString(),
		OwnerID:   event.OwnerID,
		Kind:      KindExpenseAdded,
		Title:     "Expense recorded",
		Body:      fmt.Sprintf("Rp %s spent on %s", amount, core.Category(event.Category).Display()),
		CreatedAt: time.Now(),
	}
	return w.notifications.AppendNotification(ctx, n)
}

// checkBudget appends a warning when month-to-date spending reaches the
// configured share of the monthly budget. Only the crossing event warns;
// a warning already sent this month is not repeated.
func (w *NotificationWorker) checkBudget(ctx context.Context, ownerID string) error {
	now := time.Now()
	budget, err := w.budgets.GetMonthlyBudget(ctx, ownerID, now)
	if err != nil {
		return err
	}
	if budget.Units == 0 {
		return nil
	}

	records, err := w.expenses.ListExpenses(ctx, ownerID, core.Filter{Token: core.FilterThisMonth})
	if err != nil {
		return err
	}
	var spent int64
	for _, r := range records {
		spent += r.Amount.Units
	}

	ratio := float64(spent) / float64(budget.Units)
	if ratio < w.warnRatio {
		return nil
	}

	warned, err := w.warnedThisMonth(ctx, ownerID, now)
	if err != nil {
		return err
	}
	if warned {
		return nil
	}

	n := core.Notification{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Kind:      KindBudgetWarning,
		Title:     "Budget warning",
		Body:      fmt.Sprintf("You have used %.0f%% of your monthly budget", ratio*100),
		CreatedAt: now,
	}
	if err := w.notifications.AppendNotification(ctx, n); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Budget warning issued",
		"owner_id", ownerID,
		"spent_units", spent,
		"budget_units", budget.Units)
	return nil
}

func (w *NotificationWorker) warnedThisMonth(ctx context.Context, ownerID string, now time.Time) (bool, error) {
	existing, err := w.notifications.ListNotifications(ctx, ownerID, 0)
	if err != nil {
		return false, err
	}
	month := core.MonthKey(now)
	for _, n := range existing {
		if n.Kind == KindBudgetWarning && core.MonthKey(n.CreatedAt) == month {
			return true, nil
		}
	}
	return false, nil
}
