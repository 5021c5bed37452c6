package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/events"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

// Publisher publishes expense change events. The AMQP client satisfies it.
type Publisher interface {
	PublishExpenseEvent(ctx context.Context, event *events.ExpenseEvent) error
}

// ExpenseService orchestrates record writes and event publication.
type ExpenseService struct {
	store     store.ExpenseStore
	publisher Publisher
}

func NewExpenseService(st store.ExpenseStore, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		store:     st,
		publisher: publisher,
	}
}

// CreateExpense saves a record and publishes a create event
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	id, err := s.store.AddExpense(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(events.ActionCreate, id, e.OwnerID, e.Amount.Units, string(e.Category)))
	return id, nil
}

// UpdateExpense overwrites a record and publishes an update event
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(events.ActionUpdate, e.ID, e.OwnerID, e.Amount.Units, string(e.Category)))
	return nil
}

// DeleteExpense removes a record and publishes a delete event
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	// Fetch first so the event can carry owner and amount
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(events.ActionDelete, id, e.OwnerID, e.Amount.Units, string(e.Category)))
	return nil
}

// GetExpense returns a single record
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// ListExpenses returns the owner's records with the filter applied
func (s *ExpenseService) ListExpenses(ctx context.Context, ownerID string, f core.Filter) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, ownerID, f)
}

// publish is best effort; a broker outage must not fail the write
func (s *ExpenseService) publish(ctx context.Context, event *events.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", event.Action,
			"expense_id", event.ExpenseID,
			"error", err)
	}
}
