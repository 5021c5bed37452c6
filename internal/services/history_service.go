package services

import (
	"context"
	"errors"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/heatmap"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

// ErrFilterNotRanged is returned when a heatmap is requested under a
// point-in-time filter; those views show individual markers instead.
var ErrFilterNotRanged = errors.New("heatmap requires a ranged time filter")

// HistoryService serves the history and map screens: filtered record
// lists, their summary, and heatmap points.
type HistoryService struct {
	expenses store.ExpenseStore
	budgets  store.BudgetStore
}

func NewHistoryService(expenses store.ExpenseStore, budgets store.BudgetStore) *HistoryService {
	return &HistoryService{expenses: expenses, budgets: budgets}
}

// List returns the owner's records with the filter applied, newest first.
func (s *HistoryService) List(ctx context.Context, ownerID string, f core.Filter) ([]core.Expense, error) {
	return s.expenses.ListExpenses(ctx, ownerID, f)
}

// Summary aggregates the filtered records together with the active budget.
func (s *HistoryService) Summary(ctx context.Context, ownerID string, f core.Filter, now time.Time) (core.Summary, error) {
	records, err := s.expenses.ListExpenses(ctx, ownerID, f)
	if err != nil {
		return core.Summary{}, err
	}
	budget, err := s.budgets.GetMonthlyBudget(ctx, ownerID, now)
	if err != nil {
		return core.Summary{}, err
	}
	return core.ComputeSummary(records, budget, now), nil
}

// Heatmap clusters the filtered records into weighted points. Only ranged
// filters are served.
func (s *HistoryService) Heatmap(ctx context.Context, ownerID string, f core.Filter) ([]heatmap.Point, error) {
	if !f.IsRange() {
		return nil, ErrFilterNotRanged
	}
	records, err := s.expenses.ListExpenses(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	return heatmap.Generate(records), nil
}
