package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

const recentTransactionCount = 3

// HomeData is everything the home screen shows in one shot.
type HomeData struct {
	TotalSpent       core.Money     `json:"totalSpent"`
	TransactionCount int            `json:"transactionCount"`
	TopCategory      string         `json:"topCategory"`
	DailyAverage     core.Money     `json:"dailyAverage"`
	Budget           core.Money     `json:"budget"`
	BudgetRemaining  core.Money     `json:"budgetRemaining"`
	BudgetPercentage float64        `json:"budgetPercentage"`
	Recent           []core.Expense `json:"recent"`
}

// HomeService assembles the home screen payload with concurrent store
// reads, one per figure.
type HomeService struct {
	expenses store.ExpenseStore
	budgets  store.BudgetStore
}

func NewHomeService(expenses store.ExpenseStore, budgets store.BudgetStore) *HomeService {
	return &HomeService{expenses: expenses, budgets: budgets}
}

// GetHomeData fans out six independent reads and joins the results. Any
// failed read fails the whole call.
func (s *HomeService) GetHomeData(ctx context.Context, ownerID string, now time.Time) (HomeData, error) {
	var data HomeData
	monthFilter := core.Filter{Token: core.FilterThisMonth}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		budget, err := s.budgets.GetMonthlyBudget(ctx, ownerID, now)
		if err != nil {
			return err
		}
		data.Budget = budget
		return nil
	})
	g.Go(func() error {
		records, err := s.expenses.ListExpenses(ctx, ownerID, monthFilter)
		if err != nil {
			return err
		}
		for _, r := range records {
			data.TotalSpent = data.TotalSpent.Add(r.Amount)
		}
		return nil
	})
	g.Go(func() error {
		records, err := s.expenses.ListExpenses(ctx, ownerID, monthFilter)
		if err != nil {
			return err
		}
		data.TransactionCount = len(records)
		return nil
	})
	g.Go(func() error {
		records, err := s.expenses.ListExpenses(ctx, ownerID, monthFilter)
		if err != nil {
			return err
		}
		sum := core.ComputeSummary(records, core.Money{}, now)
		data.TopCategory = string(sum.TopCategory.Name)
		return nil
	})
	g.Go(func() error {
		records, err := s.expenses.ListExpenses(ctx, ownerID, monthFilter)
		if err != nil {
			return err
		}
		sum := core.ComputeSummary(records, core.Money{}, now)
		data.DailyAverage = sum.DailyAverage
		return nil
	})
	g.Go(func() error {
		records, err := s.expenses.ListExpenses(ctx, ownerID, core.Filter{Token: core.FilterAll})
		if err != nil {
			return err
		}
		if len(records) > recentTransactionCount {
			records = records[:recentTransactionCount]
		}
		data.Recent = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return HomeData{}, err
	}

	data.BudgetRemaining = data.Budget.Sub(data.TotalSpent)
	if data.Budget.Units > 0 {
		data.BudgetPercentage = float64(data.TotalSpent.Units) / float64(data.Budget.Units)
	}
	return data, nil
}
