package services

import (
	"context"
	"testing"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store/memory"
)

func seedExpense(t *testing.T, st *memory.Store, owner string, cat core.Category, units int64, date time.Time) {
	t.Helper()
	e := core.Expense{
		OwnerID:  owner,
		Amount:   core.Money{Units: units},
		Category: cat,
		Date:     date,
	}
	if _, err := st.AddExpense(context.Background(), e); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
}

func TestGetHomeData(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	now := time.Now()

	seedExpense(t, st, "u1", core.CategoryFood, 25000, now)
	seedExpense(t, st, "u1", core.CategoryTransport, 50000, now)
	seedExpense(t, st, "u1", core.CategoryTransport, 30000, now)
	// Other user's record must not leak in
	seedExpense(t, st, "u2", core.CategoryFood, 99999, now)

	if err := st.SetMonthlyBudget(ctx, "u1", core.Money{Units: 1000000}, now); err != nil {
		t.Fatalf("SetMonthlyBudget() error = %v", err)
	}

	svc := NewHomeService(st, st)
	data, err := svc.GetHomeData(ctx, "u1", now)
	if err != nil {
		t.Fatalf("GetHomeData() error = %v", err)
	}

	if data.TotalSpent.Units != 105000 {
		t.Errorf("TotalSpent = %d, want 105000", data.TotalSpent.Units)
	}
	if data.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", data.TransactionCount)
	}
	if data.TopCategory != "transport" {
		t.Errorf("TopCategory = %q, want transport", data.TopCategory)
	}
	if data.Budget.Units != 1000000 {
		t.Errorf("Budget = %d, want 1000000", data.Budget.Units)
	}
	if data.BudgetRemaining.Units != 895000 {
		t.Errorf("BudgetRemaining = %d, want 895000", data.BudgetRemaining.Units)
	}
	if data.BudgetPercentage != 0.105 {
		t.Errorf("BudgetPercentage = %v, want 0.105", data.BudgetPercentage)
	}
	if len(data.Recent) != 3 {
		t.Errorf("Recent length = %d, want 3", len(data.Recent))
	}
}

func TestGetHomeDataEmpty(t *testing.T) {
	st := memory.New()
	svc := NewHomeService(st, st)

	data, err := svc.GetHomeData(context.Background(), "u1", time.Now())
	if err != nil {
		t.Fatalf("GetHomeData() error = %v", err)
	}
	if data.TotalSpent.Units != 0 || data.TransactionCount != 0 {
		t.Errorf("empty home data = %+v, want zeros", data)
	}
	if data.BudgetPercentage != 0 {
		t.Errorf("BudgetPercentage = %v, want 0 with no budget", data.BudgetPercentage)
	}
	if len(data.Recent) != 0 {
		t.Errorf("Recent length = %d, want 0", len(data.Recent))
	}
}

func TestGetHomeDataRecentLimitAndOrder(t *testing.T) {
	st := memory.New()
	now := time.Now()

	for i := 0; i < 5; i++ {
		seedExpense(t, st, "u1", core.CategoryFood, int64(1000*(i+1)), now.Add(-time.Duration(i)*time.Hour))
	}

	svc := NewHomeService(st, st)
	data, err := svc.GetHomeData(context.Background(), "u1", now)
	if err != nil {
		t.Fatalf("GetHomeData() error = %v", err)
	}

	if len(data.Recent) != recentTransactionCount {
		t.Fatalf("Recent length = %d, want %d", len(data.Recent), recentTransactionCount)
	}
	// Newest first: amounts were seeded descending in time
	if data.Recent[0].Amount.Units != 1000 {
		t.Errorf("Recent[0].Amount = %d, want 1000 (newest)", data.Recent[0].Amount.Units)
	}
	for i := 1; i < len(data.Recent); i++ {
		if data.Recent[i].Date.After(data.Recent[i-1].Date) {
			t.Errorf("Recent not newest first at index %d", i)
		}
	}
}

func TestFetchGuard(t *testing.T) {
	var g FetchGuard

	first := g.Begin()
	if !g.Current(first) {
		t.Error("first token should be current")
	}

	second := g.Begin()
	if g.Current(first) {
		t.Error("first token should be stale after second Begin")
	}
	if !g.Current(second) {
		t.Error("second token should be current")
	}
}
