package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store/memory"
)

func TestHistorySummary(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	now := time.Now()

	seedExpense(t, st, "u1", core.CategoryFood, 25000, now)
	seedExpense(t, st, "u1", core.CategoryTransport, 50000, now)
	if err := st.SetMonthlyBudget(ctx, "u1", core.Money{Units: 500000}, now); err != nil {
		t.Fatalf("SetMonthlyBudget() error = %v", err)
	}

	svc := NewHistoryService(st, st)
	sum, err := svc.Summary(ctx, "u1", core.Filter{Token: core.FilterToday}, now)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if sum.TotalSpent.Units != 75000 {
		t.Errorf("TotalSpent = %d, want 75000", sum.TotalSpent.Units)
	}
	if sum.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", sum.TransactionCount)
	}
	if sum.TopCategory.Name != "transport" {
		t.Errorf("TopCategory = %q, want transport", sum.TopCategory.Name)
	}
	if sum.Budget.Units != 500000 {
		t.Errorf("Budget = %d, want 500000", sum.Budget.Units)
	}
}

func TestHeatmapRequiresRangedFilter(t *testing.T) {
	st := memory.New()
	svc := NewHistoryService(st, st)
	ctx := context.Background()

	for _, token := range []string{core.FilterAll, core.FilterToday, core.FilterYesterday} {
		if _, err := svc.Heatmap(ctx, "u1", core.Filter{Token: token}); !errors.Is(err, ErrFilterNotRanged) {
			t.Errorf("Heatmap(%q) error = %v, want ErrFilterNotRanged", token, err)
		}
	}
}

func TestHeatmapClustersFilteredRecords(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	now := time.Now()

	loc := &core.Location{Latitude: -6.2, Longitude: 106.8}
	e := core.Expense{
		OwnerID:  "u1",
		Amount:   core.Money{Units: 25000},
		Category: core.CategoryFood,
		Date:     now,
		Location: loc,
	}
	if _, err := st.AddExpense(ctx, e); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	e2 := e
	e2.Amount = core.Money{Units: 50000}
	if _, err := st.AddExpense(ctx, e2); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	svc := NewHistoryService(st, st)
	points, err := svc.Heatmap(ctx, "u1", core.Filter{Token: core.FilterThisMonth})
	if err != nil {
		t.Fatalf("Heatmap() error = %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("Heatmap() returned %d points, want 1", len(points))
	}
	if points[0].Weight != 1.0 {
		t.Errorf("Weight = %v, want 1.0", points[0].Weight)
	}
	if points[0].Latitude != -6.2 || points[0].Longitude != 106.8 {
		t.Errorf("point at (%v, %v), want (-6.2, 106.8)", points[0].Latitude, points[0].Longitude)
	}
}
