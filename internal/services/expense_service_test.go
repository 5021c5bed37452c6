package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/events"
	"github.com/HilmanThoriq/finterra-app/internal/store/memory"
)

type fakePublisher struct {
	published []*events.ExpenseEvent
	err       error
}

func (f *fakePublisher) PublishExpenseEvent(ctx context.Context, event *events.ExpenseEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func testExpense(owner string, units int64) core.Expense {
	return core.Expense{
		OwnerID:  owner,
		Amount:   core.Money{Units: units},
		Category: core.CategoryFood,
		Date:     time.Now(),
	}
}

func TestCreateExpensePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)
	ctx := context.Background()

	id, err := svc.CreateExpense(ctx, testExpense("u1", 25000))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if id == "" {
		t.Fatal("CreateExpense() returned empty id")
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	evt := pub.published[0]
	if evt.Action != events.ActionCreate {
		t.Errorf("Action = %q, want create", evt.Action)
	}
	if evt.ExpenseID != id {
		t.Errorf("ExpenseID = %q, want %q", evt.ExpenseID, id)
	}
	if evt.AmountUnits != 25000 {
		t.Errorf("AmountUnits = %d, want 25000", evt.AmountUnits)
	}
}

func TestCreateExpenseToleratesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	st := memory.New()
	svc := NewExpenseService(st, pub)
	ctx := context.Background()

	id, err := svc.CreateExpense(ctx, testExpense("u1", 25000))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v, want nil despite publish failure", err)
	}
	if _, err := st.GetExpense(ctx, id); err != nil {
		t.Errorf("expense not saved: %v", err)
	}
}

func TestCreateExpenseWithoutPublisher(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	if _, err := svc.CreateExpense(context.Background(), testExpense("u1", 100)); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
}

func TestUpdateExpensePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	st := memory.New()
	svc := NewExpenseService(st, pub)
	ctx := context.Background()

	id, err := svc.CreateExpense(ctx, testExpense("u1", 25000))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	e, err := st.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	e.Amount = core.Money{Units: 30000}
	if err := svc.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.published))
	}
	if pub.published[1].Action != events.ActionUpdate {
		t.Errorf("Action = %q, want update", pub.published[1].Action)
	}
	if pub.published[1].AmountUnits != 30000 {
		t.Errorf("AmountUnits = %d, want 30000", pub.published[1].AmountUnits)
	}
}

func TestDeleteExpensePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	st := memory.New()
	svc := NewExpenseService(st, pub)
	ctx := context.Background()

	id, err := svc.CreateExpense(ctx, testExpense("u1", 25000))
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if err := svc.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.published))
	}
	evt := pub.published[1]
	if evt.Action != events.ActionDelete {
		t.Errorf("Action = %q, want delete", evt.Action)
	}
	if evt.OwnerID != "u1" {
		t.Errorf("OwnerID = %q, want u1", evt.OwnerID)
	}
	if evt.AmountUnits != 25000 {
		t.Errorf("AmountUnits = %d, want 25000", evt.AmountUnits)
	}
}

func TestDeleteExpenseMissing(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	if err := svc.DeleteExpense(context.Background(), "missing"); err == nil {
		t.Error("DeleteExpense(missing) error = nil, want error")
	}
}
