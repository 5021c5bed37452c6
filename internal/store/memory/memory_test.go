package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

func testExpense(owner string, units int64, date time.Time) core.Expense {
	return core.Expense{
		OwnerID:  owner,
		Amount:   core.Money{Units: units},
		Category: core.CategoryFood,
		Date:     date,
	}
}

func TestExpenseCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	id, err := s.AddExpense(ctx, testExpense("u1", 25000, now))
	if err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if id == "" {
		t.Fatal("AddExpense() returned empty id")
	}

	got, err := s.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if got.Amount.Units != 25000 {
		t.Errorf("Amount = %d, want 25000", got.Amount.Units)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped on insert")
	}

	updated := got
	updated.Amount = core.Money{Units: 30000}
	updated.Note = "revised"
	if err := s.UpdateExpense(ctx, updated); err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	got2, err := s.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("GetExpense() after update error = %v", err)
	}
	if got2.Amount.Units != 30000 || got2.Note != "revised" {
		t.Errorf("update not applied: amount=%d note=%q", got2.Amount.Units, got2.Note)
	}
	if !got2.CreatedAt.Equal(got.CreatedAt) {
		t.Error("UpdateExpense() must not change CreatedAt")
	}

	if err := s.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if _, err := s.GetExpense(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetExpense() after delete error = %v, want ErrNotFound", err)
	}
}

func TestExpenseNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.GetExpense(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetExpense(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteExpense(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteExpense(missing) error = %v, want ErrNotFound", err)
	}
	e := testExpense("u1", 100, time.Now())
	e.ID = "missing"
	if err := s.UpdateExpense(ctx, e); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateExpense(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListExpensesScopedByOwner(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	if _, err := s.AddExpense(ctx, testExpense("u1", 100, now)); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	if _, err := s.AddExpense(ctx, testExpense("u2", 200, now)); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	got, err := s.ListExpenses(ctx, "u1", core.Filter{Token: core.FilterAll})
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListExpenses() returned %d records, want 1", len(got))
	}
	if got[0].OwnerID != "u1" {
		t.Errorf("OwnerID = %q, want u1", got[0].OwnerID)
	}
}

func TestBudgetMonthRollover(t *testing.T) {
	s := New()
	ctx := context.Background()
	november := time.Date(2025, time.November, 16, 10, 0, 0, 0, time.UTC)
	december := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	if err := s.SetMonthlyBudget(ctx, "u1", core.Money{Units: 1000000}, november); err != nil {
		t.Fatalf("SetMonthlyBudget() error = %v", err)
	}

	got, err := s.GetMonthlyBudget(ctx, "u1", november)
	if err != nil {
		t.Fatalf("GetMonthlyBudget() error = %v", err)
	}
	if got.Units != 1000000 {
		t.Errorf("budget in same month = %d, want 1000000", got.Units)
	}

	got, err = s.GetMonthlyBudget(ctx, "u1", december)
	if err != nil {
		t.Fatalf("GetMonthlyBudget() error = %v", err)
	}
	if got.Units != 0 {
		t.Errorf("budget after rollover = %d, want 0", got.Units)
	}
}

func TestUserStore(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := core.User{UID: "uid-1", Email: "a@b.com", DisplayName: "A", Provider: "password"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := s.GetUser(ctx, "uid-1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Email != "a@b.com" {
		t.Errorf("Email = %q, want a@b.com", got.Email)
	}

	got, err = s.GetUserByEmail(ctx, "A@B.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.UID != "uid-1" {
		t.Errorf("UID = %q, want uid-1", got.UID)
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@b.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUserByEmail(missing) error = %v, want ErrNotFound", err)
	}
}

func TestNotificationsNewestFirstWithLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2025, time.November, 16, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		n := core.Notification{
			ID:        string(rune('a' + i)),
			OwnerID:   "u1",
			Kind:      "expense_added",
			Title:     "t",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendNotification(ctx, n); err != nil {
			t.Fatalf("AppendNotification() error = %v", err)
		}
	}

	got, err := s.ListNotifications(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListNotifications() returned %d, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("order = [%s %s], want newest first [c b]", got[0].ID, got[1].ID)
	}
}
