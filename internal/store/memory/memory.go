// Package memory holds an in-process record store used for development and
// as the test fixture for the services and HTTP layers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

type Store struct {
	mu            sync.Mutex
	seq           int
	expenses      map[string]core.Expense
	budgets       map[string]core.Budget
	users         map[string]core.User
	notifications []core.Notification
}

func New() *Store {
	return &Store{
		expenses: make(map[string]core.Expense),
		budgets:  make(map[string]core.Budget),
		users:    make(map[string]core.User),
	}
}

func (s *Store) Close() error { return nil }

// AddExpense implements store.ExpenseStore.
func (s *Store) AddExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	e.ID = fmt.Sprintf("mem:%d", s.seq)
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.expenses[e.ID] = e
	return e.ID, nil
}

// UpdateExpense implements store.ExpenseStore.
func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.expenses[e.ID]
	if !ok {
		return store.ErrNotFound
	}
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = time.Now()
	s.expenses[e.ID] = e
	return nil
}

// DeleteExpense implements store.ExpenseStore.
func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

// GetExpense implements store.ExpenseStore.
func (s *Store) GetExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, store.ErrNotFound
	}
	return e, nil
}

// ListExpenses implements store.ExpenseStore.
func (s *Store) ListExpenses(_ context.Context, ownerID string, f core.Filter) ([]core.Expense, error) {
	s.mu.Lock()
	var all []core.Expense
	for _, e := range s.expenses {
		if e.OwnerID == ownerID {
			all = append(all, e)
		}
	}
	s.mu.Unlock()
	return core.ApplyFilter(all, f, time.Now()), nil
}

// SetMonthlyBudget implements store.BudgetStore.
func (s *Store) SetMonthlyBudget(_ context.Context, ownerID string, amount core.Money, now time.Time) error {
	b := core.Budget{OwnerID: ownerID, Amount: amount, Month: core.MonthKey(now), UpdatedAt: now}
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[ownerID] = b
	return nil
}

// GetMonthlyBudget implements store.BudgetStore.
func (s *Store) GetMonthlyBudget(_ context.Context, ownerID string, now time.Time) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[ownerID]
	if !ok || !b.ActiveFor(now) {
		return core.Money{}, nil
	}
	return b.Amount, nil
}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UID] = u
	return nil
}

// GetUser implements store.UserStore.
func (s *Store) GetUser(_ context.Context, uid string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

// GetUserByEmail implements store.UserStore.
func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

// AppendNotification implements store.NotificationStore.
func (s *Store) AppendNotification(_ context.Context, n core.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

// ListNotifications implements store.NotificationStore.
func (s *Store) ListNotifications(_ context.Context, ownerID string, limit int) ([]core.Notification, error) {
	s.mu.Lock()
	var out []core.Notification
	for _, n := range s.notifications {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
