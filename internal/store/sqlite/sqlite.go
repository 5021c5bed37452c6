// Package sqlite implements the record store against a local SQLite file.
// It serves offline development and single-user deployments where a
// document store is not available.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file and applies pending
// migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddExpense implements store.ExpenseStore.
func (s *Store) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := time.Now()
	var lat, lon sql.NullFloat64
	if e.Location != nil {
		lat = sql.NullFloat64{Float64: e.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: e.Location.Longitude, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, owner_id, amount_units, category, location_name, latitude, longitude, note, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.OwnerID, e.Amount.Units, string(e.Category), e.LocationName, lat, lon, e.Note, e.Date, now, now)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	return id, nil
}

// UpdateExpense implements store.ExpenseStore.
func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	var lat, lon sql.NullFloat64
	if e.Location != nil {
		lat = sql.NullFloat64{Float64: e.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: e.Location.Longitude, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET amount_units = ?, category = ?, location_name = ?, latitude = ?, longitude = ?, note = ?, date = ?, updated_at = ?
		WHERE id = ?`,
		e.Amount.Units, string(e.Category), e.LocationName, lat, lon, e.Note, e.Date, time.Now(), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteExpense implements store.ExpenseStore.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetExpense implements store.ExpenseStore.
func (s *Store) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, amount_units, category, location_name, latitude, longitude, note, date, created_at, updated_at
		FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses implements store.ExpenseStore. The query selects by owner
// only; token, category and search filtering happens in memory.
func (s *Store) ListExpenses(ctx context.Context, ownerID string, f core.Filter) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, amount_units, category, location_name, latitude, longitude, note, date, created_at, updated_at
		FROM expenses WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var records []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return core.ApplyFilter(records, f, time.Now()), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	var category string
	var lat, lon sql.NullFloat64
	err := row.Scan(&e.ID, &e.OwnerID, &e.Amount.Units, &category, &e.LocationName,
		&lat, &lon, &e.Note, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(category)
	if lat.Valid && lon.Valid {
		e.Location = &core.Location{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return e, nil
}

// SetMonthlyBudget implements store.BudgetStore.
func (s *Store) SetMonthlyBudget(ctx context.Context, ownerID string, amount core.Money, now time.Time) error {
	b := core.Budget{OwnerID: ownerID, Amount: amount, Month: core.MonthKey(now)}
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (owner_id, amount_units, month, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET amount_units = excluded.amount_units, month = excluded.month, updated_at = excluded.updated_at`,
		ownerID, amount.Units, b.Month, now)
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// GetMonthlyBudget implements store.BudgetStore.
func (s *Store) GetMonthlyBudget(ctx context.Context, ownerID string, now time.Time) (core.Money, error) {
	var units int64
	var month string
	err := s.db.QueryRowContext(ctx, `SELECT amount_units, month FROM budgets WHERE owner_id = ?`, ownerID).
		Scan(&units, &month)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get budget: %w", err)
	}
	if month != core.MonthKey(now) {
		return core.Money{}, nil
	}
	return core.Money{Units: units}, nil
}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (uid, email, display_name, photo_url, provider, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.UID, u.Email, u.DisplayName, u.PhotoURL, u.Provider, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser implements store.UserStore.
func (s *Store) GetUser(ctx context.Context, uid string) (core.User, error) {
	return s.findUser(ctx, `WHERE uid = ?`, uid)
}

// GetUserByEmail implements store.UserStore.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.findUser(ctx, `WHERE email = ? COLLATE NOCASE`, email)
}

func (s *Store) findUser(ctx context.Context, where string, arg any) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx, `
		SELECT uid, email, display_name, photo_url, provider, password_hash, created_at, updated_at
		FROM users `+where, arg).
		Scan(&u.UID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.Provider, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// AppendNotification implements store.NotificationStore.
func (s *Store) AppendNotification(ctx context.Context, n core.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, owner_id, kind, title, body, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, n.Kind, n.Title, n.Body, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications implements store.NotificationStore.
func (s *Store) ListNotifications(ctx context.Context, ownerID string, limit int) ([]core.Notification, error) {
	q := `SELECT id, owner_id, kind, title, body, read, created_at FROM notifications WHERE owner_id = ? ORDER BY created_at DESC`
	args := []any{ownerID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []core.Notification
	for rows.Next() {
		var n core.Notification
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
