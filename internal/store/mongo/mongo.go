// Package mongo implements the record store against a MongoDB database, the
// shape of the app's remote document store: expenses, budgets keyed by owner,
// user profiles and notifications, all queried by field.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

const opTimeout = 10 * time.Second

const (
	expensesCollection      = "expenses"
	budgetsCollection       = "budgets"
	usersCollection         = "users"
	notificationsCollection = "notifications"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to the MongoDB deployment and pings it before returning.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	slog.InfoContext(ctx, "MongoDB connection established", "database", database)
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

type locationDoc struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type expenseDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"userId"`
	Amount       int64              `bson:"amount"`
	Category     string             `bson:"category"`
	LocationName string             `bson:"locationName"`
	Location     *locationDoc       `bson:"location"`
	Note         string             `bson:"note"`
	Date         time.Time          `bson:"date"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty"`
}

type budgetDoc struct {
	UserID    string    `bson:"_id"`
	Amount    int64     `bson:"amount"`
	Month     string    `bson:"month"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type userDoc struct {
	UID          string    `bson:"_id"`
	Email        string    `bson:"email"`
	DisplayName  string    `bson:"displayName"`
	PhotoURL     string    `bson:"photoURL"`
	Provider     string    `bson:"provider"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type notificationDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Kind      string    `bson:"kind"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	Read      bool      `bson:"read"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toExpenseDoc(e core.Expense) expenseDoc {
	doc := expenseDoc{
		UserID:       e.OwnerID,
		Amount:       e.Amount.Units,
		Category:     string(e.Category),
		LocationName: e.LocationName,
		Note:         e.Note,
		Date:         e.Date,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Location != nil {
		doc.Location = &locationDoc{Latitude: e.Location.Latitude, Longitude: e.Location.Longitude}
	}
	return doc
}

func fromExpenseDoc(doc expenseDoc) core.Expense {
	e := core.Expense{
		ID:           doc.ID.Hex(),
		OwnerID:      doc.UserID,
		Amount:       core.Money{Units: doc.Amount},
		Category:     core.Category(doc.Category),
		LocationName: doc.LocationName,
		Note:         doc.Note,
		Date:         doc.Date,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if doc.Location != nil {
		e.Location = &core.Location{Latitude: doc.Location.Latitude, Longitude: doc.Location.Longitude}
	}
	return e
}

// AddExpense implements store.ExpenseStore.
func (s *Store) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := toExpenseDoc(e)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	if _, err := s.db.Collection(expensesCollection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	return doc.ID.Hex(), nil
}

// UpdateExpense implements store.ExpenseStore. All mutable fields are
// overwritten; createdAt is left untouched.
func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return store.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := toExpenseDoc(e)
	update := bson.M{"$set": bson.M{
		"amount":       doc.Amount,
		"category":     doc.Category,
		"locationName": doc.LocationName,
		"location":     doc.Location,
		"note":         doc.Note,
		"date":         doc.Date,
		"updatedAt":    time.Now(),
	}}
	res, err := s.db.Collection(expensesCollection).UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteExpense implements store.ExpenseStore.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.db.Collection(expensesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetExpense implements store.ExpenseStore.
func (s *Store) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.Expense{}, store.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc expenseDoc
	err = s.db.Collection(expensesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("find expense: %w", err)
	}
	return fromExpenseDoc(doc), nil
}

// ListExpenses implements store.ExpenseStore. The store query only selects
// by owner; date, category and search filtering happens in memory, same as
// the app always did against the document store.
func (s *Store) ListExpenses(ctx context.Context, ownerID string, f core.Filter) ([]core.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.db.Collection(expensesCollection).Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	var docs []expenseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	records := make([]core.Expense, len(docs))
	for i, doc := range docs {
		records[i] = fromExpenseDoc(doc)
	}
	return core.ApplyFilter(records, f, time.Now()), nil
}

// SetMonthlyBudget implements store.BudgetStore: a single document per
// owner, replaced on every save.
func (s *Store) SetMonthlyBudget(ctx context.Context, ownerID string, amount core.Money, now time.Time) error {
	b := core.Budget{OwnerID: ownerID, Amount: amount, Month: core.MonthKey(now)}
	if err := b.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := budgetDoc{UserID: ownerID, Amount: amount.Units, Month: b.Month, UpdatedAt: now}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(budgetsCollection).ReplaceOne(ctx, bson.M{"_id": ownerID}, doc, opts); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// GetMonthlyBudget implements store.BudgetStore.
func (s *Store) GetMonthlyBudget(ctx context.Context, ownerID string, now time.Time) (core.Money, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc budgetDoc
	err := s.db.Collection(budgetsCollection).FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("find budget: %w", err)
	}
	if doc.Month != core.MonthKey(now) {
		return core.Money{}, nil
	}
	return core.Money{Units: doc.Amount}, nil
}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := userDoc{
		UID:          u.UID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PhotoURL:     u.PhotoURL,
		Provider:     u.Provider,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser implements store.UserStore.
func (s *Store) GetUser(ctx context.Context, uid string) (core.User, error) {
	return s.findUser(ctx, bson.M{"_id": uid})
}

// GetUserByEmail implements store.UserStore.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (core.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc userDoc
	err := s.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user: %w", err)
	}
	return core.User{
		UID:          doc.UID,
		Email:        doc.Email,
		DisplayName:  doc.DisplayName,
		PhotoURL:     doc.PhotoURL,
		Provider:     doc.Provider,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

// AppendNotification implements store.NotificationStore.
func (s *Store) AppendNotification(ctx context.Context, n core.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := notificationDoc{
		ID:        n.ID,
		UserID:    n.OwnerID,
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if _, err := s.db.Collection(notificationsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications implements store.NotificationStore.
func (s *Store) ListNotifications(ctx context.Context, ownerID string, limit int) ([]core.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := s.db.Collection(notificationsCollection).Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	out := make([]core.Notification, len(docs))
	for i, doc := range docs {
		out[i] = core.Notification{
			ID:        doc.ID,
			OwnerID:   doc.UserID,
			Kind:      doc.Kind,
			Title:     doc.Title,
			Body:      doc.Body,
			Read:      doc.Read,
			CreatedAt: doc.CreatedAt,
		}
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
