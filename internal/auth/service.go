// Package auth implements account creation, sign-in and session handling
// over the user store.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

const (
	minPasswordLength  = 6
	maxFailedAttempts  = 5
	failedAttemptsSpan = 15 * time.Minute
)

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	User  core.User
	Token string
}

// Listener is invoked on auth state changes. The user is nil after
// sign-out.
type Listener func(user *core.User)

type failureWindow struct {
	count int
	first time.Time
}

// Service implements the account flows. Failed password attempts are
// throttled per email.
type Service struct {
	users  store.UserStore
	tokens *TokenIssuer
	google GoogleVerifier
	logger *slog.Logger

	mu        sync.Mutex
	failures  map[string]failureWindow
	listeners map[int]Listener
	nextSub   int
}

func NewService(users store.UserStore, tokens *TokenIssuer, google GoogleVerifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		google:    google,
		logger:    logger,
		failures:  make(map[string]failureWindow),
		listeners: make(map[int]Listener),
	}
}

// SignUp registers a new email/password account and opens a session.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return Session{}, ErrWeakPassword
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	if displayName == "" {
		displayName = "User"
	}
	now := time.Now()
	user := core.User{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		Provider:     "email",
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return Session{}, err
	}

	s.logger.InfoContext(ctx, "User registered", "uid", user.UID, "provider", user.Provider)
	return s.openSession(user)
}

// SignIn authenticates an email/password account.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if s.throttled(email) {
		return Session{}, ErrTooManyRequests
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrUserNotFound
	}
	if err != nil {
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(email)
		return Session{}, ErrWrongPassword
	}

	s.clearFailures(email)
	s.logger.InfoContext(ctx, "User signed in", "uid", user.UID, "provider", user.Provider)
	return s.openSession(user)
}

// SignInWithGoogle verifies a Google ID token, creating the account on
// first sign-in.
func (s *Service) SignInWithGoogle(ctx context.Context, idToken string) (Session, error) {
	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return Session{}, ErrInvalidCredential
	}

	user, err := s.users.GetUser(ctx, profile.Subject)
	if errors.Is(err, store.ErrNotFound) {
		displayName := profile.Name
		if displayName == "" {
			displayName = "User"
		}
		now := time.Now()
		user = core.User{
			UID:         profile.Subject,
			Email:       profile.Email,
			DisplayName: displayName,
			PhotoURL:    profile.Picture,
			Provider:    "google",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return Session{}, err
		}
		s.logger.InfoContext(ctx, "User registered", "uid", user.UID, "provider", user.Provider)
	} else if err != nil {
		return Session{}, err
	}

	s.logger.InfoContext(ctx, "User signed in", "uid", user.UID, "provider", user.Provider)
	return s.openSession(user)
}

// SignOut ends the session and notifies listeners.
func (s *Service) SignOut(ctx context.Context) {
	s.logger.InfoContext(ctx, "User signed out")
	s.notify(nil)
}

// VerifyToken returns the user id a session token was issued to.
func (s *Service) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// Subscribe registers an auth state listener and returns a cancel func.
func (s *Service) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) openSession(user core.User) (Session, error) {
	token, err := s.tokens.Issue(user.UID)
	if err != nil {
		return Session{}, err
	}
	s.notify(&user)
	return Session{User: user, Token: token}, nil
}

func (s *Service) notify(user *core.User) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(user)
	}
}

func (s *Service) throttled(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.failures[email]
	if !ok {
		return false
	}
	if time.Since(w.first) > failedAttemptsSpan {
		delete(s.failures, email)
		return false
	}
	return w.count >= maxFailedAttempts
}

func (s *Service) recordFailure(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.failures[email]
	if !ok || time.Since(w.first) > failedAttemptsSpan {
		w = failureWindow{first: time.Now()}
	}
	w.count++
	s.failures[email] = w
}

func (s *Service) clearFailures(email string) {
	s.mu.Lock()
	delete(s.failures, email)
	s.mu.Unlock()
}
