// Package httpapi exposes the application over a JSON HTTP API: auth,
// expense CRUD, aggregation, heatmap, budget, places and notifications.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/HilmanThoriq/finterra-app/internal/auth"
	"github.com/HilmanThoriq/finterra-app/internal/cache"
	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/log"
	"github.com/HilmanThoriq/finterra-app/internal/middleware/ratelimit"
	"github.com/HilmanThoriq/finterra-app/internal/middleware/security"
	"github.com/HilmanThoriq/finterra-app/internal/middleware/trace"
	"github.com/HilmanThoriq/finterra-app/internal/places"
	"github.com/HilmanThoriq/finterra-app/internal/services"
	"github.com/HilmanThoriq/finterra-app/internal/store"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// Deps carries everything the server needs. Places may be nil when the
// lookup API is not configured.
type Deps struct {
	Auth          *auth.Service
	Expenses      *services.ExpenseService
	History       *services.HistoryService
	Home          *services.HomeService
	Budgets       store.BudgetStore
	Notifications store.NotificationStore
	Places        *places.Client
	Logger        *log.Logger
}

type Server struct {
	http.Server

	auth          *auth.Service
	expenses      *services.ExpenseService
	history       *services.HistoryService
	home          *services.HomeService
	budgets       store.BudgetStore
	notifications store.NotificationStore
	places        *places.Client

	logger     *log.Logger
	structured *log.StructuredLogger
	validate   *validator.Validate

	limiter  *ratelimit.Limiter
	detector *security.Detector
	headers  *security.HeadersMiddleware
	tracer   *trace.Middleware

	// Read caches keyed by owner version so writes invalidate without
	// enumerating filter keys.
	summaryCache *cache.LRUCache[core.Summary]
	homeCache    *cache.LRUCache[services.HomeData]
	cacheManager *cache.Manager

	verMu    sync.Mutex
	versions map[string]uint64

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	detector := security.NewDetector()

	s := &Server{
		auth:          deps.Auth,
		expenses:      deps.Expenses,
		history:       deps.History,
		home:          deps.Home,
		budgets:       deps.Budgets,
		notifications: deps.Notifications,
		places:        deps.Places,
		logger:        logger.WithComponent(log.ComponentHTTP),
		structured:    log.NewStructuredLogger(logger),
		validate:      validator.New(),
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:      detector,
		headers:       security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		tracer:        trace.NewMiddleware(detector.ExtractClientIP),
		summaryCache:  cache.NewLRUCache[core.Summary](200, 5*time.Minute),
		homeCache:     cache.NewLRUCache[services.HomeData](100, time.Minute),
		cacheManager:  cache.NewManager(),
		versions:      make(map[string]uint64),
		startedAt:     time.Now(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.homeCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/google", s.handleGoogleSignIn)
	mux.HandleFunc("POST /api/auth/signout", s.requireAuth(s.handleSignOut))

	mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("GET /api/expenses/{id}", s.requireAuth(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/summary", s.requireAuth(s.handleSummary))
	mux.HandleFunc("GET /api/heatmap", s.requireAuth(s.handleHeatmap))
	mux.HandleFunc("GET /api/home", s.requireAuth(s.handleHome))

	mux.HandleFunc("GET /api/budget", s.requireAuth(s.handleGetBudget))
	mux.HandleFunc("PUT /api/budget", s.requireAuth(s.handleSetBudget))

	mux.HandleFunc("GET /api/places/nearby", s.requireAuth(s.handleNearbyPlaces))
	mux.HandleFunc("GET /api/places/address", s.requireAuth(s.handleReverseGeocode))

	mux.HandleFunc("GET /api/notifications", s.requireAuth(s.handleListNotifications))

	// Outermost to innermost: tracing, request logger on context,
	// security headers, suspicious-request and rate-limit guard.
	handler := s.guard(mux)
	handler = s.headers.Middleware(handler)
	handler = log.Middleware(s.logger)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// guard applies suspicious-request logging and rate limiting on writes.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := s.detector.ExtractClientIP(r)
		logger := log.FromContext(r.Context())

		if s.detector.DetectSuspiciousRequest(r) {
			logger.WarnContext(r.Context(), "Suspicious request detected",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(clientIP) {
				logger.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuth resolves the Bearer token and puts the owner id on the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ownerID, err := s.auth.VerifyToken(header[len(prefix):])
		if err != nil {
			writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
		next(w, r.WithContext(ctx))
	}
}

func ownerFrom(r *http.Request) string {
	id, _ := r.Context().Value(ownerIDKey).(string)
	return id
}

// Owner versions bump on every write so versioned cache keys go stale
// without enumerating them.
func (s *Server) ownerVersion(ownerID string) uint64 {
	s.verMu.Lock()
	defer s.verMu.Unlock()
	return s.versions[ownerID]
}

func (s *Server) bumpOwnerVersion(ownerID string) {
	s.verMu.Lock()
	s.versions[ownerID]++
	s.verMu.Unlock()
}

func (s *Server) cacheKey(ownerID string, f core.Filter) string {
	return ownerID + "|" + strconv.FormatUint(s.ownerVersion(ownerID), 10) + "|" + f.Token + "|" + f.Search
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
