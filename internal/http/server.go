package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gastos/internal/cache"
	"gastos/internal/ledger"
	applog "gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
)

// Server is the JSON API surface over the ledger. Computed views (summary,
// breakdowns, evolution) go through an LRU cache keyed by a mutation
// generation counter: any write bumps the counter and strands the stale
// entries for LRU eviction.
type Server struct {
	http.Server
	store *ledger.Store

	rateLimiter *ratelimit.Limiter
	clientIPs   *security.ClientIPResolver
	headers     *security.Headers
	tracer      *trace.Middleware
	audit       *applog.AuditLogger

	views      *cache.LRUCache[[]byte]
	generation atomic.Uint64

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, store *ledger.Store) *Server {
	mux := http.NewServeMux()

	clientIPs := security.NewClientIPResolver()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		clientIPs:   clientIPs,
		headers:     security.NewHeaders(security.DefaultHeadersConfig()),
		audit:       applog.NewAuditLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger)),
		views:       cache.NewLRUCache[[]byte](200, 5*time.Minute),
	}
	s.tracer = trace.NewMiddleware(clientIPs.Resolve)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/api/expenses/pay", s.withMiddleware(s.handlePayInstallment))
	mux.HandleFunc("/api/income", s.withMiddleware(s.handleIncome))

	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/breakdown/category", s.withMiddleware(s.handleCategoryBreakdown))
	mux.HandleFunc("/api/breakdown/payment", s.withMiddleware(s.handlePaymentBreakdown))
	mux.HandleFunc("/api/invoices", s.withMiddleware(s.handleInvoices))
	mux.HandleFunc("/api/evolution", s.withMiddleware(s.handleEvolution))
	mux.HandleFunc("/api/compare", s.withMiddleware(s.handleCompare))
	mux.HandleFunc("/api/insights", s.withMiddleware(s.handleInsights))
	mux.HandleFunc("/api/bills/upcoming", s.withMiddleware(s.handleUpcomingBills))
	mux.HandleFunc("/api/export/xlsx", s.withMiddleware(s.handleExportXLSX))

	mux.HandleFunc("/api/goals", s.withMiddleware(s.handleGoals))
	mux.HandleFunc("/api/budget", s.withMiddleware(s.handleBudget))
	mux.HandleFunc("/api/reserve", s.withMiddleware(s.handleReserve))

	mux.HandleFunc("/api/categories/expense", s.withMiddleware(s.handleExpenseCategories))
	mux.HandleFunc("/api/categories/income", s.withMiddleware(s.handleIncomeCategories))
	mux.HandleFunc("/api/cards", s.withMiddleware(s.handleCards))
	mux.HandleFunc("/api/tags", s.withMiddleware(s.handleTags))
	mux.HandleFunc("/api/reset", s.withMiddleware(s.handleReset))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateViews bumps the generation counter so cached computed views can
// no longer be hit.
func (s *Server) invalidateViews() {
	s.generation.Add(1)
}

// viewKey namespaces a cache key by the current mutation generation.
func (s *Server) viewKey(parts string) string {
	return fmt.Sprintf("g%d:%s", s.generation.Load(), parts)
}

// withMiddleware chains tracing, security headers and rate limiting around a
// handler. Reads are never rate limited.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			clientIP := s.clientIPs.Resolve(r)
			if !s.rateLimiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next(w, r)
	})

	handler := s.headers.Middleware(limited)
	handler = s.tracer.Middleware(handler)
	return handler.ServeHTTP
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.store.Expenses(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
