// Package http exposes the REST API. Handlers stay thin: decode, delegate to
// a service, encode. Every /api route is scoped to the owner named in the
// X-User-ID header.
package http

import (
	"context"
	"net/http"
	"sync"

	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type Server struct {
	http.Server

	ledger  *services.LedgerService
	budgets *services.BudgetService
	goals   *services.GoalService
	reports *services.ReportService
	alerts  storage.AlertStore

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, ledger *services.LedgerService, budgets *services.BudgetService, goals *services.GoalService, reports *services.ReportService, alerts storage.AlertStore) *Server {
	s := &Server{
		ledger:  ledger,
		budgets: budgets,
		goals:   goals,
		reports: reports,
		alerts:  alerts,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/transactions", s.requireOwner(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.requireOwner(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", s.requireOwner(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireOwner(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireOwner(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/budgets", s.requireOwner(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets", s.requireOwner(s.handleListBudgets))
	mux.HandleFunc("GET /api/budgets/snapshots", s.requireOwner(s.handleBudgetSnapshots))
	mux.HandleFunc("GET /api/budgets/{id}", s.requireOwner(s.handleGetBudget))
	mux.HandleFunc("GET /api/budgets/{id}/snapshot", s.requireOwner(s.handleBudgetSnapshot))
	mux.HandleFunc("PUT /api/budgets/{id}", s.requireOwner(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.requireOwner(s.handleDeleteBudget))

	mux.HandleFunc("POST /api/goals", s.requireOwner(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals", s.requireOwner(s.handleListGoals))
	mux.HandleFunc("GET /api/goals/progress", s.requireOwner(s.handleGoalProgressAll))
	mux.HandleFunc("GET /api/goals/{id}", s.requireOwner(s.handleGetGoal))
	mux.HandleFunc("GET /api/goals/{id}/progress", s.requireOwner(s.handleGoalProgress))
	mux.HandleFunc("PUT /api/goals/{id}", s.requireOwner(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.requireOwner(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/analytics/summary", s.requireOwner(s.handleSummary))
	mux.HandleFunc("GET /api/analytics/monthly", s.requireOwner(s.handleMonthly))
	mux.HandleFunc("GET /api/analytics/trend", s.requireOwner(s.handleTrend))

	mux.HandleFunc("GET /api/insights/smart-budget", s.requireOwner(s.handleSmartBudget))
	mux.HandleFunc("GET /api/insights/health", s.requireOwner(s.handleHealthScore))

	mux.HandleFunc("POST /api/categorize", s.requireOwner(s.handleCategorize))
	mux.HandleFunc("GET /api/alerts", s.requireOwner(s.handleListAlerts))

	resolver := security.NewClientIPResolver()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(resolver.Resolve)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(resolver.Resolve)(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// requireOwner rejects requests without an owner header.
func (s *Server) requireOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ownerID(r) == "" {
			respondError(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
			return
		}
		next(w, r)
	}
}

// Shutdown stops the HTTP server and background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
