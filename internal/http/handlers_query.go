package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gastos/internal/analytics"
	"gastos/internal/export"
)

// cachedView serves a computed view from the LRU cache, computing and
// storing the JSON encoding on a miss.
func (s *Server) cachedView(w http.ResponseWriter, r *http.Request, key string, compute func(ctx context.Context) (any, error)) {
	fullKey := s.viewKey(key)
	if body, ok := s.views.Get(fullKey); ok {
		slog.DebugContext(r.Context(), "View cache hit", "key", key)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	view, err := compute(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := jsonBody(view)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.views.Set(fullKey, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month := periodParams(r)

	s.cachedView(w, r, fmt.Sprintf("summary:%d-%d", year, month), func(ctx context.Context) (any, error) {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return analytics.MonthlyTotals(snap.Expenses, snap.Income, year, month), nil
	})
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month := periodParams(r)

	s.cachedView(w, r, fmt.Sprintf("breakdown-cat:%d-%d", year, month), func(ctx context.Context) (any, error) {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return analytics.CategoryBreakdown(snap.Expenses, snap.Income, year, month), nil
	})
}

func (s *Server) handlePaymentBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month := periodParams(r)

	s.cachedView(w, r, fmt.Sprintf("breakdown-pay:%d-%d", year, month), func(ctx context.Context) (any, error) {
		expenses, err := s.store.Expenses(ctx)
		if err != nil {
			return nil, err
		}
		return analytics.PaymentBreakdown(expenses, year, month), nil
	})
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month := periodParams(r)

	s.cachedView(w, r, fmt.Sprintf("invoices:%d-%d", year, month), func(ctx context.Context) (any, error) {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return analytics.CardInvoices(snap.Expenses, snap.CreditCards, year, month), nil
	})
}

func (s *Server) handleEvolution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month := periodParams(r)
	window := intParam(r, "window", 6)

	s.cachedView(w, r, fmt.Sprintf("evolution:%d-%d-%d", year, month, window), func(ctx context.Context) (any, error) {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return analytics.Evolution(snap.Expenses, snap.Income, year, month, window), nil
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	bounds := make([]time.Time, 0, 4)
	for _, name := range []string{"p1Start", "p1End", "p2Start", "p2End"} {
		t, err := dateParam(r, name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		bounds = append(bounds, t)
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cmp := analytics.ComparePeriods(snap.Expenses, snap.Income, bounds[0], bounds[1], bounds[2], bounds[3])
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month := periodParams(r)

	s.cachedView(w, r, fmt.Sprintf("insights:%d-%d", year, month), func(ctx context.Context) (any, error) {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		totals := analytics.MonthlyTotals(snap.Expenses, snap.Income, year, month)
		budget := analytics.EvaluateBudget(totals, snap.Budget, year, month, now)
		insights := analytics.GenerateInsights(snap.Expenses, snap.Income, year, month, budget, now)
		if insights == nil {
			insights = []analytics.Insight{}
		}
		return insights, nil
	})
}

func (s *Server) handleUpcomingBills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	horizon := intParam(r, "horizon", 7)

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	bills := analytics.UpcomingBills(expenses, time.Now(), horizon)
	if bills == nil {
		bills = []analytics.UpcomingBill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month := periodParams(r)

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("gastos_%04d-%02d.xlsx", year, int(month))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.MonthlyReport(w, snap.Expenses, snap.Income, year, month); err != nil {
		slog.ErrorContext(ctx, "Report export failed", "error", err, "year", year, "month", int(month))
	}
}

// listExpenses serves the period-filtered expense list.
func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	year, month := periodParams(r)
	filter, err := filterParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics.FilterExpenses(expenses, year, month, filter))
}

// listIncome serves the period-filtered income list.
func (s *Server) listIncome(w http.ResponseWriter, r *http.Request) {
	year, month := periodParams(r)
	filter, err := filterParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	income, err := s.store.Income(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics.FilterIncome(income, year, month, filter))
}

// goalStatus computes goal progress for the period; with alertsOnly set it
// keeps only goals in warning or danger.
func (s *Server) goalStatus(ctx context.Context, year int, month time.Month, alertsOnly bool) ([]analytics.GoalProgress, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := analytics.CategoryBreakdown(snap.Expenses, snap.Income, year, month)
	var progress []analytics.GoalProgress
	if alertsOnly {
		progress = analytics.CheckGoals(breakdown, snap.Goals)
	} else {
		progress = analytics.EvaluateGoals(breakdown, snap.Goals)
	}
	if progress == nil {
		progress = []analytics.GoalProgress{}
	}
	return progress, nil
}
