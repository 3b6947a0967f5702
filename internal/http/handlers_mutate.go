package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"gastos/internal/analytics"
	"gastos/internal/core"
	"gastos/internal/ledger"
)

type expenseRequest struct {
	AmountCents   int64      `json:"amountCents"`
	Amount        string     `json:"amount"`
	Category      string     `json:"category"`
	PaymentMethod string     `json:"paymentMethod"`
	Description   string     `json:"description"`
	Tags          []string   `json:"tags"`
	DueDate       *time.Time `json:"dueDate"`
	Date          *time.Time `json:"date"`
	Recurring     bool       `json:"recurring"`
	Installments  int        `json:"installments"`
}

type incomeRequest struct {
	AmountCents int64      `json:"amountCents"`
	Amount      string     `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
	Recurring   bool       `json:"recurring"`
}

type amountRequest struct {
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
}

type goalRequest struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
}

// requestAmount resolves a request's value: a decimal "amount" string such as
// "123,45" takes precedence over the raw amountCents field.
func requestAmount(amount string, cents int64) (core.Money, error) {
	if strings.TrimSpace(amount) != "" {
		c, err := core.ParseDecimalToCents(amount)
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Cents: c}, nil
	}
	return core.Money{Cents: cents}, nil
}

type nameRequest struct {
	Name string `json:"name"`
}

type idRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodDelete:
		s.deleteExpense(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	amount, err := requestAmount(req.Amount, req.AmountCents)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	exp, err := s.store.AddExpense(ctx, ledger.ExpenseInput{
		Amount:        amount,
		Category:      sanitizeInput(req.Category),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		Description:   sanitizeInput(req.Description),
		Tags:          req.Tags,
		DueDate:       req.DueDate,
		Date:          date,
		Recurring:     req.Recurring,
		Installments:  req.Installments,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateViews()
	s.audit.ExpenseCreated(ctx, exp.ID, exp.Description, exp.Amount.Cents, exp.Category, exp.PaymentMethod)
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateViews()
	s.audit.ExpenseDeleted(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePayInstallment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req idRequest
	if err := decodeBody(r, &req); err != nil || req.ID == "" {
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing id"})
			return
		}
		req.ID = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	exp, err := s.store.PayInstallment(ctx, req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateViews()
	s.audit.InstallmentPaid(ctx, exp.ID, exp.PaidInstallments, exp.Installments)
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listIncome(w, r)
	case http.MethodPost:
		s.createIncome(w, r)
	case http.MethodDelete:
		s.deleteIncome(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) createIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	amount, err := requestAmount(req.Amount, req.AmountCents)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	in, err := s.store.AddIncome(ctx, ledger.IncomeInput{
		Amount:      amount,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
		Recurring:   req.Recurring,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateViews()
	s.audit.IncomeCreated(ctx, in.ID, in.Description, in.Amount.Cents, in.Category)
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) deleteIncome(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.store.DeleteIncome(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateViews()
	s.audit.IncomeDeleted(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		year, month := periodParams(r)
		alertsOnly := r.URL.Query().Get("alerts") == "1"
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		progress, err := s.goalStatus(ctx, year, month, alertsOnly)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, progress)

	case http.MethodPost:
		var req goalRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		amount, err := requestAmount(req.Amount, req.AmountCents)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		if err := s.store.SetGoal(ctx, sanitizeInput(req.Category), amount); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateViews()
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		category := strings.TrimSpace(r.URL.Query().Get("category"))
		if category == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing category"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		if err := s.store.RemoveGoal(ctx, category); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateViews()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		year, month := periodParams(r)
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		totals := analytics.MonthlyTotals(snap.Expenses, snap.Income, year, month)
		writeJSON(w, http.StatusOK, analytics.EvaluateBudget(totals, snap.Budget, year, month, time.Now()))

	case http.MethodPost:
		var req amountRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		amount, err := requestAmount(req.Amount, req.AmountCents)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		if err := s.store.SetMonthlyBudget(ctx, amount); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateViews()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		avg := analytics.AverageMonthlyExpenses(snap.Expenses, time.Now())
		writeJSON(w, http.StatusOK, analytics.EvaluateReserve(snap.Reserve, avg))

	case http.MethodPost:
		var req amountRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		amount, err := requestAmount(req.Amount, req.AmountCents)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		if err := s.store.SetEmergencyReserve(ctx, amount); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateViews()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleSet serves the shared GET/POST/DELETE shape of the category, card and
// tag registries.
func (s *Server) handleSet(
	w http.ResponseWriter, r *http.Request,
	list func(context.Context) ([]string, error),
	add func(context.Context, string) error,
	remove func(context.Context, string) error,
) {
	switch r.Method {
	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		items, err := list(ctx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if items == nil {
			items = []string{}
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var req nameRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		if err := add(ctx, sanitizeInput(req.Name)); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateViews()
		w.WriteHeader(http.StatusCreated)

	case http.MethodDelete:
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing name"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()

		if err := remove(ctx, name); err != nil {
			writeError(w, r, err)
			return
		}
		s.invalidateViews()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handleExpenseCategories(w http.ResponseWriter, r *http.Request) {
	s.handleSet(w, r, s.store.ExpenseCategories, s.store.AddExpenseCategory, s.store.RemoveExpenseCategory)
}

func (s *Server) handleIncomeCategories(w http.ResponseWriter, r *http.Request) {
	s.handleSet(w, r, s.store.IncomeCategories, s.store.AddIncomeCategory, s.store.RemoveIncomeCategory)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	s.handleSet(w, r, s.store.CreditCards, s.store.AddCreditCard, s.store.RemoveCreditCard)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	s.handleSet(w, r, s.store.Tags, s.store.AddTag, s.store.RemoveTag)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.store.Reset(ctx); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateViews()
	s.views.Clear()
	w.WriteHeader(http.StatusNoContent)
}
