package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/analytics"
	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := ledger.New(storage.NewMemoryStore())
	srv := NewServer(":0", store)
	t.Cleanup(func() { srv.rateLimiter.Stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListExpenses(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents": 2500,
		"category":    "🍔 Alimentação",
		"description": "almoço",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(2500), created.Amount.Cents)

	now := time.Now()
	list := doJSON(t, srv, http.MethodGet,
		fmt.Sprintf("/api/expenses?year=%d&month=%d", now.Year(), int(now.Month())), nil)
	require.Equal(t, http.StatusOK, list.Code)

	var expenses []core.Expense
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &expenses))
	require.Len(t, expenses, 1)
	assert.Equal(t, "almoço", expenses[0].Description)
}

func TestCreateExpenseUnknownCategory(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents": 2500,
		"category":    "🛸 Inexistente",
		"description": "nope",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateExpenseDecimalAmount(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amount":      "150,75",
		"category":    "🍔 Alimentação",
		"description": "mercado",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(15075), created.Amount.Cents)

	bad := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amount":      "abc",
		"category":    "🍔 Alimentação",
		"description": "inválido",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, bad.Code)
}

func TestSetBudgetDecimalAmount(t *testing.T) {
	srv := newTestServer(t)

	set := doJSON(t, srv, http.MethodPost, "/api/budget", map[string]any{
		"amount": "1200.50",
	})
	require.Equal(t, http.StatusNoContent, set.Code)

	get := doJSON(t, srv, http.MethodGet, "/api/budget", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var status analytics.BudgetStatus
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &status))
	assert.True(t, status.Defined)
	assert.Equal(t, int64(120050), status.Budget.Cents)
}

func TestDeleteExpenseNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/expenses?id=missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryReflectsMutations(t *testing.T) {
	srv := newTestServer(t)
	now := time.Now()
	target := fmt.Sprintf("/api/summary?year=%d&month=%d", now.Year(), int(now.Month()))

	before := doJSON(t, srv, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, before.Code)

	var totals analytics.Totals
	require.NoError(t, json.Unmarshal(before.Body.Bytes(), &totals))
	assert.Equal(t, int64(0), totals.Expenses.Cents)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents": 9900,
		"category":    "🍔 Alimentação",
		"description": "jantar",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// the cached view must not survive the write
	after := doJSON(t, srv, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, after.Code)
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &totals))
	assert.Equal(t, int64(9900), totals.Expenses.Cents)
}

func TestPayInstallmentFlow(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, srv, http.MethodPost, "/api/cards",
		map[string]any{"name": "Nubank"}).Code)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents":   30000,
		"category":      "🏠 Moradia",
		"paymentMethod": "💳 Nubank Crédito",
		"description":   "geladeira",
		"installments":  3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(10000), created.Amount.Cents)
	assert.Equal(t, int64(30000), created.TotalAmount.Cents)

	pay := doJSON(t, srv, http.MethodPost, "/api/expenses/pay", map[string]any{"id": created.ID})
	require.Equal(t, http.StatusOK, pay.Code)

	var paid core.Expense
	require.NoError(t, json.Unmarshal(pay.Body.Bytes(), &paid))
	assert.Equal(t, 1, paid.PaidInstallments)
}

func TestGoalsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	set := doJSON(t, srv, http.MethodPost, "/api/goals", map[string]any{
		"category":    "🍔 Alimentação",
		"amountCents": 50000,
	})
	require.Equal(t, http.StatusNoContent, set.Code)

	get := doJSON(t, srv, http.MethodGet, "/api/goals", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var progress []analytics.GoalProgress
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &progress))
	require.Len(t, progress, 1)
	assert.Equal(t, "🍔 Alimentação", progress[0].Category)
	assert.Equal(t, analytics.StatusOK, progress[0].Status)

	del := doJSON(t, srv, http.MethodDelete, "/api/goals?category="+url.QueryEscape("🍔 Alimentação"), nil)
	assert.Equal(t, http.StatusNoContent, del.Code)
}

func TestGoalAlertsFilter(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusNoContent, doJSON(t, srv, http.MethodPost, "/api/goals", map[string]any{
		"category":    "🍔 Alimentação",
		"amountCents": 10000,
	}).Code)
	require.Equal(t, http.StatusNoContent, doJSON(t, srv, http.MethodPost, "/api/goals", map[string]any{
		"category":    "🚗 Transporte",
		"amountCents": 100000,
	}).Code)

	// blow through the first goal, stay well under the second
	require.Equal(t, http.StatusCreated, doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents": 12000,
		"category":    "🍔 Alimentação",
		"description": "restaurante",
	}).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents": 5000,
		"category":    "🚗 Transporte",
		"description": "combustível",
	}).Code)

	all := doJSON(t, srv, http.MethodGet, "/api/goals", nil)
	require.Equal(t, http.StatusOK, all.Code)
	var progress []analytics.GoalProgress
	require.NoError(t, json.Unmarshal(all.Body.Bytes(), &progress))
	require.Len(t, progress, 2)

	alerts := doJSON(t, srv, http.MethodGet, "/api/goals?alerts=1", nil)
	require.Equal(t, http.StatusOK, alerts.Code)
	require.NoError(t, json.Unmarshal(alerts.Body.Bytes(), &progress))
	require.Len(t, progress, 1)
	assert.Equal(t, "🍔 Alimentação", progress[0].Category)
	assert.Equal(t, analytics.StatusDanger, progress[0].Status)
}

func TestBudgetEndpoint(t *testing.T) {
	srv := newTestServer(t)

	undefined := doJSON(t, srv, http.MethodGet, "/api/budget", nil)
	require.Equal(t, http.StatusOK, undefined.Code)

	var status analytics.BudgetStatus
	require.NoError(t, json.Unmarshal(undefined.Body.Bytes(), &status))
	assert.False(t, status.Defined)

	set := doJSON(t, srv, http.MethodPost, "/api/budget", map[string]any{"amountCents": 50000})
	require.Equal(t, http.StatusNoContent, set.Code)

	defined := doJSON(t, srv, http.MethodGet, "/api/budget", nil)
	require.Equal(t, http.StatusOK, defined.Code)
	require.NoError(t, json.Unmarshal(defined.Body.Bytes(), &status))
	assert.True(t, status.Defined)
	assert.Equal(t, int64(50000), status.Budget.Cents)
}

func TestCategoryManagement(t *testing.T) {
	srv := newTestServer(t)

	add := doJSON(t, srv, http.MethodPost, "/api/categories/expense", map[string]any{"name": "🎓 Educação"})
	require.Equal(t, http.StatusCreated, add.Code)

	dup := doJSON(t, srv, http.MethodPost, "/api/categories/expense", map[string]any{"name": "🎓 Educação"})
	assert.Equal(t, http.StatusConflict, dup.Code)

	protected := doJSON(t, srv, http.MethodDelete, "/api/categories/expense?name="+url.QueryEscape("🍔 Alimentação"), nil)
	assert.Equal(t, http.StatusForbidden, protected.Code)
}

func TestResetClearsEverything(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents": 2500,
		"category":    "🍔 Alimentação",
		"description": "almoço",
	}).Code)

	require.Equal(t, http.StatusNoContent, doJSON(t, srv, http.MethodPost, "/api/reset", nil).Code)

	now := time.Now()
	list := doJSON(t, srv, http.MethodGet,
		fmt.Sprintf("/api/expenses?year=%d&month=%d", now.Year(), int(now.Month())), nil)
	require.Equal(t, http.StatusOK, list.Code)

	var expenses []core.Expense
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &expenses))
	assert.Empty(t, expenses)
}

func TestMethodGuards(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/summary", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/reset", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInvalidFilterRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/expenses?filter=bogus", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpcomingBillsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	due := time.Now().AddDate(0, 0, 2)
	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"amountCents": 12000,
		"category":    "🧾 Contas",
		"description": "conta de luz",
		"dueDate":     due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	bills := doJSON(t, srv, http.MethodGet, "/api/bills/upcoming", nil)
	require.Equal(t, http.StatusOK, bills.Code)

	var out []analytics.UpcomingBill
	require.NoError(t, json.Unmarshal(bills.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.True(t, out[0].Urgent)
}
