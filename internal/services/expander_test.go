package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/storage"
)

func setup(t *testing.T) (*ledger.Store, *Expander) {
	t.Helper()
	store := ledger.New(storage.NewMemoryStore())
	return store, NewExpander(store)
}

func addRecurringExpense(t *testing.T, store *ledger.Store, date time.Time, cents int64) core.Expense {
	t.Helper()
	e, err := store.AddExpense(context.Background(), ledger.ExpenseInput{
		Amount:        core.Money{Cents: cents},
		Category:      "🏠 Moradia",
		PaymentMethod: "📱 PIX",
		Description:   "Aluguel",
		Date:          date,
		Recurring:     true,
	})
	require.NoError(t, err)
	return e
}

func TestExpandCreatesOneOccurrence(t *testing.T) {
	ctx := context.Background()
	store, exp := setup(t)

	tpl := addRecurringExpense(t, store, time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local), 120000)

	now := time.Date(2025, 3, 5, 8, 0, 0, 0, time.Local)
	created, err := exp.ExpandCurrentMonth(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	occ := expenses[0]
	assert.Equal(t, tpl.ID, occ.RecurringParentID)
	assert.Equal(t, 2025, occ.Date.Year())
	assert.Equal(t, time.March, occ.Date.Month())
	assert.Equal(t, 10, occ.Date.Day(), "keeps the template's day of month")
	assert.True(t, occ.Recurring)
	assert.Equal(t, tpl.Amount, occ.Amount)
	require.NotNil(t, occ.OriginalDate)
	assert.True(t, occ.OriginalDate.Equal(*tpl.OriginalDate))
}

func TestExpandIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, exp := setup(t)
	addRecurringExpense(t, store, time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local), 120000)

	now := time.Date(2025, 2, 20, 0, 0, 0, 0, time.Local)
	created, err := exp.ExpandCurrentMonth(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = exp.ExpandCurrentMonth(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "second run in the same month creates nothing")

	expenses, _ := store.Expenses(ctx)
	assert.Len(t, expenses, 2)
}

func TestExpandSkipsCurrentMonthTemplates(t *testing.T) {
	ctx := context.Background()
	store, exp := setup(t)
	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.Local)
	addRecurringExpense(t, store, time.Date(2025, 4, 2, 9, 0, 0, 0, time.Local), 5000)

	created, err := exp.ExpandCurrentMonth(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "template's first occurrence is this month already")
}

func TestExpandClampsDayOfMonth(t *testing.T) {
	ctx := context.Background()
	store, exp := setup(t)
	addRecurringExpense(t, store, time.Date(2025, 1, 31, 9, 0, 0, 0, time.Local), 9900)

	now := time.Date(2025, 2, 10, 0, 0, 0, 0, time.Local)
	created, err := exp.ExpandCurrentMonth(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	expenses, _ := store.Expenses(ctx)
	occ := expenses[0]
	assert.Equal(t, time.February, occ.Date.Month(), "no rollover into March")
	assert.Equal(t, 28, occ.Date.Day())
}

func TestExpandedCopiesAreNotTemplates(t *testing.T) {
	ctx := context.Background()
	store, exp := setup(t)
	addRecurringExpense(t, store, time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local), 120000)

	feb := time.Date(2025, 2, 12, 0, 0, 0, 0, time.Local)
	_, err := exp.ExpandCurrentMonth(ctx, feb)
	require.NoError(t, err)

	mar := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	created, err := exp.ExpandCurrentMonth(ctx, mar)
	require.NoError(t, err)
	assert.Equal(t, 1, created, "exactly one new occurrence, spawned by the template alone")

	expenses, _ := store.Expenses(ctx)
	assert.Len(t, expenses, 3)
}

func TestExpandShiftsDueDate(t *testing.T) {
	ctx := context.Background()
	store, exp := setup(t)

	due := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	_, err := store.AddExpense(ctx, ledger.ExpenseInput{
		Amount:    core.Money{Cents: 8000},
		Category:  "🧾 Contas",
		Date:      time.Date(2025, 1, 5, 10, 0, 0, 0, time.Local),
		DueDate:   &due,
		Recurring: true,
	})
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	created, err := exp.ExpandCurrentMonth(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	expenses, _ := store.Expenses(ctx)
	occ := expenses[0]
	require.NotNil(t, occ.DueDate)
	assert.Equal(t, time.March, occ.DueDate.Month())
	assert.Equal(t, 15, occ.DueDate.Day())
}

func TestExpandIncome(t *testing.T) {
	ctx := context.Background()
	store, exp := setup(t)

	_, err := store.AddIncome(ctx, ledger.IncomeInput{
		Amount:    core.Money{Cents: 500000},
		Category:  "💼 Salário",
		Date:      time.Date(2024, 11, 5, 0, 0, 0, 0, time.Local),
		Recurring: true,
	})
	require.NoError(t, err)

	now := time.Date(2025, 1, 8, 0, 0, 0, 0, time.Local)
	created, err := exp.ExpandCurrentMonth(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	income, _ := store.Income(ctx)
	require.Len(t, income, 2)
	assert.Equal(t, time.January, income[0].Date.Month())
	assert.Equal(t, 5, income[0].Date.Day())
}

func TestAddMonthsClamped(t *testing.T) {
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	got := addMonthsClamped(jan31, 1)
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 28, got.Day())

	dec := time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)
	got = addMonthsClamped(dec, 2)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.February, got.Month())
}
