package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func expense(category, method string, cents int64, date time.Time) core.Expense {
	return core.Expense{
		ID:            "x",
		Amount:        core.Money{Cents: cents},
		Category:      category,
		PaymentMethod: method,
		Description:   "test",
		Date:          date,
	}
}

func incomeOn(category string, cents int64, date time.Time) core.Income {
	return core.Income{
		ID:          "y",
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: "test",
		Date:        date,
	}
}

func TestMonthlyTotalsBalanceIdentity(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		expense("🍔 Alimentação", "💰 Dinheiro", 25000, jan),
		expense("🚗 Transporte", "💰 Dinheiro", 10000, jan),
		// outside the month, must not count
		expense("🍔 Alimentação", "💰 Dinheiro", 99900, jan.AddDate(0, 1, 0)),
	}
	income := []core.Income{incomeOn("💼 Salário", 100000, jan)}

	totals := MonthlyTotals(expenses, income, 2025, time.January)

	assert.Equal(t, int64(35000), totals.Expenses.Cents)
	assert.Equal(t, int64(100000), totals.Income.Cents)
	assert.Equal(t, totals.Income.Sub(totals.Expenses), totals.Balance)
}

func TestCategoryBreakdownPercentages(t *testing.T) {
	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		expense("🍔 Alimentação", "💰 Dinheiro", 25000, jan),
		expense("🚗 Transporte", "💰 Dinheiro", 75000, jan),
	}
	income := []core.Income{incomeOn("💼 Salário", 100000, jan)}

	rows := CategoryBreakdown(expenses, income, 2025, time.January)
	require.Len(t, rows, 2)

	// sorted by amount descending
	assert.Equal(t, "🚗 Transporte", rows[0].Category)
	assert.InDelta(t, 75.0, rows[0].Percentage, 1e-9)
	assert.Equal(t, "🍔 Alimentação", rows[1].Category)
	assert.InDelta(t, 25.0, rows[1].Percentage, 1e-9)
	assert.InDelta(t, 25.0, rows[1].PercentOfIncome, 1e-9)
}

func TestCategoryBreakdownZeroIncome(t *testing.T) {
	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{expense("🍔 Alimentação", "💰 Dinheiro", 25000, jan)}

	rows := CategoryBreakdown(expenses, nil, 2025, time.January)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].PercentOfIncome)
}

func TestPaymentBreakdownUnspecifiedBucket(t *testing.T) {
	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		expense("🍔 Alimentação", "", 5000, jan),
		expense("🍔 Alimentação", "💰 Dinheiro", 5000, jan),
	}

	rows := PaymentBreakdown(expenses, 2025, time.January)
	require.Len(t, rows, 2)

	methods := []string{rows[0].Method, rows[1].Method}
	assert.Contains(t, methods, core.MethodUnspecified)
	assert.Contains(t, methods, "💰 Dinheiro")
	assert.InDelta(t, 50.0, rows[0].Percentage, 1e-9)
}

func TestCardInvoicesGroupsOnlyRegisteredCredit(t *testing.T) {
	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.Local)
	card := "💳 Nubank Crédito"
	expenses := []core.Expense{
		expense("🍔 Alimentação", card, 4000, jan),
		expense("🛒 Mercado", card, 6000, jan),
		expense("🚗 Transporte", "💰 Dinheiro", 3000, jan),
		// looks like a card but is not registered
		expense("🎮 Lazer", "💳 Falso Crédito", 2000, jan),
	}

	invoices := CardInvoices(expenses, []string{card}, 2025, time.January)
	require.Len(t, invoices, 1)
	assert.Equal(t, card, invoices[0].Card)
	assert.Equal(t, int64(10000), invoices[0].Total.Cents)
	assert.Len(t, invoices[0].Items, 2)
}

func TestEvolutionWindowLabels(t *testing.T) {
	mar := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		expense("🍔 Alimentação", "💰 Dinheiro", 1000, mar.AddDate(0, -2, 0)),
		expense("🍔 Alimentação", "💰 Dinheiro", 2000, mar.AddDate(0, -1, 0)),
		expense("🍔 Alimentação", "💰 Dinheiro", 3000, mar),
	}

	series := Evolution(expenses, nil, 2025, time.March, 3)

	assert.Equal(t, []string{"jan", "fev", "mar"}, series.Labels)
	require.Len(t, series.Expenses, 3)
	assert.Equal(t, int64(1000), series.Expenses[0].Cents)
	assert.Equal(t, int64(3000), series.Expenses[2].Cents)
}

func TestComparePeriodsExpensesDiff(t *testing.T) {
	p1 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local)
	p2 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		expense("🍔 Alimentação", "💰 Dinheiro", 20000, p1.AddDate(0, 0, 4)),
		expense("🍔 Alimentação", "💰 Dinheiro", 10000, p2.AddDate(0, 0, 4)),
	}

	cmp := ComparePeriods(expenses, nil,
		p1, p1.AddDate(0, 1, 0).Add(-time.Second),
		p2, p2.AddDate(0, 1, 0).Add(-time.Second))

	assert.InDelta(t, 100.0, cmp.ExpensesDiff, 1e-9)
	assert.Equal(t, int64(20000), cmp.Period1.Expenses.Cents)
	assert.Equal(t, int64(10000), cmp.Period2.Expenses.Cents)
}

func TestComparePeriodsAbsentCategory(t *testing.T) {
	p1 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local)
	p2 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		expense("🎮 Lazer", "💰 Dinheiro", 5000, p1.AddDate(0, 0, 2)),
	}

	cmp := ComparePeriods(expenses, nil,
		p1, p1.AddDate(0, 1, 0).Add(-time.Second),
		p2, p2.AddDate(0, 1, 0).Add(-time.Second))

	require.Len(t, cmp.Categories, 1)
	assert.Equal(t, "🎮 Lazer", cmp.Categories[0].Category)
	assert.InDelta(t, 100.0, cmp.Categories[0].Diff, 1e-9)
}

func TestComparePeriodsZeroBaseline(t *testing.T) {
	p1 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local)
	p2 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)

	cmp := ComparePeriods(nil, nil,
		p1, p1.AddDate(0, 1, 0).Add(-time.Second),
		p2, p2.AddDate(0, 1, 0).Add(-time.Second))

	assert.Equal(t, 0.0, cmp.ExpensesDiff)
	assert.Equal(t, 0.0, cmp.IncomeDiff)
}

func TestAverageMonthlyExpenses(t *testing.T) {
	now := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		expense("🍔 Alimentação", "💰 Dinheiro", 60000, now.AddDate(0, -1, 0)),
		expense("🍔 Alimentação", "💰 Dinheiro", 60000, now.AddDate(0, -3, 0)),
		// older than six months, excluded
		expense("🍔 Alimentação", "💰 Dinheiro", 99900, now.AddDate(0, -8, 0)),
	}

	avg := AverageMonthlyExpenses(expenses, now)
	assert.Equal(t, int64(20000), avg.Cents)
}
