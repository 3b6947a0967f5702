package analytics

import (
	"fmt"
	"time"

	"gastos/internal/core"
)

// Insight is a short observation about the month, phrased for end users.
type Insight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	InsightTopCategory = "top_category"
	InsightMonthDelta  = "month_delta"
	InsightSavingsRate = "savings_rate"
	InsightBudgetAlert = "budget_alert"
	InsightTrend       = "trend"
)

func formatCents(cents int64) string {
	neg := ""
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d", neg, cents/100, cents%100)
}

// GenerateInsights produces the month's observations in a fixed order:
// top category, month-over-month delta, savings rate, budget alert and the
// three-month trend. Each one is emitted only when its condition holds, so
// an empty slice is a valid result.
func GenerateInsights(
	expenses []core.Expense,
	income []core.Income,
	year int, month time.Month,
	budget BudgetStatus,
	now time.Time,
) []Insight {
	var out []Insight

	totals := MonthlyTotals(expenses, income, year, month)
	breakdown := CategoryBreakdown(expenses, income, year, month)

	if len(breakdown) > 0 && breakdown[0].Amount.Cents > 0 {
		top := breakdown[0]
		out = append(out, Insight{
			Kind: InsightTopCategory,
			Message: fmt.Sprintf("Sua maior despesa do mês foi em %s: %s (%.1f%% do total)",
				top.Category, formatCents(top.Amount.Cents), top.Percentage),
		})
	}

	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
	prevTotals := MonthlyTotals(expenses, income, prev.Year(), prev.Month())
	if prevTotals.Expenses.Cents > 0 {
		delta := percentOf(totals.Expenses.Cents-prevTotals.Expenses.Cents, prevTotals.Expenses.Cents)
		if delta > 10 {
			out = append(out, Insight{
				Kind:    InsightMonthDelta,
				Message: fmt.Sprintf("Seus gastos aumentaram %.1f%% em relação ao mês anterior", delta),
			})
		} else if delta < -10 {
			out = append(out, Insight{
				Kind:    InsightMonthDelta,
				Message: fmt.Sprintf("Seus gastos diminuíram %.1f%% em relação ao mês anterior", -delta),
			})
		}
	}

	if totals.Balance.Cents > 0 && totals.Income.Cents > 0 {
		rate := percentOf(totals.Balance.Cents, totals.Income.Cents)
		out = append(out, Insight{
			Kind:    InsightSavingsRate,
			Message: fmt.Sprintf("Você economizou %.1f%% da sua renda este mês", rate),
		})
	}

	if budget.Defined && budget.Percentage >= 80 {
		msg := fmt.Sprintf("Atenção: você já usou %.1f%% do seu orçamento mensal", budget.Percentage)
		if budget.Percentage >= 100 {
			msg = fmt.Sprintf("Orçamento estourado: %.1f%% do limite mensal", budget.Percentage)
		}
		out = append(out, Insight{Kind: InsightBudgetAlert, Message: msg})
	}

	if trend, ok := threeMonthTrend(expenses, year, month); ok {
		dir := "aumentando"
		if trend < 0 {
			dir, trend = "diminuindo", -trend
		}
		out = append(out, Insight{
			Kind:    InsightTrend,
			Message: fmt.Sprintf("Seus gastos vêm %s nos últimos 3 meses (%.1f%%)", dir, trend),
		})
	}

	return out
}

// threeMonthTrend compares the selected month against two months earlier.
// It only reports when the swing exceeds 15% of the earliest month.
func threeMonthTrend(expenses []core.Expense, year int, month time.Month) (float64, bool) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, -2, 0)
	earliest := MonthlyTotals(expenses, nil, first.Year(), first.Month()).Expenses.Cents
	latest := MonthlyTotals(expenses, nil, year, month).Expenses.Cents
	if earliest == 0 {
		return 0, false
	}
	change := percentOf(latest-earliest, earliest)
	if change > -15 && change < 15 {
		return 0, false
	}
	return change, true
}
