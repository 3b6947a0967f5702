package analytics

import (
	"sort"
	"time"

	"gastos/internal/core"
)

// Portuguese short month names, January first.
var shortMonths = [12]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

type (
	// Totals are the month's summed flows. Balance = Income - Expenses.
	Totals struct {
		Expenses core.Money `json:"expenses"`
		Income   core.Money `json:"income"`
		Balance  core.Money `json:"balance"`
	}

	// CategoryShare is one row of the category breakdown. Percentage is the
	// share of the month's total expense; PercentOfIncome the share of the
	// month's total income.
	CategoryShare struct {
		Category        string     `json:"category"`
		Amount          core.Money `json:"amount"`
		Percentage      float64    `json:"percentage"`
		PercentOfIncome float64    `json:"percentOfIncome"`
	}

	// MethodShare is one row of the payment-method breakdown.
	MethodShare struct {
		Method     string     `json:"method"`
		Amount     core.Money `json:"amount"`
		Percentage float64    `json:"percentage"`
	}

	// CardInvoice groups one card's credit expenses for the month, line
	// items in insertion order.
	CardInvoice struct {
		Card  string         `json:"card"`
		Total core.Money     `json:"total"`
		Items []core.Expense `json:"items"`
	}

	// EvolutionSeries holds the trailing-window totals per month,
	// chronological.
	EvolutionSeries struct {
		Labels   []string     `json:"labels"`
		Expenses []core.Money `json:"expensesByMonth"`
		Income   []core.Money `json:"incomeByMonth"`
	}

	// PeriodTotals are the summed flows of an arbitrary date range.
	PeriodTotals struct {
		Expenses core.Money `json:"expenses"`
		Income   core.Money `json:"income"`
		Balance  core.Money `json:"balance"`
	}

	// CategoryComparison compares one category across two periods. Diff is
	// the percentage change from period 2 to period 1; a category absent
	// from period 2 counts as a full increase from zero (100).
	CategoryComparison struct {
		Category string     `json:"category"`
		Amount1  core.Money `json:"amount1"`
		Amount2  core.Money `json:"amount2"`
		Diff     float64    `json:"diff"`
	}

	// Comparison is the full period-over-period record.
	Comparison struct {
		Period1      PeriodTotals         `json:"period1"`
		Period2      PeriodTotals         `json:"period2"`
		ExpensesDiff float64              `json:"expensesDiff"`
		IncomeDiff   float64              `json:"incomeDiff"`
		BalanceDiff  core.Money           `json:"balanceDiff"`
		Categories   []CategoryComparison `json:"categories"`
	}
)

// percentOf returns part/whole*100, defined as 0 when whole is 0.
func percentOf(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// MonthlyTotals sums every transaction dated within the month.
func MonthlyTotals(expenses []core.Expense, income []core.Income, year int, month time.Month) Totals {
	var t Totals
	for _, e := range FilterExpenses(expenses, year, month, core.FilterAll) {
		t.Expenses = t.Expenses.Add(e.Amount)
	}
	for _, i := range FilterIncome(income, year, month, core.FilterAll) {
		t.Income = t.Income.Add(i.Amount)
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}

// CategoryBreakdown groups the month's expenses by category, sorted by
// amount descending (category name breaks ties so the order is stable).
func CategoryBreakdown(expenses []core.Expense, income []core.Income, year int, month time.Month) []CategoryShare {
	monthly := FilterExpenses(expenses, year, month, core.FilterAll)

	var total int64
	sums := map[string]int64{}
	var order []string
	for _, e := range monthly {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
		total += e.Amount.Cents
	}

	totals := MonthlyTotals(expenses, income, year, month)

	out := make([]CategoryShare, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryShare{
			Category:        cat,
			Amount:          core.Money{Cents: sums[cat]},
			Percentage:      percentOf(sums[cat], total),
			PercentOfIncome: percentOf(sums[cat], totals.Income.Cents),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// PaymentBreakdown groups the month's expenses by payment method. Expenses
// without a method fall into the unspecified bucket.
func PaymentBreakdown(expenses []core.Expense, year int, month time.Month) []MethodShare {
	monthly := FilterExpenses(expenses, year, month, core.FilterAll)

	var total int64
	sums := map[string]int64{}
	var order []string
	for _, e := range monthly {
		method := e.PaymentMethod
		if method == "" {
			method = core.MethodUnspecified
		}
		if _, seen := sums[method]; !seen {
			order = append(order, method)
		}
		sums[method] += e.Amount.Cents
		total += e.Amount.Cents
	}

	out := make([]MethodShare, 0, len(order))
	for _, m := range order {
		out = append(out, MethodShare{
			Method:     m,
			Amount:     core.Money{Cents: sums[m]},
			Percentage: percentOf(sums[m], total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// creditMethodSet builds the credit half of the method registry: the default
// credit entry plus every registered card.
func creditMethodSet(cards []string) map[string]bool {
	set := map[string]bool{}
	for _, m := range core.DefaultPaymentMethods() {
		if m.Credit {
			set[m.Name] = true
		}
	}
	for _, c := range cards {
		set[c] = true
	}
	return set
}

// CardInvoices groups the month's credit expenses by card, invoices in
// first-appearance order, items in insertion order.
func CardInvoices(expenses []core.Expense, cards []string, year int, month time.Month) []CardInvoice {
	credit := creditMethodSet(cards)
	monthly := FilterExpenses(expenses, year, month, core.FilterAll)

	idx := map[string]int{}
	var out []CardInvoice
	for _, e := range monthly {
		if !credit[e.PaymentMethod] {
			continue
		}
		i, ok := idx[e.PaymentMethod]
		if !ok {
			i = len(out)
			idx[e.PaymentMethod] = i
			out = append(out, CardInvoice{Card: e.PaymentMethod})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
		out[i].Items = append(out[i].Items, e)
	}
	return out
}

// Evolution computes the trailing-window per-month totals ending at the
// selected month, inclusive, oldest first.
func Evolution(expenses []core.Expense, income []core.Income, year int, month time.Month, window int) EvolutionSeries {
	if window < 1 {
		window = 1
	}
	series := EvolutionSeries{
		Labels:   make([]string, 0, window),
		Expenses: make([]core.Money, 0, window),
		Income:   make([]core.Money, 0, window),
	}
	for i := window - 1; i >= 0; i-- {
		ref := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, -i, 0)
		t := MonthlyTotals(expenses, income, ref.Year(), ref.Month())
		series.Labels = append(series.Labels, shortMonths[ref.Month()-1])
		series.Expenses = append(series.Expenses, t.Expenses)
		series.Income = append(series.Income, t.Income)
	}
	return series
}

func rangeTotals(expenses []core.Expense, income []core.Income, start, end time.Time) PeriodTotals {
	var t PeriodTotals
	for _, e := range expenses {
		if inRange(e.Date, start, end) {
			t.Expenses = t.Expenses.Add(e.Amount)
		}
	}
	for _, i := range income {
		if inRange(i.Date, start, end) {
			t.Income = t.Income.Add(i.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}

func rangeCategorySums(expenses []core.Expense, start, end time.Time) (map[string]int64, []string) {
	sums := map[string]int64{}
	var order []string
	for _, e := range expenses {
		if !inRange(e.Date, start, end) {
			continue
		}
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}
	return sums, order
}

// ComparePeriods computes both periods' totals, the percentage deltas for
// expenses and income (zero when period 2 is zero), the absolute balance
// delta, and the per-category comparison.
func ComparePeriods(expenses []core.Expense, income []core.Income, p1Start, p1End, p2Start, p2End time.Time) Comparison {
	p1 := rangeTotals(expenses, income, p1Start, p1End)
	p2 := rangeTotals(expenses, income, p2Start, p2End)

	cmp := Comparison{
		Period1:      p1,
		Period2:      p2,
		ExpensesDiff: percentOf(p1.Expenses.Cents-p2.Expenses.Cents, p2.Expenses.Cents),
		IncomeDiff:   percentOf(p1.Income.Cents-p2.Income.Cents, p2.Income.Cents),
		BalanceDiff:  p1.Balance.Sub(p2.Balance),
	}

	sums1, order1 := rangeCategorySums(expenses, p1Start, p1End)
	sums2, order2 := rangeCategorySums(expenses, p2Start, p2End)

	seen := map[string]bool{}
	for _, cat := range append(order1, order2...) {
		if seen[cat] {
			continue
		}
		seen[cat] = true

		a1, a2 := sums1[cat], sums2[cat]
		diff := 100.0 // absent from period 2: full increase from zero
		if a2 != 0 {
			diff = percentOf(a1-a2, a2)
		}
		cmp.Categories = append(cmp.Categories, CategoryComparison{
			Category: cat,
			Amount1:  core.Money{Cents: a1},
			Amount2:  core.Money{Cents: a2},
			Diff:     diff,
		})
	}
	return cmp
}

// AverageMonthlyExpenses is the trailing-6-month mean used by the reserve
// target: every expense dated within the last six months, divided by six.
func AverageMonthlyExpenses(expenses []core.Expense, now time.Time) core.Money {
	cutoff := now.AddDate(0, -6, 0)
	var total int64
	for _, e := range expenses {
		if !e.Date.Before(cutoff) {
			total += e.Amount.Cents
		}
	}
	return core.Money{Cents: total / 6}
}
