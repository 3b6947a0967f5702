// Package analytics is the aggregation and period-analysis engine: pure
// computations over a ledger snapshot. Nothing here mutates input or touches
// persistence, and no ratio ever yields NaN — zero denominators are defined
// as zero.
package analytics

import (
	"time"

	"gastos/internal/core"
)

// MonthBounds returns the inclusive [first instant, last instant] of a
// calendar month in the local zone.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local).Add(-time.Second)
	return start, end
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// FilterExpenses returns the expenses dated within the month that match the
// recurrence filter. The input is never mutated.
func FilterExpenses(expenses []core.Expense, year int, month time.Month, filter core.RecurrenceFilter) []core.Expense {
	start, end := MonthBounds(year, month)
	var out []core.Expense
	for _, e := range expenses {
		if !inRange(e.Date, start, end) {
			continue
		}
		if !filter.Matches(e.Recurring) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterIncome is the income counterpart of FilterExpenses.
func FilterIncome(income []core.Income, year int, month time.Month, filter core.RecurrenceFilter) []core.Income {
	start, end := MonthBounds(year, month)
	var out []core.Income
	for _, i := range income {
		if !inRange(i.Date, start, end) {
			continue
		}
		if !filter.Matches(i.Recurring) {
			continue
		}
		out = append(out, i)
	}
	return out
}
