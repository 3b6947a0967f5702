// Package services orchestrates the stateful engine steps that sit between
// the ledger store and the pure aggregation layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

// Expander materializes the current month's occurrence of every recurring
// template. It only appends forward; past occurrences are never touched.
// Running it twice in the same month creates nothing the second time.
type Expander struct {
	store *ledger.Store
}

func NewExpander(store *ledger.Store) *Expander {
	return &Expander{store: store}
}

// ExpandCurrentMonth runs one expansion pass for the month containing now.
// It returns the number of occurrences created.
func (p *Expander) ExpandCurrentMonth(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("expander not properly initialized")
	}

	created := 0

	expenses, err := p.store.Expenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("load expenses: %w", err)
	}
	expanded, n := p.expandExpenses(expenses, now)
	if n > 0 {
		if err := p.store.SaveExpenses(ctx, expanded); err != nil {
			return 0, fmt.Errorf("save expanded expenses: %w", err)
		}
		created += n
	}

	income, err := p.store.Income(ctx)
	if err != nil {
		return created, fmt.Errorf("load income: %w", err)
	}
	expandedIncome, n := p.expandIncome(income, now)
	if n > 0 {
		if err := p.store.SaveIncome(ctx, expandedIncome); err != nil {
			return created, fmt.Errorf("save expanded income: %w", err)
		}
		created += n
	}

	slog.InfoContext(ctx, "Recurrence expansion complete",
		"created", created,
		"month", now.Format("2006-01"))
	return created, nil
}

func (p *Expander) expandExpenses(expenses []core.Expense, now time.Time) ([]core.Expense, int) {
	var fresh []core.Expense
	for _, tpl := range expenses {
		if !isExpenseTemplate(tpl) {
			continue
		}
		if !predatesMonth(*tpl.OriginalDate, now) {
			continue
		}
		if hasExpenseOccurrence(expenses, tpl.ID, now) || hasExpenseOccurrence(fresh, tpl.ID, now) {
			continue
		}

		occ := core.Expense{
			ID:                p.store.NewID(),
			Amount:            tpl.Amount,
			TotalAmount:       tpl.TotalAmount,
			Category:          tpl.Category,
			PaymentMethod:     tpl.PaymentMethod,
			Description:       tpl.Description,
			Tags:              append([]string(nil), tpl.Tags...),
			Date:              sameDayInMonth(*tpl.OriginalDate, now),
			Recurring:         true,
			OriginalDate:      tpl.OriginalDate,
			RecurringParentID: tpl.ID,
		}
		if tpl.DueDate != nil {
			due := addMonthsClamped(*tpl.DueDate, monthDelta(*tpl.OriginalDate, now))
			occ.DueDate = &due
		}
		fresh = append(fresh, occ)

		slog.Info("Materialized recurring expense",
			"template_id", tpl.ID,
			"occurrence_id", occ.ID,
			"category", occ.Category,
			"amount_cents", occ.Amount.Cents)
	}
	if len(fresh) == 0 {
		return expenses, 0
	}
	return append(fresh, expenses...), len(fresh)
}

func (p *Expander) expandIncome(income []core.Income, now time.Time) ([]core.Income, int) {
	var fresh []core.Income
	for _, tpl := range income {
		if !isIncomeTemplate(tpl) {
			continue
		}
		if !predatesMonth(*tpl.OriginalDate, now) {
			continue
		}
		if hasIncomeOccurrence(income, tpl.ID, now) || hasIncomeOccurrence(fresh, tpl.ID, now) {
			continue
		}

		occ := core.Income{
			ID:                p.store.NewID(),
			Amount:            tpl.Amount,
			Category:          tpl.Category,
			Description:       tpl.Description,
			Date:              sameDayInMonth(*tpl.OriginalDate, now),
			Recurring:         true,
			OriginalDate:      tpl.OriginalDate,
			RecurringParentID: tpl.ID,
		}
		fresh = append(fresh, occ)

		slog.Info("Materialized recurring income",
			"template_id", tpl.ID,
			"occurrence_id", occ.ID,
			"category", occ.Category,
			"amount_cents", occ.Amount.Cents)
	}
	if len(fresh) == 0 {
		return income, 0
	}
	return append(fresh, income...), len(fresh)
}

// Expanded copies never act as templates themselves.
func isExpenseTemplate(e core.Expense) bool {
	return e.Recurring && e.OriginalDate != nil && e.RecurringParentID == ""
}

func isIncomeTemplate(i core.Income) bool {
	return i.Recurring && i.OriginalDate != nil && i.RecurringParentID == ""
}

func hasExpenseOccurrence(expenses []core.Expense, parentID string, now time.Time) bool {
	for _, e := range expenses {
		if e.RecurringParentID == parentID && sameMonth(e.Date, now) {
			return true
		}
	}
	return false
}

func hasIncomeOccurrence(income []core.Income, parentID string, now time.Time) bool {
	for _, i := range income {
		if i.RecurringParentID == parentID && sameMonth(i.Date, now) {
			return true
		}
	}
	return false
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func predatesMonth(orig, now time.Time) bool {
	return orig.Year() < now.Year() ||
		(orig.Year() == now.Year() && orig.Month() < now.Month())
}

// sameDayInMonth places orig's day-of-month and clock time into now's month,
// clamping to the last day when the target month is shorter.
func sameDayInMonth(orig, now time.Time) time.Time {
	day := orig.Day()
	if last := lastDayOfMonth(now.Year(), now.Month()); day > last {
		day = last
	}
	return time.Date(now.Year(), now.Month(), day,
		orig.Hour(), orig.Minute(), orig.Second(), 0, orig.Location())
}

// addMonthsClamped shifts t by delta months, clamping the day instead of
// rolling over into the next month.
func addMonthsClamped(t time.Time, delta int) time.Time {
	year := t.Year()
	month := int(t.Month()) + delta
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	day := t.Day()
	if last := lastDayOfMonth(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day,
		t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthDelta(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
