package analytics

import (
	"sort"
	"time"

	"gastos/internal/core"
)

// Status classifies spend against a ceiling. The 80% and 100% thresholds
// are part of the contract, not presentation.
type Status string

const (
	StatusOK        Status = "ok"
	StatusWarning   Status = "warning"
	StatusDanger    Status = "danger"
	StatusUndefined Status = "undefined"
)

func classify(percentage float64) Status {
	switch {
	case percentage >= 100:
		return StatusDanger
	case percentage >= 80:
		return StatusWarning
	default:
		return StatusOK
	}
}

type (
	// GoalProgress is one category goal measured against the month's spend.
	GoalProgress struct {
		Category   string     `json:"category"`
		Spent      core.Money `json:"spent"`
		Goal       core.Money `json:"goal"`
		Percentage float64    `json:"percentage"`
		Status     Status     `json:"status"`
	}

	// BudgetStatus reports the monthly ceiling usage plus a day-weighted
	// projection of the month's final total.
	BudgetStatus struct {
		Defined        bool       `json:"defined"`
		Budget         core.Money `json:"budget"`
		Spent          core.Money `json:"spent"`
		Remaining      core.Money `json:"remaining"`
		Percentage     float64    `json:"percentage"`
		ProjectedTotal core.Money `json:"projectedTotal"`
		Status         Status     `json:"status"`
	}

	// ReserveStatus measures the emergency reserve against its derived
	// target of six average months of expenses.
	ReserveStatus struct {
		Current    core.Money `json:"current"`
		Goal       core.Money `json:"goal"`
		Percentage float64    `json:"percentage"`
	}
)

// EvaluateGoals measures every defined goal against the month's breakdown,
// sorted by usage descending so the most stretched goals come first.
func EvaluateGoals(breakdown []CategoryShare, goals map[string]core.Money) []GoalProgress {
	spent := map[string]int64{}
	for _, b := range breakdown {
		spent[b.Category] = b.Amount.Cents
	}

	out := make([]GoalProgress, 0, len(goals))
	for cat, goal := range goals {
		pct := percentOf(spent[cat], goal.Cents)
		out = append(out, GoalProgress{
			Category:   cat,
			Spent:      core.Money{Cents: spent[cat]},
			Goal:       goal,
			Percentage: pct,
			Status:     classify(pct),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CheckGoals returns only the goals worth alerting on: warning at 80%,
// danger at 100%.
func CheckGoals(breakdown []CategoryShare, goals map[string]core.Money) []GoalProgress {
	var alerts []GoalProgress
	for _, g := range EvaluateGoals(breakdown, goals) {
		if g.Status == StatusWarning || g.Status == StatusDanger {
			alerts = append(alerts, g)
		}
	}
	return alerts
}

// EvaluateBudget computes the ceiling usage for the selected month. With no
// budget set it reports undefined and attempts no arithmetic. The projection
// weighs spend by days elapsed; for past or future months the whole month
// counts as elapsed and the projection degenerates to the spent total.
func EvaluateBudget(totals Totals, budget core.Money, year int, month time.Month, now time.Time) BudgetStatus {
	if budget.Cents <= 0 {
		return BudgetStatus{Status: StatusUndefined}
	}

	spent := totals.Expenses
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
	daysElapsed := daysInMonth
	if now.Year() == year && now.Month() == month {
		daysElapsed = now.Day()
	}

	pct := percentOf(spent.Cents, budget.Cents)
	projected := spent.Cents * int64(daysInMonth) / int64(daysElapsed)

	return BudgetStatus{
		Defined:        true,
		Budget:         budget,
		Spent:          spent,
		Remaining:      budget.Sub(spent),
		Percentage:     pct,
		ProjectedTotal: core.Money{Cents: projected},
		Status:         classify(pct),
	}
}

// EvaluateReserve derives the reserve target from the trailing average and
// measures progress against it. A zero target yields zero percent.
func EvaluateReserve(current core.Money, avgMonthlyExpenses core.Money) ReserveStatus {
	goal := core.Money{Cents: avgMonthlyExpenses.Cents * 6}
	return ReserveStatus{
		Current:    current,
		Goal:       goal,
		Percentage: percentOf(current.Cents, goal.Cents),
	}
}
