package analytics

import (
	"sort"
	"time"

	"gastos/internal/core"
)

// UpcomingBill is an expense whose due date falls inside the scan horizon.
type UpcomingBill struct {
	Expense  core.Expense `json:"expense"`
	DueDate  time.Time    `json:"dueDate"`
	DaysLeft int          `json:"daysLeft"`
	Urgent   bool         `json:"urgent"`
}

// UpcomingBills scans for bills due between now and now+horizonDays,
// inclusive, sorted soonest first. Bills within three days are urgent.
// Expenses without a due date never match.
func UpcomingBills(expenses []core.Expense, now time.Time, horizonDays int) []UpcomingBill {
	limit := now.AddDate(0, 0, horizonDays)

	var bills []UpcomingBill
	for _, e := range expenses {
		if e.DueDate == nil {
			continue
		}
		due := *e.DueDate
		if due.Before(now) || due.After(limit) {
			continue
		}
		daysLeft := int(due.Sub(now).Hours()) / 24
		if due.Sub(now)%(24*time.Hour) != 0 {
			daysLeft++
		}
		bills = append(bills, UpcomingBill{
			Expense:  e,
			DueDate:  due,
			DaysLeft: daysLeft,
			Urgent:   daysLeft <= 3,
		})
	}
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].DueDate.Before(bills[j].DueDate)
	})
	return bills
}
