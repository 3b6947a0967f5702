package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gastos/internal/core"
)

// ExpenseInput carries the form-level fields of a new expense. Amount is the
// full purchase value; the installment split happens here.
type ExpenseInput struct {
	Amount        core.Money
	Category      string
	PaymentMethod string
	Description   string
	Tags          []string
	DueDate       *time.Time
	Date          time.Time
	Recurring     bool
	Installments  int
}

// IncomeInput carries the form-level fields of a new income record.
type IncomeInput struct {
	Amount      core.Money
	Category    string
	Description string
	Date        time.Time
	Recurring   bool
}

// NewID generates a collision-resistant record identifier.
func (s *Store) NewID() string { return s.newID() }

// SaveExpenses replaces the whole expense collection. Used by mutations and
// by the recurrence expander.
func (s *Store) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	return s.save(ctx, KeyExpenses, expenses)
}

// SaveIncome replaces the whole income collection.
func (s *Store) SaveIncome(ctx context.Context, income []core.Income) error {
	return s.save(ctx, KeyIncome, income)
}

// AddExpense validates the input, splits credit purchases into installments
// and prepends the record to the collection.
func (s *Store) AddExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	categories, err := s.ExpenseCategories(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	if !containsString(categories, in.Category) {
		return core.Expense{}, core.ErrUnknownCategory
	}

	credit := false
	if in.PaymentMethod != "" {
		if credit, err = s.IsCreditMethod(ctx, in.PaymentMethod); err != nil {
			return core.Expense{}, err
		}
	}

	e := core.Expense{
		ID:            s.newID(),
		Amount:        in.Amount,
		TotalAmount:   in.Amount,
		Category:      in.Category,
		PaymentMethod: in.PaymentMethod,
		Description:   strings.TrimSpace(in.Description),
		Tags:          cleanTags(in.Tags),
		DueDate:       in.DueDate,
		Date:          in.Date,
		Recurring:     in.Recurring,
	}
	if credit {
		n := in.Installments
		if n < 1 {
			n = 1
		}
		amount, err := core.SplitInstallments(in.Amount, n)
		if err != nil {
			return core.Expense{}, err
		}
		e.Amount = amount
		e.Installments = n
		e.PaidInstallments = 0
	}
	if in.Recurring {
		d := in.Date
		e.OriginalDate = &d
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	expenses = append([]core.Expense{e}, expenses...)
	if err := s.SaveExpenses(ctx, expenses); err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense added",
		"id", e.ID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"installments", e.Installments,
		"recurring", e.Recurring)
	return e, nil
}

// AddIncome validates and prepends a new income record.
func (s *Store) AddIncome(ctx context.Context, in IncomeInput) (core.Income, error) {
	categories, err := s.IncomeCategories(ctx)
	if err != nil {
		return core.Income{}, err
	}
	if !containsString(categories, in.Category) {
		return core.Income{}, core.ErrUnknownCategory
	}

	i := core.Income{
		ID:          s.newID(),
		Amount:      in.Amount,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Recurring:   in.Recurring,
	}
	if in.Recurring {
		d := in.Date
		i.OriginalDate = &d
	}
	if err := i.Validate(); err != nil {
		return core.Income{}, err
	}

	income, err := s.Income(ctx)
	if err != nil {
		return core.Income{}, err
	}
	income = append([]core.Income{i}, income...)
	if err := s.SaveIncome(ctx, income); err != nil {
		return core.Income{}, err
	}

	slog.InfoContext(ctx, "Income added",
		"id", i.ID,
		"category", i.Category,
		"amount_cents", i.Amount.Cents,
		"recurring", i.Recurring)
	return i, nil
}

// DeleteExpense removes the record with the given id.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return err
	}
	kept := expenses[:0]
	found := false
	for _, e := range expenses {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return core.ErrNotFound
	}
	if err := s.SaveExpenses(ctx, kept); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// DeleteIncome removes the record with the given id.
func (s *Store) DeleteIncome(ctx context.Context, id string) error {
	income, err := s.Income(ctx)
	if err != nil {
		return err
	}
	kept := income[:0]
	found := false
	for _, i := range income {
		if i.ID == id {
			found = true
			continue
		}
		kept = append(kept, i)
	}
	if !found {
		return core.ErrNotFound
	}
	if err := s.SaveIncome(ctx, kept); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Income deleted", "id", id)
	return nil
}

// PayInstallment increments paidInstallments for the given expense. Settled
// purchases are left unchanged; the call is a no-op past saturation.
func (s *Store) PayInstallment(ctx context.Context, id string) (core.Expense, error) {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	for idx, e := range expenses {
		if e.ID != id {
			continue
		}
		if !e.IsInstallment() {
			return e, nil
		}
		if e.PaidInstallments < e.Installments {
			expenses[idx].PaidInstallments++
			if err := s.SaveExpenses(ctx, expenses); err != nil {
				return core.Expense{}, err
			}
			slog.InfoContext(ctx, "Installment paid",
				"id", id,
				"paid", expenses[idx].PaidInstallments,
				"of", expenses[idx].Installments)
		}
		return expenses[idx], nil
	}
	return core.Expense{}, core.ErrNotFound
}

// AddExpenseCategory registers a user-defined category. Duplicates are
// rejected.
func (s *Store) AddExpenseCategory(ctx context.Context, name string) error {
	return s.addToSet(ctx, KeyExpenseCategories, name, s.ExpenseCategories)
}

// RemoveExpenseCategory removes a user-defined category. Defaults are
// protected.
func (s *Store) RemoveExpenseCategory(ctx context.Context, name string) error {
	if core.IsDefaultExpenseCategory(name) {
		return core.ErrDefaultProtected
	}
	return s.removeFromSet(ctx, KeyExpenseCategories, name, s.ExpenseCategories)
}

func (s *Store) AddIncomeCategory(ctx context.Context, name string) error {
	return s.addToSet(ctx, KeyIncomeCategories, name, s.IncomeCategories)
}

func (s *Store) RemoveIncomeCategory(ctx context.Context, name string) error {
	if core.IsDefaultIncomeCategory(name) {
		return core.ErrDefaultProtected
	}
	return s.removeFromSet(ctx, KeyIncomeCategories, name, s.IncomeCategories)
}

// AddCreditCard registers a card, normalizing the display name the way the
// original registry does.
func (s *Store) AddCreditCard(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	if !strings.Contains(name, "💳") {
		name = "💳 " + name + " Crédito"
	}
	return s.addToSet(ctx, KeyCreditCards, name, s.CreditCards)
}

func (s *Store) RemoveCreditCard(ctx context.Context, name string) error {
	return s.removeFromSet(ctx, KeyCreditCards, name, s.CreditCards)
}

func (s *Store) AddTag(ctx context.Context, name string) error {
	return s.addToSet(ctx, KeyTags, name, s.Tags)
}

func (s *Store) RemoveTag(ctx context.Context, name string) error {
	return s.removeFromSet(ctx, KeyTags, name, s.Tags)
}

// SetGoal defines the monthly spend ceiling for an existing expense
// category.
func (s *Store) SetGoal(ctx context.Context, category string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	categories, err := s.ExpenseCategories(ctx)
	if err != nil {
		return err
	}
	if !containsString(categories, category) {
		return core.ErrUnknownCategory
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return err
	}
	goals[category] = amount
	return s.save(ctx, KeyGoals, goals)
}

func (s *Store) RemoveGoal(ctx context.Context, category string) error {
	goals, err := s.Goals(ctx)
	if err != nil {
		return err
	}
	if _, ok := goals[category]; !ok {
		return core.ErrNotFound
	}
	delete(goals, category)
	return s.save(ctx, KeyGoals, goals)
}

// SetMonthlyBudget stores the single cross-category ceiling. Zero clears it.
func (s *Store) SetMonthlyBudget(ctx context.Context, amount core.Money) error {
	if amount.Cents < 0 {
		return core.ErrInvalidAmount
	}
	return s.save(ctx, KeyMonthlyBudget, amount)
}

// SetEmergencyReserve stores the current saved amount.
func (s *Store) SetEmergencyReserve(ctx context.Context, amount core.Money) error {
	if amount.Cents < 0 {
		return core.ErrInvalidAmount
	}
	return s.save(ctx, KeyEmergencyReserve, amount)
}

// Reset restores every logical key to its empty or seeded default.
func (s *Store) Reset(ctx context.Context) error {
	steps := []struct {
		key   string
		value any
	}{
		{KeyExpenses, []core.Expense{}},
		{KeyIncome, []core.Income{}},
		{KeyExpenseCategories, core.DefaultExpenseCategories()},
		{KeyIncomeCategories, core.DefaultIncomeCategories()},
		{KeyCreditCards, []string{}},
		{KeyTags, []string{}},
		{KeyGoals, map[string]core.Money{}},
		{KeyMonthlyBudget, core.Money{}},
		{KeyEmergencyReserve, core.Money{}},
	}
	for _, st := range steps {
		if err := s.save(ctx, st.key, st.value); err != nil {
			return err
		}
	}
	slog.WarnContext(ctx, "Ledger reset to defaults")
	return nil
}

func (s *Store) addToSet(ctx context.Context, key, name string, get func(context.Context) ([]string, error)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	set, err := get(ctx)
	if err != nil {
		return err
	}
	if containsString(set, name) {
		return core.ErrDuplicateEntry
	}
	return s.save(ctx, key, append(set, name))
}

func (s *Store) removeFromSet(ctx context.Context, key, name string, get func(context.Context) ([]string, error)) error {
	set, err := get(ctx)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(set))
	found := false
	for _, v := range set {
		if v == name {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return core.ErrNotFound
	}
	return s.save(ctx, key, kept)
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !containsString(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
