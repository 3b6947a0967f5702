package core

import (
	"strings"
	"time"
)

// RecurrenceFilter selects transactions by their recurring flag.
const (
	FilterAll       RecurrenceFilter = "all"
	FilterRecurring RecurrenceFilter = "recurring"
	FilterOneTime   RecurrenceFilter = "oneTime"
)

// MethodUnspecified is the sentinel bucket for expenses saved without a
// payment method.
const MethodUnspecified = "❓ Não especificado"

type (
	RecurrenceFilter string

	// Expense is a single ledger entry. For credit purchases split over N
	// charges, Amount holds the per-installment value and TotalAmount the
	// full purchase value; otherwise the two are equal and Installments is 0.
	Expense struct {
		ID                string     `json:"id"`
		Amount            Money      `json:"amount"`
		TotalAmount       Money      `json:"totalAmount"`
		Category          string     `json:"category"`
		PaymentMethod     string     `json:"paymentMethod"`
		Description       string     `json:"description,omitempty"`
		Tags              []string   `json:"tags,omitempty"`
		DueDate           *time.Time `json:"dueDate,omitempty"`
		Date              time.Time  `json:"date"`
		Recurring         bool       `json:"recurring"`
		OriginalDate      *time.Time `json:"originalDate,omitempty"`
		RecurringParentID string     `json:"recurringParentId,omitempty"`
		Installments      int        `json:"installments,omitempty"`
		PaidInstallments  int        `json:"paidInstallments,omitempty"`
	}

	// Income mirrors Expense without installments or payment method.
	Income struct {
		ID                string     `json:"id"`
		Amount            Money      `json:"amount"`
		Category          string     `json:"category"`
		Description       string     `json:"description,omitempty"`
		Date              time.Time  `json:"date"`
		Recurring         bool       `json:"recurring"`
		OriginalDate      *time.Time `json:"originalDate,omitempty"`
		RecurringParentID string     `json:"recurringParentId,omitempty"`
	}

	// PaymentMethod is a registry entry. Credit is an explicit attribute,
	// never derived from the display name.
	PaymentMethod struct {
		Name   string `json:"name"`
		Credit bool   `json:"credit"`
	}
)

func defaultExpenseCategories() []string {
	return []string{
		"🍔 Alimentação", "🚗 Transporte", "🎮 Lazer", "💊 Saúde",
		"📚 Educação", "🏠 Moradia", "👕 Vestuário", "🧾 Contas", "📦 Outros",
	}
}

func defaultIncomeCategories() []string {
	return []string{"💼 Salário", "💻 Freelance", "📈 Investimentos", "💵 Outros"}
}

func defaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{Name: "💵 Dinheiro"},
		{Name: "📱 PIX"},
		{Name: "💳 Cartão de Débito"},
		{Name: "💳 Cartão de Crédito", Credit: true},
	}
}

// DefaultExpenseCategories returns the seeded expense category set. These
// entries can never be removed.
func DefaultExpenseCategories() []string { return defaultExpenseCategories() }

// DefaultIncomeCategories returns the seeded income category set.
func DefaultIncomeCategories() []string { return defaultIncomeCategories() }

// DefaultPaymentMethods returns the fixed method registry before any
// user-registered cards.
func DefaultPaymentMethods() []PaymentMethod { return defaultPaymentMethods() }

// IsDefaultExpenseCategory reports whether name belongs to the protected set.
func IsDefaultExpenseCategory(name string) bool {
	return containsString(defaultExpenseCategories(), name)
}

// IsDefaultIncomeCategory reports whether name belongs to the protected set.
func IsDefaultIncomeCategory(name string) bool {
	return containsString(defaultIncomeCategories(), name)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (f RecurrenceFilter) Validate() error {
	switch f {
	case FilterAll, FilterRecurring, FilterOneTime:
		return nil
	default:
		return ErrInvalidFilter
	}
}

// Matches applies the filter predicate to a recurring flag.
func (f RecurrenceFilter) Matches(recurring bool) bool {
	switch f {
	case FilterRecurring:
		return recurring
	case FilterOneTime:
		return !recurring
	default:
		return true
	}
}

// IsInstallment reports whether the expense is a credit purchase split over
// multiple charges.
func (e Expense) IsInstallment() bool {
	return e.Installments > 0
}

// Settled reports whether every installment of a credit purchase has been
// paid. Non-installment expenses are never settled in this sense.
func (e Expense) Settled() bool {
	return e.Installments > 0 && e.PaidInstallments >= e.Installments
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Installments != 0 {
		if e.Installments < 1 {
			return ErrInvalidInstallments
		}
		if e.PaidInstallments < 0 || e.PaidInstallments > e.Installments {
			return ErrInvalidInstallments
		}
		if err := e.TotalAmount.Validate(); err != nil {
			return err
		}
	}
	if e.Recurring && e.OriginalDate == nil {
		return ErrMissingOriginalDate
	}
	return nil
}

func (i Income) Validate() error {
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(i.Category) == "" {
		return ErrEmptyCategory
	}
	if len(i.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if i.Recurring && i.OriginalDate == nil {
		return ErrMissingOriginalDate
	}
	return nil
}
