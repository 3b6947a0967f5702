// Package ledger implements the typed store over the key-value persistence
// collaborator: one logical key per collection, whole-collection
// read-modify-write on every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gastos/internal/core"
	"gastos/internal/storage"
)

// Logical persistence keys.
const (
	KeyExpenses          = "expenses"
	KeyIncome            = "income"
	KeyExpenseCategories = "expenseCategories"
	KeyIncomeCategories  = "incomeCategories"
	KeyCreditCards       = "creditCards"
	KeyTags              = "tags"
	KeyGoals             = "goals"
	KeyMonthlyBudget     = "monthlyBudget"
	KeyEmergencyReserve  = "emergencyReserve"
)

// Store is the Ledger Store. It owns no derived state; aggregation happens
// over snapshots elsewhere.
type Store struct {
	kv    storage.KV
	newID func() string
}

func New(kv storage.KV) *Store {
	return &Store{kv: kv, newID: uuid.NewString}
}

// load decodes the value at key into dst. A missing key leaves dst untouched
// and returns false; a decode failure surfaces as *core.CorruptDataError.
func (s *Store) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.kv.Load(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, &core.CorruptDataError{Key: key, Err: err}
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Expenses returns the full expense collection, most recent first.
func (s *Store) Expenses(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	if _, err := s.load(ctx, KeyExpenses, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Income returns the full income collection, most recent first.
func (s *Store) Income(ctx context.Context) ([]core.Income, error) {
	var out []core.Income
	if _, err := s.load(ctx, KeyIncome, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpenseCategories returns the category set, seeding the defaults on first
// access.
func (s *Store) ExpenseCategories(ctx context.Context) ([]string, error) {
	var out []string
	found, err := s.load(ctx, KeyExpenseCategories, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return core.DefaultExpenseCategories(), nil
	}
	return out, nil
}

func (s *Store) IncomeCategories(ctx context.Context) ([]string, error) {
	var out []string
	found, err := s.load(ctx, KeyIncomeCategories, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return core.DefaultIncomeCategories(), nil
	}
	return out, nil
}

// CreditCards returns the user-registered card names.
func (s *Store) CreditCards(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := s.load(ctx, KeyCreditCards, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags returns the known tag vocabulary.
func (s *Store) Tags(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := s.load(ctx, KeyTags, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Goals returns the per-category monthly spend ceilings.
func (s *Store) Goals(ctx context.Context) (map[string]core.Money, error) {
	out := map[string]core.Money{}
	if _, err := s.load(ctx, KeyGoals, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) MonthlyBudget(ctx context.Context) (core.Money, error) {
	var out core.Money
	if _, err := s.load(ctx, KeyMonthlyBudget, &out); err != nil {
		return core.Money{}, err
	}
	return out, nil
}

func (s *Store) EmergencyReserve(ctx context.Context) (core.Money, error) {
	var out core.Money
	if _, err := s.load(ctx, KeyEmergencyReserve, &out); err != nil {
		return core.Money{}, err
	}
	return out, nil
}

// PaymentMethods returns the fixed defaults unioned with registered cards,
// each card flagged as credit.
func (s *Store) PaymentMethods(ctx context.Context) ([]core.PaymentMethod, error) {
	cards, err := s.CreditCards(ctx)
	if err != nil {
		return nil, err
	}
	methods := core.DefaultPaymentMethods()
	for _, c := range cards {
		methods = append(methods, core.PaymentMethod{Name: c, Credit: true})
	}
	return methods, nil
}

// IsCreditMethod resolves a method name against the registry. Unknown names
// are not credit.
func (s *Store) IsCreditMethod(ctx context.Context, name string) (bool, error) {
	methods, err := s.PaymentMethods(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range methods {
		if m.Name == name {
			return m.Credit, nil
		}
	}
	return false, nil
}

// Snapshot is the in-memory state the aggregation engine computes over.
type Snapshot struct {
	Expenses    []core.Expense
	Income      []core.Income
	CreditCards []string
	Goals       map[string]core.Money
	Budget      core.Money
	Reserve     core.Money
}

// Snapshot loads every collection the engine needs in one place.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Expenses, err = s.Expenses(ctx); err != nil {
		return snap, err
	}
	if snap.Income, err = s.Income(ctx); err != nil {
		return snap, err
	}
	if snap.CreditCards, err = s.CreditCards(ctx); err != nil {
		return snap, err
	}
	if snap.Goals, err = s.Goals(ctx); err != nil {
		return snap, err
	}
	if snap.Budget, err = s.MonthlyBudget(ctx); err != nil {
		return snap, err
	}
	if snap.Reserve, err = s.EmergencyReserve(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}
