// Package core holds the domain model of the ledger: transactions, money,
// the category/method registries and their validation rules.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency-agnostic amount in hundredths of the unit. All
// arithmetic happens on Cents; Units is for presentation only.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the decimal value as a float64 for display purposes.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns m + n.
func (m Money) Add(n Money) Money { return Money{Cents: m.Cents + n.Cents} }

// Sub returns m - n. Negative results are valid (balances can be negative).
func (m Money) Sub(n Money) Money { return Money{Cents: m.Cents - n.Cents} }

// MarshalJSON encodes Money as a bare integer cents value so persisted
// records stay plain numbers.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Cents, 10), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = v
	return nil
}

// SplitInstallments returns the per-installment value for a purchase of
// total split over n charges, rounding half up. The remainder is bounded by
// n-1 cents and is the tolerance of total == amount*n.
func SplitInstallments(total Money, n int) (Money, error) {
	if n < 1 {
		return Money{}, ErrInvalidInstallments
	}
	if err := total.Validate(); err != nil {
		return Money{}, err
	}
	cents := (total.Cents + int64(n)/2) / int64(n)
	return Money{Cents: cents}, nil
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted; only positive values are valid.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
