package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"300", 30000, true},
		{"", 0, false},
		{"-5", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestSplitInstallments(t *testing.T) {
	amt, err := SplitInstallments(Money{Cents: 30000}, 3)
	if err != nil || amt.Cents != 10000 {
		t.Fatalf("got %d, %v; want 10000", amt.Cents, err)
	}

	// Uneven split: remainder stays under n cents.
	amt, err = SplitInstallments(Money{Cents: 10000}, 3)
	if err != nil {
		t.Fatal(err)
	}
	diff := amt.Cents*3 - 10000
	if diff < -2 || diff > 2 {
		t.Fatalf("remainder out of bounds: %d", diff)
	}

	if _, err := SplitInstallments(Money{Cents: 100}, 0); err == nil {
		t.Fatal("expected error for zero installments")
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil || string(b) != "1234" {
		t.Fatalf("got %s, %v", b, err)
	}
	var m Money
	if err := json.Unmarshal([]byte("5678"), &m); err != nil || m.Cents != 5678 {
		t.Fatalf("got %d, %v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"x"`), &m); err == nil {
		t.Fatal("expected error for non-numeric money")
	}
}
