package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Load(ctx, "expenses"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Save(ctx, "expenses", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	v, err := s.Load(ctx, "expenses")
	if err != nil || string(v) != "[]" {
		t.Fatalf("got %s, %v", v, err)
	}

	// Returned slice is a copy; mutating it must not leak into the store.
	v[0] = 'x'
	v2, _ := s.Load(ctx, "expenses")
	if string(v2) != "[]" {
		t.Fatalf("store mutated through returned slice: %s", v2)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Save(ctx, "monthlyBudget", []byte(`500`))
	_ = s.Save(ctx, "monthlyBudget", []byte(`750`))
	v, err := s.Load(ctx, "monthlyBudget")
	if err != nil || string(v) != "750" {
		t.Fatalf("got %s, %v", v, err)
	}
}
