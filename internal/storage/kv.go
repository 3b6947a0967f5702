// Package storage provides the persistence collaborator: a string-keyed
// store of JSON-serialized values. The engine never sees anything richer
// than Load/Save per logical key.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Load for keys that were never saved.
var ErrKeyNotFound = errors.New("key not found")

// KV is the store contract. Save replaces the whole value for a key; there
// are no partial writes observable to readers.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
