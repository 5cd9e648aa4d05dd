// internal/kv/kv.go
//
// Small key/value persistence used for the puzzle cache and player progress.
// Values are opaque bytes (callers store JSON). Two backends:
//   - memory: map guarded by RWMutex, lost on restart.
//   - sqlite: the kv table created by assets/sql/001_kv.sql.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("kv: key not found")

// Store reads and writes values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
