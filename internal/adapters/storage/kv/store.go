// Package kv provides the raw key/value stores the desk persists into.
package kv

import (
	"context"
	"errors"
)

// ErrWriteRejected is returned by stores that refuse a write (full, read-only, quota).
var ErrWriteRejected = errors.New("store rejected write")

// Store is a string-keyed byte store.
// Get reports found=false with a nil error for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
