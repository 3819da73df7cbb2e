// Package collection stores typed JSON sequences in a kv.Store.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"sportsdesk/internal/adapters/storage/kv"
	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/registration"
)

// Keys are versioned; a format change gets a new key rather than a migration.
const (
	KeyRegistrations = "sas_registrations_v1"
	KeyBookings      = "sas_bookings_v1" // reserved, bookings are not cached locally
	KeyUser          = "user"
)

// Collection is a JSON-encoded sequence of T under one key.
type Collection[T any] struct {
	store kv.Store
	key   string
}

// New binds a collection to key in store.
func New[T any](store kv.Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// Registrations returns the registration collection.
func Registrations(store kv.Store) *Collection[registration.Registration] {
	return New[registration.Registration](store, KeyRegistrations)
}

// Bookings returns the reserved booking collection.
func Bookings(store kv.Store) *Collection[booking.Booking] {
	return New[booking.Booking](store, KeyBookings)
}

// Key returns the store key backing the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// Read returns the stored sequence.
// PRE: none
// POST: Never nil. Missing, unreadable or malformed data yields an empty slice
// INVARIANT: Failures are logged, never returned
func (c *Collection[T]) Read(ctx context.Context) []T {
	items, err := c.Load(ctx)
	if err != nil {
		slog.Warn("collection_read_failed", "key", c.key, "error", err)
		return []T{}
	}
	return items
}

// Load returns the stored sequence for a read-modify-write.
// PRE: none
// POST: Store errors are returned; missing or malformed data yields an empty slice
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !found {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("collection_decode_failed", "key", c.key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

// Write replaces the stored sequence with items.
// PRE: items is JSON-encodable
// POST: On nil error a later Read returns items; on error the stored value is unchanged
func (c *Collection[T]) Write(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// ReadUser returns the opaque identity stored under KeyUser, or booking.DefaultUser.
func ReadUser(ctx context.Context, store kv.Store) string {
	raw, found, err := store.Get(ctx, KeyUser)
	if err != nil {
		slog.Warn("collection_read_failed", "key", KeyUser, "error", err)
		return booking.DefaultUser
	}
	user := strings.TrimSpace(string(raw))
	if !found || user == "" {
		return booking.DefaultUser
	}
	return user
}

// WriteUser stores the identity used for new bookings.
func WriteUser(ctx context.Context, store kv.Store, user string) error {
	if err := store.Set(ctx, KeyUser, []byte(strings.TrimSpace(user))); err != nil {
		return fmt.Errorf("write %s: %w", KeyUser, err)
	}
	return nil
}
