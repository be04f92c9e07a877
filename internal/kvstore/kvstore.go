// Package kvstore is the durable string-keyed storage boundary shared by the
// preference and meal history stores.
package kvstore

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing store cannot be reached
var ErrUnavailable = errors.New("key-value store unavailable")

// Store is a flat string key-value store. A missing key is reported through
// the boolean from Get, never as an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
}
