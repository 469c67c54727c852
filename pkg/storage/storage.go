// Package storage is the key-value surface that itineraries and cost records persist to.
package storage

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("storage key must not be empty")

// Store is a flat string key-value store. Set is an upsert; Delete of a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
