// Package store holds the key-value and queue abstractions the services
// persist through, with Redis and in-memory implementations.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key is missing or a queue pop times out.
var ErrNotFound = errors.New("store: not found")

// KV is a byte-oriented key-value store. A zero ttl means no expiry.
// Hash fields are written individually, so concurrent writers of distinct
// fields never overwrite each other.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	HSet(ctx context.Context, key, field string, value []byte) error
	// HSetNX writes field only when it is absent and reports whether it did.
	HSetNX(ctx context.Context, key, field string, value []byte) (bool, error)
	// HGetAll returns every field of key; a missing key yields an empty map.
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// Queue is a FIFO of opaque payloads.
type Queue interface {
	Push(ctx context.Context, queue string, values ...[]byte) error
	// Pop waits up to timeout for a payload and returns ErrNotFound when
	// none arrives.
	Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
}

// GetJSON loads key and decodes it into dst.
func GetJSON(ctx context.Context, kv KV, key string, dst interface{}) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, kv KV, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw, ttl)
}
