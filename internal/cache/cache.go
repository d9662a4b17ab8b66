// Package cache provides the response cache used by the REST API. Values are
// encoded with msgpack, so both backends return copies and never share
// memory with the caller.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache is a key value store with expiring entries
type Cache interface {
	// Get decodes the entry stored under key into target; it returns false
	// if there is no such entry
	Get(ctx context.Context, key string, target any) (bool, error)
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes the entry stored under key
	Delete(ctx context.Context, key string) error
	// Clear removes all entries whose key starts with prefix
	Clear(ctx context.Context, prefix string) error
}

// Key joins key segments
func Key(segments ...string) string {
	return strings.Join(segments, ":")
}

func encode(value any) ([]byte, error) {
	data, err := msgpack.Marshal(value)
	return data, errors.Wrap(err, "failed to encode cache entry")
}

func decode(data []byte, target any) error {
	return errors.Wrap(msgpack.Unmarshal(data, target), "failed to decode cache entry")
}

// Noop is a Cache that stores nothing. It is used when caching is disabled.
type Noop struct{}

// Get implements the Cache interface
func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set implements the Cache interface
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }

// Delete implements the Cache interface
func (Noop) Delete(context.Context, string) error { return nil }

// Clear implements the Cache interface
func (Noop) Clear(context.Context, string) error { return nil }
