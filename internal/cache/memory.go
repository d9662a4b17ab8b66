package cache

import (
	"context"
	"strings"
	"time"

	"github.com/TwiN/gocache/v2"
)

// MemoryCache is an in-process Cache backed by gocache
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates a MemoryCache holding at most maxSize entries and
// starts its janitor, which removes expired entries in the background
func NewMemoryCache(maxSize int) (*MemoryCache, error) {
	if maxSize <= 0 {
		maxSize = gocache.DefaultMaxSize
	}
	c := gocache.NewCache().WithMaxSize(maxSize).WithEvictionPolicy(gocache.LeastRecentlyUsed)
	if err := c.StartJanitor(); err != nil {
		return nil, err
	}
	return &MemoryCache{c: c}, nil
}

// Close stops the janitor
func (m *MemoryCache) Close() {
	m.c.StopJanitor()
}

// Get implements the Cache interface
func (m *MemoryCache) Get(_ context.Context, key string, target any) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return false, nil
	}
	return true, decode(data, target)
}

// Set implements the Cache interface
func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.SetWithTTL(key, data, ttl)
	return nil
}

// Delete implements the Cache interface
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Clear implements the Cache interface.
// gocache matches patterns with filepath.Match, where "*" stops at "/", so
// the prefix is compared on the full key list instead.
func (m *MemoryCache) Clear(_ context.Context, prefix string) error {
	var keys []string
	for _, k := range m.c.GetKeysByPattern("*", 0) {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	m.c.DeleteAll(keys)
	return nil
}
