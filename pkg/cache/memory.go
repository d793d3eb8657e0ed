package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache keeps entries in process memory, bounded by entry count.
// When full, expired entries are dropped first and then the entry closest
// to expiry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	limit   int
	closed  bool
	now     func() time.Time
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// DefaultMemoryEntries bounds a MemoryCache created with limit <= 0.
const DefaultMemoryEntries = 1024

// NewMemoryCache returns an empty cache holding at most limit entries.
func NewMemoryCache(limit int) *MemoryCache {
	if limit <= 0 {
		limit = DefaultMemoryEntries
	}
	return &MemoryCache{entries: make(map[string]memEntry), limit: limit, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false, ErrClosed
	}
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.expired(e) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	e := memEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.limit {
		c.evict()
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.entries = nil
	return nil
}

func (c *MemoryCache) expired(e memEntry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

// evict makes room for one entry. Callers hold mu.
func (c *MemoryCache) evict() {
	var (
		victim string
		soon   time.Time
	)
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			continue
		}
		// Entries without expiry go last.
		if !e.expiresAt.IsZero() && (soon.IsZero() || e.expiresAt.Before(soon)) {
			victim, soon = k, e.expiresAt
		}
	}
	if len(c.entries) < c.limit {
		return
	}
	if victim == "" {
		for k := range c.entries {
			victim = k
			break
		}
	}
	delete(c.entries, victim)
}

var _ Cache = (*MemoryCache)(nil)
