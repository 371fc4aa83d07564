package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemoryCacheSize = 10_000

type MemoryProvider struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryProvider builds an LRU cache holding at most size entries. A
// non-positive size uses the default.
func NewMemoryProvider(size int) (*MemoryProvider, error) {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryProvider{entries: c, now: time.Now}, nil
}

func (m *MemoryProvider) Get(_ context.Context, key string) (string, error) {
	cached, ok := m.entries.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	if !cached.expiresAt.IsZero() && !m.now().Before(cached.expiresAt) {
		m.entries.Remove(key)
		return "", ErrNotFound
	}
	return cached.value, nil
}

// Set stores value under key. A non-positive ttl keeps the entry until it is
// evicted.
func (m *MemoryProvider) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}
	m.entries.Add(key, entry{value: value, expiresAt: expiresAt})
	return nil
}

func (m *MemoryProvider) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *MemoryProvider) Ping(context.Context) error {
	return nil
}

func (m *MemoryProvider) Close() error {
	m.entries.Purge()
	return nil
}
