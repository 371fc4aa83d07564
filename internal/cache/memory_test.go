package cache

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryProvider_GetSetDelete(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider(0)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	ctx := t.Context()

	if _, err := provider.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := provider.Set(ctx, RiskKey("#1"), "cached", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := provider.Get(ctx, RiskKey("#1"))
	if err != nil || got != "cached" {
		t.Fatalf("Get() = %q, %v; want cached, nil", got, err)
	}

	if err := provider.Delete(ctx, RiskKey("#1")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := provider.Get(ctx, RiskKey("#1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryProvider_Expiry(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider(4)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	provider.now = func() time.Time { return now }
	ctx := t.Context()

	if err := provider.Set(ctx, "short", "v", time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := provider.Set(ctx, "forever", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(2 * time.Second)

	if _, err := provider.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired entry, got %v", err)
	}
	if _, err := provider.Get(ctx, "forever"); err != nil {
		t.Fatalf("expected entry without ttl to survive, got %v", err)
	}
}

func TestMemoryProvider_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider(2)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	ctx := t.Context()

	for _, key := range []string{"a", "b", "c"} {
		if err := provider.Set(ctx, key, key, time.Minute); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if _, err := provider.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected oldest entry to be evicted, got %v", err)
	}
}

func TestNewProvider_RejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	if _, err := NewProvider(t.Context(), Config{Provider: "memcached"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
