package cache

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
)

func TestMemory_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	c := NewMemory(10, time.Minute, mock)

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok, _ := c.Get(ctx, "k"); !ok || string(got) != "v" {
		t.Fatalf("expected hit, got %q %v", got, ok)
	}
	mock.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected expiry at ttl")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be dropped")
	}
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, time.Hour, clock.NewMock())

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_, _, _ = c.Get(ctx, "a")
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Fatalf("expected a kept")
	}
}

func TestMemory_DeleteAndCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0, 0, nil)

	buf := []byte("orig")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'X'
	got, _, _ := c.Get(ctx, "k")
	if string(got) != "orig" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}

	if err := c.Delete(ctx, "k", "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemory_OverwriteRefreshesExpiryAndRecency(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	c := NewMemory(2, time.Minute, mock)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	mock.Add(50 * time.Second)
	_ = c.Set(ctx, "a", []byte("1b"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Fatalf("expected b evicted as least recently used")
	}
	mock.Add(30 * time.Second)
	got, ok, _ := c.Get(ctx, "a")
	if !ok || string(got) != "1b" {
		t.Fatalf("overwrite should restart the ttl, got %q %v", got, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}
