package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	c, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.Set(ctx, "get_disciplines", []byte(`[{"source":"x"}]`), time.Hour); err != nil {
		t.Fatal(err)
	}

	data, ok, err := c.Get(ctx, "get_disciplines")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `[{"source":"x"}]` {
		t.Errorf("unexpected value: %s", data)
	}

	_, ok, err = c.Get(ctx, "other")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected cache miss for unknown key")
	}
}

func TestOverwrite(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_ = c.Set(ctx, "k", []byte("one"), time.Hour)
	_ = c.Set(ctx, "k", []byte("two"), time.Hour)

	data, ok, _ := c.Get(ctx, "k")
	if !ok || string(data) != "two" {
		t.Errorf("expected overwritten value, got %q (ok=%v)", data, ok)
	}
}

func TestTTLExpiration(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.Set(ctx, "k", []byte("data"), 0); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)

	_, ok, _ := c.Get(ctx, "k")
	if ok {
		t.Error("expected cache miss after TTL expiration")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_ = c.Set(ctx, "h1", []byte("data"), time.Hour)
	c.Get(ctx, "h1") // hit
	c.Get(ctx, "h2") // miss

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "h1", []byte("data"), time.Hour)
	_ = c.Set(ctx, "h2", []byte("data"), time.Second)

	now = now.Add(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "h2"); ok {
		t.Error("expected entry past its ttl to be a miss")
	}
	if err := c.Clear(ctx, true); err != nil {
		t.Fatal(err)
	}
	stats, _ := c.Stats(ctx)
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry after expired-only clear, got %d", stats.Entries)
	}
	if _, ok, _ := c.Get(ctx, "h1"); !ok {
		t.Error("expected live entry to survive expired-only clear")
	}

	if err := c.Clear(ctx, false); err != nil {
		t.Fatal(err)
	}
	stats, _ = c.Stats(ctx)
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries after clear, got %d", stats.Entries)
	}
}
