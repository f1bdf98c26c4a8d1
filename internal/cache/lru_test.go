package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := New[string](2, time.Minute)
	c.Set("a", "1")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}
}

func TestLRUEviction(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a; b becomes the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry a should survive eviction")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := New[int](10, time.Millisecond)
	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should miss")
	}
}

func TestLRUPurgeExpired(t *testing.T) {
	c := New[int](10, time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(5 * time.Millisecond)

	if purged := c.PurgeExpired(); purged != 2 {
		t.Errorf("PurgeExpired = %d, want 2", purged)
	}
	if c.Len() != 0 {
		t.Errorf("Len after purge = %d, want 0", c.Len())
	}
}
