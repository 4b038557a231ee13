package utils

import (
	"testing"
	"time"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := NewTTLCache[int](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Errorf("Get(missing) ok = true, want false")
	}

	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %v, %v; want 2, true", v, ok)
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Errorf("Get(a) after Delete ok = true")
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache[string](4, time.Millisecond)
	c.Set("k", "v")

	time.Sleep(10 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Errorf("Get(k) after ttl ok = true, want false")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (expired entry removed on read)", c.Len())
	}
}

func TestTTLCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Get(%s) ok = false, want true", k)
		}
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestNewTTLCache_NonPositiveSize(t *testing.T) {
	c := NewTTLCache[int](0, time.Minute)
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
}

func TestCacheDeletePrefix(t *testing.T) {
	InitCache()
	defer CacheClear()

	CacheSet("movie:1", 1, time.Minute)
	CacheSet("movie:2", 2, time.Minute)
	CacheSet("genres", []string{"Drama"}, time.Minute)

	if n := CacheDeletePrefix("movie:"); n != 2 {
		t.Errorf("CacheDeletePrefix() = %d, want 2", n)
	}
	if _, ok := CacheGet("movie:1"); ok {
		t.Errorf("movie:1 still cached")
	}
	if _, ok := CacheGet("genres"); !ok {
		t.Errorf("genres was removed")
	}
}
