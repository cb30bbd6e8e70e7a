// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/marquee/internal/metrics"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[int, string](3, time.Minute)

	c.Add(862, "Toy Story")
	c.Add(8844, "Jumanji")
	c.Add(949, "Heat")

	for key, want := range map[int]string{862: "Toy Story", 8844: "Jumanji", 949: "Heat"} {
		got, ok := c.Get(key)
		if !ok || got != want {
			t.Errorf("Get(%d) = (%q, %v), want (%q, true)", key, got, ok, want)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// 'a' becomes most recently used, so 'b' is the eviction victim
	c.Get("a")
	c.Add("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %q to be present", key)
		}
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[string, int](10, time.Hour, WithClock(clock.Now))

	c.Add("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected 'a' immediately after Add")
	}

	clock.Advance(time.Hour + time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("expected 'a' to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped on access, Len() = %d", c.Len())
	}
}

func TestLRU_AddRefreshesTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[string, int](10, time.Hour, WithClock(clock.Now))

	c.Add("a", 1)
	clock.Advance(50 * time.Minute)
	c.Add("a", 2)
	clock.Advance(50 * time.Minute)

	got, ok := c.Get("a")
	if !ok || got != 2 {
		t.Errorf("Get(a) = (%d, %v), want (2, true)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after update, want 1", c.Len())
	}
}

func TestLRU_Remove(t *testing.T) {
	c := NewLRU[string, int](10, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false for existing key")
	}
	if c.Remove("a") {
		t.Error("Remove(a) = true for removed key")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected 'b' to remain")
	}
}

func TestLRU_Clear(t *testing.T) {
	c := NewLRU[string, int](10, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear", c.Len())
	}
	c.Add("c", 3)
	if _, ok := c.Get("c"); !ok {
		t.Error("cache unusable after Clear")
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU[string, int](10, time.Minute, WithClock(clock.Now))

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	clock.Advance(2 * time.Minute)
	c.Add("d", 4)

	if removed := c.CleanupExpired(); removed != 3 {
		t.Errorf("CleanupExpired() = %d, want 3", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Get("d"); !ok {
		t.Error("expected 'd' to survive cleanup")
	}
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU[string, int](10, time.Minute)

	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses, size := c.Stats()
	if hits != 2 || misses != 1 || size != 1 {
		t.Errorf("Stats() = (%d, %d, %d), want (2, 1, 1)", hits, misses, size)
	}
}

func TestLRU_Metrics(t *testing.T) {
	const name = "lru-test"
	clock := newFakeClock()
	c := NewLRU[int, int](2, time.Minute, WithMetrics(name), WithClock(clock.Now))

	c.Add(1, 1)
	c.Add(2, 2)
	c.Add(3, 3) // evicts 1
	c.Get(2)
	c.Get(1)

	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues(name)); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues(name)); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheEvictions.WithLabelValues(name)); got != 1 {
		t.Errorf("evictions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheSize.WithLabelValues(name)); got != 2 {
		t.Errorf("size = %v, want 2", got)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int, int](100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := (id + j) % 150
				c.Add(key, j)
				c.Get(key)
				if j%50 == 0 {
					c.CleanupExpired()
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkLRU_Add(b *testing.B) {
	c := NewLRU[int, int](10000, time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Add(i%20000, i)
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := NewLRU[int, int](10000, time.Minute)
	for i := 0; i < 1000; i++ {
		c.Add(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 1000)
	}
}
