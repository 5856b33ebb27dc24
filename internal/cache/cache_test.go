package cache

import (
	"slices"
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](100)
	if c.Capacity() != 100 {
		t.Errorf("Capacity() = %d, want 100", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if New[string, int](-5).Capacity() != 0 {
		t.Error("negative limit was not clamped to unlimited")
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 42)

	if v, ok := c.Get("a"); !ok || v != 42 {
		t.Errorf("Get(a) = %d, %v, want 42, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.HitRate != 0.5 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss", s)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")
	c.Set("d", 4)

	if !slices.Equal(evicted, []string{"b"}) {
		t.Errorf("evicted = %v, want [b]", evicted)
	}
	if got := c.Keys(); !slices.Equal(got, []string{"d", "a", "c"}) {
		t.Errorf("Keys() = %v, want [d a c]", got)
	}
}

func TestCachePeekKeepsOrder(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Peek("a"); !ok || v != 1 {
		t.Fatalf("Peek(a) = %d, %v", v, ok)
	}
	c.Set("c", 3)
	if _, ok := c.Peek("a"); ok {
		t.Error("Peek refreshed the entry")
	}
}

func TestCacheReplaceEvictsOldValue(t *testing.T) {
	c := New[string, int](0)
	var old []int
	c.OnEvict(func(_ string, v int) { old = append(old, v) })

	c.Set("a", 1)
	c.Set("a", 2)
	if !slices.Equal(old, []int{1}) {
		t.Errorf("evicted values = %v, want [1]", old)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[int, string](0)
	n := 0
	c.OnEvict(func(int, string) { n++ })
	for i := range 5 {
		c.Set(i, strconv.Itoa(i))
	}

	if !c.Delete(2) {
		t.Error("Delete(2) = false")
	}
	if c.Delete(2) {
		t.Error("second Delete(2) = true")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	if n != 5 {
		t.Errorf("eviction callback ran %d times, want 5", n)
	}
	if s := c.Stats(); s.Evictions != 5 {
		t.Errorf("Evictions = %d, want 5", s.Evictions)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() int {
		calls++
		return 7
	}
	for range 3 {
		if v := c.GetOrCreate("k", create); v != 7 {
			t.Fatalf("GetOrCreate = %d, want 7", v)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				k := (g*500 + i) % 100
				c.GetOrCreate(k, func() int { return k })
				c.Get(k)
			}
		}()
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len() = %d exceeds limit 64", c.Len())
	}
}
