package enhance

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheHitAndMiss(t *testing.T) {
	c := NewCache(64, time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Fatalf("hit on an empty cache")
	}

	c.Put(CacheEntry{Digest: "d1", Bytes: []byte("processed")})
	e, ok := c.Get("d1")
	if !ok {
		t.Fatalf("miss after Put")
	}
	if string(e.Bytes) != "processed" {
		t.Fatalf("bytes = %q", e.Bytes)
	}
	if e.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not stamped")
	}
}

func TestCacheExpiredEntryIsAMiss(t *testing.T) {
	c := NewCache(64, time.Minute)
	current := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return current }

	c.Put(CacheEntry{Digest: "d1", Bytes: []byte("x")})

	current = current.Add(time.Minute)
	if _, ok := c.Get("d1"); !ok {
		t.Fatalf("entry at exactly the TTL should still hit")
	}

	current = current.Add(time.Second)
	if _, ok := c.Get("d1"); ok {
		t.Fatalf("expired entry returned as a hit")
	}
}

// sameShardDigest finds a digest that lands on the same shard as ref.
func sameShardDigest(c *Cache, ref string) string {
	target := c.shard(ref)
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("probe-%d", i)
		if c.shard(candidate) == target {
			return candidate
		}
	}
}

func TestCacheSweepsExpiredBeforeInsert(t *testing.T) {
	// Capacity 16 over 16 shards: one entry per shard, so the second insert
	// on a shard triggers the sweep.
	c := NewCache(16, time.Minute)
	current := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return current }

	c.Put(CacheEntry{Digest: "d1", Bytes: []byte("old")})
	other := sameShardDigest(c, "d1")

	current = current.Add(2 * time.Minute)
	c.Put(CacheEntry{Digest: other, Bytes: []byte("new")})

	if _, ok := c.Get("d1"); ok {
		t.Fatalf("expired entry survived the sweep")
	}
	if _, ok := c.Get(other); !ok {
		t.Fatalf("fresh entry missing after insert")
	}
	if got := c.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
}

func TestCacheInsertsRegardlessWhenNothingExpired(t *testing.T) {
	c := NewCache(16, time.Hour)
	c.Put(CacheEntry{Digest: "d1"})
	other := sameShardDigest(c, "d1")

	c.Put(CacheEntry{Digest: other})

	// Both live: the bound tolerates temporary over-capacity.
	if _, ok := c.Get("d1"); !ok {
		t.Fatalf("live entry evicted")
	}
	if _, ok := c.Get(other); !ok {
		t.Fatalf("fresh entry rejected at capacity")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(64, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			digest := fmt.Sprintf("digest-%d", i%8)
			for j := 0; j < 100; j++ {
				c.Put(CacheEntry{Digest: digest, Bytes: []byte("x")})
				c.Get(digest)
			}
		}(i)
	}
	wg.Wait()
}
