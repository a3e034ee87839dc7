package enhance

import (
	"hash/fnv"
	"sync"
	"time"
)

// CacheEntry is one processed image, keyed by the digest of the original
// bytes it was computed from. Filename and ContentType describe the
// processed artifact for callers that re-upload it.
type CacheEntry struct {
	Digest      string
	Bytes       []byte
	Filename    string
	ContentType string
	CreatedAt   time.Time
}

const shardCount = 16

// Cache is a sharded digest-keyed store with a TTL and a capacity bound.
// Sharding keeps eviction on one key range from blocking unrelated lookups.
// An expired entry is treated as absent on read and is swept on the next
// insert that finds its shard full.
type Cache struct {
	shards   [shardCount]cacheShard
	perShard int
	ttl      time.Duration
	now      func() time.Time
}

type cacheShard struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
}

// NewCache builds a cache holding at most capacity entries (spread over the
// shards, at least one per shard) with the given TTL.
func NewCache(capacity int, ttl time.Duration) *Cache {
	per := capacity / shardCount
	if per < 1 {
		per = 1
	}
	c := &Cache{perShard: per, ttl: ttl, now: time.Now}
	for i := range c.shards {
		c.shards[i].entries = make(map[string]CacheEntry)
	}
	return c
}

func (c *Cache) shard(digest string) *cacheShard {
	h := fnv.New32a()
	h.Write([]byte(digest))
	return &c.shards[h.Sum32()%shardCount]
}

// Get returns the entry for digest. Expired entries report a miss.
func (c *Cache) Get(digest string) (CacheEntry, bool) {
	s := c.shard(digest)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[digest]
	if !ok || c.now().Sub(e.CreatedAt) > c.ttl {
		return CacheEntry{}, false
	}
	return e, true
}

// Put stores entry, stamping CreatedAt. A full shard first sweeps its
// expired entries, then inserts regardless: temporary over-capacity beats
// refusing fresh work.
func (c *Cache) Put(entry CacheEntry) {
	s := c.shard(entry.Digest)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= c.perShard {
		for digest, e := range s.entries {
			if c.now().Sub(e.CreatedAt) > c.ttl {
				delete(s.entries, digest)
			}
		}
	}
	entry.CreatedAt = c.now()
	s.entries[entry.Digest] = entry
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}
