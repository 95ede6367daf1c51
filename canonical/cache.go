package canonical

import (
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/boardstate/config"
)

// The cache maps any hash seen during a canonical pass to the minimum of
// that pass, so that hashing a position whose orbit was already explored is
// a single lookup. Entries are per hasher. The cache may be shared between
// goroutines.

// bytes per map entry, roughly
const entrySize = 48

const minCacheEntries = 1 << 12

type cacheKey struct {
	hash    uint64
	hasher  uint32
	whoOnly bool
}

// Cache is a bounded map from variant hashes to canonical hashes. When it
// fills up it is cleared.
type Cache struct {
	sync.Mutex
	entries  map[cacheKey]uint64
	capacity int

	lookups atomic.Uint64
	hits    atomic.Uint64
}

// GlobalCache is used by hashers that were not given their own.
var GlobalCache *Cache

var globalOnce sync.Once

// NewCache creates a cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity < minCacheEntries {
		capacity = minCacheEntries
	}
	return &Cache{entries: make(map[cacheKey]uint64), capacity: capacity}
}

// SizeFromMemory is the number of entries that fit in the given fraction of
// physical memory.
func SizeFromMemory(fractionOfMemory float64) int {
	totalMem := memory.TotalMemory()
	n := int(fractionOfMemory * float64(totalMem) / entrySize)
	log.Debug().Uint64("total-system-memory-bytes", totalMem).
		Int("num-elems", n).Msg("canonical-cache-size")
	return n
}

// NewCacheFromConfig sizes a cache from the canonical-cache-size setting,
// or from 1% of physical memory when it is 0.
func NewCacheFromConfig(cfg *config.Config) *Cache {
	n := cfg.GetInt(config.ConfigCanonicalCacheSize)
	if n <= 0 {
		n = SizeFromMemory(0.01)
	}
	return NewCache(n)
}

// CreateGlobalCache sets up GlobalCache from cfg. Only the first call has
// any effect.
func CreateGlobalCache(cfg *config.Config) {
	globalOnce.Do(func() {
		GlobalCache = NewCacheFromConfig(cfg)
	})
}

func globalCache() *Cache {
	globalOnce.Do(func() {
		GlobalCache = NewCache(SizeFromMemory(0.01))
	})
	return GlobalCache
}

func (c *Cache) get(k cacheKey) (uint64, bool) {
	c.Lock()
	defer c.Unlock()
	c.lookups.Add(1)
	v, ok := c.entries[k]
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

func (c *Cache) store(hashes []uint64, hasher uint32, whoOnly bool, canon uint64) {
	c.Lock()
	defer c.Unlock()
	if len(c.entries)+len(hashes) > c.capacity {
		log.Debug().Int("entries", len(c.entries)).Msg("clearing full canonical cache")
		clear(c.entries)
	}
	for _, h := range hashes {
		c.entries[cacheKey{h, hasher, whoOnly}] = canon
	}
}

// Len is the number of cached entries.
func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.entries)
}

// Stats returns the number of lookups and hits so far.
func (c *Cache) Stats() (lookups, hits uint64) {
	return c.lookups.Load(), c.hits.Load()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.Lock()
	defer c.Unlock()
	clear(c.entries)
	c.lookups.Store(0)
	c.hits.Store(0)
}
