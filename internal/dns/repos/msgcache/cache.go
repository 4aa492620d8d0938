// Package msgcache caches assembled DNS responses keyed by question. Zone
// data carries no TTL decay for an authoritative server, so entries stay
// valid until the zones are reloaded and the cache is purged.
package msgcache

import (
	"math"
	"sync"
	"sync/atomic"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/rr-authd/internal/dns/domain"
)

// Doorkeeper parameters. The Bloom filter in front of the LRU admits a key
// only on its second sight, keeping one-shot queries from churning entries
// that repeat. It is sized for a multiple of the LRU capacity and rotated
// once that many distinct keys have passed through.
const (
	doorkeeperMultiplier = 8
	doorkeeperFPRate     = 0.01
)

// Cache is the read/write surface the responder uses. Get and Put are safe
// for concurrent use.
type Cache interface {
	Get(key string) (domain.Message, bool)
	Put(key string, msg domain.Message)
	Purge()
	Len() int
	Stats() (hits, misses, evictions uint64)
}

// responseCache is an LRU with a Bloom doorkeeper in front of admission.
type responseCache struct {
	lru *lru.Cache[string, domain.Message]

	mu       sync.Mutex // guards the doorkeeper
	door     *bitsbloom.BloomFilter
	doorSeen uint64
	doorCap  uint64

	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache is a no-op Cache used when size <= 0.
type disabledCache struct{}

// New creates a response cache holding up to size entries. If size <= 0, a
// disabled no-op cache is returned that always misses.
func New(size int) (Cache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	var rc responseCache
	cache, err := lru.NewWithEvict(size, func(_ string, _ domain.Message) {
		atomic.AddUint64(&rc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	rc.lru = cache
	rc.doorCap = uint64(size) * doorkeeperMultiplier
	rc.door = newDoorkeeper(rc.doorCap)
	return &rc, nil
}

// newDoorkeeper builds a Bloom filter sized for n keys at the configured
// false-positive rate, using the standard formulas:
//
//	m = - (n * ln p) / (ln 2)^2
//	k = (m / n) * ln 2
func newDoorkeeper(n uint64) *bitsbloom.BloomFilter {
	if n == 0 {
		n = 1
	}
	ln2 := math.Ln2
	m := uint64(math.Ceil(-float64(n) * math.Log(doorkeeperFPRate) / (ln2 * ln2)))
	if m == 0 {
		m = 1
	}
	k := uint64(math.Max(1, math.Round((float64(m)/float64(n))*ln2)))
	return bitsbloom.New(uint(m), uint(k))
}

// Get looks up a cached response by question key.
func (c *responseCache) Get(key string) (domain.Message, bool) {
	if msg, ok := c.lru.Get(key); ok {
		atomic.AddUint64(&c.hits, 1)
		return msg, true
	}
	atomic.AddUint64(&c.misses, 1)
	return domain.Message{}, false
}

// Put stores a response, admitting new keys only on their second sight.
// Keys already resident in the LRU are updated unconditionally.
func (c *responseCache) Put(key string, msg domain.Message) {
	if c.lru.Contains(key) {
		c.lru.Add(key, msg)
		return
	}
	if !c.admit(key) {
		return
	}
	c.lru.Add(key, msg)
}

// admit records the key in the doorkeeper and reports whether it was seen
// before. The filter is rotated when it reaches its sizing capacity, which
// resets the second-sight memory but bounds the false-positive rate.
func (c *responseCache) admit(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := c.door.TestAndAddString(key)
	if !seen {
		c.doorSeen++
		if c.doorSeen >= c.doorCap {
			c.door = newDoorkeeper(c.doorCap)
			c.doorSeen = 0
		}
	}
	return seen
}

// Len returns the number of cached responses.
func (c *responseCache) Len() int { return c.lru.Len() }

// Purge drops every entry and resets the doorkeeper. Called on zone reload,
// when any cached response may be stale.
func (c *responseCache) Purge() {
	c.lru.Purge()
	c.mu.Lock()
	c.door = newDoorkeeper(c.doorCap)
	c.doorSeen = 0
	c.mu.Unlock()
}

// Stats returns cumulative hit/miss/eviction counters.
func (c *responseCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

// disabledCache implementation

func (d *disabledCache) Get(string) (domain.Message, bool) { return domain.Message{}, false }

func (d *disabledCache) Put(string, domain.Message) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Purge() {}

func (d *disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ Cache = (*responseCache)(nil)
var _ Cache = (*disabledCache)(nil)
