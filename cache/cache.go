package cache

import (
	"cmp"
	"context"
	"sync/atomic"

	"github.com/IvanBrykalov/hashcache/internal/singleflight"
	"github.com/IvanBrykalov/hashcache/internal/util"
	"github.com/IvanBrykalov/hashcache/policy"
	"github.com/IvanBrykalov/hashcache/policy/oldest"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errorsNew("cache: no Loader provided")

// lightweight local errors.New to avoid importing std 'errors' everywhere
func errorsNew(s string) error { return &strErr{s} }

type strErr struct{ s string }

func (e *strErr) Error() string { return e.s }

// cache is a sharded in-memory KV store with timestamp-based eviction.
// All methods are safe for concurrent use by multiple goroutines.
//
// A global atomic counter tracks resident entries across all shards.
// It is mutated independently of the shard locks, so it is eventually
// consistent with shard contents: the admission check in Put reads it
// outside any lock, trading a bounded transient overshoot for never
// ordering the counter against a shard lock.
type cache[K cmp.Ordered, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	size   atomic.Int64 // resident entries; the admission signal
	closed atomic.Bool

	opt Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Policy   -> oldest-insertion-first
//   - Shards <= 0  -> auto, rounded up to the next power of two
func New[K cmp.Ordered, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 {
		panic("Capacity must be > 0")
	}
	// default Metrics
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	// default Policy: evict the oldest insertion
	if opt.Policy == nil {
		opt.Policy = oldest.New[K]()
	}

	// number of shards -> power of two
	sh := opt.Shards
	if sh <= 0 {
		sh = util.ReasonableShardCount()
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}

	// return pointer-to-impl as the interface (avoids unexported-return lint)
	c := &cache[K, V]{
		hash: util.Fnv64a[K], // fast non-crypto hash for sharding
		opt:  opt,            // keep Options for MaxAge/Loader/Metrics
	}
	c.shards = make([]*shard[K, V], sh)
	for i := 0; i < sh; i++ {
		c.shards[i] = newShard(&c.size, &c.opt)
	}
	return c
}

// ---- Cache[K,V] implementation ----

// Put inserts or updates k→v. The admission check runs before the shard
// lock is taken: the shared counter is incremented first and, if the
// post-increment count overflows Capacity, one eviction pass makes room.
// The scan thus sees the cache as it currently is, without the entry
// being inserted. Put never rejects.
func (c *cache[K, V]) Put(k K, v V) {
	if c.closed.Load() {
		return
	}
	if c.size.Add(1) > int64(c.opt.Capacity) {
		c.evictOne()
	}
	c.getShard(k).put(k, v)
}

// Add inserts k→v only if absent, under the same admission discipline
// as Put. Returns false if the key already exists (no update is performed).
func (c *cache[K, V]) Add(k K, v V) bool {
	if c.closed.Load() {
		return false
	}
	if c.size.Add(1) > int64(c.opt.Capacity) {
		c.evictOne()
	}
	return c.getShard(k).add(k, v)
}

// Get returns the value for k and a presence flag. Lookups do not
// refresh an entry's insertion timestamp, so they have no effect on
// eviction order.
func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).get(k)
}

// Remove deletes k if present and returns true on success.
func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).remove(k)
}

// Len returns the total number of resident entries across all shards.
// Unlike the internal admission counter, this is an exact sum taken
// lock-by-lock.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.resident()
	}
	return total
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// If no Loader is configured, returns ErrNoLoader.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	// singleflight: exactly one real load for the key
	return c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Put(k, v)
		}
		return v, err
	})
}

// ---- eviction ----

// evictOne removes the policy's preferred victim (the oldest insertion
// by default). It asks each shard in index order for its local
// candidate, holding only that shard's lock at a time, folds a running
// global winner, and finally removes it through the normal shard-locked
// path. No two shard locks are ever held together, so the scan cannot
// deadlock against single-shard operations; the price is that the
// winner is a snapshot and may already be gone when the final removal
// runs. A vanished victim means a concurrent writer beat this scan to
// it; the counter is still over capacity then, so rescan instead of
// letting the overshoot stick. An entirely empty cache is a no-op.
func (c *cache[K, V]) evictOne() {
	pol := c.opt.Policy
	for {
		var victim policy.Candidate[K]
		found := false
		for _, s := range c.shards {
			cand, ok := s.victim(pol)
			if !ok {
				continue
			}
			if !found || pol.Less(cand, victim) {
				victim = cand
				found = true
			}
		}
		if !found {
			return
		}
		if c.getShard(victim.Key).evict(victim.Key, EvictCapacity) {
			return
		}
	}
}

// ---- helpers ----

// getShard picks a shard by hashing the key. Shard assignment is a pure
// function of the key, so every operation on one key lands on one lock.
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}
