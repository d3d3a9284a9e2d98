// Package cache provides a fast, generic, sharded in-memory key/value
// cache with approximate-LRU eviction based on insertion time, optional
// entry age limits, singleflight loading, and lightweight metrics hooks.
//
// Design
//
//   - Concurrency: the cache is split into shards, each protected by its
//     own mutex. A key hashes to exactly one shard, so operations on one
//     key serialize while operations on different shards run in parallel.
//     The default shard count is a power-of-two heuristic based on
//     GOMAXPROCS. No thread ever holds two shard locks at once.
//
//   - Storage: each shard keeps its entries in a key-ordered binary
//     search tree. Expected operation cost is the hash plus a short
//     comparison descent; the tree is not rebalanced, which trades a
//     linear worst case for a simple single-owner node structure.
//
//   - Recency: every entry carries its insertion time in milliseconds.
//     Lookups never refresh it — an update (Put on an existing key)
//     does. Eviction is therefore approximate LRU: the globally oldest
//     *insertion* goes first, found by scanning the shards one lock at
//     a time. Exact cross-shard recency ordering is deliberately not
//     provided; it would require a global lock.
//
//   - Capacity: a single atomic counter tracks resident entries. Put
//     increments it before touching any shard, and runs one eviction
//     pass when the post-increment count overflows Capacity. With many
//     concurrent writers the resident count may briefly exceed Capacity
//     by the number of racing Puts; it converges because every
//     overflowing Put evicts.
//
//   - Policies: the victim ordering is pluggable via the policy package.
//     oldest (approximate LRU) is the default; newest suits cyclic-scan
//     workloads.
//
//   - MaxAge: entries older than Options.MaxAge are evicted lazily on
//     access and reported as misses.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug the Prometheus adapter in
//     metrics/prom to export them. Options.OnEvict(k, v, reason) fires
//     for every eviction.
//
// Basic usage
//
//	// Create a cache with room for 10k entries.
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// With an entry age limit
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    MaxAge:   time.Minute,
//	})
//	c.Put("tmp", "v") // gone (lazily) one minute after insertion
//
// With GetOrLoad (singleflight)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Using an alternative policy
//
//	c := cache.New[int, string](cache.Options[int, string]{
//	    Capacity: 50_000,
//	    Policy:   newest.New[int](), // keep a stable prefix under cyclic scans
//	})
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "hashcache", "demo", nil) // implements Metrics
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// Consistency notes
//
// Operations on the same key observe a consistent total order (they
// share one shard lock). Operations on keys in different shards have no
// mutual ordering. The eviction scan's "globally oldest" answer is a
// best-effort snapshot: by the time the victim is removed, a concurrent
// writer may have removed or replaced it, in which case the removal is
// a safe no-op. Values returned by Get are shared with the cache's
// other callers; the cache does not guarantee exclusive access.
package cache
