package cache

import (
	"cmp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/hashcache/internal/util"
	"github.com/IvanBrykalov/hashcache/policy"
)

// shard is an independent partition of the cache: one exclusive lock
// guarding one key-ordered tree. A key belongs to exactly one shard,
// determined by its hash, so all operations on a single key serialize
// on that shard's lock.
//
// Size accounting: the cache increments the shared size counter
// speculatively before taking the shard lock (the admission check);
// the shard settles it afterwards — overwrites, removals, and evictions
// give the count back here, under the lock that observed them.
type shard[K cmp.Ordered, V any] struct {
	// ---- guarded by mu ----
	mu   sync.Mutex
	root *treeNode[K, V]
	len  int // resident entries in this shard

	size *atomic.Int64 // shared cache-wide counter, owned by the cache
	opt  *Options[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

func newShard[K cmp.Ordered, V any](size *atomic.Int64, opt *Options[K, V]) *shard[K, V] {
	return &shard[K, V]{size: size, opt: opt}
}

// get returns the value for k with no effect on eviction order.
// An entry that outlived MaxAge is evicted on the spot and reported
// as a miss.
func (s *shard[K, V]) get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := treeFind(s.root, k)
	if n == nil {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	if s.expiredLocked(n) {
		s.evictLocked(n.key, EvictAge)
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}

	s.hits.Add(1)
	s.opt.Metrics.Hit()
	return n.val, true
}

// put inserts or overwrites k with the current wall-clock timestamp.
// On overwrite the cache's speculative size increment is given back:
// an update is not a new entry.
func (s *shard[K, V]) put(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var replaced bool
	s.root, replaced = treeInsert(s.root, k, v, s.now())
	if replaced {
		s.size.Add(-1)
	} else {
		s.len++
	}
	s.opt.Metrics.Size(int(s.size.Load()))
}

// add inserts k only if absent. On a duplicate the speculative size
// increment is rolled back and false is returned.
func (s *shard[K, V]) add(k K, v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if treeFind(s.root, k) != nil {
		s.size.Add(-1)
		return false
	}
	s.root, _ = treeInsert(s.root, k, v, s.now())
	s.len++
	s.opt.Metrics.Size(int(s.size.Load()))
	return true
}

// remove deletes k if present. The size counter is decremented only
// when an entry was actually removed, so removes of absent keys cannot
// drift the counter below the resident count.
func (s *shard[K, V]) remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	s.root, removed = treeRemove(s.root, k)
	if !removed {
		return false
	}
	s.len--
	s.size.Add(-1)
	s.opt.Metrics.Size(int(s.size.Load()))
	return true
}

// evict removes k if it is still resident, recording the eviction.
// Returns false when the entry is already gone — the eviction scan's
// victim is a snapshot and may have been removed concurrently; a stale
// victim is a harmless no-op, not a fault.
func (s *shard[K, V]) evict(k K, reason EvictReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(k, reason)
}

// victim returns this shard's preferred eviction candidate under pol,
// folding pol.Less over every resident entry. ok is false for an empty
// shard. O(len) by design; shards are small relative to total capacity.
func (s *shard[K, V]) victim(pol policy.Policy[K]) (_ policy.Candidate[K], ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := treeExtremal(s.root, func(a, b *treeNode[K, V]) bool {
		return pol.Less(
			policy.Candidate[K]{Key: a.key, InsertedAt: a.insertedAt},
			policy.Candidate[K]{Key: b.key, InsertedAt: b.insertedAt},
		)
	})
	if n == nil {
		return policy.Candidate[K]{}, false
	}
	return policy.Candidate[K]{Key: n.key, InsertedAt: n.insertedAt}, true
}

// resident returns the number of entries in this shard.
func (s *shard[K, V]) resident() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.len
}

// -------------------- internals (mu held) --------------------

func (s *shard[K, V]) evictLocked(k K, reason EvictReason) bool {
	n := treeFind(s.root, k)
	if n == nil {
		return false
	}
	v := n.val
	s.root, _ = treeRemove(s.root, k)
	s.len--
	s.size.Add(-1)
	s.evicts.Add(1)
	s.opt.Metrics.Evict(reason)
	s.opt.Metrics.Size(int(s.size.Load()))
	if cb := s.opt.OnEvict; cb != nil {
		// Note: calling callbacks under the lock is safer but may add latency.
		// If you move this outside the lock later, pass copies of key/value.
		cb(k, v, reason)
	}
	return true
}

func (s *shard[K, V]) expiredLocked(n *treeNode[K, V]) bool {
	if s.opt.MaxAge <= 0 {
		return false
	}
	return s.now()-n.insertedAt > s.opt.MaxAge.Milliseconds()
}

func (s *shard[K, V]) now() int64 {
	if s.opt.Clock != nil {
		return s.opt.Clock.NowUnixMilli()
	}
	return time.Now().UnixMilli()
}
