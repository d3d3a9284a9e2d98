// Package policy defines the pluggable ordering used by the cache's
// eviction scan to choose a victim across shards.
package policy

import "cmp"

// Candidate describes one resident cache entry as seen by a policy:
// its key and its insertion time in Unix milliseconds.
type Candidate[K cmp.Ordered] struct {
	Key        K
	InsertedAt int64
}

// Policy orders eviction candidates. Less reports whether a should be
// evicted before b. The cache folds Less over every resident entry, one
// shard lock at a time, and removes the overall winner.
//
// Concurrency: Less is called while a shard lock is held; it must be
// cheap, must not touch the cache, and must be safe for concurrent use
// (stateless implementations trivially are).
//
// Less must induce a total order so the scan's winner is well defined;
// implementations should break timestamp ties on the key.
type Policy[K cmp.Ordered] interface {
	Less(a, b Candidate[K]) bool
}
