// Package newest evicts the most recently inserted entry first.
// Counterintuitive but useful for large cyclic scans: when the working
// set loops over more keys than the cache holds, oldest-first eviction
// flushes every entry before it is read again, while newest-first keeps
// a stable prefix of the cycle resident.
package newest

import (
	"cmp"

	"github.com/IvanBrykalov/hashcache/policy"
)

type newest[K cmp.Ordered] struct{}

// New returns the newest-insertion-first policy.
func New[K cmp.Ordered]() policy.Policy[K] { return newest[K]{} }

// Less prefers the later insertion, breaking ties on the larger key.
func (newest[K]) Less(a, b policy.Candidate[K]) bool {
	if a.InsertedAt != b.InsertedAt {
		return a.InsertedAt > b.InsertedAt
	}
	return a.Key > b.Key
}
