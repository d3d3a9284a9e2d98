// Package oldest implements the default eviction ordering: the entry
// with the earliest insertion time goes first. Because lookups do not
// refresh an entry's timestamp, this is recency-of-insertion eviction —
// an approximate LRU, not an access-ordered one.
package oldest

import (
	"cmp"

	"github.com/IvanBrykalov/hashcache/policy"
)

type oldest[K cmp.Ordered] struct{}

// New returns the oldest-insertion-first policy.
func New[K cmp.Ordered]() policy.Policy[K] { return oldest[K]{} }

// Less prefers the earlier insertion, breaking ties on the smaller key
// so the scan's ordering is total.
func (oldest[K]) Less(a, b policy.Candidate[K]) bool {
	if a.InsertedAt != b.InsertedAt {
		return a.InsertedAt < b.InsertedAt
	}
	return a.Key < b.Key
}
