package cache

import (
	"cmp"
	"context"
	"time"

	"github.com/IvanBrykalov/hashcache/policy"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — chosen as the victim of the cross-shard eviction
	// scan under capacity pressure.
	EvictCapacity EvictReason = iota
	// EvictAge — outlived Options.MaxAge (lazy removal on access).
	EvictAge
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Clock provides time in Unix milliseconds; useful for deterministic tests.
type Clock interface{ NowUnixMilli() int64 }

// Options configures the cache behavior. Zero values are safe;
// sane defaults are applied in New():
//   - nil Policy   => oldest-insertion-first
//   - Shards <= 0  => auto (rounded up to power of two)
//   - nil Metrics  => NoopMetrics
type Options[K cmp.Ordered, V any] struct {
	// Capacity is the target entry count across all shards. Admission is
	// checked against a shared counter outside any shard lock, so with
	// many concurrent writers the resident count may transiently exceed
	// Capacity by at most the number of racing Puts; every subsequent
	// overflowing Put evicts again, so the overshoot never grows.
	Capacity int

	// Shards defines the number of shards. If 0, an automatic value is
	// chosen (≈ 2*GOMAXPROCS) and rounded to the next power of two.
	Shards int

	// Policy orders eviction candidates; nil => evict the oldest insertion.
	Policy policy.Policy[K]

	// MaxAge bounds how long an entry may live after its insertion
	// (0 = entries never expire). Expiry is lazy, enforced on access.
	MaxAge time.Duration

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// Observability
	// OnEvict is called on eviction under the shard lock; keep callbacks lightweight.
	OnEvict func(k K, v V, reason EvictReason)
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}
