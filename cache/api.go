package cache

import (
	"cmp"
	"context"
)

// Cache is a sharded, in-memory key/value cache interface.
// All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity is amortized O(1): a hash plus a short comparison
// descent in a per-shard tree, under that shard's lock. Eviction under
// capacity pressure scans all shards (one lock at a time) and is
// amortized across the writes that caused the pressure.
type Cache[K cmp.Ordered, V any] interface {
	// Put inserts or updates k→v. Updating an existing key overwrites
	// its value and refreshes its insertion timestamp in place; the
	// shard never holds two entries for one key. Put never rejects:
	// under capacity pressure it makes room by evicting the victim
	// preferred by the configured policy (oldest insertion by default).
	Put(k K, v V)

	// Add inserts k→v only if k is not present.
	// Returns false if the key already exists (no update is performed).
	Add(k K, v V) bool

	// Get returns the value for k and a boolean flag indicating presence.
	// Lookups have no effect on eviction order: an entry's age is its
	// insertion time, not its last access. A miss is a normal outcome
	// (the entry may simply have been evicted).
	Get(k K) (V, bool)

	// Remove deletes k if present and returns true on success.
	// Removing an absent key is a harmless no-op.
	Remove(k K) bool

	// Len returns the total number of resident entries across all shards.
	Len() int

	// Close marks the cache closed; subsequent operations are ignored.
	Close() error

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)
}
