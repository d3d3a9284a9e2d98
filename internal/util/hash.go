// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"cmp"
	"fmt"
	"math"
)

// Fnv64a hashes ordered key types using 64-bit FNV-1a.
// Supported: string, all int/uint widths, uintptr, float32/float64.
// Defined types over these kinds must be converted by the caller.
// Panicking on unsupported types is deliberate to avoid silently poor hashing.
func Fnv64a[K cmp.Ordered](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return fnv64aFromString(v)

	// Integer-like keys: hash little-endian bytes of the value.
	case uint8:
		return fnv64aFromUint64(uint64(v))
	case uint16:
		return fnv64aFromUint64(uint64(v))
	case uint32:
		return fnv64aFromUint64(uint64(v))
	case uint64:
		return fnv64aFromUint64(v)
	case uint:
		return fnv64aFromUint64(uint64(v))
	case uintptr:
		return fnv64aFromUint64(uint64(v))
	case int8:
		return fnv64aFromUint64(uint64(uint8(v)))
	case int16:
		return fnv64aFromUint64(uint64(uint16(v)))
	case int32:
		return fnv64aFromUint64(uint64(uint32(v)))
	case int64:
		return fnv64aFromUint64(uint64(v))
	case int:
		return fnv64aFromUint64(uint64(v))

	// Float keys: hash the IEEE-754 bit pattern.
	case float32:
		return fnv64aFromUint64(uint64(math.Float32bits(v)))
	case float64:
		return fnv64aFromUint64(math.Float64bits(v))

	default:
		panic(fmt.Sprintf("util.Fnv64a: unsupported key type %T; convert the key to string or a built-in numeric type", k))
	}
}

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

func fnv64aFromString(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func fnv64aFromUint64(u uint64) uint64 {
	// Hash the 8 little-endian bytes of u without allocating.
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
