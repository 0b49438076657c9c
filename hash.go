// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package perfect implements mutable, perfectly hashed containers: maps and
// sets over a key domain for which the caller supplies a perfect hash.
//
// # Perfect hashing
//
// A perfect hash is an injective function from a known key domain into the
// dense range [0, n). Unlike the generated, immutable tables of a static
// perfect hash, the containers in this package support insertion, lookup and
// removal at run time while every operation stays a single hash computation
// followed by a direct index into a fixed-size array. The price is that the
// key domain, its size and the hash function must be known up front.
//
// The caller describes the domain with a descriptor implementing Hasher:
//
//	type Cuboid struct{ W, H, D int }
//
//	func (c Cuboid) Hash(p Point) int { return p.X + c.W*p.Y + c.W*c.H*p.Z }
//	func (c Cuboid) Size() int        { return c.W * c.H * c.D }
//
// A descriptor which can also reconstruct a key from its index implements
// Inverter. Only the operations that produce keys (iteration and debug
// printing) need it. Stock descriptors live in the domain and keyset
// subpackages.
//
// # Containers
//
// Map tracks occupancy per slot and distinguishes "absent" from "present":
// Get reports ok=false for slots that were never written. DenseMap is always
// full: every slot holds a meaningful value from construction onward, Get
// returns that value directly and Delete resets a slot to the map's default.
// Set stores one bit per index in a packed bitset.
//
// # Contract violations
//
// The containers never verify that a descriptor is perfect. If two keys hash
// to the same index they share a slot. An index outside of [0, Size()) is
// caught by an explicit bounds check which panics with an *IndexError
// wrapping ErrIndexOutOfRange. Building with the perfect_unchecked tag
// removes that branch (and the runtime's own check on the slot arrays); an
// out-of-range index is then undefined behaviour. Building with the
// invariants tag enables expensive consistency checks after every mutation.
//
// None of the containers are goroutine-safe.
package perfect

import (
	"fmt"
	"iter"

	"github.com/phuslu/log"
)

const debug = false

// Hasher is a perfect hash over a key domain. Hash must be deterministic,
// injective over the domain and return values in [0, Size()). Size must not
// change over the lifetime of the Hasher.
type Hasher[K any] interface {
	Hash(key K) int
	Size() int
}

// Inverter is a Hasher that can reconstruct keys from indexes. For all keys k
// in the domain Unhash(Hash(k)) == k, and for all i in [0, Size())
// Hash(Unhash(i)) == i.
type Inverter[K any] interface {
	Hasher[K]
	Unhash(index int) K
}

// Keys returns the domain of inv in ascending index order.
func Keys[K any](inv Inverter[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for i, n := 0, inv.Size(); i < n; i++ {
			if !yield(inv.Unhash(i)) {
				return
			}
		}
	}
}

// index returns h.Hash(key), checking it against the storage size n unless
// bounds checks are compiled out.
func index[K any](h Hasher[K], key K, n int) int {
	i := h.Hash(key)
	if boundsChecks && uint(i) >= uint(n) {
		if debug {
			log.Debug().Str("key", fmt.Sprint(key)).Int("index", i).Int("size", n).Msg("perfect: out of range")
		}
		panic(&IndexError{Index: i, Size: n})
	}
	return i
}

// inverter returns h as an Inverter, or nil if it is not one.
func inverter[K any](h Hasher[K]) Inverter[K] {
	inv, _ := h.(Inverter[K])
	return inv
}

func mustInvert[K any](h Hasher[K], inv Inverter[K]) Inverter[K] {
	if inv == nil {
		panic(fmt.Errorf("%w: %T", ErrNotInvertible, h))
	}
	return inv
}

// checkRoundTrip verifies Hash(Unhash(i)) == i for an invertible descriptor.
// Only called when invariants are enabled.
func checkRoundTrip[K any](inv Inverter[K], i int) {
	if inv == nil {
		return
	}
	if j := inv.Hash(inv.Unhash(i)); j != i {
		panic(fmt.Sprintf("invariant failed: Hash(Unhash(%d)) = %d", i, j))
	}
}
