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

// Package keyset builds perfect hash descriptors for a fixed set of string
// keys known at run time, such as the names of an enumeration or the columns
// of a schema.
//
// A Hasher maps its n keys onto [0, n) without collisions, so it can back any
// of the containers in package perfect:
//
//	h, err := keyset.New([]string{"red", "green", "blue"})
//	if err != nil {
//	    return err
//	}
//	m := perfect.NewDenseMap[string, int](h)
//	*m.Ptr("green") += 1
//
// # Construction
//
// Keys are hashed with a seeded HashFunc and split into buckets of about four
// keys. Buckets are placed largest first: for each bucket a 16-bit pilot is
// searched such that every key of the bucket lands in a free slot of a table
// slightly larger than n. Keys that land beyond n are remapped to the holes
// left below n. If some bucket cannot be placed the build is retried with a
// new seed. This is the PTRHash scheme.
//
// Like every descriptor, Hash is only defined for keys in the set. Lookup
// additionally verifies membership.
package keyset

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/phuslu/log"
	"github.com/yourbasic/bit"

	"github.com/cockroachdb/perfect"
)

const debug = false

var (
	// ErrDuplicateKey is returned by New when a key occurs more than once.
	ErrDuplicateKey = errors.New("keyset: duplicate key")
	// ErrBuildFailed is returned by New when no seed produced a perfect hash.
	ErrBuildFailed = errors.New("keyset: no perfect hash found")
)

// Hasher is a minimal perfect hash over a fixed set of strings. It implements
// perfect.Inverter[string].
type Hasher struct {
	hash HashFunc
	seed uint64
	// pilots holds one pilot per bucket.
	pilots []uint16
	// numSlots is the size of the placement table, >= len(keys).
	numSlots int
	// remap[s-len(keys)] is the index of a key placed in slot s >= len(keys).
	remap []int
	// keys[i] is the key hashing to i.
	keys []string
}

var _ perfect.Inverter[string] = (*Hasher)(nil)

// New builds a Hasher over keys. The keys must be distinct. The slice is not
// retained.
func New(keys []string, options ...Option) (*Hasher, error) {
	c := defaultBuildConfig()
	for _, opt := range options {
		opt(c)
	}

	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
	}

	h := &Hasher{hash: c.hash}
	if len(keys) == 0 {
		return h, nil
	}

	b := newBuilder(keys, c)
	seed := c.seed
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if b.build(seed) {
			h.seed = seed
			h.pilots = b.pilots
			h.numSlots = b.numSlots
			h.remap = b.remap
			h.keys = b.placed
			if debug {
				log.Debug().Int("keys", len(keys)).Int("attempt", attempt).Uint64("seed", seed).Msg("keyset: built")
			}
			return h, nil
		}
		if debug {
			log.Debug().Int("attempt", attempt).Uint64("seed", seed).Msg("keyset: retrying with new seed")
		}
		seed = splitMix64(seed + 0x9e3779b97f4a7c15)
	}
	return nil, fmt.Errorf("%w: %d keys after %d attempts", ErrBuildFailed, len(keys), c.maxAttempts)
}

// Hash returns the index of key. The result is unspecified for keys that are
// not in the set.
func (h *Hasher) Hash(key string) int {
	if len(h.keys) == 0 {
		return 0
	}
	x := h.hash(key, h.seed)
	b := fastRange(x, len(h.pilots))
	s := slot(x, pilotHash(h.pilots[b], h.seed), h.numSlots)
	if s >= len(h.keys) {
		return h.remap[s-len(h.keys)]
	}
	return s
}

// Size returns the number of keys.
func (h *Hasher) Size() int {
	return len(h.keys)
}

// Unhash returns the key with index i.
func (h *Hasher) Unhash(i int) string {
	return h.keys[i]
}

// Lookup returns the index of key and whether key is in the set.
func (h *Hasher) Lookup(key string) (int, bool) {
	if len(h.keys) == 0 {
		return 0, false
	}
	i := h.Hash(key)
	return i, h.keys[i] == key
}

// Seed returns the seed the Hasher was built with.
func (h *Hasher) Seed() uint64 {
	return h.seed
}

// builder holds the scratch state of a construction. It is reused across
// attempts.
type builder struct {
	keys     []string
	hashFn   HashFunc
	numSlots int
	hashes   []uint64
	buckets  [][]int
	order    []int
	pilots   []uint16
	remap    []int
	placed   []string
}

func newBuilder(keys []string, c *buildConfig) *builder {
	n := len(keys)
	numBuckets := max(int(math.Ceil(float64(n)/c.load)), 1)
	return &builder{
		keys:     keys,
		hashFn:   c.hash,
		numSlots: max(int(math.Ceil(float64(n)/c.alpha)), n),
		hashes:   make([]uint64, n),
		buckets:  make([][]int, numBuckets),
		order:    make([]int, numBuckets),
	}
}

// build attempts a construction with seed, returning false if some bucket has
// no valid pilot.
func (b *builder) build(seed uint64) bool {
	for i := range b.buckets {
		b.buckets[i] = b.buckets[i][:0]
		b.order[i] = i
	}
	for i, k := range b.keys {
		x := b.hashFn(k, seed)
		b.hashes[i] = x
		j := fastRange(x, len(b.buckets))
		b.buckets[j] = append(b.buckets[j], i)
	}
	// Largest buckets first, while the table is still empty.
	slices.SortStableFunc(b.order, func(x, y int) int {
		return len(b.buckets[y]) - len(b.buckets[x])
	})

	pilots := make([]uint16, len(b.buckets))
	owner := make([]int, b.numSlots)
	taken := bit.New()
	var slots []int
	for _, j := range b.order {
		members := b.buckets[j]
		if len(members) == 0 {
			break
		}
		found := false
		for p := 0; p <= math.MaxUint16 && !found; p++ {
			hp := pilotHash(uint16(p), seed)
			slots = slots[:0]
			found = true
			for _, i := range members {
				s := slot(b.hashes[i], hp, b.numSlots)
				if taken.Contains(s) || slices.Contains(slots, s) {
					found = false
					break
				}
				slots = append(slots, s)
			}
			if found {
				pilots[j] = uint16(p)
			}
		}
		if !found {
			return false
		}
		for k, s := range slots {
			taken.Add(s)
			owner[s] = members[k]
		}
	}

	// Move keys placed beyond n into the holes below n.
	n := len(b.keys)
	placed := make([]string, n)
	remap := make([]int, b.numSlots-n)
	hole := 0
	for s := 0; s < b.numSlots; s++ {
		if !taken.Contains(s) {
			continue
		}
		if s < n {
			placed[s] = b.keys[owner[s]]
			continue
		}
		for taken.Contains(hole) {
			hole++
		}
		remap[s-n] = hole
		placed[hole] = b.keys[owner[s]]
		hole++
	}
	b.pilots, b.remap, b.placed = pilots, remap, placed
	return true
}
