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

package perfect

import (
	"fmt"
	"strings"

	"github.com/phuslu/log"
	"github.com/bits-and-blooms/bitset"
)

// Set is a perfectly hashed set backed by a packed bitset with one bit per
// index of its Hasher. Sets are meant for large, densely populated domains
// where per-element overhead matters. The bitset is allocated once, at
// construction.
//
// A Set is NOT goroutine-safe.
type Set[K any] struct {
	hasher Hasher[K]
	inv    Inverter[K]
	size   int
	bits   *bitset.BitSet
	// The number of set bits.
	used int
}

// NewSet constructs an empty Set over the domain described by h.
func NewSet[K any](h Hasher[K]) *Set[K] {
	s := &Set[K]{
		hasher: h,
		inv:    inverter(h),
		size:   h.Size(),
		bits:   bitset.New(uint(h.Size())),
	}
	s.checkInvariants(-1)
	return s
}

// Add inserts key into the set. It returns true if the key was not already
// present.
func (s *Set[K]) Add(key K) bool {
	i := index(s.hasher, key, s.size)
	if s.bits.Test(uint(i)) {
		return false
	}
	s.bits.Set(uint(i))
	s.used++
	if debug {
		log.Debug().Int("index", i).Int("used", s.used).Msg("set: add")
	}
	s.checkInvariants(i)
	return true
}

// Delete removes key from the set. It returns true if the key was present.
func (s *Set[K]) Delete(key K) bool {
	i := index(s.hasher, key, s.size)
	if !s.bits.Test(uint(i)) {
		return false
	}
	s.bits.Clear(uint(i))
	s.used--
	if debug {
		log.Debug().Int("index", i).Int("used", s.used).Msg("set: delete")
	}
	s.checkInvariants(i)
	return true
}

// Contains returns true if key is in the set.
func (s *Set[K]) Contains(key K) bool {
	return s.bits.Test(uint(index(s.hasher, key, s.size)))
}

// All calls yield sequentially for each key in the set, in ascending index
// order. If yield returns false, iteration stops. Mutations made during
// iteration are visible to the remainder of the iteration.
//
// All panics if the set's Hasher is not an Inverter.
func (s *Set[K]) All(yield func(key K) bool) {
	inv := mustInvert(s.hasher, s.inv)
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		if !yield(inv.Unhash(int(i))) {
			return
		}
	}
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int {
	return s.used
}

// Size returns the size of the key domain.
func (s *Set[K]) Size() int {
	return s.size
}

// IsEmpty returns true if the set contains no keys.
func (s *Set[K]) IsEmpty() bool {
	return s.used == 0
}

// IsFull returns true if the set contains every key of its domain.
func (s *Set[K]) IsFull() bool {
	return s.used == s.size
}

// Hasher returns the descriptor the set was constructed with.
func (s *Set[K]) Hasher() Hasher[K] {
	return s.hasher
}

// Clear removes all keys from the set.
func (s *Set[K]) Clear() {
	s.bits.ClearAll()
	s.used = 0
}

// Clone returns a copy of the set sharing its Hasher.
func (s *Set[K]) Clone() *Set[K] {
	c := *s
	c.bits = s.bits.Clone()
	return &c
}

// Equal returns true if s and o are over domains of the same size and contain
// the same indexes. The descriptors themselves are not compared.
func (s *Set[K]) Equal(o *Set[K]) bool {
	return s.size == o.size && s.bits.Equal(o.bits)
}

// Union adds every key of o to s.
func (s *Set[K]) Union(o *Set[K]) {
	s.mustMatch(o)
	s.bits.InPlaceUnion(o.bits)
	s.used = int(s.bits.Count())
	s.checkInvariants(-1)
}

// Intersect removes every key from s that is not in o.
func (s *Set[K]) Intersect(o *Set[K]) {
	s.mustMatch(o)
	s.bits.InPlaceIntersection(o.bits)
	s.used = int(s.bits.Count())
	s.checkInvariants(-1)
}

// Difference removes every key of o from s.
func (s *Set[K]) Difference(o *Set[K]) {
	s.mustMatch(o)
	s.bits.InPlaceDifference(o.bits)
	s.used = int(s.bits.Count())
	s.checkInvariants(-1)
}

// String returns the keys in the set as "{k ...}". Keys are shown as indexes
// when the Hasher is not an Inverter.
func (s *Set[K]) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		if buf.Len() > 1 {
			buf.WriteByte(' ')
		}
		if s.inv != nil {
			fmt.Fprintf(&buf, "%v", s.inv.Unhash(int(i)))
		} else {
			fmt.Fprintf(&buf, "%d", i)
		}
	}
	buf.WriteByte('}')
	return buf.String()
}

func (s *Set[K]) mustMatch(o *Set[K]) {
	if s.size != o.size {
		panic(fmt.Errorf("%w: set of size %d combined with set of size %d", ErrSizeMismatch, s.size, o.size))
	}
}

func (s *Set[K]) checkInvariants(i int) {
	if invariants {
		if n := s.hasher.Size(); n != s.size {
			panic(fmt.Sprintf("invariant failed: set size is %d, but hasher size is %d", s.size, n))
		}
		if n := int(s.bits.Count()); n != s.used {
			panic(fmt.Sprintf("invariant failed: found %d set bits, but used count is %d", n, s.used))
		}
		if n := int(s.bits.Len()); n != s.size {
			panic(fmt.Sprintf("invariant failed: bitset length %d, but size is %d", n, s.size))
		}
		if i >= 0 {
			checkRoundTrip(s.inv, i)
		}
	}
}
