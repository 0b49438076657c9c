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

// Map is a perfectly hashed map from keys to values with Put, Get, Delete,
// Contains and All operations. A Map has one slot per index of its Hasher and
// tracks which slots are occupied, so Get distinguishes a missing key from a
// stored zero value. See DenseMap for a map in which every key always has a
// value.
//
// A Map is NOT goroutine-safe.
type Map[K, V any] struct {
	hasher Hasher[K]
	// inv is hasher as an Inverter, or nil.
	inv Inverter[K]
	// The allocator the slots were obtained from.
	allocator Allocator[V]
	// slots is hasher.Size() in length and never resized.
	slots []V
	// present has bit i set iff slots[i] holds a value. Its length is fixed
	// at len(slots).
	present *bitset.BitSet
	// The number of occupied slots.
	used int
}

// NewMap constructs an empty Map over the domain described by h. The slot
// array and the occupancy bitset are allocated once, sized to h.Size(); no
// later operation other than Clone allocates. A zero-sized domain is legal,
// though every keyed operation on it is then out of range.
func NewMap[K, V any](h Hasher[K], options ...option[V]) *Map[K, V] {
	c := makeConfig(options)
	n := h.Size()
	m := &Map[K, V]{
		hasher:    h,
		inv:       inverter(h),
		allocator: c.allocator,
		slots:     c.allocator.AllocSlots(n),
		present:   bitset.New(uint(n)),
	}
	m.checkInvariants(-1)
	return m
}

// Put stores value under key. If the key already had a value it is
// overwritten and returned with replaced=true.
func (m *Map[K, V]) Put(key K, value V) (prev V, replaced bool) {
	i := index(m.hasher, key, len(m.slots))
	s := at(m.slots, i)
	replaced = m.present.Test(uint(i))
	if replaced {
		prev = *s
	} else {
		m.present.Set(uint(i))
		m.used++
	}
	*s = value
	if debug {
		log.Debug().Int("index", i).Bool("replaced", replaced).Int("used", m.used).Msg("map: put")
	}
	m.checkInvariants(i)
	return prev, replaced
}

// Get retrieves the value for key, returning ok=false if the key is not
// present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	i := index(m.hasher, key, len(m.slots))
	if !m.present.Test(uint(i)) {
		return value, false
	}
	return *at(m.slots, i), true
}

// Contains returns true if a value is stored for key.
func (m *Map[K, V]) Contains(key K) bool {
	return m.present.Test(uint(index(m.hasher, key, len(m.slots))))
}

// Delete removes the entry for key and returns the value it held. It is a
// noop, returning ok=false, to delete a key which is not present.
func (m *Map[K, V]) Delete(key K) (value V, ok bool) {
	i := index(m.hasher, key, len(m.slots))
	if !m.present.Test(uint(i)) {
		return value, false
	}
	s := at(m.slots, i)
	value = *s
	// Zero the slot so that the map does not retain the value.
	var zero V
	*s = zero
	m.present.Clear(uint(i))
	m.used--
	if debug {
		log.Debug().Int("index", i).Int("used", m.used).Msg("map: delete")
	}
	m.checkInvariants(i)
	return value, true
}

// All calls yield sequentially for each key and value present in the map, in
// ascending index order. If yield returns false, iteration stops. The map can
// be mutated during iteration: every slot reflects its state at the moment it
// is reached.
//
// All panics if the map's Hasher is not an Inverter.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	inv := mustInvert(m.hasher, m.inv)
	for i, ok := m.present.NextSet(0); ok; i, ok = m.present.NextSet(i + 1) {
		if !yield(inv.Unhash(int(i)), m.slots[i]) {
			return
		}
	}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.used
}

// Size returns the number of slots, which is the size of the key domain.
func (m *Map[K, V]) Size() int {
	return len(m.slots)
}

// Hasher returns the descriptor the map was constructed with.
func (m *Map[K, V]) Hasher() Hasher[K] {
	return m.hasher
}

// Clear deletes all entries from the map. The slot array and bitset are
// retained.
func (m *Map[K, V]) Clear() {
	clear(m.slots)
	m.present.ClearAll()
	m.used = 0
	m.checkInvariants(-1)
}

// Clone returns a copy of the map sharing its Hasher and Allocator. Values
// are copied with assignment.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{
		hasher:    m.hasher,
		inv:       m.inv,
		allocator: m.allocator,
		slots:     m.allocator.AllocSlots(len(m.slots)),
		present:   m.present.Clone(),
		used:      m.used,
	}
	copy(c.slots, m.slots)
	c.checkInvariants(-1)
	return c
}

// Close releases the slot array back to the configured allocator. It is
// unnecessary to close a map using the default allocator. It is invalid to
// use a Map after it has been closed, though Close itself is idempotent.
func (m *Map[K, V]) Close() {
	if m.slots != nil {
		m.allocator.FreeSlots(m.slots)
		m.slots = nil
	}
	m.present = bitset.New(0)
	m.used = 0
}

// String returns the occupied entries as "{k:v ...}". Keys are shown as
// indexes when the Hasher is not an Inverter.
func (m *Map[K, V]) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, ok := m.present.NextSet(0); ok; i, ok = m.present.NextSet(i + 1) {
		if buf.Len() > 1 {
			buf.WriteByte(' ')
		}
		if m.inv != nil {
			fmt.Fprintf(&buf, "%v:%v", m.inv.Unhash(int(i)), m.slots[i])
		} else {
			fmt.Fprintf(&buf, "%d:%v", i, m.slots[i])
		}
	}
	buf.WriteByte('}')
	return buf.String()
}

func (m *Map[K, V]) checkInvariants(i int) {
	if invariants {
		if n := m.hasher.Size(); len(m.slots) != n {
			panic(fmt.Sprintf("invariant failed: %d slots, but hasher size is %d", len(m.slots), n))
		}
		if n := int(m.present.Count()); n != m.used {
			panic(fmt.Sprintf("invariant failed: found %d present slots, but used count is %d\n%s",
				n, m.used, m.String()))
		}
		if n := int(m.present.Len()); n != len(m.slots) {
			panic(fmt.Sprintf("invariant failed: bitset length %d, but %d slots", n, len(m.slots)))
		}
		if i >= 0 {
			checkRoundTrip(m.inv, i)
		}
	}
}
