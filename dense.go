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
)

// DenseMap is a perfectly hashed map which is always full: every key of the
// domain has a value from construction onward. Keys that were never Put map
// to the default value (the zero value of V, or the fill value given to
// NewDenseMapOf). There is no occupancy tracking, so Get is a hash and a
// load. Prefer Map when "absent" must be distinguishable from the default.
//
// A DenseMap is NOT goroutine-safe.
type DenseMap[K, V any] struct {
	hasher    Hasher[K]
	inv       Inverter[K]
	allocator Allocator[V]
	// slots is hasher.Size() in length and never resized.
	slots []V
	// def is the value Delete resets a slot to.
	def V
}

// NewDenseMap constructs a DenseMap over the domain described by h with every
// slot set to the zero value of V.
func NewDenseMap[K, V any](h Hasher[K], options ...option[V]) *DenseMap[K, V] {
	c := makeConfig(options)
	m := &DenseMap[K, V]{
		hasher:    h,
		inv:       inverter(h),
		allocator: c.allocator,
		slots:     c.allocator.AllocSlots(h.Size()),
	}
	m.checkInvariants(-1)
	return m
}

// NewDenseMapOf constructs a DenseMap over the domain described by h with
// every slot set to fill. fill also becomes the value Delete resets slots to.
func NewDenseMapOf[K, V any](h Hasher[K], fill V, options ...option[V]) *DenseMap[K, V] {
	m := NewDenseMap[K, V](h, options...)
	m.def = fill
	for i := range m.slots {
		m.slots[i] = fill
	}
	return m
}

// NewDenseMapFrom constructs a DenseMap over the domain described by h which
// takes ownership of values: values[i] is the value of the key hashing to i.
// An error wrapping ErrSizeMismatch is returned if len(values) != h.Size().
func NewDenseMapFrom[K, V any](h Hasher[K], values []V) (*DenseMap[K, V], error) {
	if n := h.Size(); len(values) != n {
		return nil, fmt.Errorf("%w: %d values for a domain of size %d", ErrSizeMismatch, len(values), n)
	}
	m := &DenseMap[K, V]{
		hasher:    h,
		inv:       inverter(h),
		allocator: defaultAllocator[V]{},
		slots:     values,
	}
	m.checkInvariants(-1)
	return m, nil
}

// Put stores value under key and returns the value it replaced.
func (m *DenseMap[K, V]) Put(key K, value V) (prev V) {
	i := index(m.hasher, key, len(m.slots))
	s := at(m.slots, i)
	prev, *s = *s, value
	if debug {
		log.Debug().Int("index", i).Msg("dense: put")
	}
	m.checkInvariants(i)
	return prev
}

// Get returns the value for key.
func (m *DenseMap[K, V]) Get(key K) V {
	return *at(m.slots, index(m.hasher, key, len(m.slots)))
}

// Ptr returns a pointer to the slot for key, allowing the value to be updated
// in place. The pointer remains valid until the map is closed.
func (m *DenseMap[K, V]) Ptr(key K) *V {
	return at(m.slots, index(m.hasher, key, len(m.slots)))
}

// Contains reports whether key has a value, which every key of the domain
// does. Like every other keyed operation it panics if key hashes out of
// range.
func (m *DenseMap[K, V]) Contains(key K) bool {
	_ = index(m.hasher, key, len(m.slots))
	return true
}

// Delete resets the slot for key to the map's default value and returns the
// value it held.
func (m *DenseMap[K, V]) Delete(key K) (prev V) {
	i := index(m.hasher, key, len(m.slots))
	s := at(m.slots, i)
	prev, *s = *s, m.def
	if debug {
		log.Debug().Int("index", i).Msg("dense: delete")
	}
	m.checkInvariants(i)
	return prev
}

// All calls yield sequentially for every key of the domain and its value, in
// ascending index order. If yield returns false, iteration stops.
//
// All panics if the map's Hasher is not an Inverter.
func (m *DenseMap[K, V]) All(yield func(key K, value V) bool) {
	inv := mustInvert(m.hasher, m.inv)
	for i := range m.slots {
		if !yield(inv.Unhash(i), m.slots[i]) {
			return
		}
	}
}

// Values calls yield sequentially for every value in ascending index order.
// If yield returns false, iteration stops.
func (m *DenseMap[K, V]) Values(yield func(value V) bool) {
	for i := range m.slots {
		if !yield(m.slots[i]) {
			return
		}
	}
}

// Len returns the number of entries in the map, which is always the size of
// the key domain.
func (m *DenseMap[K, V]) Len() int {
	return len(m.slots)
}

// Hasher returns the descriptor the map was constructed with.
func (m *DenseMap[K, V]) Hasher() Hasher[K] {
	return m.hasher
}

// Clone returns a copy of the map sharing its Hasher and Allocator. Values
// are copied with assignment.
func (m *DenseMap[K, V]) Clone() *DenseMap[K, V] {
	c := *m
	c.slots = m.allocator.AllocSlots(len(m.slots))
	copy(c.slots, m.slots)
	return &c
}

// Close releases the slot array back to the configured allocator. It is
// unnecessary to close a map using the default allocator. It is invalid to
// use a DenseMap after it has been closed, though Close itself is idempotent.
func (m *DenseMap[K, V]) Close() {
	if m.slots != nil {
		m.allocator.FreeSlots(m.slots)
		m.slots = nil
	}
}

// String returns every value in index order as "[v ...]".
func (m *DenseMap[K, V]) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	for i := range m.slots {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%v", m.slots[i])
	}
	buf.WriteByte(']')
	return buf.String()
}

func (m *DenseMap[K, V]) checkInvariants(i int) {
	if invariants {
		if n := m.hasher.Size(); len(m.slots) != n {
			panic(fmt.Sprintf("invariant failed: %d slots, but hasher size is %d", len(m.slots), n))
		}
		if i >= 0 {
			checkRoundTrip(m.inv, i)
		}
	}
}
