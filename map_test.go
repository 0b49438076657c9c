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
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// intRange is the domain [0, n) of ints.
type intRange int

func (r intRange) Hash(k int) int   { return k }
func (r intRange) Size() int        { return int(r) }
func (r intRange) Unhash(i int) int { return i }

// opaque is the domain [0, n) of ints without an inverse.
type opaque int

func (o opaque) Hash(k int) int { return k }
func (o opaque) Size() int      { return int(o) }

// pair is an unordered pair of ints.
type pair struct {
	A, B int
}

// pairs is the domain of unordered pairs {a, b} with a, b < n. The pair with
// a <= b has index a + b(b+1)/2.
type pairs struct {
	n int
}

func triangle(n int) int { return n * (n + 1) / 2 }

func (p pairs) Hash(k pair) int {
	a, b := k.A, k.B
	if a > b {
		a, b = b, a
	}
	return a + triangle(b)
}

func (p pairs) Size() int { return triangle(p.n) }

func (p pairs) Unhash(i int) pair {
	for b := p.n - 1; b >= 0; b-- {
		if off := triangle(b); off <= i {
			return pair{A: i - off, B: b}
		}
	}
	panic(fmt.Sprintf("index %d out of range", i))
}

// toBuiltinMap returns the elements as a map[K]V. Useful for testing.
func toBuiltinMap[K comparable, V any](m *Map[K, V]) map[K]V {
	r := make(map[K]V)
	m.All(func(k K, v V) bool {
		r[k] = v
		return true
	})
	return r
}

// requireIndexPanic asserts that fn panics with an *IndexError for index i.
func requireIndexPanic(t *testing.T, i, size int, fn func()) {
	t.Helper()
	if !boundsChecks {
		t.Skip("bounds checks are compiled out")
	}
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, ErrIndexOutOfRange), err)
		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		require.Equal(t, IndexError{Index: i, Size: size}, *ie)
	}()
	fn()
}

func TestMapBasic(t *testing.T) {
	const count = 100

	m := NewMap[int, int](intRange(count))
	e := make(map[int]int)
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, count, m.Size())

	// Non-existent.
	for i := 0; i < count; i++ {
		_, ok := m.Get(i)
		require.False(t, ok)
		require.False(t, m.Contains(i))
	}

	// Insert.
	for i := 0; i < count; i++ {
		_, replaced := m.Put(i, i+count)
		require.False(t, replaced)
		e[i] = i + count
		v, ok := m.Get(i)
		require.True(t, ok)
		require.EqualValues(t, i+count, v)
		require.EqualValues(t, i+1, m.Len())
		require.Equal(t, e, toBuiltinMap(m))
	}

	// Update.
	for i := 0; i < count; i++ {
		prev, replaced := m.Put(i, i+2*count)
		require.True(t, replaced)
		require.EqualValues(t, i+count, prev)
		e[i] = i + 2*count
		v, ok := m.Get(i)
		require.True(t, ok)
		require.EqualValues(t, i+2*count, v)
		require.EqualValues(t, count, m.Len())
		require.Equal(t, e, toBuiltinMap(m))
	}

	// Delete.
	for i := 0; i < count; i++ {
		v, ok := m.Delete(i)
		require.True(t, ok)
		require.EqualValues(t, i+2*count, v)
		delete(e, i)
		require.EqualValues(t, count-i-1, m.Len())
		_, ok = m.Get(i)
		require.False(t, ok)
		require.Equal(t, e, toBuiltinMap(m))

		// Deleting again is a noop.
		_, ok = m.Delete(i)
		require.False(t, ok)
		require.EqualValues(t, count-i-1, m.Len())
	}
}

func TestMapZeroValue(t *testing.T) {
	// A stored zero value is distinguishable from an absent key.
	m := NewMap[int, string](intRange(4))
	m.Put(2, "")
	v, ok := m.Get(2)
	require.True(t, ok)
	require.Equal(t, "", v)
	_, ok = m.Get(1)
	require.False(t, ok)
	require.EqualValues(t, 1, m.Len())
}

func TestMapPairs(t *testing.T) {
	m := NewMap[pair, string](pairs{n: 3})
	require.EqualValues(t, 6, m.Size())
	m.Put(pair{0, 1}, "a")
	m.Put(pair{2, 2}, "b")
	m.Put(pair{2, 1}, "c")

	// Both orders of a pair name the same slot.
	v, ok := m.Get(pair{1, 0})
	require.True(t, ok)
	require.Equal(t, "a", v)

	var keys []pair
	for k := range m.All {
		keys = append(keys, k)
	}
	require.Equal(t, []pair{{0, 1}, {1, 2}, {2, 2}}, keys)
	require.Equal(t, "{{0 1}:a {1 2}:c {2 2}:b}", m.String())
}

func TestMapRandom(t *testing.T) {
	const size = 1000

	m := NewMap[int, int](intRange(size))
	e := make(map[int]int)
	for i := 0; i < 10000; i++ {
		k := rand.Intn(size)
		switch r := rand.Float64(); {
		case r < 0.5: // 50% puts
			v := rand.Int()
			prev, replaced := m.Put(k, v)
			ev, ok := e[k]
			require.Equal(t, ok, replaced)
			require.Equal(t, ev, prev)
			e[k] = v
		case r < 0.75: // 25% deletes
			v, ok := m.Delete(k)
			ev, eok := e[k]
			require.Equal(t, eok, ok)
			require.Equal(t, ev, v)
			delete(e, k)
		case r < 0.95: // 20% lookups
			v, ok := m.Get(k)
			ev, eok := e[k]
			require.Equal(t, eok, ok)
			require.Equal(t, ev, v)
			require.Equal(t, eok, m.Contains(k))
		default: // 5% iterate
			if diff := cmp.Diff(e, toBuiltinMap(m)); diff != "" {
				t.Fatalf("unexpected map contents (-want +got):\n%s", diff)
			}
		}
		require.EqualValues(t, len(e), m.Len())
	}
}

func TestMapIterate(t *testing.T) {
	m := NewMap[int, int](intRange(100))
	for _, k := range []int{42, 7, 99, 0, 13} {
		m.Put(k, k*10)
	}

	var keys []int
	m.All(func(k, v int) bool {
		require.Equal(t, k*10, v)
		keys = append(keys, k)
		return true
	})
	require.Equal(t, []int{0, 7, 13, 42, 99}, keys)

	// Iteration is restartable and stops when yield returns false.
	keys = keys[:0]
	for k := range m.All {
		if k > 10 {
			break
		}
		keys = append(keys, k)
	}
	require.Equal(t, []int{0, 7}, keys)
}

func TestMapIterateMutate(t *testing.T) {
	m := NewMap[int, int](intRange(100))
	for i := 0; i < 100; i += 10 {
		m.Put(i, i)
	}

	// Slots are observed as they are when reached: entries deleted ahead of
	// the cursor are skipped and entries added ahead of it are seen.
	var keys []int
	m.All(func(k, v int) bool {
		keys = append(keys, k)
		if k == 20 {
			m.Delete(50)
			m.Put(55, 55)
			m.Put(5, 5)
		}
		return true
	})
	require.Equal(t, []int{0, 10, 20, 30, 40, 55, 60, 70, 80, 90}, keys)
	require.EqualValues(t, 11, m.Len())
}

func TestMapOutOfRange(t *testing.T) {
	m := NewMap[int, int](intRange(10))
	requireIndexPanic(t, 10, 10, func() { m.Put(10, 1) })
	requireIndexPanic(t, -1, 10, func() { m.Get(-1) })
	requireIndexPanic(t, 100, 10, func() { m.Delete(100) })
	requireIndexPanic(t, 10, 10, func() { m.Contains(10) })
	require.EqualValues(t, 0, m.Len())
}

func TestMapZeroSize(t *testing.T) {
	m := NewMap[int, int](intRange(0))
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, 0, m.Size())
	require.Empty(t, toBuiltinMap(m))
	require.Equal(t, "{}", m.String())
	requireIndexPanic(t, 0, 0, func() { m.Get(0) })
}

func TestMapNotInvertible(t *testing.T) {
	m := NewMap[int, string](opaque(8))
	m.Put(3, "x")
	m.Put(6, "y")
	v, ok := m.Get(6)
	require.True(t, ok)
	require.Equal(t, "y", v)

	// Without an inverse keys are printed as indexes and cannot be
	// iterated.
	require.Equal(t, "{3:x 6:y}", m.String())
	require.PanicsWithError(t, "perfect: hasher does not implement Inverter: perfect.opaque", func() {
		m.All(func(int, string) bool { return true })
	})
}

func TestMapClear(t *testing.T) {
	m := NewMap[int, int](intRange(1000))
	for i := 0; i < 1000; i += 3 {
		m.Put(i, i)
	}
	m.Clear()
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, 1000, m.Size())
	m.All(func(k, v int) bool {
		require.Fail(t, "should not iterate")
		return true
	})

	// The map is usable after Clear.
	m.Put(5, 5)
	require.Equal(t, map[int]int{5: 5}, toBuiltinMap(m))
}

func TestMapClone(t *testing.T) {
	m := NewMap[int, int](intRange(64))
	for i := 0; i < 64; i += 2 {
		m.Put(i, i*i)
	}
	c := m.Clone()
	require.Equal(t, toBuiltinMap(m), toBuiltinMap(c))
	require.Equal(t, m.Len(), c.Len())

	// The clone is independent of the original.
	c.Put(1, 1)
	c.Delete(0)
	_, ok := m.Get(1)
	require.False(t, ok)
	v, ok := m.Get(0)
	require.True(t, ok)
	require.Equal(t, 0, v)
	require.Equal(t, m.Len(), c.Len())
}

type countingAllocator[V any] struct {
	alloc int
	free  int
}

func (a *countingAllocator[V]) AllocSlots(n int) []V {
	a.alloc++
	return make([]V, n)
}

func (a *countingAllocator[V]) FreeSlots(_ []V) {
	a.free++
}

func TestAllocator(t *testing.T) {
	a := &countingAllocator[int]{}
	m := NewMap[int, int](intRange(100), WithAllocator[int](a))
	for i := 0; i < 100; i++ {
		m.Put(i, i)
	}

	// The slot array is allocated once, up front.
	require.EqualValues(t, 1, a.alloc)
	require.EqualValues(t, 0, a.free)

	c := m.Clone()
	require.EqualValues(t, 2, a.alloc)

	m.Close()
	require.EqualValues(t, 1, a.free)
	m.Close()
	require.EqualValues(t, 1, a.free)

	c.Close()
	require.EqualValues(t, 2, a.free)
}

func TestMapHasher(t *testing.T) {
	h := intRange(7)
	m := NewMap[int, bool](h)
	require.Equal(t, Hasher[int](h), m.Hasher())
}

func TestMapNoAllocs(t *testing.T) {
	const size = 4096

	// Storage is sized at construction; keyed operations never allocate,
	// including on the first touch of a high index.
	m := NewMap[int, int](intRange(size))
	var k int
	allocs := testing.AllocsPerRun(100, func() {
		k = (k + 1237) % size
		m.Put(k, k)
		m.Put(size-1, k)
		_, _ = m.Get(k)
		_ = m.Contains(k)
		m.Delete(k)
		m.Delete(size - 1)
	})
	require.EqualValues(t, 0, allocs)

	allocs = testing.AllocsPerRun(10, func() {
		m.Put(size-1, 1)
		m.Clear()
	})
	require.EqualValues(t, 0, allocs)
}
