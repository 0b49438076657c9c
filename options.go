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

// option provide an interface to do work on a Map or DenseMap while it is
// being created.
type option[V any] interface {
	apply(c *config[V])
}

// config holds the settings shared by Map and DenseMap.
type config[V any] struct {
	allocator Allocator[V]
}

func makeConfig[V any](options []option[V]) config[V] {
	c := config[V]{allocator: defaultAllocator[V]{}}
	for _, op := range options {
		op.apply(&c)
	}
	return c
}

// Allocator specifies an interface for allocating and releasing the slot
// array used by a Map or DenseMap. The default allocator utilizes Go's
// builtin make() and allows the GC to reclaim memory.
//
// Slot arrays are allocated exactly once, at construction. If the allocator
// is manually managing memory then Close must be called in order to ensure
// FreeSlots is called.
type Allocator[V any] interface {
	// AllocSlots should return a slice equivalent to make([]V, n).
	AllocSlots(n int) []V

	// FreeSlots can optional release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by AllocSlots.
	FreeSlots(v []V)
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) AllocSlots(n int) []V {
	return make([]V, n)
}

func (defaultAllocator[V]) FreeSlots(v []V) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(c *config[V]) {
	c.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a Map or
// DenseMap with values of type V.
func WithAllocator[V any](allocator Allocator[V]) option[V] {
	return allocatorOption[V]{allocator}
}
