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

package domain

import (
	"fmt"

	"github.com/cockroachdb/perfect"
)

// Tuple is a key of a Product.
type Tuple[A, B any] struct {
	First  A
	Second B
}

func (t Tuple[A, B]) String() string {
	return fmt.Sprintf("(%v,%v)", t.First, t.Second)
}

// Product is the cartesian product of two domains, laid out row-major: all
// tuples sharing First are adjacent.
type Product[A, B any] struct {
	first  perfect.Inverter[A]
	second perfect.Inverter[B]
}

// NewProduct returns the product of the domains described by a and b.
func NewProduct[A, B any](a perfect.Inverter[A], b perfect.Inverter[B]) Product[A, B] {
	return Product[A, B]{first: a, second: b}
}

func (p Product[A, B]) Hash(t Tuple[A, B]) int {
	return p.first.Hash(t.First)*p.second.Size() + p.second.Hash(t.Second)
}

func (p Product[A, B]) Size() int {
	return p.first.Size() * p.second.Size()
}

func (p Product[A, B]) Unhash(i int) Tuple[A, B] {
	n := p.second.Size()
	return Tuple[A, B]{First: p.first.Unhash(i / n), Second: p.second.Unhash(i % n)}
}
