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
	"math"

	"github.com/cockroachdb/perfect"
)

// Pair is an unordered pair of integers. Pair{U: 3, V: 7} and Pair{U: 7, V: 3}
// are the same key of Pairs.
type Pair struct {
	U, V int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.U, p.V)
}

// Pairs is the domain of unordered pairs {u, v} with 0 <= u, v < N, including
// pairs with u == v. It is laid out as the lower triangle of an N×N matrix:
// the pair with a = min(u, v) and b = max(u, v) hashes to a + b(b+1)/2.
type Pairs struct {
	N int
}

var _ perfect.Inverter[Pair] = Pairs{}

// triangle returns the number of pairs whose larger element is below n.
func triangle(n int) int {
	return n * (n + 1) / 2
}

func (p Pairs) Hash(k Pair) int {
	a, b := k.U, k.V
	if a > b {
		a, b = b, a
	}
	return a + triangle(b)
}

func (p Pairs) Size() int {
	return triangle(p.N)
}

// Unhash returns the pair at index i with U <= V.
func (p Pairs) Unhash(i int) Pair {
	// b is the largest value with triangle(b) <= i. The float estimate is
	// corrected for rounding in both directions.
	b := int((math.Sqrt(8*float64(i)+1) - 1) / 2)
	for b > 0 && triangle(b) > i {
		b--
	}
	for triangle(b+1) <= i {
		b++
	}
	return Pair{U: i - triangle(b), V: b}
}
