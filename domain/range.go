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
	"golang.org/x/exp/constraints"
)

// Range is the domain of integers in [Min, Max]. A Range with Max < Min is
// empty. Indexes are computed in int, so the span Max-Min must be smaller
// than math.MaxInt; NewRange enforces this.
type Range[K constraints.Integer] struct {
	Min, Max K
}

var _ perfect.Inverter[uint8] = Range[uint8]{}

// NewRange returns the Range [lo, hi]. It panics if the range has more than
// math.MaxInt elements.
func NewRange[K constraints.Integer](lo, hi K) Range[K] {
	if hi >= lo {
		if d := int(hi) - int(lo); d < 0 || d == math.MaxInt {
			panic(fmt.Sprintf("domain: range [%d, %d] is too large", lo, hi))
		}
	}
	return Range[K]{Min: lo, Max: hi}
}

// Hash widens before subtracting so that spans wider than half of K do not
// wrap.
func (r Range[K]) Hash(k K) int {
	return int(k) - int(r.Min)
}

func (r Range[K]) Size() int {
	if r.Max < r.Min {
		return 0
	}
	return int(r.Max) - int(r.Min) + 1
}

func (r Range[K]) Unhash(i int) K {
	return r.Min + K(i)
}
