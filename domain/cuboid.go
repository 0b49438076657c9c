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

// Package domain provides ready-made perfect hash descriptors for common key
// domains: points in a cuboid, unordered pairs, integer ranges and products
// of other domains. Every descriptor implements perfect.Inverter.
package domain

import (
	"fmt"

	"github.com/cockroachdb/perfect"
)

// Point is a position in a Cuboid.
type Point struct {
	X, Y, Z int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Cuboid is the domain of points with 0 <= X < W, 0 <= Y < H and 0 <= Z < D,
// laid out with X varying fastest.
type Cuboid struct {
	W, H, D int
}

var _ perfect.Inverter[Point] = Cuboid{}

// NewCuboid returns a Cuboid with the given dimensions. It panics if any
// dimension is not positive.
func NewCuboid(w, h, d int) Cuboid {
	if w <= 0 || h <= 0 || d <= 0 {
		panic(fmt.Sprintf("domain: invalid cuboid %dx%dx%d", w, h, d))
	}
	return Cuboid{W: w, H: h, D: d}
}

func (c Cuboid) Hash(p Point) int {
	return p.X + c.W*p.Y + c.W*c.H*p.Z
}

func (c Cuboid) Size() int {
	return c.W * c.H * c.D
}

func (c Cuboid) Unhash(i int) Point {
	return Point{X: i % c.W, Y: (i / c.W) % c.H, Z: i / (c.W * c.H)}
}
