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

package perfect_test

import (
	"fmt"

	"github.com/cockroachdb/perfect"
	"github.com/cockroachdb/perfect/domain"
)

func ExampleDenseMap() {
	m := perfect.NewDenseMap[domain.Point, string](domain.NewCuboid(10, 20, 30))
	m.Put(domain.Point{X: 0, Y: 3, Z: 7}, "Hello ")
	m.Put(domain.Point{X: 4, Y: 19, Z: 13}, "lovely")
	m.Put(domain.Point{X: 9, Y: 8, Z: 29}, "World!")

	fmt.Print(m.Get(domain.Point{X: 0, Y: 3, Z: 7}))
	fmt.Print(m.Get(domain.Point{X: 2, Y: 15, Z: 2}))
	fmt.Print(m.Get(domain.Point{X: 9, Y: 8, Z: 29}))
	fmt.Println(m.Get(domain.Point{X: 7, Y: 4, Z: 23}))
	// Output:
	// Hello World!
}

func ExampleSet() {
	s := perfect.NewSet[domain.Pair](domain.Pairs{N: 10})
	s.Add(domain.Pair{U: 3, V: 7})
	fmt.Println(s.Contains(domain.Pair{U: 3, V: 7}), s.Contains(domain.Pair{U: 7, V: 3}), s.Contains(domain.Pair{U: 2, V: 2}))

	s.Add(domain.Pair{U: 7, V: 6})
	s.Add(domain.Pair{U: 4, V: 3})
	s.Add(domain.Pair{U: 1, V: 0})
	s.Add(domain.Pair{U: 1, V: 4})

	fmt.Println(s.Contains(domain.Pair{U: 6, V: 7}))
	for p := range s.All {
		fmt.Println(p)
	}
	// Output:
	// true true false
	// true
	// (0,1)
	// (1,4)
	// (3,4)
	// (3,7)
	// (6,7)
}

func ExampleMap() {
	m := perfect.NewMap[uint8, string](domain.NewRange[uint8](0, 255))
	m.Put('b', "bee")
	m.Put('a', "ant")
	if _, ok := m.Get('c'); !ok {
		fmt.Println("no c")
	}
	prev, _ := m.Put('a', "aphid")
	fmt.Println(prev)
	for k, v := range m.All {
		fmt.Printf("%c=%s\n", k, v)
	}
	// Output:
	// no c
	// ant
	// a=aphid
	// b=bee
}

func ExampleKeys() {
	for p := range perfect.Keys[domain.Pair](domain.Pairs{N: 3}) {
		fmt.Print(p, " ")
	}
	fmt.Println()
	// Output:
	// (0,0) (0,1) (1,1) (0,2) (1,2) (2,2)
}
