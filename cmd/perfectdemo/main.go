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

// Perfectdemo stores strings in a DenseMap over a cuboid of points and reads
// some of them back, printing the concatenated values.
//
// Usage:
//
//	go run ./cmd/perfectdemo [-scenario file.yaml] [-v]
//
// Without a scenario the classic 10×20×30 example runs and prints
// "Hello World!". A scenario file looks like:
//
//	cuboid: {w: 10, h: 20, d: 30}
//	put:
//	  - {point: [0, 3, 7], value: "Hello "}
//	get:
//	  - [0, 3, 7]
package main

import (
	"flag"
	"fmt"
	"os"

	plog "github.com/phuslu/log"
	"gopkg.in/yaml.v3"

	"github.com/cockroachdb/perfect"
	"github.com/cockroachdb/perfect/domain"
)

type dims struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
	D int `yaml:"d"`
}

type entry struct {
	Point [3]int `yaml:"point"`
	Value string `yaml:"value"`
}

type scenario struct {
	Cuboid dims     `yaml:"cuboid"`
	Put    []entry  `yaml:"put"`
	Get    [][3]int `yaml:"get"`
}

var defaultScenario = scenario{
	Cuboid: dims{W: 10, H: 20, D: 30},
	Put: []entry{
		{Point: [3]int{0, 3, 7}, Value: "Hello "},
		{Point: [3]int{4, 19, 13}, Value: "lovely"},
		{Point: [3]int{9, 8, 29}, Value: "World!"},
	},
	Get: [][3]int{{0, 3, 7}, {2, 15, 2}, {9, 8, 29}, {7, 4, 23}},
}

func loadScenario(path string) (scenario, error) {
	if path == "" {
		return defaultScenario, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, err
	}
	var s scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return scenario{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

func point(p [3]int) domain.Point {
	return domain.Point{X: p[0], Y: p[1], Z: p[2]}
}

// run executes s and returns the concatenation of the values read.
func run(log *plog.Logger, s scenario) (out string, err error) {
	defer func() {
		// Points outside the cuboid violate the descriptor contract and
		// panic with an *perfect.IndexError.
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()

	if s.Cuboid.W <= 0 || s.Cuboid.H <= 0 || s.Cuboid.D <= 0 {
		return "", fmt.Errorf("invalid cuboid %dx%dx%d", s.Cuboid.W, s.Cuboid.H, s.Cuboid.D)
	}
	m := perfect.NewDenseMap[domain.Point, string](
		domain.NewCuboid(s.Cuboid.W, s.Cuboid.H, s.Cuboid.D))
	log.Debug().Int("size", m.Len()).Msg("created map")
	for _, e := range s.Put {
		m.Put(point(e.Point), e.Value)
		log.Debug().Str("point", point(e.Point).String()).Str("value", e.Value).Msg("put")
	}
	for _, p := range s.Get {
		v := m.Get(point(p))
		log.Debug().Str("point", point(p).String()).Str("value", v).Msg("get")
		out += v
	}
	return out, nil
}

func main() {
	scenarioFlag := flag.String("scenario", "", "YAML scenario file (default: built-in example)")
	verboseFlag := flag.Bool("v", false, "log every operation")
	flag.Parse()

	log := plog.Logger{
		Level:      plog.InfoLevel,
		TimeField:  "time",
		TimeFormat: "15:04:05",
		Writer:     &plog.IOWriter{Writer: os.Stderr},
	}
	if *verboseFlag {
		log.Level = plog.DebugLevel
	}

	s, err := loadScenario(*scenarioFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the scenario")
	}
	out, err := run(&log, s)
	if err != nil {
		log.Fatal().Err(err).Msg("scenario failed")
	}
	fmt.Println(out)
}
