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

// Perfectbench measures the throughput of the perfectly hashed containers
// against Go's builtin map, and the build time of a keyset.Hasher.
//
// Usage:
//
//	PERFECT_SIZE=1048576 PERFECT_OPS=10000000 go run ./cmd/perfectbench
//
// Environment (also read from .env):
//
//	PERFECT_SIZE       Keys in the integer domain (default: 1,048,576)
//	PERFECT_OPS        Operations timed per container (default: 10,000,000)
//	PERFECT_KEYS       String keys for the keyset build (default: 100,000)
//	PERFECT_HASH_FUNC  Keyset hash: xxh3, xxhash64 or murmur3 (default: xxh3)
//	PERFECT_SEED       Seed of the random key sequence (default: 1)
//	PERFECT_LOG_LEVEL  debug, info, warn or error (default: info)
package main

import (
	"math/rand"
	"os"
	"strconv"
	"time"

	plog "github.com/phuslu/log"

	"github.com/cockroachdb/perfect"
	"github.com/cockroachdb/perfect/domain"
	"github.com/cockroachdb/perfect/keyset"
)

type result struct {
	impl    string
	op      string
	ops     int
	elapsed time.Duration
}

func (r result) log(log *plog.Logger) {
	log.Info().
		Str("impl", r.impl).
		Str("op", r.op).
		Int("ops", r.ops).
		Dur("elapsed", r.elapsed).
		Float64("ns/op", float64(r.elapsed.Nanoseconds())/float64(r.ops)).
		Msg("")
}

func timeOps(impl, op string, n int, fn func(i int)) result {
	start := time.Now()
	for i := 0; i < n; i++ {
		fn(i)
	}
	return result{impl: impl, op: op, ops: n, elapsed: time.Since(start)}
}

// benchContainers times puts and gets with the same random key sequence on
// every container.
func benchContainers(cfg *Config) []result {
	rng := rand.New(rand.NewSource(cfg.Seed))
	keys := make([]int, cfg.Ops)
	for i := range keys {
		keys[i] = rng.Intn(cfg.Size)
	}
	dom := domain.NewRange(0, cfg.Size-1)

	var results []result
	var sink int

	dense := perfect.NewDenseMap[int, int](dom)
	results = append(results,
		timeOps("DenseMap", "put", cfg.Ops, func(i int) { dense.Put(keys[i], i) }),
		timeOps("DenseMap", "get", cfg.Ops, func(i int) { sink += dense.Get(keys[i]) }))

	m := perfect.NewMap[int, int](dom)
	results = append(results,
		timeOps("Map", "put", cfg.Ops, func(i int) { m.Put(keys[i], i) }),
		timeOps("Map", "get", cfg.Ops, func(i int) {
			v, _ := m.Get(keys[i])
			sink += v
		}))

	s := perfect.NewSet[int](dom)
	results = append(results,
		timeOps("Set", "add", cfg.Ops, func(i int) { s.Add(keys[i]) }),
		timeOps("Set", "contains", cfg.Ops, func(i int) {
			if s.Contains(keys[i]) {
				sink++
			}
		}))

	builtin := make(map[int]int, cfg.Size)
	results = append(results,
		timeOps("builtin", "put", cfg.Ops, func(i int) { builtin[keys[i]] = i }),
		timeOps("builtin", "get", cfg.Ops, func(i int) { sink += builtin[keys[i]] }))

	_ = sink
	return results
}

func hashFunc(name string) keyset.HashFunc {
	switch name {
	case "xxhash64":
		return keyset.XXHash64
	case "murmur3":
		return keyset.Murmur3
	default:
		return keyset.XXH3
	}
}

// benchKeyset times building a keyset.Hasher and looking up all of its keys.
func benchKeyset(cfg *Config) ([]result, error) {
	keys := make([]string, cfg.Keys)
	for i := range keys {
		keys[i] = "key-" + strconv.Itoa(i)
	}

	start := time.Now()
	h, err := keyset.New(keys, keyset.WithHashFunc(hashFunc(cfg.HashFunc)))
	if err != nil {
		return nil, err
	}
	build := result{impl: "keyset/" + cfg.HashFunc, op: "build", ops: max(len(keys), 1), elapsed: time.Since(start)}

	m := perfect.NewDenseMap[string, int](h)
	lookup := timeOps("keyset/"+cfg.HashFunc, "put", len(keys), func(i int) { m.Put(keys[i], i) })
	return []result{build, lookup}, nil
}

func main() {
	log := plog.Logger{
		Level:      plog.InfoLevel,
		TimeField:  "time",
		TimeFormat: "15:04:05",
		Writer:     &plog.IOWriter{Writer: os.Stderr},
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	log.Level = cfg.Level()
	log.Debug().Int("size", cfg.Size).Int("ops", cfg.Ops).Int("keys", cfg.Keys).Msg("configuration")

	for _, r := range benchContainers(cfg) {
		r.log(&log)
	}

	if cfg.Keys > 0 {
		results, err := benchKeyset(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build the keyset")
		}
		for _, r := range results {
			r.log(&log)
		}
	}
}
