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

package keyset

// Option is a functional option for configuring New.
type Option func(*buildConfig)

type buildConfig struct {
	seed        uint64
	hash        HashFunc
	load        float64 // average keys per bucket
	alpha       float64 // keys per table slot before remapping
	maxAttempts int
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		seed:        0x1234567890abcdef,
		hash:        XXH3,
		load:        4,
		alpha:       0.99,
		maxAttempts: 16,
	}
}

// WithSeed sets the seed of the first build attempt. Later attempts derive
// their seeds from it.
func WithSeed(seed uint64) Option {
	return func(c *buildConfig) {
		c.seed = seed
	}
}

// WithHashFunc sets the string hash. The same function is used by Hash, so
// it must be deterministic across the lifetime of the Hasher.
func WithHashFunc(fn HashFunc) Option {
	return func(c *buildConfig) {
		c.hash = fn
	}
}

// WithLoad sets the average number of keys per bucket, and therefore the
// number of 16-bit pilots stored: len(keys)/load. Higher loads use less
// memory and take longer to build. Values below 1 are raised to 1.
func WithLoad(load float64) Option {
	return func(c *buildConfig) {
		c.load = max(load, 1)
	}
}

// WithMaxAttempts sets how many seeds are tried before New gives up with
// ErrBuildFailed.
func WithMaxAttempts(n int) Option {
	return func(c *buildConfig) {
		c.maxAttempts = max(n, 1)
	}
}
