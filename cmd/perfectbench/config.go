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

package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	plog "github.com/phuslu/log"
)

// Config is read from PERFECT_* environment variables.
type Config struct {
	// Size is the number of keys in the integer domain.
	Size int `envconfig:"SIZE" default:"1048576"`
	// Ops is the number of operations timed per container.
	Ops int `envconfig:"OPS" default:"10000000"`
	// Keys is the number of string keys for the keyset build.
	Keys int `envconfig:"KEYS" default:"100000"`
	// HashFunc selects the keyset hash: xxh3, xxhash64 or murmur3.
	HashFunc string `envconfig:"HASH_FUNC" default:"xxh3"`
	Seed     int64  `envconfig:"SEED" default:"1"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadFromEnv loads the configuration from the environment and an optional
// .env file.
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	config := new(Config)
	if err := envconfig.Process("perfect", config); err != nil {
		return nil, err
	}
	if config.Size <= 0 || config.Ops <= 0 || config.Keys < 0 {
		return nil, fmt.Errorf("invalid sizes: size=%d ops=%d keys=%d", config.Size, config.Ops, config.Keys)
	}
	return config, nil
}

// Level returns the log level named by LogLevel.
func (c *Config) Level() plog.Level {
	switch c.LogLevel {
	case "debug":
		return plog.DebugLevel
	case "warn":
		return plog.WarnLevel
	case "error":
		return plog.ErrorLevel
	default:
		return plog.InfoLevel
	}
}
