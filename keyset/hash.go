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

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// HashFunc is a seeded 64-bit string hash. Different seeds must yield
// independent hash functions.
type HashFunc func(key string, seed uint64) uint64

// XXH3 hashes key with XXH3-64. It is the default HashFunc.
func XXH3(key string, seed uint64) uint64 {
	return xxh3.HashStringSeed(key, seed)
}

// XXHash64 hashes the seed followed by key with XXH64.
func XXHash64(key string, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(key)
	return d.Sum64()
}

// Murmur3 hashes key with the 64-bit half of MurmurHash3 x64-128. The seed is
// folded to 32 bits.
func Murmur3(key string, seed uint64) uint64 {
	return murmur3.Sum64WithSeed([]byte(key), uint32(seed)^uint32(seed>>32))
}

// pilotHashC is the PTRHash mixing constant.
const pilotHashC = 0x517cc1b727220a95

// pilotHash derives the per-bucket slot multiplier from a pilot. The
// SplitMix64 finalizer makes nearby pilots independent and the low bit is
// forced so that the multiplication in slot is a bijection.
func pilotHash(pilot uint16, seed uint64) uint64 {
	return splitMix64(pilotHashC*(uint64(pilot)^seed)) | 1
}

// splitMix64 is the SplitMix64 finalizer.
func splitMix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// fastRange maps x uniformly to [0, n) by taking the high half of x*n.
func fastRange(x uint64, n int) int {
	hi, _ := bits.Mul64(x, uint64(n))
	return int(hi)
}

// slot returns the table slot of a key hash h under pilot multiplier hp. The
// fold makes the result depend on the high bits of h, which also choose the
// bucket.
func slot(h, hp uint64, numSlots int) int {
	return fastRange((h^(h>>32))*hp, numSlots)
}
