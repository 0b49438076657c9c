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

package perfect

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is wrapped by the panic value raised when a Hasher
	// produces an index outside of [0, Size()).
	ErrIndexOutOfRange = errors.New("perfect: index out of range")
	// ErrSizeMismatch is returned (or panicked with) when storage or another
	// container does not match the size of the descriptor.
	ErrSizeMismatch = errors.New("perfect: size mismatch")
	// ErrNotInvertible is wrapped by the panic value raised when iteration is
	// requested on a container whose Hasher is not an Inverter.
	ErrNotInvertible = errors.New("perfect: hasher does not implement Inverter")
)

// IndexError describes a Hasher contract violation. It is the panic value of
// every keyed operation that receives an out-of-range index.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("perfect: index %d out of range [0, %d)", e.Index, e.Size)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
