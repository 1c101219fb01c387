// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package allocator

import (
	"fmt"
	"math/bits"
)

// DefaultAreaSize is the capacity of a freshly created area in bytes.
const DefaultAreaSize = 65536

// area is a fixed-capacity byte region. used never exceeds len(mem).
type area struct {
	mem  []byte
	used int
}

func newArea(size int) *area {
	return &area{mem: make([]byte, size)}
}

// alloc carves size bytes from the area, or returns nil if they do not fit.
func (ar *area) alloc(size int) []byte {
	if len(ar.mem)-ar.used < size {
		return nil
	}
	res := ar.mem[ar.used : ar.used+size : ar.used+size]
	ar.used += size
	return res
}

func (ar *area) reset() {
	ar.used = 0
	clear(ar.mem)
}

// Position is a checkpoint token captured by [Allocator.Save]. It must be
// passed to [Allocator.Restore] exactly once, in LIFO order.
type Position struct {
	index int
	area  int
	used  int
}

// Allocator is a bump allocator over a sequence of areas.
type Allocator struct {
	areas    []*area
	active   int
	index    int
	areaSize int
}

// Option configures an Allocator created by [New].
type Option func(*Allocator)

// WithAreaSize sets the capacity of newly created areas.
// Non-positive values fall back to [DefaultAreaSize].
func WithAreaSize(size int) Option {
	return func(a *Allocator) {
		if size > 0 {
			a.areaSize = size
		}
	}
}

// New creates an empty Allocator. No memory is reserved until the first
// call to [Allocator.Allocate].
func New(opts ...Option) *Allocator {
	a := &Allocator{areaSize: DefaultAreaSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// roundSize rounds size up to the next power of two.
func roundSize(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

func (a *Allocator) createArea(minSize int) *area {
	size := a.areaSize
	if minSize > size {
		size = minSize
	}
	ar := newArea(size)
	a.areas = append(a.areas, ar)
	return ar
}

// Allocate returns a block whose length is size rounded up to the next power
// of two. When the active area is exhausted the allocator advances to the
// next area, resetting it first, or creates a new one. Allocate never fails.
//
// Blocks carved from a newly created or freshly reset area are zeroed.
// Restore does not clear memory, so a block handed out after a Restore may
// still hold bytes written before it.
func (a *Allocator) Allocate(size int) []byte {
	allocSize := roundSize(size)

	if len(a.areas) == 0 {
		a.createArea(allocSize)
		a.active = 0
	}
	if res := a.areas[a.active].alloc(allocSize); res != nil {
		return res
	}

	for {
		a.active++
		if a.active == len(a.areas) {
			return a.createArea(allocSize).alloc(allocSize)
		}
		ar := a.areas[a.active]
		ar.reset()
		if res := ar.alloc(allocSize); res != nil {
			return res
		}
	}
}

// Save records the current allocation position and pushes it onto the
// checkpoint stack.
func (a *Allocator) Save() Position {
	pos := Position{index: a.index, area: -1}
	if len(a.areas) > 0 {
		pos.area = a.active
		pos.used = a.areas[a.active].used
	}
	a.index++
	return pos
}

// Restore rewinds the allocator to pos. pos must be the most recently saved
// position that has not been restored yet, otherwise Restore panics with a
// *ProtocolViolation.
func (a *Allocator) Restore(pos Position) {
	if a.index != pos.index+1 {
		panic(&ProtocolViolation{Expected: a.index - 1, Got: pos.index})
	}
	a.index--

	switch {
	case pos.area >= len(a.areas):
		panic(&ProtocolViolation{Expected: a.index, Got: pos.index})
	case pos.area >= 0:
		a.active = pos.area
		a.areas[pos.area].used = pos.used
	case len(a.areas) > 0:
		// saved before the first area existed
		a.active = 0
		a.areas[0].used = 0
	}
}

// Empty rewinds the allocator to the start of its first area without
// releasing memory. The checkpoint stack is left untouched.
func (a *Allocator) Empty() {
	a.active = 0
	if len(a.areas) > 0 {
		a.areas[0].reset()
	}
}

// Clear releases all areas. It is meant for worker shutdown.
func (a *Allocator) Clear() {
	a.areas = nil
	a.active = 0
}

// Depth returns the number of outstanding checkpoints.
func (a *Allocator) Depth() int {
	return a.index
}

// AssertBalanced panics with a *ProtocolViolation if a checkpoint is still
// outstanding. It is called at the end of an evaluation pass.
func (a *Allocator) AssertBalanced() {
	if a.index != 0 {
		panic(&ProtocolViolation{Expected: -1, Got: a.index - 1, Outstanding: a.index})
	}
}

// Stats describes allocator usage.
type Stats struct {
	Areas    int
	Active   int
	Used     int
	Reserved int
}

// Stats reports the current usage of the allocator.
func (a *Allocator) Stats() Stats {
	s := Stats{Areas: len(a.areas), Active: a.active}
	for i, ar := range a.areas {
		s.Reserved += len(ar.mem)
		if i == a.active {
			s.Used = ar.used
		}
	}
	return s
}

// ProtocolViolation is the panic value raised when checkpoints are restored
// out of order or left outstanding at the end of a pass.
type ProtocolViolation struct {
	Expected int
	Got      int
	// Outstanding is the number of unrestored checkpoints, set by AssertBalanced.
	Outstanding int
}

// Error implements the error interface for ProtocolViolation.
func (v *ProtocolViolation) Error() string {
	if v.Outstanding > 0 {
		return fmt.Sprintf("allocator pass ended with %d outstanding checkpoints", v.Outstanding)
	}
	return fmt.Sprintf("allocator position restored out of order: expected checkpoint %d, got %d", v.Expected, v.Got)
}
