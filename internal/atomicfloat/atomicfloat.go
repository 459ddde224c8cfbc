// atomicfloat.go - Atomic float64 via bit transmute
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package atomicfloat provides lock-free float64 storage via bit transmute,
// for targets and code paths where atomic.Pointer[float64] would allocate.
package atomicfloat

import (
	"math"
	"sync/atomic"
)

// Float64 is a 64-bit float that can be loaded and stored atomically by
// transmuting through its bit representation.
type Float64 struct {
	bits atomic.Uint64
}

// NewFloat64 returns a Float64 initialized to v.
func NewFloat64(v float64) *Float64 {
	f := &Float64{}
	f.Store(v)
	return f
}

func (f *Float64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *Float64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Swap stores v and returns the previous value.
func (f *Float64) Swap(v float64) float64 {
	return math.Float64frombits(f.bits.Swap(math.Float64bits(v)))
}

// CompareAndSwap follows the same exchange semantics as atomic.Uint64,
// comparing bit patterns rather than float equality (so NaN sentinels work).
func (f *Float64) CompareAndSwap(old, new float64) bool {
	return f.bits.CompareAndSwap(math.Float64bits(old), math.Float64bits(new))
}
