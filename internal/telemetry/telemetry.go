// telemetry.go - Structured logging and render fault counter
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package telemetry wraps the engine's structured logger and the render-side
// fault counter that lets the real-time path report problems without logging
// on its own hot path.
package telemetry

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Log is the package-wide structured logger. Control-side code may log
// directly through it; the render thread must not.
var Log = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "audiograph",
})

// FaultCounter accumulates render-side faults without blocking or
// allocating: the render thread adds one for each processor panic it
// recovers. Stream errors and ignored control messages are not counted. The
// control side drains and logs it (the demo binaries do so once, after
// rendering or playback ends).
type FaultCounter struct {
	n atomic.Uint64
}

func (f *FaultCounter) Add() {
	f.n.Add(1)
}

// Drain returns the accumulated count and resets it to zero.
func (f *FaultCounter) Drain() uint64 {
	return f.n.Swap(0)
}
