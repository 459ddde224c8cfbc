// scheduler.go - Source scheduling and playback controller
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package scheduler implements per-source-node atomic start/stop/loop/seek
// state, queried by source renderers each quantum without ever taking a
// lock.
package scheduler

import (
	"math"

	"github.com/intuitionamiga/audiograph/internal/atomicfloat"
)

// Scheduler tracks a source's active window. Both bounds start at +Inf
// (inactive); a scheduled start already in the past takes effect at the next
// quantum, since IsActive is re-evaluated every quantum rather than latched.
type Scheduler struct {
	start *atomicfloat.Float64
	stop  *atomicfloat.Float64
}

func New() *Scheduler {
	return &Scheduler{
		start: atomicfloat.NewFloat64(math.Inf(1)),
		stop:  atomicfloat.NewFloat64(math.Inf(1)),
	}
}

// IsActive reports start <= t < stop.
func (s *Scheduler) IsActive(t float64) bool {
	return t >= s.start.Load() && t < s.stop.Load()
}

func (s *Scheduler) StartAt(start float64) { s.start.Store(start) }
func (s *Scheduler) StopAt(stop float64)   { s.stop.Store(stop) }

// Controller layers seek and loop-region state on top of a Scheduler, for
// nodes that play back a stored or streamed buffer (AudioBufferSourceNode,
// media source nodes).
type Controller struct {
	Scheduler  *Scheduler
	seek       *atomicfloat.Float64
	loopOn     *atomicfloat.Float64 // 0/1 stored as float to stay lock-free with the same primitive
	loopStart  *atomicfloat.Float64
	loopEnd    *atomicfloat.Float64
}

func NewController() *Controller {
	return &Controller{
		Scheduler: New(),
		seek:      atomicfloat.NewFloat64(math.NaN()),
		loopOn:    atomicfloat.NewFloat64(0),
		loopStart: atomicfloat.NewFloat64(0),
		loopEnd:   atomicfloat.NewFloat64(math.Inf(1)),
	}
}

// Seek requests a one-shot seek to position x.
func (c *Controller) Seek(x float64) {
	c.seek.Store(x)
}

// ShouldSeek atomically consumes a pending seek request: it returns the
// requested position and true at most once per Seek call, swapping the
// sentinel NaN back in so a second call in the same quantum sees none
// pending.
func (c *Controller) ShouldSeek() (float64, bool) {
	v := c.seek.Swap(math.NaN())
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func (c *Controller) SetLoop(on bool) {
	if on {
		c.loopOn.Store(1)
	} else {
		c.loopOn.Store(0)
	}
}

func (c *Controller) LoopEnabled() bool {
	return c.loopOn.Load() != 0
}

func (c *Controller) SetLoopStart(t float64) { c.loopStart.Store(t) }
func (c *Controller) SetLoopEnd(t float64)   { c.loopEnd.Store(t) }
func (c *Controller) LoopStart() float64     { return c.loopStart.Load() }
func (c *Controller) LoopEnd() float64       { return c.loopEnd.Load() }
