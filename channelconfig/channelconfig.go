// channelconfig.go - Atomic per-node channel configuration
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package channelconfig holds the per-node channel settings the mixer
// consults when combining inputs: desired channel count, count mode, and
// interpretation. All three fields are atomic words so the control thread
// can mutate them without locking while the render thread reads them;
// ordering between the three fields is not guaranteed, and consumers must
// tolerate observing a stale combination for at most one quantum.
package channelconfig

import "sync/atomic"

type CountMode uint32

const (
	Max CountMode = iota
	ClampedMax
	Explicit
)

type Interpretation uint32

const (
	Speakers Interpretation = iota
	Discrete
)

// Config is the shared, atomically-mutable handle held by both the
// control-side node and its render-side record.
type Config struct {
	count          atomic.Uint32
	mode           atomic.Uint32
	interpretation atomic.Uint32
}

// New returns a Config with the defaults: count 2, mode Max, interpretation
// Speakers.
func New() *Config {
	c := &Config{}
	c.count.Store(2)
	c.mode.Store(uint32(Max))
	c.interpretation.Store(uint32(Speakers))
	return c
}

// Options bundles an initial triple for construction.
type Options struct {
	Count          int
	Mode           CountMode
	Interpretation Interpretation
}

func NewFromOptions(o Options) *Config {
	c := &Config{}
	c.count.Store(uint32(o.Count))
	c.mode.Store(uint32(o.Mode))
	c.interpretation.Store(uint32(o.Interpretation))
	return c
}

func (c *Config) Count() int                    { return int(c.count.Load()) }
func (c *Config) SetCount(n int)                { c.count.Store(uint32(n)) }
func (c *Config) Mode() CountMode                { return CountMode(c.mode.Load()) }
func (c *Config) SetMode(m CountMode)            { c.mode.Store(uint32(m)) }
func (c *Config) Interpretation() Interpretation { return Interpretation(c.interpretation.Load()) }
func (c *Config) SetInterpretation(i Interpretation) {
	c.interpretation.Store(uint32(i))
}
