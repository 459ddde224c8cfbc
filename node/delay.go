// delay.go - Delay line node
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package node

import (
	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/param"
	"github.com/intuitionamiga/audiograph/proc"
)

// Delay passes its input through a circular buffer sized to a maximum delay.
// The delayTime param is read k-rate (once per quantum). While the ring
// still holds unread energy after the input goes quiet, the node reports
// tail time so the graph's sweep keeps it alive.
type Delay struct {
	Node      *audioctx.Node
	DelayTime *audioctx.ParamHandle
}

// NewDelay builds a delay line holding at most maxDelay seconds. The initial
// delay time is zero.
func NewDelay(ctx *audioctx.Context, maxDelay float64) *Delay {
	if maxDelay <= 0 {
		maxDelay = 1
	}
	d := ctx.NewParam(param.KRate, 0)
	maxFrames := int(maxDelay * float64(ctx.SampleRate()))
	if maxFrames < 1 {
		maxFrames = 1
	}
	n := ctx.Register(1, 1, channelconfig.Options{
		Count:          2,
		Mode:           channelconfig.Max,
		Interpretation: channelconfig.Speakers,
	}, func(id uint64) proc.Processor {
		return &delayProcessor{delayID: d.NodeID(), maxFrames: maxFrames}
	})
	d.AttachTo(n)
	return &Delay{Node: n, DelayTime: d}
}

type delayProcessor struct {
	delayID   uint64
	maxFrames int
	ring      [][]float32
	pos       int
	quiet     int // consecutive all-zero input frames observed

	srcs, outs [][]float32 // per-quantum slice headers, reused
}

// TailTime reports true while frames written less than maxFrames ago may
// still be audible.
func (d *delayProcessor) TailTime() bool {
	return d.quiet < d.maxFrames
}

func (d *delayProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(inputs) == 0 || len(outputs) == 0 {
		return
	}
	in := inputs[0]
	nch := in.NumberOfChannels()
	length := in.Length()

	// The ring is (re)allocated only when the input channel count changes,
	// which happens at most once in steady state.
	if len(d.ring) != nch {
		d.ring = make([][]float32, nch)
		for c := range d.ring {
			d.ring[c] = make([]float32, d.maxFrames)
		}
		d.pos = 0
	}

	delayFrames := int(paramAt(params.Get(d.delayID), 0, 0)*float64(sampleRate) + 0.5)
	if delayFrames < 0 {
		delayFrames = 0
	}
	if delayFrames >= d.maxFrames {
		delayFrames = d.maxFrames - 1
	}

	outputs[0].Reset(nch, length, sampleRate)
	d.srcs = d.srcs[:0]
	d.outs = d.outs[:0]
	for c := 0; c < nch; c++ {
		cd, _ := in.ChannelDataAt(c)
		d.srcs = append(d.srcs, cd.AsSlice())
		d.outs = append(d.outs, outputs[0].ChannelMut(c))
	}

	silent := true
	for i := 0; i < length; i++ {
		read := d.pos - delayFrames
		if read < 0 {
			read += d.maxFrames
		}
		for c := 0; c < nch; c++ {
			v := d.srcs[c][i]
			if v != 0 {
				silent = false
			}
			d.ring[c][d.pos] = v
			d.outs[c][i] = d.ring[c][read]
		}
		d.pos++
		if d.pos == d.maxFrames {
			d.pos = 0
		}
	}

	if silent {
		d.quiet += length
	} else {
		d.quiet = 0
	}
}
