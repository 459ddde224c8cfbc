// buffersource.go - In-memory buffer playback node
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
	"github.com/intuitionamiga/audiograph/proc"
	"github.com/intuitionamiga/audiograph/scheduler"
)

// BufferSource plays a pre-loaded in-memory AudioBuffer through a
// scheduler, with optional looping and one-shot seek via its Controller.
// The buffer is resampled to the graph rate once, at construction, on the
// control side.
type BufferSource struct {
	Node       *audioctx.Node
	Controller *scheduler.Controller
}

func NewBufferSource(ctx *audioctx.Context, buf audiobuffer.AudioBuffer) *BufferSource {
	ctrl := scheduler.NewController()
	resampled := buf.Resample(ctx.SampleRate())
	n := ctx.Register(0, 1, channelconfig.Options{
		Count:          maxInt(resampled.NumberOfChannels(), 1),
		Mode:           channelconfig.Explicit,
		Interpretation: channelconfig.Discrete,
	}, func(id uint64) proc.Processor {
		return &bufferSourceProcessor{buf: resampled, ctrl: ctrl}
	})
	return &BufferSource{Node: n, Controller: ctrl}
}

// Start schedules playback to begin at time t.
func (b *BufferSource) Start(t float64) { b.Controller.Scheduler.StartAt(t) }

// Stop schedules playback to end at time t.
func (b *BufferSource) Stop(t float64) { b.Controller.Scheduler.StopAt(t) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type bufferSourceProcessor struct {
	buf      audiobuffer.AudioBuffer
	ctrl     *scheduler.Controller
	pos      int
	finished bool

	srcs, outs [][]float32 // slice headers, built once / reused
}

// TailTime reports false once the buffer is exhausted and not looping.
func (b *bufferSourceProcessor) TailTime() bool { return !b.finished }

func (b *bufferSourceProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(outputs) == 0 {
		return
	}
	n := outputs[0].Length()
	nch := maxInt(b.buf.NumberOfChannels(), 1)

	if seek, ok := b.ctrl.ShouldSeek(); ok {
		b.pos = int(seek*float64(sampleRate) + 0.5)
		if b.pos < 0 {
			b.pos = 0
		}
		b.finished = false
	}

	if b.srcs == nil {
		for c := 0; c < b.buf.NumberOfChannels(); c++ {
			cd, _ := b.buf.ChannelDataAt(c)
			b.srcs = append(b.srcs, cd.AsSlice())
		}
	}

	outputs[0].Reset(nch, n, sampleRate)
	b.outs = b.outs[:0]
	for c := 0; c < nch; c++ {
		b.outs = append(b.outs, outputs[0].ChannelMut(c))
	}

	dt := 1.0 / float64(sampleRate)
	total := b.buf.Length()
	for i := 0; i < n; i++ {
		if b.finished || !b.ctrl.Scheduler.IsActive(timestamp+float64(i)*dt) {
			continue
		}
		if b.ctrl.LoopEnabled() {
			loopStart := int(b.ctrl.LoopStart() * float64(sampleRate))
			loopEnd := int(b.ctrl.LoopEnd() * float64(sampleRate))
			if loopEnd <= loopStart || loopEnd > total {
				loopEnd = total
			}
			if b.pos >= loopEnd {
				b.pos = loopStart
			}
		}
		if b.pos >= total {
			b.finished = true
			continue
		}
		for c := range b.srcs {
			b.outs[c][i] = b.srcs[c][b.pos]
		}
		b.pos++
	}
}
