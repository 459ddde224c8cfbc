// oscillator.go - Oscillator node
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
	"github.com/intuitionamiga/audiograph/scheduler"
)

// Waveform selects the oscillator's periodic shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

const defaultFrequency = 440.0

// Oscillator is a scheduled periodic waveform generator with an a-rate
// frequency param.
type Oscillator struct {
	Node      *audioctx.Node
	Frequency *audioctx.ParamHandle

	sched *scheduler.Scheduler
}

func NewOscillator(ctx *audioctx.Context, wave Waveform) *Oscillator {
	sched := scheduler.New()
	freq := ctx.NewParam(param.ARate, defaultFrequency)
	n := ctx.Register(0, 1, channelconfig.Options{
		Count:          1,
		Mode:           channelconfig.Explicit,
		Interpretation: channelconfig.Discrete,
	}, func(id uint64) proc.Processor {
		return &oscillatorProcessor{wave: wave, freqID: freq.NodeID(), sched: sched}
	})
	freq.AttachTo(n)
	return &Oscillator{Node: n, Frequency: freq, sched: sched}
}

// Start schedules the oscillator to begin producing output at time t.
func (o *Oscillator) Start(t float64) { o.sched.StartAt(t) }

// Stop schedules the oscillator to go silent at time t.
func (o *Oscillator) Stop(t float64) { o.sched.StopAt(t) }

type oscillatorProcessor struct {
	wave   Waveform
	freqID uint64
	sched  *scheduler.Scheduler
	phase  float64 // normalized [0, 1)
}

func (o *oscillatorProcessor) TailTime() bool { return false }

func (o *oscillatorProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(outputs) == 0 {
		return
	}
	n := outputs[0].Length()
	outputs[0].Reset(1, n, sampleRate)
	out := outputs[0].ChannelMut(0)
	freq := params.Get(o.freqID)
	dt := 1.0 / float64(sampleRate)

	for i := 0; i < n; i++ {
		if !o.sched.IsActive(timestamp + float64(i)*dt) {
			continue
		}
		f := paramAt(freq, i, defaultFrequency)
		o.phase += f * dt
		o.phase -= float64(int(o.phase))
		out[i] = o.sample()
	}
}

func (o *oscillatorProcessor) sample() float32 {
	switch o.wave {
	case Square:
		if o.phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return float32(2*o.phase - 1)
	case Triangle:
		if o.phase < 0.5 {
			return float32(4*o.phase - 1)
		}
		return float32(3 - 4*o.phase)
	default:
		return fastSin(2 * pi * o.phase)
	}
}
