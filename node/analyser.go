// analyser.go - Time-domain analyser node
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package node

import (
	"sync"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/proc"
)

const defaultAnalyserSize = 2048

// Analyser passes audio through unchanged while capturing a mono mixdown of
// its input into a ring buffer the control side can inspect. Capture uses
// TryLock so the render thread never blocks: if the control side is mid-read
// the quantum is simply not captured.
type Analyser struct {
	Node *audioctx.Node

	p *analyserProcessor
}

func NewAnalyser(ctx *audioctx.Context) *Analyser {
	p := &analyserProcessor{ring: make([]float32, defaultAnalyserSize)}
	n := ctx.Register(1, 1, channelconfig.Options{
		Count:          2,
		Mode:           channelconfig.Max,
		Interpretation: channelconfig.Speakers,
	}, func(id uint64) proc.Processor {
		return p
	})
	return &Analyser{Node: n, p: p}
}

// TimeDomainData copies the most recent len(dst) captured samples into dst
// in chronological order and returns the number copied.
func (a *Analyser) TimeDomainData(dst []float32) int {
	a.p.mu.Lock()
	defer a.p.mu.Unlock()
	n := len(dst)
	if n > len(a.p.ring) {
		n = len(a.p.ring)
	}
	for i := 0; i < n; i++ {
		idx := a.p.pos - n + i
		if idx < 0 {
			idx += len(a.p.ring)
		}
		dst[i] = a.p.ring[idx]
	}
	return n
}

type analyserProcessor struct {
	mu   sync.Mutex
	ring []float32
	pos  int

	srcs [][]float32 // slice headers, reused each quantum
}

func (a *analyserProcessor) TailTime() bool { return false }

func (a *analyserProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(inputs) == 0 || len(outputs) == 0 {
		return
	}
	in := inputs[0]
	outputs[0] = in

	if !a.mu.TryLock() {
		return
	}
	defer a.mu.Unlock()

	nch := in.NumberOfChannels()
	if nch == 0 {
		return
	}
	length := in.Length()
	a.srcs = a.srcs[:0]
	for c := 0; c < nch; c++ {
		cd, _ := in.ChannelDataAt(c)
		a.srcs = append(a.srcs, cd.AsSlice())
	}
	inv := float32(1) / float32(nch)
	for i := 0; i < length; i++ {
		var v float32
		for c := 0; c < nch; c++ {
			v += a.srcs[c][i]
		}
		a.ring[a.pos] = v * inv
		a.pos++
		if a.pos == len(a.ring) {
			a.pos = 0
		}
	}
}
