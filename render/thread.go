// thread.go - Render thread driver
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package render implements the render thread driver: it owns the graph and
// the frame counter, drains the control queue once per quantum, advances
// time, invokes the graph, and writes interleaved samples to the output
// slice. It never panics across a device callback: a processor panic is
// recovered and the remainder of the block is filled with silence.
package render

import (
	"sync/atomic"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/control"
	"github.com/intuitionamiga/audiograph/graph"
	"github.com/intuitionamiga/audiograph/internal/telemetry"
	"github.com/intuitionamiga/audiograph/param"
)

// Thread is the single real-time consumer of the control queue. Everything
// it touches (the graph, node records, processor state, audio buffers) is
// exclusively owned by it; no lock is ever taken on this path.
type Thread struct {
	graph        *graph.Graph
	receiver     *control.Receiver
	sampleRate   uint32
	channels     int
	framesPlayed atomic.Uint64
	faults       *telemetry.FaultCounter

	params map[uint64]*param.Param
}

func New(g *graph.Graph, receiver *control.Receiver, sampleRate uint32, channels int, faults *telemetry.FaultCounter) *Thread {
	return &Thread{
		graph:      g,
		receiver:   receiver,
		sampleRate: sampleRate,
		channels:   channels,
		faults:     faults,
		params:     make(map[uint64]*param.Param),
	}
}

// FramesPlayed returns the atomic frame counter, the basis for the control
// side's current_time.
func (t *Thread) FramesPlayed() uint64 {
	return t.framesPlayed.Load()
}

// Faults exposes the render-side fault counter so control-side callers can
// drain and log accumulated faults between callback batches.
func (t *Thread) Faults() *telemetry.FaultCounter {
	return t.faults
}

// handleControlMessages drains the queue into graph mutations. Unknown node
// ids are simply absorbed by Graph's own "ignore unknown" behavior. Param
// processors are recognized here and entered into the routing table, so the
// table is only ever touched by the render thread.
func (t *Thread) handleControlMessages() {
	t.receiver.Drain(func(m control.Message) {
		switch m.Kind {
		case control.RegisterNode:
			t.graph.AddNode(m.NodeID, m.Processor, m.Inputs, m.Outputs, m.ChannelConfig)
			if p, ok := m.Processor.(*param.Param); ok {
				t.params[m.NodeID] = p
			}
		case control.ConnectNode:
			t.graph.AddEdge(m.From, m.OutputPort, m.To, m.InputPort)
		case control.DisconnectNode:
			t.graph.RemoveEdge(m.From, m.To)
		case control.DisconnectAll:
			t.graph.RemoveEdgesFrom(m.From)
		case control.FreeWhenFinished:
			t.graph.MarkFreeWhenFinished(m.FreeID)
		case control.AudioParamEvent:
			if p, ok := t.params[m.ParamTarget]; ok {
				p.Enqueue(m.ParamEvent)
			}
		}
	})
}

// Render fills data (interleaved, t.channels wide) with one or more quanta
// of audio. len(data) must be a multiple of channels * graph.BlockSize().
func (t *Thread) Render(data []float32) {
	frames := len(data) / t.channels
	q := graph.BlockSize()

	for offset := 0; offset < frames; offset += q {
		n := q
		if offset+n > frames {
			n = frames - offset
		}
		t.renderOneQuantum(data[offset*t.channels : (offset+n)*t.channels], n)
	}
}

func (t *Thread) renderOneQuantum(out []float32, frames int) {
	defer func() {
		if r := recover(); r != nil {
			t.faults.Add()
			for i := range out {
				out[i] = 0
			}
		}
	}()

	t.handleControlMessages()

	timestamp := float64(t.framesPlayed.Load()) / float64(t.sampleRate)
	t.framesPlayed.Add(uint64(frames))

	rendered := t.graph.Render(timestamp, t.sampleRate)
	t.graph.Sweep()

	for ch := 0; ch < t.channels; ch++ {
		cd, ok := rendered.ChannelDataAt(ch)
		var src []float32
		if ok {
			src = cd.AsSlice()
		}
		for i := 0; i < frames; i++ {
			var v float32
			if i < len(src) {
				v = src[i]
			}
			out[i*t.channels+ch] = v
		}
	}
}

// RenderOffline drives Render synchronously until exactly frameCount
// samples have been produced, trimming the trailing partial quantum. It is
// the same machinery as the live callback, just invoked on the calling
// goroutine instead of a device thread.
func RenderOffline(t *Thread, frameCount int) audiobuffer.AudioBuffer {
	q := graph.BlockSize()
	totalQuanta := (frameCount + q - 1) / q
	buf := make([]float32, totalQuanta*q*t.channels)
	t.Render(buf)

	chs := make([][]float32, t.channels)
	for ch := 0; ch < t.channels; ch++ {
		chs[ch] = make([]float32, totalQuanta*q)
		for i := 0; i < totalQuanta*q; i++ {
			chs[ch][i] = buf[i*t.channels+ch]
		}
	}
	out, _ := audiobuffer.FromChannels(chs, t.sampleRate)
	out.SplitOff(frameCount)
	return out
}
