// mediasource.go - Media stream source node
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
	"github.com/intuitionamiga/audiograph/graph"
	"github.com/intuitionamiga/audiograph/proc"
	"github.com/intuitionamiga/audiograph/scheduler"
)

// MediaSource adapts a lazy audiobuffer.Source (e.g. a WAV decoder) into
// the graph: the source's arbitrary chunk sizes are resampled and re-chunked
// to the quantum size by an audiobuffer.Resampler, pulled one chunk per
// quantum while the scheduler says the node is active.
type MediaSource struct {
	Node       *audioctx.Node
	Controller *scheduler.Controller
}

func NewMediaSource(ctx *audioctx.Context, src audiobuffer.Source) *MediaSource {
	ctrl := scheduler.NewController()
	rs := audiobuffer.NewResampler(src, ctx.SampleRate(), graph.BlockSize())
	n := ctx.Register(0, 1, channelconfig.Options{
		Count:          2,
		Mode:           channelconfig.Max,
		Interpretation: channelconfig.Speakers,
	}, func(id uint64) proc.Processor {
		return &mediaSourceProcessor{rs: rs, ctrl: ctrl}
	})
	return &MediaSource{Node: n, Controller: ctrl}
}

// Start schedules playback to begin at time t.
func (m *MediaSource) Start(t float64) { m.Controller.Scheduler.StartAt(t) }

// Stop schedules playback to end at time t.
func (m *MediaSource) Stop(t float64) { m.Controller.Scheduler.StopAt(t) }

type mediaSourceProcessor struct {
	rs   *audiobuffer.Resampler
	ctrl *scheduler.Controller
	done bool
}

func (m *mediaSourceProcessor) TailTime() bool { return !m.done }

func (m *mediaSourceProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(outputs) == 0 {
		return
	}
	n := outputs[0].Length()

	if m.done || !m.ctrl.Scheduler.IsActive(timestamp) {
		outputs[0].Reset(1, n, sampleRate)
		return
	}

	// The decode/re-chunk path allocates by nature; that cost lives with
	// the media source alone, not the mixing graph around it.
	chunk, ok := m.rs.Next()
	if !ok {
		m.done = true
		outputs[0].Reset(1, n, sampleRate)
		return
	}
	outputs[0] = chunk
}
