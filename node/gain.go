// gain.go - Gain node
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

// Gain multiplies its single input by an a-rate gain param, default 1.
type Gain struct {
	Node *audioctx.Node
	Gain *audioctx.ParamHandle
}

func NewGain(ctx *audioctx.Context) *Gain {
	g := ctx.NewParam(param.ARate, 1)
	n := ctx.Register(1, 1, channelconfig.Options{
		Count:          2,
		Mode:           channelconfig.Max,
		Interpretation: channelconfig.Speakers,
	}, func(id uint64) proc.Processor {
		return &gainProcessor{gainID: g.NodeID()}
	})
	g.AttachTo(n)
	return &Gain{Node: n, Gain: g}
}

type gainProcessor struct {
	gainID uint64
}

func (g *gainProcessor) TailTime() bool { return false }

func (g *gainProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(inputs) == 0 || len(outputs) == 0 {
		return
	}
	in := inputs[0]
	gain := params.Get(g.gainID)

	nch := in.NumberOfChannels()
	outputs[0].Reset(nch, in.Length(), sampleRate)
	for c := 0; c < nch; c++ {
		cd, _ := in.ChannelDataAt(c)
		src := cd.AsSlice()
		dst := outputs[0].ChannelMut(c)
		for i := range src {
			dst[i] = src[i] * float32(paramAt(gain, i, 1))
		}
	}
}
