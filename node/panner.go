// panner.go - Equal-power stereo panner node
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package node

import (
	"math"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/param"
	"github.com/intuitionamiga/audiograph/proc"
)

// StereoPanner positions its input in the stereo field with an equal-power
// pan law. The pan param runs a-rate in [-1, 1], default 0 (center).
type StereoPanner struct {
	Node *audioctx.Node
	Pan  *audioctx.ParamHandle
}

func NewStereoPanner(ctx *audioctx.Context) *StereoPanner {
	p := ctx.NewParam(param.ARate, 0)
	n := ctx.Register(1, 1, channelconfig.Options{
		Count:          2,
		Mode:           channelconfig.ClampedMax,
		Interpretation: channelconfig.Speakers,
	}, func(id uint64) proc.Processor {
		return &pannerProcessor{panID: p.NodeID()}
	})
	p.AttachTo(n)
	return &StereoPanner{Node: n, Pan: p}
}

type pannerProcessor struct {
	panID uint64
}

func (p *pannerProcessor) TailTime() bool { return false }

func (p *pannerProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(inputs) == 0 || len(outputs) == 0 {
		return
	}
	in := inputs[0]
	length := in.Length()
	pan := params.Get(p.panID)

	var left, right []float32
	if cd, ok := in.ChannelDataAt(0); ok {
		left = cd.AsSlice()
	}
	if cd, ok := in.ChannelDataAt(1); ok {
		right = cd.AsSlice()
	}
	stereo := right != nil

	outputs[0].Reset(2, length, sampleRate)
	outL := outputs[0].ChannelMut(0)
	outR := outputs[0].ChannelMut(1)
	for i := 0; i < length; i++ {
		x := paramAt(pan, i, 0)
		if x < -1 {
			x = -1
		} else if x > 1 {
			x = 1
		}

		if !stereo {
			theta := (x + 1) * math.Pi / 4
			v := left[i]
			outL[i] = v * float32(math.Cos(theta))
			outR[i] = v * float32(math.Sin(theta))
			continue
		}

		// Stereo rule: the pan value steers only the channel moving away
		// from its own side, keeping the other untouched.
		var t float64
		if x <= 0 {
			t = x + 1
		} else {
			t = x
		}
		gl := float32(math.Cos(t * math.Pi / 2))
		gr := float32(math.Sin(t * math.Pi / 2))
		l, r := left[i], right[i]
		if x <= 0 {
			outL[i] = l + r*gl
			outR[i] = r * gr
		} else {
			outL[i] = l * gl
			outR[i] = r + l*gr
		}
	}
}
