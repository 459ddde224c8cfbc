// channels.go - Channel splitter and merger nodes
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
)

// ChannelSplitter routes one input channel per output port: output i carries
// input channel i as a mono buffer, or silence if the input has fewer
// channels.
type ChannelSplitter struct {
	Node *audioctx.Node
}

func NewChannelSplitter(ctx *audioctx.Context, outputs int) *ChannelSplitter {
	if outputs < 1 {
		outputs = 1
	}
	n := ctx.Register(1, outputs, channelconfig.Options{
		Count:          outputs,
		Mode:           channelconfig.Explicit,
		Interpretation: channelconfig.Discrete,
	}, func(id uint64) proc.Processor {
		return &splitterProcessor{}
	})
	return &ChannelSplitter{Node: n}
}

type splitterProcessor struct{}

func (splitterProcessor) TailTime() bool { return false }

func (splitterProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(inputs) == 0 {
		return
	}
	in := inputs[0]
	length := in.Length()
	for o := range outputs {
		outputs[o].Reset(1, length, sampleRate)
		if cd, ok := in.ChannelDataAt(o); ok {
			copy(outputs[o].ChannelMut(0), cd.AsSlice())
		}
	}
}

// ChannelMerger concatenates the first channel of each of its N inputs into
// the corresponding channel of its single N-channel output.
type ChannelMerger struct {
	Node *audioctx.Node
}

func NewChannelMerger(ctx *audioctx.Context, inputs int) *ChannelMerger {
	if inputs < 1 {
		inputs = 1
	}
	n := ctx.Register(inputs, 1, channelconfig.Options{
		Count:          1,
		Mode:           channelconfig.Explicit,
		Interpretation: channelconfig.Discrete,
	}, func(id uint64) proc.Processor {
		return &mergerProcessor{}
	})
	return &ChannelMerger{Node: n}
}

type mergerProcessor struct{}

func (mergerProcessor) TailTime() bool { return false }

func (mergerProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(outputs) == 0 {
		return
	}
	length := 0
	for _, in := range inputs {
		if in.Length() > length {
			length = in.Length()
		}
	}
	outputs[0].Reset(len(inputs), length, sampleRate)
	for i, in := range inputs {
		if cd, ok := in.ChannelDataAt(0); ok {
			copy(outputs[0].ChannelMut(i), cd.AsSlice())
		}
	}
}
