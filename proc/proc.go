// proc.go - Render-side processor contract
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package proc defines the sealed processor contract invoked by the render
// thread, and the parameter-lookup view a processor uses to read its MAX_PORT
// inputs without going through the ordinary input mixer.
package proc

import "github.com/intuitionamiga/audiograph/audiobuffer"

// MaxPort is the reserved input port number that denotes a parameter input.
// The graph's mixer skips edges targeting it; processors read the
// corresponding value through ParamValues instead.
const MaxPort = ^uint32(0)

// ParamValues lets a processor fetch the evaluated output of whichever
// AudioParam node feeds one of its MAX_PORT edges, addressed by that param
// node's id. The param nodes of this module return a quantum-length slice at
// either rate (a k-rate param repeats its one value); callers also tolerate a
// length-1 slice.
type ParamValues interface {
	Get(nodeID uint64) []float32
}

// Processor is the render-side capability every node kind and every
// AudioParam implements. It is invoked at most once per quantum, in
// topological order, and must not allocate or block.
type Processor interface {
	Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params ParamValues, timestamp float64, sampleRate uint32)
	TailTime() bool
}
