// node.go - Shared node kind helpers
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package node provides the concrete node kinds: a control-side handle per
// kind (constructor plus AudioParam fields) and the render-side processor
// behind it. The DSP here is intentionally simple; the interesting part is
// the wiring into the control/render split — params arrive via MAX_PORT
// edges, scheduling via lock-free scheduler state, and every processor is
// driven by the graph in topological order.
package node

// paramAt returns the automation value for sample i of the current quantum,
// falling back to def when the param is unattached. A k-rate param carries a
// single value that holds for the whole quantum.
func paramAt(vals []float32, i int, def float64) float64 {
	switch {
	case len(vals) == 0:
		return def
	case i < len(vals):
		return float64(vals[i])
	default:
		return float64(vals[len(vals)-1])
	}
}
