// sink.go - Device sink contract
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package device provides the concrete device sink and media source
// adapters that satisfy the engine's external interfaces (spec §6): a live
// sink backed by ebitengine/oto, a headless null sink for tests and offline
// rendering, and a WAV-file media source.
package device

// Sink is the abstract pull-callback contract the render thread drives: a
// sample rate, a channel count, and play/pause control that is opaque to
// the core. Concrete sinks implement io.Reader so they can be handed
// directly to an oto.Player (or, for the headless sink, nothing at all).
type Sink interface {
	SampleRate() int
	Channels() int
	Start()
	Stop()
	Close()
}
