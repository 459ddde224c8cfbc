// headless_sink.go - Null device sink
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package device

import "github.com/intuitionamiga/audiograph/render"

// NullSink is a no-op device sink for tests and offline rendering: it never
// opens a real audio device and Start/Stop are bookkeeping only. Grounded
// on the teacher's //go:build headless pattern, generalized into an
// ordinary constructor so callers can select it explicitly rather than at
// build time.
type NullSink struct {
	thread     *render.Thread
	sampleRate int
	channels   int
	running    bool
}

func NewNullSink(sampleRate, channels int, t *render.Thread) *NullSink {
	return &NullSink{thread: t, sampleRate: sampleRate, channels: channels}
}

func (s *NullSink) SampleRate() int { return s.sampleRate }
func (s *NullSink) Channels() int   { return s.channels }
func (s *NullSink) Start()          { s.running = true }
func (s *NullSink) Stop()           { s.running = false }
func (s *NullSink) Close()          { s.running = false }

// Pull drives n frames through the render thread directly, the same call a
// real sink's Read would make, for tests that want to inspect output
// without a device.
func (s *NullSink) Pull(n int) []float32 {
	buf := make([]float32, n*s.channels)
	s.thread.Render(buf)
	return buf
}
