//go:build !headless

// oto_sink.go - Oto-backed live device sink
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package device

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"

	"github.com/intuitionamiga/audiograph/render"
)

// OtoSink drives an *oto.Context from the render thread's output. The
// render thread pointer is stored atomically so Read, invoked on oto's own
// audio callback goroutine, never takes a lock on the hot path; mutex is
// reserved for setup/control operations only, the same split the teacher's
// OtoPlayer uses.
type OtoSink struct {
	ctx        *oto.Context
	player     *oto.Player
	thread     atomic.Pointer[render.Thread]
	sampleBuf  []float32
	sampleRate int
	channels   int
	started    bool
	mutex      sync.Mutex
}

func NewOtoSink(sampleRate, channels int, t *render.Thread) (*OtoSink, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoSink{ctx: ctx, sampleRate: sampleRate, channels: channels, sampleBuf: make([]float32, 4096)}
	s.thread.Store(t)
	s.player = ctx.NewPlayer(s)
	return s, nil
}

func (s *OtoSink) SampleRate() int { return s.sampleRate }
func (s *OtoSink) Channels() int   { return s.channels }

// Read implements io.Reader for the oto.Player: it asks the render thread
// for exactly len(p)/4 float32 samples and copies them out as little-endian
// bytes.
func (s *OtoSink) Read(p []byte) (int, error) {
	t := s.thread.Load()
	if t == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 4
	if numSamples == 0 {
		return 0, nil
	}
	if len(s.sampleBuf) < numSamples {
		s.sampleBuf = make([]float32, numSamples)
	}
	samples := s.sampleBuf[:numSamples]
	t.Render(samples)

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return len(p), nil
}

func (s *OtoSink) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.started {
		s.player.Play()
		s.started = true
	}
}

func (s *OtoSink) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.started {
		s.player.Pause()
		s.started = false
	}
}

func (s *OtoSink) Close() {
	s.Stop()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}
}
