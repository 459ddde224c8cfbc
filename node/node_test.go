// node_test.go - Node processor tests
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package node

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/graph"
	"github.com/intuitionamiga/audiograph/render"
	"github.com/intuitionamiga/audiograph/scheduler"
)

const testRate uint32 = 44100

// fakeParams satisfies proc.ParamValues for driving processors directly.
type fakeParams map[uint64][]float32

func (f fakeParams) Get(id uint64) []float32 { return f[id] }

func outputsOf(n, channels int) []audiobuffer.AudioBuffer {
	return []audiobuffer.AudioBuffer{audiobuffer.Silent(channels, n, testRate)}
}

func channelSlice(t *testing.T, b audiobuffer.AudioBuffer, i int) []float32 {
	t.Helper()
	cd, ok := b.ChannelDataAt(i)
	require.True(t, ok)
	return cd.AsSlice()
}

func TestOscillatorSilentUntilStarted(t *testing.T) {
	p := &oscillatorProcessor{wave: Sine, freqID: 1, sched: scheduler.New()}
	out := outputsOf(128, 1)
	p.Process(nil, out, fakeParams{}, 0, testRate)
	for _, v := range channelSlice(t, out[0], 0) {
		assert.Zero(t, v)
	}
}

func TestOscillatorSineBounds(t *testing.T) {
	sched := scheduler.New()
	sched.StartAt(0)
	p := &oscillatorProcessor{wave: Sine, freqID: 1, sched: sched}

	out := outputsOf(512, 1)
	p.Process(nil, out, fakeParams{1: {440}}, 0, testRate)

	var energy float64
	for _, v := range channelSlice(t, out[0], 0) {
		assert.LessOrEqual(t, float64(v), 1.001)
		assert.GreaterOrEqual(t, float64(v), -1.001)
		energy += float64(v) * float64(v)
	}
	assert.Greater(t, energy, 1.0)
}

func TestOscillatorSquareAlternates(t *testing.T) {
	sched := scheduler.New()
	sched.StartAt(0)
	p := &oscillatorProcessor{wave: Square, freqID: 1, sched: sched}

	// One full period spans exactly 100 samples at 441 Hz.
	out := outputsOf(128, 1)
	p.Process(nil, out, fakeParams{1: {441}}, 0, testRate)

	samples := channelSlice(t, out[0], 0)
	seenHigh, seenLow := false, false
	for _, v := range samples {
		switch v {
		case 1:
			seenHigh = true
		case -1:
			seenLow = true
		}
	}
	assert.True(t, seenHigh)
	assert.True(t, seenLow)
}

func TestOscillatorFrequencyPeriod(t *testing.T) {
	sched := scheduler.New()
	sched.StartAt(0)
	p := &oscillatorProcessor{wave: Sawtooth, freqID: 1, sched: sched}

	// 441 Hz at 44100 Hz puts the phase wrap every 100 samples.
	out := outputsOf(350, 1)
	p.Process(nil, out, fakeParams{1: {441}}, 0, testRate)
	samples := channelSlice(t, out[0], 0)

	wraps := 0
	for i := 1; i < len(samples); i++ {
		if samples[i] < samples[i-1] {
			wraps++
		}
	}
	assert.Equal(t, 3, wraps)
}

func TestGainScalesInput(t *testing.T) {
	p := &gainProcessor{gainID: 7}
	in, err := audiobuffer.FromChannels([][]float32{{1, 1, 1, 1}, {2, 2, 2, 2}}, testRate)
	require.NoError(t, err)

	out := outputsOf(4, 2)
	p.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{7: {0.5, 0.5, 0.5, 0.5}}, 0, testRate)

	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5}, channelSlice(t, out[0], 0))
	assert.Equal(t, []float32{1, 1, 1, 1}, channelSlice(t, out[0], 1))
}

func TestGainDefaultsToUnity(t *testing.T) {
	p := &gainProcessor{gainID: 7}
	in, err := audiobuffer.FromChannels([][]float32{{0.25, -0.25}}, testRate)
	require.NoError(t, err)

	out := outputsOf(2, 1)
	p.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{}, 0, testRate)
	assert.Equal(t, []float32{0.25, -0.25}, channelSlice(t, out[0], 0))
}

func TestDelayShiftsSignal(t *testing.T) {
	p := &delayProcessor{delayID: 3, maxFrames: 100}
	in, err := audiobuffer.FromChannels([][]float32{{1, 2, 3, 4, 5, 6, 7, 8}}, testRate)
	require.NoError(t, err)

	// Delay of 4 samples; the param value is seconds.
	delaySecs := float32(4) / float32(testRate)
	out := outputsOf(8, 1)
	p.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{3: {delaySecs}}, 0, testRate)

	assert.Equal(t, []float32{0, 0, 0, 0, 1, 2, 3, 4}, channelSlice(t, out[0], 0))
}

func TestDelayZeroPassesThrough(t *testing.T) {
	p := &delayProcessor{delayID: 3, maxFrames: 100}
	in, err := audiobuffer.FromChannels([][]float32{{1, 2, 3}}, testRate)
	require.NoError(t, err)

	out := outputsOf(3, 1)
	p.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{}, 0, testRate)
	assert.Equal(t, []float32{1, 2, 3}, channelSlice(t, out[0], 0))
}

func TestDelayTailTime(t *testing.T) {
	p := &delayProcessor{delayID: 3, maxFrames: 8}
	loud, err := audiobuffer.FromChannels([][]float32{{1, 1, 1, 1}}, testRate)
	require.NoError(t, err)
	quiet := audiobuffer.Silent(1, 4, testRate)

	p.Process([]audiobuffer.AudioBuffer{loud}, outputsOf(4, 1), fakeParams{}, 0, testRate)
	assert.True(t, p.TailTime())

	p.Process([]audiobuffer.AudioBuffer{quiet}, outputsOf(4, 1), fakeParams{}, 0, testRate)
	assert.True(t, p.TailTime(), "ring may still hold energy")

	p.Process([]audiobuffer.AudioBuffer{quiet}, outputsOf(4, 1), fakeParams{}, 0, testRate)
	assert.False(t, p.TailTime(), "silence has flushed the whole ring")
}

func TestSplitterRoutesOneChannelPerOutput(t *testing.T) {
	p := splitterProcessor{}
	in, err := audiobuffer.FromChannels([][]float32{{1, 1}, {2, 2}}, testRate)
	require.NoError(t, err)

	outputs := []audiobuffer.AudioBuffer{
		audiobuffer.Silent(1, 2, testRate),
		audiobuffer.Silent(1, 2, testRate),
		audiobuffer.Silent(1, 2, testRate),
	}
	p.Process([]audiobuffer.AudioBuffer{in}, outputs, fakeParams{}, 0, testRate)

	assert.Equal(t, []float32{1, 1}, channelSlice(t, outputs[0], 0))
	assert.Equal(t, []float32{2, 2}, channelSlice(t, outputs[1], 0))
	assert.Equal(t, []float32{0, 0}, channelSlice(t, outputs[2], 0), "missing source channel is silence")
}

func TestMergerConcatenatesFirstChannels(t *testing.T) {
	p := mergerProcessor{}
	a, err := audiobuffer.FromChannels([][]float32{{1, 1}}, testRate)
	require.NoError(t, err)
	b, err := audiobuffer.FromChannels([][]float32{{2, 2}}, testRate)
	require.NoError(t, err)

	out := outputsOf(2, 1)
	p.Process([]audiobuffer.AudioBuffer{a, b}, out, fakeParams{}, 0, testRate)

	require.Equal(t, 2, out[0].NumberOfChannels())
	assert.Equal(t, []float32{1, 1}, channelSlice(t, out[0], 0))
	assert.Equal(t, []float32{2, 2}, channelSlice(t, out[0], 1))
}

func TestBufferSourcePlaysThenFinishes(t *testing.T) {
	buf, err := audiobuffer.FromChannels([][]float32{{1, 2, 3, 4, 5}}, testRate)
	require.NoError(t, err)
	ctrl := scheduler.NewController()
	ctrl.Scheduler.StartAt(0)
	p := &bufferSourceProcessor{buf: buf, ctrl: ctrl}

	out := outputsOf(8, 1)
	p.Process(nil, out, fakeParams{}, 0, testRate)

	assert.Equal(t, []float32{1, 2, 3, 4, 5, 0, 0, 0}, channelSlice(t, out[0], 0))
	assert.False(t, p.TailTime())
}

func TestBufferSourceLoops(t *testing.T) {
	buf, err := audiobuffer.FromChannels([][]float32{{1, 2, 3}}, testRate)
	require.NoError(t, err)
	ctrl := scheduler.NewController()
	ctrl.Scheduler.StartAt(0)
	ctrl.SetLoop(true)
	p := &bufferSourceProcessor{buf: buf, ctrl: ctrl}

	out := outputsOf(8, 1)
	p.Process(nil, out, fakeParams{}, 0, testRate)

	assert.Equal(t, []float32{1, 2, 3, 1, 2, 3, 1, 2}, channelSlice(t, out[0], 0))
	assert.True(t, p.TailTime())
}

func TestBufferSourceSeek(t *testing.T) {
	buf, err := audiobuffer.FromChannels([][]float32{{1, 2, 3, 4, 5, 6, 7, 8}}, testRate)
	require.NoError(t, err)
	ctrl := scheduler.NewController()
	ctrl.Scheduler.StartAt(0)
	p := &bufferSourceProcessor{buf: buf, ctrl: ctrl}

	ctrl.Seek(4.0 / float64(testRate))
	out := outputsOf(4, 1)
	p.Process(nil, out, fakeParams{}, 0, testRate)
	assert.Equal(t, []float32{5, 6, 7, 8}, channelSlice(t, out[0], 0))
}

func TestPannerCenterEqualPower(t *testing.T) {
	p := &pannerProcessor{panID: 9}
	in, err := audiobuffer.FromChannels([][]float32{{1, 1, 1, 1}}, testRate)
	require.NoError(t, err)

	out := outputsOf(4, 2)
	p.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{}, 0, testRate)

	g := float32(math.Sqrt(2) / 2)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, g, channelSlice(t, out[0], 0)[i], 1e-4)
		assert.InDelta(t, g, channelSlice(t, out[0], 1)[i], 1e-4)
	}
}

func TestPannerHardRight(t *testing.T) {
	p := &pannerProcessor{panID: 9}
	in, err := audiobuffer.FromChannels([][]float32{{1, 1}}, testRate)
	require.NoError(t, err)

	out := outputsOf(2, 2)
	p.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{9: {1, 1}}, 0, testRate)

	assert.InDelta(t, 0, channelSlice(t, out[0], 0)[0], 1e-6)
	assert.InDelta(t, 1, channelSlice(t, out[0], 1)[0], 1e-6)
}

func TestPannerStereoKeepsOppositeChannel(t *testing.T) {
	p := &pannerProcessor{panID: 9}
	in, err := audiobuffer.FromChannels([][]float32{{0.5, 0.5}, {0.25, 0.25}}, testRate)
	require.NoError(t, err)

	// Full left: all of the right channel folds into the left.
	out := outputsOf(2, 2)
	p.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{9: {-1, -1}}, 0, testRate)
	assert.InDelta(t, 0.75, channelSlice(t, out[0], 0)[0], 1e-4)
	assert.InDelta(t, 0, channelSlice(t, out[0], 1)[0], 1e-4)
}

func TestAnalyserCapturesAndPassesThrough(t *testing.T) {
	a := &analyserProcessor{ring: make([]float32, 16)}
	in, err := audiobuffer.FromChannels([][]float32{{1, 2, 3, 4}, {3, 4, 5, 6}}, testRate)
	require.NoError(t, err)

	out := outputsOf(4, 2)
	a.Process([]audiobuffer.AudioBuffer{in}, out, fakeParams{}, 0, testRate)

	assert.Equal(t, []float32{1, 2, 3, 4}, channelSlice(t, out[0], 0), "passthrough")

	handle := &Analyser{p: a}
	dst := make([]float32, 4)
	require.Equal(t, 4, handle.TimeDomainData(dst))
	assert.Equal(t, []float32{2, 3, 4, 5}, dst, "mono mixdown of the captured quantum")
}

func TestMediaSourcePullsChunks(t *testing.T) {
	chunk, err := audiobuffer.FromChannels([][]float32{{1, 2, 3, 4}}, testRate)
	require.NoError(t, err)
	rs := audiobuffer.NewResampler(&stubSource{bufs: []audiobuffer.AudioBuffer{chunk}}, testRate, 4)

	ctrl := scheduler.NewController()
	ctrl.Scheduler.StartAt(0)
	p := &mediaSourceProcessor{rs: rs, ctrl: ctrl}

	out := outputsOf(4, 1)
	p.Process(nil, out, fakeParams{}, 0, testRate)
	assert.Equal(t, []float32{1, 2, 3, 4}, channelSlice(t, out[0], 0))
	assert.True(t, p.TailTime())

	p.Process(nil, out, fakeParams{}, float64(4)/float64(testRate), testRate)
	assert.False(t, p.TailTime())
	for _, v := range channelSlice(t, out[0], 0) {
		assert.Zero(t, v)
	}
}

func TestMediaSourceInactiveEmitsSilenceWithoutConsuming(t *testing.T) {
	chunk, err := audiobuffer.FromChannels([][]float32{{1, 2, 3, 4}}, testRate)
	require.NoError(t, err)
	rs := audiobuffer.NewResampler(&stubSource{bufs: []audiobuffer.AudioBuffer{chunk}}, testRate, 4)

	ctrl := scheduler.NewController()
	ctrl.Scheduler.StartAt(1000) // far future
	p := &mediaSourceProcessor{rs: rs, ctrl: ctrl}

	out := outputsOf(4, 1)
	p.Process(nil, out, fakeParams{}, 0, testRate)
	for _, v := range channelSlice(t, out[0], 0) {
		assert.Zero(t, v)
	}
	assert.True(t, p.TailTime())
}

type stubSource struct {
	bufs []audiobuffer.AudioBuffer
}

func (s *stubSource) Next() (audiobuffer.AudioBuffer, error) {
	if len(s.bufs) == 0 {
		return audiobuffer.AudioBuffer{}, io.EOF
	}
	next := s.bufs[0]
	s.bufs = s.bufs[1:]
	return next, nil
}

func TestOscillatorThroughContext(t *testing.T) {
	ctx, thread := audioctx.New(audioctx.WithDestinationChannels(1))

	osc := NewOscillator(ctx, Sine)
	osc.Frequency.SetValueAtTime(440, 0)
	osc.Start(0)
	require.NoError(t, ctx.Connect(osc.Node, 0, ctx.Destination(), 0))

	out := render.RenderOffline(thread, 4*graph.BlockSize())
	var energy float64
	for _, v := range channelSlice(t, out, 0) {
		energy += float64(v) * float64(v)
	}
	assert.Greater(t, energy, 1.0)
}

func TestGainThroughContextSilencesWhenZero(t *testing.T) {
	ctx, thread := audioctx.New(audioctx.WithDestinationChannels(1))

	osc := NewOscillator(ctx, Square)
	osc.Start(0)
	g := NewGain(ctx)
	g.Gain.SetValueAtTime(0, 0)

	require.NoError(t, ctx.Connect(osc.Node, 0, g.Node, 0))
	require.NoError(t, ctx.Connect(g.Node, 0, ctx.Destination(), 0))

	out := render.RenderOffline(thread, 2*graph.BlockSize())
	for _, v := range channelSlice(t, out, 0) {
		assert.Zero(t, v)
	}
}
