// resampler_test.go - Re-chunking resampler tests
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package audiobuffer

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/audiograph/errs"
)

// sliceSource yields a fixed sequence of results, then io.EOF.
type sliceSource struct {
	results []func() (AudioBuffer, error)
}

func (s *sliceSource) Next() (AudioBuffer, error) {
	if len(s.results) == 0 {
		return AudioBuffer{}, io.EOF
	}
	next := s.results[0]
	s.results = s.results[1:]
	return next()
}

func buffers(bufs ...AudioBuffer) *sliceSource {
	s := &sliceSource{}
	for _, b := range bufs {
		b := b
		s.results = append(s.results, func() (AudioBuffer, error) { return b, nil })
	}
	return s
}

func oneToFive(t *testing.T) AudioBuffer {
	t.Helper()
	b, err := FromChannels([][]float32{{1, 2, 3, 4, 5}}, 44100)
	require.NoError(t, err)
	return b
}

func TestResamplerConcat(t *testing.T) {
	in := oneToFive(t)
	r := NewResampler(buffers(in, in, in), 44100, 10)

	next, ok := r.Next()
	require.True(t, ok)
	require.Equal(t, 10, next.Length())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 1, 2, 3, 4, 5}, channelSlice(t, next, 0))

	next, ok = r.Next()
	require.True(t, ok)
	require.Equal(t, 10, next.Length())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 0, 0, 0, 0, 0}, channelSlice(t, next, 0))

	_, ok = r.Next()
	assert.False(t, ok)
	assert.NoError(t, r.Err())
}

func TestResamplerSplit(t *testing.T) {
	b, err := FromChannels([][]float32{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}, 44100)
	require.NoError(t, err)
	r := NewResampler(buffers(b), 44100, 5)

	next, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, channelSlice(t, next, 0))

	next, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{6, 7, 8, 9, 10}, channelSlice(t, next, 0))

	_, ok = r.Next()
	assert.False(t, ok)
}

func TestResamplerResamplesInput(t *testing.T) {
	b, err := FromChannels([][]float32{{1, 2, 3, 4, 5}}, 100)
	require.NoError(t, err)
	r := NewResampler(buffers(b), 200, 10)

	next, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, channelSlice(t, next, 0))
}

func TestResamplerDepletedIsTransient(t *testing.T) {
	in := oneToFive(t)
	src := &sliceSource{}
	src.results = append(src.results,
		func() (AudioBuffer, error) { return in, nil },
		func() (AudioBuffer, error) { return AudioBuffer{}, &errs.BufferDepletedError{} },
		func() (AudioBuffer, error) { return in, nil },
	)
	r := NewResampler(src, 44100, 10)

	// The depleted pull pads with silence rather than ending the source.
	next, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 0, 0, 0, 0, 0}, channelSlice(t, next, 0))

	next, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 0, 0, 0, 0, 0}, channelSlice(t, next, 0))

	_, ok = r.Next()
	assert.False(t, ok)
	assert.NoError(t, r.Err())
}

func TestResamplerFatalErrorTerminates(t *testing.T) {
	src := &sliceSource{}
	src.results = append(src.results,
		func() (AudioBuffer, error) { return AudioBuffer{}, io.ErrUnexpectedEOF },
	)
	r := NewResampler(src, 44100, 10)

	_, ok := r.Next()
	assert.False(t, ok)
	require.Error(t, r.Err())
	var stream *errs.StreamError
	assert.ErrorAs(t, r.Err(), &stream)
}
