// resampler.go - Media source re-chunking resampler
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package audiobuffer

import (
	"errors"
	"io"

	"github.com/intuitionamiga/audiograph/errs"
)

// Source is a lazy, possibly-infinite sequence of audio chunks, matching the
// media source interface the render path consumes. io.EOF ends the source
// normally; BufferDepletedError is transient (the resampler pads the current
// chunk with silence and retries on the next pull); any other error
// terminates the source and is retained for inspection via Err.
type Source interface {
	Next() (AudioBuffer, error)
}

// Resampler re-chunks an upstream Source of arbitrary chunk sizes into fixed
// chunkLen buffers at sampleRate: resample each incoming buffer, accumulate a
// running internal buffer, pad with silence on underflow, stash the remainder
// on overflow for the next call.
type Resampler struct {
	sampleRate uint32
	chunkLen   int
	input      Source
	buffered   *AudioBuffer
	done       bool
	err        error
}

func NewResampler(input Source, sampleRate uint32, chunkLen int) *Resampler {
	return &Resampler{sampleRate: sampleRate, chunkLen: chunkLen, input: input}
}

// Err reports the error that terminated the source, or nil if the source is
// still live or ended with a plain io.EOF.
func (r *Resampler) Err() error {
	return r.err
}

// Next returns the next chunkLen-sample buffer, or false once the upstream
// source is exhausted and no samples remain buffered.
func (r *Resampler) Next() (AudioBuffer, bool) {
	depleted := false
	for !r.done && !depleted && (r.buffered == nil || r.buffered.Length() < r.chunkLen) {
		next, err := r.input.Next()
		if err != nil {
			var dep *errs.BufferDepletedError
			switch {
			case errors.As(err, &dep):
				// Transient underflow: silence for the shortfall this
				// pull, retry the source on the next one.
				depleted = true
			case errors.Is(err, io.EOF):
				r.done = true
			default:
				r.done = true
				r.err = &errs.StreamError{Cause: err}
			}
			continue
		}
		resampled := next.Resample(r.sampleRate)
		if r.buffered == nil {
			b := resampled.Clone()
			r.buffered = &b
		} else {
			_ = r.buffered.Extend(resampled)
		}
	}

	if r.buffered == nil {
		if r.done {
			return AudioBuffer{}, false
		}
		return Silent(1, r.chunkLen, r.sampleRate), true
	}

	if r.buffered.Length() < r.chunkLen {
		if r.buffered.Length() == 0 && r.done {
			return AudioBuffer{}, false
		}
		pad := Silent(r.buffered.NumberOfChannels(), r.chunkLen-r.buffered.Length(), r.sampleRate)
		_ = r.buffered.Extend(pad)
	}

	remainder := r.buffered.SplitOff(r.chunkLen)
	out := *r.buffered
	r.buffered = &remainder
	return out, true
}
