// wav_source.go - WAV file media source
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package device

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/errs"
)

// WavSource adapts a WAV file into the engine's audiobuffer.Source
// contract: a lazy sequence of AudioBuffer chunks. It decodes native
// integer PCM and converts it to float32 itself, dividing each sample by
// 2^(bitDepth-1), the same decode-then-convert idiom the retrieved
// go-audio/mewkiz-flac tooling uses.
type WavSource struct {
	decoder   *wav.Decoder
	chunkSize int
	format    *audio.Format
}

func NewWavSource(r io.ReadSeeker, chunkSize int) (*WavSource, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, &errs.StreamError{Cause: io.ErrUnexpectedEOF}
	}
	dec.ReadInfo()
	return &WavSource{decoder: dec, chunkSize: chunkSize, format: dec.Format()}, nil
}

// Next returns the next chunk of decoded audio, io.EOF once the file is
// exhausted, or StreamError on a decode failure. Integer PCM is normalized
// to [-1, 1] by the source bit depth.
func (w *WavSource) Next() (audiobuffer.AudioBuffer, error) {
	buf := &audio.IntBuffer{
		Format: w.format,
		Data:   make([]int, w.chunkSize*w.format.NumChannels),
	}
	n, err := w.decoder.PCMBuffer(buf)
	if err != nil {
		return audiobuffer.AudioBuffer{}, &errs.StreamError{Cause: err}
	}
	if n == 0 {
		return audiobuffer.AudioBuffer{}, io.EOF
	}

	scale := float32(int(1) << (w.decoder.BitDepth - 1))
	chans := w.format.NumChannels
	frames := n / chans
	chs := make([][]float32, chans)
	for c := 0; c < chans; c++ {
		chs[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < chans; c++ {
			chs[c][i] = float32(buf.Data[i*chans+c]) / scale
		}
	}
	return audiobuffer.FromChannels(chs, uint32(w.format.SampleRate))
}
