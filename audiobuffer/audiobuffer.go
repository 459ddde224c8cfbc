// audiobuffer.go - Multi-channel PCM buffer with copy-on-write channels
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package audiobuffer implements the engine's immutable-by-default,
// copy-on-write multi-channel PCM block: allocation, mixing, channel-count
// coercion, splitting, concatenation, and sample-rate conversion.
package audiobuffer

import (
	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/errs"
)

// AudioBuffer is an ordered sequence of equal-length channels plus a sample
// rate. Every channel has the same length; the sample rate is positive;
// NumberOfChannels is always >= 0.
type AudioBuffer struct {
	channels   []ChannelData
	sampleRate uint32
}

// Silent allocates a buffer of the given channel count, each channel filled
// with length zero samples at the given sample rate.
func Silent(channels, length int, rate uint32) AudioBuffer {
	chs := make([]ChannelData, channels)
	for i := range chs {
		chs[i] = Silence(length)
	}
	return AudioBuffer{channels: chs, sampleRate: rate}
}

// FromChannels builds a buffer from the given channel vectors. All must have
// equal length, or IncompatibleBuffersError is returned.
func FromChannels(data [][]float32, rate uint32) (AudioBuffer, error) {
	chs := make([]ChannelData, len(data))
	if len(data) == 0 {
		return AudioBuffer{channels: chs, sampleRate: rate}, nil
	}
	n := len(data[0])
	for i, d := range data {
		if len(d) != n {
			return AudioBuffer{}, &errs.IncompatibleBuffersError{Reason: "unequal channel lengths"}
		}
		chs[i] = NewChannelData(d)
	}
	return AudioBuffer{channels: chs, sampleRate: rate}, nil
}

// NumberOfChannels returns the channel count.
func (b AudioBuffer) NumberOfChannels() int {
	return len(b.channels)
}

// SampleRate returns the buffer's sample rate.
func (b AudioBuffer) SampleRate() uint32 {
	return b.sampleRate
}

// Length returns the number of samples per channel, or 0 for a channel-less
// buffer.
func (b AudioBuffer) Length() int {
	if len(b.channels) == 0 {
		return 0
	}
	return b.channels[0].Len()
}

// ChannelDataAt returns a read-only view of channel i, or false if out of
// range.
func (b AudioBuffer) ChannelDataAt(i int) (ChannelData, bool) {
	if i < 0 || i >= len(b.channels) {
		return ChannelData{}, false
	}
	return b.channels[i], true
}

// ChannelMut returns a writable view of channel i, triggering copy-on-write
// if the storage is shared. Returns nil if i is out of range.
func (b *AudioBuffer) ChannelMut(i int) []float32 {
	if i < 0 || i >= len(b.channels) {
		return nil
	}
	return b.channels[i].AsMutSlice()
}

// Clone returns a value that shares channel storage with b (cheap, O(channels)).
func (b AudioBuffer) Clone() AudioBuffer {
	chs := make([]ChannelData, len(b.channels))
	for i, c := range b.channels {
		chs[i] = c.Clone()
	}
	return AudioBuffer{channels: chs, sampleRate: b.sampleRate}
}

// Extend appends other's samples onto b in place. Both operands must share
// sample rate and channel count.
func (b *AudioBuffer) Extend(other AudioBuffer) error {
	if b.sampleRate != other.sampleRate || len(b.channels) != len(other.channels) {
		return &errs.IncompatibleBuffersError{Reason: "extend requires equal rate and channel count"}
	}
	for i := range b.channels {
		dst := b.channels[i].AsMutSlice()
		b.channels[i] = NewChannelData(append(dst, other.channels[i].AsSlice()...))
	}
	return nil
}

// Split partitions b into chunks of chunkLen samples each; the last chunk may
// be shorter. Total sample count is preserved.
func (b AudioBuffer) Split(chunkLen int) []AudioBuffer {
	total := b.Length()
	if chunkLen <= 0 || total == 0 {
		return nil
	}
	var out []AudioBuffer
	for offset := 0; offset < total; offset += chunkLen {
		end := offset + chunkLen
		if end > total {
			end = total
		}
		chs := make([]ChannelData, len(b.channels))
		for i, c := range b.channels {
			chs[i] = NewChannelData(append([]float32(nil), c.AsSlice()[offset:end]...))
		}
		out = append(out, AudioBuffer{channels: chs, sampleRate: b.sampleRate})
	}
	return out
}

// SplitOff truncates b to length index in place and returns the remainder as
// a new buffer.
func (b *AudioBuffer) SplitOff(index int) AudioBuffer {
	total := b.Length()
	if index < 0 {
		index = 0
	}
	if index > total {
		index = total
	}
	remChs := make([]ChannelData, len(b.channels))
	headChs := make([]ChannelData, len(b.channels))
	for i, c := range b.channels {
		s := c.AsSlice()
		remChs[i] = NewChannelData(append(make([]float32, 0, total-index), s[index:]...))
		headChs[i] = NewChannelData(append(make([]float32, 0, index), s[:index]...))
	}
	b.channels = headChs
	return AudioBuffer{channels: remChs, sampleRate: b.sampleRate}
}

// Resample produces a nearest-neighbour stretched signal at newRate: each
// input sample i is repeated until the output has floor((i+1) * r) samples,
// for ratio r = newRate/oldRate. Expansion duplicates samples, decimation
// drops them; output length is floor(oldLen * r). This is not band-limited;
// see the open question recorded in DESIGN.md.
func (b AudioBuffer) Resample(newRate uint32) AudioBuffer {
	if b.sampleRate == newRate || b.Length() == 0 {
		out := b.Clone()
		out.sampleRate = newRate
		return out
	}
	oldRate, rate := uint64(b.sampleRate), uint64(newRate)
	newLen := int(uint64(b.Length()) * rate / oldRate)

	chs := make([]ChannelData, len(b.channels))
	for ci, c := range b.channels {
		src := c.AsSlice()
		dst := make([]float32, 0, newLen)
		current := 0
		for i, v := range src {
			target := int(uint64(i+1) * rate / oldRate)
			for current < target {
				dst = append(dst, v)
				current++
			}
		}
		chs[ci] = NewChannelData(dst)
	}
	return AudioBuffer{channels: chs, sampleRate: newRate}
}

// Mix coerces b's channel count to target under the given interpretation,
// mutating b in place.
func (b *AudioBuffer) Mix(target int, interp channelconfig.Interpretation) {
	cur := len(b.channels)
	if cur == target {
		return
	}
	if interp == channelconfig.Speakers {
		if mixed, ok := speakersMix(b.channels, b.Length(), target); ok {
			b.channels = mixed
			return
		}
	}
	// Discrete (or unsupported Speakers pair): truncate or zero-pad.
	length := b.Length()
	chs := make([]ChannelData, target)
	for i := 0; i < target; i++ {
		if i < cur {
			chs[i] = b.channels[i]
		} else {
			chs[i] = Silence(length)
		}
	}
	b.channels = chs
}

// Add returns a new buffer whose channels are the elementwise sum of b and
// other, after the operand with fewer channels is mixed up to the larger
// count under interp.
func (b AudioBuffer) Add(other AudioBuffer, interp channelconfig.Interpretation) AudioBuffer {
	target := len(b.channels)
	if len(other.channels) > target {
		target = len(other.channels)
	}
	a := b.Clone()
	a.Mix(target, interp)
	o := other.Clone()
	o.Mix(target, interp)

	length := a.Length()
	if length < o.Length() {
		length = o.Length()
	}
	chs := make([]ChannelData, target)
	for i := 0; i < target; i++ {
		out := make([]float32, length)
		if i < len(a.channels) {
			copy(out, a.channels[i].AsSlice())
		}
		if i < len(o.channels) {
			os := o.channels[i].AsSlice()
			for s := 0; s < len(os); s++ {
				out[s] += os[s]
			}
		}
		chs[i] = NewChannelData(out)
	}
	rate := b.sampleRate
	if rate == 0 {
		rate = other.sampleRate
	}
	return AudioBuffer{channels: chs, sampleRate: rate}
}
