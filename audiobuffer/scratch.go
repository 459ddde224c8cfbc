// scratch.go - In-place buffer reuse for the render path
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package audiobuffer

import "github.com/intuitionamiga/audiograph/channelconfig"

// The render thread must not allocate in steady state, so the graph's input
// scratch and every node's output buffer are reshaped and summed in place.
// Reset, Accumulate and Coerce are the in-place counterparts of Silent, Add
// and Mix: samplewise identical, but reusing the receiver's unshared channel
// storage. Channel slots dropped by a shrink stay parked past the slice
// length and are picked up again on the next grow, so a stable graph shape
// settles into zero allocations per quantum.

// Reset reshapes b in place to exactly channels zero-filled channels of the
// given length. Storage is allocated only for shapes b has not held before
// or for channels still shared with another handle.
func (b *AudioBuffer) Reset(channels, length int, rate uint32) {
	b.reslice(channels)
	for i := range b.channels {
		b.channels[i] = resetChannel(b.channels[i], length)
	}
	b.sampleRate = rate
}

// Accumulate sums src into b in place, growing b to the larger operand's
// channel count first. Samplewise it matches Add on an equal-length
// receiver; unlike Add it never clones src and reuses b's storage.
func (b *AudioBuffer) Accumulate(src AudioBuffer, interp channelconfig.Interpretation) {
	srcCh := len(src.channels)
	if srcCh == 0 || src.Length() == 0 {
		return
	}
	if len(b.channels) < srcCh {
		b.grow(srcCh, interp)
	}
	target := len(b.channels)
	n := b.Length()
	if src.Length() < n {
		n = src.Length()
	}

	addInto := func(dst, s int) {
		d := b.channels[dst].AsMutSlice()
		sv := src.channels[s].AsSlice()
		for i := 0; i < n; i++ {
			d[i] += sv[i]
		}
	}

	if interp == channelconfig.Speakers {
		switch {
		case srcCh == 1 && (target == 2 || target == 4):
			addInto(0, 0)
			addInto(1, 0)
			return
		case srcCh == 1 && target == 6:
			addInto(2, 0) // center
			return
		case srcCh == 2 && (target == 4 || target == 6):
			addInto(0, 0)
			addInto(1, 1)
			return
		}
	}
	// Equal counts, Discrete, or a pair without a Speakers matrix.
	for c := 0; c < srcCh && c < target; c++ {
		addInto(c, c)
	}
}

// Coerce reshapes b in place to exactly target channels under interp,
// applying the Speakers matrices where defined and Discrete
// truncation/zero-padding everywhere else.
func (b *AudioBuffer) Coerce(target int, interp channelconfig.Interpretation) {
	cur := len(b.channels)
	if target < 0 || cur == target {
		return
	}
	if cur < target {
		b.grow(target, interp)
		return
	}
	if interp == channelconfig.Speakers {
		b.foldDown(cur, target)
	}
	b.channels = b.channels[:target]
}

// reslice adjusts the channel-slot count, keeping dropped slots parked in
// the backing array for reuse.
func (b *AudioBuffer) reslice(channels int) {
	if cap(b.channels) < channels {
		grown := make([]ChannelData, channels)
		copy(grown, b.channels[:cap(b.channels)])
		b.channels = grown
		return
	}
	b.channels = b.channels[:channels]
}

func resetChannel(c ChannelData, length int) ChannelData {
	if !c.unshared() || c.Len() != length {
		return Silence(length)
	}
	buf := c.data.buf
	for i := range buf {
		buf[i] = 0
	}
	return c
}

// grow extends b to target channels, placing existing content per the
// Speakers upmix matrix when one applies. New slots reuse parked storage.
func (b *AudioBuffer) grow(target int, interp channelconfig.Interpretation) {
	cur := len(b.channels)
	length := b.Length()
	b.reslice(target)
	for i := cur; i < target; i++ {
		b.channels[i] = resetChannel(b.channels[i], length)
	}
	if interp != channelconfig.Speakers {
		return
	}
	switch {
	case cur == 1 && (target == 2 || target == 4):
		copy(b.channels[1].AsMutSlice(), b.channels[0].AsSlice())
	case cur == 1 && target == 6:
		c0 := b.channels[0].AsMutSlice()
		copy(b.channels[2].AsMutSlice(), c0) // mono feeds the center
		for i := range c0 {
			c0[i] = 0
		}
	}
	// 2->4 and 2->6 keep L/R in place with the new channels silent; pairs
	// without a Speakers matrix fall back to Discrete zero-padding.
}

// foldDown applies the Speakers downmix matrices in place for the defined
// pairs; anything else is left to Discrete truncation by the caller.
func (b *AudioBuffer) foldDown(cur, target int) {
	n := b.Length()
	mut := func(i int) []float32 { return b.channels[i].AsMutSlice() }
	switch {
	case cur == 2 && target == 1:
		l, r := mut(0), mut(1)
		for i := 0; i < n; i++ {
			l[i] = 0.5 * (l[i] + r[i])
		}
	case cur == 4 && target == 1:
		l, r, sl, sr := mut(0), mut(1), mut(2), mut(3)
		for i := 0; i < n; i++ {
			l[i] = 0.25 * (l[i] + r[i] + sl[i] + sr[i])
		}
	case cur == 4 && target == 2:
		l, r, sl, sr := mut(0), mut(1), mut(2), mut(3)
		for i := 0; i < n; i++ {
			l[i] = 0.5 * (l[i] + sl[i])
			r[i] = 0.5 * (r[i] + sr[i])
		}
	case cur == 6 && target == 1:
		l, r, c, lfe, sl, sr := mut(0), mut(1), mut(2), mut(3), mut(4), mut(5)
		for i := 0; i < n; i++ {
			l[i] = 0.7071*(l[i]+r[i]) + c[i] + 0.5*lfe[i] + 0.5*(sl[i]+sr[i])
		}
	case cur == 6 && target == 2:
		l, r, c, lfe, sl, sr := mut(0), mut(1), mut(2), mut(3), mut(4), mut(5)
		for i := 0; i < n; i++ {
			li, ri := l[i], r[i]
			l[i] = li + 0.7071*(c[i]+sl[i]) + 0.5*lfe[i]
			r[i] = ri + 0.7071*(c[i]+sr[i]) + 0.5*lfe[i]
		}
	case cur == 6 && target == 4:
		l, r, c, lfe, sl, sr := mut(0), mut(1), mut(2), mut(3), mut(4), mut(5)
		for i := 0; i < n; i++ {
			l[i] += 0.7071*c[i] + 0.5*lfe[i]
			r[i] += 0.7071*c[i] + 0.5*lfe[i]
			// the surviving slots 2 and 3 carry the surrounds
			c[i] = sl[i]
			lfe[i] = sr[i]
		}
	}
}
