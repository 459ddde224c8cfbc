// channeldata.go - Reference-counted copy-on-write sample storage
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package audiobuffer

import "sync/atomic"

// ChannelData is a reference-counted, copy-on-write vector of samples.
// Cloning a ChannelData is O(1): it shares the backing slice until one of the
// clones asks for a mutable view, at which point it clones the storage if (and
// only if) more than one reference is outstanding. The count is atomic: it is
// the one piece of buffer state that may be observed from both sides of the
// control/render split.
type ChannelData struct {
	data *shared
}

type shared struct {
	refs atomic.Int32
	buf  []float32
}

// NewChannelData takes ownership of buf as the sole reference.
func NewChannelData(buf []float32) ChannelData {
	s := &shared{buf: buf}
	s.refs.Store(1)
	return ChannelData{data: s}
}

// Silence returns a ChannelData of length n, all zeros.
func Silence(n int) ChannelData {
	return NewChannelData(make([]float32, n))
}

// Clone returns a new handle sharing the same backing storage. The refcount
// is bumped; no samples are copied.
func (c ChannelData) Clone() ChannelData {
	c.data.refs.Add(1)
	return ChannelData{data: c.data}
}

// Len returns the number of samples.
func (c ChannelData) Len() int {
	return len(c.data.buf)
}

// AsSlice returns a read-only view of the samples.
func (c ChannelData) AsSlice() []float32 {
	return c.data.buf
}

// AsMutSlice returns a mutable view, cloning the backing storage first if it
// is shared with any other ChannelData handle. This is the copy-on-write
// trigger: after this call, c's handle is guaranteed to be the sole owner of
// the returned slice's backing array.
func (c *ChannelData) AsMutSlice() []float32 {
	if c.data.refs.Load() > 1 {
		cloned := make([]float32, len(c.data.buf))
		copy(cloned, c.data.buf)
		c.data.refs.Add(-1)
		s := &shared{buf: cloned}
		s.refs.Store(1)
		c.data = s
	}
	return c.data.buf
}

// unshared reports whether this handle is the sole owner of its storage, so
// render-path scratch can be reused in place without a copy.
func (c ChannelData) unshared() bool {
	return c.data != nil && c.data.refs.Load() == 1
}
