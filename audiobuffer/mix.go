// mix.go - Speakers up/down-mix matrices
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package audiobuffer

// speakersMix applies the Web-Audio-style fixed up/down-mix matrices for the
// supported channel-count pairs. ok is false for any pair the standard does
// not define, in which case the caller falls back to Discrete semantics.
func speakersMix(chs []ChannelData, length, target int) ([]ChannelData, bool) {
	cur := len(chs)
	get := func(i int) []float32 {
		if i < len(chs) {
			return chs[i].AsSlice()
		}
		return make([]float32, length)
	}

	out := make([][]float32, target)
	for i := range out {
		out[i] = make([]float32, length)
	}

	switch {
	case cur == 1 && target == 2:
		c := get(0)
		copy(out[0], c)
		copy(out[1], c)
	case cur == 1 && target == 4:
		c := get(0)
		copy(out[0], c)
		copy(out[1], c)
		// rear left/right silent
	case cur == 1 && target == 6:
		c := get(0)
		copy(out[2], c) // center
	case cur == 2 && target == 1:
		l, r := get(0), get(1)
		for i := 0; i < length; i++ {
			out[0][i] = 0.5 * (l[i] + r[i])
		}
	case cur == 2 && target == 4:
		l, r := get(0), get(1)
		copy(out[0], l)
		copy(out[1], r)
	case cur == 2 && target == 6:
		l, r := get(0), get(1)
		copy(out[0], l)
		copy(out[1], r)
	case cur == 4 && target == 1:
		l, r, sl, sr := get(0), get(1), get(2), get(3)
		for i := 0; i < length; i++ {
			out[0][i] = 0.25 * (l[i] + r[i] + sl[i] + sr[i])
		}
	case cur == 4 && target == 2:
		l, r, sl, sr := get(0), get(1), get(2), get(3)
		for i := 0; i < length; i++ {
			out[0][i] = 0.5 * (l[i] + sl[i])
			out[1][i] = 0.5 * (r[i] + sr[i])
		}
	case cur == 6 && target == 1:
		l, r, c, lfe, sl, sr := get(0), get(1), get(2), get(3), get(4), get(5)
		for i := 0; i < length; i++ {
			out[0][i] = 0.7071*(l[i]+r[i]) + c[i] + 0.5*lfe[i] + 0.5*(sl[i]+sr[i])
		}
	case cur == 6 && target == 2:
		l, r, c, lfe, sl, sr := get(0), get(1), get(2), get(3), get(4), get(5)
		for i := 0; i < length; i++ {
			out[0][i] = l[i] + 0.7071*(c[i]+sl[i]) + 0.5*lfe[i]
			out[1][i] = r[i] + 0.7071*(c[i]+sr[i]) + 0.5*lfe[i]
		}
	case cur == 6 && target == 4:
		l, r, c, lfe, sl, sr := get(0), get(1), get(2), get(3), get(4), get(5)
		for i := 0; i < length; i++ {
			out[0][i] = l[i] + 0.7071*c[i] + 0.5*lfe[i]
			out[1][i] = r[i] + 0.7071*c[i] + 0.5*lfe[i]
			out[2][i] = sl[i]
			out[3][i] = sr[i]
		}
	default:
		return nil, false
	}

	chData := make([]ChannelData, target)
	for i := range out {
		chData[i] = NewChannelData(out[i])
	}
	return chData, true
}
