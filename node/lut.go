// lut.go - Sine lookup table
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package node

import "math"

const pi = math.Pi

const sinLUTSize = 8192
const sinLUTMask = sinLUTSize - 1

var sinLUT [sinLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * 2 * math.Pi / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(phase))
	}
}

// fastSin looks up sin(phase) for phase in radians, wrapping to [0, 2π).
func fastSin(phase float64) float32 {
	twoPi := 2 * math.Pi
	phase = phase - twoPi*math.Floor(phase/twoPi)
	idx := int(phase * float64(sinLUTSize) / twoPi)
	return sinLUT[idx&sinLUTMask]
}
