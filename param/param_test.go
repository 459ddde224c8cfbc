// param_test.go - Automation curve tests
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/audiograph/audiobuffer"
)

const testRate = 1000 // 1 ms per sample keeps the arithmetic readable

func evaluate(t *testing.T, p *Param, timestamp float64, n int) []float32 {
	t.Helper()
	outputs := []audiobuffer.AudioBuffer{audiobuffer.Silent(1, n, testRate)}
	p.Process(nil, outputs, nil, timestamp, testRate)
	cd, ok := outputs[0].ChannelDataAt(0)
	require.True(t, ok)
	return cd.AsSlice()
}

func TestDefaultValue(t *testing.T) {
	p := New(1, ARate, 0.5)
	out := evaluate(t, p, 0, 8)
	require.Len(t, out, 8)
	for _, v := range out {
		assert.InDelta(t, 0.5, v, 1e-9)
	}
}

func TestKRateEmitsOneValueRepeated(t *testing.T) {
	p := New(1, KRate, 2)
	p.Enqueue(Event{Kind: SetValue, Value: 7, Time: 0})

	out := evaluate(t, p, 1, 8)
	require.Len(t, out, 8)
	for _, v := range out {
		assert.InDelta(t, 7, v, 1e-9)
	}
}

func TestSetValueTakesEffectAtItsTime(t *testing.T) {
	p := New(1, ARate, 0)
	p.Enqueue(Event{Kind: SetValue, Value: 1, Time: 0.004})

	out := evaluate(t, p, 0, 8)
	assert.InDelta(t, 0, out[0], 1e-9)
	assert.InDelta(t, 0, out[3], 1e-9)
	assert.InDelta(t, 1, out[4], 1e-9)
	assert.InDelta(t, 1, out[7], 1e-9)
}

func TestLinearRamp(t *testing.T) {
	p := New(1, ARate, 0)
	p.Enqueue(Event{Kind: SetValue, Value: 0, Time: 0})
	p.Enqueue(Event{Kind: LinearRampToValue, Value: 1, Time: 0.008})

	out := evaluate(t, p, 0, 8)
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 0.5, out[4], 1e-6)
	assert.InDelta(t, 0.875, out[7], 1e-6)

	out = evaluate(t, p, 0.008, 4)
	for _, v := range out {
		assert.InDelta(t, 1, v, 1e-6)
	}
}

func TestExponentialRamp(t *testing.T) {
	p := New(1, ARate, 1)
	p.Enqueue(Event{Kind: SetValue, Value: 1, Time: 0})
	p.Enqueue(Event{Kind: ExponentialRampToValue, Value: 100, Time: 0.008})

	out := evaluate(t, p, 0, 8)
	assert.InDelta(t, 1, out[0], 1e-4)
	// Halfway through an exponential 1 -> 100 sits at sqrt(100) = 10.
	assert.InDelta(t, 10, out[4], 1e-3)

	out = evaluate(t, p, 0.008, 2)
	assert.InDelta(t, 100, out[0], 1e-3)
}

func TestSetTargetApproachesValue(t *testing.T) {
	p := New(1, ARate, 1)
	p.Enqueue(Event{Kind: SetTarget, Value: 0, Time: 0, TimeConstant: 0.001})

	out := evaluate(t, p, 0, 8)
	assert.InDelta(t, 1, out[0], 1e-6)
	// After one time constant the value has decayed to 1/e.
	assert.InDelta(t, math.Exp(-1), out[1], 1e-3)
	assert.Less(t, out[7], out[1])
}

func TestSetValueCurve(t *testing.T) {
	p := New(1, ARate, 0)
	p.Enqueue(Event{Kind: SetValueCurve, Curve: []float64{0, 1, 0}, Time: 0, Duration: 0.008})

	out := evaluate(t, p, 0, 8)
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 1, out[4], 1e-6)
	assert.Greater(t, out[2], out[0])
	assert.Greater(t, out[4], out[6])
}

func TestCancelScheduledValues(t *testing.T) {
	p := New(1, ARate, 0)
	p.Enqueue(Event{Kind: SetValue, Value: 1, Time: 0.001})
	p.Enqueue(Event{Kind: SetValue, Value: 2, Time: 0.005})
	p.Enqueue(Event{Kind: CancelScheduledValues, CancelFrom: 0.003})

	out := evaluate(t, p, 0, 8)
	assert.InDelta(t, 1, out[1], 1e-9)
	// The t=0.005 event was cancelled; the value holds at 1.
	assert.InDelta(t, 1, out[7], 1e-9)
}
