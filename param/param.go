// param.go - AudioParam automation evaluation
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package param implements AudioParam automation: a time-varying scalar fed
// to processors, whose events (set value, linear ramp, exponential ramp,
// set target, set value curve, cancel) are serialized through the control
// channel in total order and evaluated sample-accurate at render time.
package param

import (
	"math"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/proc"
)

type Rate int

const (
	ARate Rate = iota
	KRate
)

type EventKind int

const (
	SetValue EventKind = iota
	LinearRampToValue
	ExponentialRampToValue
	SetTarget
	SetValueCurve
	CancelScheduledValues
)

// Event is one automation instruction, carried over the control channel in
// a control.AudioParamEvent control message.
type Event struct {
	Kind         EventKind
	Value        float64
	Time         float64
	TimeConstant float64   // SetTarget
	Curve        []float64 // SetValueCurve
	Duration     float64   // SetValueCurve
	CancelFrom   float64   // CancelScheduledValues: cancel events at or after this time
}

// Param is the render-side evaluator. It satisfies proc.Processor so it can
// be registered as an ordinary graph node, with its single output feeding a
// consumer's MAX_PORT input — this is what makes the graph's topological
// order evaluate a parameter before the node that reads it.
type Param struct {
	NodeID       uint64
	Rate         Rate
	DefaultValue float64

	value  float64
	events []Event
}

func New(nodeID uint64, rate Rate, defaultValue float64) *Param {
	return &Param{NodeID: nodeID, Rate: rate, DefaultValue: defaultValue, value: defaultValue}
}

// Enqueue appends an automation event, or applies a cancellation by
// truncating the pending event list. Called only from the render thread
// after a message is drained off the control channel — total order across
// all parameters is preserved by the single control channel's FIFO delivery.
func (p *Param) Enqueue(e Event) {
	if e.Kind == CancelScheduledValues {
		kept := p.events[:0]
		for _, ev := range p.events {
			if ev.Time < e.CancelFrom {
				kept = append(kept, ev)
			}
		}
		p.events = kept
		return
	}
	p.events = append(p.events, e)
}

func (p *Param) TailTime() bool { return false }

// Process evaluates the automation curve for the current quantum, writing
// either the held k-rate value or n a-rate values into outputs[0] in place.
func (p *Param) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(outputs) == 0 {
		return
	}
	n := outputs[0].Length()
	if n == 0 {
		return
	}
	outputs[0].Reset(1, n, sampleRate)
	out := outputs[0].ChannelMut(0)

	if p.Rate == KRate {
		p.value = p.evaluateAt(timestamp)
		v := float32(p.value)
		for i := range out {
			out[i] = v
		}
		return
	}

	dt := 1.0 / float64(sampleRate)
	for i := 0; i < n; i++ {
		p.value = p.evaluateAt(timestamp + float64(i)*dt)
		out[i] = float32(p.value)
	}
}

// evaluateAt computes the automation value at time t by walking every queued
// event in order. Elapsed events stay queued; only a cancellation (see
// Enqueue) removes events.
func (p *Param) evaluateAt(t float64) float64 {
	v := p.value
	for i, e := range p.events {
		switch e.Kind {
		case SetValue:
			if t >= e.Time {
				v = e.Value
			}
		case LinearRampToValue:
			from := p.value
			if i > 0 {
				from = eventTargetValue(p.events[i-1], p.value)
			}
			start := 0.0
			if i > 0 {
				start = p.events[i-1].Time
			}
			if t >= e.Time {
				v = e.Value
			} else if t >= start {
				frac := 0.0
				if e.Time > start {
					frac = (t - start) / (e.Time - start)
				}
				v = from + (e.Value-from)*frac
			}
		case ExponentialRampToValue:
			from := p.value
			if i > 0 {
				from = eventTargetValue(p.events[i-1], p.value)
			}
			start := 0.0
			if i > 0 {
				start = p.events[i-1].Time
			}
			if from <= 0 || e.Value <= 0 {
				if t >= e.Time {
					v = e.Value
				}
				continue
			}
			if t >= e.Time {
				v = e.Value
			} else if t >= start {
				frac := 0.0
				if e.Time > start {
					frac = (t - start) / (e.Time - start)
				}
				v = from * math.Pow(e.Value/from, frac)
			}
		case SetTarget:
			if t >= e.Time && e.TimeConstant > 0 {
				base := p.DefaultValue
				if i > 0 {
					base = eventTargetValue(p.events[i-1], v)
				}
				v = e.Value + (base-e.Value)*math.Exp(-(t-e.Time)/e.TimeConstant)
			}
		case SetValueCurve:
			if t >= e.Time && e.Duration > 0 && len(e.Curve) > 0 {
				frac := (t - e.Time) / e.Duration
				if frac > 1 {
					frac = 1
				}
				idx := frac * float64(len(e.Curve)-1)
				lo := int(math.Floor(idx))
				hi := lo + 1
				if hi >= len(e.Curve) {
					v = e.Curve[len(e.Curve)-1]
				} else {
					f := idx - float64(lo)
					v = e.Curve[lo]*(1-f) + e.Curve[hi]*f
				}
			}
		}
	}
	return v
}

func eventTargetValue(e Event, fallback float64) float64 {
	switch e.Kind {
	case SetValue, LinearRampToValue, ExponentialRampToValue:
		return e.Value
	default:
		return fallback
	}
}

// CurrentValue returns the last value computed by Process, for k-rate
// consumers on the control side (e.g. to display automation progress).
func (p *Param) CurrentValue() float64 {
	return p.value
}
