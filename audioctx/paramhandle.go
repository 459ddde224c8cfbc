// paramhandle.go - Control-side AudioParam automation handle
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package audioctx

import (
	"errors"

	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/control"
	"github.com/intuitionamiga/audiograph/param"
	"github.com/intuitionamiga/audiograph/proc"
)

// ErrNonPositiveRampTarget is returned when an exponential ramp is scheduled
// toward zero or a negative value, which the curve cannot pass through.
var ErrNonPositiveRampTarget = errors.New("audiograph: exponential ramp target must be strictly positive")

// ParamHandle is the control-side view of an AudioParam. Automation calls
// are serialized through the main control channel, which forwards them into
// the parameter's render-side event queue — total order across all
// parameters is preserved by the channel's FIFO delivery.
type ParamHandle struct {
	ctx  *Context
	node *Node
}

// NewParam registers an AudioParam node. The render thread recognizes the
// evaluator when it drains the RegisterNode message: it becomes a graph node
// (so topology forces evaluation before its consumers) and an entry in the
// render-side param routing table (so AudioParamEvent messages addressed to
// its id reach it). Nothing render-owned is touched from this thread.
func (c *Context) NewParam(rate param.Rate, defaultValue float64) *ParamHandle {
	id := c.allocID()
	p := param.New(id, rate, defaultValue)
	ccfg := channelconfig.NewFromOptions(channelconfig.Options{Count: 1, Mode: channelconfig.Explicit, Interpretation: channelconfig.Discrete})
	c.sender.Send(control.Message{
		Kind:          control.RegisterNode,
		NodeID:        id,
		Processor:     p,
		Inputs:        0,
		Outputs:       1,
		ChannelConfig: ccfg,
	})
	return &ParamHandle{ctx: c, node: &Node{ctx: c, id: id, inputs: 0, outputs: 1, channelConfig: ccfg}}
}

// Node returns the underlying graph node handle.
func (p *ParamHandle) Node() *Node { return p.node }

// NodeID returns the param node's id, the key processors pass to
// proc.ParamValues.Get.
func (p *ParamHandle) NodeID() uint64 { return p.node.id }

// AttachTo wires the param's output into target's MAX_PORT input so the
// graph evaluates it before the node that reads it.
func (p *ParamHandle) AttachTo(target *Node) {
	// MaxPort never fails validation, and a param node always has output 0.
	_ = p.ctx.Connect(p.node, 0, target, proc.MaxPort)
}

func (p *ParamHandle) send(e param.Event) {
	p.ctx.sender.Send(control.Message{
		Kind:        control.AudioParamEvent,
		ParamTarget: p.node.id,
		ParamEvent:  e,
	})
}

// SetValueAtTime schedules an instantaneous value change at time t.
func (p *ParamHandle) SetValueAtTime(v, t float64) {
	p.send(param.Event{Kind: param.SetValue, Value: v, Time: t})
}

// LinearRampToValueAtTime schedules a linear ramp ending with value v at
// time t, starting from the previous event.
func (p *ParamHandle) LinearRampToValueAtTime(v, t float64) {
	p.send(param.Event{Kind: param.LinearRampToValue, Value: v, Time: t})
}

// ExponentialRampToValueAtTime schedules an exponential ramp ending with
// value v at time t. The target value must be strictly positive.
func (p *ParamHandle) ExponentialRampToValueAtTime(v, t float64) error {
	if v <= 0 {
		return ErrNonPositiveRampTarget
	}
	p.send(param.Event{Kind: param.ExponentialRampToValue, Value: v, Time: t})
	return nil
}

// SetTargetAtTime schedules an exponential approach toward v starting at
// time t with the given time constant.
func (p *ParamHandle) SetTargetAtTime(v, t, timeConstant float64) {
	p.send(param.Event{Kind: param.SetTarget, Value: v, Time: t, TimeConstant: timeConstant})
}

// SetValueCurveAtTime schedules a piecewise-linear sweep through curve over
// duration seconds starting at time t.
func (p *ParamHandle) SetValueCurveAtTime(curve []float64, t, duration float64) {
	c := make([]float64, len(curve))
	copy(c, curve)
	p.send(param.Event{Kind: param.SetValueCurve, Curve: c, Time: t, Duration: duration})
}

// CancelScheduledValues removes every pending event scheduled at or after
// time t.
func (p *ParamHandle) CancelScheduledValues(t float64) {
	p.send(param.Event{Kind: param.CancelScheduledValues, CancelFrom: t})
}
