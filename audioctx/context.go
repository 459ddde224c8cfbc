// context.go - Control-side audio context facade
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package audioctx is the control-side façade: it allocates node ids, sends
// messages into the control→render queue, exposes current_time from the
// atomic frame counter, and manages the lifecycle of the destination and
// listener magic nodes.
package audioctx

import (
	"sync/atomic"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/control"
	"github.com/intuitionamiga/audiograph/errs"
	"github.com/intuitionamiga/audiograph/graph"
	"github.com/intuitionamiga/audiograph/internal/telemetry"
	"github.com/intuitionamiga/audiograph/param"
	"github.com/intuitionamiga/audiograph/proc"
	"github.com/intuitionamiga/audiograph/render"
)

// Reserved node ids, per the data model's node-id section.
const (
	DestinationNodeID uint64 = 0
	ListenerNodeID    uint64 = 1
)

// ListenerParamIDs are the nine spatialization params (position xyz,
// forward xyz, up xyz) the listener magic node exposes, at ids 2..10.
var ListenerParamIDs = [9]uint64{2, 3, 4, 5, 6, 7, 8, 9, 10}

// Context is the control-side entry point a client program holds. It never
// touches the graph directly: every mutation is a message sent to the
// render thread.
type Context struct {
	sampleRate uint32
	sender     *control.Sender
	nextID     atomic.Uint64
	thread     *render.Thread // only for current_time / frames_played; render owns the graph exclusively
	destCfg    *channelconfig.Config

	// magic handles, installed after the shell's own construction so the
	// listener's params can reference the context without the context
	// needing to exist fully formed first.
	listenerParams [9]*ParamHandle
}

// Option configures a Context at construction time.
type Option func(*options)

type options struct {
	sampleRate    uint32
	channelConfig channelconfig.Options
	queueCapacity int
}

func WithSampleRate(rate uint32) Option {
	return func(o *options) { o.sampleRate = rate }
}

func WithDestinationChannels(count int) Option {
	return func(o *options) { o.channelConfig.Count = count }
}

func WithQueueCapacity(n int) Option {
	return func(o *options) { o.queueCapacity = n }
}

// New constructs the context shell around a graph that already holds the
// destination magic node (graph.New creates id 0), then registers the
// listener magic node and its nine parameter nodes via the ordinary
// register path — resolving the "cyclic structure at construction"
// design note by bootstrapping in two phases rather than self-referencing
// inside a destructor.
func New(opts ...Option) (*Context, *render.Thread) {
	o := options{
		sampleRate:    44100,
		channelConfig: channelconfig.Options{Count: 2, Mode: channelconfig.Max, Interpretation: channelconfig.Speakers},
		queueCapacity: control.DefaultCapacity,
	}
	for _, fn := range opts {
		fn(&o)
	}

	sender, receiver := control.NewQueue(o.queueCapacity)
	destCfg := channelconfig.NewFromOptions(o.channelConfig)
	g := graph.New(o.sampleRate, destCfg)
	faults := &telemetry.FaultCounter{}
	thread := render.New(g, receiver, o.sampleRate, o.channelConfig.Count, faults)

	ctx := &Context{sampleRate: o.sampleRate, sender: sender, thread: thread, destCfg: destCfg}

	// The listener and its nine params take the ordinary register path:
	// RegisterNode messages with reserved ids, drained by the render thread
	// before the first quantum produces audio. Only the destination is born
	// with the graph itself (graph.New registers id 0), since ordering
	// starts from it.
	ctx.sender.Send(control.Message{
		Kind:          control.RegisterNode,
		NodeID:        ListenerNodeID,
		Processor:     passthroughProcessor{},
		Inputs:        0,
		Outputs:       1,
		ChannelConfig: channelconfig.New(),
	})
	for i, pid := range ListenerParamIDs {
		pcfg := channelconfig.NewFromOptions(channelconfig.Options{Count: 1, Mode: channelconfig.Explicit, Interpretation: channelconfig.Discrete})
		ctx.sender.Send(control.Message{
			Kind:          control.RegisterNode,
			NodeID:        pid,
			Processor:     param.New(pid, param.KRate, 0),
			Inputs:        0,
			Outputs:       1,
			ChannelConfig: pcfg,
		})
		node := &Node{ctx: ctx, id: pid, inputs: 0, outputs: 1, channelConfig: pcfg, magic: true}
		ctx.listenerParams[i] = &ParamHandle{ctx: ctx, node: node}
	}
	ctx.nextID.Store(ListenerParamIDs[len(ListenerParamIDs)-1])

	telemetry.Log.Debug("audio context created", "sampleRate", o.sampleRate, "channels", o.channelConfig.Count)
	return ctx, thread
}

// passthroughProcessor is used for the listener magic node, which has no
// audio-rate output of its own; its children are the nine spatialization
// params.
type passthroughProcessor struct{}

func (passthroughProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
}
func (passthroughProcessor) TailTime() bool { return false }

// SampleRate returns the graph-wide sample rate.
func (c *Context) SampleRate() uint32 { return c.sampleRate }

// CurrentTime reads the atomic frame counter, converted to seconds. It is
// the time at the end of the most recently completed quantum and
// monotonically increases as observed from the control thread.
func (c *Context) CurrentTime() float64 {
	return float64(c.thread.FramesPlayed()) / float64(c.sampleRate)
}

// ListenerParam returns the handle for one of the nine listener
// spatialization params (0..8: position xyz, forward xyz, up xyz).
func (c *Context) ListenerParam(i int) *ParamHandle {
	return c.listenerParams[i]
}

// allocID issues the next monotonically increasing id above the reserved
// range. Ids are never reused within the context's lifetime.
func (c *Context) allocID() uint64 {
	return c.nextID.Add(1)
}

// Node is the control-side handle for a registered node: its id, declared
// port counts, channel config, and a reference back to the context for
// connect/disconnect/close calls. Magic nodes never send FreeWhenFinished
// on Close, resolving the spec's "avoid self-reference inside Drop for
// magic ids" note by making the lifecycle explicit instead of
// destructor-driven.
type Node struct {
	ctx           *Context
	id            uint64
	inputs        int
	outputs       int
	channelConfig *channelconfig.Config
	magic         bool
	closed        bool
}

func (n *Node) ID() uint64           { return n.id }
func (n *Node) NumberOfInputs() int  { return n.inputs }
func (n *Node) NumberOfOutputs() int { return n.outputs }

// Close releases the node, enqueuing FreeWhenFinished unless it is one of
// the reserved magic ids. Idempotent.
func (n *Node) Close() {
	if n.closed || n.magic {
		return
	}
	n.closed = true
	n.ctx.sender.Send(control.Message{Kind: control.FreeWhenFinished, FreeID: n.id})
}

// ChannelConfig exposes the node's channel-config handle so the control
// side can mutate count/mode/interpretation without round-tripping through
// the queue.
func (n *Node) ChannelConfig() *channelconfig.Config { return n.channelConfig }

// Register allocates an id, lets construct build the render-side processor,
// sends RegisterNode, and returns the control-side handle.
func (c *Context) Register(inputs, outputs int, cfg channelconfig.Options, construct func(id uint64) proc.Processor) *Node {
	id := c.allocID()
	ccfg := channelconfig.NewFromOptions(cfg)
	p := construct(id)
	c.sender.Send(control.Message{
		Kind:          control.RegisterNode,
		NodeID:        id,
		Processor:     p,
		Inputs:        inputs,
		Outputs:       outputs,
		ChannelConfig: ccfg,
	})
	telemetry.Log.Debug("node registered", "id", id, "inputs", inputs, "outputs", outputs)
	return &Node{ctx: c, id: id, inputs: inputs, outputs: outputs, channelConfig: ccfg}
}

// Destination returns the handle for the reserved destination node.
func (c *Context) Destination() *Node {
	return &Node{ctx: c, id: DestinationNodeID, inputs: 1, outputs: 1, channelConfig: c.destCfg, magic: true}
}

// Listener returns the handle for the reserved listener node.
func (c *Context) Listener() *Node {
	return &Node{ctx: c, id: ListenerNodeID, inputs: 0, outputs: 1, magic: true}
}

// Connect wires (src, outputPort) -> (dst, inputPort). Port numbers are
// validated against the declared counts before any message is sent;
// proc.MaxPort is always a valid input port, being the reserved parameter
// input consumed by param processors rather than the mixer.
func (c *Context) Connect(src *Node, outputPort uint32, dst *Node, inputPort uint32) error {
	if outputPort >= uint32(src.outputs) {
		return &errs.IndexSizeError{NodeID: src.id, Port: outputPort}
	}
	if inputPort != proc.MaxPort && inputPort >= uint32(dst.inputs) {
		return &errs.IndexSizeError{NodeID: dst.id, Port: inputPort}
	}
	c.sender.Send(control.Message{
		Kind:       control.ConnectNode,
		From:       src.id,
		To:         dst.id,
		OutputPort: outputPort,
		InputPort:  inputPort,
	})
	return nil
}

func (c *Context) Disconnect(src, dst *Node) {
	c.sender.Send(control.Message{Kind: control.DisconnectNode, From: src.id, To: dst.id})
}

func (c *Context) DisconnectAll(src *Node) {
	c.sender.Send(control.Message{Kind: control.DisconnectAll, From: src.id})
}
