// graph.go - Audio graph: ordering, mixing, rendering
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package graph is the heart of the render thread: node storage, the edge
// set, a cached topological order, and per-quantum mixing, channel coercion,
// and processor invocation.
package graph

import (
	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/proc"
)

// DestinationID is the reserved node id for the graph's single output sink.
const DestinationID uint64 = 0

const blockSize = 128

// BlockSize is the engine-wide quantum Q: every render-side buffer has
// exactly this many frames.
func BlockSize() int { return blockSize }

type edge struct {
	srcID, dstID     uint64
	srcPort, dstPort uint32
}

type node struct {
	processor     proc.Processor
	buffers       []audiobuffer.AudioBuffer
	inputScratch  []audiobuffer.AudioBuffer
	inputs        int
	outputs       int
	channelConfig *channelconfig.Config
	freeWhenDone  bool
}

// Graph holds every registered node, the directed edge set between their
// ports, and the topological order used to drive rendering.
type Graph struct {
	nodes map[uint64]*node
	edges map[edge]struct{}

	ordered []uint64
	marked  map[uint64]bool
	params  *paramValues

	sampleRate uint32
}

// New constructs a graph with only the destination node registered, matching
// the "cyclic structure at construction" bootstrap: the destination exists
// before any other node can be connected to it.
func New(sampleRate uint32, destChannels *channelconfig.Config) *Graph {
	g := &Graph{
		nodes:      make(map[uint64]*node),
		edges:      make(map[edge]struct{}),
		marked:     make(map[uint64]bool),
		params:     newParamValues(),
		sampleRate: sampleRate,
	}
	g.AddNode(DestinationID, destinationProcessor{}, 1, 1, destChannels)
	g.ordered = []uint64{DestinationID}
	return g
}

type destinationProcessor struct{}

func (destinationProcessor) Process(inputs []audiobuffer.AudioBuffer, outputs []audiobuffer.AudioBuffer, params proc.ParamValues, timestamp float64, sampleRate uint32) {
	if len(inputs) > 0 && len(outputs) > 0 {
		outputs[0] = inputs[0]
	}
}
func (destinationProcessor) TailTime() bool { return false }

// AddNode registers a processor under id with the given port counts and
// channel config. Registration alone never triggers a re-sort: an isolated
// node need not be rendered until it is connected.
func (g *Graph) AddNode(id uint64, p proc.Processor, inputs, outputs int, cfg *channelconfig.Config) {
	bufs := make([]audiobuffer.AudioBuffer, outputs)
	for i := range bufs {
		bufs[i] = audiobuffer.Silent(cfg.Count(), blockSize, g.sampleRate)
	}
	scratch := make([]audiobuffer.AudioBuffer, inputs)
	for i := range scratch {
		scratch[i] = audiobuffer.Silent(cfg.Count(), blockSize, g.sampleRate)
	}
	g.nodes[id] = &node{
		processor:     p,
		buffers:       bufs,
		inputScratch:  scratch,
		inputs:        inputs,
		outputs:       outputs,
		channelConfig: cfg,
	}
}

// MarkFreeWhenFinished flags id for tail-time collection once it has no
// audible energy left and no live upstream.
func (g *Graph) MarkFreeWhenFinished(id uint64) {
	if n, ok := g.nodes[id]; ok {
		n.freeWhenDone = true
	}
}

// AddEdge connects (src, srcPort) -> (dst, dstPort) and triggers a re-sort.
// Unknown endpoints are accepted silently per the "mutations on unknown ids
// are ignored" failure mode — a later RegisterNode for that id will then
// participate correctly once ordering runs again.
func (g *Graph) AddEdge(srcID uint64, srcPort uint32, dstID uint64, dstPort uint32) {
	g.edges[edge{srcID: srcID, srcPort: srcPort, dstID: dstID, dstPort: dstPort}] = struct{}{}
	g.reorder()
}

// RemoveEdge removes every edge from src to dst, regardless of port, and
// triggers a re-sort.
func (g *Graph) RemoveEdge(srcID, dstID uint64) {
	for e := range g.edges {
		if e.srcID == srcID && e.dstID == dstID {
			delete(g.edges, e)
		}
	}
	g.reorder()
}

// RemoveEdgesFrom removes every outgoing edge of src and triggers a re-sort.
func (g *Graph) RemoveEdgesFrom(srcID uint64) {
	for e := range g.edges {
		if e.srcID == srcID {
			delete(g.edges, e)
		}
	}
	g.reorder()
}

// removeNodeAndEdges deletes a node record and every edge touching it,
// without re-sorting (the caller, the tail-time sweep, rebuilds the order
// once at the end of the sweep).
func (g *Graph) removeNodeAndEdges(id uint64) {
	delete(g.nodes, id)
	for e := range g.edges {
		if e.srcID == id || e.dstID == id {
			delete(g.edges, e)
		}
	}
}

// Ordered exposes the cached topological order, most useful for tests.
func (g *Graph) Ordered() []uint64 {
	out := make([]uint64, len(g.ordered))
	copy(out, g.ordered)
	return out
}

// children returns the set of nodes with an edge into n, i.e. n's direct
// upstream sources — the DFS visits these before n itself.
func (g *Graph) children(n uint64) []uint64 {
	var out []uint64
	for e := range g.edges {
		if e.dstID == n {
			out = append(out, e.srcID)
		}
	}
	return out
}

// reorder rebuilds the cached topological order via an iterative
// post-order DFS from the destination over upstream edges, so every source
// precedes the nodes it feeds and the destination comes last. Iterative
// rather than recursive to avoid stack exhaustion on deep graphs.
func (g *Graph) reorder() {
	for k := range g.marked {
		delete(g.marked, k)
	}
	ordered := g.ordered[:0]

	type frame struct {
		id        uint64
		childIdx  int
		children  []uint64
	}
	stack := []frame{{id: DestinationID, children: g.children(DestinationID)}}
	g.marked[DestinationID] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.childIdx < len(top.children) {
			c := top.children[top.childIdx]
			top.childIdx++
			if g.marked[c] {
				continue
			}
			g.marked[c] = true
			stack = append(stack, frame{id: c, children: g.children(c)})
			continue
		}
		ordered = append(ordered, top.id)
		stack = stack[:len(stack)-1]
	}

	g.ordered = ordered
}

// Render drives one quantum at the given timestamp and returns the
// destination's first output buffer. This is the render thread's hot path:
// the per-node input scratch and the param table are pre-sized and reused,
// so a stable graph renders without allocating, locking, or blocking.
func (g *Graph) Render(timestamp float64, sampleRate uint32) audiobuffer.AudioBuffer {
	for _, id := range g.ordered {
		n, ok := g.nodes[id]
		if !ok {
			continue
		}
		interp := n.channelConfig.Interpretation()

		for i := range n.inputScratch {
			n.inputScratch[i].Reset(n.channelConfig.Count(), blockSize, sampleRate)
		}
		g.params.clear()

		for e := range g.edges {
			if e.dstID != id {
				continue
			}
			src, ok := g.nodes[e.srcID]
			if !ok || e.srcPort >= uint32(len(src.buffers)) {
				continue // absent source produces silence for that connection
			}
			if e.dstPort == proc.MaxPort {
				g.params.set(e.srcID, src.buffers[e.srcPort])
				continue
			}
			if int(e.dstPort) >= len(n.inputScratch) {
				continue
			}
			n.inputScratch[e.dstPort].Accumulate(src.buffers[e.srcPort], interp)
		}

		for i := range n.inputScratch {
			curChannels := n.inputScratch[i].NumberOfChannels()
			var target int
			switch n.channelConfig.Mode() {
			case channelconfig.Max:
				target = curChannels
			case channelconfig.Explicit:
				target = n.channelConfig.Count()
			case channelconfig.ClampedMax:
				target = curChannels
				if cfg := n.channelConfig.Count(); cfg < target {
					target = cfg
				}
			}
			n.inputScratch[i].Coerce(target, interp)
		}

		n.processor.Process(n.inputScratch, n.buffers, g.params, timestamp, sampleRate)
	}

	if dest, ok := g.nodes[DestinationID]; ok && len(dest.buffers) > 0 {
		return dest.buffers[0]
	}
	return audiobuffer.Silent(2, blockSize, sampleRate)
}

// Sweep collects every FreeWhenFinished node whose processor reports no
// tail time and which has no remaining incoming edge from a node that is
// itself still live, per the between-quanta GC contract. It re-sorts only
// if it actually removed something.
func (g *Graph) Sweep() {
	removed := false
	for id, n := range g.nodes {
		if id == DestinationID || !n.freeWhenDone {
			continue
		}
		if n.processor.TailTime() {
			continue
		}
		if g.hasLiveUpstream(id) {
			continue
		}
		g.removeNodeAndEdges(id)
		removed = true
	}
	if removed {
		g.reorder()
	}
}

func (g *Graph) hasLiveUpstream(id uint64) bool {
	for e := range g.edges {
		if e.dstID == id {
			if _, ok := g.nodes[e.srcID]; ok {
				return true
			}
		}
	}
	return false
}

type paramValues struct {
	m map[uint64]audiobuffer.AudioBuffer
}

func newParamValues() *paramValues {
	return &paramValues{m: make(map[uint64]audiobuffer.AudioBuffer)}
}

// clear empties the table for the next node without releasing its storage.
func (p *paramValues) clear() {
	for k := range p.m {
		delete(p.m, k)
	}
}

func (p *paramValues) set(id uint64, buf audiobuffer.AudioBuffer) {
	p.m[id] = buf
}

// Get returns the evaluated per-sample values of the param node feeding id's
// MAX_PORT edge, satisfying proc.ParamValues.
func (p *paramValues) Get(id uint64) []float32 {
	buf, ok := p.m[id]
	if !ok || buf.NumberOfChannels() == 0 {
		return nil
	}
	cd, _ := buf.ChannelDataAt(0)
	return cd.AsSlice()
}
