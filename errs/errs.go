// errs.go - Control-path error taxonomy
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package errs holds the engine's control-path error taxonomy. Every type
// here is returned to a caller, never panicked with. A processor panic that
// the render thread recovers does not become one of these errors: it is
// counted on the telemetry fault counter (see render.Thread).
package errs

import "fmt"

// IndexSizeError is returned when a connect call names a port number that
// does not exist on the target node.
type IndexSizeError struct {
	NodeID uint64
	Port   uint32
}

func (e *IndexSizeError) Error() string {
	return fmt.Sprintf("audiograph: port %d out of range on node %d", e.Port, e.NodeID)
}

// IncompatibleBuffersError is returned by audio buffer operations given
// operands with mismatched sample rate or channel count where the contract
// requires equality.
type IncompatibleBuffersError struct {
	Reason string
}

func (e *IncompatibleBuffersError) Error() string {
	return "audiograph: incompatible buffers: " + e.Reason
}

// BufferDepletedError signals a transient underflow from a media source.
// Callers treat it as non-fatal: emit silence for the quantum and continue.
type BufferDepletedError struct{}

func (e *BufferDepletedError) Error() string {
	return "audiograph: media source buffer depleted"
}

// UnknownNodeIDError is reported when a control message names a node id that
// the render-side graph has no record of, most often because it was already
// freed. The render thread drops the message and never treats this as fatal.
type UnknownNodeIDError struct {
	NodeID uint64
}

func (e *UnknownNodeIDError) Error() string {
	return fmt.Sprintf("audiograph: unknown node id %d", e.NodeID)
}

// StreamError wraps a fatal media decoding failure. The source that produced
// it is terminated; the graph keeps producing silence on that input
// thereafter.
type StreamError struct {
	Cause error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("audiograph: stream error: %v", e.Cause)
}

func (e *StreamError) Unwrap() error {
	return e.Cause
}
