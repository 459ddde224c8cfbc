// channel.go - Non-blocking control message queue
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package control

import "github.com/intuitionamiga/audiograph/internal/telemetry"

// DefaultCapacity is the pre-sized ring depth; control-side bursts (building
// a graph, scheduling automation) are bounded by user actions and a few
// thousand slots is generous headroom.
const DefaultCapacity = 4096

// Sender is the control-side endpoint: a non-blocking, wait-free-from-the-
// caller's-perspective enqueue. It never drops a message; on overflow it
// logs fatally instead, since an overflow means the render thread has
// stalled or the caller is misusing the API far outside bounded bursts.
type Sender struct {
	ch chan Message
}

// Receiver is the render-side endpoint, drained once at the start of every
// quantum.
type Receiver struct {
	ch chan Message
}

// NewQueue returns the paired Sender/Receiver over a channel of the given
// capacity (DefaultCapacity if 0).
func NewQueue(capacity int) (*Sender, *Receiver) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ch := make(chan Message, capacity)
	return &Sender{ch: ch}, &Receiver{ch: ch}
}

// Send enqueues m without blocking. Overflow is treated as fatal: a queue
// sized per DefaultCapacity overflowing means the render thread has stopped
// draining, which is unrecoverable for a real-time audio path.
func (s *Sender) Send(m Message) {
	select {
	case s.ch <- m:
	default:
		telemetry.Log.Fatal("control queue overflow: render thread not draining", "kind", m.Kind)
	}
}

// Drain pulls every currently-queued message without blocking, in FIFO
// order, calling fn for each. It returns once the channel is empty.
func (r *Receiver) Drain(fn func(Message)) {
	for {
		select {
		case m := <-r.ch:
			fn(m)
		default:
			return
		}
	}
}
