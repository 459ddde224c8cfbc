// message.go - Control-to-render message protocol
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package control defines the message protocol that carries every graph
// mutation from control threads to the single render thread, and the
// non-blocking queue that transports it. Senders never block: the queue is a
// pre-sized buffered channel, and an overflow is a fatal configuration error
// rather than something the control API can recover from, since
// control-side bursts are bounded by user actions.
package control

import (
	"github.com/intuitionamiga/audiograph/channelconfig"
	"github.com/intuitionamiga/audiograph/param"
	"github.com/intuitionamiga/audiograph/proc"
)

// Message is the sum type of everything that can cross the control→render
// boundary.
type Message struct {
	Kind Kind

	// RegisterNode
	NodeID        uint64
	Processor     proc.Processor
	Inputs        int
	Outputs       int
	ChannelConfig *channelconfig.Config

	// ConnectNode / DisconnectNode
	From, To              uint64
	OutputPort, InputPort uint32

	// FreeWhenFinished
	FreeID uint64

	// AudioParamEvent
	ParamTarget uint64
	ParamEvent  param.Event
}

type Kind uint8

const (
	RegisterNode Kind = iota
	ConnectNode
	DisconnectNode
	DisconnectAll
	FreeWhenFinished
	AudioParamEvent
)
