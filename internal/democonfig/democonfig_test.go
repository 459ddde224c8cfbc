// democonfig_test.go - Demo config tests
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package democonfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/graph"
	"github.com/intuitionamiga/audiograph/render"
)

const demoYAML = `
nodes:
  - name: osc
    kind: oscillator
    waveform: square
    frequency: 220
    start: 0
  - name: vol
    kind: gain
    gain: 0.5
connections:
  - { from: osc, to: vol }
  - { from: vol, to: destination }
automation:
  - { node: vol, param: gain, kind: linear_ramp, value: 0.1, time: 1.0 }
`

func TestDecodeAndBuild(t *testing.T) {
	cfg, err := Decode(strings.NewReader(demoYAML))
	require.NoError(t, err)
	require.Len(t, cfg.Nodes, 2)
	require.Len(t, cfg.Connections, 2)
	require.Len(t, cfg.Automation, 1)

	ctx, thread := audioctx.New(audioctx.WithDestinationChannels(1))
	require.NoError(t, cfg.Build(ctx))

	out := render.RenderOffline(thread, 4*graph.BlockSize())
	cd, ok := out.ChannelDataAt(0)
	require.True(t, ok)
	var energy float64
	for _, v := range cd.AsSlice() {
		energy += float64(v) * float64(v)
	}
	assert.Greater(t, energy, 0.5, "square wave through the gain should carry signal")
}

func TestBuildRejectsUnknownNodeKind(t *testing.T) {
	cfg := &Config{Nodes: []NodeSpec{{Name: "x", Kind: "theremin"}}}
	ctx, _ := audioctx.New()
	assert.Error(t, cfg.Build(ctx))
}

func TestBuildRejectsDanglingConnection(t *testing.T) {
	cfg := &Config{Connections: []ConnSpec{{From: "ghost", To: "destination"}}}
	ctx, _ := audioctx.New()
	assert.Error(t, cfg.Build(ctx))
}

func TestBuildRejectsUnknownAutomationParam(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
nodes:
  - { name: vol, kind: gain, gain: 1.0 }
automation:
  - { node: vol, param: frequency, kind: set_value, value: 1, time: 0 }
`))
	require.NoError(t, err)
	ctx, _ := audioctx.New()
	assert.Error(t, cfg.Build(ctx))
}
