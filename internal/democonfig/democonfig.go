// democonfig.go - YAML graph config for the demo binaries
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Package democonfig decodes the YAML graph-topology files consumed by the
// demo binaries (cmd/renderwav, cmd/playgraph) and builds the described
// graph against a live context. This is demo plumbing only: the library
// packages themselves never parse config files.
package democonfig

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/node"
)

type Config struct {
	Nodes       []NodeSpec `yaml:"nodes"`
	Connections []ConnSpec `yaml:"connections"`
	Automation  []AutoSpec `yaml:"automation"`
}

type NodeSpec struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"` // oscillator | gain | delay | panner | splitter | merger | analyser
	Waveform  string  `yaml:"waveform,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
	Gain      float64 `yaml:"gain,omitempty"`
	Pan       float64 `yaml:"pan,omitempty"`
	MaxDelay  float64 `yaml:"max_delay,omitempty"`
	Delay     float64 `yaml:"delay,omitempty"`
	Channels  int     `yaml:"channels,omitempty"`
	Start     float64 `yaml:"start"`
	Stop      float64 `yaml:"stop,omitempty"`
}

type ConnSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"` // node name, or "destination"
}

type AutoSpec struct {
	Node     string    `yaml:"node"`
	Param    string    `yaml:"param"` // frequency | gain | pan | delay
	Kind     string    `yaml:"kind"`  // set_value | linear_ramp | exponential_ramp | set_target | set_curve | cancel
	Value    float64   `yaml:"value"`
	Time     float64   `yaml:"time"`
	Constant float64   `yaml:"time_constant,omitempty"`
	Curve    []float64 `yaml:"curve,omitempty"`
	Duration float64   `yaml:"duration,omitempty"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode graph config: %w", err)
	}
	return &cfg, nil
}

// built is a constructed node with its addressable params.
type built struct {
	handle *audioctx.Node
	params map[string]*audioctx.ParamHandle
}

// Build constructs every node, connection, and automation event the config
// describes against ctx.
func (c *Config) Build(ctx *audioctx.Context) error {
	nodes := make(map[string]built, len(c.Nodes))

	for _, spec := range c.Nodes {
		b, err := buildNode(ctx, spec)
		if err != nil {
			return err
		}
		nodes[spec.Name] = b
	}

	for _, conn := range c.Connections {
		src, ok := nodes[conn.From]
		if !ok {
			return fmt.Errorf("connection from unknown node %q", conn.From)
		}
		dst := ctx.Destination()
		if conn.To != "destination" {
			d, ok := nodes[conn.To]
			if !ok {
				return fmt.Errorf("connection to unknown node %q", conn.To)
			}
			dst = d.handle
		}
		if err := ctx.Connect(src.handle, 0, dst, 0); err != nil {
			return err
		}
	}

	for _, auto := range c.Automation {
		n, ok := nodes[auto.Node]
		if !ok {
			return fmt.Errorf("automation for unknown node %q", auto.Node)
		}
		p, ok := n.params[auto.Param]
		if !ok {
			return fmt.Errorf("node %q has no param %q", auto.Node, auto.Param)
		}
		switch auto.Kind {
		case "set_value":
			p.SetValueAtTime(auto.Value, auto.Time)
		case "linear_ramp":
			p.LinearRampToValueAtTime(auto.Value, auto.Time)
		case "exponential_ramp":
			if err := p.ExponentialRampToValueAtTime(auto.Value, auto.Time); err != nil {
				return err
			}
		case "set_target":
			p.SetTargetAtTime(auto.Value, auto.Time, auto.Constant)
		case "set_curve":
			p.SetValueCurveAtTime(auto.Curve, auto.Time, auto.Duration)
		case "cancel":
			p.CancelScheduledValues(auto.Time)
		default:
			return fmt.Errorf("unknown automation kind %q", auto.Kind)
		}
	}

	return nil
}

func buildNode(ctx *audioctx.Context, spec NodeSpec) (built, error) {
	switch spec.Kind {
	case "oscillator":
		wave, err := parseWaveform(spec.Waveform)
		if err != nil {
			return built{}, err
		}
		osc := node.NewOscillator(ctx, wave)
		if spec.Frequency > 0 {
			osc.Frequency.SetValueAtTime(spec.Frequency, 0)
		}
		osc.Start(spec.Start)
		if spec.Stop > 0 {
			osc.Stop(spec.Stop)
		}
		return built{handle: osc.Node, params: map[string]*audioctx.ParamHandle{"frequency": osc.Frequency}}, nil
	case "gain":
		g := node.NewGain(ctx)
		if spec.Gain != 0 {
			g.Gain.SetValueAtTime(spec.Gain, 0)
		}
		return built{handle: g.Node, params: map[string]*audioctx.ParamHandle{"gain": g.Gain}}, nil
	case "delay":
		d := node.NewDelay(ctx, spec.MaxDelay)
		if spec.Delay > 0 {
			d.DelayTime.SetValueAtTime(spec.Delay, 0)
		}
		return built{handle: d.Node, params: map[string]*audioctx.ParamHandle{"delay": d.DelayTime}}, nil
	case "panner":
		p := node.NewStereoPanner(ctx)
		if spec.Pan != 0 {
			p.Pan.SetValueAtTime(spec.Pan, 0)
		}
		return built{handle: p.Node, params: map[string]*audioctx.ParamHandle{"pan": p.Pan}}, nil
	case "splitter":
		s := node.NewChannelSplitter(ctx, spec.Channels)
		return built{handle: s.Node, params: map[string]*audioctx.ParamHandle{}}, nil
	case "merger":
		m := node.NewChannelMerger(ctx, spec.Channels)
		return built{handle: m.Node, params: map[string]*audioctx.ParamHandle{}}, nil
	case "analyser":
		a := node.NewAnalyser(ctx)
		return built{handle: a.Node, params: map[string]*audioctx.ParamHandle{}}, nil
	default:
		return built{}, fmt.Errorf("unknown node kind %q", spec.Kind)
	}
}

func parseWaveform(s string) (node.Waveform, error) {
	switch s {
	case "", "sine":
		return node.Sine, nil
	case "square":
		return node.Square, nil
	case "sawtooth":
		return node.Sawtooth, nil
	case "triangle":
		return node.Triangle, nil
	default:
		return node.Sine, fmt.Errorf("unknown waveform %q", s)
	}
}
