// main.go - Live graph playback demo
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Command playgraph plays a YAML-described audio graph through the default
// audio device.
package main

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/device"
	"github.com/intuitionamiga/audiograph/internal/democonfig"
	"github.com/intuitionamiga/audiograph/internal/telemetry"
)

func main() {
	app := &cli.App{
		Name:  "playgraph",
		Usage: "play an audio graph config through the default audio device",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Required: true, Usage: "graph topology YAML"},
			&cli.Float64Flag{Name: "duration", Aliases: []string{"d"}, Value: 5.0, Usage: "seconds to play"},
			&cli.UintFlag{Name: "sample-rate", Value: 44100, Usage: "graph sample rate"},
			&cli.IntFlag{Name: "channels", Value: 2, Usage: "output channel count"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		telemetry.Log.Fatal("playgraph failed", "err", err)
	}
}

func run(c *cli.Context) error {
	cfg, err := democonfig.Load(c.String("config"))
	if err != nil {
		return err
	}

	rate := int(c.Uint("sample-rate"))
	channels := c.Int("channels")
	ctx, thread := audioctx.New(
		audioctx.WithSampleRate(uint32(rate)),
		audioctx.WithDestinationChannels(channels),
	)
	if err := cfg.Build(ctx); err != nil {
		return err
	}

	sink, err := device.NewOtoSink(rate, channels, thread)
	if err != nil {
		return err
	}
	defer sink.Close()

	sink.Start()
	telemetry.Log.Info("playing", "duration", c.Float64("duration"), "sampleRate", rate)
	time.Sleep(time.Duration(c.Float64("duration") * float64(time.Second)))
	sink.Stop()

	if n := thread.Faults().Drain(); n > 0 {
		telemetry.Log.Warn("render faults during playback", "count", n)
	}
	telemetry.Log.Info("done", "currentTime", ctx.CurrentTime())
	return nil
}
