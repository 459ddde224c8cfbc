// main.go - Offline graph-to-WAV renderer
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

// Command renderwav renders a YAML-described audio graph offline, at full
// speed, into a WAV file.
package main

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/urfave/cli/v2"

	"github.com/intuitionamiga/audiograph/audiobuffer"
	"github.com/intuitionamiga/audiograph/audioctx"
	"github.com/intuitionamiga/audiograph/internal/democonfig"
	"github.com/intuitionamiga/audiograph/internal/telemetry"
	"github.com/intuitionamiga/audiograph/render"
)

func main() {
	app := &cli.App{
		Name:  "renderwav",
		Usage: "render an audio graph config to a WAV file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Required: true, Usage: "graph topology YAML"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "out.wav", Usage: "output WAV path"},
			&cli.Float64Flag{Name: "duration", Aliases: []string{"d"}, Value: 2.0, Usage: "seconds to render"},
			&cli.UintFlag{Name: "sample-rate", Value: 44100, Usage: "graph sample rate"},
			&cli.IntFlag{Name: "channels", Value: 2, Usage: "output channel count"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		telemetry.Log.Fatal("renderwav failed", "err", err)
	}
}

func run(c *cli.Context) error {
	cfg, err := democonfig.Load(c.String("config"))
	if err != nil {
		return err
	}

	rate := uint32(c.Uint("sample-rate"))
	channels := c.Int("channels")
	ctx, thread := audioctx.New(
		audioctx.WithSampleRate(rate),
		audioctx.WithDestinationChannels(channels),
	)
	if err := cfg.Build(ctx); err != nil {
		return err
	}

	frames := int(c.Float64("duration") * float64(rate))
	rendered := render.RenderOffline(thread, frames)
	if n := thread.Faults().Drain(); n > 0 {
		telemetry.Log.Warn("render faults during offline render", "count", n)
	}

	return writeWav(c.String("out"), rendered, channels, int(rate))
}

// writeWav interleaves the rendered buffer's first `channels` channels into
// 16-bit PCM and encodes it.
func writeWav(path string, rendered audiobuffer.AudioBuffer, channels, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	frames := rendered.Length()
	data := make([]int, frames*channels)
	for ch := 0; ch < channels; ch++ {
		var src []float32
		if cd, ok := rendered.ChannelDataAt(ch); ok {
			src = cd.AsSlice()
		}
		for i := 0; i < frames; i++ {
			var v float32
			if i < len(src) {
				v = src[i]
			}
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			data[i*channels+ch] = int(v * 32767)
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	telemetry.Log.Info("rendered", "path", path, "frames", frames, "channels", channels)
	return nil
}
