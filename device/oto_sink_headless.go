//go:build headless

// oto_sink_headless.go - Headless stub for the oto sink
//
// This file is part of audiograph.
// https://github.com/intuitionamiga/audiograph
//
// License: GPLv3 or later

package device

import (
	"errors"

	"github.com/intuitionamiga/audiograph/render"
)

// NewOtoSink is unavailable in headless builds; use NewNullSink or the
// offline render path instead.
func NewOtoSink(sampleRate, channels int, t *render.Thread) (*NullSink, error) {
	return nil, errors.New("audiograph: built with the headless tag, no audio device available")
}
