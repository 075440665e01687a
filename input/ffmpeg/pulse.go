package ffmpeg

import (
	"fmt"

	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/input/parec"
)

func init() {
	input.RegisterBackend("ffmpeg-pulse", Pulse{})
}

// Pulse is the pulse input for FFmpeg. Devices are listed the same way parec
// lists them.
type Pulse struct {
	parec.Backend
}

func (p Pulse) Open(cfg input.SessionConfig) (input.Source, error) {
	dv, ok := cfg.Device.(parec.PulseDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}
