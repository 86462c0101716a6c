// Package engines selects and constructs synthesis engines.
package engines

import (
	"fmt"

	"github.com/calmnest/calmgen/narrate"
	"github.com/calmnest/calmgen/narrate/engines/bark"
	"github.com/calmnest/calmgen/narrate/engines/mock"
)

// DefaultSampleRate is the waveform sample rate engines produce unless
// configured otherwise.
const DefaultSampleRate = 22050

// Config selects and parameterizes an engine.
type Config struct {
	Engine     string // "bark" or "mock"
	Command    string // helper command line, bark engine only
	SampleRate int
}

// New constructs the configured engine.
func New(cfg Config) (narrate.Engine, error) {
	rate := cfg.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}

	switch cfg.Engine {
	case "", "bark":
		return bark.New(cfg.Command, rate)
	case "mock":
		return mock.New(rate), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (available: bark, mock)", cfg.Engine)
	}
}
