package narrate

import "context"

// Engine is the synthesis backend capability consumed by the pipeline. A
// single engine instance is shared across all content units in a process.
type Engine interface {
	// Initialize performs the engine's one-time expensive setup (model or
	// resource loading). It must be idempotent: implementations run the
	// heavy work at most once per process lifetime and every later call
	// returns the recorded result.
	Initialize(ctx context.Context) error

	// Synthesize converts one text segment to a mono waveform using the
	// given voice. Implementations are not assumed safe for concurrent
	// invocation; callers serialize.
	Synthesize(ctx context.Context, text, voiceID string) (*Audio, error)

	// SampleRate reports the fixed sample rate of produced waveforms.
	SampleRate() int

	// Name identifies the engine for logging.
	Name() string
}
