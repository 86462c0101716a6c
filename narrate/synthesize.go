package narrate

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// ProgressFunc observes per-segment synthesis progress. index is 1-based;
// total is the segment count for the unit.
type ProgressFunc func(index, total int, text string)

// SegmentSynthesizer drives the engine once per segment, applying the
// category style hint and preserving narration order. It performs no retries;
// a failed segment aborts the unit.
type SegmentSynthesizer struct {
	engine   Engine
	logger   *log.Logger
	progress ProgressFunc
}

// NewSegmentSynthesizer creates a synthesizer over the given engine.
func NewSegmentSynthesizer(engine Engine, logger *log.Logger) *SegmentSynthesizer {
	if logger == nil {
		logger = log.Default()
	}
	return &SegmentSynthesizer{engine: engine, logger: logger}
}

// OnProgress registers a progress observer. Pass nil to remove it.
func (s *SegmentSynthesizer) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// SynthesizeAll synthesizes every segment in order and returns one
// SynthesizedSegment per input, indexed by narration position. The engine's
// one-time initialization is triggered on first use.
func (s *SegmentSynthesizer) SynthesizeAll(ctx context.Context, segments []string, voice VoiceProfile, styleHint string) ([]SynthesizedSegment, error) {
	if err := s.engine.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	out := make([]SynthesizedSegment, 0, len(segments))
	for i, text := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.progress != nil {
			s.progress(i+1, len(segments), text)
		}

		audio, err := s.Synthesize(ctx, text, voice, styleHint)
		if err != nil {
			return nil, fmt.Errorf("segment %d/%d: %w", i+1, len(segments), err)
		}
		s.logger.Debug("synthesized segment",
			"index", i+1, "total", len(segments), "duration", audio.Duration())

		out = append(out, SynthesizedSegment{Index: i, Text: text, Audio: audio})
	}
	return out, nil
}

// Synthesize generates one segment's waveform. The style hint, when present,
// is prepended to the text with a single separating space; hints are
// category-wide, not segment-specific.
func (s *SegmentSynthesizer) Synthesize(ctx context.Context, text string, voice VoiceProfile, styleHint string) (*Audio, error) {
	if styleHint != "" {
		text = styleHint + " " + text
	}
	audio, err := s.engine.Synthesize(ctx, text, voice.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	return audio, nil
}
