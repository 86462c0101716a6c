package narrate

import (
	"math"
	"time"
)

// Assemble concatenates synthesized segment waveforms in index order,
// inserting a silence gap between consecutive segments and none after the
// last. The result length is the sum of segment lengths plus (N-1) silence
// buffers; a single segment is returned unchanged.
//
// Assemble is a pure function of its inputs: no I/O, deterministic output.
func Assemble(segments []SynthesizedSegment, gap time.Duration, sampleRate int) (*Audio, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyContent
	}

	if len(segments) == 1 {
		return segments[0].Audio, nil
	}

	silence := make([]int16, silenceSamples(gap, sampleRate))

	total := (len(segments) - 1) * len(silence)
	for _, seg := range segments {
		total += len(seg.Audio.Samples)
	}

	samples := make([]int16, 0, total)
	for i, seg := range segments {
		if i > 0 {
			samples = append(samples, silence...)
		}
		samples = append(samples, seg.Audio.Samples...)
	}

	return &Audio{Samples: samples, SampleRate: sampleRate}, nil
}

// silenceSamples converts a gap duration to a sample count, rounding to the
// nearest whole sample.
func silenceSamples(gap time.Duration, sampleRate int) int {
	return int(math.Round(gap.Seconds() * float64(sampleRate)))
}
