package narrate

import (
	"errors"
	"testing"
	"time"
)

func segmentOf(index int, samples ...int16) SynthesizedSegment {
	return SynthesizedSegment{
		Index: index,
		Audio: &Audio{Samples: samples, SampleRate: 10},
	}
}

func TestAssembleInterleavesSilence(t *testing.T) {
	tests := []struct {
		name     string
		lengths  []int
		gap      time.Duration
		rate     int
		expected int
	}{
		{
			name:     "two segments one gap",
			lengths:  []int{5, 3},
			gap:      time.Second,
			rate:     10,
			expected: 5 + 3 + 10,
		},
		{
			name:     "three segments two gaps",
			lengths:  []int{4, 4, 4},
			gap:      2 * time.Second,
			rate:     10,
			expected: 12 + 2*20,
		},
		{
			name:     "fractional gap rounds to nearest sample",
			lengths:  []int{2, 2},
			gap:      250 * time.Millisecond,
			rate:     22050,
			expected: 4 + 5513, // round(0.25 * 22050)
		},
		{
			name:     "zero gap",
			lengths:  []int{3, 3},
			gap:      0,
			rate:     10,
			expected: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := make([]SynthesizedSegment, len(tt.lengths))
			for i, n := range tt.lengths {
				segments[i] = SynthesizedSegment{
					Index: i,
					Audio: &Audio{Samples: make([]int16, n), SampleRate: tt.rate},
				}
			}

			audio, err := Assemble(segments, tt.gap, tt.rate)
			if err != nil {
				t.Fatalf("Assemble failed: %v", err)
			}
			if len(audio.Samples) != tt.expected {
				t.Errorf("Expected %d samples, got %d", tt.expected, len(audio.Samples))
			}
			if audio.SampleRate != tt.rate {
				t.Errorf("Expected sample rate %d, got %d", tt.rate, audio.SampleRate)
			}
		})
	}
}

func TestAssembleSampleOrder(t *testing.T) {
	segments := []SynthesizedSegment{
		segmentOf(0, 1, 2),
		segmentOf(1, 3, 4),
	}

	audio, err := Assemble(segments, 300*time.Millisecond, 10)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	expected := []int16{1, 2, 0, 0, 0, 3, 4}
	if len(audio.Samples) != len(expected) {
		t.Fatalf("Expected %d samples, got %d", len(expected), len(audio.Samples))
	}
	for i, s := range expected {
		if audio.Samples[i] != s {
			t.Errorf("Sample %d: expected %d, got %d", i, s, audio.Samples[i])
		}
	}
}

func TestAssembleSingleSegment(t *testing.T) {
	seg := segmentOf(0, 7, 8, 9)

	audio, err := Assemble([]SynthesizedSegment{seg}, 2*time.Second, 10)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(audio.Samples) != 3 {
		t.Errorf("Expected 3 samples with no silence, got %d", len(audio.Samples))
	}
	for i, s := range []int16{7, 8, 9} {
		if audio.Samples[i] != s {
			t.Errorf("Sample %d: expected %d, got %d", i, s, audio.Samples[i])
		}
	}
}

func TestAssembleEmpty(t *testing.T) {
	_, err := Assemble(nil, time.Second, 22050)
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Expected ErrEmptyContent, got %v", err)
	}
}

func TestAssembleNoTrailingSilence(t *testing.T) {
	segments := []SynthesizedSegment{
		segmentOf(0, 1),
		segmentOf(1, 2),
	}

	audio, err := Assemble(segments, 200*time.Millisecond, 10)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if last := audio.Samples[len(audio.Samples)-1]; last != 2 {
		t.Errorf("Expected final sample to be last segment data, got %d", last)
	}
}
