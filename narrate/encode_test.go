package narrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testAudio() *Audio {
	samples := make([]int16, 220)
	for i := range samples {
		samples[i] = int16(i*37 - 4096)
	}
	return &Audio{Samples: samples, SampleRate: 22050}
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	enc := NewEncoder(nil)
	path := filepath.Join(t.TempDir(), "out.wav")
	audio := testAudio()

	artifact, err := enc.Encode(context.Background(), audio, path, FormatWAV)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if artifact.Path != path {
		t.Errorf("Expected artifact path %q, got %q", path, artifact.Path)
	}
	if artifact.SampleRate != 22050 {
		t.Errorf("Expected sample rate 22050, got %d", artifact.SampleRate)
	}

	decoded, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV failed: %v", err)
	}
	if decoded.SampleRate != audio.SampleRate {
		t.Errorf("Expected sample rate %d, got %d", audio.SampleRate, decoded.SampleRate)
	}
	if len(decoded.Samples) != len(audio.Samples) {
		t.Fatalf("Expected %d samples, got %d", len(audio.Samples), len(decoded.Samples))
	}
	for i := range audio.Samples {
		if decoded.Samples[i] != audio.Samples[i] {
			t.Fatalf("Sample %d not preserved: expected %d, got %d", i, audio.Samples[i], decoded.Samples[i])
		}
	}
}

func TestEncodeCreatesParentDirs(t *testing.T) {
	enc := NewEncoder(nil)
	path := filepath.Join(t.TempDir(), "audio", "meditation", "gratitude.wav")

	if _, err := enc.Encode(context.Background(), testAudio(), path, FormatWAV); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected output file to exist: %v", err)
	}
}

func TestEncodeTranscodeStagesWAV(t *testing.T) {
	enc := NewEncoder(nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mp3")
	audio := testAudio()

	var stagedSrc string
	enc.SetTranscoder(func(_ context.Context, src, dst string, format Format) error {
		stagedSrc = src
		if format != FormatMP3 {
			t.Errorf("Expected format mp3, got %s", format)
		}

		// The staging file must already hold the full waveform.
		staged, err := ReadWAV(src)
		if err != nil {
			t.Fatalf("Staging file unreadable: %v", err)
		}
		if len(staged.Samples) != len(audio.Samples) {
			t.Errorf("Staging file has %d samples, expected %d", len(staged.Samples), len(audio.Samples))
		}

		return os.WriteFile(dst, []byte("encoded"), 0o644)
	})

	artifact, err := enc.Encode(context.Background(), audio, path, FormatMP3)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if artifact.Format != FormatMP3 {
		t.Errorf("Expected mp3 artifact, got %s", artifact.Format)
	}
	if !strings.HasSuffix(stagedSrc, ".wav") {
		t.Errorf("Expected WAV staging file, got %q", stagedSrc)
	}
	if _, err := os.Stat(stagedSrc); !os.IsNotExist(err) {
		t.Errorf("Expected staging file to be removed, stat err: %v", err)
	}
}

func TestEncodeTranscodeFailureCleansUp(t *testing.T) {
	enc := NewEncoder(nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mp3")

	transcodeErr := errors.New("codec exploded")
	enc.SetTranscoder(func(context.Context, string, string, Format) error {
		return transcodeErr
	})

	_, err := enc.Encode(context.Background(), testAudio(), path, FormatMP3)
	if !errors.Is(err, transcodeErr) {
		t.Fatalf("Expected transcode error, got %v", err)
	}

	// No partial output, no orphaned staging file.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file at final path, stat err: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty output dir after cleanup, found %d entries", len(entries))
	}
}

func TestEncodeMissingOutputAfterTranscode(t *testing.T) {
	enc := NewEncoder(nil)
	path := filepath.Join(t.TempDir(), "out.mp3")

	enc.SetTranscoder(func(context.Context, string, string, Format) error {
		return nil // claims success but writes nothing
	})

	_, err := enc.Encode(context.Background(), testAudio(), path, FormatMP3)
	if !errors.Is(err, ErrEncodeFailed) {
		t.Errorf("Expected ErrEncodeFailed, got %v", err)
	}
}

func TestEncodeEmptyAudio(t *testing.T) {
	enc := NewEncoder(nil)
	path := filepath.Join(t.TempDir(), "out.wav")

	for _, a := range []*Audio{nil, {SampleRate: 22050}} {
		if _, err := enc.Encode(context.Background(), a, path, FormatWAV); !errors.Is(err, ErrEmptyContent) {
			t.Errorf("Expected ErrEmptyContent, got %v", err)
		}
	}
}

func TestFFmpegTranscodeUnknownFormat(t *testing.T) {
	err := FFmpegTranscode(context.Background(), "in.wav", "out.xyz", Format("xyz"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}
