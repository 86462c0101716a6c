package narrate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// TranscodeFunc converts a staged WAV file to the requested format at dst.
type TranscodeFunc func(ctx context.Context, src, dst string, format Format) error

// Encoder persists an assembled waveform to an audio file. WAV output is
// written directly; every other format is staged as a temporary lossless WAV
// and transcoded, so a transcode failure never leaves a partial file at the
// final path. The staging file is removed on every exit path.
type Encoder struct {
	transcode TranscodeFunc
	logger    *log.Logger
}

// NewEncoder creates an encoder that transcodes through ffmpeg.
func NewEncoder(logger *log.Logger) *Encoder {
	if logger == nil {
		logger = log.Default()
	}
	return &Encoder{transcode: FFmpegTranscode, logger: logger}
}

// SetTranscoder replaces the transcoding backend. Used by tests.
func (e *Encoder) SetTranscoder(fn TranscodeFunc) {
	e.transcode = fn
}

// Encode writes the waveform to outputPath in the given format, creating
// parent directories as needed. It reports success only after the final file
// exists at outputPath.
func (e *Encoder) Encode(ctx context.Context, a *Audio, outputPath string, format Format) (*OutputArtifact, error) {
	if a == nil || len(a.Samples) == 0 {
		return nil, ErrEmptyContent
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %v", ErrIO, err)
	}

	if format == FormatWAV {
		if err := writeWAV(outputPath, a); err != nil {
			return nil, err
		}
		return &OutputArtifact{Path: outputPath, Format: format, SampleRate: a.SampleRate}, nil
	}

	staging, err := os.CreateTemp(dir, ".staging-*.wav")
	if err != nil {
		return nil, fmt.Errorf("%w: create staging file: %v", ErrIO, err)
	}
	stagingPath := staging.Name()
	staging.Close()
	defer func() {
		if err := os.Remove(stagingPath); err != nil && !os.IsNotExist(err) {
			// Cleanup failure is reported, not swallowed: an orphaned
			// staging file in the output tree is an operator problem.
			e.logger.Error("failed to remove staging file", "path", stagingPath, "error", err)
		}
	}()

	if err := writeWAV(stagingPath, a); err != nil {
		return nil, err
	}
	if err := e.transcode(ctx, stagingPath, outputPath, format); err != nil {
		return nil, err
	}
	if _, err := os.Stat(outputPath); err != nil {
		return nil, fmt.Errorf("%w: output file missing after transcode: %v", ErrEncodeFailed, err)
	}

	return &OutputArtifact{Path: outputPath, Format: format, SampleRate: a.SampleRate}, nil
}

// writeWAV writes the waveform as 16-bit mono PCM.
func writeWAV(path string, a *Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, path, err)
	}

	enc := wav.NewEncoder(f, a.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: a.SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(a.Samples)),
	}
	for i, s := range a.Samples {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("%w: finalize %s: %v", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, path, err)
	}
	return nil
}

// ReadWAV loads a 16-bit mono PCM WAV file. The staging format round-trips
// sample values exactly; no resampling is performed.
func ReadWAV(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrIO, path, err)
	}

	a := &Audio{
		Samples:    make([]int16, len(buf.Data)),
		SampleRate: buf.Format.SampleRate,
	}
	for i, s := range buf.Data {
		a.Samples[i] = int16(s)
	}
	return a, nil
}

// ffmpegCodecs maps output formats to ffmpeg encoder names.
var ffmpegCodecs = map[Format]string{
	FormatMP3:  "libmp3lame",
	FormatOGG:  "libvorbis",
	FormatFLAC: "flac",
}

// FFmpegTranscode converts src to dst using the ffmpeg binary on PATH.
func FFmpegTranscode(ctx context.Context, src, dst string, format Format) error {
	codec, ok := ffmpegCodecs[format]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", src,
		"-codec:a", codec,
		dst,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("%w: ffmpeg: %s", ErrEncodeFailed, msg)
		}
		return fmt.Errorf("%w: ffmpeg: %v", ErrEncodeFailed, err)
	}
	return nil
}
