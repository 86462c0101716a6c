// Package bark synthesizes speech through a Bark model helper process. The
// helper owns model loading and sampling; this package speaks a line-oriented
// JSON protocol with it: one request object on stdin, base64 PCM response
// lines on stdout.
package bark

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	shellwords "github.com/mattn/go-shellwords"

	"github.com/calmnest/calmgen/narrate"
)

// DefaultCommand is the helper invoked when no command is configured.
const DefaultCommand = "bark-helper"

// Engine shells out to the Bark helper once per segment. The helper process
// is stateful and expensive to warm up, so synthesis calls are serialized
// and initialization runs at most once per process lifetime.
type Engine struct {
	cmd        []string
	sampleRate int
	logger     *log.Logger

	initOnce sync.Once
	initErr  error

	mu sync.Mutex // serializes helper invocations
}

type request struct {
	Text       string `json:"text"`
	Voice      string `json:"voice"`
	SampleRate int    `json:"sample_rate"`
}

type response struct {
	PCMBase64 string `json:"pcm_base64"`
	Final     bool   `json:"final"`
}

// New creates a Bark engine for the given helper command line.
func New(command string, sampleRate int) (*Engine, error) {
	if command == "" {
		command = DefaultCommand
	}
	args, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse bark command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("bark command is empty")
	}
	return &Engine{
		cmd:        args,
		sampleRate: sampleRate,
		logger:     log.Default(),
	}, nil
}

// Name identifies the engine for logging.
func (e *Engine) Name() string { return "bark" }

// SampleRate reports the fixed sample rate of produced waveforms.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Initialize warms up the helper. The first call resolves the helper binary
// and triggers its model preload; the result is recorded and every later
// call returns it without re-running the work.
func (e *Engine) Initialize(ctx context.Context) error {
	e.initOnce.Do(func() {
		path, err := exec.LookPath(e.cmd[0])
		if err != nil {
			e.initErr = fmt.Errorf("bark helper not found: %w", err)
			return
		}

		e.logger.Info("loading bark models (this may take a minute on first run)", "helper", path)
		start := time.Now()

		warmup := exec.CommandContext(ctx, path, append(e.cmd[1:], "--preload")...)
		var stderr bytes.Buffer
		warmup.Stderr = &stderr
		if err := warmup.Run(); err != nil {
			msg := bytes.TrimSpace(stderr.Bytes())
			if len(msg) > 0 {
				e.initErr = fmt.Errorf("bark preload failed: %s", msg)
				return
			}
			e.initErr = fmt.Errorf("bark preload failed: %w", err)
			return
		}

		e.logger.Info("bark models loaded", "elapsed", time.Since(start).Round(time.Millisecond))
	})
	return e.initErr
}

// Synthesize converts one text segment to a mono waveform using the given
// voice preset.
func (e *Engine) Synthesize(ctx context.Context, text, voiceID string) (*narrate.Audio, error) {
	if err := e.Initialize(ctx); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	payload, err := json.Marshal(request{Text: text, Voice: voiceID, SampleRate: e.sampleRate})
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, e.cmd[0], e.cmd[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start bark helper: %w", err)
	}

	var pcm []byte
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 1<<20), 16<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			cmd.Wait()
			return nil, fmt.Errorf("decode bark response: %w", err)
		}
		chunk, err := base64.StdEncoding.DecodeString(resp.PCMBase64)
		if err != nil {
			cmd.Wait()
			return nil, fmt.Errorf("decode bark pcm: %w", err)
		}
		pcm = append(pcm, chunk...)
		if resp.Final {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		cmd.Wait()
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("bark helper: %s", msg)
		}
		return nil, fmt.Errorf("bark helper: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("bark helper produced no audio")
	}
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("bark pcm length %d is not 16-bit aligned", len(pcm))
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return &narrate.Audio{Samples: samples, SampleRate: e.sampleRate}, nil
}
