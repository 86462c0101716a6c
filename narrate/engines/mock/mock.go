// Package mock provides a deterministic synthesis engine for testing and
// dry runs without a model backend.
package mock

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/calmnest/calmgen/narrate"
)

// Engine implements narrate.Engine with synthetic waveforms. Output depends
// only on the input text, so pipeline runs through the mock are repeatable.
type Engine struct {
	sampleRate int

	initOnce  sync.Once
	initCount atomic.Int32
	callCount atomic.Int32

	mu           sync.Mutex
	failureError error
	failAfter    int // fail on the Nth call when > 0
}

// New creates a mock engine at the given sample rate.
func New(sampleRate int) *Engine {
	return &Engine{sampleRate: sampleRate}
}

// Name identifies the engine for logging.
func (e *Engine) Name() string { return "mock" }

// SampleRate reports the fixed sample rate of produced waveforms.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Initialize records that one-time setup ran. Idempotent.
func (e *Engine) Initialize(context.Context) error {
	e.initOnce.Do(func() {
		e.initCount.Add(1)
	})
	return nil
}

// Synthesize produces a deterministic waveform whose length scales with the
// word count of the input, at roughly 150 words per minute, and whose sample
// values are seeded by the text bytes.
func (e *Engine) Synthesize(_ context.Context, text, voiceID string) (*narrate.Audio, error) {
	call := int(e.callCount.Add(1))

	e.mu.Lock()
	err := e.failureError
	after := e.failAfter
	e.mu.Unlock()
	if err != nil && (after == 0 || call >= after) {
		return nil, err
	}

	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	samples := make([]int16, words*e.sampleRate*60/150)

	var seed int32
	for _, b := range []byte(text + voiceID) {
		seed = seed*31 + int32(b)
	}
	for i := range samples {
		samples[i] = int16((seed + int32(i)) % 8192)
	}

	return &narrate.Audio{Samples: samples, SampleRate: e.sampleRate}, nil
}

// SetFailure makes every subsequent Synthesize call return err.
func (e *Engine) SetFailure(err error) {
	e.mu.Lock()
	e.failureError = err
	e.failAfter = 0
	e.mu.Unlock()
}

// FailOnCall makes Synthesize return err starting with the n-th call
// (1-based). Earlier calls succeed.
func (e *Engine) FailOnCall(n int, err error) {
	e.mu.Lock()
	e.failureError = err
	e.failAfter = n
	e.mu.Unlock()
}

// ClearFailure restores normal operation.
func (e *Engine) ClearFailure() {
	e.mu.Lock()
	e.failureError = nil
	e.failAfter = 0
	e.mu.Unlock()
}

// CallCount returns the number of Synthesize calls.
func (e *Engine) CallCount() int { return int(e.callCount.Load()) }

// InitCount returns how many times one-time initialization actually ran.
func (e *Engine) InitCount() int { return int(e.initCount.Load()) }
