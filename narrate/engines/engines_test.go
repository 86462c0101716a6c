package engines

import (
	"strings"
	"testing"
)

func TestNewSelectsEngine(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		engine string
	}{
		{"default is bark", Config{}, "bark"},
		{"explicit bark", Config{Engine: "bark"}, "bark"},
		{"mock", Config{Engine: "mock"}, "mock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.config)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if e.Name() != tt.engine {
				t.Errorf("Expected engine %q, got %q", tt.engine, e.Name())
			}
			if e.SampleRate() != DefaultSampleRate {
				t.Errorf("Expected default sample rate %d, got %d", DefaultSampleRate, e.SampleRate())
			}
		})
	}
}

func TestNewCustomSampleRate(t *testing.T) {
	e, err := New(Config{Engine: "mock", SampleRate: 24000})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e.SampleRate() != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", e.SampleRate())
	}
}

func TestNewUnknownEngine(t *testing.T) {
	_, err := New(Config{Engine: "parrot"})
	if err == nil {
		t.Fatal("Expected error for unknown engine")
	}
	if !strings.Contains(err.Error(), "parrot") {
		t.Errorf("Expected engine name in error, got %v", err)
	}
}
