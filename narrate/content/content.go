// Package content holds the static narration library: scripted meditations,
// breathing exercises, sleep stories, narrator voice mappings, and per-type
// style hints. The library is embedded at build time, parsed once, and never
// mutated.
package content

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed library.yaml
var libraryYAML []byte

// Script is a structured narration with a fixed intro/body/outro shape.
// Meditations and breathing exercises share this layout.
type Script struct {
	Intro string   `yaml:"intro"`
	Body  []string `yaml:"body"`
	Outro string   `yaml:"outro"`
}

// Segments returns the script's narration order: intro, body lines, outro.
func (s Script) Segments() []string {
	out := make([]string, 0, len(s.Body)+2)
	out = append(out, s.Intro)
	out = append(out, s.Body...)
	out = append(out, s.Outro)
	return out
}

// Story is a sleep story: ordered paragraphs with an authored narrator.
// Stories have no separate outro; authors embed closure in the final
// paragraph.
type Story struct {
	Narrator   string   `yaml:"narrator"`
	Paragraphs []string `yaml:"paragraphs"`
}

// Library is the complete static content catalog.
type Library struct {
	Voices           map[string]string `yaml:"voices"`
	DefaultVoice     string            `yaml:"default_voice"`
	DefaultNarrators map[string]string `yaml:"default_narrators"`
	StyleHints       map[string]string `yaml:"style_hints"`
	Meditations      map[string]Script `yaml:"meditations"`
	Breathing        map[string]Script `yaml:"breathing"`
	SleepStories     map[string]Story  `yaml:"sleep_stories"`
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the embedded library, parsed at most once per process.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Parse(libraryYAML)
	})
	return defaultLib, defaultErr
}

// Parse decodes a YAML content catalog.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse content library: %w", err)
	}
	if err := lib.validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

func (l *Library) validate() error {
	if l.DefaultVoice == "" {
		return fmt.Errorf("content library has no default voice")
	}
	for key, script := range l.Meditations {
		if script.Intro == "" || script.Outro == "" || len(script.Body) == 0 {
			return fmt.Errorf("meditation %q is incomplete", key)
		}
	}
	for key, script := range l.Breathing {
		if script.Intro == "" || script.Outro == "" || len(script.Body) == 0 {
			return fmt.Errorf("breathing exercise %q is incomplete", key)
		}
	}
	for key, story := range l.SleepStories {
		if len(story.Paragraphs) == 0 {
			return fmt.Errorf("sleep story %q has no paragraphs", key)
		}
		if story.Narrator != "" {
			if _, ok := l.Voices[story.Narrator]; !ok {
				return fmt.Errorf("sleep story %q names unknown narrator %q", key, story.Narrator)
			}
		}
	}
	return nil
}

// MeditationKeys returns the meditation script keys in sorted order.
func (l *Library) MeditationKeys() []string { return sortedKeys(l.Meditations) }

// BreathingKeys returns the breathing exercise keys in sorted order.
func (l *Library) BreathingKeys() []string { return sortedKeys(l.Breathing) }

// SleepStoryKeys returns the sleep story keys in sorted order.
func (l *Library) SleepStoryKeys() []string { return sortedKeys(l.SleepStories) }

// NarratorNames returns the known narrator names in sorted order.
func (l *Library) NarratorNames() []string { return sortedKeys(l.Voices) }

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
