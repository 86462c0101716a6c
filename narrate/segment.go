package narrate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/calmnest/calmgen/narrate/content"
)

// Segmenter splits a content unit into an ordered sequence of narratable
// text segments. Structured content uses the authored order from the
// library; custom free text is split on sentence boundaries.
type Segmenter struct {
	lib *content.Library
}

// NewSegmenter creates a segmenter over the given content library.
func NewSegmenter(lib *content.Library) *Segmenter {
	return &Segmenter{lib: lib}
}

// Segment returns the unit's narration segments in order. It fails with
// ErrUnknownContentKey when the requested key is absent from the library and
// with ErrEmptyContent when segmentation yields nothing to narrate.
func (s *Segmenter) Segment(unit ContentUnit) ([]string, error) {
	var segments []string

	switch unit.Category {
	case CategoryMeditation:
		script, ok := s.lib.Meditations[unit.Key]
		if !ok {
			return nil, fmt.Errorf("%w: meditation %q", ErrUnknownContentKey, unit.Key)
		}
		segments = script.Segments()

	case CategoryBreathing:
		script, ok := s.lib.Breathing[unit.Key]
		if !ok {
			return nil, fmt.Errorf("%w: breathing exercise %q", ErrUnknownContentKey, unit.Key)
		}
		segments = script.Segments()

	case CategorySleepStory:
		story, ok := s.lib.SleepStories[unit.Key]
		if !ok {
			return nil, fmt.Errorf("%w: sleep story %q", ErrUnknownContentKey, unit.Key)
		}
		segments = append(segments, story.Paragraphs...)

	case CategoryCustom:
		segments = SplitSentences(unit.Text)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, unit.Category)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrEmptyContent, unit.Category, unit.Key)
	}
	return segments, nil
}

// SplitSentences splits free-form text on sentence boundaries: a run of
// terminal punctuation (. ! ?) followed by whitespace or end of text. Each
// sentence keeps its punctuation; surrounding whitespace is trimmed and
// empty results are dropped.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	lastStart := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}

		// Collect the full punctuation run, e.g. "?!" or "...".
		end := i + 1
		for end < len(runes) && (runes[end] == '.' || runes[end] == '!' || runes[end] == '?') {
			end++
		}

		// A boundary needs whitespace (or end of text) after the run.
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}

		if s := strings.TrimSpace(string(runes[lastStart:end])); s != "" {
			sentences = append(sentences, s)
		}

		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		lastStart = end
		i = end - 1
	}

	if s := strings.TrimSpace(string(runes[lastStart:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
