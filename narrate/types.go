// Package narrate implements the long-form audio synthesis pipeline: it
// splits scripted content into narratable segments, synthesizes each segment
// through a pluggable TTS engine, stitches the waveforms together with
// silence gaps, and encodes the result to a distributable audio file.
package narrate

import (
	"fmt"
	"path/filepath"
	"time"
)

// Category identifies the kind of content being narrated.
type Category string

// Content categories.
const (
	CategoryMeditation Category = "meditation"
	CategoryBreathing  Category = "breathing"
	CategorySleepStory Category = "sleep_story"
	CategoryCustom     Category = "custom"
)

// ParseCategory validates a category name from user input.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryMeditation, CategoryBreathing, CategorySleepStory, CategoryCustom:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// SilenceGap returns the pause inserted between segments for this category.
func (c Category) SilenceGap() time.Duration {
	switch c {
	case CategoryMeditation:
		return 2 * time.Second
	case CategoryBreathing:
		return 3 * time.Second
	case CategorySleepStory:
		return 2500 * time.Millisecond
	default:
		return time.Second
	}
}

// Subpath returns the output directory for this category, relative to the
// configured output root.
func (c Category) Subpath() string {
	switch c {
	case CategoryMeditation:
		return filepath.Join("audio", "meditation")
	case CategoryBreathing:
		return filepath.Join("audio", "breathing")
	case CategorySleepStory:
		return filepath.Join("audio", "sleep")
	default:
		return "audio"
	}
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// ContentUnit identifies one narratable work: a scripted entry selected by
// category and key, or free-form custom text. Units are constructed once per
// pipeline invocation and never mutated.
type ContentUnit struct {
	Category Category
	Key      string // script key; output name for custom text
	Text     string // free-form text, custom category only
	Narrator string // optional narrator override
}

// VoiceProfile selects the synthesized voice for a content unit.
type VoiceProfile struct {
	ID       string // opaque identifier understood by the engine
	Narrator string // display name, for logging only
}

// Audio holds a mono waveform of signed 16-bit samples at a fixed rate.
type Audio struct {
	Samples    []int16
	SampleRate int
}

// Duration returns the playing time of the waveform.
func (a *Audio) Duration() time.Duration {
	if a == nil || a.SampleRate == 0 {
		return 0
	}
	seconds := float64(len(a.Samples)) / float64(a.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// SynthesizedSegment pairs a synthesized waveform with its source text and
// position in the narration order. The index guarantees assembly order is
// independent of completion order.
type SynthesizedSegment struct {
	Index int
	Text  string
	Audio *Audio
}

// Format identifies an audio container/codec for encoded output.
type Format string

// Supported output formats. WAV is the lossless staging format; everything
// else is produced by transcoding a staged WAV.
const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatOGG  Format = "ogg"
	FormatFLAC Format = "flac"
)

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatWAV, FormatMP3, FormatOGG, FormatFLAC:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// OutputArtifact describes a successfully written audio file.
type OutputArtifact struct {
	Path       string
	Format     Format
	SampleRate int
}
