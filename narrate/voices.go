package narrate

import (
	"github.com/charmbracelet/log"

	"github.com/calmnest/calmgen/narrate/content"
)

// VoiceResolver maps a narrator name and content category to a voice
// profile. Lookups are pure reads over the static library; unknown narrators
// fall back to the library's default voice instead of failing, so a typo in
// a narrator override degrades the voice rather than aborting the unit.
type VoiceResolver struct {
	lib    *content.Library
	logger *log.Logger
}

// NewVoiceResolver creates a resolver over the given content library.
func NewVoiceResolver(lib *content.Library, logger *log.Logger) *VoiceResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &VoiceResolver{lib: lib, logger: logger}
}

// Resolve picks the voice for a content unit. Precedence: explicit narrator
// override, then the sleep story's authored narrator, then the category
// default narrator, then the global default voice.
func (r *VoiceResolver) Resolve(unit ContentUnit) VoiceProfile {
	narrator := unit.Narrator
	if narrator == "" && unit.Category == CategorySleepStory {
		if story, ok := r.lib.SleepStories[unit.Key]; ok {
			narrator = story.Narrator
		}
	}
	if narrator == "" {
		narrator = r.lib.DefaultNarrators[unit.Category.String()]
	}

	if voiceID, ok := r.lib.Voices[narrator]; ok {
		return VoiceProfile{ID: voiceID, Narrator: narrator}
	}

	if narrator != "" {
		r.logger.Warn("unknown narrator, falling back to default voice",
			"narrator", narrator, "category", unit.Category)
	}
	return VoiceProfile{ID: r.lib.DefaultVoice, Narrator: narrator}
}

// StyleHint returns the category-wide style hint prefixed to every segment,
// or "" when the category has none.
func (r *VoiceResolver) StyleHint(category Category) string {
	return r.lib.StyleHints[category.String()]
}
