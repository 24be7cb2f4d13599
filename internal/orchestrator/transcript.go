package orchestrator

import (
	"regexp"
	"strings"

	"github.com/socialchef/yeschef/internal/services/captions"
)

var (
	bracketedRe    = regexp.MustCompile(`^\[.*\]$`)
	musicNotesRe   = regexp.MustCompile(`^♪.*♪$`)
	singleLetterRe = regexp.MustCompile(`^[a-z]$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// fillerTokens are recognizer artifacts that carry no speech.
var fillerTokens = map[string]bool{
	"h":  true,
	"k":  true,
	"ээ": true,
}

// FilterTranscript joins caption text into one string, dropping sound
// markers like [Music], ♪ lyrics ♪, single letters and filler tokens.
func FilterTranscript(t captions.Transcript) string {
	parts := make([]string, 0, len(t))
	for _, seg := range t {
		clean := strings.ToLower(strings.TrimSpace(seg.Text))
		if clean == "" ||
			bracketedRe.MatchString(clean) ||
			musicNotesRe.MatchString(clean) ||
			singleLetterRe.MatchString(clean) ||
			fillerTokens[clean] {
			continue
		}
		parts = append(parts, seg.Text)
	}
	joined := strings.Join(parts, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(joined, " "))
}

// CacheKey derives the recipe cache key from a request: yt:<id> for
// YouTube input, url:<url> for other links and name:<dish> for dish names.
func CacheKey(req Request) string {
	input := strings.TrimSpace(req.VideoInput)
	if input != "" {
		if id, err := captions.ExtractVideoID(input); err == nil {
			return "yt:" + id
		}
		return "url:" + input
	}
	return "name:" + strings.ToLower(strings.TrimSpace(req.RecipeName))
}
