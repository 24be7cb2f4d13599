package captions

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// SelectTrack picks the caption track to download. Manual tracks are
// preferred over auto-generated ones; within the chosen class the first
// track whose language code starts with a preferred language wins, else the
// first track of that class.
func SelectTrack(tracks []Track, opts Options) (Track, bool) {
	var manual, auto []Track
	for _, t := range tracks {
		if t.IsAuto() {
			auto = append(auto, t)
		} else {
			manual = append(manual, t)
		}
	}

	if len(manual) > 0 {
		return findByLang(manual, opts.PreferredLangs), true
	}
	// RequireHuman only narrows the choice when a manual track exists.
	if len(auto) > 0 {
		return findByLang(auto, opts.PreferredLangs), true
	}
	return Track{}, false
}

func findByLang(tracks []Track, langs []string) Track {
	for _, lang := range langs {
		prefix := strings.ToLower(lang)
		for _, t := range tracks {
			if strings.HasPrefix(strings.ToLower(t.LanguageCode), prefix) {
				return t
			}
		}
	}
	return tracks[0]
}

var markupPolicy = bluemonday.StrictPolicy()

// cleanText decodes entities (captions are often double-escaped), strips
// inline markup and collapses whitespace.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = markupPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
