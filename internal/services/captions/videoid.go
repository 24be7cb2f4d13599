package captions

import (
	"regexp"
	"strings"
)

var (
	youtubeURLRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	bareIDRe     = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11 character id from a YouTube URL or a bare id.
func ExtractVideoID(input string) (string, error) {
	if m := youtubeURLRe.FindStringSubmatch(input); len(m) > 1 {
		return m[1], nil
	}
	trimmed := strings.TrimSpace(input)
	if bareIDRe.MatchString(trimmed) {
		return trimmed, nil
	}
	return "", ErrInvalidVideoID
}

// IsYouTubeURL reports whether input points at youtube.com or youtu.be.
func IsYouTubeURL(input string) bool {
	lower := strings.ToLower(input)
	return strings.Contains(lower, "youtube.com") || strings.Contains(lower, "youtu.be")
}
