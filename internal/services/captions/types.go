// Package captions fetches YouTube caption transcripts through an ordered
// chain of strategies and caches successful results.
package captions

import (
	"context"
	"errors"
)

// Segment is one caption line. Start and Duration are in seconds.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is an ordered list of caption segments in source order.
type Transcript []Segment

// Track describes one caption track offered by a video.
type Track struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// IsAuto reports whether the track was generated by speech recognition.
func (t Track) IsAuto() bool {
	return t.Kind == "asr"
}

// Options tune track selection.
type Options struct {
	RequireHuman   bool
	PreferredLangs []string
}

// VideoDetails is the metadata shown alongside a transcript.
type VideoDetails struct {
	Title       string
	Description string
	Thumbnail   string
}

// TranscriptProvider is one transcript acquisition strategy.
type TranscriptProvider interface {
	Name() string
	Fetch(ctx context.Context, videoID string, opts Options) (Transcript, error)
}

// DetailsProvider returns video metadata.
type DetailsProvider interface {
	Details(ctx context.Context, videoID string) (*VideoDetails, error)
}

var (
	ErrInvalidVideoID     = errors.New("invalid YouTube URL or video ID")
	ErrNoCaptions         = errors.New("no captions found")
	ErrNoPlayerResponse   = errors.New("could not find ytInitialPlayerResponse")
	ErrEmptyTranscript    = errors.New("no transcript text found")
	ErrDetailsUnavailable = errors.New("video details unavailable")
)
