package captions

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/socialchef/yeschef/internal/cache"
	"github.com/socialchef/yeschef/internal/metrics"
)

const noTranscriptDescription = "No transcript available - transcripts may be disabled for this video"

// Subtitle is the wire form of a segment returned by the captions endpoint.
type Subtitle struct {
	Start string `json:"start"`
	Dur   string `json:"dur"`
	Text  string `json:"text"`
}

// Captions is the captions endpoint payload.
type Captions struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subtitles   []Subtitle `json:"subtitles"`
}

// Fetcher runs the transcript strategies in order behind a cache.
type Fetcher struct {
	cache     cache.Cache[Transcript]
	providers []TranscriptProvider
	details   []DetailsProvider
	defaults  Options
}

// NewFetcher wires the cache and strategies. Providers that also implement
// DetailsProvider are used for metadata lookups in the same order.
func NewFetcher(c cache.Cache[Transcript], defaults Options, providers ...TranscriptProvider) *Fetcher {
	f := &Fetcher{cache: c, providers: providers, defaults: defaults}
	for _, p := range providers {
		if d, ok := p.(DetailsProvider); ok {
			f.details = append(f.details, d)
		}
	}
	return f
}

// GetTranscript returns the cached transcript or the first non-empty result
// from the strategies. It returns nil when every strategy fails.
func (f *Fetcher) GetTranscript(ctx context.Context, videoID string, opts Options) Transcript {
	if len(opts.PreferredLangs) == 0 {
		opts.PreferredLangs = f.defaults.PreferredLangs
	}

	if cached, ok := f.cache.Get(ctx, videoID); ok {
		return cached
	}

	for _, p := range f.providers {
		transcript, err := p.Fetch(ctx, videoID, opts)
		if err == nil && len(transcript) > 0 {
			metrics.RecordTranscriptStrategy(ctx, p.Name(), true)
			slog.Info("Transcript extracted",
				"video_id", videoID,
				"strategy", p.Name(),
				"segments", len(transcript))
			f.cache.Set(ctx, videoID, transcript)
			return transcript
		}

		metrics.RecordTranscriptStrategy(ctx, p.Name(), false)
		if err == nil {
			err = ErrEmptyTranscript
		}
		slog.Warn("Transcript strategy failed",
			"video_id", videoID,
			"strategy", p.Name(),
			"error", err)

		if ctx.Err() != nil {
			return nil
		}
	}
	return nil
}

// Details returns metadata from the first provider that has it.
func (f *Fetcher) Details(ctx context.Context, videoID string) (*VideoDetails, error) {
	var lastErr error = ErrDetailsUnavailable
	for _, d := range f.details {
		details, err := d.Details(ctx, videoID)
		if err == nil {
			return details, nil
		}
		lastErr = err
		slog.Debug("Video details lookup failed", "video_id", videoID, "error", err)
	}
	return nil, lastErr
}

// Captions builds the captions endpoint payload. A video without captions
// yields an empty subtitle list, not an error.
func (f *Fetcher) Captions(ctx context.Context, videoID, lang string) *Captions {
	opts := f.defaults
	if lang != "" {
		opts.PreferredLangs = prependLang(lang, f.defaults.PreferredLangs)
	}

	out := &Captions{
		Title:     fmt.Sprintf("Video %s", videoID),
		Subtitles: []Subtitle{},
	}

	transcript := f.GetTranscript(ctx, videoID, opts)
	if len(transcript) == 0 {
		out.Description = noTranscriptDescription
		return out
	}

	if details, err := f.Details(ctx, videoID); err == nil {
		out.Title = details.Title
		out.Description = details.Description
	}

	for _, s := range transcript {
		out.Subtitles = append(out.Subtitles, Subtitle{
			Start: strconv.FormatFloat(s.Start, 'f', -1, 64),
			Dur:   strconv.FormatFloat(s.Duration, 'f', -1, 64),
			Text:  s.Text,
		})
	}
	return out
}

func prependLang(lang string, rest []string) []string {
	langs := []string{lang}
	for _, l := range rest {
		if l != lang {
			langs = append(langs, l)
		}
	}
	return langs
}
