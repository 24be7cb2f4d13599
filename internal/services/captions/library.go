package captions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kkdai/youtube/v2"
)

// videoClient is the subset of the youtube client used here.
type videoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error)
}

// LibraryProvider fetches captions through github.com/kkdai/youtube.
type LibraryProvider struct {
	client videoClient
}

// NewLibraryProvider creates the library strategy on top of httpClient.
func NewLibraryProvider(httpClient *http.Client) *LibraryProvider {
	return &LibraryProvider{client: &youtube.Client{HTTPClient: httpClient}}
}

func (p *LibraryProvider) Name() string { return "library" }

// Fetch downloads the transcript in the first preferred language.
func (p *LibraryProvider) Fetch(ctx context.Context, videoID string, opts Options) (Transcript, error) {
	lang := "en"
	if len(opts.PreferredLangs) > 0 {
		lang = opts.PreferredLangs[0]
	}

	video, err := p.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}

	segments, err := p.client.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}

	out := make(Transcript, 0, len(segments))
	for _, s := range segments {
		text := cleanText(s.Text)
		if text == "" || s.StartMs < 0 {
			continue
		}
		out = append(out, Segment{
			Text:     text,
			Start:    float64(s.StartMs) / 1000,
			Duration: float64(max(s.Duration, 0)) / 1000,
		})
	}
	if len(out) == 0 {
		return nil, ErrEmptyTranscript
	}
	return out, nil
}

// Details returns title, description and the largest thumbnail.
func (p *LibraryProvider) Details(ctx context.Context, videoID string) (*VideoDetails, error) {
	video, err := p.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	if video.Title == "" {
		return nil, ErrDetailsUnavailable
	}

	details := &VideoDetails{
		Title:       video.Title,
		Description: video.Description,
	}
	var best uint
	for _, th := range video.Thumbnails {
		if th.Width >= best {
			best = th.Width
			details.Thumbnail = th.URL
		}
	}
	return details, nil
}
