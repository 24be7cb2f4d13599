package captions

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/socialchef/yeschef/internal/httpclient"
	"github.com/socialchef/yeschef/internal/utils"
)

const (
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	acceptLanguage   = "en-US,en;q=0.9"
	defaultWatchURL  = "https://www.youtube.com/watch"
	maxPageBytes     = 8 << 20
	maxCaptionBytes  = 2 << 20
)

var playerResponseRe = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*({.+?});`)

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []Track `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	VideoDetails struct {
		Title            string `json:"title"`
		ShortDescription string `json:"shortDescription"`
		Thumbnail        struct {
			Thumbnails []struct {
				URL   string `json:"url"`
				Width int    `json:"width"`
			} `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
}

type timedText struct {
	Lines []timedLine `xml:"text"`
}

type timedLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// statusError is a non-2xx caption download.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("failed to fetch transcript: %d", e.code)
}

// PageProvider scrapes the watch page for caption tracks and downloads the
// selected track's timed text XML.
type PageProvider struct {
	client    *http.Client
	cookie    string
	watchURL  string
	retryStep time.Duration
}

// NewPageProvider creates the page strategy. cookie may be empty.
func NewPageProvider(client *http.Client, cookie string) *PageProvider {
	return &PageProvider{
		client:    client,
		cookie:    cookie,
		watchURL:  defaultWatchURL,
		retryStep: 350 * time.Millisecond,
	}
}

func (p *PageProvider) Name() string { return "page" }

// Fetch selects a caption track from the watch page and parses it.
func (p *PageProvider) Fetch(ctx context.Context, videoID string, opts Options) (Transcript, error) {
	_, player, err := p.loadPlayer(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrNoCaptions
	}

	track, ok := SelectTrack(tracks, opts)
	if !ok {
		return nil, ErrNoCaptions
	}
	kind := track.Kind
	if kind == "" {
		kind = "manual"
	}
	slog.Debug("Selected caption track", "video_id", videoID, "lang", track.LanguageCode, "kind", kind)

	body, err := p.downloadTrack(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	return ParseTimedText(body)
}

// Details reads videoDetails from the player response, falling back to the
// og:title meta tag.
func (p *PageProvider) Details(ctx context.Context, videoID string) (*VideoDetails, error) {
	page, player, err := p.loadPlayer(ctx, videoID)
	if err != nil && page == nil {
		return nil, err
	}

	details := &VideoDetails{}
	if player != nil {
		vd := player.VideoDetails
		details.Title = vd.Title
		details.Description = vd.ShortDescription
		best := -1
		for _, th := range vd.Thumbnail.Thumbnails {
			if th.Width > best {
				best = th.Width
				details.Thumbnail = th.URL
			}
		}
	}

	if details.Title == "" {
		doc, derr := goquery.NewDocumentFromReader(bytes.NewReader(page))
		if derr == nil {
			details.Title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
			if details.Description == "" {
				details.Description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
			}
		}
	}
	if details.Title == "" {
		return nil, ErrDetailsUnavailable
	}
	return details, nil
}

// loadPlayer returns the raw page and its decoded player response. The page
// is returned even when the player response is missing or malformed.
func (p *PageProvider) loadPlayer(ctx context.Context, videoID string) ([]byte, *playerResponse, error) {
	u := p.watchURL + "?v=" + url.QueryEscape(videoID)
	resp, err := p.get(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("failed to fetch video page: %d", resp.StatusCode)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("read video page: %w", err)
	}

	m := playerResponseRe.FindSubmatch(page)
	if m == nil {
		return page, nil, ErrNoPlayerResponse
	}

	var player playerResponse
	if err := json.Unmarshal(m[1], &player); err != nil {
		return page, nil, fmt.Errorf("failed to parse player response JSON: %w", err)
	}
	return page, &player, nil
}

// downloadTrack fetches timed text, retrying 429 and 5xx responses with a
// linear backoff. Any other non-2xx status fails immediately.
func (p *PageProvider) downloadTrack(ctx context.Context, trackURL string) ([]byte, error) {
	cfg := utils.LinearRetryConfig(3, p.retryStep, func(err error) bool {
		se, ok := err.(*statusError)
		return ok && (se.code == http.StatusTooManyRequests || se.code >= 500)
	})

	return utils.WithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		resp, err := p.get(ctx, trackURL)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &statusError{code: resp.StatusCode}
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	}, cfg)
}

func (p *PageProvider) get(ctx context.Context, u string) (*http.Response, error) {
	ctx = httpclient.WithProvider(ctx, httpclient.ProviderYouTube)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	if p.cookie != "" {
		req.Header.Set("Cookie", p.cookie)
	}
	return p.client.Do(req)
}

// ParseTimedText decodes a YouTube timed text document into segments,
// dropping lines that are empty after cleanup.
func ParseTimedText(body []byte) (Transcript, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var tt timedText
	if err := dec.Decode(&tt); err != nil {
		return nil, fmt.Errorf("parse timed text XML: %w", err)
	}
	if len(tt.Lines) == 0 {
		return nil, ErrEmptyTranscript
	}

	out := make(Transcript, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := cleanText(line.Text)
		if text == "" {
			continue
		}
		start, ok := parseSeconds(line.Start)
		if !ok {
			continue
		}
		dur, ok := parseSeconds(line.Dur)
		if !ok {
			dur = 0
		}
		out = append(out, Segment{Text: text, Start: start, Duration: dur})
	}
	if len(out) == 0 {
		return nil, ErrEmptyTranscript
	}
	return out, nil
}

// parseSeconds parses a timed-text offset. A missing attribute is zero;
// unparseable, non-finite and negative values are rejected.
func parseSeconds(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
