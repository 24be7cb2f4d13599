package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/socialchef/yeschef/internal/httpclient"
	"github.com/socialchef/yeschef/internal/services/captions"
)

const (
	defaultBaseURL = "https://api.vidnavigator.com"
	defaultTitle   = "Social Media Recipe Video"
)

// Video is a transcribed social media video.
type Video struct {
	Title       string
	Description string
	Subtitles   captions.Transcript
	Duration    *float64
	Thumbnail   string
	Platform    string
	OriginalURL string
}

type transcribeRequest struct {
	VideoURL string `json:"video_url"`
	Language string `json:"language"`
}

type transcribePayload struct {
	VideoInfo struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Duration    *float64 `json:"duration"`
		Thumbnail   string   `json:"thumbnail"`
	} `json:"video_info"`
	Transcript []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"transcript"`
}

type transcribeResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Error   string             `json:"error"`
	Data    *transcribePayload `json:"data"`
	transcribePayload
}

// Client transcribes social videos through the VidNavigator API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL uses the public API.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GetTranscript transcribes videoURL. It does not retry.
func (c *Client) GetTranscript(ctx context.Context, videoURL, lang string) (*Video, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if lang == "" {
		lang = "en"
	}

	platform := DetectPlatform(videoURL)
	slog.Info("Extracting social media transcript", "platform", platform, "url", videoURL)

	body, _ := json.Marshal(transcribeRequest{VideoURL: videoURL, Language: lang})

	ctx = httpclient.WithProvider(ctx, httpclient.ProviderVidNavigator)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcribe", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var parsed transcribeResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || parsed.Status == "error" {
		return nil, classify(resp.StatusCode, parsed.message(string(raw)))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, decodeErr)
	}

	payload := parsed.transcribePayload
	if parsed.Data != nil {
		payload = *parsed.Data
	}

	video := &Video{
		Title:       payload.VideoInfo.Title,
		Description: payload.VideoInfo.Description,
		Duration:    payload.VideoInfo.Duration,
		Thumbnail:   payload.VideoInfo.Thumbnail,
		Platform:    platform,
		OriginalURL: videoURL,
		Subtitles:   make(captions.Transcript, 0, len(payload.Transcript)),
	}
	if video.Title == "" {
		video.Title = defaultTitle
	}
	for _, seg := range payload.Transcript {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		video.Subtitles = append(video.Subtitles, captions.Segment{
			Text:     text,
			Start:    seg.Start,
			Duration: seg.End - seg.Start,
		})
	}

	slog.Info("Social media transcript extracted",
		"platform", platform,
		"segments", len(video.Subtitles))
	return video, nil
}

func (r transcribeResponse) message(fallback string) string {
	switch {
	case r.Message != "":
		return r.Message
	case r.Error != "":
		return r.Error
	default:
		return fallback
	}
}

// classify maps a failed VidNavigator response to a sentinel error.
func classify(status int, message string) error {
	lower := strings.ToLower(message)
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status == http.StatusTooManyRequests, strings.Contains(lower, "rate limit"):
		kind = ErrRateLimited
	case strings.Contains(lower, "private"), strings.Contains(lower, "unavailable"):
		kind = ErrPrivateVideo
	case status == http.StatusNotFound, strings.Contains(lower, "invalid"), strings.Contains(lower, "not found"):
		kind = ErrInvalidURL
	default:
		kind = ErrUpstream
	}
	return fmt.Errorf("%w: status %d: %s", kind, status, truncate(message, 200))
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// IsUserError reports whether err is caused by the submitted URL rather
// than the service.
func IsUserError(err error) bool {
	return errors.Is(err, ErrPrivateVideo) || errors.Is(err, ErrInvalidURL)
}
