// Package search resolves dish names to cooking videos, recipe pages and
// food photos through the Google Custom Search JSON API.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/socialchef/yeschef/internal/httpclient"
)

const defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// ErrNotConfigured is returned when the API key or engine id is missing.
var ErrNotConfigured = errors.New("google custom search not configured")

// Query is a single Custom Search request.
type Query struct {
	Q     string
	Num   int
	Image bool
}

// Image holds the dimensions reported for image results.
type Image struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ContextLink string `json:"contextLink"`
}

// Item is one search result.
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
	Snippet     string `json:"snippet"`
	Image       *Image `json:"image,omitempty"`
}

// AtLeast reports whether the item is an image of at least w x h pixels.
func (i Item) AtLeast(w, h int) bool {
	return i.Image != nil && i.Image.Width >= w && i.Image.Height >= h
}

// Searcher runs Custom Search queries.
type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, q Query) ([]Item, error)
}

// Client calls the Custom Search JSON API.
type Client struct {
	apiKey     string
	engineID   string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client. An empty endpoint uses the public API.
func NewClient(apiKey, engineID, endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		apiKey:     apiKey,
		engineID:   engineID,
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Enabled reports whether both credentials are set.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.engineID != ""
}

// Search runs q with safe search on.
func (c *Client) Search(ctx context.Context, q Query) ([]Item, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", q.Q)
	params.Set("safe", "active")
	if q.Num > 0 {
		params.Set("num", strconv.Itoa(q.Num))
	}
	if q.Image {
		params.Set("searchType", "image")
		params.Set("imgType", "photo")
		params.Set("imgSize", "large")
		params.Set("imgColorType", "color")
	}

	ctx = httpclient.WithProvider(ctx, httpclient.ProviderGoogleSearch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("custom search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("custom search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Items []Item `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode custom search response: %w", err)
	}
	return result.Items, nil
}
