// Package webpage reads recipe web pages returned by the resolver and turns
// them into text the extraction engine can work from.
package webpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/socialchef/yeschef/internal/httpclient"
)

const (
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxPageBytes = 5 << 20
	// MaxTextChars bounds the text handed to the model.
	MaxTextChars = 12000
)

var (
	ErrInvalidURL = errors.New("invalid page url")
	ErrFetch      = errors.New("failed to fetch recipe page")
	// ErrPageStatus is a 4xx answer; retrying the same URL will not help.
	ErrPageStatus = errors.New("recipe page rejected the request")
	ErrNoContent  = errors.New("recipe page has no readable content")
)

// Page is the readable content of a recipe page.
type Page struct {
	URL         string
	Title       string
	Description string
	Image       string
	Text        string
	// Structured is true when Text came from schema.org Recipe markup.
	Structured bool
}

// Client fetches and parses recipe pages.
type Client struct {
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Fetch downloads rawURL and extracts its recipe content.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	ctx = httpclient.WithProvider(ctx, httpclient.ProviderWebPage)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: status %d", ErrPageStatus, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	page, err := Parse(body, pageURL)
	if err != nil {
		return nil, err
	}
	slog.Info("Recipe page parsed",
		"url", rawURL,
		"structured", page.Structured,
		"chars", len(page.Text))
	return page, nil
}

// Parse extracts the recipe content of an HTML document. schema.org Recipe
// markup wins; otherwise readability's main content is converted to
// markdown.
func Parse(body []byte, pageURL *url.URL) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		Image:       metaContent(doc, "og:image"),
	}
	if pageURL != nil {
		page.URL = pageURL.String()
	}
	if page.Description == "" {
		page.Description, _ = doc.Find(`meta[name="description"]`).Attr("content")
	}

	if rec, ok := findRecipe(doc); ok {
		if rec.Name != "" {
			page.Title = rec.Name
		}
		if rec.Description != "" {
			page.Description = rec.Description
		}
		if img := rec.image(); img != "" {
			page.Image = img
		}
		page.Text = rec.Text()
		page.Structured = page.Text != ""
	}

	if !page.Structured {
		article, err := readability.FromReader(bytes.NewReader(body), pageURL)
		if err == nil {
			if page.Title == "" {
				page.Title = strings.TrimSpace(article.Title)
			}
			page.Text = articleText(article.Content, article.TextContent)
		}
	}

	if page.Title == "" {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	page.Title = strings.TrimSpace(page.Title)
	page.Description = strings.TrimSpace(page.Description)
	page.Text = truncate(strings.TrimSpace(page.Text), MaxTextChars)

	if page.Text == "" {
		return nil, ErrNoContent
	}
	return page, nil
}

func articleText(html, plain string) string {
	if html != "" {
		if md, err := htmltomarkdown.ConvertString(html); err == nil && strings.TrimSpace(md) != "" {
			return md
		}
	}
	return plain
}

func metaContent(doc *goquery.Document, property string) string {
	v, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	return strings.TrimSpace(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndexAny(cut, "\n "); i > n/2 {
		cut = cut[:i]
	}
	return cut
}
