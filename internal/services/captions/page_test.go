package captions

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTimedText = `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0.5" dur="2.1">Today we&amp;#39;re making pasta</text>
<text start="2.6" dur="1.4">[Music]</text>
<text start="4" dur="3">   </text>
<text start="7.25" dur="2">Add 2 cups of flour &amp;amp; salt</text>
</transcript>`

func watchPage(baseURL string) string {
	return fmt.Sprintf(`<html><head><meta property="og:title" content="OG Title"></head><body><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%[1]s/timedtext?lang=en&kind=asr","languageCode":"en","kind":"asr"},{"baseUrl":"%[1]s/timedtext?lang=en","languageCode":"en"}]}},"videoDetails":{"title":"Fresh Pasta","shortDescription":"2 cups flour, 3 eggs","thumbnail":{"thumbnails":[{"url":"small.jpg","width":120},{"url":"large.jpg","width":1280}]}}};</script></body></html>`, baseURL)
}

func newPageServer(t *testing.T, captionStatuses ...int) (*httptest.Server, *int32, *atomic.Pointer[http.Header]) {
	t.Helper()
	var captionCalls int32
	seen := &atomic.Pointer[http.Header]{}

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			h := r.Header.Clone()
			seen.Store(&h)
			w.Write([]byte(watchPage(server.URL)))
		case "/timedtext":
			n := atomic.AddInt32(&captionCalls, 1)
			assert.Empty(t, r.URL.Query().Get("kind"), "manual track should be selected")
			if int(n) <= len(captionStatuses) {
				w.WriteHeader(captionStatuses[n-1])
				return
			}
			w.Write([]byte(sampleTimedText))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &captionCalls, seen
}

func newTestPageProvider(server *httptest.Server, cookie string) *PageProvider {
	p := NewPageProvider(server.Client(), cookie)
	p.watchURL = server.URL + "/watch"
	p.retryStep = time.Millisecond
	return p
}

func TestPageProviderFetch(t *testing.T) {
	server, calls, seen := newPageServer(t)
	p := newTestPageProvider(server, "SID=abc")

	transcript, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", Options{PreferredLangs: []string{"en"}})
	require.NoError(t, err)

	require.Len(t, transcript, 3)
	assert.Equal(t, Segment{Text: "Today we're making pasta", Start: 0.5, Duration: 2.1}, transcript[0])
	assert.Equal(t, "[Music]", transcript[1].Text)
	assert.Equal(t, "Add 2 cups of flour & salt", transcript[2].Text)
	assert.Equal(t, 7.25, transcript[2].Start)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	headers := *seen.Load()
	assert.Equal(t, "SID=abc", headers.Get("Cookie"))
	assert.Equal(t, acceptLanguage, headers.Get("Accept-Language"))
	assert.Contains(t, headers.Get("User-Agent"), "Mozilla/5.0")
}

func TestPageProviderRetriesTransientStatus(t *testing.T) {
	server, calls, _ := newPageServer(t, http.StatusTooManyRequests, http.StatusBadGateway)
	p := newTestPageProvider(server, "")

	transcript, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", Options{PreferredLangs: []string{"en"}})
	require.NoError(t, err)
	assert.Len(t, transcript, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestPageProviderGivesUpAfterThreeAttempts(t *testing.T) {
	server, calls, _ := newPageServer(t, 500, 500, 500, 500)
	p := newTestPageProvider(server, "")

	_, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", Options{})
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestPageProviderHardFailureOnClientError(t *testing.T) {
	server, calls, _ := newPageServer(t, http.StatusForbidden)
	p := newTestPageProvider(server, "")

	_, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestPageProviderNoPlayerResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta property="og:title" content="Only OG"><meta property="og:description" content="desc"></head></html>`))
	}))
	defer server.Close()
	p := newTestPageProvider(server, "")

	_, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", Options{})
	assert.ErrorIs(t, err, ErrNoPlayerResponse)

	details, err := p.Details(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Only OG", details.Title)
	assert.Equal(t, "desc", details.Description)
}

func TestPageProviderDetails(t *testing.T) {
	server, _, _ := newPageServer(t)
	p := newTestPageProvider(server, "")

	details, err := p.Details(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Pasta", details.Title)
	assert.Equal(t, "2 cups flour, 3 eggs", details.Description)
	assert.Equal(t, "large.jpg", details.Thumbnail)
}

func TestPageProviderVideoPageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	p := newTestPageProvider(server, "")

	_, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch video page: 503")
}

func TestParseTimedText(t *testing.T) {
	_, err := ParseTimedText([]byte(`<transcript></transcript>`))
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = ParseTimedText([]byte(`<transcript><text start="1" dur="1"> </text></transcript>`))
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	transcript, err := ParseTimedText([]byte(`<transcript><text start="1.5" dur="2">caf&eacute; au lait</text></transcript>`))
	require.NoError(t, err)
	assert.Equal(t, "café au lait", transcript[0].Text)
}

func TestParseTimedTextDropsBadOffsets(t *testing.T) {
	transcript, err := ParseTimedText([]byte(`<transcript>` +
		`<text start="NaN" dur="1">nan start</text>` +
		`<text start="-3" dur="1">negative start</text>` +
		`<text start="+Inf">infinite start</text>` +
		`<text start="abc">garbage start</text>` +
		`<text start="2.5" dur="NaN">bad duration</text>` +
		`<text start="4" dur="-1">negative duration</text>` +
		`<text dur="1">no start</text>` +
		`</transcript>`))
	require.NoError(t, err)

	require.Len(t, transcript, 3)
	assert.Equal(t, Segment{Text: "bad duration", Start: 2.5}, transcript[0])
	assert.Equal(t, Segment{Text: "negative duration", Start: 4}, transcript[1])
	assert.Equal(t, Segment{Text: "no start", Duration: 1}, transcript[2])

	_, err = ParseTimedText([]byte(`<transcript><text start="NaN">only</text></transcript>`))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}
