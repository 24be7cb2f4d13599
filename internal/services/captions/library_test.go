package captions

import (
	"context"
	"errors"
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVideoClient struct {
	video      *youtube.Video
	videoErr   error
	transcript youtube.VideoTranscript
	err        error
	lang       string
}

func (s *stubVideoClient) GetVideoContext(ctx context.Context, url string) (*youtube.Video, error) {
	return s.video, s.videoErr
}

func (s *stubVideoClient) GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error) {
	s.lang = lang
	return s.transcript, s.err
}

func TestLibraryProviderFetch(t *testing.T) {
	client := &stubVideoClient{
		video: &youtube.Video{ID: "dQw4w9WgXcQ", Title: "Pasta"},
		transcript: youtube.VideoTranscript{
			{Text: "Boil the water", StartMs: 1500, Duration: 2000},
			{Text: "  ", StartMs: 3500, Duration: 500},
			{Text: "Salt &amp; stir", StartMs: 4000, Duration: 1250},
		},
	}
	p := &LibraryProvider{client: client}

	transcript, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", Options{PreferredLangs: []string{"fr", "en"}})
	require.NoError(t, err)

	assert.Equal(t, "fr", client.lang, "first preferred language is requested")
	assert.Equal(t, Transcript{
		{Text: "Boil the water", Start: 1.5, Duration: 2},
		{Text: "Salt & stir", Start: 4, Duration: 1.25},
	}, transcript)
}

func TestLibraryProviderFetchErrors(t *testing.T) {
	p := &LibraryProvider{client: &stubVideoClient{videoErr: errors.New("login required")}}
	_, err := p.Fetch(context.Background(), "x", Options{})
	assert.ErrorContains(t, err, "login required")

	p = &LibraryProvider{client: &stubVideoClient{video: &youtube.Video{}, err: youtube.ErrTranscriptDisabled}}
	_, err = p.Fetch(context.Background(), "x", Options{})
	assert.ErrorIs(t, err, youtube.ErrTranscriptDisabled)

	p = &LibraryProvider{client: &stubVideoClient{video: &youtube.Video{}, transcript: youtube.VideoTranscript{{Text: ""}}}}
	_, err = p.Fetch(context.Background(), "x", Options{})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestLibraryProviderDetails(t *testing.T) {
	p := &LibraryProvider{client: &stubVideoClient{video: &youtube.Video{
		Title:       "Pasta",
		Description: "Ingredients: 2 cups flour",
		Thumbnails: youtube.Thumbnails{
			{URL: "hq.jpg", Width: 480},
			{URL: "max.jpg", Width: 1280},
			{URL: "default.jpg", Width: 120},
		},
	}}}

	details, err := p.Details(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, &VideoDetails{Title: "Pasta", Description: "Ingredients: 2 cups flour", Thumbnail: "max.jpg"}, details)

	p = &LibraryProvider{client: &stubVideoClient{video: &youtube.Video{}}}
	_, err = p.Details(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDetailsUnavailable)
}
