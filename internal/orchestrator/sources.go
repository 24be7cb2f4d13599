package orchestrator

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/socialchef/yeschef/internal/errors"
	"github.com/socialchef/yeschef/internal/services/ai"
	"github.com/socialchef/yeschef/internal/services/captions"
	"github.com/socialchef/yeschef/internal/services/recipe"
	"github.com/socialchef/yeschef/internal/services/social"
	"github.com/socialchef/yeschef/internal/services/webpage"
	"github.com/socialchef/yeschef/internal/validation"
)

const (
	sourceQuery   = "query"
	sourceYouTube = "youtube"
	sourceSocial  = "social"
	sourceWebPage = "webpage"
)

// ErrNoContent means a source had neither transcript, description nor
// title to build a recipe from.
var ErrNoContent = stderrors.New("no usable transcript, description or title")

// content is what a source contributed for extraction.
type content struct {
	title       string
	description string
	transcript  string
	query       string
	kind        string
}

func (o *Orchestrator) fromQuery(ctx context.Context, dish string) (*Envelope, error) {
	o.transition(ctx, StateExtractingRecipe, "source", sourceQuery)
	r, err := o.deps.Engine.GenerateFromQuery(ctx, dish)
	if err != nil {
		return nil, err
	}
	o.withImage(ctx, r, dish, dish, "")
	return &Envelope{Recipe: r}, nil
}

func (o *Orchestrator) fromYouTube(ctx context.Context, input string, req Request) (*Envelope, error) {
	videoID, err := captions.ExtractVideoID(input)
	if err != nil {
		return nil, err
	}
	o.transition(ctx, StateExtractingCaptions, "video_id", videoID)

	opts := o.deps.CaptionOptions
	if req.Lang != "" {
		opts.PreferredLangs = append([]string{req.Lang}, opts.PreferredLangs...)
	}

	var (
		transcript captions.Transcript
		details    *captions.VideoDetails
	)
	var g errgroup.Group
	g.Go(func() error {
		transcript = o.deps.Captions.GetTranscript(ctx, videoID, opts)
		return nil
	})
	g.Go(func() error {
		d, err := o.deps.Captions.Details(ctx, videoID)
		if err != nil {
			slog.DebugContext(ctx, "Video details unavailable", "video_id", videoID, "error", err)
			return nil
		}
		details = d
		return nil
	})
	_ = g.Wait()

	if details == nil {
		details = &captions.VideoDetails{}
	}

	r, err := o.extract(ctx, content{
		title:       details.Title,
		description: details.Description,
		transcript:  FilterTranscript(transcript),
		query:       req.RecipeName,
		kind:        ai.SourceYouTube,
	})
	if err != nil {
		return nil, err
	}
	o.withImage(ctx, r, details.Title, req.RecipeName, "")

	return &Envelope{
		VideoID:          videoID,
		VideoTitle:       details.Title,
		VideoDescription: details.Description,
		Thumbnail:        details.Thumbnail,
		Recipe:           r,
	}, nil
}

func (o *Orchestrator) fromSocial(ctx context.Context, videoURL string, req Request) (*Envelope, error) {
	o.transition(ctx, StateExtractingCaptions, "url", videoURL, "platform", social.DetectPlatform(videoURL))

	video, err := o.deps.Social.GetTranscript(ctx, videoURL, req.Lang)
	if err != nil {
		return nil, err
	}

	r, err := o.extract(ctx, content{
		title:       video.Title,
		description: video.Description,
		transcript:  FilterTranscript(video.Subtitles),
		query:       req.RecipeName,
		kind:        ai.SourceSocial,
	})
	if err != nil {
		return nil, err
	}
	o.withImage(ctx, r, video.Title, req.RecipeName, video.Thumbnail)

	return &Envelope{
		VideoTitle:       video.Title,
		VideoDescription: video.Description,
		Platform:         video.Platform,
		OriginalURL:      video.OriginalURL,
		Thumbnail:        video.Thumbnail,
		Recipe:           r,
	}, nil
}

func (o *Orchestrator) fromPage(ctx context.Context, pageURL string, req Request) (*Envelope, error) {
	o.transition(ctx, StateExtractingCaptions, "url", pageURL)

	page, err := o.deps.Pages.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	r, err := o.extract(ctx, content{
		title:      page.Title,
		transcript: page.Text,
		query:      req.RecipeName,
		kind:       ai.SourceWebPage,
	})
	if err != nil {
		return nil, err
	}
	o.withImage(ctx, r, page.Title, req.RecipeName, page.Image)

	return &Envelope{
		VideoTitle:       page.Title,
		VideoDescription: page.Description,
		Platform:         "web",
		OriginalURL:      pageURL,
		Thumbnail:        page.Image,
		Recipe:           r,
	}, nil
}

// extract selects the content to send to the model and runs extraction.
func (o *Orchestrator) extract(ctx context.Context, c content) (*recipe.Recipe, error) {
	o.transition(ctx, StateSelectingContentSource,
		"description_chars", len(c.description),
		"transcript_chars", len(c.transcript))

	sel := validation.SelectContent(c.description, c.transcript, c.title)
	o.transition(ctx, StateExtractingRecipe, "content", string(sel.Source))

	switch sel.Source {
	case validation.SourceNone:
		return nil, errors.NewTranscriptError(transcriptFailureMessage, "NO_USABLE_CONTENT", ErrNoContent)
	case validation.SourceTitle:
		return o.deps.Engine.GenerateFromTitle(ctx, c.title)
	default:
		title := firstNonEmpty(c.title, c.query, "Recipe")
		return o.deps.Engine.ExtractFromTranscript(ctx, sel.Text, title, c.kind)
	}
}

// isSourceFailure reports whether err came from reading a source rather
// than from the model.
func isSourceFailure(err error) bool {
	return stderrors.Is(err, ErrNoContent) ||
		stderrors.Is(err, captions.ErrInvalidVideoID) ||
		stderrors.Is(err, webpage.ErrInvalidURL) ||
		stderrors.Is(err, webpage.ErrFetch) ||
		stderrors.Is(err, webpage.ErrPageStatus) ||
		stderrors.Is(err, webpage.ErrNoContent) ||
		social.IsUserError(err) ||
		stderrors.Is(err, social.ErrUpstream) ||
		stderrors.Is(err, social.ErrNotConfigured)
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
