// Package orchestrator runs the recipe request pipeline: cache lookup,
// video resolution, transcript acquisition, content selection, recipe
// extraction, image lookup and caching.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/socialchef/yeschef/internal/cache"
	"github.com/socialchef/yeschef/internal/errors"
	"github.com/socialchef/yeschef/internal/logger"
	"github.com/socialchef/yeschef/internal/metrics"
	"github.com/socialchef/yeschef/internal/services/captions"
	"github.com/socialchef/yeschef/internal/services/recipe"
	"github.com/socialchef/yeschef/internal/services/social"
	"github.com/socialchef/yeschef/internal/services/webpage"
)

// State is a step of the request pipeline.
type State string

const (
	StateReceivingInput         State = "ReceivingInput"
	StateResolving              State = "Resolving"
	StateExtractingCaptions     State = "ExtractingCaptions"
	StateSelectingContentSource State = "SelectingContentSource"
	StateExtractingRecipe       State = "ExtractingRecipe"
	StateResolvingImage         State = "ResolvingImage"
	StateCaching                State = "Caching"
	StateResponding             State = "Responding"
	StateError                  State = "Error"
)

// Request is one recipe request. VideoInput wins over RecipeName when both
// are set.
type Request struct {
	RecipeName string `json:"recipeName"`
	VideoInput string `json:"videoInput"`
	Lang       string `json:"lang"`
}

func (r Request) trimmed() Request {
	return Request{
		RecipeName: strings.TrimSpace(r.RecipeName),
		VideoInput: strings.TrimSpace(r.VideoInput),
		Lang:       strings.TrimSpace(r.Lang),
	}
}

// Envelope is the cached response payload.
type Envelope struct {
	VideoID          string         `json:"videoId,omitempty"`
	VideoTitle       string         `json:"videoTitle,omitempty"`
	VideoDescription string         `json:"videoDescription,omitempty"`
	Platform         string         `json:"platform,omitempty"`
	OriginalURL      string         `json:"originalUrl,omitempty"`
	Thumbnail        string         `json:"thumbnail,omitempty"`
	Recipe           *recipe.Recipe `json:"recipe"`
}

// Result is a successful pipeline run.
type Result struct {
	Data      Envelope
	FromCache bool
}

// TranscriptSource is the YouTube caption adapter.
type TranscriptSource interface {
	GetTranscript(ctx context.Context, videoID string, opts captions.Options) captions.Transcript
	Details(ctx context.Context, videoID string) (*captions.VideoDetails, error)
}

// SocialSource transcribes social platform videos.
type SocialSource interface {
	GetTranscript(ctx context.Context, videoURL, lang string) (*social.Video, error)
}

// PageSource reads recipe web pages.
type PageSource interface {
	Fetch(ctx context.Context, rawURL string) (*webpage.Page, error)
}

// VideoResolver finds a recipe video or page for a dish name.
type VideoResolver interface {
	ResolveVideo(ctx context.Context, dish string) (string, bool)
}

// ImageResolver finds a photo for a dish.
type ImageResolver interface {
	ResolveImage(ctx context.Context, dish, originalQuery string) (string, bool)
}

// RecipeEngine turns text into recipes.
type RecipeEngine interface {
	ExtractFromTranscript(ctx context.Context, text, title, sourceKind string) (*recipe.Recipe, error)
	GenerateFromTitle(ctx context.Context, title string) (*recipe.Recipe, error)
	GenerateFromQuery(ctx context.Context, dish string) (*recipe.Recipe, error)
}

// Deps are the collaborators of an Orchestrator. All fields are required
// except CaptionOptions.
type Deps struct {
	Captions TranscriptSource
	Social   SocialSource
	Pages    PageSource
	Videos   VideoResolver
	Images   ImageResolver
	Engine   RecipeEngine
	Cache    cache.Cache[Envelope]

	// ModelConfigured is false when no model API key is set. Every uncached
	// request then fails with 401.
	ModelConfigured bool
	CaptionOptions  captions.Options
}

type Orchestrator struct {
	deps Deps
}

func New(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// Run executes the pipeline for req. Returned errors are always
// *errors.AppError.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	req = req.trimmed()
	o.transition(ctx, StateReceivingInput,
		"recipe_name", req.RecipeName,
		"video_input", req.VideoInput)

	if req.RecipeName == "" && req.VideoInput == "" {
		return nil, o.fail(ctx, "input", start, errors.NewValidationError(
			"Please provide either a recipe name or YouTube URL",
			"MISSING_INPUT",
			"Send recipeName or videoInput in the request body."))
	}

	key := CacheKey(req)
	if env, ok := o.deps.Cache.Get(ctx, key); ok {
		slog.InfoContext(ctx, "Serving recipe from cache", "key", key)
		metrics.RecordRecipeRequest(ctx, "cache", "success", time.Since(start))
		return &Result{Data: env, FromCache: true}, nil
	}

	if !o.deps.ModelConfigured {
		appErr := errors.NewCredentialError(
			"OpenAI API key not configured - please add OPENAI_API_KEY to your environment variables",
			"MISSING_OPENAI_KEY",
			nil)
		appErr.Recovery = "Missing OPENAI_API_KEY environment variable"
		return nil, o.fail(ctx, "input", start, appErr)
	}

	env, source, err := o.build(ctx, req)
	if err != nil {
		return nil, o.fail(ctx, source, start, err)
	}

	o.transition(ctx, StateCaching, "key", key)
	o.deps.Cache.Set(ctx, key, *env)

	o.transition(ctx, StateResponding, "source", source)
	metrics.RecordRecipeRequest(ctx, source, "success", time.Since(start))
	slog.InfoContext(ctx, "Recipe request completed",
		"source", source,
		"title", env.Recipe.Title,
		"duration_ms", time.Since(start).Milliseconds())

	return &Result{Data: *env}, nil
}

// build produces the envelope and reports which source it came from.
func (o *Orchestrator) build(ctx context.Context, req Request) (*Envelope, string, error) {
	target := req.VideoInput
	resolved := false

	if target == "" {
		o.transition(ctx, StateResolving, "dish", req.RecipeName)
		url, ok := o.deps.Videos.ResolveVideo(ctx, req.RecipeName)
		if !ok {
			slog.InfoContext(ctx, "No video found, generating recipe from query", "dish", req.RecipeName)
			env, err := o.fromQuery(ctx, req.RecipeName)
			return env, sourceQuery, err
		}
		target = url
		resolved = true
	}

	env, source, err := o.fromTarget(ctx, target, req)
	if err != nil && resolved && isSourceFailure(err) {
		slog.WarnContext(ctx, "Resolved source unusable, generating recipe from query",
			"url", target,
			"error", err)
		env, err = o.fromQuery(ctx, req.RecipeName)
		return env, sourceQuery, err
	}
	return env, source, err
}

func (o *Orchestrator) fromTarget(ctx context.Context, target string, req Request) (*Envelope, string, error) {
	switch {
	case social.IsSocialURL(target):
		env, err := o.fromSocial(ctx, target, req)
		return env, sourceSocial, err
	case captions.IsYouTubeURL(target):
		env, err := o.fromYouTube(ctx, target, req)
		return env, sourceYouTube, err
	case isWebURL(target):
		env, err := o.fromPage(ctx, target, req)
		return env, sourceWebPage, err
	default:
		env, err := o.fromYouTube(ctx, target, req)
		return env, sourceYouTube, err
	}
}

// withImage resolves the recipe photo and attaches it. fallback is used
// when the resolver misses.
func (o *Orchestrator) withImage(ctx context.Context, r *recipe.Recipe, title, query, fallback string) {
	dish := r.Title
	if dish == "" {
		dish = title
	}
	o.transition(ctx, StateResolvingImage, "dish", dish)
	if img, ok := o.deps.Images.ResolveImage(ctx, dish, query); ok {
		r.Image = img
		return
	}
	r.Image = fallback
}

func (o *Orchestrator) fail(ctx context.Context, source string, start time.Time, err error) error {
	appErr := MapError(err)
	o.transition(ctx, StateError,
		"status", appErr.StatusCode,
		"code", appErr.ErrorCode)
	if appErr.StatusCode >= 500 {
		slog.ErrorContext(ctx, "Recipe request failed", "source", source, "error", err, logger.WithTraceContext(ctx))
	} else {
		slog.WarnContext(ctx, "Recipe request rejected", "source", source, "error", err, logger.WithTraceContext(ctx))
	}
	metrics.RecordRecipeRequest(ctx, source, "error", time.Since(start))
	return appErr
}

func (o *Orchestrator) transition(ctx context.Context, s State, args ...any) {
	args = append([]any{"state", string(s), logger.WithTraceContext(ctx)}, args...)
	slog.DebugContext(ctx, "Recipe pipeline", args...)
}
