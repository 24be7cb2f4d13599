// Package app wires the recipe pipeline shared by the server and worker
// binaries.
package app

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/socialchef/yeschef/internal/cache"
	"github.com/socialchef/yeschef/internal/config"
	"github.com/socialchef/yeschef/internal/httpclient"
	"github.com/socialchef/yeschef/internal/orchestrator"
	"github.com/socialchef/yeschef/internal/services/captions"
	"github.com/socialchef/yeschef/internal/services/openai"
	"github.com/socialchef/yeschef/internal/services/recipe"
	"github.com/socialchef/yeschef/internal/services/search"
	"github.com/socialchef/yeschef/internal/services/social"
	"github.com/socialchef/yeschef/internal/services/stores"
	"github.com/socialchef/yeschef/internal/services/webpage"
)

const (
	providerTimeout = 30 * time.Second
	modelTimeout    = 2 * time.Minute
)

// Pipeline holds every long-lived component built from configuration.
type Pipeline struct {
	Orchestrator *orchestrator.Orchestrator
	Engine       *recipe.Engine
	Captions     *captions.Fetcher
	Stores       *stores.Finder
	RecipeCache  *cache.Tiered[orchestrator.Envelope]

	redis *redis.Client
}

// NewPipeline builds the pipeline. Missing optional credentials leave the
// matching tier disabled.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		slog.Warn("Running with missing credentials", "missing", missing)
	}

	rdb, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	httpClient := httpclient.NewInstrumentedClient(providerTimeout)
	modelClient := httpclient.NewInstrumentedClient(modelTimeout)

	transcripts := cache.NewTiered[captions.Transcript]("transcript",
		cache.NewTTLCache[captions.Transcript](cache.Options{TTL: cfg.Cache.TranscriptTTL}),
		cache.NewRedisStore[captions.Transcript](rdb, cfg.Cache.RedisKeyPrefix+"transcript:", cfg.Cache.TranscriptTTL),
	)
	recipes := cache.NewTiered[orchestrator.Envelope]("recipe",
		cache.NewTTLCache[orchestrator.Envelope](cache.Options{
			TTL:        cfg.Cache.RecipeTTL,
			MaxEntries: cfg.Cache.RecipeCapacity,
		}),
		cache.NewRedisStore[orchestrator.Envelope](rdb, cfg.Cache.RedisKeyPrefix+"recipe:", cfg.Cache.RecipeTTL),
	)

	captionOpts := captions.Options{
		PreferredLangs: cfg.Captions.PreferredLangs,
		RequireHuman:   cfg.Captions.RequireHuman,
	}
	cookie := captions.LoadCookieHeader(cfg.YTCookie, cfg.YTCookiesFile)
	fetcher := captions.NewFetcher(transcripts, captionOpts,
		captions.NewLibraryProvider(httpClient),
		captions.NewPageProvider(httpClient, cookie),
	)

	searcher := search.NewClient(cfg.GoogleAPIKey, cfg.GoogleSearchEngineID, "", httpClient)

	engine := recipe.NewEngine(
		openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, modelClient),
		recipe.Options{
			RecipeModel:     cfg.Models.Recipe,
			ValidationModel: cfg.Models.Validation,
			MaxTokens:       cfg.Models.MaxTokens,
		},
	)

	orch := orchestrator.New(orchestrator.Deps{
		Captions:        fetcher,
		Social:          social.NewClient(cfg.VidNavigatorAPIKey, cfg.VidNavigatorBaseURL, httpClient),
		Pages:           webpage.NewClient(httpClient),
		Videos:          search.NewResolver(searcher, nil),
		Images:          search.NewImageResolver(searcher),
		Engine:          engine,
		Cache:           recipes,
		ModelConfigured: cfg.OpenAIKey != "",
		CaptionOptions:  captionOpts,
	})

	return &Pipeline{
		Orchestrator: orch,
		Engine:       engine,
		Captions:     fetcher,
		Stores:       stores.NewFinder(cfg.GooglePlacesAPIKey, "", httpClient),
		RecipeCache:  recipes,
		redis:        rdb,
	}, nil
}

// Close releases the Redis connection pool.
func (p *Pipeline) Close() error {
	if p.redis == nil {
		return nil
	}
	return p.redis.Close()
}
