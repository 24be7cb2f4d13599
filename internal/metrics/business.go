package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("yeschef/business")

	// Recipe metrics
	RecipeRequestsTotal   metric.Int64Counter
	RecipeRequestDuration metric.Float64Histogram
	CacheLookupsTotal     metric.Int64Counter

	// Transcript metrics
	TranscriptStrategyTotal metric.Int64Counter

	// Resolver metrics
	ResolverTierTotal metric.Int64Counter

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIGenerationDuration metric.Float64Histogram
)

func Init() error {
	var err error

	// Recipe metrics
	RecipeRequestsTotal, err = meter.Int64Counter(
		"recipe.requests.total",
		metric.WithDescription("Total number of recipe requests by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeRequestDuration, err = meter.Float64Histogram(
		"recipe.request.duration",
		metric.WithDescription("Duration of the recipe pipeline"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	CacheLookupsTotal, err = meter.Int64Counter(
		"cache.lookups.total",
		metric.WithDescription("Cache lookups by cache name and result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	TranscriptStrategyTotal, err = meter.Int64Counter(
		"transcript.strategy.total",
		metric.WithDescription("Caption extraction attempts by strategy and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ResolverTierTotal, err = meter.Int64Counter(
		"resolver.tier.total",
		metric.WithDescription("Search resolver lookups by resolver, tier and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// External API metrics
	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	// AI metrics
	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI recipe generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	return nil
}

// The Record helpers are no-ops until Init has run, so packages can be
// exercised in tests without a meter provider.

func RecordRecipeRequest(ctx context.Context, source, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	)
	if RecipeRequestsTotal != nil {
		RecipeRequestsTotal.Add(ctx, 1, attrs)
	}
	if RecipeRequestDuration != nil {
		RecipeRequestDuration.Record(ctx, d.Seconds(), attrs)
	}
}

func RecordCacheLookup(ctx context.Context, cache string, hit bool) {
	if CacheLookupsTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache", cache),
		attribute.String("result", result),
	))
}

func RecordTranscriptStrategy(ctx context.Context, strategy string, ok bool) {
	if TranscriptStrategyTotal == nil {
		return
	}
	TranscriptStrategyTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.Bool("success", ok),
	))
}

func RecordResolverTier(ctx context.Context, resolver string, tier int, hit bool) {
	if ResolverTierTotal == nil {
		return
	}
	ResolverTierTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resolver", resolver),
		attribute.Int("tier", tier),
		attribute.Bool("hit", hit),
	))
}

func RecordExternalCall(ctx context.Context, provider string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Int("status", status),
	)
	if ExternalAPICallsTotal != nil {
		ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}
	if ExternalAPIDuration != nil {
		ExternalAPIDuration.Record(ctx, d.Seconds(), attrs)
	}
}

func RecordAIGeneration(ctx context.Context, model, kind string, d time.Duration) {
	if AIGenerationDuration == nil {
		return
	}
	AIGenerationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("kind", kind),
	))
}
