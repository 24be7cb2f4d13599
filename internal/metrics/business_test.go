package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBeforeInit(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		RecordRecipeRequest(ctx, "query", "success", time.Second)
		RecordCacheLookup(ctx, "recipe", true)
		RecordTranscriptStrategy(ctx, "library", false)
		RecordResolverTier(ctx, "video", 1, true)
		RecordExternalCall(ctx, "google-cse", 200, time.Millisecond)
		RecordAIGeneration(ctx, "gpt-4o", "transcript", time.Second)
	})
}

func TestInit(t *testing.T) {
	require.NoError(t, Init())

	assert.NotNil(t, RecipeRequestsTotal)
	assert.NotNil(t, CacheLookupsTotal)
	assert.NotNil(t, TranscriptStrategyTotal)
	assert.NotNil(t, ResolverTierTotal)
	assert.NotNil(t, AIGenerationDuration)

	assert.NotPanics(t, func() {
		RecordCacheLookup(context.Background(), "transcript", false)
	})
}
