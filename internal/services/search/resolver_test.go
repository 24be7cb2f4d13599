package search

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher answers queries by the first matching substring rule.
type fakeSearcher struct {
	enabled bool
	rules   []rule

	mu      sync.Mutex
	queries []Query
}

type rule struct {
	contains string
	items    []Item
	err      error
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func (f *fakeSearcher) Search(_ context.Context, q Query) ([]Item, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	for _, r := range f.rules {
		if strings.Contains(q.Q, r.contains) {
			return r.items, r.err
		}
	}
	return nil, nil
}

func TestResolveVideoYouTubeTier(t *testing.T) {
	s := &fakeSearcher{enabled: true, rules: []rule{
		{contains: "site:youtube.com", items: []Item{
			{Link: "https://example.com/not-a-video"},
			{Link: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
			{Link: "https://youtu.be/bbbbbbbbbbb"},
		}},
	}}

	seen := map[string]bool{}
	resolver := NewResolver(s, rand.New(rand.NewSource(1)))
	for i := 0; i < 50; i++ {
		link, ok := resolver.ResolveVideo(context.Background(), "ramen")
		require.True(t, ok)
		seen[link] = true
	}

	assert.False(t, seen["https://example.com/not-a-video"])
	assert.True(t, seen["https://www.youtube.com/watch?v=aaaaaaaaaaa"])
	assert.True(t, seen["https://youtu.be/bbbbbbbbbbb"])
	assert.Equal(t, "ramen recipe cooking site:youtube.com", s.queries[0].Q)
	assert.Equal(t, 5, s.queries[0].Num)
}

func TestResolveVideoSeededIsDeterministic(t *testing.T) {
	items := []Item{
		{Link: "https://youtu.be/aaaaaaaaaaa"},
		{Link: "https://youtu.be/bbbbbbbbbbb"},
		{Link: "https://youtu.be/ccccccccccc"},
	}
	s := &fakeSearcher{enabled: true, rules: []rule{{contains: "youtube", items: items}}}

	first := NewResolver(s, rand.New(rand.NewSource(42)))
	second := NewResolver(s, rand.New(rand.NewSource(42)))
	for i := 0; i < 5; i++ {
		a, _ := first.ResolveVideo(context.Background(), "soup")
		b, _ := second.ResolveVideo(context.Background(), "soup")
		assert.Equal(t, a, b)
	}
}

func TestResolveVideoFallbackTiers(t *testing.T) {
	tests := []struct {
		name  string
		rules []rule
		want  string
		ok    bool
	}{
		{
			name: "allrecipes top result",
			rules: []rule{
				{contains: "site:youtube.com", err: errors.New("quota exceeded")},
				{contains: "site:allrecipes.com", items: []Item{{Link: "https://www.allrecipes.com/recipe/1/lasagna/"}}},
			},
			want: "https://www.allrecipes.com/recipe/1/lasagna/",
			ok:   true,
		},
		{
			name: "allrecipes only checks the top result",
			rules: []rule{
				{contains: "site:allrecipes.com", items: []Item{
					{Link: "https://blog.example.com/lasagna"},
					{Link: "https://www.allrecipes.com/recipe/1/lasagna/"},
				}},
				{contains: "site:foodnetwork.com", items: []Item{
					{Link: "https://pinterest.com/pin/1"},
					{Link: "https://www.seriouseats.com/lasagna"},
				}},
			},
			want: "https://www.seriouseats.com/lasagna",
			ok:   true,
		},
		{
			name: "every tier misses",
			rules: []rule{
				{contains: "site:youtube.com", items: []Item{{Link: "https://vimeo.com/1"}}},
				{contains: "site:allrecipes.com", err: errors.New("boom")},
				{contains: "site:foodnetwork.com", items: []Item{{Link: "https://pinterest.com/pin/1"}}},
			},
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSearcher{enabled: true, rules: tt.rules}
			link, ok := NewResolver(s, rand.New(rand.NewSource(1))).ResolveVideo(context.Background(), "lasagna")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, link)
		})
	}
}

func TestResolveVideoRecipeSitesQuery(t *testing.T) {
	s := &fakeSearcher{enabled: true}
	_, ok := NewResolver(s, nil).ResolveVideo(context.Background(), "gumbo")
	assert.False(t, ok)

	require.Len(t, s.queries, 3)
	assert.Equal(t, "gumbo recipe site:allrecipes.com", s.queries[1].Q)
	assert.Equal(t, 3, s.queries[1].Num)
	assert.Equal(t,
		"gumbo recipe (site:foodnetwork.com OR site:bonappetit.com OR site:epicurious.com OR site:seriouseats.com OR site:food.com OR site:delish.com OR site:tasteofhome.com)",
		s.queries[2].Q)
}

func TestResolveVideoDisabled(t *testing.T) {
	s := &fakeSearcher{enabled: false}
	_, ok := NewResolver(s, nil).ResolveVideo(context.Background(), "pho")
	assert.False(t, ok)
	assert.Empty(t, s.queries)
}
