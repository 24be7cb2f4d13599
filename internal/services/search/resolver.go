package search

import (
	"context"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/socialchef/yeschef/internal/metrics"
)

// RecipeSites are the recipe publishers trusted for page and image fallbacks.
var RecipeSites = []string{
	"foodnetwork.com",
	"bonappetit.com",
	"epicurious.com",
	"seriouseats.com",
	"food.com",
	"delish.com",
	"tasteofhome.com",
}

var (
	youtubeLinkRe    = regexp.MustCompile(`youtube\.com|youtu\.be`)
	allrecipesLinkRe = regexp.MustCompile(`allrecipes\.com`)
)

// Resolver finds a video or recipe page URL for a dish name.
type Resolver struct {
	searcher Searcher

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver creates a resolver. A nil rng is seeded from the clock.
func NewResolver(searcher Searcher, rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Resolver{searcher: searcher, rng: rng}
}

// ResolveVideo tries YouTube, then Allrecipes, then the other recipe sites.
// Provider failures are treated as a miss for that tier.
func (r *Resolver) ResolveVideo(ctx context.Context, dish string) (string, bool) {
	if r.searcher == nil || !r.searcher.Enabled() {
		slog.Debug("Recipe search skipped, Google credentials missing")
		return "", false
	}

	tiers := []func(context.Context, string) string{
		r.youtubeTier,
		r.allrecipesTier,
		r.recipeSitesTier,
	}
	for i, tier := range tiers {
		link := tier(ctx, dish)
		metrics.RecordResolverTier(ctx, "video", i+1, link != "")
		if link != "" {
			slog.Info("Resolved recipe source", "dish", dish, "tier", i+1, "url", link)
			return link, true
		}
		if ctx.Err() != nil {
			return "", false
		}
	}
	return "", false
}

func (r *Resolver) youtubeTier(ctx context.Context, dish string) string {
	items, err := r.searcher.Search(ctx, Query{Q: dish + " recipe cooking site:youtube.com", Num: 5})
	if err != nil {
		slog.Warn("YouTube search failed", "dish", dish, "error", err)
		return ""
	}

	var links []string
	for _, item := range items {
		if youtubeLinkRe.MatchString(item.Link) {
			links = append(links, item.Link)
		}
	}
	if len(links) == 0 {
		return ""
	}

	r.mu.Lock()
	idx := r.rng.Intn(len(links))
	r.mu.Unlock()
	return links[idx]
}

func (r *Resolver) allrecipesTier(ctx context.Context, dish string) string {
	items, err := r.searcher.Search(ctx, Query{Q: dish + " recipe site:allrecipes.com", Num: 3})
	if err != nil {
		slog.Warn("Allrecipes search failed", "dish", dish, "error", err)
		return ""
	}
	if len(items) > 0 && allrecipesLinkRe.MatchString(items[0].Link) {
		return items[0].Link
	}
	return ""
}

func (r *Resolver) recipeSitesTier(ctx context.Context, dish string) string {
	q := dish + " recipe (" + siteFilter(RecipeSites) + ")"
	items, err := r.searcher.Search(ctx, Query{Q: q, Num: 5})
	if err != nil {
		slog.Warn("Recipe site search failed", "dish", dish, "error", err)
		return ""
	}
	for _, item := range items {
		if containsAny(item.Link, RecipeSites) {
			return item.Link
		}
	}
	return ""
}

func siteFilter(sites []string) string {
	parts := make([]string, len(sites))
	for i, s := range sites {
		parts[i] = "site:" + s
	}
	return strings.Join(parts, " OR ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
