package search

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/socialchef/yeschef/internal/metrics"
)

var (
	redundantWordsRe = regexp.MustCompile(`(?i)recipe|food|dish`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

var imageNoise = []string{"icon", "logo", "avatar"}

// ImageResolver finds an illustrative photo for a dish.
type ImageResolver struct {
	searcher Searcher
	sites    []string
}

// NewImageResolver creates an image resolver backed by searcher.
func NewImageResolver(searcher Searcher) *ImageResolver {
	return &ImageResolver{
		searcher: searcher,
		sites:    append([]string{"allrecipes.com"}, RecipeSites...),
	}
}

// ResolveImage runs the three image tiers. originalQuery, when set, is
// used for the most specific search.
func (r *ImageResolver) ResolveImage(ctx context.Context, dish, originalQuery string) (string, bool) {
	if r.searcher == nil || !r.searcher.Enabled() {
		return "", false
	}

	term := originalQuery
	if term == "" {
		term = dish
	}

	tiers := []func() string{
		func() string { return r.specific(ctx, term) },
		func() string { return r.trustedSites(ctx, dish) },
		func() string { return r.general(ctx, dish) },
	}
	for i, tier := range tiers {
		link := tier()
		metrics.RecordResolverTier(ctx, "image", i+1, link != "")
		if link != "" {
			slog.Debug("Resolved recipe image", "dish", dish, "tier", i+1)
			return link, true
		}
		if ctx.Err() != nil {
			return "", false
		}
	}
	return "", false
}

// CleanTerm removes filler words and collapses whitespace.
func CleanTerm(term string) string {
	term = redundantWordsRe.ReplaceAllString(term, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(term, " "))
}

func (r *ImageResolver) specific(ctx context.Context, term string) string {
	clean := CleanTerm(term)
	q := `"` + clean + `" prepared dish plated food photography`
	items, err := r.searcher.Search(ctx, Query{Q: q, Num: 8, Image: true})
	if err != nil {
		slog.Warn("Specific image search failed", "term", clean, "error", err)
		return ""
	}

	lowerClean := strings.ToLower(clean)
	var candidates []Item
	for _, item := range items {
		if isNoise(item) || !item.AtLeast(500, 400) {
			continue
		}
		candidates = append(candidates, item)
	}

	for _, item := range candidates {
		title := strings.ToLower(item.Title)
		snippet := strings.ToLower(item.Snippet)
		switch {
		case containsAny(strings.ToLower(item.DisplayLink), r.sites),
			containsAny(strings.ToLower(item.Link), r.sites),
			strings.Contains(title, "recipe"),
			strings.Contains(snippet, "recipe"),
			lowerClean != "" && (strings.Contains(title, lowerClean) || strings.Contains(snippet, lowerClean)):
			return item.Link
		}
	}
	if len(candidates) > 0 {
		return candidates[0].Link
	}
	return ""
}

func (r *ImageResolver) trustedSites(ctx context.Context, dish string) string {
	q := dish + " recipe food (" + siteFilter(r.sites) + ")"
	items, err := r.searcher.Search(ctx, Query{Q: q, Num: 5, Image: true})
	if err != nil {
		slog.Warn("Recipe site image search failed", "dish", dish, "error", err)
		return ""
	}
	for _, item := range items {
		if containsAny(item.DisplayLink, r.sites) && item.AtLeast(400, 300) {
			return item.Link
		}
	}
	return ""
}

func (r *ImageResolver) general(ctx context.Context, dish string) string {
	q := dish + " food dish prepared crispy clear high quality"
	items, err := r.searcher.Search(ctx, Query{Q: q, Num: 3, Image: true})
	if err != nil {
		slog.Warn("General image search failed", "dish", dish, "error", err)
		return ""
	}
	for _, item := range items {
		if item.AtLeast(400, 300) {
			return item.Link
		}
	}
	if len(items) > 0 {
		return items[0].Link
	}
	return ""
}

func isNoise(item Item) bool {
	link := strings.ToLower(item.Link)
	title := strings.ToLower(item.Title)
	for _, n := range imageNoise {
		if strings.Contains(link, n) || strings.Contains(title, n) {
			return true
		}
	}
	return false
}
