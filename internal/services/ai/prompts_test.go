package ai

import (
	"strings"
	"testing"
)

func TestBuildTranscriptPrompt(t *testing.T) {
	tests := []struct {
		name       string
		sourceKind string
		contains   []string
		excludes   []string
	}{
		{
			name:       "YouTube source",
			sourceKind: SourceYouTube,
			contains: []string{
				`The video is titled "Easy Ramen"`,
				"Transcript:\nboil the noodles",
				`"servings": 4`,
				"IMPORTANT FORMATTING RULES",
				"NEVER ranges",
				"Recipe name from the video",
			},
			excludes: []string{"social media video", "recipe web page"},
		},
		{
			name:       "Social source",
			sourceKind: SourceSocial,
			contains:   []string{"short social media video", "voiceover"},
		},
		{
			name:       "Web page source",
			sourceKind: SourceWebPage,
			contains:   []string{"recipe web page", "authoritative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildTranscriptPrompt("boil the noodles", "Easy Ramen", tt.sourceKind)

			for _, s := range tt.contains {
				if !strings.Contains(prompt, s) {
					t.Errorf("BuildTranscriptPrompt() missing expected string: %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(prompt, s) {
					t.Errorf("BuildTranscriptPrompt() contains unexpected string: %q", s)
				}
			}
		})
	}
}

func TestPromptsShareSchemaAndRules(t *testing.T) {
	prompts := map[string]string{
		"transcript": BuildTranscriptPrompt("t", "x", ""),
		"title":      BuildTitlePrompt("Grandma's Lasagna"),
		"query":      BuildQueryPrompt("lasagna"),
	}

	for name, prompt := range prompts {
		for _, s := range []string{
			"Return servings and calories as plain numbers",
			`"ingredients": ["flour", "sugar"]`,
			`"allergens"`,
			formattingRulesSection,
		} {
			if !strings.Contains(prompt, s) {
				t.Errorf("%s prompt missing %q", name, s)
			}
		}
		if strings.Contains(prompt, "%!") {
			t.Errorf("%s prompt has a formatting error", name)
		}
	}

	if !strings.Contains(prompts["title"], `"Grandma's Lasagna"`) {
		t.Error("title prompt should quote the title")
	}
	if !strings.Contains(prompts["query"], `recipe for "lasagna"`) {
		t.Error("query prompt should quote the dish")
	}
}

func TestBuildFoodValidationPrompt(t *testing.T) {
	prompt := BuildFoodValidationPrompt("pad thai")

	for _, s := range []string{`Input: "pad thai"`, `"isFood"`, `"confidence"`, "Be strict"} {
		if !strings.Contains(prompt, s) {
			t.Errorf("BuildFoodValidationPrompt() missing %q", s)
		}
	}
}
