package validation

import (
	"strings"
	"testing"
)

func TestHasUsefulDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{
			name:        "Empty",
			description: "",
			want:        false,
		},
		{
			name:        "Short with keywords",
			description: "2 cups flour, 1 tsp salt",
			want:        false,
		},
		{
			name:        "Ingredient list",
			description: "Ingredients: 2 cups flour, 1 tsp salt, 3 eggs. Mix and bake until golden brown.",
			want:        true,
		},
		{
			name:        "Quantity unit only",
			description: "Grab 200 g of pasta and 3 cloves of garlic, then follow along with the video.",
			want:        true,
		},
		{
			name:        "Long but promotional",
			description: "Subscribe to the channel and follow me on social media for more videos every week!",
			want:        false,
		},
		{
			name:        "Exactly fifty characters",
			description: strings.Repeat("recipe ", 7) + "a",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasUsefulDescription(tt.description); got != tt.want {
				t.Errorf("HasUsefulDescription(%q) = %v; want %v", tt.description, got, tt.want)
			}
		})
	}
}

func TestSelectContent(t *testing.T) {
	useful := "Full recipe: 500g chicken thighs, 2 tbsp soy sauce, 1 tbsp honey, garlic and ginger."
	transcript := strings.Repeat("today we are cooking ", 6)
	short := "hi there"

	tests := []struct {
		name        string
		description string
		transcript  string
		title       string
		wantSource  Source
		wantText    string
	}{
		{"both", useful, transcript, "t", SourceCombined, useful + "\n\nVideo Transcript:\n" + transcript},
		{"description only", useful, short, "t", SourceDescription, useful},
		{"transcript only", "Like and subscribe", transcript, "t", SourceTranscript, transcript},
		{"title fallback", "", short, "Honey Garlic Chicken", SourceTitle, ""},
		{"nothing", "", "", "  ", SourceNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectContent(tt.description, tt.transcript, tt.title)
			if got.Source != tt.wantSource {
				t.Errorf("Source = %s; want %s", got.Source, tt.wantSource)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q; want %q", got.Text, tt.wantText)
			}
		})
	}
}
