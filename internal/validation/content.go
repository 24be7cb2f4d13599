// Package validation decides which part of a video's metadata is worth
// sending to the recipe model.
package validation

import (
	"regexp"
	"strings"
)

const (
	MinDescriptionLength = 50
	MinTranscriptLength  = 100
	transcriptSeparator  = "\n\nVideo Transcript:\n"
)

// Source names the content a recipe is generated from.
type Source string

const (
	SourceCombined    Source = "description+transcript"
	SourceDescription Source = "description"
	SourceTranscript  Source = "transcript"
	SourceTitle       Source = "title"
	SourceNone        Source = "none"
)

// recipeIndicators for quick heuristic validation
var recipeIndicators = []string{
	// Measurement units
	"cup", "tbsp", "tsp", "tablespoon", "teaspoon", "gram", "ounce", "oz", "lb", "pound", "ml", "kg",
	// Recipe terms
	"ingredient", "recipe", "step",
}

var quantityUnitRe = regexp.MustCompile(`(?i)\b\d+(?:[./]\d+)?\s*(?:g|kg|ml|l|oz|lbs?|cups?|tbsps?|tsps?|tablespoons?|teaspoons?|grams?|pounds?|ounces?|cloves?|pinch(?:es)?)\b`)

// HasUsefulDescription reports whether a description is long enough and
// reads like it contains recipe details.
func HasUsefulDescription(description string) bool {
	description = strings.TrimSpace(description)
	if len(description) <= MinDescriptionLength {
		return false
	}
	lower := strings.ToLower(description)
	for _, ind := range recipeIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return quantityUnitRe.MatchString(description)
}

// Selection is the content chosen for recipe extraction.
type Selection struct {
	Source Source
	// Text is empty for SourceTitle and SourceNone.
	Text string
}

// SelectContent picks the best input for the model: description plus
// transcript, either alone, or the title as a last resort.
func SelectContent(description, transcript, title string) Selection {
	useDescription := HasUsefulDescription(description)
	useTranscript := len(transcript) > MinTranscriptLength

	switch {
	case useDescription && useTranscript:
		return Selection{Source: SourceCombined, Text: strings.TrimSpace(description) + transcriptSeparator + transcript}
	case useDescription:
		return Selection{Source: SourceDescription, Text: strings.TrimSpace(description)}
	case useTranscript:
		return Selection{Source: SourceTranscript, Text: transcript}
	case strings.TrimSpace(title) != "":
		return Selection{Source: SourceTitle}
	default:
		return Selection{Source: SourceNone}
	}
}
