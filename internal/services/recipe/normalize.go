package recipe

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceOpenRe = regexp.MustCompile("^```[a-zA-Z]*\\n")
var fenceCloseRe = regexp.MustCompile("\\n```\\s*$")

// SafeParseJSON strips an optional code fence, keeps the first '{' through
// the last '}' and unmarshals the result into v.
func SafeParseJSON(content string, v any) error {
	c := strings.TrimSpace(content)
	if strings.HasPrefix(c, "```") {
		c = fenceOpenRe.ReplaceAllString(c, "")
		c = fenceCloseRe.ReplaceAllString(c, "")
	}
	start := strings.Index(c, "{")
	end := strings.LastIndex(c, "}") + 1
	if start >= 0 && end > start {
		c = c[start:end]
	}
	if err := json.Unmarshal([]byte(c), v); err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	return nil
}

// ParseRecipe parses model output and normalizes it.
func ParseRecipe(content string) (*Recipe, error) {
	var raw rawRecipe
	if err := SafeParseJSON(content, &raw); err != nil {
		return nil, err
	}

	r := &Recipe{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Servings:    raw.Servings.positive(),
		CookTime:    strings.TrimSpace(string(raw.CookTime)),
		Difficulty:  raw.Difficulty,
		Calories:    raw.Calories.positive(),
		Ingredients: raw.Ingredients,
		Tools:       raw.Tools,
		Allergens:   raw.Allergens,
		Tips:        raw.Tips,
	}
	// time and heat are intentionally not copied
	for _, s := range raw.Steps {
		r.Steps = append(r.Steps, Step{
			Instruction: s.Instruction,
			Equipment:   string(s.Equipment),
			Ingredients: s.Ingredients,
		})
	}
	return NormalizeRecipe(r), nil
}

// NormalizeRecipe enforces the response invariants in place and returns r:
// servings and calories are positive or unset, steps are numbered 1..N with
// blank instructions dropped, difficulty is Easy, Medium, Hard or empty,
// and list fields are never nil. Applying it twice changes nothing.
func NormalizeRecipe(r *Recipe) *Recipe {
	if r == nil {
		return nil
	}

	if r.Servings != nil && !(*r.Servings > 0) {
		r.Servings = nil
	}
	if r.Calories != nil && !(*r.Calories > 0) {
		r.Calories = nil
	}
	r.Difficulty = canonicalDifficulty(r.Difficulty)

	steps := make([]Step, 0, len(r.Steps))
	for _, s := range r.Steps {
		s.Instruction = strings.TrimSpace(s.Instruction)
		if s.Instruction == "" {
			continue
		}
		s.Step = len(steps) + 1
		s.Ingredients = nonEmpty(s.Ingredients)
		steps = append(steps, s)
	}
	r.Steps = steps

	ingredients := make([]Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ing.Item = strings.TrimSpace(ing.Item)
		if ing.Item == "" {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	r.Ingredients = ingredients

	r.Tools = nonEmpty(r.Tools)
	r.Allergens = nonEmpty(r.Allergens)
	r.Tips = nonEmpty(r.Tips)
	return r
}

func canonicalDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy":
		return "Easy"
	case "medium", "moderate", "intermediate":
		return "Medium"
	case "hard", "difficult", "advanced":
		return "Hard"
	default:
		return ""
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
