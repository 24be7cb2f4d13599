package webpage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldRecipe is the subset of schema.org/Recipe the adapter reads.
type ldRecipe struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Image        json.RawMessage `json:"image"`
	Yield        json.RawMessage `json:"recipeYield"`
	TotalTime    string          `json:"totalTime"`
	Ingredients  []string        `json:"recipeIngredient"`
	Instructions json.RawMessage `json:"recipeInstructions"`
}

type ldNode struct {
	Type            json.RawMessage `json:"@type"`
	Text            string          `json:"text"`
	Name            string          `json:"name"`
	URL             string          `json:"url"`
	ItemListElement []ldNode        `json:"itemListElement"`
}

func findRecipe(doc *goquery.Document) (*ldRecipe, bool) {
	var found *ldRecipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = recipeFromJSON([]byte(s.Text()))
		return found == nil
	})
	return found, found != nil
}

// recipeFromJSON walks top-level arrays and @graph containers looking for
// the first node typed Recipe.
func recipeFromJSON(raw []byte) *ldRecipe {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if rec := recipeFromJSON(item); rec != nil {
				return rec
			}
		}
		return nil
	}

	var obj struct {
		Type  json.RawMessage   `json:"@type"`
		Graph []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	if hasType(obj.Type, "Recipe") {
		var rec ldRecipe
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil
		}
		return &rec
	}
	for _, item := range obj.Graph {
		if rec := recipeFromJSON(item); rec != nil {
			return rec
		}
	}
	return nil
}

func hasType(raw json.RawMessage, want string) bool {
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return strings.EqualFold(single, want)
	}
	var many []string
	if json.Unmarshal(raw, &many) == nil {
		for _, t := range many {
			if strings.EqualFold(t, want) {
				return true
			}
		}
	}
	return false
}

// image accepts a URL string, a list of URLs or an ImageObject.
func (r *ldRecipe) image() string {
	if len(r.Image) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(r.Image, &s) == nil {
		return s
	}
	var list []json.RawMessage
	if json.Unmarshal(r.Image, &list) == nil {
		for _, item := range list {
			if img := (&ldRecipe{Image: item}).image(); img != "" {
				return img
			}
		}
		return ""
	}
	var node ldNode
	if json.Unmarshal(r.Image, &node) == nil {
		return node.URL
	}
	return ""
}

func (r *ldRecipe) yield() string {
	var s string
	if json.Unmarshal(r.Yield, &s) == nil {
		return s
	}
	var list []json.RawMessage
	if json.Unmarshal(r.Yield, &list) == nil && len(list) > 0 {
		return (&ldRecipe{Yield: list[0]}).yield()
	}
	var n json.Number
	if json.Unmarshal(r.Yield, &n) == nil {
		return n.String()
	}
	return ""
}

// steps flattens plain strings, HowToStep and HowToSection instructions.
func (r *ldRecipe) steps() []string {
	if len(r.Instructions) == 0 {
		return nil
	}
	var s string
	if json.Unmarshal(r.Instructions, &s) == nil {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	}

	var raw []json.RawMessage
	if json.Unmarshal(r.Instructions, &raw) != nil {
		return nil
	}
	var out []string
	for _, item := range raw {
		var text string
		if json.Unmarshal(item, &text) == nil {
			if text = strings.TrimSpace(text); text != "" {
				out = append(out, text)
			}
			continue
		}
		var node ldNode
		if json.Unmarshal(item, &node) != nil {
			continue
		}
		out = append(out, node.texts()...)
	}
	return out
}

func (n ldNode) texts() []string {
	if len(n.ItemListElement) > 0 {
		var out []string
		for _, child := range n.ItemListElement {
			out = append(out, child.texts()...)
		}
		return out
	}
	text := strings.TrimSpace(n.Text)
	if text == "" {
		text = strings.TrimSpace(n.Name)
	}
	if text == "" {
		return nil
	}
	return []string{text}
}

// Text renders the structured recipe as plain text for the model.
func (r *ldRecipe) Text() string {
	steps := r.steps()
	if len(r.Ingredients) == 0 && len(steps) == 0 {
		return ""
	}

	var b strings.Builder
	if r.Name != "" {
		b.WriteString(r.Name + "\n")
	}
	if r.Description != "" {
		b.WriteString(r.Description + "\n")
	}
	if y := r.yield(); y != "" {
		fmt.Fprintf(&b, "Yield: %s\n", y)
	}
	if r.TotalTime != "" {
		fmt.Fprintf(&b, "Total time: %s\n", r.TotalTime)
	}
	if len(r.Ingredients) > 0 {
		b.WriteString("\nIngredients:\n")
		for _, ing := range r.Ingredients {
			if ing = strings.TrimSpace(ing); ing != "" {
				b.WriteString("- " + ing + "\n")
			}
		}
	}
	if len(steps) > 0 {
		b.WriteString("\nInstructions:\n")
		for i, step := range steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	return strings.TrimSpace(b.String())
}
