// Package ai holds the prompts sent to the recipe model.
package ai

import (
	"fmt"
	"strings"
)

const numericFieldsNote = `IMPORTANT: Return servings and calories as plain numbers (not strings), like: "servings": 4, "calories": 350`

const schemaSection = `{
  "title": "%s",
  "description": "Brief description of the dish",
  "servings": 4,
  "cookTime": "Total cooking time",
  "difficulty": "Easy/Medium/Hard",
  "calories": 350,
  "ingredients": [
    {
      "item": "ingredient name",
      "amount": "quantity with unit",
      "notes": "preparation notes if any"
    }
  ],
  "steps": [
    {
      "step": 1,
      "instruction": "Mix flour and sugar in a large bowl",
      "equipment": "large mixing bowl",
      "ingredients": ["flour", "sugar"]
    },
    {
      "step": 2,
      "instruction": "Sauté onions over medium heat for about 5 minutes until translucent",
      "equipment": "frying pan",
      "ingredients": ["onions", "oil"]
    }
  ],
  "tools": ["list", "of", "kitchen", "tools"],
  "allergens": ["common", "allergens"],
  "tips": ["helpful", "cooking", "tips"]
}`

const formattingRulesSection = `IMPORTANT FORMATTING RULES:
- NEVER include separate "time" or "heat" fields - embed timing and heat information directly in the instruction text
- If timing is needed, include it IN THE INSTRUCTION: "Cook for about 5 minutes", "Bake for about 25 minutes"
- If heat level is needed, include it IN THE INSTRUCTION: "Sauté over medium heat", "Cook on high heat"
- Convert hours to minutes (e.g., "1.5 hours" becomes "about 90 minutes") within instruction text
- Use SINGLE estimates like "about 5 minutes", "about 12 minutes" - NEVER ranges like "5-7 minutes"
- ALWAYS include an "ingredients" array for each step listing the specific ingredients used in that step
- Keep ingredient names simple (e.g., "onions", "garlic", "oil", "flour") matching the main ingredient list`

const foodValidationTemplate = `Analyze if the following input is food, cooking, or recipe-related. Return only a JSON object with "isFood" (boolean) and "confidence" (0-1).

Input: "%s"

Consider food-related if it's:
- A dish name, recipe, or cooking method
- An ingredient or food item
- A cooking technique or kitchen term
- A restaurant dish or cuisine type

NOT food-related if it's:
- Clearly unrelated topics (sports, technology, politics, etc.)
- Random text or gibberish
- Non-food objects or concepts

Be strict - only return isFood: false with high confidence (>0.8) if you're absolutely certain it's not food-related.`

// Source kinds accepted by BuildTranscriptPrompt.
const (
	SourceYouTube = "youtube"
	SourceSocial  = "social"
	SourceWebPage = "webpage"
)

func getSourceContext(sourceKind string) string {
	switch strings.ToLower(sourceKind) {
	case SourceSocial, "instagram", "tiktok":
		return `This content comes from a short social media video. Recipe details are often spoken quickly in voiceover and measurements may be informal ("a splash of", "a handful"). The post caption, when present, usually lists the ingredients.`
	case SourceWebPage:
		return `This content comes from a recipe web page. Ingredient quantities and step order on the page are authoritative; ignore unrelated page text such as comments or navigation.`
	default:
		return ""
	}
}

func writeSchema(sb *strings.Builder, titleHint string) {
	sb.WriteString(numericFieldsNote)
	sb.WriteString("\n\nCreate a JSON response with this exact structure:\n")
	sb.WriteString(fmt.Sprintf(schemaSection, titleHint))
	sb.WriteString("\n\n")
	sb.WriteString(formattingRulesSection)
	sb.WriteString("\n\n")
}

// BuildTranscriptPrompt asks for a recipe extracted from a transcript, a
// video description or page text.
func BuildTranscriptPrompt(transcript, title, sourceKind string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extract a complete recipe from this video transcript. The video is titled %q.\n\n", title))

	if sCtx := getSourceContext(sourceKind); sCtx != "" {
		sb.WriteString(sCtx)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Transcript:\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\n")
	writeSchema(&sb, "Recipe name from the video")
	sb.WriteString("Extract only information that is explicitly mentioned in the transcript. For calories, estimate per serving based on the ingredients and cooking methods mentioned, using standard nutritional values. Be accurate and detailed.")
	return sb.String()
}

// BuildTitlePrompt asks for a realistic recipe inferred from a video title.
func BuildTitlePrompt(title string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Based on this video title %q, generate a realistic cooking recipe.\n\n", title))
	writeSchema(&sb, "Recipe name based on the video title")
	sb.WriteString("Make it realistic and detailed. Estimate calories per serving based on typical ingredients and portions for this type of dish. Only return valid JSON.")
	return sb.String()
}

// BuildQueryPrompt asks for a recipe for a dish name when no source was found.
func BuildQueryPrompt(dish string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a precise recipe creation AI. Create a realistic, well-structured recipe for %q.\n\n", dish))
	writeSchema(&sb, "Recipe name")
	sb.WriteString("Estimate calories per serving based on typical ingredients and portions for this dish.")
	return sb.String()
}

// BuildFoodValidationPrompt asks whether query is food related.
func BuildFoodValidationPrompt(query string) string {
	return fmt.Sprintf(foodValidationTemplate, query)
}
