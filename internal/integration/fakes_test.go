// Package integration runs the HTTP API against the real pipeline. Every
// upstream (OpenAI, recipe pages) is an httptest server.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/yeschef/internal/api"
	"github.com/socialchef/yeschef/internal/app"
	"github.com/socialchef/yeschef/internal/config"
)

const recipeJSON = `{
  "title": "Tomato Basil Pasta",
  "description": "Weeknight pasta with a quick tomato sauce.",
  "servings": "4",
  "cookTime": "25 minutes",
  "difficulty": "easy",
  "calories": 520,
  "ingredients": [
    {"item": "spaghetti", "amount": "400 g"},
    {"item": "canned tomatoes", "amount": 2, "notes": "crushed"}
  ],
  "steps": [
    {"instruction": "Boil the pasta in salted water.", "equipment": "pot", "ingredients": ["spaghetti"], "time": "10 minutes", "heat": "high"},
    {"instruction": "   "},
    {"instruction": "Simmer the tomatoes and toss with the pasta.", "ingredients": ["canned tomatoes"]}
  ],
  "tools": ["pot", "pan"],
  "allergens": ["gluten"],
  "tips": ["Save a cup of pasta water."]
}`

// fakeOpenAI answers chat completions. Validation requests get a
// classification, everything else gets recipeJSON wrapped in a code fence.
type fakeOpenAI struct {
	*httptest.Server
	calls       atomic.Int32
	rateLimited atomic.Bool
}

func newFakeOpenAI(t *testing.T) *fakeOpenAI {
	t.Helper()
	f := &fakeOpenAI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if f.rateLimited.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
			return
		}

		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		content := "```json\n" + recipeJSON + "\n```"
		if req.Model == "gpt-3.5-turbo" {
			content = `{"isFood": true, "confidence": 0.9, "reason": "pasta dish"}`
		}
		writeCompletion(w, req.Model, content)
	}))
	t.Cleanup(f.Close)
	return f
}

func writeCompletion(w http.ResponseWriter, model, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
}

const recipePage = `<!doctype html>
<html>
<head>
  <title>Tomato Basil Pasta | Test Kitchen</title>
  <meta property="og:title" content="Tomato Basil Pasta">
  <meta property="og:description" content="Our favourite quick pasta.">
  <meta property="og:image" content="https://img.example.com/pasta.jpg">
  <script type="application/ld+json">
  {
    "@context": "https://schema.org",
    "@type": "Recipe",
    "name": "Tomato Basil Pasta",
    "recipeYield": "4 servings",
    "recipeIngredient": ["400 g spaghetti", "2 cans crushed tomatoes", "1 bunch basil", "2 tbsp olive oil"],
    "recipeInstructions": [
      {"@type": "HowToStep", "text": "Boil the spaghetti in plenty of salted water until al dente."},
      {"@type": "HowToStep", "text": "Warm the olive oil, add the tomatoes and simmer for ten minutes."},
      {"@type": "HowToStep", "text": "Toss the pasta with the sauce and tear in the basil."}
    ]
  }
  </script>
</head>
<body><article><h1>Tomato Basil Pasta</h1></article></body>
</html>`

func newRecipeSite(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pasta" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(recipePage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newRouter builds the API on a real pipeline pointed at model.
func newRouter(t *testing.T, model *fakeOpenAI, cfg config.Config) http.Handler {
	t.Helper()
	cfg.OpenAIBaseURL = model.URL + "/v1/"
	cfg.SetDefaults()

	pipeline, err := app.NewPipeline(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pipeline.Close() })

	srv := api.NewServer(&cfg, api.Deps{
		Recipes:   pipeline.Orchestrator,
		Validator: pipeline.Engine,
		Captions:  pipeline.Captions,
		Stores:    pipeline.Stores,
		Cache:     pipeline.RecipeCache,
	})
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}
