package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromYAML(t *testing.T) {
	configContent := `cache:
  transcript_ttl: 12h
  recipe_ttl: 30m
  recipe_capacity: 50
models:
  recipe: gpt-4o-mini
  max_tokens: 1500
captions:
  preferred_langs: [fr, en]
  require_human: true`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Cache.TranscriptTTL != 12*time.Hour {
		t.Errorf("Expected transcript_ttl 12h, got %v", cfg.Cache.TranscriptTTL)
	}
	if cfg.Cache.RecipeTTL != 30*time.Minute {
		t.Errorf("Expected recipe_ttl 30m, got %v", cfg.Cache.RecipeTTL)
	}
	if cfg.Cache.RecipeCapacity != 50 {
		t.Errorf("Expected recipe_capacity 50, got %d", cfg.Cache.RecipeCapacity)
	}
	if cfg.Models.Recipe != "gpt-4o-mini" {
		t.Errorf("Expected recipe model 'gpt-4o-mini', got '%s'", cfg.Models.Recipe)
	}
	if cfg.Models.MaxTokens != 1500 {
		t.Errorf("Expected max_tokens 1500, got %d", cfg.Models.MaxTokens)
	}
	if len(cfg.Captions.PreferredLangs) != 2 || cfg.Captions.PreferredLangs[0] != "fr" {
		t.Errorf("Expected preferred_langs [fr en], got %v", cfg.Captions.PreferredLangs)
	}
	if !cfg.Captions.RequireHuman {
		t.Error("Expected require_human to be true")
	}
}

func TestLoadFromYAMLPartial(t *testing.T) {
	configContent := `models:
  validation: gpt-4o-mini`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_partial.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	cfg.SetDefaults()
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Models.Validation != "gpt-4o-mini" {
		t.Errorf("Expected validation model 'gpt-4o-mini', got '%s'", cfg.Models.Validation)
	}
	if cfg.Models.Recipe != "gpt-4o" {
		t.Errorf("Expected default recipe model 'gpt-4o', got '%s'", cfg.Models.Recipe)
	}
	if cfg.Cache.RecipeCapacity != 100 {
		t.Errorf("Expected default recipe_capacity 100, got %d", cfg.Cache.RecipeCapacity)
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	cfg := &Config{}
	if err := cfg.LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("Expected missing file to be ignored, got %v", err)
	}
}

func TestLoadFromYAMLInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("cache: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	if err := cfg.LoadFromYAML(configPath); err == nil {
		t.Fatal("Expected parse error for invalid YAML")
	}
}

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Cache.TranscriptTTL != 24*time.Hour {
		t.Errorf("Expected transcript TTL 24h, got %v", cfg.Cache.TranscriptTTL)
	}
	if cfg.Models.MaxTokens != 2000 {
		t.Errorf("Expected max tokens 2000, got %d", cfg.Models.MaxTokens)
	}
	want := []string{"en", "en-US", "en-GB"}
	for i, lang := range want {
		if cfg.Captions.PreferredLangs[i] != lang {
			t.Errorf("Expected preferred lang %d to be %s, got %s", i, lang, cfg.Captions.PreferredLangs[i])
		}
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "5001" {
		t.Errorf("Expected default port 5001, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Env)
	}
	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("Expected OpenAI key from env, got %q", cfg.OpenAIKey)
	}
}

func TestMissing(t *testing.T) {
	cfg := &Config{OpenAIKey: "x", GoogleAPIKey: "y"}
	missing := cfg.Missing()

	if len(missing) != 3 {
		t.Fatalf("Expected 3 missing credentials, got %v", missing)
	}
	if cfg.GoogleSearchEnabled() {
		t.Error("Expected Google search to be disabled without engine id")
	}
}
