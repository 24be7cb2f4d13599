package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	Port string

	OpenAIKey     string
	OpenAIBaseURL string

	GoogleAPIKey         string
	GoogleSearchEngineID string
	GooglePlacesAPIKey   string

	VidNavigatorAPIKey  string
	VidNavigatorBaseURL string

	YTCookie      string
	YTCookiesFile string

	RedisURL       string
	AdminJWTSecret string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Cache    CacheConfig
	Models   ModelConfig
	Captions CaptionsConfig
}

type CacheConfig struct {
	TranscriptTTL  time.Duration `yaml:"transcript_ttl"`
	RecipeTTL      time.Duration `yaml:"recipe_ttl"`
	RecipeCapacity int           `yaml:"recipe_capacity"`
	RedisKeyPrefix string        `yaml:"redis_key_prefix"`
}

type ModelConfig struct {
	Recipe     string `yaml:"recipe"`
	Validation string `yaml:"validation"`
	MaxTokens  int    `yaml:"max_tokens"`
}

type CaptionsConfig struct {
	PreferredLangs []string `yaml:"preferred_langs"`
	RequireHuman   bool     `yaml:"require_human"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		Port:                     os.Getenv("PORT"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:            os.Getenv("OPENAI_BASE_URL"),
		GoogleAPIKey:             os.Getenv("GOOGLE_API_KEY"),
		GoogleSearchEngineID:     os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		GooglePlacesAPIKey:       os.Getenv("GOOGLE_PLACES_API_KEY"),
		VidNavigatorAPIKey:       os.Getenv("VIDNAVIGATOR_API_KEY"),
		VidNavigatorBaseURL:      os.Getenv("VIDNAVIGATOR_BASE_URL"),
		YTCookie:                 os.Getenv("YT_COOKIE"),
		YTCookiesFile:            os.Getenv("YT_COOKIES_FILE"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		AdminJWTSecret:           os.Getenv("ADMIN_JWT_SECRET"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "yeschef"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "5001"
	}

	cfg.SetDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Cache    CacheConfig    `yaml:"cache"`
		Models   ModelConfig    `yaml:"models"`
		Captions CaptionsConfig `yaml:"captions"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.Cache.TranscriptTTL > 0 {
		c.Cache.TranscriptTTL = yamlConfig.Cache.TranscriptTTL
	}
	if yamlConfig.Cache.RecipeTTL > 0 {
		c.Cache.RecipeTTL = yamlConfig.Cache.RecipeTTL
	}
	if yamlConfig.Cache.RecipeCapacity > 0 {
		c.Cache.RecipeCapacity = yamlConfig.Cache.RecipeCapacity
	}
	if yamlConfig.Cache.RedisKeyPrefix != "" {
		c.Cache.RedisKeyPrefix = yamlConfig.Cache.RedisKeyPrefix
	}
	if yamlConfig.Models.Recipe != "" {
		c.Models.Recipe = yamlConfig.Models.Recipe
	}
	if yamlConfig.Models.Validation != "" {
		c.Models.Validation = yamlConfig.Models.Validation
	}
	if yamlConfig.Models.MaxTokens > 0 {
		c.Models.MaxTokens = yamlConfig.Models.MaxTokens
	}
	if len(yamlConfig.Captions.PreferredLangs) > 0 {
		c.Captions.PreferredLangs = yamlConfig.Captions.PreferredLangs
	}
	if yamlConfig.Captions.RequireHuman {
		c.Captions.RequireHuman = true
	}

	return nil
}

// SetDefaults fills every tunable the YAML file did not provide.
func (c *Config) SetDefaults() {
	if c.Cache.TranscriptTTL == 0 {
		c.Cache.TranscriptTTL = 24 * time.Hour
	}
	if c.Cache.RecipeTTL == 0 {
		c.Cache.RecipeTTL = 24 * time.Hour
	}
	if c.Cache.RecipeCapacity == 0 {
		c.Cache.RecipeCapacity = 100
	}
	if c.Cache.RedisKeyPrefix == "" {
		c.Cache.RedisKeyPrefix = "yeschef:"
	}
	if c.Models.Recipe == "" {
		c.Models.Recipe = "gpt-4o"
	}
	if c.Models.Validation == "" {
		c.Models.Validation = "gpt-3.5-turbo"
	}
	if c.Models.MaxTokens == 0 {
		c.Models.MaxTokens = 2000
	}
	if len(c.Captions.PreferredLangs) == 0 {
		c.Captions.PreferredLangs = []string{"en", "en-US", "en-GB"}
	}
}

// GoogleSearchEnabled reports whether both Custom Search credentials are set.
func (c *Config) GoogleSearchEnabled() bool {
	return c.GoogleAPIKey != "" && c.GoogleSearchEngineID != ""
}

// Missing lists unset credentials so startup can log which tiers will always miss.
func (c *Config) Missing() []string {
	var missing []string
	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.GoogleAPIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if c.GoogleSearchEngineID == "" {
		missing = append(missing, "GOOGLE_SEARCH_ENGINE_ID")
	}
	if c.VidNavigatorAPIKey == "" {
		missing = append(missing, "VIDNAVIGATOR_API_KEY")
	}
	if c.GooglePlacesAPIKey == "" {
		missing = append(missing, "GOOGLE_PLACES_API_KEY")
	}
	return missing
}

func (c *Config) validate() error {
	if c.Cache.RecipeCapacity < 1 {
		return fmt.Errorf("cache.recipe_capacity must be positive")
	}
	if c.Cache.TranscriptTTL < time.Second || c.Cache.RecipeTTL < time.Second {
		return fmt.Errorf("cache TTLs must be at least one second")
	}
	if c.Models.MaxTokens < 1 {
		return fmt.Errorf("models.max_tokens must be positive")
	}
	return nil
}
