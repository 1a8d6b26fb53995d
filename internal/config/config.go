package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Site struct {
		Manifest string `yaml:"manifest"`
		Database string `yaml:"database"`
	} `yaml:"site"`
	AI struct {
		Provider        string `yaml:"provider"`
		Model           string `yaml:"model"`            // embedding model
		GenerationModel string `yaml:"generation_model"` // LLM for outlines
		APIKey          string `yaml:"api_key"`
		Dimension       int    `yaml:"dimension"`
		BaseURL         string `yaml:"base_url"`
	} `yaml:"ai"`
	Assembly struct {
		OptimizeImages bool `yaml:"optimize_images"`
		MaxWorkers     int  `yaml:"max_workers"`
	} `yaml:"assembly"`
	Catalog struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"catalog"`
}

// CatalogTTL parses the configured cache TTL. Unparseable values fall back
// to an hour, the same lifetime the host CMS uses for its transients.
func (c *Config) CatalogTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Catalog.CacheTTL)
	if err != nil || ttl <= 0 {
		return time.Hour
	}
	return ttl
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.Site.Database = "blocksmith.db"
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "gemini-embedding-001"
	cfg.AI.GenerationModel = "gemini-2.5-flash-lite"
	cfg.Assembly.OptimizeImages = true
	cfg.Catalog.CacheTTL = "1h"
	return &cfg
}

// LoadConfig reads the YAML config, layering .env and environment
// overrides on top. A missing file is not an error: defaults apply.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if apiKey := os.Getenv("BLOCKSMITH_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("BLOCKSMITH_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if manifest := os.Getenv("BLOCKSMITH_MANIFEST"); manifest != "" {
		cfg.Site.Manifest = manifest
	}

	return cfg, nil
}
