// Package config provides configuration loading for kbflow.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/kbflow/internal/logging"
)

// Config is the full kbflow configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	KB      KBConfig       `koanf:"kb"`
	Ingest  IngestConfig   `koanf:"ingest"`
	Search  SearchConfig   `koanf:"search"`
	Logging logging.Config `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	APIKey          Secret   `koanf:"api_key"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// KBConfig holds knowledge-base gateway settings.
type KBConfig struct {
	BaseURL   string   `koanf:"base_url"`
	Token     Secret   `koanf:"token"`
	Timeout   Duration `koanf:"timeout"`
	RateLimit float64  `koanf:"rate_limit"`
	RateBurst int      `koanf:"rate_burst"`
}

// IngestConfig holds document ingestion settings.
type IngestConfig struct {
	DataDir           string   `koanf:"data_dir"`
	Extension         string   `koanf:"extension"`
	Language          string   `koanf:"language"`
	Concurrency       int      `koanf:"concurrency"`
	Wait              bool     `koanf:"wait"`
	PollInterval      Duration `koanf:"poll_interval"`
	PollTimeout       Duration `koanf:"poll_timeout"`
	Watch             bool     `koanf:"watch"`
	InterpretTables   bool     `koanf:"interpret_tables"`
	BlanklineSplitter bool     `koanf:"blankline_splitter"`
	ExtractStrategy   string   `koanf:"extract_strategy"`
	SplitStrategy     string   `koanf:"split_strategy"`
}

// SearchConfig holds retrieval settings.
type SearchConfig struct {
	PageSize      int     `koanf:"page_size"`
	CacheCapacity int     `koanf:"cache_capacity"`
	MinScore      float64 `koanf:"min_score"`
	MinScoreBM25  float64 `koanf:"min_score_bm25"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	// KB gateway defaults
	if cfg.KB.Timeout == 0 {
		cfg.KB.Timeout = Duration(60 * time.Second)
	}
	if cfg.KB.RateLimit == 0 {
		cfg.KB.RateLimit = 10
	}
	if cfg.KB.RateBurst == 0 {
		cfg.KB.RateBurst = 20
	}

	// Ingestion defaults
	if cfg.Ingest.DataDir == "" {
		cfg.Ingest.DataDir = "data"
	}
	if cfg.Ingest.Extension == "" {
		cfg.Ingest.Extension = ".pdf"
	}
	if cfg.Ingest.Language == "" {
		cfg.Ingest.Language = "en"
	}
	if cfg.Ingest.PollInterval == 0 {
		cfg.Ingest.PollInterval = Duration(2 * time.Second)
	}
	if cfg.Ingest.PollTimeout == 0 {
		cfg.Ingest.PollTimeout = Duration(15 * time.Minute)
	}

	// Search defaults
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 5
	}
	if cfg.Search.CacheCapacity == 0 {
		cfg.Search.CacheCapacity = 20
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.KB.BaseURL == "" {
		return fmt.Errorf("kb.base_url is required")
	}
	if c.KB.RateLimit < 0 {
		return fmt.Errorf("kb.rate_limit cannot be negative")
	}
	if c.Ingest.Concurrency < 0 {
		return fmt.Errorf("ingest.concurrency cannot be negative")
	}
	if c.Search.PageSize < 1 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Search.CacheCapacity < 1 {
		return fmt.Errorf("search.cache_capacity must be positive, got %d", c.Search.CacheCapacity)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
