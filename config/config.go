// Package config provides configuration loading for the brief CLI.
package config

import (
	"fmt"
	"time"
)

// Config holds all brief configuration.
type Config struct {
	Search   SearchConfig   `koanf:"search"`
	Model    ModelConfig    `koanf:"model"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SearchConfig selects and configures the search backend.
type SearchConfig struct {
	// Provider is one of duckduckgo, brave, tavily.
	Provider string `koanf:"provider"`
	APIKey   string `koanf:"api_key"`
	// Depth is Tavily's depth parameter (basic or advanced).
	Depth string `koanf:"depth"`
}

// ModelConfig configures the language model endpoint and the per-call-site
// sampling parameters.
type ModelConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`

	FilterTemperature  float64 `koanf:"filter_temperature"`
	FilterMaxTokens    int     `koanf:"filter_max_tokens"`
	SummaryTemperature float64 `koanf:"summary_temperature"`
	SummaryMaxTokens   int     `koanf:"summary_max_tokens"`
}

// PipelineConfig holds the driver's resource bounds. Durations are strings
// in Go duration syntax ("30s", "2m").
type PipelineConfig struct {
	MaxResults  int    `koanf:"max_results"`
	MaxSteps    int    `koanf:"max_steps"`
	CallTimeout string `koanf:"call_timeout"`
	BackoffUnit string `koanf:"backoff_unit"`
}

// LoggingConfig controls the CLI's structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
}

func applyDefaults(cfg *Config) {
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = "duckduckgo"
	}
	if cfg.Model.Model == "" {
		cfg.Model.Model = "gpt-4o-mini"
	}
	if cfg.Model.FilterTemperature == 0 {
		cfg.Model.FilterTemperature = 0.3
	}
	if cfg.Model.FilterMaxTokens == 0 {
		cfg.Model.FilterMaxTokens = 200
	}
	if cfg.Model.SummaryTemperature == 0 {
		cfg.Model.SummaryTemperature = 0.7
	}
	if cfg.Model.SummaryMaxTokens == 0 {
		cfg.Model.SummaryMaxTokens = 1500
	}
	if cfg.Pipeline.MaxResults == 0 {
		cfg.Pipeline.MaxResults = 10
	}
	if cfg.Pipeline.MaxSteps == 0 {
		cfg.Pipeline.MaxSteps = 50
	}
	if cfg.Pipeline.CallTimeout == "" {
		cfg.Pipeline.CallTimeout = "30s"
	}
	if cfg.Pipeline.BackoffUnit == "" {
		cfg.Pipeline.BackoffUnit = "1s"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Search.Provider {
	case "duckduckgo":
	case "brave", "tavily":
		if c.Search.APIKey == "" {
			return fmt.Errorf("search provider %q requires search.api_key", c.Search.Provider)
		}
	default:
		return fmt.Errorf("unknown search provider %q", c.Search.Provider)
	}

	if c.Model.APIKey == "" {
		return fmt.Errorf("model.api_key is required")
	}
	if c.Pipeline.MaxResults <= 0 {
		return fmt.Errorf("pipeline.max_results must be positive, got %d", c.Pipeline.MaxResults)
	}
	if c.Pipeline.MaxSteps <= 0 {
		return fmt.Errorf("pipeline.max_steps must be positive, got %d", c.Pipeline.MaxSteps)
	}
	if _, err := c.CallTimeout(); err != nil {
		return fmt.Errorf("invalid pipeline.call_timeout: %w", err)
	}
	if _, err := c.BackoffUnit(); err != nil {
		return fmt.Errorf("invalid pipeline.backoff_unit: %w", err)
	}
	return nil
}

// CallTimeout parses the per-call deadline.
func (c *Config) CallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Pipeline.CallTimeout)
}

// BackoffUnit parses the base unit of the search retry backoff.
func (c *Config) BackoffUnit() (time.Duration, error) {
	return time.ParseDuration(c.Pipeline.BackoffUnit)
}
