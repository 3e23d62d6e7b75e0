package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix guards which environment variables the loader reads.
const envPrefix = "BRIEF_"

// Load reads configuration with the following precedence, highest first:
//
//  1. Environment variables (BRIEF_MODEL_API_KEY, BRIEF_SEARCH_PROVIDER, ...)
//  2. YAML config file, if path is non-empty and the file exists
//  3. Defaults
//
// Environment variables map to config keys by stripping the BRIEF_ prefix,
// lowercasing, and splitting on the first underscore:
//
//	BRIEF_SEARCH_PROVIDER    -> search.provider
//	BRIEF_MODEL_API_KEY      -> model.api_key
//	BRIEF_PIPELINE_MAX_STEPS -> pipeline.max_steps
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// BRIEF_SEARCH_API_KEY -> search.api_key: the first underscore
		// separates the section, the rest is the field name.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
