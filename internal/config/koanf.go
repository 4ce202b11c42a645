// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/membersync/config.yaml",
	"/etc/membersync/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all optional settings at their
// defaults. Required settings (URLs, tokens, IDs) default to empty and are
// rejected by Validate.
func defaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:       "",
			APIToken:  "",
			PageSize:  100,
			PageDelay: 100 * time.Millisecond,
			Timeout:   30 * time.Second,
		},
		Destination: DestinationConfig{
			URL:            "",
			APIToken:       "",
			SiteID:         "",
			CollectionID:   "",
			APIVersion:     "1.0.0",
			WriteDelay:     200 * time.Millisecond,
			Timeout:        30 * time.Second,
			CircuitBreaker: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML config file,
// and environment variables (highest priority), then validates it. It fails
// fast: a missing required setting is reported before any network activity.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// SOURCE_API_TOKEN -> source.api_token, DEST_COLLECTION_ID -> destination.collection_id
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path of the first file found, or empty string if none exists.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variable names (lowercased) to koanf config
// paths. Variables not listed here are ignored so unrelated environment
// noise never leaks into the config tree.
var envMappings = map[string]string{
	"source_api_url":    "source.url",
	"source_api_token":  "source.api_token",
	"source_page_size":  "source.page_size",
	"source_page_delay": "source.page_delay",
	"source_timeout":    "source.timeout",

	"dest_api_url":         "destination.url",
	"dest_api_token":       "destination.api_token",
	"dest_site_id":         "destination.site_id",
	"dest_collection_id":   "destination.collection_id",
	"dest_api_version":     "destination.api_version",
	"dest_write_delay":     "destination.write_delay",
	"dest_timeout":         "destination.timeout",
	"dest_circuit_breaker": "destination.circuit_breaker",

	"metrics_enabled": "metrics.enabled",
	"metrics_addr":    "metrics.addr",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config
// paths, e.g. SOURCE_API_TOKEN -> source.api_token. Unmapped variables are
// dropped by returning an empty key.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
