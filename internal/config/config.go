// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package config

import (
	"time"
)

// Config holds all job configuration loaded from environment variables and an
// optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all optional settings
//  2. Config File: optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: override any setting via environment variables
//
// Required settings (the run aborts before any network activity if one is
// missing):
//   - SOURCE_API_URL, SOURCE_API_TOKEN: community platform API
//   - DEST_API_URL, DEST_API_TOKEN: CMS API
//   - DEST_SITE_ID, DEST_COLLECTION_ID: CMS collection addressing
//
// Thread Safety: Config is immutable after Load() and safe for concurrent
// read access.
type Config struct {
	Source      SourceConfig      `koanf:"source"`
	Destination DestinationConfig `koanf:"destination"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// SourceConfig configures the community platform API the member records are
// fetched from.
type SourceConfig struct {
	// URL is the base URL of the source API (scheme + host only).
	URL string `koanf:"url"`

	// APIToken is the bearer token for the source API.
	APIToken string `koanf:"api_token"`

	// PageSize is the number of members requested per page.
	PageSize int `koanf:"page_size"`

	// PageDelay is the minimum spacing between consecutive page requests,
	// enforced with a token bucket to stay under the source rate limit.
	PageDelay time.Duration `koanf:"page_delay"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`
}

// DestinationConfig configures the CMS collection the member records are
// upserted into.
type DestinationConfig struct {
	// URL is the base URL of the CMS API (scheme + host only).
	URL string `koanf:"url"`

	// APIToken is the bearer token for the CMS API.
	APIToken string `koanf:"api_token"`

	// SiteID identifies the CMS site the collection belongs to.
	SiteID string `koanf:"site_id"`

	// CollectionID identifies the collection that holds member items.
	CollectionID string `koanf:"collection_id"`

	// APIVersion is sent on every call as the accept-version header.
	APIVersion string `koanf:"api_version"`

	// WriteDelay is the minimum spacing between records during
	// reconciliation (lookup plus write count as one record).
	WriteDelay time.Duration `koanf:"write_delay"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// CircuitBreaker enables the circuit breaker wrapper around the CMS
	// client. Lookup misses never count as breaker failures.
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// MetricsConfig configures the optional operational HTTP listener exposing
// /healthz and /metrics while a run is in flight.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file:line in log events.
	Caller bool `koanf:"caller"`
}
