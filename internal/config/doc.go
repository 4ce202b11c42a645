// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

/*
Package config provides centralized configuration management for membersync.

Configuration is loaded via Koanf v2 with layered sources (highest priority
wins): environment variables, an optional YAML config file, then built-in
defaults. Validation runs once at load time and fails fast with the name of
the offending environment variable, so a misconfigured job aborts before any
network activity.

# Environment Variables

Source API (SourceConfig):
  - SOURCE_API_URL: base URL of the community platform API (required)
  - SOURCE_API_TOKEN: bearer token (required)
  - SOURCE_PAGE_SIZE: members per page (default: 100)
  - SOURCE_PAGE_DELAY: spacing between page requests (default: 100ms)
  - SOURCE_TIMEOUT: per-request timeout (default: 30s)

Destination API (DestinationConfig):
  - DEST_API_URL: base URL of the CMS API (required)
  - DEST_API_TOKEN: bearer token (required)
  - DEST_SITE_ID: CMS site identifier (required)
  - DEST_COLLECTION_ID: member collection identifier (required)
  - DEST_API_VERSION: accept-version header value (default: 1.0.0)
  - DEST_WRITE_DELAY: spacing between reconciled records (default: 200ms)
  - DEST_TIMEOUT: per-request timeout (default: 30s)
  - DEST_CIRCUIT_BREAKER: circuit breaker around CMS calls (default: true)

Observability:
  - METRICS_ENABLED: expose /healthz and /metrics (default: false)
  - METRICS_ADDR: listen address for the metrics server (default: :9090)
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file:line (default: false)
*/
package config
