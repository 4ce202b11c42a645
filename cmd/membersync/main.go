// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

// Package main is the entry point for the membersync job.
//
// Membersync copies member profiles from a community platform's API into a
// headless CMS collection, upserting on each member's stable external
// identifier. It is a run-to-completion batch job with no arguments and no
// user interaction; an external scheduler (cron, Kubernetes CronJob, systemd
// timer) invokes it periodically.
//
// # Configuration
//
// All configuration comes from environment variables (or an optional YAML
// config file); see internal/config for the full list. The required
// settings are:
//
//	export SOURCE_API_URL=https://community.example.com
//	export SOURCE_API_TOKEN=...
//	export DEST_API_URL=https://cms.example.com
//	export DEST_API_TOKEN=...
//	export DEST_SITE_ID=...
//	export DEST_COLLECTION_ID=...
//	./membersync
//
// A missing required setting aborts the run before any network activity.
//
// # Exit behavior
//
// The process exits 0 when the run completes (per-record failures are
// logged and counted, not fatal) and non-zero when configuration is invalid
// or the fetch stage fails. SIGINT and SIGTERM cancel the run between
// requests.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/syncfold/membersync/internal/api"
	"github.com/syncfold/membersync/internal/config"
	"github.com/syncfold/membersync/internal/logging"
	"github.com/syncfold/membersync/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The default logger is already usable before Init.
		logging.Error().Err(err).Msg("Configuration invalid, aborting before any network activity")
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metricsServer := api.NewServer(cfg.Metrics.Addr)
		metricsServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logging.Warn().Err(err).Msg("Metrics listener shutdown failed")
			}
		}()
	}

	stats, err := sync.NewManager(cfg).Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Sync run failed")
		stop()
		os.Exit(1)
	}

	logging.Info().
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("membersync finished")
}
