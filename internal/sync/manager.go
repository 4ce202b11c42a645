// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syncfold/membersync/internal/config"
	"github.com/syncfold/membersync/internal/logging"
	"github.com/syncfold/membersync/internal/metrics"
)

// Manager orchestrates one sync invocation: fetch the complete member set,
// then reconcile it into the destination collection. There is no in-process
// scheduling; the external scheduler invokes the job and the Manager runs
// exactly once per process.
type Manager struct {
	fetcher    *Fetcher
	reconciler *Reconciler
}

// NewManager wires the pipeline from configuration: source client, fetcher,
// destination client (optionally behind the circuit breaker), reconciler.
func NewManager(cfg *config.Config) *Manager {
	var dest DestinationAPI = NewDestinationClient(&cfg.Destination)
	if cfg.Destination.CircuitBreaker {
		dest = NewCircuitBreakerClient(dest)
	}

	return newManager(
		NewFetcher(NewSourceClient(&cfg.Source), cfg.Source.PageDelay),
		NewReconciler(dest, cfg.Destination.WriteDelay),
	)
}

// newManager assembles a manager from pre-built stages. Split out so tests
// can inject fakes behind the stage interfaces.
func newManager(fetcher *Fetcher, reconciler *Reconciler) *Manager {
	return &Manager{
		fetcher:    fetcher,
		reconciler: reconciler,
	}
}

// Run executes one complete sync. A fetch-stage failure is fatal and aborts
// before anything is written; reconciliation absorbs per-record failures
// into the returned Stats. An empty source is a valid terminal state.
func (m *Manager) Run(ctx context.Context) (Stats, error) {
	runID := uuid.New().String()
	runLog := logging.With().Str("run_id", runID).Logger()
	start := time.Now()

	runLog.Info().Msg("Sync run starting")

	members, err := m.fetcher.FetchAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("fetch stage failed, aborting run: %w", err)
	}

	if len(members) == 0 {
		runLog.Info().Msg("Source returned zero members, nothing to reconcile")
		metrics.RunDuration.Observe(time.Since(start).Seconds())
		metrics.RunLastSuccess.SetToCurrentTime()
		return Stats{}, nil
	}

	runLog.Info().Int("members", len(members)).Msg("Fetch complete, reconciling")

	stats, err := m.reconciler.Run(ctx, members)
	if err != nil {
		return stats, fmt.Errorf("reconcile stage aborted: %w", err)
	}

	duration := time.Since(start)
	metrics.RunDuration.Observe(duration.Seconds())
	metrics.RunLastSuccess.SetToCurrentTime()

	runLog.Info().
		Int("fetched", stats.Fetched).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Dur("duration", duration).
		Msg("Sync run complete")

	return stats, nil
}
