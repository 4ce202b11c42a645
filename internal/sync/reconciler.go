// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/syncfold/membersync/internal/logging"
	"github.com/syncfold/membersync/internal/metrics"
	"github.com/syncfold/membersync/internal/models"
)

// Stats summarizes one reconciliation pass. Skipped counts members rejected
// by validation; Failed counts members whose lookup or write failed. Neither
// aborts the batch.
type Stats struct {
	Fetched int
	Created int
	Updated int
	Skipped int
	Failed  int
}

// outcome is the terminal state of one record's processing.
type outcome int

const (
	outcomeCreated outcome = iota
	outcomeUpdated
	outcomeSkipped
	outcomeFailed
)

// Reconciler ensures exactly one destination record exists per valid source
// member, with current field values. Each record walks the state machine
//
//	Normalize -> Validate -> Lookup -> {Update | Create}
//
// one record at a time, with token-bucket pacing between records to stay
// under the destination rate limit. Validation failures skip the record
// before any destination request; lookup or write failures are logged with
// the member's display name and external id and never abort the batch.
type Reconciler struct {
	dest     DestinationAPI
	validate *validator.Validate
	limiter  *rate.Limiter
}

// NewReconciler creates a reconciler writing through the given destination.
// writeDelay is the minimum spacing between records; zero or negative
// disables pacing (used by tests).
func NewReconciler(dest DestinationAPI, writeDelay time.Duration) *Reconciler {
	return &Reconciler{
		dest:     dest,
		validate: validator.New(),
		limiter:  rate.NewLimiter(rate.Every(writeDelay), 1),
	}
}

// Run reconciles every member into the destination collection and returns
// the per-outcome counts. The only error it returns is context
// cancellation; every per-record failure is absorbed into Stats.Failed.
func (r *Reconciler) Run(ctx context.Context, members []models.SourceMember) (Stats, error) {
	stats := Stats{Fetched: len(members)}

	for i := range members {
		// Pacing applies between records, independent of outcome. The first
		// record passes immediately.
		if err := r.limiter.Wait(ctx); err != nil {
			return stats, fmt.Errorf("reconcile aborted while waiting for rate limiter: %w", err)
		}

		switch r.processMember(ctx, &members[i]) {
		case outcomeCreated:
			stats.Created++
		case outcomeUpdated:
			stats.Updated++
		case outcomeSkipped:
			stats.Skipped++
		case outcomeFailed:
			stats.Failed++
		}
	}

	return stats, nil
}

// processMember runs the per-record state machine. It never returns an
// error: each failure path is logged here with identifying context and
// folded into the outcome.
func (r *Reconciler) processMember(ctx context.Context, member *models.SourceMember) outcome {
	// Normalize before validating so the destination mapping exists even
	// for diagnostics on the skip path.
	fields := member.Normalize()

	if err := r.validate.Struct(member); err != nil {
		logging.Warn().
			Str("member", member.DisplayName).
			Str("external_id", member.ExternalID.String()).
			Err(err).
			Msg("Skipping member with missing required fields")
		metrics.RecordsSkipped.Inc()
		return outcomeSkipped
	}

	existing, err := r.dest.LookupByExternalID(ctx, fields.ExternalID)
	switch {
	case err == nil:
		return r.updateMember(ctx, member, existing, fields)
	case errors.Is(err, ErrItemNotFound):
		return r.createMember(ctx, member, fields)
	default:
		logging.Error().
			Str("member", member.DisplayName).
			Str("external_id", fields.ExternalID).
			Err(err).
			Msg("Destination lookup failed, continuing with next member")
		metrics.RecordErrors.WithLabelValues("lookup").Inc()
		return outcomeFailed
	}
}

// createMember issues the creation request for a member with no destination
// record yet.
func (r *Reconciler) createMember(ctx context.Context, member *models.SourceMember, fields models.ItemFields) outcome {
	item, err := r.dest.CreateItem(ctx, fields)
	if err != nil {
		logging.Error().
			Str("member", member.DisplayName).
			Str("external_id", fields.ExternalID).
			Err(err).
			Msg("Failed to create destination record")
		metrics.RecordErrors.WithLabelValues("create").Inc()
		return outcomeFailed
	}

	logging.Info().
		Str("member", member.DisplayName).
		Str("external_id", fields.ExternalID).
		Str("item_id", item.ID).
		Msg("Created destination record")
	metrics.RecordsCreated.Inc()
	return outcomeCreated
}

// updateMember overwrites every mapped field of the matched record. Partial
// or merge semantics are never used; last write wins.
func (r *Reconciler) updateMember(ctx context.Context, member *models.SourceMember, existing *models.Item, fields models.ItemFields) outcome {
	if _, err := r.dest.UpdateItem(ctx, existing.ID, fields); err != nil {
		logging.Error().
			Str("member", member.DisplayName).
			Str("external_id", fields.ExternalID).
			Str("item_id", existing.ID).
			Err(err).
			Msg("Failed to update destination record")
		metrics.RecordErrors.WithLabelValues("update").Inc()
		return outcomeFailed
	}

	logging.Debug().
		Str("member", member.DisplayName).
		Str("external_id", fields.ExternalID).
		Str("item_id", existing.ID).
		Msg("Updated destination record")
	metrics.RecordsUpdated.Inc()
	return outcomeUpdated
}
