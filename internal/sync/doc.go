// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

/*
Package sync implements the member synchronization pipeline.

One run copies every member profile from the community platform into the CMS
collection, upserting on the stable external identifier. Control flows
strictly Fetcher -> Reconciler -> (per record) Lookup -> Create-or-Update,
on a single goroutine, with token-bucket pacing as the only timing control.

Key components:

  - SourceClient: paginated member listing against the source API
  - Fetcher: cursor loop accumulating the complete member set in memory
  - DestinationClient: item search, create, and update against the CMS
  - CircuitBreakerClient: gobreaker wrapper over the destination client
  - Reconciler: per-record Normalize -> Validate -> Lookup -> {Update|Create}
  - Manager: one-run orchestration, run id, timing, summary logging

Failure model: any fetch-stage failure aborts the whole run before anything
is written (no partial fetch is reconciled). Per-record failures during
reconciliation are logged with the member's display name and external id and
never abort the batch. Nothing is retried; the destination circuit breaker
only sheds load when the CMS is persistently failing.
*/
package sync
