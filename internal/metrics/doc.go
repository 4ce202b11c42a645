// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

/*
Package metrics provides Prometheus instrumentation for the sync job.

All collectors are registered with the default registry via promauto and are
exposed at /metrics by the optional operational listener (see internal/api).
Because the job is short-lived, run-level metrics are most useful when the
scheduler scrapes during runs or a pushgateway-style sidecar is in place;
counters nonetheless keep per-run accounting honest in logs and tests.

Metric groups:

Fetch stage:
  - membersync_fetch_pages_total: source page requests (counter)
  - membersync_members_fetched_total: member records accumulated (counter)

Reconcile stage:
  - membersync_records_created_total / _updated_total: upsert outcomes (counters)
  - membersync_records_skipped_total: members failing validation (counter)
  - membersync_record_errors_total{stage}: non-fatal per-record failures,
    stage is lookup, create, or update (counter)

Run level:
  - membersync_run_duration_seconds: run duration histogram
  - membersync_run_last_success_timestamp: last successful run (gauge)

Circuit breaker (destination client):
  - membersync_circuit_breaker_state{name}: 0=closed, 1=open, 2=half-open
  - membersync_circuit_breaker_transitions_total{name,from,to}
  - membersync_circuit_breaker_requests_total{name,outcome}
  - membersync_circuit_breaker_consecutive_failures{name}
*/
package metrics
