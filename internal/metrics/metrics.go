// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch stage metrics
var (
	// FetchPages counts paginated list requests issued against the source API.
	FetchPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membersync_fetch_pages_total",
		Help: "Total number of source API page requests",
	})

	// MembersFetched counts member records accumulated across all pages.
	MembersFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membersync_members_fetched_total",
		Help: "Total number of member records fetched from the source API",
	})
)

// Reconcile stage metrics
var (
	// RecordsCreated counts destination items created.
	RecordsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membersync_records_created_total",
		Help: "Total number of destination records created",
	})

	// RecordsUpdated counts destination items overwritten in place.
	RecordsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membersync_records_updated_total",
		Help: "Total number of destination records updated",
	})

	// RecordsSkipped counts source members rejected by validation.
	RecordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "membersync_records_skipped_total",
		Help: "Total number of source members skipped for missing required fields",
	})

	// RecordErrors counts per-record failures by pipeline stage.
	// Stages: lookup, create, update.
	RecordErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membersync_record_errors_total",
		Help: "Total number of non-fatal per-record failures",
	}, []string{"stage"})
)

// Run-level metrics
var (
	// RunDuration observes wall-clock duration of complete sync runs.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "membersync_run_duration_seconds",
		Help:    "Duration of complete sync runs",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

	// RunLastSuccess records the unix timestamp of the last successful run.
	RunLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "membersync_run_last_success_timestamp",
		Help: "Unix timestamp of the last successful sync run",
	})
)

// Circuit breaker metrics (destination CMS client)
var (
	// CircuitBreakerState reports the current state per breaker:
	// 0=closed, 1=open, 2=half-open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "membersync_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
	}, []string{"name"})

	// CircuitBreakerTransitions counts state transitions per breaker.
	CircuitBreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membersync_circuit_breaker_transitions_total",
		Help: "Total number of circuit breaker state transitions",
	}, []string{"name", "from", "to"})

	// CircuitBreakerRequests counts requests through each breaker by outcome:
	// success, failure, rejected.
	CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "membersync_circuit_breaker_requests_total",
		Help: "Total number of requests through the circuit breaker by outcome",
	}, []string{"name", "outcome"})

	// CircuitBreakerConsecutiveFailures tracks the current consecutive
	// failure streak per breaker.
	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "membersync_circuit_breaker_consecutive_failures",
		Help: "Current number of consecutive failures per circuit breaker",
	}, []string{"name"})
)
