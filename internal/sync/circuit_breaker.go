// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/syncfold/membersync/internal/logging"
	"github.com/syncfold/membersync/internal/metrics"
	"github.com/syncfold/membersync/internal/models"
)

// destinationBreakerName labels the breaker in logs and metrics.
const destinationBreakerName = "destination-cms"

// CircuitBreakerClient wraps a DestinationAPI with the circuit breaker
// pattern so a persistently failing CMS sheds load instead of burning the
// whole batch through timeouts one record at a time.
//
// ErrItemNotFound is the normal create-path signal and never counts as a
// breaker failure.
//
// DETERMINISM NOTE: the breaker uses real time (via sony/gobreaker) for its
// interval and timeout calculations. The timing determines when to recover
// from failures, not data integrity; unit tests should exercise the wrapped
// client directly.
type CircuitBreakerClient struct {
	dest DestinationAPI
	cb   *gobreaker.CircuitBreaker[*models.Item]
}

// NewCircuitBreakerClient wraps the given destination client.
// Breaker configuration:
//   - max 3 requests while half-open
//   - 1 minute measurement window in closed state
//   - 1 minute open period before probing recovery
//   - opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(dest DestinationAPI) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(destinationBreakerName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(destinationBreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*models.Item](gobreaker.Settings{
		Name:        destinationBreakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false // need enough requests for statistical significance
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// Lookup misses proceed to the create path; only real request
		// failures count against the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrItemNotFound)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		dest: dest,
		cb:   cb,
	}
}

// execute runs a destination call through the breaker and keeps the request
// outcome metrics current.
func (c *CircuitBreakerClient) execute(fn func() (*models.Item, error)) (*models.Item, error) {
	item, err := c.cb.Execute(fn)

	switch {
	case err == nil, errors.Is(err, ErrItemNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(destinationBreakerName, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(destinationBreakerName).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(destinationBreakerName, "rejected").Inc()
		logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(destinationBreakerName, "failure").Inc()
		counts := c.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(destinationBreakerName).
			Set(float64(counts.ConsecutiveFailures))
	}

	return item, err
}

// LookupByExternalID implements DestinationAPI.
func (c *CircuitBreakerClient) LookupByExternalID(ctx context.Context, externalID string) (*models.Item, error) {
	return c.execute(func() (*models.Item, error) {
		return c.dest.LookupByExternalID(ctx, externalID)
	})
}

// CreateItem implements DestinationAPI.
func (c *CircuitBreakerClient) CreateItem(ctx context.Context, fields models.ItemFields) (*models.Item, error) {
	return c.execute(func() (*models.Item, error) {
		return c.dest.CreateItem(ctx, fields)
	})
}

// UpdateItem implements DestinationAPI.
func (c *CircuitBreakerClient) UpdateItem(ctx context.Context, itemID string, fields models.ItemFields) (*models.Item, error) {
	return c.execute(func() (*models.Item, error) {
		return c.dest.UpdateItem(ctx, itemID, fields)
	})
}

// State returns the current breaker state for observability.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.cb.State()
}

// stateToString converts a gobreaker state to its label form.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a gobreaker state to its metric encoding.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return -1
	}
}
