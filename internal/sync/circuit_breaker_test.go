// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"context"
	"errors"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/syncfold/membersync/internal/models"
)

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	dest := newFakeDestination()
	dest.items["7"] = &models.Item{ID: "item-7", Fields: models.ItemFields{ExternalID: "7"}}

	cb := NewCircuitBreakerClient(dest)

	item, err := cb.LookupByExternalID(context.Background(), "7")
	if err != nil {
		t.Fatalf("LookupByExternalID() error = %v", err)
	}
	if item.ID != "item-7" {
		t.Errorf("item.ID = %q, want item-7", item.ID)
	}

	if _, err := cb.CreateItem(context.Background(), testFields("8")); err != nil {
		t.Errorf("CreateItem() error = %v", err)
	}
	if _, err := cb.UpdateItem(context.Background(), "item-7", testFields("7")); err != nil {
		t.Errorf("UpdateItem() error = %v", err)
	}
}

func TestCircuitBreakerNotFoundIsNotAFailure(t *testing.T) {
	dest := newFakeDestination()
	cb := NewCircuitBreakerClient(dest)

	// Well past the trip threshold: misses must keep the breaker closed.
	for i := 0; i < 20; i++ {
		if _, err := cb.LookupByExternalID(context.Background(), "missing"); !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("lookup %d error = %v, want ErrItemNotFound", i, err)
		}
	}

	if state := cb.State(); state != gobreaker.StateClosed {
		t.Errorf("breaker state = %v after lookup misses, want closed", state)
	}
}

func TestCircuitBreakerOpensOnPersistentFailure(t *testing.T) {
	dest := newFakeDestination()
	dest.lookupErr = errors.New("cms down")
	cb := NewCircuitBreakerClient(dest)

	// Trip condition: >= 10 requests with >= 60% failures.
	for i := 0; i < 10; i++ {
		_, _ = cb.LookupByExternalID(context.Background(), "7")
	}

	if state := cb.State(); state != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v after persistent failures, want open", state)
	}

	// Open circuit rejects without touching the destination.
	before := len(dest.lookups)
	_, err := cb.LookupByExternalID(context.Background(), "7")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want gobreaker.ErrOpenState", err)
	}
	if len(dest.lookups) != before {
		t.Error("open breaker still issued a destination request")
	}
}

func TestStateConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state     gobreaker.State
		wantStr   string
		wantFloat float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateOpen, "open", 1},
		{gobreaker.StateHalfOpen, "half-open", 2},
	}

	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.wantStr {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.wantStr)
		}
		if got := stateToFloat(tt.state); got != tt.wantFloat {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.wantFloat)
		}
	}
}
