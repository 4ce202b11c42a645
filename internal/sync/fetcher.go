// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/syncfold/membersync/internal/logging"
	"github.com/syncfold/membersync/internal/metrics"
	"github.com/syncfold/membersync/internal/models"
)

// Fetcher retrieves the complete member set for one run by following the
// source API's cursor pagination until exhausted, accumulating all pages in
// memory. Consecutive page requests are spaced by a token-bucket limiter to
// stay under the source rate limit.
type Fetcher struct {
	source  SourcePager
	limiter *rate.Limiter
}

// NewFetcher creates a fetcher over the given pager. pageDelay is the
// minimum spacing between consecutive page requests; zero or negative
// disables pacing (used by tests).
func NewFetcher(source SourcePager, pageDelay time.Duration) *Fetcher {
	return &Fetcher{
		source:  source,
		limiter: rate.NewLimiter(rate.Every(pageDelay), 1),
	}
}

// FetchAll walks the cursor chain and returns every member the source
// reports. The loop terminates when a page carries no continuation cursor,
// or when a page lacks a members array (soft end-of-data). Any transport or
// non-2xx failure aborts with an error; the caller must not reconcile a
// partial fetch. An empty result with a nil error is a valid terminal state.
func (f *Fetcher) FetchAll(ctx context.Context) ([]models.SourceMember, error) {
	var members []models.SourceMember
	cursor := ""

	for page := 1; ; page++ {
		// First Wait passes immediately; later iterations space the requests.
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch aborted while waiting for rate limiter: %w", err)
		}

		resp, err := f.source.FetchPage(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetching member page %d: %w", page, err)
		}
		metrics.FetchPages.Inc()

		if len(resp.Members) == 0 {
			// A page without members ends the walk even if a cursor is
			// present; a malformed page is end-of-data, not an error.
			logging.Debug().Int("page", page).Msg("Page without members, ending fetch")
			break
		}

		members = append(members, resp.Members...)
		metrics.MembersFetched.Add(float64(len(resp.Members)))
		logging.Debug().
			Int("page", page).
			Int("page_members", len(resp.Members)).
			Int("total_members", len(members)).
			Msg("Fetched member page")

		if resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	return members, nil
}
