// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/syncfold/membersync/internal/config"
	"github.com/syncfold/membersync/internal/models"
)

// MemberPage is one page of the source member listing. NextCursor is an
// opaque continuation token; its absence signals end of data.
type MemberPage struct {
	Members    []models.SourceMember `json:"members"`
	NextCursor string                `json:"nextCursor"`
}

// SourcePager lists member pages from the source platform. Implemented by
// SourceClient for production and by fakes in tests.
type SourcePager interface {
	FetchPage(ctx context.Context, cursor string) (*MemberPage, error)
}

// SourceClient handles communication with the community platform's member
// listing API.
//
// Authentication is a bearer token on every request. The client performs no
// retries: any transport error or non-2xx status is returned to the caller,
// which treats it as fatal for the run (a partial fetch is never reconciled).
//
// Thread Safety: safe for concurrent use; each call builds its own request.
type SourceClient struct {
	baseURL  string
	apiToken string
	pageSize int
	client   *http.Client
}

// NewSourceClient creates a source API client from configuration.
func NewSourceClient(cfg *config.SourceConfig) *SourceClient {
	return &SourceClient{
		baseURL:  cfg.URL,
		apiToken: cfg.APIToken,
		pageSize: cfg.PageSize,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// FetchPage requests one page of members:
//
//	GET <base>/members?limit=<pageSize>[&cursor=<cursor>]
//
// An empty cursor requests the first page. A 2xx page whose members array is
// missing decodes to a nil Members slice; the Fetcher treats that as soft
// end-of-data, not an error.
func (c *SourceClient) FetchPage(ctx context.Context, cursor string) (*MemberPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	reqURL := fmt.Sprintf("%s/members?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create member list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("member list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("member list request failed with status %d: %s", resp.StatusCode, string(body))
	}

	page := &MemberPage{}
	if err := json.NewDecoder(resp.Body).Decode(page); err != nil {
		return nil, fmt.Errorf("failed to decode member page: %w", err)
	}

	return page, nil
}
