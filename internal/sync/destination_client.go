// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/syncfold/membersync/internal/config"
	"github.com/syncfold/membersync/internal/models"
)

// ErrItemNotFound reports that no destination item matches the external id.
// This is the normal signal for the create path, never a failure.
var ErrItemNotFound = errors.New("destination item not found")

// DestinationAPI is the CMS surface the reconciler needs. Implemented by
// DestinationClient, by CircuitBreakerClient, and by fakes in tests.
type DestinationAPI interface {
	// LookupByExternalID returns the single item whose externalId field
	// matches, or ErrItemNotFound when no item matches.
	LookupByExternalID(ctx context.Context, externalID string) (*models.Item, error)

	// CreateItem creates a new collection item with the full field mapping.
	CreateItem(ctx context.Context, fields models.ItemFields) (*models.Item, error)

	// UpdateItem overwrites every mapped field of an existing item.
	UpdateItem(ctx context.Context, itemID string, fields models.ItemFields) (*models.Item, error)
}

// DestinationClient handles communication with the CMS collection-items API.
//
// Every call carries bearer-token authorization and a fixed accept-version
// header; write calls additionally send Content-Type: application/json. The
// client performs no retries — per-record failures are the reconciler's to
// log and skip.
//
// The filter-query syntax used by LookupByExternalID mirrors what the CMS
// currently accepts and is isolated here so a wire-format correction touches
// one method.
//
// Thread Safety: safe for concurrent use; each call builds its own request.
type DestinationClient struct {
	baseURL      string
	apiToken     string
	siteID       string
	collectionID string
	apiVersion   string
	client       *http.Client
}

// NewDestinationClient creates a CMS API client from configuration.
func NewDestinationClient(cfg *config.DestinationConfig) *DestinationClient {
	return &DestinationClient{
		baseURL:      cfg.URL,
		apiToken:     cfg.APIToken,
		siteID:       cfg.SiteID,
		collectionID: cfg.CollectionID,
		apiVersion:   cfg.APIVersion,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// itemsURL returns the collection-items endpoint for the configured site and
// collection.
func (c *DestinationClient) itemsURL() string {
	return fmt.Sprintf("%s/sites/%s/collections/%s/items", c.baseURL, c.siteID, c.collectionID)
}

// LookupByExternalID performs the point lookup keyed on external id:
//
//	GET <items>?filter={"externalId":"<id>"}
//
// An explicit 404 and an empty item list both return ErrItemNotFound. When
// the CMS reports more than one match (which the upsert discipline should
// make impossible), the first item wins; last write wins on its fields.
func (c *DestinationClient) LookupByExternalID(ctx context.Context, externalID string) (*models.Item, error) {
	filter, err := json.Marshal(map[string]string{"externalId": externalID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup filter: %w", err)
	}

	params := url.Values{}
	params.Set("filter", string(filter))
	reqURL := c.itemsURL() + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create item lookup request: %w", err)
	}
	c.setCommonHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("item lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrItemNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("item lookup failed with status %d: %s", resp.StatusCode, string(body))
	}

	list := &models.ItemList{}
	if err := json.NewDecoder(resp.Body).Decode(list); err != nil {
		return nil, fmt.Errorf("failed to decode item lookup response: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, ErrItemNotFound
	}

	return &list.Items[0], nil
}

// CreateItem creates a new collection item carrying the full field mapping.
func (c *DestinationClient) CreateItem(ctx context.Context, fields models.ItemFields) (*models.Item, error) {
	return c.writeItem(ctx, http.MethodPost, c.itemsURL(), fields)
}

// UpdateItem overwrites all mapped fields of the item with the given id.
func (c *DestinationClient) UpdateItem(ctx context.Context, itemID string, fields models.ItemFields) (*models.Item, error) {
	return c.writeItem(ctx, http.MethodPut, c.itemsURL()+"/"+url.PathEscape(itemID), fields)
}

// writeItem sends a create or update with the {fields: {...}} body shape
// shared by both write endpoints.
func (c *DestinationClient) writeItem(ctx context.Context, method, reqURL string, fields models.ItemFields) (*models.Item, error) {
	body, err := json.Marshal(models.ItemEnvelope{Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("failed to encode item fields: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create item write request: %w", err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("item write request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody := readBodyForError(resp.Body)
		return nil, fmt.Errorf("item write failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	item := &models.Item{}
	if err := json.NewDecoder(resp.Body).Decode(item); err != nil {
		// Some CMS deployments answer writes with an empty body; the
		// reconciler only needs the write to have succeeded.
		if errors.Is(err, io.EOF) {
			return &models.Item{Fields: fields}, nil
		}
		return nil, fmt.Errorf("failed to decode item write response: %w", err)
	}

	return item, nil
}

// setCommonHeaders applies the auth and API-version headers every
// destination call carries.
func (c *DestinationClient) setCommonHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("accept-version", c.apiVersion)
	req.Header.Set("Accept", "application/json")
}
