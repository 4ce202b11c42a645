// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/syncfold/membersync/internal/config"
	"github.com/syncfold/membersync/internal/models"
)

// newTestDestClient points a DestinationClient at the given test server.
func newTestDestClient(srv *httptest.Server) *DestinationClient {
	return NewDestinationClient(&config.DestinationConfig{
		URL:          srv.URL,
		APIToken:     "dst-token",
		SiteID:       "site-1",
		CollectionID: "coll-1",
		APIVersion:   "1.0.0",
		Timeout:      5 * time.Second,
	})
}

func testFields(id string) models.ItemFields {
	return models.ItemFields{
		ExternalID: id,
		Slug:       id,
		Name:       "Ada",
		Email:      "ada@example.com",
	}
}

func TestLookupRequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotVersion, gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("accept-version")
		gotFilter = r.URL.Query().Get("filter")
		_, _ = w.Write([]byte(`{"items": [{"id": "item-1", "fields": {"externalId": "7", "slug": "7"}}]}`))
	}))
	defer srv.Close()

	item, err := newTestDestClient(srv).LookupByExternalID(context.Background(), "7")
	if err != nil {
		t.Fatalf("LookupByExternalID() error = %v", err)
	}

	if gotPath != "/sites/site-1/collections/coll-1/items" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer dst-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotVersion != "1.0.0" {
		t.Errorf("accept-version = %q, want 1.0.0", gotVersion)
	}
	if gotFilter != `{"externalId":"7"}` {
		t.Errorf("filter = %q, want {\"externalId\":\"7\"}", gotFilter)
	}
	if item.ID != "item-1" {
		t.Errorf("item.ID = %q, want item-1", item.ID)
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty item list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"items": []}`))
			},
		},
		{
			name: "explicit 404",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "no such item", http.StatusNotFound)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestDestClient(srv).LookupByExternalID(context.Background(), "7")
			if !errors.Is(err, ErrItemNotFound) {
				t.Errorf("LookupByExternalID() error = %v, want ErrItemNotFound", err)
			}
		})
	}
}

func TestLookupServerErrorIsNotNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestDestClient(srv).LookupByExternalID(context.Background(), "7")
	if err == nil || errors.Is(err, ErrItemNotFound) {
		t.Errorf("LookupByExternalID() error = %v, want non-not-found error", err)
	}
}

func TestCreateItemRequestShape(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotContentType string
	var gotBody models.ItemEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		_, _ = w.Write([]byte(`{"id": "new-item", "fields": {"externalId": "7", "slug": "7"}}`))
	}))
	defer srv.Close()

	item, err := newTestDestClient(srv).CreateItem(context.Background(), testFields("7"))
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPath != "/sites/site-1/collections/coll-1/items" {
		t.Errorf("path = %q", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody.Fields.ExternalID != "7" || gotBody.Fields.Slug != "7" {
		t.Errorf("body fields externalId/slug = %q/%q, want 7/7", gotBody.Fields.ExternalID, gotBody.Fields.Slug)
	}
	if item.ID != "new-item" {
		t.Errorf("item.ID = %q, want new-item", item.ID)
	}
}

func TestUpdateItemRequestShape(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id": "item-9", "fields": {"externalId": "9"}}`))
	}))
	defer srv.Close()

	if _, err := newTestDestClient(srv).UpdateItem(context.Background(), "item-9", testFields("9")); err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/sites/site-1/collections/coll-1/items/item-9" {
		t.Errorf("path = %q, want item-9 suffix", gotPath)
	}
}

func TestWriteItemEmptyResponseBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	item, err := newTestDestClient(srv).CreateItem(context.Background(), testFields("7"))
	if err != nil {
		t.Fatalf("CreateItem() error = %v, want nil for empty 2xx body", err)
	}
	if item.Fields.ExternalID != "7" {
		t.Errorf("fallback item fields externalId = %q, want 7", item.Fields.ExternalID)
	}
}

func TestWriteItemNon2xxIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"err": "ValidationError"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestDestClient(srv)
	if _, err := client.CreateItem(context.Background(), testFields("7")); err == nil {
		t.Error("CreateItem() = nil error for 400, want error")
	}
	if _, err := client.UpdateItem(context.Background(), "x", testFields("7")); err == nil {
		t.Error("UpdateItem() = nil error for 400, want error")
	}
}
