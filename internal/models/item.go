// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package models

// Item is a destination CMS collection item. The ID is assigned by the CMS
// on creation and is opaque to this job; ExternalID inside Fields is the
// sole lookup key, so at most one item exists per distinct external id.
// Items are never deleted by the sync.
type Item struct {
	ID     string     `json:"id"`
	Fields ItemFields `json:"fields"`
}

// ItemList is the envelope of the destination item-search endpoint.
type ItemList struct {
	Items []Item `json:"items"`
}

// ItemEnvelope is the request/response body shape of the destination write
// endpoints (create and update).
type ItemEnvelope struct {
	Fields ItemFields `json:"fields"`
}
