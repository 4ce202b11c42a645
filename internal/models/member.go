// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package models

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ExternalID is the stable unique identifier a member carries on the source
// platform. The source API is inconsistent about its JSON type (some
// endpoints emit a number, others a string), so it unmarshals from either
// and normalizes to the string form, which is also used as the destination
// slug.
type ExternalID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ExternalID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ExternalID(n.String())
		return nil
	}

	return fmt.Errorf("external id must be a string or number, got: %s", trimmed)
}

// MarshalJSON always emits the string form.
func (id ExternalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// String returns the canonical string form of the id.
func (id ExternalID) String() string {
	return string(id)
}

// SocialLinks holds the optional social profile URLs of a member. Absent
// links stay empty strings.
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// SourceMember is a member profile as read from the community platform API.
// ExternalID, DisplayName, and EmailAddress are required for processing; a
// member missing any of them is invalid and skipped entirely (no partial
// sync). All other fields are optional and default to empty strings.
type SourceMember struct {
	ExternalID      ExternalID  `json:"externalId"      validate:"required"`
	DisplayName     string      `json:"displayName"     validate:"required"`
	EmailAddress    string      `json:"emailAddress"    validate:"required"`
	Biography       string      `json:"biography"`
	Headline        string      `json:"headline"`
	WebsiteURL      string      `json:"websiteUrl"`
	Location        string      `json:"location"`
	SignupTimestamp string      `json:"signupTimestamp"`
	SocialLinks     SocialLinks `json:"socialLinks"`
}

// ItemFields is the full field mapping written to the destination CMS on
// every create and update. Writes are whole-record overwrites; partial or
// merge semantics are never used.
type ItemFields struct {
	ExternalID string `json:"externalId"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Bio        string `json:"bio"`
	Headline   string `json:"headline"`
	Website    string `json:"website"`
	Location   string `json:"location"`
	SignupDate string `json:"signupDate"`
	Facebook   string `json:"facebook"`
	LinkedIn   string `json:"linkedin"`
	Instagram  string `json:"instagram"`
}

// Normalize maps a source member onto the destination field layout. The slug
// is derived deterministically from the external id by string conversion;
// optional fields carry their typed zero value (empty string) when absent
// from the source payload.
func (m *SourceMember) Normalize() ItemFields {
	return ItemFields{
		ExternalID: m.ExternalID.String(),
		Slug:       m.ExternalID.String(),
		Name:       m.DisplayName,
		Email:      m.EmailAddress,
		Bio:        m.Biography,
		Headline:   m.Headline,
		Website:    m.WebsiteURL,
		Location:   m.Location,
		SignupDate: m.SignupTimestamp,
		Facebook:   m.SocialLinks.Facebook,
		LinkedIn:   m.SocialLinks.LinkedIn,
		Instagram:  m.SocialLinks.Instagram,
	}
}
