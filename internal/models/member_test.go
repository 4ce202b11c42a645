// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestExternalIDUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    ExternalID
		wantErr bool
	}{
		{name: "string id", input: `"abc-42"`, want: "abc-42"},
		{name: "numeric id", input: `42`, want: "42"},
		{name: "large numeric id", input: `9007199254740993`, want: "9007199254740993"},
		{name: "null id", input: `null`, want: ""},
		{name: "object rejected", input: `{"id":1}`, wantErr: true},
		{name: "array rejected", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var id ExternalID
			err := json.Unmarshal([]byte(tt.input), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, id, tt.want)
			}
		})
	}
}

func TestExternalIDMarshalAsString(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(ExternalID("42"))
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(out) != `"42"` {
		t.Errorf("Marshal = %s, want \"42\"", out)
	}
}

func TestSourceMemberDecodeNumericID(t *testing.T) {
	t.Parallel()

	payload := `{"externalId": 7, "displayName": "Ada", "emailAddress": "ada@example.com"}`

	var m SourceMember
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if m.ExternalID != "7" {
		t.Errorf("ExternalID = %q, want \"7\"", m.ExternalID)
	}
}

func TestNormalizeFullProfile(t *testing.T) {
	t.Parallel()

	m := SourceMember{
		ExternalID:      "abc-1",
		DisplayName:     "Ada Lovelace",
		EmailAddress:    "ada@example.com",
		Biography:       "first programmer",
		Headline:        "engineer",
		WebsiteURL:      "https://ada.example.com",
		Location:        "London",
		SignupTimestamp: "2025-04-01T12:00:00Z",
		SocialLinks: SocialLinks{
			Facebook:  "https://facebook.com/ada",
			LinkedIn:  "https://linkedin.com/in/ada",
			Instagram: "https://instagram.com/ada",
		},
	}

	got := m.Normalize()
	want := ItemFields{
		ExternalID: "abc-1",
		Slug:       "abc-1",
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Bio:        "first programmer",
		Headline:   "engineer",
		Website:    "https://ada.example.com",
		Location:   "London",
		SignupDate: "2025-04-01T12:00:00Z",
		Facebook:   "https://facebook.com/ada",
		LinkedIn:   "https://linkedin.com/in/ada",
		Instagram:  "https://instagram.com/ada",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalizeDefaultsOptionalFields(t *testing.T) {
	t.Parallel()

	payload := `{"externalId": "9", "displayName": "Bo", "emailAddress": "bo@example.com"}`

	var m SourceMember
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	got := m.Normalize()
	if got.Slug != "9" || got.ExternalID != "9" {
		t.Errorf("slug/externalId = %q/%q, want 9/9", got.Slug, got.ExternalID)
	}
	for name, val := range map[string]string{
		"bio":        got.Bio,
		"headline":   got.Headline,
		"website":    got.Website,
		"location":   got.Location,
		"signupDate": got.SignupDate,
		"facebook":   got.Facebook,
		"linkedin":   got.LinkedIn,
		"instagram":  got.Instagram,
	} {
		if val != "" {
			t.Errorf("optional field %s = %q, want empty string", name, val)
		}
	}
}
