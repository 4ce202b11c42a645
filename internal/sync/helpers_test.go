// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package sync

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// failingReader is a reader that always fails.
type failingReader struct{}

func (f *failingReader) Read(_ []byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestReadBodyForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    io.Reader
		expected string
	}{
		{
			name:     "normal body content",
			input:    strings.NewReader("error message body"),
			expected: "error message body",
		},
		{
			name:     "empty body",
			input:    strings.NewReader(""),
			expected: "",
		},
		{
			name:     "JSON error response",
			input:    strings.NewReader(`{"err": "something went wrong"}`),
			expected: `{"err": "something went wrong"}`,
		},
		{
			name:     "failing reader",
			input:    &failingReader{},
			expected: "(failed to read response body)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := string(readBodyForError(tt.input)); got != tt.expected {
				t.Errorf("readBodyForError() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReadBodyForErrorTruncatesLargeBodies(t *testing.T) {
	t.Parallel()

	got := string(readBodyForError(strings.NewReader(strings.Repeat("x", maxErrorBodySize+100))))
	if !strings.HasSuffix(got, "... (truncated)") {
		t.Error("oversized body was not marked as truncated")
	}
	if len(got) > maxErrorBodySize+len("\n... (truncated)") {
		t.Errorf("truncated body too large: %d bytes", len(got))
	}
}
