// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intelligence

import (
	"errors"
	"strings"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no fence",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "plain fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "json language tag",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n```json\n[1, 2]\n```\n  ",
			want: "[1, 2]",
		},
		{
			name: "fence without closing",
			in:   "```json\n{\"a\": 1}",
			want: `{"a": 1}`,
		},
		{
			name: "single line fence",
			in:   "```json{\"a\": 1}```",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeStrict_Success(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}
	err := decodeStrict("wander", "```json\n{\"title\": \"x\"}\n```", &out)
	if err != nil {
		t.Fatalf("decodeStrict error = %v", err)
	}
	if out.Title != "x" {
		t.Errorf("Title = %q, want x", out.Title)
	}
}

func TestDecodeStrict_MalformedIsParseError(t *testing.T) {
	var out map[string]interface{}
	err := decodeStrict("validate", "Sure! Here is my analysis of the hypothesis...", &out)
	if err == nil {
		t.Fatal("expected an error for non-JSON output")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if parseErr.Op != "validate" {
		t.Errorf("Op = %q, want validate", parseErr.Op)
	}
	if parseErr.Snippet == "" {
		t.Error("Snippet should carry the offending output")
	}
	if parseErr.Unwrap() == nil {
		t.Error("Unwrap() should expose the underlying decode error")
	}
}

func TestNewParseError_TruncatesSnippet(t *testing.T) {
	raw := strings.Repeat("x", 500)
	err := newParseError("plan", raw, errors.New("boom"))
	if len(err.Snippet) != 120 {
		t.Errorf("Snippet length = %d, want 120", len(err.Snippet))
	}
	if !strings.Contains(err.Error(), "plan") {
		t.Errorf("Error() should name the operation: %s", err.Error())
	}
}
