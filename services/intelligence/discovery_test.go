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
	"context"
	"errors"
	"strings"
	"testing"
)

const discoveryResponse = `{
	"questions": [
		{"question": "Who is the target buyer?", "why_it_matters": "Changes everything.", "priority": "high", "category": "market"},
		{"question": "What is the runway?", "why_it_matters": "Bounds the plan.", "priority": "medium", "category": "finance"}
	],
	"context_completeness": 0.3,
	"summary": "Early stage, little is known."
}`

func TestDiscoverContext_ParsesResult(t *testing.T) {
	client := &fakeLLM{response: discoveryResponse}
	o := New(client, nil)

	result, err := o.DiscoverContext(context.Background(), "Launch", "grow revenue", "")
	if err != nil {
		t.Fatalf("DiscoverContext error = %v", err)
	}

	if len(result.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(result.Questions))
	}
	if result.Questions[0].Category != "market" {
		t.Errorf("Category = %q", result.Questions[0].Category)
	}
	if result.ContextCompleteness != 0.3 {
		t.Errorf("ContextCompleteness = %v, want 0.3", result.ContextCompleteness)
	}
	if !strings.Contains(client.lastPrompt, "Nothing is known about this project yet.") {
		t.Error("empty known context should be stated in the prompt")
	}
}

func TestDiscoverContext_ForbidsReAsking(t *testing.T) {
	client := &fakeLLM{response: discoveryResponse}
	o := New(client, nil)

	_, err := o.DiscoverContext(context.Background(), "Launch", "g", `{"team": ["solo founder"]}`)
	if err != nil {
		t.Fatalf("DiscoverContext error = %v", err)
	}
	if !strings.Contains(client.lastPrompt, "solo founder") {
		t.Error("known context should be embedded in the prompt")
	}
	if !strings.Contains(client.lastPrompt, "do NOT re-ask") {
		t.Error("prompt should forbid re-asking known facts")
	}
}

func TestDiscoverContext_ClampsCompleteness(t *testing.T) {
	o := New(&fakeLLM{response: `{"questions": [], "context_completeness": 2.5, "summary": "s"}`}, nil)

	result, err := o.DiscoverContext(context.Background(), "P", "g", "")
	if err != nil {
		t.Fatalf("DiscoverContext error = %v", err)
	}
	if result.ContextCompleteness != 1.0 {
		t.Errorf("ContextCompleteness = %v, want clamped 1.0", result.ContextCompleteness)
	}
}

func TestDiscoverContext_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"missing summary", `{"questions": [], "context_completeness": 0.2}`},
		{"question without text", `{"questions": [{"priority": "high"}], "context_completeness": 0.2, "summary": "s"}`},
		{"not json", "Let me think about what we still need to know..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(&fakeLLM{response: tt.response}, nil)
			_, err := o.DiscoverContext(context.Background(), "P", "g", "")
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if parseErr.Op != "discover_context" {
				t.Errorf("Op = %q, want discover_context", parseErr.Op)
			}
		})
	}
}

func TestIntegrateAnswers_ReturnsMergedObject(t *testing.T) {
	client := &fakeLLM{response: "```json\n" +
		`{"market": ["b2b"], "team": ["solo founder"]}` + "\n```"}
	o := New(client, nil)

	merged, err := o.IntegrateAnswers(context.Background(), "Launch", "g",
		`{"market": ["b2b"]}`, map[string]string{"Team size?": "Just me"})
	if err != nil {
		t.Fatalf("IntegrateAnswers error = %v", err)
	}
	if _, ok := merged["team"]; !ok {
		t.Error("merged context missing integrated answer")
	}
	if !strings.Contains(client.lastPrompt, "Just me") {
		t.Error("prompt should carry the user's answer")
	}
}

func TestIntegrateAnswers_NonObjectOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"array", `["not", "an", "object"]`},
		{"null", `null`},
		{"prose", "The context has been updated."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(&fakeLLM{response: tt.response}, nil)
			_, err := o.IntegrateAnswers(context.Background(), "P", "g", "", map[string]string{"q": "a"})
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
		})
	}
}

func TestEncodeContext(t *testing.T) {
	encoded, err := EncodeContext(map[string]interface{}{"market": []string{"b2b"}})
	if err != nil {
		t.Fatalf("EncodeContext error = %v", err)
	}
	if encoded != `{"market":["b2b"]}` {
		t.Errorf("EncodeContext = %s", encoded)
	}
}
