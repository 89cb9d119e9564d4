// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the persisted records and API shapes for the
// CommandCenter orchestrator: Projects, Ideas, Connections, and the
// request/response contracts of the intelligence operations.
package datatypes

import "time"

// Idea lifecycle stages. The progression is ordered but not enforced;
// callers may set a status directly.
const (
	StatusResonance  = "resonance"
	StatusIdea       = "idea"
	StatusHypothesis = "hypothesis"
	StatusTask       = "task"
)

// ValidStatus reports whether s is one of the four lifecycle stages.
func ValidStatus(s string) bool {
	switch s {
	case StatusResonance, StatusIdea, StatusHypothesis, StatusTask:
		return true
	}
	return false
}

// Project is the root entity. It owns its Ideas (cascade delete) and
// carries the accumulated context blob plus the completeness score the
// discovery loop maintains.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Goal string `json:"goal"`

	// Context is an opaque JSON blob (category -> facts) produced by the
	// discovery loop. Stored as a string so a malformed blob can never
	// break record decoding; consumers parse it best-effort.
	Context string `json:"context"`

	// ContextCompleteness is the reasoning service's holistic judgment of
	// how much decision-relevant information is known, in [0.0, 1.0].
	ContextCompleteness float64 `json:"context_completeness"`

	CreatedAt time.Time `json:"created_at"`
}

// Idea is a unit of strategic content crystallizing through
// resonance -> idea -> hypothesis -> task.
//
// Confidence and CalibratedConfidence are independent estimates and are
// deliberately kept side by side, never merged. Both are pointers: a nil
// calibrated confidence means "no calibrated estimate exists", which is a
// different fact from "estimated near zero".
type Idea struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`

	Description string `json:"description"`
	Status      string `json:"status"`

	Confidence           *float64 `json:"confidence"`
	CalibratedConfidence *float64 `json:"calibrated_confidence"`
	ValidationReasoning  string   `json:"validation_reasoning"`

	// ParentID links to the idea this one crystallized from. It is an
	// identifier back-reference, not an owning pointer; children are found
	// by reverse lookup.
	ParentID string `json:"parent_id,omitempty"`

	// Canvas coordinates for presentation.
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Connection is a directed edge between two ideas on the canvas. Duplicate
// edges and cycles are legal. A connection's lifetime is bounded by its
// endpoints: deleting either idea deletes the connection.
type Connection struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"source_id"`
	TargetID  string    `json:"target_id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
