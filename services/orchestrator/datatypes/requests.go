// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// --- Project requests ---

type ProjectCreateRequest struct {
	Name string `json:"name" binding:"required"`
	Goal string `json:"goal"`
}

// ProjectUpdateRequest is a partial update. Pointer fields distinguish
// "not sent" from "set to the zero value".
type ProjectUpdateRequest struct {
	Name                *string  `json:"name"`
	Goal                *string  `json:"goal"`
	Context             *string  `json:"context"`
	ContextCompleteness *float64 `json:"context_completeness" binding:"omitempty,gte=0,lte=1"`
}

// --- Idea requests ---

type IdeaCreateRequest struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ParentID    string  `json:"parent_id"`
	PositionX   float64 `json:"position_x"`
	PositionY   float64 `json:"position_y"`
}

type IdeaUpdateRequest struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Status               *string  `json:"status"`
	Confidence           *float64 `json:"confidence" binding:"omitempty,gte=0,lte=1"`
	CalibratedConfidence *float64 `json:"calibrated_confidence" binding:"omitempty,gte=0,lte=1"`
	ValidationReasoning  *string  `json:"validation_reasoning"`
	PositionX            *float64 `json:"position_x"`
	PositionY            *float64 `json:"position_y"`
}

// --- Connection requests ---

type ConnectionCreateRequest struct {
	SourceID string `json:"source_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
	Label    string `json:"label"`
}

// ConnectionUpdateRequest patches the label only; endpoints are immutable.
type ConnectionUpdateRequest struct {
	Label *string `json:"label"`
}

// --- Intelligence requests ---

type WanderRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Context   string `json:"context" binding:"required"`
}

type ValidateRequest struct {
	Hypothesis string `json:"hypothesis" binding:"required"`
	Context    string `json:"context"`
}

type PlanRequest struct {
	ProjectID     string `json:"project_id" binding:"required"`
	ValidatedIdea string `json:"validated_idea" binding:"required"`
	Constraints   string `json:"constraints"`
}

type DiscoverContextRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

type AnswerContextRequest struct {
	ProjectID string            `json:"project_id" binding:"required"`
	Answers   map[string]string `json:"answers" binding:"required"`
}
