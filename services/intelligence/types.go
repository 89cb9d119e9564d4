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

// WanderIdea is one nascent direction produced by Wander.
type WanderIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	WhyRelevant string `json:"why_relevant"`
}

// ValidationResult is the outcome of hypothesis validation.
//
// Confidence comes from the reasoning service's qualitative analysis.
// CalibratedConfidence comes from the forecasting model and is nil whenever
// no calibrated estimate exists. The two are reported side by side and are
// never combined numerically: disagreement between them is useful signal
// that averaging would destroy.
type ValidationResult struct {
	Confidence           float64  `json:"confidence"`
	CalibratedConfidence *float64 `json:"calibrated_confidence"`
	Reasoning            string   `json:"reasoning"`
	Risks                []string `json:"risks"`
	NextSteps            []string `json:"next_steps"`
}

// PlanAction is one step of an action plan. Dependencies reference other
// actions in the same plan by their action text; empty means no
// prerequisite.
type PlanAction struct {
	Action       string   `json:"action"`
	Why          string   `json:"why"`
	Effort       string   `json:"effort"` // low | medium | high
	Dependencies []string `json:"dependencies"`
}

// ContextQuestion is one gap the discovery loop wants filled.
type ContextQuestion struct {
	Question     string `json:"question"`
	WhyItMatters string `json:"why_it_matters"`
	Priority     string `json:"priority"` // high | medium | low
	Category     string `json:"category"` // product | market | team | finance | strategy
}

// DiscoveryResult is the output of a context-discovery pass: the questions
// worth asking next, the model's holistic completeness judgment, and a
// short summary of what is already known.
type DiscoveryResult struct {
	Questions           []ContextQuestion `json:"questions"`
	ContextCompleteness float64           `json:"context_completeness"`
	Summary             string            `json:"summary"`
}

// The five fixed knowledge categories of the context ledger.
var contextCategories = []string{"product", "market", "team", "finance", "strategy"}
