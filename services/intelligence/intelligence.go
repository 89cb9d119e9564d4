// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package intelligence implements the strategic reasoning operations of
// CommandCenter: idea exploration (wander), hypothesis validation
// (validate), action planning (plan), and the context discovery loop
// (discover_context / integrate_answers).
//
// Each operation builds a deterministic prompt from structured inputs,
// invokes the injected reasoning backend, and decodes the response into a
// typed result. Malformed output is a *ParseError, never a silent default:
// a caller must be able to distinguish "the idea is not promising" from
// "the system could not produce an answer".
//
// Validation additionally consults an independent calibrated forecaster.
// The two confidence scores travel side by side through the whole system
// and are never merged into one number.
package intelligence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/CommandCenter/services/forecaster"
	"github.com/AleutianAI/CommandCenter/services/llm"
)

// Orchestrator runs the intelligence operations against injected backends.
// No package-level client state exists; construct one per composition root
// and share it freely (it is stateless and safe for concurrent use).
type Orchestrator struct {
	llm        llm.LLMClient
	forecaster forecaster.Forecaster
	maxTokens  int
}

// New builds an Orchestrator. fc may be nil when no forecasting service is
// configured; validation then runs without a calibrated estimate.
func New(client llm.LLMClient, fc forecaster.Forecaster) *Orchestrator {
	return &Orchestrator{
		llm:        client,
		forecaster: fc,
		maxTokens:  1024,
	}
}

func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, error) {
	maxTokens := o.maxTokens
	text, err := o.llm.Generate(ctx, prompt, llm.GenerationParams{MaxTokens: &maxTokens})
	if err != nil {
		return "", fmt.Errorf("reasoning service: %w", err)
	}
	return text, nil
}

// Wander explores a problem space and returns 3-5 nascent ideas worth
// investigating. projectContext, when non-empty, is the project's stored
// context blob and is embedded verbatim to ground the suggestions.
func (o *Orchestrator) Wander(ctx context.Context, exploreContext, goal, projectContext string) ([]WanderIdea, error) {
	raw, err := o.generate(ctx, wanderPrompt(exploreContext, goal, projectContext))
	if err != nil {
		return nil, fmt.Errorf("wander: %w", err)
	}

	var ideas []WanderIdea
	if err := decodeStrict("wander", raw, &ideas); err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return nil, newParseError("wander", raw, fmt.Errorf("empty idea array"))
	}
	for i, idea := range ideas {
		if strings.TrimSpace(idea.Title) == "" {
			return nil, newParseError("wander", raw, fmt.Errorf("idea %d has no title", i))
		}
	}
	return ideas, nil
}

// Validate tests a hypothesis with two independent estimates:
//
//  1. The calibrated forecaster, queried first. Its failure or absence is
//     normal and leaves CalibratedConfidence nil; it never aborts the
//     operation and is never replaced by a default number.
//  2. The reasoning service, which analyzes the hypothesis qualitatively
//     and produces its own confidence, reasoning, risks, and next steps.
//     When a calibrated estimate exists, it is included in the prompt as
//     an advisory note; the numbers are still reported separately.
func (o *Orchestrator) Validate(ctx context.Context, hypothesis, background string) (*ValidationResult, error) {
	var calibrated *float64
	if o.forecaster != nil {
		if prob, ok := o.forecaster.Probability(ctx, hypothesis, background); ok {
			calibrated = &prob
		} else {
			slog.Debug("No calibrated estimate available", "hypothesis_length", len(hypothesis))
		}
	}

	raw, err := o.generate(ctx, validatePrompt(hypothesis, background, calibrated))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var payload struct {
		Confidence *float64 `json:"confidence"`
		Reasoning  string   `json:"reasoning"`
		Risks      []string `json:"risks"`
		NextSteps  []string `json:"next_steps"`
	}
	if err := decodeStrict("validate", raw, &payload); err != nil {
		return nil, err
	}
	if payload.Confidence == nil {
		return nil, newParseError("validate", raw, fmt.Errorf("missing confidence field"))
	}
	if payload.Reasoning == "" {
		return nil, newParseError("validate", raw, fmt.Errorf("missing reasoning field"))
	}

	return &ValidationResult{
		Confidence:           clamp01(*payload.Confidence),
		CalibratedConfidence: calibrated,
		Reasoning:            payload.Reasoning,
		Risks:                payload.Risks,
		NextSteps:            payload.NextSteps,
	}, nil
}

// Plan converts a validated idea into 3-7 concrete actions ordered by
// sequence/priority. Dependencies reference earlier actions by text.
func (o *Orchestrator) Plan(ctx context.Context, validatedIdea, goal, constraints string) ([]PlanAction, error) {
	raw, err := o.generate(ctx, planPrompt(validatedIdea, goal, constraints))
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	var actions []PlanAction
	if err := decodeStrict("plan", raw, &actions); err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, newParseError("plan", raw, fmt.Errorf("empty action array"))
	}
	for i, action := range actions {
		if strings.TrimSpace(action.Action) == "" {
			return nil, newParseError("plan", raw, fmt.Errorf("action %d has no text", i))
		}
		switch action.Effort {
		case "low", "medium", "high":
		default:
			return nil, newParseError("plan", raw,
				fmt.Errorf("action %d has invalid effort %q", i, action.Effort))
		}
	}
	return actions, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
