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
	"encoding/json"
	"fmt"
)

// DiscoverContext asks the reasoning service what it still needs to know
// about a project before its advice can be trusted. knownContext is the
// project's current context blob ("" when nothing is known); the prompt
// forbids re-asking anything covered there.
//
// Completeness is a holistic judgment over the whole blob. It is re-derived
// on every call, never incrementally bumped, which is why the answer flow
// runs discover -> integrate -> discover again.
func (o *Orchestrator) DiscoverContext(ctx context.Context, projectName, goal, knownContext string) (*DiscoveryResult, error) {
	raw, err := o.generate(ctx, discoverContextPrompt(projectName, goal, knownContext))
	if err != nil {
		return nil, fmt.Errorf("discover_context: %w", err)
	}

	var result DiscoveryResult
	if err := decodeStrict("discover_context", raw, &result); err != nil {
		return nil, err
	}
	if result.Summary == "" {
		return nil, newParseError("discover_context", raw, fmt.Errorf("missing summary field"))
	}
	for i, q := range result.Questions {
		if q.Question == "" {
			return nil, newParseError("discover_context", raw, fmt.Errorf("question %d has no text", i))
		}
	}
	result.ContextCompleteness = clamp01(result.ContextCompleteness)
	return &result, nil
}

// IntegrateAnswers merges the user's answers into the existing context
// blob. The five-category structure is a suggestion to the model, not a
// schema enforced here: any well-formed JSON object is accepted, and the
// ledger stores it opaquely. Non-object output is a ParseError.
func (o *Orchestrator) IntegrateAnswers(ctx context.Context, projectName, goal, existingContext string, answers map[string]string) (map[string]interface{}, error) {
	raw, err := o.generate(ctx, integrateAnswersPrompt(projectName, goal, existingContext, answers))
	if err != nil {
		return nil, fmt.Errorf("integrate_answers: %w", err)
	}

	var merged map[string]interface{}
	if err := decodeStrict("integrate_answers", raw, &merged); err != nil {
		return nil, err
	}
	if merged == nil {
		return nil, newParseError("integrate_answers", raw, fmt.Errorf("null context object"))
	}
	return merged, nil
}

// EncodeContext renders a merged context object to the canonical string
// form the ledger persists.
func EncodeContext(context map[string]interface{}) (string, error) {
	data, err := json.Marshal(context)
	if err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}
	return string(data), nil
}
