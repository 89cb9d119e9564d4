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
	"fmt"
	"sort"
	"strings"
)

// Prompt contracts. Each builder is a deterministic function of its
// structured inputs; the strings below ARE the interface to the reasoning
// service, so changes here change operation semantics.

func wanderPrompt(exploreContext, goal, projectContext string) string {
	grounding := ""
	if projectContext != "" {
		grounding = fmt.Sprintf(`

What we know about this project:
%s

Ground your suggestions in these facts where possible.`, projectContext)
	}

	return fmt.Sprintf(`You are a strategic advisor helping identify paths to: %s

The user wants to explore: %s%s

Generate 3-5 nascent ideas worth investigating. For each:
- title: concise name (3-6 words)
- description: 2-3 sentences on what this is
- why_relevant: one sentence on how it connects to the goal

Be creative but grounded. These are starting points for exploration, not complete solutions.
Look for non-obvious angles, underexplored opportunities, and strategic leverage points.

Return ONLY a JSON array, no other text:
[{"title": "...", "description": "...", "why_relevant": "..."}]`, goal, exploreContext, grounding)
}

func validatePrompt(hypothesis, background string, calibrated *float64) string {
	contextSection := ""
	if background != "" {
		contextSection = fmt.Sprintf("\n\nAdditional context: %s", background)
	}

	calibrationNote := ""
	if calibrated != nil {
		calibrationNote = fmt.Sprintf(`

Note: A calibrated forecasting model (OpenForecaster-8B, trained on 52k forecasting questions)
estimates the probability of this hypothesis at %.0f%%.
This model has been validated to be well-calibrated - when it says X%%, it's right about X%% of the time.
Factor this into your assessment, but also provide your own analysis.`, *calibrated*100)
	}

	return fmt.Sprintf(`Evaluate this hypothesis:

"%s"%s%s

Be rigorous and intellectually honest. Consider:
1. What evidence or reasoning supports this?
2. What evidence or reasoning contradicts this?
3. What's unknown that would significantly affect the assessment?
4. What could go wrong if this is acted upon?

Return ONLY a JSON object, no other text:
{
  "confidence": <number between 0.0 and 1.0>,
  "reasoning": "<your honest assessment in 2-4 sentences>",
  "risks": ["<risk 1>", "<risk 2>", ...],
  "next_steps": ["<what to do to increase confidence>", ...]
}

Calibration guide:
- 0.0-0.3: Unlikely or deeply flawed
- 0.3-0.5: Possible but significant concerns
- 0.5-0.7: Reasonable but needs validation
- 0.7-0.85: Strong case with minor uncertainties
- 0.85-1.0: Very high confidence (rare)

Do NOT be agreeable. If it's a bad idea, say so clearly.`, hypothesis, contextSection, calibrationNote)
}

func planPrompt(validatedIdea, goal, constraints string) string {
	constraintsSection := ""
	if constraints != "" {
		constraintsSection = fmt.Sprintf("\nConstraints: %s", constraints)
	}

	return fmt.Sprintf(`Create an action plan to execute this idea.

Goal: %s
Validated idea: %s%s

Generate 3-7 concrete next actions. For each:
- action: specific, measurable step (starts with a verb)
- why: one sentence on how it advances toward the goal
- effort: "low" (< 1 day), "medium" (1-5 days), or "high" (> 5 days)
- dependencies: list of actions (by their exact text) that must happen first (empty list if none)

Requirements:
- First action should be doable THIS WEEK
- Actions should be concrete, not vague ("Talk to 5 potential customers" not "Do market research")
- Order by priority/sequence

Return ONLY a JSON array, no other text:
[{"action": "...", "why": "...", "effort": "low|medium|high", "dependencies": [...]}]`, goal, validatedIdea, constraintsSection)
}

func discoverContextPrompt(projectName, goal, knownContext string) string {
	knownSection := "Nothing is known about this project yet."
	if knownContext != "" {
		knownSection = fmt.Sprintf(`What is already known (do NOT re-ask anything covered here):
%s`, knownContext)
	}

	return fmt.Sprintf(`You are helping build a complete picture of a project before giving strategic advice.

Project: %s
Goal: %s

%s

Identify the most valuable unknowns across these categories: %s.

Generate 3-5 questions, most valuable first. For each:
- question: the question to ask the user
- why_it_matters: one sentence on why the answer changes the advice
- priority: "high", "medium", or "low"
- category: one of %s

Also assess:
- context_completeness: a number between 0.0 and 1.0 for how much of the
  decision-relevant information about this project is known
- summary: 1-2 sentences summarizing current knowledge

Return ONLY a JSON object, no other text:
{
  "questions": [{"question": "...", "why_it_matters": "...", "priority": "...", "category": "..."}],
  "context_completeness": <number between 0.0 and 1.0>,
  "summary": "..."
}`, projectName, goal, knownSection,
		strings.Join(contextCategories, ", "), strings.Join(contextCategories, " | "))
}

func integrateAnswersPrompt(projectName, goal, existingContext string, answers map[string]string) string {
	existingSection := "{}"
	if existingContext != "" {
		existingSection = existingContext
	}

	// Sorted so the same answers always build the same prompt.
	questions := make([]string, 0, len(answers))
	for question := range answers {
		questions = append(questions, question)
	}
	sort.Strings(questions)

	var pairs strings.Builder
	for _, question := range questions {
		fmt.Fprintf(&pairs, "Q: %s\nA: %s\n\n", question, answers[question])
	}

	return fmt.Sprintf(`You maintain the knowledge base for a project.

Project: %s
Goal: %s

Existing context:
%s

New answers from the user:
%s
Merge the new answers into the existing context:
- Preserve existing facts unless an answer explicitly contradicts them
- Extract facts from the answers; do not copy answers verbatim
- Organize facts under these categories: %s

Return ONLY the merged context as a JSON object, no other text.`,
		projectName, goal, existingSection, pairs.String(),
		strings.Join(contextCategories, ", "))
}
