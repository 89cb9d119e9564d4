// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/CommandCenter/services/intelligence"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/datatypes"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/observability"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/store"
)

var intelTracer = otel.Tracer("commandcenter.orchestrator.handlers")

// Used when a project has no stated goal so prompts always have one.
const defaultGoal = "achieving strategic objectives"

const (
	opWander          = "wander"
	opValidate        = "validate"
	opPlan            = "plan"
	opDiscoverContext = "discover_context"
	opAnswerContext   = "answer_context"
)

func projectGoal(p *datatypes.Project) string {
	if p.Goal == "" {
		return defaultGoal
	}
	return p.Goal
}

// respondIntelligenceError converts an intelligence failure into a 502 with
// an explicit error body. A failed reasoning call must never look like an
// empty result.
func respondIntelligenceError(c *gin.Context, span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	code := observability.ErrCodeUpstream
	var parseErr *intelligence.ParseError
	if errors.As(err, &parseErr) {
		code = observability.ErrCodeParse
	}
	observability.DefaultMetrics.ObserveError(op, code)

	slog.Error("Intelligence operation failed", "operation", op, "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func Wander(s *store.GraphStore, o *intelligence.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := intelTracer.Start(c.Request.Context(), "Wander")
		defer span.End()
		start := time.Now()

		var req datatypes.WanderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		project, err := s.GetProject(req.ProjectID)
		if err != nil {
			observability.DefaultMetrics.ObserveError(opWander, observability.ErrCodeNotFound)
			respondStoreError(c, err)
			return
		}

		// The stored blob is user-patchable, so it may not be JSON. An
		// unparseable blob is omitted rather than embedded in the prompt.
		storedContext := project.Context
		if storedContext != "" && !json.Valid([]byte(storedContext)) {
			slog.Warn("Stored project context is not valid JSON, omitting from prompt",
				"project_id", project.ID)
			storedContext = ""
		}

		ideas, err := o.Wander(ctx, req.Context, projectGoal(project), storedContext)
		if err != nil {
			observability.DefaultMetrics.ObserveRequest(opWander, "error", time.Since(start).Seconds())
			respondIntelligenceError(c, span, opWander, err)
			return
		}

		observability.DefaultMetrics.ObserveRequest(opWander, "success", time.Since(start).Seconds())
		slog.Info("Wander complete", "project_id", project.ID, "idea_count", len(ideas))
		c.JSON(http.StatusOK, gin.H{"ideas": ideas})
	}
}

func Validate(o *intelligence.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := intelTracer.Start(c.Request.Context(), "Validate")
		defer span.End()
		start := time.Now()

		var req datatypes.ValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := o.Validate(ctx, req.Hypothesis, req.Context)
		if err != nil {
			observability.DefaultMetrics.ObserveRequest(opValidate, "error", time.Since(start).Seconds())
			respondIntelligenceError(c, span, opValidate, err)
			return
		}

		observability.DefaultMetrics.ObserveRequest(opValidate, "success", time.Since(start).Seconds())
		observability.DefaultMetrics.ObserveForecast(result.CalibratedConfidence != nil)
		slog.Info("Validate complete", "confidence", result.Confidence,
			"calibrated", result.CalibratedConfidence != nil)
		c.JSON(http.StatusOK, result)
	}
}

func Plan(s *store.GraphStore, o *intelligence.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := intelTracer.Start(c.Request.Context(), "Plan")
		defer span.End()
		start := time.Now()

		var req datatypes.PlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		project, err := s.GetProject(req.ProjectID)
		if err != nil {
			observability.DefaultMetrics.ObserveError(opPlan, observability.ErrCodeNotFound)
			respondStoreError(c, err)
			return
		}

		actions, err := o.Plan(ctx, req.ValidatedIdea, projectGoal(project), req.Constraints)
		if err != nil {
			observability.DefaultMetrics.ObserveRequest(opPlan, "error", time.Since(start).Seconds())
			respondIntelligenceError(c, span, opPlan, err)
			return
		}

		observability.DefaultMetrics.ObserveRequest(opPlan, "success", time.Since(start).Seconds())
		slog.Info("Plan complete", "project_id", project.ID, "action_count", len(actions))
		c.JSON(http.StatusOK, gin.H{"actions": actions})
	}
}

func DiscoverContext(s *store.GraphStore, o *intelligence.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := intelTracer.Start(c.Request.Context(), "DiscoverContext")
		defer span.End()
		start := time.Now()

		var req datatypes.DiscoverContextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		project, err := s.GetProject(req.ProjectID)
		if err != nil {
			observability.DefaultMetrics.ObserveError(opDiscoverContext, observability.ErrCodeNotFound)
			respondStoreError(c, err)
			return
		}

		result, err := o.DiscoverContext(ctx, project.Name, projectGoal(project), project.Context)
		if err != nil {
			observability.DefaultMetrics.ObserveRequest(opDiscoverContext, "error", time.Since(start).Seconds())
			respondIntelligenceError(c, span, opDiscoverContext, err)
			return
		}

		observability.DefaultMetrics.ObserveRequest(opDiscoverContext, "success", time.Since(start).Seconds())
		slog.Info("Context discovery complete", "project_id", project.ID,
			"question_count", len(result.Questions),
			"context_completeness", result.ContextCompleteness)
		c.JSON(http.StatusOK, result)
	}
}

// AnswerContext folds the user's answers into the project's context ledger:
//
//  1. Merge answers into the existing blob via the reasoning service.
//  2. Re-run discovery over the merged blob for a fresh completeness score
//     and the next round of questions. Completeness is always re-derived,
//     never incremented.
//  3. Persist blob and score in one commit.
//
// If re-discovery fails, the merged blob is still persisted (keeping the
// previous completeness score) so the user's answers are not lost.
func AnswerContext(s *store.GraphStore, o *intelligence.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := intelTracer.Start(c.Request.Context(), "AnswerContext")
		defer span.End()
		start := time.Now()

		var req datatypes.AnswerContextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if len(req.Answers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no answers provided"})
			return
		}

		project, err := s.GetProject(req.ProjectID)
		if err != nil {
			observability.DefaultMetrics.ObserveError(opAnswerContext, observability.ErrCodeNotFound)
			respondStoreError(c, err)
			return
		}
		goal := projectGoal(project)

		merged, err := o.IntegrateAnswers(ctx, project.Name, goal, project.Context, req.Answers)
		if err != nil {
			observability.DefaultMetrics.ObserveRequest(opAnswerContext, "error", time.Since(start).Seconds())
			respondIntelligenceError(c, span, opAnswerContext, err)
			return
		}
		encoded, err := intelligence.EncodeContext(merged)
		if err != nil {
			observability.DefaultMetrics.ObserveRequest(opAnswerContext, "error", time.Since(start).Seconds())
			respondIntelligenceError(c, span, opAnswerContext, err)
			return
		}

		discovery, discoverErr := o.DiscoverContext(ctx, project.Name, goal, encoded)
		completeness := project.ContextCompleteness
		if discoverErr == nil {
			completeness = discovery.ContextCompleteness
		} else {
			slog.Warn("Re-discovery after answer integration failed, keeping previous completeness",
				"project_id", project.ID, "error", discoverErr)
		}

		updated, err := s.SaveProjectContext(project.ID, encoded, completeness)
		if err != nil {
			observability.DefaultMetrics.ObserveRequest(opAnswerContext, "error", time.Since(start).Seconds())
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			respondStoreError(c, err)
			return
		}

		if discoverErr != nil {
			observability.DefaultMetrics.ObserveRequest(opAnswerContext, "error", time.Since(start).Seconds())
			respondIntelligenceError(c, span, opAnswerContext, discoverErr)
			return
		}

		observability.DefaultMetrics.ObserveRequest(opAnswerContext, "success", time.Since(start).Seconds())
		slog.Info("Answers integrated", "project_id", project.ID,
			"answer_count", len(req.Answers),
			"context_completeness", updated.ContextCompleteness)
		c.JSON(http.StatusOK, gin.H{
			"project":              updated,
			"questions":            discovery.Questions,
			"context_completeness": discovery.ContextCompleteness,
			"summary":              discovery.Summary,
		})
	}
}
