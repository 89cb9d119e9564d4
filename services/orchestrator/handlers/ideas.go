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
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/CommandCenter/services/orchestrator/datatypes"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/store"
)

func draftFromRequest(req datatypes.IdeaCreateRequest) (store.IdeaDraft, error) {
	if req.Status != "" && !datatypes.ValidStatus(req.Status) {
		return store.IdeaDraft{}, fmt.Errorf("invalid status %q", req.Status)
	}
	return store.IdeaDraft{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ParentID:    req.ParentID,
		PositionX:   req.PositionX,
		PositionY:   req.PositionY,
	}, nil
}

func CreateIdea(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.IdeaCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		draft, err := draftFromRequest(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		idea, err := s.CreateIdea(draft)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		slog.Info("Created idea", "idea_id", idea.ID, "project_id", idea.ProjectID,
			"status", idea.Status)
		c.JSON(http.StatusOK, idea)
	}
}

// CreateIdeasBatch accepts a JSON array of idea create requests and persists
// them atomically: one bad member fails the whole batch.
func CreateIdeasBatch(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reqs []datatypes.IdeaCreateRequest
		if err := c.ShouldBindJSON(&reqs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if len(reqs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty batch"})
			return
		}

		drafts := make([]store.IdeaDraft, 0, len(reqs))
		for i, req := range reqs {
			if req.ProjectID == "" || req.Title == "" {
				c.JSON(http.StatusBadRequest,
					gin.H{"error": fmt.Sprintf("idea %d: project_id and title are required", i)})
				return
			}
			draft, err := draftFromRequest(req)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("idea %d: %v", i, err)})
				return
			}
			drafts = append(drafts, draft)
		}

		ideas, err := s.CreateIdeas(drafts)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		slog.Info("Created idea batch", "count", len(ideas))
		c.JSON(http.StatusOK, ideas)
	}
}

func ListIdeas(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Query("project_id")
		if projectID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project_id query parameter is required"})
			return
		}

		ideas, err := s.ListIdeas(projectID)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if ideas == nil {
			ideas = []*datatypes.Idea{}
		}
		c.JSON(http.StatusOK, ideas)
	}
}

func GetIdea(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		idea, err := s.GetIdea(c.Param("id"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, idea)
	}
}

func UpdateIdea(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.IdeaUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Status != nil && !datatypes.ValidStatus(*req.Status) {
			c.JSON(http.StatusBadRequest,
				gin.H{"error": fmt.Sprintf("invalid status %q", *req.Status)})
			return
		}

		idea, err := s.UpdateIdea(c.Param("id"), store.IdeaPatch{
			Title:                req.Title,
			Description:          req.Description,
			Status:               req.Status,
			Confidence:           req.Confidence,
			CalibratedConfidence: req.CalibratedConfidence,
			ValidationReasoning:  req.ValidationReasoning,
			PositionX:            req.PositionX,
			PositionY:            req.PositionY,
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, idea)
	}
}

func DeleteIdea(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.DeleteIdea(id); err != nil {
			respondStoreError(c, err)
			return
		}
		slog.Info("Deleted idea and its connections", "idea_id", id)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
