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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/CommandCenter/services/orchestrator/datatypes"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/store"
)

func CreateProject(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ProjectCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		project, err := s.CreateProject(req.Name, req.Goal)
		if err != nil {
			slog.Error("Failed to create project", "error", err)
			respondStoreError(c, err)
			return
		}
		slog.Info("Created project", "project_id", project.ID, "name", project.Name)
		c.JSON(http.StatusOK, project)
	}
}

func ListProjects(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := s.ListProjects()
		if err != nil {
			slog.Error("Failed to list projects", "error", err)
			respondStoreError(c, err)
			return
		}
		if projects == nil {
			projects = []*datatypes.Project{}
		}
		c.JSON(http.StatusOK, projects)
	}
}

func GetProject(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := s.GetProject(c.Param("id"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func UpdateProject(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ProjectUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		project, err := s.UpdateProject(c.Param("id"), store.ProjectPatch{
			Name:                req.Name,
			Goal:                req.Goal,
			Context:             req.Context,
			ContextCompleteness: req.ContextCompleteness,
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func DeleteProject(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.DeleteProject(id); err != nil {
			respondStoreError(c, err)
			return
		}
		slog.Info("Deleted project and its subgraph", "project_id", id)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
