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

func CreateConnection(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ConnectionCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		conn, err := s.CreateConnection(req.SourceID, req.TargetID, req.Label)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		slog.Info("Created connection", "connection_id", conn.ID,
			"source_id", conn.SourceID, "target_id", conn.TargetID)
		c.JSON(http.StatusOK, conn)
	}
}

func ListConnections(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Query("project_id")
		if projectID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project_id query parameter is required"})
			return
		}

		conns, err := s.ListConnections(projectID)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if conns == nil {
			conns = []*datatypes.Connection{}
		}
		c.JSON(http.StatusOK, conns)
	}
}

func GetConnection(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := s.GetConnection(c.Param("id"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, conn)
	}
}

func UpdateConnection(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ConnectionUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		conn, err := s.UpdateConnection(c.Param("id"), store.ConnectionPatch{Label: req.Label})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, conn)
	}
}

func DeleteConnection(s *store.GraphStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.DeleteConnection(id); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
