// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/CommandCenter/services/intelligence"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/handlers"
	"github.com/AleutianAI/CommandCenter/services/orchestrator/store"
)

// SetupRoutes registers the full HTTP surface on the router.
func SetupRoutes(router *gin.Engine, graph *store.GraphStore,
	orchestrator *intelligence.Orchestrator, forecasterEnabled bool) {

	router.GET("/health", handlers.HealthCheck(forecasterEnabled))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		projects := api.Group("/projects")
		{
			projects.POST("", handlers.CreateProject(graph))
			projects.GET("", handlers.ListProjects(graph))
			projects.GET("/:id", handlers.GetProject(graph))
			projects.PATCH("/:id", handlers.UpdateProject(graph))
			projects.DELETE("/:id", handlers.DeleteProject(graph))
		}

		ideas := api.Group("/ideas")
		{
			ideas.POST("", handlers.CreateIdea(graph))
			ideas.POST("/batch", handlers.CreateIdeasBatch(graph))
			ideas.GET("", handlers.ListIdeas(graph))
			ideas.GET("/:id", handlers.GetIdea(graph))
			ideas.PATCH("/:id", handlers.UpdateIdea(graph))
			ideas.DELETE("/:id", handlers.DeleteIdea(graph))
		}

		connections := api.Group("/connections")
		{
			connections.POST("", handlers.CreateConnection(graph))
			connections.GET("", handlers.ListConnections(graph))
			connections.GET("/:id", handlers.GetConnection(graph))
			connections.PATCH("/:id", handlers.UpdateConnection(graph))
			connections.DELETE("/:id", handlers.DeleteConnection(graph))
		}

		// Intelligence operations
		api.POST("/wander", handlers.Wander(graph, orchestrator))
		api.POST("/validate", handlers.Validate(orchestrator))
		api.POST("/plan", handlers.Plan(graph, orchestrator))
		api.POST("/discover-context", handlers.DiscoverContext(graph, orchestrator))
		api.POST("/answer-context", handlers.AnswerContext(graph, orchestrator))
	}
}
