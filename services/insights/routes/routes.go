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

	"github.com/AleutianAI/AleutianInsights/services/insights/calc"
	"github.com/AleutianAI/AleutianInsights/services/insights/enrich"
	"github.com/AleutianAI/AleutianInsights/services/insights/handlers"
	"github.com/AleutianAI/AleutianInsights/services/insights/middleware"
	"github.com/AleutianAI/AleutianInsights/services/insights/session"
	"github.com/AleutianAI/AleutianInsights/services/insights/store"
)

func SetupRoutes(router *gin.Engine, resultStore *store.Store, manager *session.Manager,
	merger *enrich.Merger, evaluator *calc.Evaluator, apiKey string) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.APIKeyAuth(apiKey))
	{
		// Session administration routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(manager))
			sessions.GET("", handlers.ListSessions(manager))
			sessions.GET("/:sessionId", handlers.GetSession(manager))
			sessions.DELETE("/:sessionId", handlers.DeleteSession(manager))
			sessions.POST("/:sessionId/messages", handlers.AddSessionMessage(manager))
			sessions.POST("/:sessionId/insights", handlers.ReportInsight(manager))
			sessions.GET("/:sessionId/insights", handlers.DrainInsights(manager))
		}
		// Result augmentation routes
		results := v1.Group("/sessions/:sessionId/result")
		{
			results.POST("", handlers.CreateResult(resultStore))
			results.GET("", handlers.GetResult(resultStore))
			results.POST("/enrich", handlers.EnrichResult(resultStore, merger))
			results.POST("/calculate", handlers.AddCalculatedColumn(resultStore, evaluator))
			results.GET("/export/csv", handlers.ExportResultCSV(resultStore))
			results.POST("/chart", handlers.BuildChart(resultStore))
		}
	}
}
