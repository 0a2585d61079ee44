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

	"github.com/AleutianAI/AleutianInsights/pkg/validation"
	"github.com/AleutianAI/AleutianInsights/services/insights/observability"
	"github.com/AleutianAI/AleutianInsights/services/insights/session"
)

func CreateSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := manager.Create()
		if m := observability.DefaultMetrics; m != nil {
			m.ActiveSessions.Set(float64(manager.Len()))
		}
		c.JSON(http.StatusCreated, s)
	}
}

func ListSessions(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessions": manager.List()})
	}
}

func GetSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		if err := validation.ValidateSessionID(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, err := manager.Get(id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func DeleteSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		slog.Info("Received a request to delete a session", "sessionId", id)
		if err := validation.ValidateSessionID(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := manager.Delete(id); err != nil {
			respondError(c, err)
			return
		}
		if m := observability.DefaultMetrics; m != nil {
			m.ActiveSessions.Set(float64(manager.Len()))
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "deleted_session_id": id})
	}
}

// messageRequest is the body for appending a conversation turn.
type messageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

func AddSessionMessage(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		var req messageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := manager.AddMessage(id, session.Role(req.Role), req.Content); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}

// insightRequest is the body for reporting a proactive insight.
type insightRequest struct {
	Type    string `json:"type" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func ReportInsight(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		var req insightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := manager.ReportInsight(id, session.InsightType(req.Type), req.Message); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	}
}

func DrainInsights(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		insights, err := manager.DrainInsights(id)
		if err != nil {
			respondError(c, err)
			return
		}
		if insights == nil {
			insights = []session.Insight{}
		}
		c.JSON(http.StatusOK, gin.H{"insights": insights})
	}
}
