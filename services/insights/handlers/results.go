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
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianInsights/services/insights/chart"
	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
	"github.com/AleutianAI/AleutianInsights/services/insights/export"
	"github.com/AleutianAI/AleutianInsights/services/insights/store"
)

// CreateResult stores a session's base query result, replacing any
// previous one.
func CreateResult(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		_, span := insightsTracer.Start(c.Request.Context(), "CreateResult")
		defer span.End()

		sessionID := c.Param("sessionId")
		var req datatypes.CreateResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			respondError(c, err)
			observe("store", start, 0, 0, err)
			return
		}

		result := s.Create(sessionID, &datatypes.QueryResult{
			Columns:     req.Columns,
			Rows:        req.Rows,
			TotalRows:   req.TotalRows,
			QueryTimeMs: req.QueryTimeMs,
			SQL:         req.SQL,
		})
		observe("store", start, len(result.Rows), 0, nil)
		c.JSON(http.StatusCreated, result)
	}
}

// GetResult returns the session's current result.
func GetResult(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")
		result, err := s.Get(sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ExportResultCSV streams the session's result as a CSV attachment.
// Exported files carry raw values only.
func ExportResultCSV(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		_, span := insightsTracer.Start(c.Request.Context(), "ExportResultCSV")
		defer span.End()

		sessionID := c.Param("sessionId")
		result, err := s.Get(sessionID)
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			observe("export", start, 0, 0, err)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, result); err != nil {
			span.RecordError(err)
			slog.Error("csv export failed", "sessionId", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export result"})
			observe("export", start, 0, 0, err)
			return
		}

		filename := fmt.Sprintf("result_%s.csv", sessionID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		observe("export", start, len(result.Rows), 0, nil)
	}
}

// chartRequest is the body for building a chart config.
type chartRequest struct {
	ChartType string   `json:"chart_type" binding:"required"`
	XColumn   string   `json:"x_column" binding:"required"`
	YColumns  []string `json:"y_columns" binding:"required"`
	Title     string   `json:"title"`
}

// BuildChart builds a renderable chart config from the session's result.
func BuildChart(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		_, span := insightsTracer.Start(c.Request.Context(), "BuildChart")
		defer span.End()

		sessionID := c.Param("sessionId")
		var req chartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := s.Get(sessionID)
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			observe("chart", start, 0, 0, err)
			return
		}

		cfg, err := chart.Build(result, chart.Type(strings.ToLower(req.ChartType)), req.XColumn, req.YColumns, req.Title)
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			observe("chart", start, 0, 0, err)
			return
		}
		observe("chart", start, len(result.Rows), 0, nil)
		c.JSON(http.StatusOK, cfg)
	}
}
