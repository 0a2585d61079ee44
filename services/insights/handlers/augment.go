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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianInsights/pkg/validation"
	"github.com/AleutianAI/AleutianInsights/services/insights/calc"
	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
	"github.com/AleutianAI/AleutianInsights/services/insights/enrich"
	"github.com/AleutianAI/AleutianInsights/services/insights/store"
)

// EnrichResult merges enrichment entries into the session's result. The
// request carries the result version the caller read; a concurrent
// mutation in between fails the request with 409.
func EnrichResult(s *store.Store, merger *enrich.Merger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		_, span := insightsTracer.Start(c.Request.Context(), "EnrichResult")
		defer span.End()

		sessionID := c.Param("sessionId")
		var req datatypes.EnrichRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		entries := make([]enrich.Entry, len(req.Entries))
		for i, e := range req.Entries {
			fields := make(map[string]enrich.Field, len(e.Fields))
			for name, f := range e.Fields {
				fields[name] = enrich.Field{
					Value:      f.Value,
					Source:     f.Source,
					Confidence: f.Confidence,
					Freshness:  f.Freshness,
					Warning:    f.Warning,
				}
			}
			entries[i] = enrich.Entry{OriginalValue: e.OriginalValue, Fields: fields}
		}

		result, err := s.Replace(sessionID, req.Version, func(r *datatypes.QueryResult) error {
			return merger.Merge(r, req.SourceColumn, entries)
		})
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			observe("enrich", start, 0, 0, err)
			return
		}
		observe("enrich", start, len(result.Rows), result.Enrichment.TotalWarnings, nil)
		c.JSON(http.StatusOK, result)
	}
}

// AddCalculatedColumn appends a calculated column to the session's result.
func AddCalculatedColumn(s *store.Store, evaluator *calc.Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		_, span := insightsTracer.Start(c.Request.Context(), "AddCalculatedColumn")
		defer span.End()

		sessionID := c.Param("sessionId")
		var req datatypes.CalculateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validation.ValidateColumnName(req.ColumnName); err != nil {
			span.RecordError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := s.Replace(sessionID, req.Version, func(r *datatypes.QueryResult) error {
			return evaluator.AddColumn(r, req.ColumnName, req.Expression, req.FormatType)
		})
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			observe("calculate", start, 0, 0, err)
			return
		}
		observe("calculate", start, len(result.Rows), result.Calculation.TotalWarnings, nil)
		c.JSON(http.StatusOK, result)
	}
}
