// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP handlers for the insights service.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/AleutianInsights/services/insights/calc"
	"github.com/AleutianAI/AleutianInsights/services/insights/chart"
	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
	"github.com/AleutianAI/AleutianInsights/services/insights/enrich"
	"github.com/AleutianAI/AleutianInsights/services/insights/observability"
	"github.com/AleutianAI/AleutianInsights/services/insights/session"
	"github.com/AleutianAI/AleutianInsights/services/insights/store"
)

// Create a new tracer
var insightsTracer = otel.Tracer("aleutian.insights.handlers")

// respondError maps domain errors to HTTP status codes and writes the
// standard error body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var stale *store.StaleResultError
	var invalidExpr *calc.InvalidExpressionError
	var missingCol *calc.MissingColumnError

	switch {
	case errors.As(err, &stale):
		c.JSON(http.StatusConflict, gin.H{
			"error":            "result was modified by a concurrent operation",
			"expected_version": stale.ExpectedVersion,
			"current_version":  stale.CurrentVersion,
		})
		return
	case errors.As(err, &invalidExpr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    err.Error(),
			"position": invalidExpr.Position,
		})
		return
	case errors.As(err, &missingCol):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             err.Error(),
			"missing_columns":   missingCol.Missing,
			"available_columns": missingCol.Available,
		})
		return
	case errors.Is(err, store.ErrNoResult),
		errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, enrich.ErrSourceColumnNotFound),
		errors.Is(err, enrich.ErrNoEntries),
		errors.Is(err, enrich.ErrTooManyValues),
		errors.Is(err, enrich.ErrTooManyFields),
		errors.Is(err, calc.ErrColumnExists),
		errors.Is(err, chart.ErrUnknownChartType),
		errors.Is(err, chart.ErrColumnNotFound),
		errors.Is(err, chart.ErrNoSeries),
		errors.Is(err, datatypes.ErrTooManyRows),
		errors.Is(err, datatypes.ErrDuplicateColumn),
		errors.Is(err, datatypes.ErrConflictingColumnFlags):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// observe records one operation outcome on the metrics singleton, if
// initialized.
func observe(operation string, start time.Time, rows int, warnings int, err error) {
	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		var stale *store.StaleResultError
		if errors.As(err, &stale) {
			m.StoreConflictsTotal.Inc()
		}
	}
	m.AugmentationsTotal.WithLabelValues(operation, status).Inc()
	m.AugmentationDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err == nil {
		m.RowsProcessedTotal.WithLabelValues(operation).Add(float64(rows))
		m.WarningsTotal.WithLabelValues(operation).Add(float64(warnings))
	}
}
