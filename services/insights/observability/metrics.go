// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the
// insights service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring augmentation
// operations. Metrics include:
//   - Operation counters (by operation and status)
//   - Rows processed per operation
//   - Operation latency histograms
//   - Warning counters and store conflict counters
//   - Active session gauge
//
// # Integration
//
// Metrics are exposed via /metrics endpoint. Use with Prometheus + Grafana
// for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for insights metrics
const insightsSubsystem = "insights"

// InsightsMetrics holds all Prometheus metrics for augmentation operations.
//
// # Fields
//
//   - AugmentationsTotal: Counter of augmentation operations by operation and status
//   - RowsProcessedTotal: Counter of rows touched by operation
//   - AugmentationDurationSeconds: Histogram of operation latency
//   - WarningsTotal: Counter of degradation warnings by operation
//   - StoreConflictsTotal: Counter of rejected stale mutations
//   - ActiveSessions: Gauge of live sessions
//
// # Thread Safety
//
// All operations are thread-safe.
type InsightsMetrics struct {
	// AugmentationsTotal counts operations by operation and status.
	// Labels: operation (store, enrich, calculate, export, chart), status (success, error)
	AugmentationsTotal *prometheus.CounterVec

	// RowsProcessedTotal counts rows touched per operation.
	// Labels: operation
	RowsProcessedTotal *prometheus.CounterVec

	// AugmentationDurationSeconds measures operation latency.
	// Labels: operation
	AugmentationDurationSeconds *prometheus.HistogramVec

	// WarningsTotal counts per-cell degradation warnings.
	// Labels: operation
	WarningsTotal *prometheus.CounterVec

	// StoreConflictsTotal counts mutations rejected as stale.
	StoreConflictsTotal prometheus.Counter

	// ActiveSessions tracks live sessions.
	ActiveSessions prometheus.Gauge
}

// DefaultMetrics is the singleton initialized by InitMetrics.
var DefaultMetrics *InsightsMetrics

// InitMetrics initializes the metrics singleton against the default
// Prometheus registry.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *InsightsMetrics {
	DefaultMetrics = &InsightsMetrics{
		AugmentationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: insightsSubsystem,
				Name:      "augmentations_total",
				Help:      "Total augmentation operations by operation and status",
			},
			[]string{"operation", "status"},
		),

		RowsProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: insightsSubsystem,
				Name:      "rows_processed_total",
				Help:      "Total result rows touched by augmentation operations",
			},
			[]string{"operation"},
		),

		AugmentationDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: insightsSubsystem,
				Name:      "augmentation_duration_seconds",
				Help:      "Augmentation operation latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation"},
		),

		WarningsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: insightsSubsystem,
				Name:      "warnings_total",
				Help:      "Total per-cell degradation warnings by operation",
			},
			[]string{"operation"},
		),

		StoreConflictsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: insightsSubsystem,
				Name:      "store_conflicts_total",
				Help:      "Total mutations rejected due to stale result versions",
			},
		),

		ActiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: insightsSubsystem,
				Name:      "active_sessions",
				Help:      "Number of live sessions",
			},
		),
	}

	return DefaultMetrics
}
