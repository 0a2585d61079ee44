// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the shared data structures for the insights
// service: tabular query results, tagged cell values, and the request and
// metadata types exchanged over the API.
//
// # Cell Values
//
// A result cell is one of three kinds:
//
//   - Primitive: a plain scalar produced by the base query
//   - Enriched: a value attached by an enrichment source, carrying
//     provenance (source, confidence, freshness)
//   - Calculated: a value derived from an arithmetic expression over
//     other columns, carrying the expression and display format
//
// The kind is fixed at construction. Consumers that only need the scalar
// should go through the view package rather than switching on kind
// themselves.
package datatypes

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxEnrichmentValues bounds the distinct source values a single
	// enrichment request may cover.
	MaxEnrichmentValues = 20

	// MaxEnrichmentFields bounds the fields a single enrichment entry
	// may attach.
	MaxEnrichmentFields = 5

	// MaxDisplayedWarnings bounds the warnings surfaced in operation
	// metadata. The full count is kept separately.
	MaxDisplayedWarnings = 5

	// EnrichedColumnPrefix marks columns produced by enrichment so they
	// can be distinguished from base query columns by name alone.
	EnrichedColumnPrefix = "_enriched_"
)

// Enrichment confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Enrichment freshness stamps.
const (
	FreshnessStatic  = "static"
	FreshnessCurrent = "current"
	FreshnessDated   = "dated"
	FreshnessStale   = "stale"
)

// =============================================================================
// Cell Kinds
// =============================================================================

// CellKind discriminates the three cell value variants.
type CellKind int

const (
	// KindPrimitive is a plain scalar from the base query.
	KindPrimitive CellKind = iota
	// KindEnriched is a value attached by an enrichment source.
	KindEnriched
	// KindCalculated is a value derived from an expression.
	KindCalculated
)

// String returns the lowercase name of the kind.
func (k CellKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnriched:
		return "enriched"
	case KindCalculated:
		return "calculated"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// =============================================================================
// CellValue
// =============================================================================

// CellValue is a tagged union over the three cell kinds. The zero value is
// a primitive nil cell. Fields are unexported so a cell cannot change kind
// after construction.
type CellValue struct {
	kind       CellKind
	value      any
	source     string
	confidence string
	freshness  string
	expression string
	format     string
	warning    string
}

// NewPrimitive returns a primitive cell holding value.
func NewPrimitive(value any) CellValue {
	return CellValue{kind: KindPrimitive, value: value}
}

// NewEnriched returns an enriched cell with provenance. A non-empty warning
// records a per-cell degradation such as a missing field.
func NewEnriched(value any, source, confidence, freshness, warning string) CellValue {
	return CellValue{
		kind:       KindEnriched,
		value:      value,
		source:     source,
		confidence: confidence,
		freshness:  freshness,
		warning:    warning,
	}
}

// NewCalculated returns a calculated cell. A nil value with a non-empty
// warning records a per-row evaluation failure.
func NewCalculated(value any, expression, format, warning string) CellValue {
	return CellValue{
		kind:       KindCalculated,
		value:      value,
		expression: expression,
		format:     format,
		warning:    warning,
	}
}

// Kind reports the cell's variant.
func (c CellValue) Kind() CellKind { return c.kind }

// Value returns the underlying scalar. May be nil for degraded cells.
func (c CellValue) Value() any { return c.value }

// Source returns the enrichment source, or "" for other kinds.
func (c CellValue) Source() string { return c.source }

// Confidence returns the enrichment confidence level, or "".
func (c CellValue) Confidence() string { return c.confidence }

// Freshness returns the enrichment freshness stamp, or "".
func (c CellValue) Freshness() string { return c.freshness }

// Expression returns the calculated cell's expression, or "".
func (c CellValue) Expression() string { return c.expression }

// Format returns the calculated cell's display format, or "".
func (c CellValue) Format() string { return c.format }

// Warning returns the per-cell warning, or "".
func (c CellValue) Warning() string { return c.warning }

// =============================================================================
// JSON Encoding
// =============================================================================

// enrichedCellJSON is the wire form of an enriched cell.
type enrichedCellJSON struct {
	Value      any    `json:"value"`
	Source     string `json:"source,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Freshness  string `json:"freshness,omitempty"`
	Warning    string `json:"warning,omitempty"`
	IsEnriched bool   `json:"is_enriched"`
}

// calculatedCellJSON is the wire form of a calculated cell.
type calculatedCellJSON struct {
	Value        any    `json:"value"`
	Expression   string `json:"expression"`
	Format       string `json:"format,omitempty"`
	Warning      string `json:"warning,omitempty"`
	IsCalculated bool   `json:"is_calculated"`
}

// MarshalJSON encodes a primitive cell as its bare scalar and the other
// kinds as tagged objects.
func (c CellValue) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindEnriched:
		return json.Marshal(enrichedCellJSON{
			Value:      c.value,
			Source:     c.source,
			Confidence: c.confidence,
			Freshness:  c.freshness,
			Warning:    c.warning,
			IsEnriched: true,
		})
	case KindCalculated:
		return json.Marshal(calculatedCellJSON{
			Value:        c.value,
			Expression:   c.expression,
			Format:       c.format,
			Warning:      c.warning,
			IsCalculated: true,
		})
	default:
		return json.Marshal(c.value)
	}
}

// UnmarshalJSON detects the cell kind from the payload shape. Objects with
// an is_enriched or is_calculated tag decode to those kinds; everything
// else, including untagged objects, decodes as a primitive.
func (c *CellValue) UnmarshalJSON(data []byte) error {
	var probe struct {
		IsEnriched   bool `json:"is_enriched"`
		IsCalculated bool `json:"is_calculated"`
	}
	if err := json.Unmarshal(data, &probe); err == nil {
		if probe.IsEnriched {
			var e enrichedCellJSON
			if err := json.Unmarshal(data, &e); err != nil {
				return fmt.Errorf("decoding enriched cell: %w", err)
			}
			*c = NewEnriched(e.Value, e.Source, e.Confidence, e.Freshness, e.Warning)
			return nil
		}
		if probe.IsCalculated {
			var e calculatedCellJSON
			if err := json.Unmarshal(data, &e); err != nil {
				return fmt.Errorf("decoding calculated cell: %w", err)
			}
			*c = NewCalculated(e.Value, e.Expression, e.Format, e.Warning)
			return nil
		}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding cell value: %w", err)
	}
	*c = NewPrimitive(v)
	return nil
}
