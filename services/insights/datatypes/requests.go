// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the insights service.
//
// This file contains request types for the augmentation endpoints and the
// shared validator instance used to check them after JSON binding.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// insightsValidate is the validator instance for insights datatypes.
// Initialized in init() with custom validators.
var insightsValidate *validator.Validate

func init() {
	insightsValidate = validator.New()

	_ = insightsValidate.RegisterValidation("maxexprbytes", validateMaxExpressionBytes)
}

const (
	// MaxExpressionBytes bounds a calculated-column expression. Expressions
	// are user-supplied and parsed server-side, so the length is checked in
	// bytes before the parser ever sees them.
	MaxExpressionBytes = 4 * 1024

	// MaxResultRows bounds the rows accepted when storing a result.
	MaxResultRows = 100_000
)

func validateMaxExpressionBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxExpressionBytes
}

// =============================================================================
// Request Types
// =============================================================================

// CreateResultRequest stores a new base query result for a session,
// replacing any previous one.
type CreateResultRequest struct {
	Columns     []Column `json:"columns" binding:"required"`
	Rows        []Row    `json:"rows"`
	TotalRows   int      `json:"total_rows"`
	QueryTimeMs float64  `json:"query_time_ms"`
	SQL         string   `json:"sql"`
}

// Validate validates the CreateResultRequest fields. Column names must be
// unique, and a column cannot be both enriched and calculated.
func (r *CreateResultRequest) Validate() error {
	if err := insightsValidate.Struct(r); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(r.Columns))
	for _, c := range r.Columns {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.IsEnriched && c.IsCalculated {
			return fmt.Errorf("%w: %s", ErrConflictingColumnFlags, c.Name)
		}
	}
	return validateRowBound(len(r.Rows))
}

// EnrichEntryRequest is one enrichment entry keyed by the original cell
// value it matches, rendered as a string.
type EnrichEntryRequest struct {
	OriginalValue string                        `json:"original_value" validate:"required"`
	Fields        map[string]EnrichFieldRequest `json:"fields" validate:"required,min=1"`
}

// EnrichFieldRequest is one field attached by an enrichment entry.
type EnrichFieldRequest struct {
	Value      any    `json:"value"`
	Source     string `json:"source" validate:"required"`
	Confidence string `json:"confidence" validate:"omitempty,oneof=high medium low"`
	Freshness  string `json:"freshness" validate:"omitempty,oneof=static current dated stale"`
	Warning    string `json:"warning"`
}

// EnrichRequest merges enrichment entries into the session's result.
type EnrichRequest struct {
	SourceColumn string               `json:"source_column" binding:"required"`
	Version      int                  `json:"version"`
	Entries      []EnrichEntryRequest `json:"entries" binding:"required" validate:"dive"`
}

// Validate validates the EnrichRequest fields.
func (r *EnrichRequest) Validate() error {
	return insightsValidate.Struct(r)
}

// CalculateRequest adds a calculated column to the session's result.
type CalculateRequest struct {
	ColumnName string `json:"column_name" binding:"required"`
	Expression string `json:"expression" binding:"required" validate:"maxexprbytes"`
	FormatType string `json:"format_type" validate:"omitempty,oneof=number integer percent currency"`
	Version    int    `json:"version"`
}

// Validate validates the CalculateRequest fields.
func (r *CalculateRequest) Validate() error {
	return insightsValidate.Struct(r)
}

func validateRowBound(n int) error {
	if n > MaxResultRows {
		return ErrTooManyRows
	}
	return nil
}
