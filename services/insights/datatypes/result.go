// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "strings"

// =============================================================================
// Columns and Rows
// =============================================================================

// Column describes one column of a query result.
type Column struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	IsEnriched   bool   `json:"is_enriched,omitempty"`
	IsCalculated bool   `json:"is_calculated,omitempty"`
}

// Row maps column names to cell values.
type Row map[string]CellValue

// Clone returns a deep copy of the row. CellValue is immutable after
// construction, so a shallow copy of the map suffices.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// =============================================================================
// QueryResult
// =============================================================================

// QueryResult is one session's active tabular result together with the
// metadata accumulated by augmentation operations.
//
// Version counts committed mutations since the result was stored. Callers
// pass the version they read back with their mutation so concurrent edits
// against a stale snapshot are rejected rather than silently merged.
type QueryResult struct {
	Columns     []Column `json:"columns"`
	Rows        []Row    `json:"rows"`
	TotalRows   int      `json:"total_rows"`
	QueryTimeMs float64  `json:"query_time_ms,omitempty"`
	SQL         string   `json:"sql,omitempty"`
	Version     int      `json:"version"`

	Enrichment  *EnrichmentMetadata  `json:"enrichment,omitempty"`
	Calculation *CalculationMetadata `json:"calculation,omitempty"`
}

// Clone returns a deep copy of the result, safe to mutate without
// affecting the original.
func (q *QueryResult) Clone() *QueryResult {
	if q == nil {
		return nil
	}
	out := &QueryResult{
		TotalRows:   q.TotalRows,
		QueryTimeMs: q.QueryTimeMs,
		SQL:         q.SQL,
		Version:     q.Version,
	}
	out.Columns = make([]Column, len(q.Columns))
	copy(out.Columns, q.Columns)
	out.Rows = make([]Row, len(q.Rows))
	for i, r := range q.Rows {
		out.Rows[i] = r.Clone()
	}
	if q.Enrichment != nil {
		out.Enrichment = q.Enrichment.Clone()
	}
	if q.Calculation != nil {
		out.Calculation = q.Calculation.Clone()
	}
	return out
}

// Column returns the column with the given name, or nil.
func (q *QueryResult) Column(name string) *Column {
	for i := range q.Columns {
		if q.Columns[i].Name == name {
			return &q.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether a column with the given name exists.
func (q *QueryResult) HasColumn(name string) bool {
	return q.Column(name) != nil
}

// ColumnNames returns the column names in declaration order.
func (q *QueryResult) ColumnNames() []string {
	names := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		names[i] = c.Name
	}
	return names
}

// EnrichedColumnName builds the result column name for an enrichment field.
func EnrichedColumnName(field string) string {
	return EnrichedColumnPrefix + field
}

// IsEnrichedColumnName reports whether name carries the enrichment prefix.
func IsEnrichedColumnName(name string) bool {
	return strings.HasPrefix(name, EnrichedColumnPrefix)
}

// =============================================================================
// Operation Metadata
// =============================================================================

// EnrichmentMetadata summarizes the most recent enrichment applied to a
// result. Warnings holds at most MaxDisplayedWarnings entries;
// TotalWarnings is the full count.
type EnrichmentMetadata struct {
	SourceColumn   string   `json:"source_column"`
	EnrichedFields []string `json:"enriched_fields"`
	TotalEnriched  int      `json:"total_enriched"`
	Warnings       []string `json:"warnings,omitempty"`
	TotalWarnings  int      `json:"total_warnings"`
	PartialFailure bool     `json:"partial_failure"`
}

// Clone returns a deep copy.
func (m *EnrichmentMetadata) Clone() *EnrichmentMetadata {
	if m == nil {
		return nil
	}
	out := *m
	out.EnrichedFields = append([]string(nil), m.EnrichedFields...)
	out.Warnings = append([]string(nil), m.Warnings...)
	return &out
}

// CalculatedColumnInfo records one calculated column's definition.
type CalculatedColumnInfo struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	FormatType string `json:"format_type"`
}

// CalculationMetadata accumulates across calculated-column operations on a
// result. Warnings holds at most MaxDisplayedWarnings entries from the most
// recent operation; TotalWarnings is that operation's full count.
type CalculationMetadata struct {
	CalculatedColumns []CalculatedColumnInfo `json:"calculated_columns"`
	Warnings          []string               `json:"warnings,omitempty"`
	TotalWarnings     int                    `json:"total_warnings"`
}

// Clone returns a deep copy.
func (m *CalculationMetadata) Clone() *CalculationMetadata {
	if m == nil {
		return nil
	}
	out := *m
	out.CalculatedColumns = append([]CalculatedColumnInfo(nil), m.CalculatedColumns...)
	out.Warnings = append([]string(nil), m.Warnings...)
	return &out
}

// CapWarnings returns at most MaxDisplayedWarnings entries of warnings
// together with the full count.
func CapWarnings(warnings []string) (displayed []string, total int) {
	total = len(warnings)
	if total > MaxDisplayedWarnings {
		warnings = warnings[:MaxDisplayedWarnings]
	}
	return append([]string(nil), warnings...), total
}
