// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package enrich merges externally sourced data into a query result as
// prefixed enrichment columns.
//
// # Merge Semantics
//
// Entries are keyed by the string form of the source column's original
// cell value. Every row gets a cell in every enriched column: a match
// fills the cell with provenance, a miss fills it with a null cell and a
// warning. A miss degrades the cell, never the operation. All structural
// limits are checked before the first mutation, so a rejected merge
// leaves the result untouched.
//
// Re-running an enrichment for a field that already exists overwrites the
// prior column's cells in place (last write wins) without adding a
// duplicate column.
package enrich

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
)

// Field is one value an enrichment entry attaches, with provenance.
type Field struct {
	Value      any
	Source     string
	Confidence string
	Freshness  string
	Warning    string
}

// Entry is one enrichment entry keyed by the original cell value it
// matches, rendered as a string.
type Entry struct {
	OriginalValue string
	Fields        map[string]Field
}

// Merger merges enrichment entries into query results.
type Merger struct {
	log *slog.Logger
}

// NewMerger creates a Merger. A nil logger falls back to slog.Default.
func NewMerger(log *slog.Logger) *Merger {
	if log == nil {
		log = slog.Default()
	}
	return &Merger{log: log}
}

// Merge applies entries to result in place, keyed on sourceColumn, and
// updates result.Enrichment with the operation summary.
//
// # Outputs
//
// Returns an error only for structural violations (unknown source column,
// no entries, limit breaches), in which case result is unmodified. Missing
// enrichment data for individual values is reported through warnings in
// the metadata, not as an error.
func (m *Merger) Merge(result *datatypes.QueryResult, sourceColumn string, entries []Entry) error {
	if !result.HasColumn(sourceColumn) {
		return fmt.Errorf("%w: %s", ErrSourceColumnNotFound, sourceColumn)
	}
	if len(entries) == 0 {
		return ErrNoEntries
	}
	byValue := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if len(e.Fields) > datatypes.MaxEnrichmentFields {
			return fmt.Errorf("%w: entry %q has %d fields, limit %d",
				ErrTooManyFields, e.OriginalValue, len(e.Fields), datatypes.MaxEnrichmentFields)
		}
		byValue[e.OriginalValue] = e
	}
	if len(byValue) > datatypes.MaxEnrichmentValues {
		return fmt.Errorf("%w: %d distinct values, limit %d",
			ErrTooManyValues, len(byValue), datatypes.MaxEnrichmentValues)
	}
	fields := fieldUnion(entries)

	for _, field := range fields {
		colName := datatypes.EnrichedColumnName(field)
		if !result.HasColumn(colName) {
			result.Columns = append(result.Columns, datatypes.Column{
				Name:       colName,
				DataType:   "STRING",
				IsEnriched: true,
			})
		}
	}

	var warnings []string
	warned := make(map[string]bool)
	matched := make(map[string]bool)

	for _, row := range result.Rows {
		key := cellKey(row[sourceColumn])
		entry, ok := byValue[key]
		if !ok {
			for _, field := range fields {
				w := fmt.Sprintf("no enrichment data found for %s", key)
				row[datatypes.EnrichedColumnName(field)] = datatypes.NewEnriched(nil, "", "", "", w)
			}
			if !warned[key] {
				warned[key] = true
				warnings = append(warnings, fmt.Sprintf("no enrichment data found for %s", key))
			}
			continue
		}
		matched[key] = true
		for _, field := range fields {
			colName := datatypes.EnrichedColumnName(field)
			f, ok := entry.Fields[field]
			if !ok {
				w := fmt.Sprintf("field %s not found in enrichment data", field)
				row[colName] = datatypes.NewEnriched(nil, "", "", "", w)
				continue
			}
			row[colName] = datatypes.NewEnriched(f.Value, f.Source, f.Confidence, f.Freshness, f.Warning)
		}
	}

	displayed, total := datatypes.CapWarnings(warnings)
	result.Enrichment = &datatypes.EnrichmentMetadata{
		SourceColumn:   sourceColumn,
		EnrichedFields: fields,
		TotalEnriched:  len(matched),
		Warnings:       displayed,
		TotalWarnings:  total,
		PartialFailure: total > 0,
	}

	m.log.Info("merged enrichment",
		"source_column", sourceColumn,
		"fields", len(fields),
		"entries", len(entries),
		"matched", len(matched),
		"warnings", total)
	return nil
}

// fieldUnion returns the sorted union of field names across entries.
func fieldUnion(entries []Entry) []string {
	set := make(map[string]bool)
	for _, e := range entries {
		for name := range e.Fields {
			set[name] = true
		}
	}
	fields := make([]string, 0, len(set))
	for name := range set {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// cellKey renders a cell's value the way entry keys are rendered, so
// numeric cells match string-keyed entries.
func cellKey(c datatypes.CellValue) string {
	switch v := c.Value().(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
