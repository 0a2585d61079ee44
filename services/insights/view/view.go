// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package view projects tagged cell values into the forms consumers need:
// a numeric reading for arithmetic and charting, a display string for
// rendering, the raw scalar for export, and the provenance metadata.
//
// All projections are total. A cell that cannot serve a projection yields
// the projection's zero form (nil number, "N/A" display) rather than an
// error, so row loops never branch on cell kind.
package view

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
)

// =============================================================================
// Numeric Projection
// =============================================================================

// Numeric returns the cell's value as a float, or nil when the value has no
// numeric reading. Strings are parsed tolerantly: the first whitespace field
// is taken and currency symbols, separators, and a trailing percent sign are
// stripped before parsing. Booleans are not numbers.
func Numeric(c datatypes.CellValue) *float64 {
	return numericValue(c.Value())
}

func numericValue(v any) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return ptr(val)
	case float32:
		return ptr(float64(val))
	case int:
		return ptr(float64(val))
	case int32:
		return ptr(float64(val))
	case int64:
		return ptr(float64(val))
	case uint:
		return ptr(float64(val))
	case uint64:
		return ptr(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil
		}
		return ptr(f)
	case string:
		return parseNumericString(val)
	default:
		return nil
	}
}

func parseNumericString(s string) *float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	tok := fields[0]
	tok = strings.TrimSuffix(tok, "%")
	tok = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',':
			return -1
		}
		return r
	}, tok)
	if tok == "" {
		return nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	return ptr(f)
}

func ptr(f float64) *float64 { return &f }

// =============================================================================
// Display Projection
// =============================================================================

// Display returns the cell formatted for rendering. Calculated cells honor
// their format type; everything else falls back to a plain string form.
// Nil values render as "N/A".
func Display(c datatypes.CellValue) string {
	v := c.Value()
	if v == nil {
		return "N/A"
	}
	if c.Kind() == datatypes.KindCalculated {
		if n := numericValue(v); n != nil {
			return formatCalculated(*n, c.Format())
		}
	}
	return plainString(v)
}

func formatCalculated(v float64, format string) string {
	switch format {
	case "integer":
		return humanize.Comma(int64(math.Round(v)))
	case "percent":
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	case "currency":
		return "$" + humanize.FormatFloat("#,###.##", v)
	default:
		return humanize.CommafWithDigits(v, 2)
	}
}

func plainString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// =============================================================================
// Raw and Metadata Projections
// =============================================================================

// Raw returns the underlying scalar with no provenance attached. This is
// the projection exports use so enrichment metadata never leaks into files.
func Raw(c datatypes.CellValue) any {
	return c.Value()
}

// CellMetadata is the provenance attached to a non-primitive cell.
type CellMetadata struct {
	Kind       datatypes.CellKind
	Source     string
	Confidence string
	Freshness  string
	Expression string
	Format     string
	Warning    string
}

// Metadata returns the cell's provenance, or nil for primitive cells.
func Metadata(c datatypes.CellValue) *CellMetadata {
	if c.Kind() == datatypes.KindPrimitive {
		return nil
	}
	return &CellMetadata{
		Kind:       c.Kind(),
		Source:     c.Source(),
		Confidence: c.Confidence(),
		Freshness:  c.Freshness(),
		Expression: c.Expression(),
		Format:     c.Format(),
		Warning:    c.Warning(),
	}
}
