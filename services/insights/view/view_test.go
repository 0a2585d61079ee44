// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
)

func TestNumeric_PlainValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
		isNil bool
	}{
		{"float", 42.5, 42.5, false},
		{"int", 42, 42, false},
		{"numeric string", "42.5", 42.5, false},
		{"currency string", "$1,234.56", 1234.56, false},
		{"percent string", "12.5%", 12.5, false},
		{"euro string", "€500", 500, false},
		{"string with trailing text", "42 units", 42, false},
		{"negative string", "-17.25", -17.25, false},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
		{"word", "unknown", 0, true},
		{"empty string", "", 0, true},
		{"bare symbols", "$,", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Numeric(datatypes.NewPrimitive(tt.value))
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestNumeric_ReadsThroughTaggedCells(t *testing.T) {
	enriched := datatypes.NewEnriched("163,700", "web_search", datatypes.ConfidenceHigh, "", "")
	got := Numeric(enriched)
	require.NotNil(t, got)
	assert.InDelta(t, 163700, *got, 1e-9)

	calculated := datatypes.NewCalculated(263333.0, "population / stores", "integer", "")
	got = Numeric(calculated)
	require.NotNil(t, got)
	assert.InDelta(t, 263333, *got, 1e-9)

	degraded := datatypes.NewCalculated(nil, "revenue / stores", "number", "Division by zero")
	assert.Nil(t, Numeric(degraded))
}

func TestDisplay_CalculatedFormats(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		format string
		want   string
	}{
		{"integer groups thousands", 263333.0, "integer", "263,333"},
		{"integer rounds", 263333.4, "integer", "263,333"},
		{"percent one decimal", 12.34, "percent", "12.3%"},
		{"currency", 1234.5, "currency", "$1,234.50"},
		{"number two decimals", 1234.567, "number", "1,234.57"},
		{"default is number", 10.0, "", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := datatypes.NewCalculated(tt.value, "a / b", tt.format, "")
			assert.Equal(t, tt.want, Display(cell))
		})
	}
}

func TestDisplay_NilRendersNA(t *testing.T) {
	cell := datatypes.NewCalculated(nil, "a / b", "number", "Division by zero")
	assert.Equal(t, "N/A", Display(cell))

	miss := datatypes.NewEnriched(nil, "", "", "", "no enrichment data found for TX")
	assert.Equal(t, "N/A", Display(miss))
}

func TestDisplay_PrimitivePassthrough(t *testing.T) {
	assert.Equal(t, "California", Display(datatypes.NewPrimitive("California")))
	assert.Equal(t, "42.5", Display(datatypes.NewPrimitive(42.5)))
	assert.Equal(t, "true", Display(datatypes.NewPrimitive(true)))
}

func TestRaw_StripsProvenance(t *testing.T) {
	enriched := datatypes.NewEnriched(163700.0, "web_search", datatypes.ConfidenceHigh, datatypes.FreshnessCurrent, "")
	assert.Equal(t, 163700.0, Raw(enriched))

	calculated := datatypes.NewCalculated(99.5, "a / b", "percent", "")
	assert.Equal(t, 99.5, Raw(calculated))
}

func TestMetadata(t *testing.T) {
	assert.Nil(t, Metadata(datatypes.NewPrimitive("CA")))

	meta := Metadata(datatypes.NewEnriched(1.0, "web_search", datatypes.ConfidenceHigh, datatypes.FreshnessCurrent, ""))
	require.NotNil(t, meta)
	assert.Equal(t, datatypes.KindEnriched, meta.Kind)
	assert.Equal(t, "web_search", meta.Source)
	assert.Equal(t, datatypes.ConfidenceHigh, meta.Confidence)

	meta = Metadata(datatypes.NewCalculated(2.0, "a * b", "number", ""))
	require.NotNil(t, meta)
	assert.Equal(t, "a * b", meta.Expression)
	assert.Equal(t, "number", meta.Format)
}
