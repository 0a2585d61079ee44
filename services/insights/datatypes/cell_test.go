// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellValue_PrimitiveMarshalsAsBareScalar(t *testing.T) {
	data, err := json.Marshal(NewPrimitive("California"))
	require.NoError(t, err)
	assert.Equal(t, `"California"`, string(data))

	data, err = json.Marshal(NewPrimitive(39500000.0))
	require.NoError(t, err)
	assert.Equal(t, `3.95e+07`, string(data))
}

func TestCellValue_EnrichedMarshalsTagged(t *testing.T) {
	cell := NewEnriched(163700.0, "web_search", ConfidenceHigh, FreshnessCurrent, "")
	data, err := json.Marshal(cell)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["is_enriched"])
	assert.Equal(t, 163700.0, decoded["value"])
	assert.Equal(t, "web_search", decoded["source"])
	assert.Equal(t, "high", decoded["confidence"])
	assert.NotContains(t, decoded, "warning")
}

func TestCellValue_CalculatedMarshalsTagged(t *testing.T) {
	cell := NewCalculated(nil, "revenue / stores", "number", "Division by zero")
	data, err := json.Marshal(cell)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["is_calculated"])
	assert.Nil(t, decoded["value"])
	assert.Equal(t, "Division by zero", decoded["warning"])
}

func TestCellValue_UnmarshalDetectsKindFromShape(t *testing.T) {
	t.Run("bare scalar decodes as primitive", func(t *testing.T) {
		var cell CellValue
		require.NoError(t, json.Unmarshal([]byte(`42.5`), &cell))
		assert.Equal(t, KindPrimitive, cell.Kind())
		assert.Equal(t, 42.5, cell.Value())
	})

	t.Run("enriched round-trips", func(t *testing.T) {
		original := NewEnriched("Sacramento", "knowledge_base", ConfidenceMedium, FreshnessStatic, "")
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded CellValue
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, KindEnriched, decoded.Kind())
		assert.Equal(t, "Sacramento", decoded.Value())
		assert.Equal(t, "knowledge_base", decoded.Source())
		assert.Equal(t, ConfidenceMedium, decoded.Confidence())
	})

	t.Run("calculated round-trips", func(t *testing.T) {
		original := NewCalculated(263333.0, "population / stores", "integer", "")
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded CellValue
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, KindCalculated, decoded.Kind())
		assert.Equal(t, 263333.0, decoded.Value())
		assert.Equal(t, "population / stores", decoded.Expression())
		assert.Equal(t, "integer", decoded.Format())
	})

	t.Run("untagged object decodes as primitive", func(t *testing.T) {
		var cell CellValue
		require.NoError(t, json.Unmarshal([]byte(`{"lat": 38.5, "lon": -121.4}`), &cell))
		assert.Equal(t, KindPrimitive, cell.Kind())
	})
}

func TestQueryResult_CloneIsDeep(t *testing.T) {
	original := &QueryResult{
		Columns: []Column{{Name: "state", DataType: "STRING"}},
		Rows: []Row{
			{"state": NewPrimitive("CA")},
		},
		TotalRows: 1,
		Version:   3,
		Enrichment: &EnrichmentMetadata{
			SourceColumn:   "state",
			EnrichedFields: []string{"capital"},
		},
	}

	clone := original.Clone()
	clone.Rows[0]["state"] = NewPrimitive("TX")
	clone.Columns[0].Name = "region"
	clone.Enrichment.EnrichedFields[0] = "governor"

	assert.Equal(t, "CA", original.Rows[0]["state"].Value())
	assert.Equal(t, "state", original.Columns[0].Name)
	assert.Equal(t, "capital", original.Enrichment.EnrichedFields[0])
}

func TestCapWarnings(t *testing.T) {
	warnings := []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"}
	displayed, total := CapWarnings(warnings)
	assert.Len(t, displayed, MaxDisplayedWarnings)
	assert.Equal(t, 7, total)
	assert.Equal(t, "w1", displayed[0])

	displayed, total = CapWarnings(nil)
	assert.Empty(t, displayed)
	assert.Zero(t, total)
}

func TestEnrichedColumnName(t *testing.T) {
	assert.Equal(t, "_enriched_capital", EnrichedColumnName("capital"))
	assert.True(t, IsEnrichedColumnName("_enriched_capital"))
	assert.False(t, IsEnrichedColumnName("capital"))
}

func TestCalculateRequest_Validate(t *testing.T) {
	req := CalculateRequest{
		ColumnName: "density",
		Expression: "population / stores",
		FormatType: "integer",
	}
	assert.NoError(t, req.Validate())

	req.FormatType = "scientific"
	assert.Error(t, req.Validate())
}
