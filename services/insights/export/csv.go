// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package export writes query results to flat file formats.
//
// Exports go through the raw value projection only. Provenance attached to
// enriched and calculated cells (sources, confidence, expressions,
// warnings) never appears in exported files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
	"github.com/AleutianAI/AleutianInsights/services/insights/view"
)

// WriteCSV writes result to w as CSV: a header row of column names, then
// one record per row in column order. Nil cells write as empty fields.
func WriteCSV(w io.Writer, result *datatypes.QueryResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(result.ColumnNames()); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	record := make([]string, len(result.Columns))
	for _, row := range result.Rows {
		for i, col := range result.Columns {
			record[i] = rawField(view.Raw(row[col.Name]))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func rawField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
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
