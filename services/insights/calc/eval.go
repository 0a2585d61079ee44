// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package calc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
	"github.com/AleutianAI/AleutianInsights/services/insights/view"
)

// Evaluator adds calculated columns to query results.
type Evaluator struct {
	log *slog.Logger
}

// NewEvaluator creates an Evaluator. A nil logger falls back to
// slog.Default.
func NewEvaluator(log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{log: log}
}

// AddColumn parses expression, verifies it against result's columns, and
// appends a calculated column named columnName, evaluating every row.
//
// Structural failures (bad expression, duplicate column name, references
// to columns the result does not have) reject the operation before any
// row is touched. Per-row failures (non-numeric operand, division by
// zero) degrade only that row's cell to null with a warning; the
// operation still succeeds and the warnings are summarized in
// result.Calculation.
func (e *Evaluator) AddColumn(result *datatypes.QueryResult, columnName, expression, format string) error {
	if result.HasColumn(columnName) {
		return fmt.Errorf("%w: %s", ErrColumnExists, columnName)
	}
	if format == "" {
		format = "number"
	}

	root, err := Parse(expression)
	if err != nil {
		return err
	}

	available := result.ColumnNames()
	var missing []string
	for _, ref := range columnRefs(root) {
		if !result.HasColumn(ref) {
			missing = append(missing, ref)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Missing: missing, Available: available}
	}

	dataType := "FLOAT64"
	if format == "integer" {
		dataType = "INTEGER"
	}
	result.Columns = append(result.Columns, datatypes.Column{
		Name:         columnName,
		DataType:     dataType,
		IsCalculated: true,
	})

	var warnings []string
	for _, row := range result.Rows {
		value, warning := evalRow(root, row)
		if warning == "" && (math.IsInf(value, 0) || math.IsNaN(value)) {
			warning = "non-finite result"
		}
		if warning != "" {
			row[columnName] = datatypes.NewCalculated(nil, expression, format, warning)
			warnings = append(warnings, warning)
			continue
		}
		row[columnName] = datatypes.NewCalculated(roundFor(value, format), expression, format, "")
	}

	displayed, total := datatypes.CapWarnings(warnings)
	meta := result.Calculation
	if meta == nil {
		meta = &datatypes.CalculationMetadata{}
		result.Calculation = meta
	}
	meta.CalculatedColumns = append(meta.CalculatedColumns, datatypes.CalculatedColumnInfo{
		Name:       columnName,
		Expression: expression,
		FormatType: format,
	})
	meta.Warnings = displayed
	meta.TotalWarnings = total

	e.log.Info("added calculated column",
		"column", columnName,
		"format", format,
		"rows", len(result.Rows),
		"warnings", total)
	return nil
}

// rowEvalError carries a per-row degradation message. It aborts the
// current row's evaluation, not the operation.
type rowEvalError struct {
	warning string
}

func (e *rowEvalError) Error() string { return e.warning }

// evalRow evaluates root against row. On failure it returns the warning
// to attach to the degraded cell.
func evalRow(root node, row datatypes.Row) (float64, string) {
	v, err := evalNode(root, row)
	if err != nil {
		var re *rowEvalError
		if errors.As(err, &re) {
			return 0, re.warning
		}
		return 0, err.Error()
	}
	return v, ""
}

func evalNode(n node, row datatypes.Row) (float64, error) {
	switch v := n.(type) {
	case numberLit:
		return v.value, nil
	case columnRef:
		num := view.Numeric(row[v.name])
		if num == nil {
			return 0, &rowEvalError{warning: fmt.Sprintf("non-numeric value in column %s", v.name)}
		}
		return *num, nil
	case unaryExpr:
		operand, err := evalNode(v.operand, row)
		if err != nil {
			return 0, err
		}
		return -operand, nil
	case binaryExpr:
		left, err := evalNode(v.left, row)
		if err != nil {
			return 0, err
		}
		right, err := evalNode(v.right, row)
		if err != nil {
			return 0, err
		}
		switch v.op {
		case tokPlus:
			return left + right, nil
		case tokMinus:
			return left - right, nil
		case tokStar:
			return left * right, nil
		case tokSlash:
			if right == 0 {
				return 0, &rowEvalError{warning: "Division by zero"}
			}
			return left / right, nil
		}
	}
	return 0, fmt.Errorf("unreachable expression node %T", n)
}

// roundFor rounds v per the display format: integers round to whole
// numbers, everything else to two decimals.
func roundFor(v float64, format string) float64 {
	if format == "integer" {
		return math.Round(v)
	}
	return math.Round(v*100) / 100
}
