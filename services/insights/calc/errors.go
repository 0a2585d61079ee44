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
	"strings"
)

// ErrColumnExists indicates the requested column name is already present
// in the result.
var ErrColumnExists = errors.New("column already exists in result")

// InvalidExpressionError indicates an expression failed to parse. The
// whole operation is rejected before any row is touched.
type InvalidExpressionError struct {
	Expression string
	Position   int
	Detail     string
}

// Error implements the error interface.
func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid expression at position %d: %s", e.Position, e.Detail)
}

// MissingColumnError indicates an expression references columns the result
// does not have. The available column names are carried so callers can
// surface them.
type MissingColumnError struct {
	Missing   []string
	Available []string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("unknown column(s) %s; available columns: %s",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}
