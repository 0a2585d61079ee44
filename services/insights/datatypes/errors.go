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

import "errors"

// ErrTooManyRows indicates a stored result exceeds MaxResultRows.
var ErrTooManyRows = errors.New("result exceeds maximum row count")

// ErrDuplicateColumn indicates a result declares the same column name twice.
var ErrDuplicateColumn = errors.New("duplicate column name")

// ErrConflictingColumnFlags indicates a column is marked both enriched and
// calculated.
var ErrConflictingColumnFlags = errors.New("column cannot be both enriched and calculated")
