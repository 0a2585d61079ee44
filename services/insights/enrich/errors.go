// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package enrich

import "errors"

var (
	// ErrSourceColumnNotFound indicates the enrichment source column does
	// not exist in the result.
	ErrSourceColumnNotFound = errors.New("source column not found in result")

	// ErrNoEntries indicates an enrichment request carried no entries.
	ErrNoEntries = errors.New("enrichment requires at least one entry")

	// ErrTooManyValues indicates the request covers more distinct source
	// values than the per-operation limit allows.
	ErrTooManyValues = errors.New("enrichment exceeds maximum distinct values")

	// ErrTooManyFields indicates an entry attaches more fields than the
	// per-entry limit allows.
	ErrTooManyFields = errors.New("enrichment entry exceeds maximum fields")
)
