// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package chart

import "errors"

var (
	// ErrUnknownChartType indicates an unsupported chart type.
	ErrUnknownChartType = errors.New("unknown chart type")

	// ErrColumnNotFound indicates a chart axis references a column the
	// result does not have.
	ErrColumnNotFound = errors.New("chart column not found in result")

	// ErrNoSeries indicates no y columns were given.
	ErrNoSeries = errors.New("chart requires at least one series column")
)
