// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"errors"
	"fmt"
)

// ErrNoResult indicates the session has no stored result.
var ErrNoResult = errors.New("no query result stored for session")

// StaleResultError indicates a mutation was attempted against a version
// that is no longer current for the session.
type StaleResultError struct {
	SessionID       string
	ExpectedVersion int
	CurrentVersion  int
}

// Error implements the error interface.
func (e *StaleResultError) Error() string {
	return fmt.Sprintf(
		"stale result for session %s: expected version %d, current version %d",
		e.SessionID, e.ExpectedVersion, e.CurrentVersion,
	)
}

// IsStale reports whether err is a StaleResultError.
func IsStale(err error) bool {
	var stale *StaleResultError
	return errors.As(err, &stale)
}
