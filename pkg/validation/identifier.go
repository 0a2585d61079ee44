// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided identifiers that end up
// in result schemas, file names, or log output. Using these validators keeps
// hostile input out of column names and session lookups.
package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// columnNamePattern matches valid result column names.
// Allows: letters, digits, underscores; must not start with a digit.
// Max length: 64 characters.
var columnNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidateColumnName validates a user-supplied column name.
//
// Valid names:
//   - 1-64 characters
//   - Letters, digits, underscores
//   - First character is a letter or underscore
//
// Returns an error if the name is invalid.
//
// Example:
//
//	if err := validation.ValidateColumnName(name); err != nil {
//	    return fmt.Errorf("invalid column name: %w", err)
//	}
func ValidateColumnName(name string) error {
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if !columnNamePattern.MatchString(name) {
		return fmt.Errorf("invalid column name: %q (must be 1-64 chars, letters, digits, or underscores, not starting with a digit)", name)
	}
	return nil
}

// ValidateSessionID validates that id is a well-formed UUID.
// Session IDs appear in log lines and store keys, so malformed values are
// rejected before any lookup.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session id: %q", id)
	}
	return nil
}
