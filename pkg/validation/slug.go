// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for
// security-critical operations.
//
// Generated candidate slugs come from an LLM response and end up as
// file names on disk. Validating them before any filesystem write
// prevents path traversal and shell-hostile names.
package validation

import (
	"fmt"
	"regexp"
)

// slugPattern matches the identifiers the generator is instructed to
// produce: kebab-case, starting with an alphanumeric, up to 80 chars.
// Underscores are tolerated since models emit them despite the prompt.
var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]{0,79}$`)

// ValidateSlug validates a candidate identifier before it is used as a
// file name.
//
// Valid slugs:
//   - 1-80 characters
//   - letters, digits, hyphens, underscores
//   - no dots, slashes, or whitespace (blocks traversal like "../x")
//
// Returns an error if the slug is invalid.
//
// Example:
//
//	if err := validation.ValidateSlug(cand.Slug); err != nil {
//	    return fmt.Errorf("rejecting candidate: %w", err)
//	}
//	// Safe to use in a file path
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}

	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("invalid slug format: %q (must be 1-80 alphanumeric, hyphen, or underscore chars)", slug)
	}

	return nil
}

// ValidateSlugs validates multiple slugs. Returns an error listing all
// invalid slugs if any fail validation.
func ValidateSlugs(slugs []string) error {
	var invalid []string
	for _, slug := range slugs {
		if err := ValidateSlug(slug); err != nil {
			invalid = append(invalid, slug)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid slugs: %v", invalid)
	}
	return nil
}
