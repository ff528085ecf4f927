// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import "errors"

// Sentinel errors for the pipeline service.
var (
	// ErrInvalidConfig indicates the run configuration failed validation.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")

	// ErrNoRuns indicates no previous generation run directory exists.
	ErrNoRuns = errors.New("no generation runs found")

	// ErrNoSourceFiles indicates a run directory has no source files to check.
	ErrNoSourceFiles = errors.New("no source files found")
)
