// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package checkers executes the external Python type checkers against
// candidate source text.
//
// The tool set is fixed at four logical names: mypy, pyrefly, zuban,
// and ty. Each candidate is written to a temp file and all four tools
// run against it in parallel; results are collected only after every
// tool has returned or timed out.
//
// # Status mapping
//
//	| Condition                         | Status |
//	|-----------------------------------|--------|
//	| exit 0, no errors in output       | ok     |
//	| exit 0, output reports errors     | error  |
//	| exit 1 (diagnostics reported)     | error  |
//	| timeout                           | crash  |
//	| binary missing / unexpected exit  | crash  |
//
// Crashes never block a run; they are excluded from the disagreement
// comparison and reported separately.
//
// # Thread Safety
//
// Runner is safe for concurrent use.
package checkers
