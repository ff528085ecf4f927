// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checkers

import "time"

// DefaultTimeout is the per-tool execution bound. A tool that exceeds
// it is recorded as crashed, never allowed to block the run.
const DefaultTimeout = 30 * time.Second

// ToolConfig configures how to run one type checker.
//
// Thread Safety: Treat as immutable after creation.
type ToolConfig struct {
	// Name is the logical tool name (e.g., "mypy").
	Name string `yaml:"name"`

	// Command is the executable name.
	Command string `yaml:"command"`

	// Args are passed before the candidate file path.
	Args []string `yaml:"args"`

	// Timeout bounds one invocation; DefaultTimeout when zero.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultTools returns the fixed four-checker configuration.
func DefaultTools() []ToolConfig {
	return []ToolConfig{
		{Name: "mypy", Command: "mypy", Args: []string{"--no-error-summary"}},
		{Name: "pyrefly", Command: "pyrefly", Args: []string{"check"}},
		{Name: "zuban", Command: "zuban", Args: []string{"check"}},
		{Name: "ty", Command: "ty", Args: []string{"check"}},
	}
}
