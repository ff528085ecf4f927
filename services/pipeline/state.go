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

import (
	"time"

	"github.com/google/uuid"
)

// RunState is the process-scoped state of one pipeline invocation. It
// is created at run start, threaded through the loop, and returned to
// the caller; nothing about it persists across runs. Durability is via
// the written artifacts only.
type RunState struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	// StartedAt is the wall-clock start of the run; it names the
	// output directory.
	StartedAt time.Time

	// AttemptsUsed counts generation attempts. Never exceeds the
	// configured attempt bound; the loop terminates strictly before
	// exceeding it.
	AttemptsUsed int

	// SeedsUsed is the number of seeds available to generation prompts.
	SeedsUsed int

	// Store records every candidate seen this run.
	Store *CandidateStore
}

// NewRunState initializes state for a fresh run.
func NewRunState() *RunState {
	return &RunState{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Store:     NewCandidateStore(),
	}
}
