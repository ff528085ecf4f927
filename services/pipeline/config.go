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
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxBatchSize bounds how many candidates one generation call may
	// request. Larger batches degrade generation quality sharply.
	MaxBatchSize = 50

	// MaxAttemptBudget bounds the attempt budget a run may configure.
	MaxAttemptBudget = 100
)

// pipelineValidate is the validator instance for run configuration.
var pipelineValidate *validator.Validate

func init() {
	pipelineValidate = validator.New()
}

// Config holds the five core run parameters plus the model identifier
// recorded in artifacts.
//
// # Validation
//
// Uses go-playground/validator:
//   - TargetCount: >= 0 (0 terminates immediately with an empty set)
//   - BatchSize: 1..MaxBatchSize
//   - MaxAttempts: 1..MaxAttemptBudget
//   - MaxRefinements: >= 0 (0 disables refinement)
//   - Model: required
type Config struct {
	// TargetCount is the number of disagreements to collect before
	// stopping. The final count may exceed it when a batch yields
	// extra disagreements; those are retained, not discarded.
	TargetCount int `validate:"min=0"`

	// BatchSize is the number of candidates requested per generation
	// attempt. May exceed the remaining need.
	BatchSize int `validate:"min=1,max=50"`

	// MaxAttempts bounds generation attempts. Exhausting it is a
	// normal terminal state, not an error.
	MaxAttempts int `validate:"min=1,max=100"`

	// MaxRefinements bounds refinement rounds per agreement-only
	// candidate.
	MaxRefinements int `validate:"min=0"`

	// UseSeeds enables fetching issue-tracker seeds before the first
	// attempt. Seeds are inspiration, not a hard dependency; an empty
	// or failed fetch falls back to pattern-based prompting.
	UseSeeds bool

	// Model is the LLM identifier recorded in the run report.
	Model string `validate:"required"`
}

// Validate reports a fatal configuration error, surfaced before the
// loop starts.
func (c Config) Validate() error {
	if err := pipelineValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
