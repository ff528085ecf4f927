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
	"context"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// SeedSource supplies historical bug examples for generation prompts.
// A fetch may legitimately return an empty sequence.
type SeedSource interface {
	FetchSeeds(ctx context.Context) ([]datatypes.Seed, error)
}

// Generator produces candidate snippets. Implementations must tolerate
// malformed model responses by returning an empty slice rather than
// failing the run.
type Generator interface {
	// Generate requests a batch of fresh candidates, optionally guided
	// by seed material.
	Generate(ctx context.Context, seeds []datatypes.Seed, batchSize int) ([]datatypes.Candidate, error)

	// Refine requests a modified version of a single candidate that all
	// checkers agreed on, given the observed per-tool results as
	// feedback.
	Refine(ctx context.Context, cand datatypes.Candidate, feedback map[string]datatypes.CheckerResult) (datatypes.Candidate, error)
}

// CheckerRunner executes the configured type checkers against source
// text. Per-tool failures surface as StatusCrash results, not errors;
// the error return is reserved for run-level problems such as context
// cancellation.
type CheckerRunner interface {
	Run(ctx context.Context, source string) (map[string]datatypes.CheckerResult, error)

	// Tools returns the fixed set of configured tool names.
	Tools() []string
}
