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
	"log/slog"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// RefinementPhase is the explicit state of one refinement episode.
// Transitions are driven solely by classification outcomes and the
// refinement counter, which makes the bound trivially verifiable.
type RefinementPhase int

const (
	// PhasePending: candidate classified as agreement, not yet refined.
	PhasePending RefinementPhase = iota

	// PhaseRefining: a refinement round is in flight.
	PhaseRefining

	// PhaseConfirmed: a refined variant produced a disagreement.
	PhaseConfirmed

	// PhaseExhausted: the refinement bound was reached without a
	// disagreement. An expected outcome, not an error.
	PhaseExhausted
)

// String returns the lowercase phase name.
func (p RefinementPhase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseRefining:
		return "refining"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// RefinedOutcome is a refined candidate together with the checker
// results that confirmed its disagreement.
type RefinedOutcome struct {
	Candidate datatypes.Candidate
	Results   map[string]datatypes.CheckerResult
}

// RefinementController drives the bounded feedback loop for candidates
// all checkers agreed on: build feedback from the observed statuses,
// ask the generator for a divergence-inducing variant, re-check, and
// repeat up to the bound.
type RefinementController struct {
	generator Generator
	runner    CheckerRunner
	bound     int
}

// NewRefinementController creates a controller with the given
// per-candidate refinement bound.
func NewRefinementController(generator Generator, runner CheckerRunner, maxRefinements int) *RefinementController {
	return &RefinementController{
		generator: generator,
		runner:    runner,
		bound:     maxRefinements,
	}
}

// Refine attempts to turn an agreement-only candidate into a
// disagreement.
//
// Returns the refined candidate with its confirming results, or nil if
// the bound was exhausted without achieving disagreement. Generator and
// checker failures mid-episode end the episode as exhausted; only
// context cancellation is returned as an error.
func (r *RefinementController) Refine(ctx context.Context, cand datatypes.Candidate, results map[string]datatypes.CheckerResult) (*RefinedOutcome, error) {
	phase := PhasePending
	current := cand
	currentResults := results

	for current.RefinementCount < r.bound {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		phase = PhaseRefining
		round := current.RefinementCount + 1
		slog.Debug("Refining candidate",
			slog.String("slug", cand.Slug),
			slog.String("phase", phase.String()),
			slog.Int("round", round),
			slog.Int("bound", r.bound),
		)

		refined, err := r.generator.Refine(ctx, current, currentResults)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Refinement call failed",
				slog.String("slug", cand.Slug),
				slog.String("error", err.Error()),
			)
			recordRefinement(ctx, PhaseExhausted)
			return nil, nil
		}

		refined.Origin = datatypes.OriginRefined
		refined.RefinementCount = round

		newResults, err := r.runner.Run(ctx, refined.Source)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Checker run failed during refinement",
				slog.String("slug", refined.Slug),
				slog.String("error", err.Error()),
			)
			recordRefinement(ctx, PhaseExhausted)
			return nil, nil
		}

		if Classify(newResults).Class == ClassDisagreement {
			phase = PhaseConfirmed
			slog.Debug("Refinement confirmed divergence",
				slog.String("slug", refined.Slug),
				slog.String("phase", phase.String()),
				slog.Int("refinement_count", refined.RefinementCount),
			)
			recordRefinement(ctx, phase)
			return &RefinedOutcome{Candidate: refined, Results: newResults}, nil
		}

		// Loop again with the new result set as feedback.
		current = refined
		currentResults = newResults
	}

	phase = PhaseExhausted
	slog.Debug("Refinement budget exhausted",
		slog.String("slug", cand.Slug),
		slog.String("phase", phase.String()),
		slog.Int("bound", r.bound),
	)
	recordRefinement(ctx, phase)
	return nil, nil
}
