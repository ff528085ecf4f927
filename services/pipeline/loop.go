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
	"time"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// seedsPerRotation is how far the seed window advances per attempt;
// seedWindow is how many seeds one prompt receives.
const (
	seedsPerRotation = 3
	seedWindow       = 5
)

// GenerationLoop orchestrates repeated generation attempts, batch
// classification, and refinement until the disagreement target or the
// attempt budget is reached.
type GenerationLoop struct {
	seeds     SeedSource
	generator Generator
	runner    CheckerRunner
}

// NewGenerationLoop wires the loop's collaborators. The seed source may
// be nil; generation then relies on pattern-based prompting only.
func NewGenerationLoop(seeds SeedSource, generator Generator, runner CheckerRunner) *GenerationLoop {
	return &GenerationLoop{
		seeds:     seeds,
		generator: generator,
		runner:    runner,
	}
}

// Run executes the generate -> filter -> refine loop.
//
// The returned RunState is valid on every non-error return, including
// budget exhaustion with zero disagreements. The only error conditions
// are invalid configuration (checked before any work starts) and
// context cancellation; no single candidate or generator failure
// aborts a run.
func (l *GenerationLoop) Run(ctx context.Context, cfg Config) (*RunState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	state := NewRunState()
	logger := slog.With(slog.String("run_id", state.RunID))

	logger.Info("Starting generation run",
		slog.Int("target", cfg.TargetCount),
		slog.String("model", cfg.Model),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Int("max_attempts", cfg.MaxAttempts),
	)

	seedPool := l.fetchSeeds(ctx, cfg, logger)
	state.SeedsUsed = len(seedPool)

	refiner := NewRefinementController(l.generator, l.runner, cfg.MaxRefinements)

	for state.Store.DisagreementCount() < cfg.TargetCount && state.AttemptsUsed < cfg.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		state.AttemptsUsed++
		if err := l.runAttempt(ctx, cfg, state, refiner, seedPool, logger); err != nil {
			return state, err
		}

		logger.Info("Attempt complete",
			slog.Int("attempt", state.AttemptsUsed),
			slog.Int("disagreements", state.Store.DisagreementCount()),
			slog.Int("target", cfg.TargetCount),
		)
	}

	logger.Info("Generation run complete",
		slog.Int("disagreements", state.Store.DisagreementCount()),
		slog.Int("total_generated", state.Store.FreshCount()),
		slog.Int("attempts_used", state.AttemptsUsed),
	)
	return state, nil
}

// fetchSeeds fetches issue-tracker seeds once up front. A failed or
// empty fetch degrades to pattern-based prompting; it never fails the
// run.
func (l *GenerationLoop) fetchSeeds(ctx context.Context, cfg Config, logger *slog.Logger) []datatypes.Seed {
	if !cfg.UseSeeds || l.seeds == nil {
		return nil
	}

	pool, err := l.seeds.FetchSeeds(ctx)
	if err != nil {
		logger.Warn("Seed fetch failed, falling back to pattern-based generation",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(pool) == 0 {
		logger.Warn("Seed fetch returned no examples, using pattern-based generation")
		return nil
	}
	logger.Info("Fetched seed examples", slog.Int("count", len(pool)))
	return pool
}

// runAttempt performs one generation attempt: sample seeds, generate a
// batch, classify every candidate, and refine the holdouts. The error
// return is context cancellation only.
func (l *GenerationLoop) runAttempt(ctx context.Context, cfg Config, state *RunState, refiner *RefinementController, seedPool []datatypes.Seed, logger *slog.Logger) error {
	attemptCtx, span := startAttemptSpan(ctx, state.AttemptsUsed, cfg.MaxAttempts)
	defer span.End()
	start := time.Now()

	sample := sampleSeeds(seedPool, state.AttemptsUsed)
	logger.Info("Generating batch",
		slog.Int("attempt", state.AttemptsUsed),
		slog.Int("max_attempts", cfg.MaxAttempts),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Int("seeds", len(sample)),
	)

	candidates, err := l.generator.Generate(attemptCtx, sample, cfg.BatchSize)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("Generator call failed",
			slog.Int("attempt", state.AttemptsUsed),
			slog.String("error", err.Error()),
		)
		recordAttempt(attemptCtx, time.Since(start), 0, 0, true)
		return nil
	}
	if len(candidates) == 0 {
		logger.Warn("No examples parsed from generator response",
			slog.Int("attempt", state.AttemptsUsed),
		)
		recordAttempt(attemptCtx, time.Since(start), 0, 0, true)
		return nil
	}

	found := 0
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := l.processCandidate(attemptCtx, cfg, state, refiner, cand, logger)
		if err != nil {
			return err
		}
		found += n
	}

	recordAttempt(attemptCtx, time.Since(start), len(candidates), found, false)
	return nil
}

// processCandidate classifies one batch candidate and, when it fails to
// diverge, hands it to the refinement controller. Returns how many
// disagreements the candidate contributed (0, or 1 fresh, or 1 refined).
//
// Candidates generated past the target are still classified so extra
// disagreements are retained, but no new refinement episodes start once
// the target is met.
func (l *GenerationLoop) processCandidate(ctx context.Context, cfg Config, state *RunState, refiner *RefinementController, cand datatypes.Candidate, logger *slog.Logger) (int, error) {
	cand.Slug = state.Store.ReserveSlug(cand.Slug)

	results, err := l.runner.Run(ctx, cand.Source)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		logger.Warn("Checker run failed, skipping candidate",
			slog.String("slug", cand.Slug),
			slog.String("error", err.Error()),
		)
		state.Store.Record(cand, nil, datatypes.TagAgreement)
		return 0, nil
	}

	verdict := Classify(results)
	if len(verdict.CrashedTools) > 0 {
		logger.Warn("Checker crashes excluded from comparison",
			slog.String("slug", cand.Slug),
			slog.Any("tools", verdict.CrashedTools),
		)
	}

	if verdict.Class == ClassDisagreement {
		state.Store.Record(cand, results, datatypes.TagDisagreement)
		logger.Info(datatypes.TagDisagreement.String(),
			slog.String("slug", cand.Slug),
			slog.Any("statuses", statusFeedback(results)),
		)
		return 1, nil
	}

	state.Store.Record(cand, results, datatypes.TagAgreement)
	logger.Debug("Checkers agree",
		slog.String("slug", cand.Slug),
		slog.Any("statuses", statusFeedback(results)),
	)

	if cfg.MaxRefinements == 0 || state.Store.DisagreementCount() >= cfg.TargetCount {
		return 0, nil
	}

	outcome, err := refiner.Refine(ctx, cand, results)
	if err != nil {
		return 0, err
	}
	if outcome == nil {
		return 0, nil
	}

	outcome.Candidate.Slug = state.Store.ReserveSlug(outcome.Candidate.Slug)
	state.Store.Record(outcome.Candidate, outcome.Results, datatypes.TagDisagreementRefined)
	logger.Info(datatypes.TagDisagreementRefined.String(),
		slog.String("slug", outcome.Candidate.Slug),
		slog.Int("refinement_count", outcome.Candidate.RefinementCount),
		slog.Any("statuses", statusFeedback(outcome.Results)),
	)
	return 1, nil
}

// statusFeedback projects a result set down to the tool -> status map
// used in run logs.
func statusFeedback(results map[string]datatypes.CheckerResult) map[string]datatypes.CheckerStatus {
	statuses := make(map[string]datatypes.CheckerStatus, len(results))
	for tool, result := range results {
		statuses[tool] = result.Status
	}
	return statuses
}

// sampleSeeds selects the seed window for one attempt.
//
// The policy is deterministic given a fixed pool and attempt index: the
// window start rotates by seedsPerRotation each attempt, wrapping at
// the pool length, and falls back to the first seedWindow seeds when
// the rotated window would be degenerate. Variety across attempts comes
// from the rotation, not from randomness.
func sampleSeeds(pool []datatypes.Seed, attempt int) []datatypes.Seed {
	if len(pool) == 0 {
		return nil
	}

	start := (attempt - 1) * seedsPerRotation % len(pool)
	end := start + seedWindow
	if end > len(pool) {
		end = len(pool)
	}

	window := pool[start:end]
	if len(window) < 3 {
		if len(pool) <= seedWindow {
			return pool
		}
		return pool[:seedWindow]
	}
	return window
}
