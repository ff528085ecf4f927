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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for pipeline operations.
var (
	tracer = otel.Tracer("pytifex.pipeline")
	meter  = otel.Meter("pytifex.pipeline")
)

// Metrics for pipeline operations.
var (
	attemptLatency    metric.Float64Histogram
	attemptsTotal     metric.Int64Counter
	candidatesTotal   metric.Int64Counter
	disagreementsSeen metric.Int64Counter
	generatorFailures metric.Int64Counter
	refinementsTotal  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		attemptLatency, err = meter.Float64Histogram(
			"pipeline_attempt_duration_seconds",
			metric.WithDescription("Duration of one generation attempt"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		attemptsTotal, err = meter.Int64Counter(
			"pipeline_attempts_total",
			metric.WithDescription("Total number of generation attempts"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		candidatesTotal, err = meter.Int64Counter(
			"pipeline_candidates_total",
			metric.WithDescription("Total number of candidates classified"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		disagreementsSeen, err = meter.Int64Counter(
			"pipeline_disagreements_total",
			metric.WithDescription("Total number of confirmed disagreements"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		generatorFailures, err = meter.Int64Counter(
			"pipeline_generator_failures_total",
			metric.WithDescription("Total number of failed or empty generator calls"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		refinementsTotal, err = meter.Int64Counter(
			"pipeline_refinement_episodes_total",
			metric.WithDescription("Total number of refinement episodes by terminal phase"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startAttemptSpan creates a span for one generation attempt.
func startAttemptSpan(ctx context.Context, attempt, budget int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "GenerationLoop.Attempt",
		trace.WithAttributes(
			attribute.Int("pipeline.attempt", attempt),
			attribute.Int("pipeline.max_attempts", budget),
		),
	)
}

// recordAttempt records the metrics for one completed attempt.
func recordAttempt(ctx context.Context, duration time.Duration, candidates, disagreements int, failed bool) {
	if initMetrics() != nil {
		return
	}
	attemptLatency.Record(ctx, duration.Seconds())
	attemptsTotal.Add(ctx, 1)
	candidatesTotal.Add(ctx, int64(candidates))
	disagreementsSeen.Add(ctx, int64(disagreements))
	if failed {
		generatorFailures.Add(ctx, 1)
	}
}

// recordRefinement records the terminal phase of a refinement episode.
func recordRefinement(ctx context.Context, phase RefinementPhase) {
	if initMetrics() != nil {
		return
	}
	refinementsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("pipeline.phase", phase.String())),
	)
}
