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

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// Package-level meter for checker operations.
var meter = otel.Meter("pytifex.checkers")

// Metrics for checker operations.
var (
	checkerLatency metric.Float64Histogram
	checkerRuns    metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		checkerLatency, err = meter.Float64Histogram(
			"checker_duration_seconds",
			metric.WithDescription("Duration of one type checker invocation"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		checkerRuns, err = meter.Int64Counter(
			"checker_runs_total",
			metric.WithDescription("Total type checker invocations by tool and status"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordCheckerRun records one tool invocation.
func recordCheckerRun(ctx context.Context, tool string, status datatypes.CheckerStatus, duration time.Duration) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("checker.tool", tool),
		attribute.String("checker.status", string(status)),
	)
	checkerLatency.Record(ctx, duration.Seconds(), attrs)
	checkerRuns.Add(ctx, 1, attrs)
}
