// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// ErrUnknownMethod indicates an unrecognized evaluation method name.
var ErrUnknownMethod = errors.New("unknown evaluation method")

// Aggregator fans a run's disagreements across the selected evaluation
// method(s) and tools, tallies verdicts per tool, and writes the
// evaluation_<method>.json artifact next to results.json.
type Aggregator struct {
	evaluator *Evaluator
}

// NewAggregator creates an aggregator over the given evaluator.
func NewAggregator(evaluator *Evaluator) *Aggregator {
	return &Aggregator{evaluator: evaluator}
}

// EvaluateRun evaluates every disagreement recorded in the results
// file and returns the path of the written evaluation artifact.
//
// Missing source files are skipped with a warning; per-candidate model
// failures are recorded as UNCERTAIN. Only context cancellation and
// I/O problems on the artifacts themselves fail the run.
func (a *Aggregator) EvaluateRun(ctx context.Context, resultsPath string, method Method) (string, error) {
	if !method.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}

	report, err := loadRunReport(resultsPath)
	if err != nil {
		return "", err
	}

	slog.Info("Evaluating run",
		slog.String("method", string(method)),
		slog.Int("candidates", len(report.Results)),
	)

	evaluation := datatypes.EvaluationReport{
		Method:  string(method),
		Summary: make(map[string]*datatypes.ToolTally),
	}
	for _, tool := range report.CheckersUsed {
		evaluation.Summary[tool] = &datatypes.ToolTally{}
	}

	for _, entry := range report.Results {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		source, err := os.ReadFile(entry.Filepath)
		if err != nil {
			slog.Warn("Source file not found, skipping",
				slog.String("filepath", entry.Filepath),
			)
			continue
		}

		candEval := a.evaluateCandidate(ctx, string(source), entry, method)
		evaluation.Evaluations = append(evaluation.Evaluations, candEval)

		for tool, records := range candEval.Evaluations {
			tally, ok := evaluation.Summary[tool]
			if !ok {
				tally = &datatypes.ToolTally{}
				evaluation.Summary[tool] = tally
			}
			for _, record := range records {
				tallyVerdict(tally, record.Verdict)
			}
		}
	}

	outPath := filepath.Join(filepath.Dir(resultsPath), fmt.Sprintf("evaluation_%s.json", method))
	data, err := json.MarshalIndent(evaluation, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding evaluation: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0640); err != nil {
		return "", fmt.Errorf("writing evaluation: %w", err)
	}

	logSummary(evaluation.Summary)
	return outPath, nil
}

// evaluateCandidate runs the selected method(s) for one disagreement.
func (a *Aggregator) evaluateCandidate(ctx context.Context, source string, entry datatypes.CandidateReport, method Method) datatypes.CandidateEvaluation {
	candEval := datatypes.CandidateEvaluation{
		Filename:    entry.Filename,
		Filepath:    entry.Filepath,
		Evaluations: make(map[string][]datatypes.EvaluationRecord),
	}

	if method == MethodConsensus || method == MethodAll {
		for tool, records := range a.evaluator.ConsensusEvaluate(ctx, source, entry.Outputs) {
			candEval.Evaluations[tool] = append(candEval.Evaluations[tool], records...)
		}
	}

	if method == MethodMultiStep || method == MethodRuntime || method == MethodAll {
		tools := make([]string, 0, len(entry.Outputs))
		for tool := range entry.Outputs {
			tools = append(tools, tool)
		}
		sort.Strings(tools)

		for _, tool := range tools {
			output := entry.Outputs[tool]
			if method == MethodMultiStep || method == MethodAll {
				record := a.evaluator.MultiStepEvaluate(ctx, source, tool, output)
				candEval.Evaluations[tool] = append(candEval.Evaluations[tool], record)
			}
			if method == MethodRuntime || method == MethodAll {
				record := a.evaluator.RuntimeEvaluate(ctx, source, tool, output)
				candEval.Evaluations[tool] = append(candEval.Evaluations[tool], record)
			}
		}
	}
	return candEval
}

// tallyVerdict buckets one verdict. PARTIAL counts as correct.
func tallyVerdict(tally *datatypes.ToolTally, verdict datatypes.Verdict) {
	tally.Total++
	switch verdict {
	case datatypes.VerdictIncorrect:
		tally.Incorrect++
	case datatypes.VerdictCorrect, datatypes.VerdictPartial:
		tally.Correct++
	default:
		tally.Uncertain++
	}
}

// loadRunReport reads and decodes a results.json file.
func loadRunReport(path string) (*datatypes.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	var report datatypes.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return &report, nil
}

// logSummary emits the per-tool accuracy table to the log.
func logSummary(summary map[string]*datatypes.ToolTally) {
	tools := make([]string, 0, len(summary))
	for tool := range summary {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	for _, tool := range tools {
		tally := summary[tool]
		if tally.Total == 0 {
			continue
		}
		slog.Info("Tool evaluation summary",
			slog.String("tool", tool),
			slog.Int("correct", tally.Correct),
			slog.Int("incorrect", tally.Incorrect),
			slog.Int("uncertain", tally.Uncertain),
			slog.String("accuracy", fmt.Sprintf("%.1f%%", tally.Accuracy())),
		)
	}
}
