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
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

func writeTestRun(t *testing.T) string {
	t.Helper()
	runDir := t.TempDir()
	sourceDir := filepath.Join(runDir, "source_files")
	if err := os.MkdirAll(sourceDir, 0750); err != nil {
		t.Fatal(err)
	}

	sourcePath := filepath.Join(sourceDir, "protocol-defaults.py")
	if err := os.WriteFile(sourcePath, []byte("x: int = 1\n"), 0640); err != nil {
		t.Fatal(err)
	}

	report := datatypes.RunReport{
		Timestamp:          "2026-01-27T19:33:16Z",
		ModelUsed:          "fake-model",
		TotalGenerated:     3,
		DisagreementsFound: 2,
		SuccessRate:        "66.7%",
		CheckersUsed:       []string{"mypy", "pyrefly", "zuban", "ty"},
		Results: []datatypes.CandidateReport{
			{
				Filename: "protocol-defaults.py",
				Filepath: sourcePath,
				Outputs:  sampleOutputs(),
			},
			{
				Filename: "vanished.py",
				Filepath: filepath.Join(sourceDir, "vanished.py"),
				Outputs:  sampleOutputs(),
			},
		},
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	resultsPath := filepath.Join(runDir, "results.json")
	if err := os.WriteFile(resultsPath, data, 0640); err != nil {
		t.Fatal(err)
	}
	return resultsPath
}

func TestEvaluateRunConsensus(t *testing.T) {
	resultsPath := writeTestRun(t)

	client := &scriptedClient{responses: []string{
		`TOOL: mypy
LIKELY_CORRECT: YES
REASON: Valid code.
CONFIDENCE: HIGH

TOOL: zuban
LIKELY_CORRECT: NO
REASON: Spurious error.
CONFIDENCE: HIGH
`,
	}}
	aggregator := NewAggregator(NewEvaluator(client))

	outPath, err := aggregator.EvaluateRun(context.Background(), resultsPath, MethodConsensus)
	if err != nil {
		t.Fatalf("EvaluateRun returned error: %v", err)
	}
	if filepath.Base(outPath) != "evaluation_consensus.json" {
		t.Errorf("artifact = %q, want evaluation_consensus.json", outPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	var evaluation datatypes.EvaluationReport
	if err := json.Unmarshal(data, &evaluation); err != nil {
		t.Fatalf("decoding artifact: %v", err)
	}

	if evaluation.Method != "consensus" {
		t.Errorf("Method = %q", evaluation.Method)
	}
	// The missing source file is skipped; one candidate evaluated.
	if len(evaluation.Evaluations) != 1 {
		t.Fatalf("got %d evaluations, want 1", len(evaluation.Evaluations))
	}

	if got := evaluation.Summary["mypy"]; got.Correct != 1 || got.Total != 1 {
		t.Errorf("mypy tally = %+v", got)
	}
	if got := evaluation.Summary["zuban"]; got.Incorrect != 1 {
		t.Errorf("zuban tally = %+v", got)
	}
	// Tools absent from the response still appear with an empty tally.
	if _, ok := evaluation.Summary["ty"]; !ok {
		t.Error("ty missing from summary")
	}
}

func TestEvaluateRunUnknownMethod(t *testing.T) {
	aggregator := NewAggregator(NewEvaluator(&scriptedClient{}))

	if _, err := aggregator.EvaluateRun(context.Background(), "results.json", Method("vibes")); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", err)
	}
}

func TestEvaluateRunMissingResults(t *testing.T) {
	aggregator := NewAggregator(NewEvaluator(&scriptedClient{}))

	path := filepath.Join(t.TempDir(), "results.json")
	if _, err := aggregator.EvaluateRun(context.Background(), path, MethodConsensus); err == nil {
		t.Error("expected error for missing results file")
	}
}

func TestTallyVerdict(t *testing.T) {
	tally := &datatypes.ToolTally{}

	tallyVerdict(tally, datatypes.VerdictCorrect)
	tallyVerdict(tally, datatypes.VerdictPartial)
	tallyVerdict(tally, datatypes.VerdictIncorrect)
	tallyVerdict(tally, datatypes.VerdictUncertain)

	// PARTIAL lands in the correct bucket.
	if tally.Correct != 2 {
		t.Errorf("Correct = %d, want 2", tally.Correct)
	}
	if tally.Incorrect != 1 || tally.Uncertain != 1 || tally.Total != 4 {
		t.Errorf("tally = %+v", tally)
	}
	if got := tally.Accuracy(); got != 50.0 {
		t.Errorf("Accuracy = %v, want 50", got)
	}
}

func TestToolTallyAccuracyEmpty(t *testing.T) {
	tally := &datatypes.ToolTally{}
	if got := tally.Accuracy(); got != 0 {
		t.Errorf("Accuracy of empty tally = %v, want 0", got)
	}
}
