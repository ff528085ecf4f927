// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/pytifex/services/evaluator"
	"github.com/AleutianAI/pytifex/services/pipeline"
)

// executeEvaluation evaluates the results file with the selected
// method and returns the evaluation artifact path.
func executeEvaluation(ctx context.Context, resultsPath string) (string, error) {
	client, err := buildClient()
	if err != nil {
		return "", err
	}
	aggregator := evaluator.NewAggregator(evaluator.NewEvaluator(client))
	return aggregator.EvaluateRun(ctx, resultsPath, evaluator.Method(evalMethod))
}

func runEval(cmd *cobra.Command, args []string) {
	logger := setupLogging()
	defer func() { _ = logger.Close() }()

	runDir, err := pipeline.LatestRunDir(outputDir)
	if err != nil {
		log.Fatalf("No run to evaluate: %v", err)
	}
	resultsPath := filepath.Join(runDir, pipeline.ResultsFileName)

	evalPath, err := executeEvaluation(cmd.Context(), resultsPath)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	fmt.Printf("Evaluation saved to: %s\n", evalPath)
}
