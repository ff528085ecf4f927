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
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/pytifex/services/checkers"
	"github.com/AleutianAI/pytifex/services/pipeline"
	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// recheckRun re-runs the checkers against every source file of an
// existing run directory and rewrites its results.json.
func recheckRun(ctx context.Context, runner *checkers.Runner, runDir string) (string, error) {
	files, err := pipeline.ListSourceFiles(runDir)
	if err != nil {
		return "", err
	}

	report := datatypes.RunReport{
		Timestamp:    filepath.Base(runDir),
		CheckersUsed: runner.Tools(),
	}

	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}

		results, err := runner.Run(ctx, string(source))
		if err != nil {
			return "", err
		}

		outputs := make(map[string]string, len(results))
		statuses := make(map[string]datatypes.CheckerStatus, len(results))
		for tool, result := range results {
			outputs[tool] = result.RawOutput
			statuses[tool] = result.Status
		}
		report.Results = append(report.Results, datatypes.CandidateReport{
			Filename: filepath.Base(path),
			Filepath: path,
			Outputs:  outputs,
			Statuses: statuses,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	resultsPath := filepath.Join(runDir, pipeline.ResultsFileName)
	if err := os.WriteFile(resultsPath, data, 0640); err != nil {
		return "", fmt.Errorf("writing %s: %w", resultsPath, err)
	}
	return resultsPath, nil
}

func runCheck(cmd *cobra.Command, args []string) {
	logger := setupLogging()
	defer func() { _ = logger.Close() }()

	runDir := ""
	if len(args) > 0 {
		runDir = args[0]
	} else {
		var err error
		runDir, err = pipeline.LatestRunDir(outputDir)
		if err != nil {
			log.Fatalf("No run to check: %v", err)
		}
	}

	runner, err := buildRunner()
	if err != nil {
		log.Fatalf("Invalid checker config: %v", err)
	}

	resultsPath, err := recheckRun(cmd.Context(), runner, runDir)
	if err != nil {
		log.Fatalf("Check failed: %v", err)
	}
	fmt.Printf("Results saved to: %s\n", resultsPath)
}
