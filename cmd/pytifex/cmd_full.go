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
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/pytifex/services/pipeline"
)

func runFull(cmd *cobra.Command, args []string) {
	logger := setupLogging()
	defer func() { _ = logger.Close() }()

	runDir, found, err := executeGeneration(cmd.Context())
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
	if found == 0 {
		fmt.Println("No disagreements found. Try increasing --max-attempts or --batch-size")
		return
	}

	resultsPath := filepath.Join(runDir, pipeline.ResultsFileName)
	evalPath, err := executeEvaluation(cmd.Context(), resultsPath)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	fmt.Println("Pipeline complete")
	fmt.Printf("Disagreements found: %d\n", found)
	fmt.Printf("Output directory: %s\n", runDir)
	fmt.Printf("Evaluation: %s\n", evalPath)
}
