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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/pytifex/services/checkers"
	"github.com/AleutianAI/pytifex/services/generator"
	"github.com/AleutianAI/pytifex/services/llm"
	"github.com/AleutianAI/pytifex/services/pipeline"
	"github.com/AleutianAI/pytifex/services/seeds"
)

// buildRunner constructs the checker runner from the config file.
func buildRunner() (*checkers.Runner, error) {
	tools, err := loadToolConfig(configPath)
	if err != nil {
		return nil, err
	}
	return checkers.NewRunner(checkers.WithTools(tools)), nil
}

// buildClient constructs the model client. A missing API key is fatal
// before any work starts.
func buildClient() (llm.Client, error) {
	return llm.NewOpenAIClient(llm.WithModel(model))
}

// executeGeneration runs the generation loop and writes the run
// artifacts. Returns the run directory and the disagreement count.
func executeGeneration(ctx context.Context) (string, int, error) {
	client, err := buildClient()
	if err != nil {
		return "", 0, err
	}
	runner, err := buildRunner()
	if err != nil {
		return "", 0, err
	}

	var seedSource pipeline.SeedSource
	if !noSeeds {
		seedSource = seeds.NewGitHubSource()
	}

	loop := pipeline.NewGenerationLoop(seedSource, generator.NewLLMGenerator(client), runner)
	state, err := loop.Run(ctx, pipeline.Config{
		TargetCount:    numExamples,
		BatchSize:      batchSize,
		MaxAttempts:    maxAttempts,
		MaxRefinements: maxRefinements,
		UseSeeds:       !noSeeds,
		Model:          client.Model(),
	})
	if err != nil {
		return "", 0, err
	}

	writer := pipeline.NewArtifactWriter(outputDir)
	runDir, err := writer.WriteRunReport(state, client.Model(), runner.Tools())
	if err != nil {
		return "", 0, err
	}
	return runDir, state.Store.DisagreementCount(), nil
}

func runGenerate(cmd *cobra.Command, args []string) {
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
	fmt.Printf("%d disagreements saved to: %s\n", found, runDir)
}
