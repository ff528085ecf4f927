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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	model          string
	numExamples    int
	batchSize      int
	maxAttempts    int
	maxRefinements int
	noSeeds        bool
	evalMethod     string
	outputDir      string
	configPath     string
	logDir         string
	verbose        bool

	rootCmd = &cobra.Command{
		Use:   "pytifex",
		Short: "A pipeline that hunts for disagreements between Python type checkers",
		Long: `Pytifex generates Python snippets seeded from real type checker bug
reports, runs mypy, pyrefly, zuban, and ty on each one, keeps the
snippets the checkers disagree about, and judges which checker was
right.`,
	}

	fullCmd = &cobra.Command{
		Use:   "full",
		Short: "Run the full pipeline: generate, filter, and evaluate",
		Run:   runFull, // Defined in cmd_full.go
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate examples until the disagreement target is met",
		Run:   runGenerate, // Defined in cmd_generate.go
	}

	checkCmd = &cobra.Command{
		Use:   "check [run_dir]",
		Short: "Re-run the type checkers on an existing run's source files",
		Args:  cobra.MaximumNArgs(1),
		Run:   runCheck, // Defined in cmd_check.go
	}

	evalCmd = &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the latest run's disagreements",
		Run:   runEval, // Defined in cmd_eval.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model to use (default from OPENAI_MODEL)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "generated_examples", "Base directory for run artifacts")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pytifex.yaml", "Path to the optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for JSON log files (disabled when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(evalCmd)

	for _, cmd := range []*cobra.Command{fullCmd, generateCmd} {
		cmd.Flags().IntVar(&numExamples, "num-examples", 5, "Target number of disagreement examples")
		cmd.Flags().IntVar(&batchSize, "batch-size", 15, "Examples to generate per batch")
		cmd.Flags().IntVar(&maxAttempts, "max-attempts", 5, "Maximum generation attempts")
		cmd.Flags().IntVar(&maxRefinements, "max-refinements", 2, "Max refinement rounds per non-divergent example")
		cmd.Flags().BoolVar(&noSeeds, "no-seeds", false, "Skip fetching seeds from GitHub issues")
	}
	for _, cmd := range []*cobra.Command{fullCmd, evalCmd} {
		cmd.Flags().StringVar(&evalMethod, "eval-method", "consensus",
			"Evaluation method: consensus, multi_step, runtime, or all")
	}
}
