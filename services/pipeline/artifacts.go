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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AleutianAI/pytifex/pkg/validation"
	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

const (
	// ResultsFileName is the per-run results artifact.
	ResultsFileName = "results.json"

	// SourceFilesDirName holds the .py file for each disagreement.
	SourceFilesDirName = "source_files"

	// runDirLayout names run directories by wall-clock start time.
	runDirLayout = "2006-01-02_15-04-05"
)

// ArtifactWriter persists run output under a base directory, one
// timestamped subdirectory per run:
//
//	<base>/2026-01-27_19-33-16/source_files/<slug>.py
//	<base>/2026-01-27_19-33-16/results.json
type ArtifactWriter struct {
	baseDir string
}

// NewArtifactWriter creates a writer rooted at baseDir.
func NewArtifactWriter(baseDir string) *ArtifactWriter {
	return &ArtifactWriter{baseDir: baseDir}
}

// WriteRunReport writes the source files and results.json for a
// completed run and returns the run directory path.
//
// Candidates whose slug fails validation are skipped with a warning
// rather than aborting the write; slugs come from model output and are
// untrusted.
func (w *ArtifactWriter) WriteRunReport(state *RunState, model string, tools []string) (string, error) {
	runDir := filepath.Join(w.baseDir, state.StartedAt.Format(runDirLayout))
	sourceDir := filepath.Join(runDir, SourceFilesDirName)
	if err := os.MkdirAll(sourceDir, 0750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	disagreements := state.Store.Disagreements()
	report := datatypes.RunReport{
		Timestamp:          state.StartedAt.Format(time.RFC3339),
		ModelUsed:          model,
		TotalGenerated:     state.Store.FreshCount(),
		DisagreementsFound: len(disagreements),
		SuccessRate:        successRate(len(disagreements), state.Store.FreshCount()),
		CheckersUsed:       tools,
	}

	for _, entry := range disagreements {
		if err := validation.ValidateSlug(entry.Candidate.Slug); err != nil {
			slog.Warn("Skipping disagreement with unsafe slug",
				slog.String("error", err.Error()),
			)
			continue
		}

		filename := entry.Candidate.Slug + ".py"
		path := filepath.Join(sourceDir, filename)
		if err := os.WriteFile(path, []byte(entry.Candidate.Source), 0640); err != nil {
			return "", fmt.Errorf("writing %s: %w", filename, err)
		}

		outputs := make(map[string]string, len(entry.Results))
		statuses := make(map[string]datatypes.CheckerStatus, len(entry.Results))
		for tool, result := range entry.Results {
			outputs[tool] = result.RawOutput
			statuses[tool] = result.Status
		}

		report.Results = append(report.Results, datatypes.CandidateReport{
			Filename:  filename,
			Filepath:  path,
			SeedIssue: entry.Candidate.SeedIssue,
			Outputs:   outputs,
			Statuses:  statuses,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	resultsPath := filepath.Join(runDir, ResultsFileName)
	if err := os.WriteFile(resultsPath, data, 0640); err != nil {
		return "", fmt.Errorf("writing %s: %w", ResultsFileName, err)
	}

	slog.Info("Saved run artifacts",
		slog.String("dir", runDir),
		slog.Int("disagreements", len(report.Results)),
	)
	return runDir, nil
}

// successRate formats disagreements/total as a one-decimal percent
// string. A zero total yields "0.0%" rather than dividing by zero.
func successRate(disagreements, total int) string {
	if total < 1 {
		total = 1
	}
	return fmt.Sprintf("%.1f%%", float64(disagreements)/float64(total)*100)
}

// LatestRunDir returns the most recent run directory under baseDir.
// Run directory names sort lexicographically by timestamp.
func LatestRunDir(baseDir string) (string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoRuns, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoRuns, baseDir)
	}

	sort.Strings(dirs)
	return filepath.Join(baseDir, dirs[len(dirs)-1]), nil
}

// ListSourceFiles returns the .py files of a run directory in sorted
// order.
func ListSourceFiles(runDir string) ([]string, error) {
	pattern := filepath.Join(runDir, SourceFilesDirName, "*.py")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSourceFiles, runDir)
	}
	sort.Strings(files)
	return files, nil
}
