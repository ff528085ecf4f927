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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

func TestWriteRunReport(t *testing.T) {
	state := NewRunState()
	state.Store.Record(datatypes.Candidate{Slug: "agrees"}, nil, datatypes.TagAgreement)
	state.Store.Record(datatypes.Candidate{
		Slug:      "protocol-defaults",
		Source:    "class P: ...\n",
		SeedIssue: "https://github.com/python/mypy/issues/101",
	}, disagreementResults(), datatypes.TagDisagreement)

	baseDir := t.TempDir()
	writer := NewArtifactWriter(baseDir)

	runDir, err := writer.WriteRunReport(state, "gpt-4o-mini", []string{"mypy", "pyrefly", "zuban", "ty"})
	if err != nil {
		t.Fatalf("WriteRunReport returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(runDir, ResultsFileName))
	if err != nil {
		t.Fatalf("reading results.json: %v", err)
	}

	// The artifact's field names are a contract with downstream tooling;
	// decode into a raw map to pin them.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("results.json is not valid JSON: %v", err)
	}
	for _, key := range []string{
		"timestamp", "model_used", "total_generated",
		"disagreements_found", "success_rate", "checkers_used", "results",
	} {
		if _, ok := raw[key]; !ok {
			t.Errorf("results.json missing field %q", key)
		}
	}
	if raw["total_generated"] != float64(2) {
		t.Errorf("total_generated = %v, want 2", raw["total_generated"])
	}
	if raw["disagreements_found"] != float64(1) {
		t.Errorf("disagreements_found = %v, want 1", raw["disagreements_found"])
	}
	if raw["success_rate"] != "50.0%" {
		t.Errorf("success_rate = %v, want 50.0%%", raw["success_rate"])
	}

	var report datatypes.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decoding results.json: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(report.Results))
	}
	entry := report.Results[0]
	if entry.Filename != "protocol-defaults.py" {
		t.Errorf("Filename = %q, want protocol-defaults.py", entry.Filename)
	}
	if entry.SeedIssue != "https://github.com/python/mypy/issues/101" {
		t.Errorf("SeedIssue = %q", entry.SeedIssue)
	}
	if entry.Statuses["zuban"] != datatypes.StatusError {
		t.Errorf("zuban status = %v, want error", entry.Statuses["zuban"])
	}

	source, err := os.ReadFile(filepath.Join(runDir, SourceFilesDirName, "protocol-defaults.py"))
	if err != nil {
		t.Fatalf("reading source file: %v", err)
	}
	if string(source) != "class P: ...\n" {
		t.Errorf("source file content = %q", source)
	}
}

func TestWriteRunReportSkipsUnsafeSlug(t *testing.T) {
	state := NewRunState()
	state.Store.Record(datatypes.Candidate{Slug: "../escape", Source: "x = 1\n"}, disagreementResults(), datatypes.TagDisagreement)
	state.Store.Record(datatypes.Candidate{Slug: "safe", Source: "y = 2\n"}, disagreementResults(), datatypes.TagDisagreement)

	writer := NewArtifactWriter(t.TempDir())
	runDir, err := writer.WriteRunReport(state, "gpt-4o-mini", nil)
	if err != nil {
		t.Fatalf("WriteRunReport returned error: %v", err)
	}

	files, err := ListSourceFiles(runDir)
	if err != nil {
		t.Fatalf("ListSourceFiles: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "safe.py" {
		t.Errorf("source files = %v, want only safe.py", files)
	}
}

func TestSuccessRateZeroTotal(t *testing.T) {
	if got := successRate(0, 0); got != "0.0%" {
		t.Errorf("successRate(0, 0) = %q, want 0.0%%", got)
	}
	if got := successRate(3, 10); got != "30.0%" {
		t.Errorf("successRate(3, 10) = %q, want 30.0%%", got)
	}
}

func TestLatestRunDir(t *testing.T) {
	baseDir := t.TempDir()
	for _, name := range []string{"2026-01-05_10-00-00", "2026-01-27_19-33-16", "2026-01-12_08-15-30"} {
		if err := os.Mkdir(filepath.Join(baseDir, name), 0750); err != nil {
			t.Fatal(err)
		}
	}
	// Stray files are ignored.
	if err := os.WriteFile(filepath.Join(baseDir, "notes.txt"), []byte("x"), 0640); err != nil {
		t.Fatal(err)
	}

	got, err := LatestRunDir(baseDir)
	if err != nil {
		t.Fatalf("LatestRunDir returned error: %v", err)
	}
	if filepath.Base(got) != "2026-01-27_19-33-16" {
		t.Errorf("LatestRunDir = %q, want the newest timestamp", got)
	}
}

func TestLatestRunDirEmpty(t *testing.T) {
	if _, err := LatestRunDir(t.TempDir()); !errors.Is(err, ErrNoRuns) {
		t.Errorf("error = %v, want ErrNoRuns", err)
	}
	if _, err := LatestRunDir(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrNoRuns) {
		t.Errorf("error = %v, want ErrNoRuns for missing dir", err)
	}
}

func TestListSourceFiles(t *testing.T) {
	runDir := t.TempDir()
	sourceDir := filepath.Join(runDir, SourceFilesDirName)
	if err := os.MkdirAll(sourceDir, 0750); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.py", "a.py", "readme.md"} {
		if err := os.WriteFile(filepath.Join(sourceDir, name), []byte("x = 1\n"), 0640); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListSourceFiles(runDir)
	if err != nil {
		t.Fatalf("ListSourceFiles returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if filepath.Base(files[0]) != "a.py" || filepath.Base(files[1]) != "b.py" {
		t.Errorf("files not sorted: %v", files)
	}
}

func TestListSourceFilesEmpty(t *testing.T) {
	if _, err := ListSourceFiles(t.TempDir()); !errors.Is(err, ErrNoSourceFiles) {
		t.Errorf("error = %v, want ErrNoSourceFiles", err)
	}
}
