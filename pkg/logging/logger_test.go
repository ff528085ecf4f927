// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestNewWritesFileLog(t *testing.T) {
	logDir := t.TempDir()
	logger := New(Config{
		Level:   LevelDebug,
		LogDir:  logDir,
		Service: "pytifex-test",
		Quiet:   true,
	})

	logger.Slog().Info("hello", "key", "value")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	filename := "pytifex-test_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log entry is not JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
	if entry["service"] != "pytifex-test" {
		t.Errorf("service = %v", entry["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	logDir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  logDir,
		Service: "filter-test",
		Quiet:   true,
	})

	logger.Slog().Info("dropped")
	logger.Slog().Warn("kept")
	_ = logger.Close()

	filename := "filter-test_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("Info entry written despite Warn level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("Warn entry missing")
	}
}

func TestCloseWithoutFile(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Errorf("Close without file returned error: %v", err)
	}
	// Close is idempotent.
	if err := logger.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}

func TestWithSharesFile(t *testing.T) {
	logDir := t.TempDir()
	logger := New(Config{
		LogDir:  logDir,
		Service: "with-test",
		Quiet:   true,
	})
	defer func() { _ = logger.Close() }()

	child := logger.With("component", "loop")
	child.Slog().Info("from child")

	filename := "with-test_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "component") {
		t.Error("child attribute missing from file log")
	}
}
