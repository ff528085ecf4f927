// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checkers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// ErrInvalidInput indicates a nil context or empty source.
var ErrInvalidInput = errors.New("invalid input")

// Runner executes the configured type checkers against candidate
// source text. It implements the pipeline's CheckerRunner capability.
//
// Thread Safety: Safe for concurrent use.
type Runner struct {
	tools      []ToolConfig
	workingDir string
	mu         sync.Mutex
	seq        int
}

// Option configures the Runner.
type Option func(*Runner)

// WithWorkingDir sets the directory temp files are written to and
// checkers run in. Defaults to the process working directory; zuban
// rejects files under /tmp, so the system temp dir is deliberately
// not used.
func WithWorkingDir(dir string) Option {
	return func(r *Runner) {
		r.workingDir = dir
	}
}

// WithTools overrides the default four-tool configuration. Intended
// for tests and for command overrides from the CLI config file; the
// logical tool set of a production run stays fixed.
func WithTools(tools []ToolConfig) Option {
	return func(r *Runner) {
		r.tools = tools
	}
}

// NewRunner creates a runner with the default tool set.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{tools: DefaultTools()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tools returns the configured tool names in configuration order.
func (r *Runner) Tools() []string {
	names := make([]string, len(r.tools))
	for i, tool := range r.tools {
		names[i] = tool.Name
	}
	return names
}

// Run executes every configured tool against the source text.
//
// The four tools run in parallel; each has an enforced timeout and an
// independent temp file is shared read-only between them. The result
// map is assembled only after all tools have returned, so callers never
// observe partial collection. Per-tool failures are reported as
// StatusCrash results; the error return is reserved for setup failures
// and context cancellation.
func (r *Runner) Run(ctx context.Context, source string) (map[string]datatypes.CheckerResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: source must not be empty", ErrInvalidInput)
	}

	path, cleanup, err := r.writeTempSource(source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	results := make([]datatypes.CheckerResult, len(r.tools))
	g, gctx := errgroup.WithContext(ctx)
	for i, tool := range r.tools {
		g.Go(func() error {
			results[i] = r.runTool(gctx, tool, path)
			return nil
		})
	}
	// Workers never return errors; Wait only propagates ctx problems.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collected := make(map[string]datatypes.CheckerResult, len(results))
	for _, result := range results {
		collected[result.Tool] = result
	}
	return collected, nil
}

// runTool executes a single checker and maps its outcome to a status.
func (r *Runner) runTool(ctx context.Context, tool ToolConfig, path string) datatypes.CheckerResult {
	start := time.Now()
	result := datatypes.CheckerResult{Tool: tool.Name}

	timeout := tool.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := make([]string, 0, len(tool.Args)+1)
	args = append(args, tool.Args...)
	args = append(args, path)

	cmd := exec.CommandContext(cmdCtx, tool.Command, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := combineOutput(stdout.String(), stderr.String())

	switch {
	case cmdCtx.Err() == context.DeadlineExceeded:
		result.Status = datatypes.StatusCrash
		result.RawOutput = fmt.Sprintf("Timeout after %s", timeout)
	case err == nil:
		result.Status = statusFromOutput(output)
		result.RawOutput = output
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Status = statusFromExit(exitErr.ExitCode())
			result.RawOutput = output
		} else {
			// LookPath failure or another start-up problem.
			result.Status = datatypes.StatusCrash
			result.RawOutput = err.Error()
		}
	}

	recordCheckerRun(ctx, tool.Name, result.Status, time.Since(start))
	slog.Debug("Checker finished",
		slog.String("tool", tool.Name),
		slog.String("status", string(result.Status)),
		slog.Duration("duration", time.Since(start)),
	)
	return result
}

// writeTempSource writes the candidate to a uniquely named file in the
// working directory and returns its path with a cleanup func.
func (r *Runner) writeTempSource(source string) (string, func(), error) {
	dir := r.workingDir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("resolving working directory: %w", err)
		}
	}

	r.mu.Lock()
	r.seq++
	name := fmt.Sprintf("_pytifex_tmp_%d_%d.py", os.Getpid(), r.seq)
	r.mu.Unlock()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0640); err != nil {
		return "", nil, fmt.Errorf("writing temp source: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// statusFromExit maps a non-zero exit code to a status. Type checkers
// exit 1 when they report diagnostics; anything else is an unexpected
// exit and counts as a crash.
func statusFromExit(code int) datatypes.CheckerStatus {
	if code == 1 {
		return datatypes.StatusError
	}
	return datatypes.StatusCrash
}

// statusFromOutput downgrades a zero-exit run to error when the tool
// still reported errors in its output. Some checkers exit 0 regardless.
func statusFromOutput(output string) datatypes.CheckerStatus {
	lower := strings.ToLower(output)
	if strings.Contains(lower, "error") && !strings.Contains(lower, "0 error") {
		return datatypes.StatusError
	}
	return datatypes.StatusOK
}

// combineOutput joins stdout and stderr the way run reports expect.
func combineOutput(stdout, stderr string) string {
	out := strings.TrimSpace(stdout)
	errOut := strings.TrimSpace(stderr)
	switch {
	case out == "" && errOut == "":
		return "Success (No Output)"
	case errOut == "":
		return out
	case out == "":
		return errOut
	default:
		return out + "\n[STDERR]\n" + errOut
	}
}
