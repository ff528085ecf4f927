// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package evaluator judges which type checker was right about each
// confirmed disagreement.
//
// Three LLM-backed methods are available: consensus (majority position
// among the four outputs), multi_step (independent analysis followed by
// per-tool comparison), and runtime (would the code actually fail when
// run). Model failures never abort an evaluation run; they yield
// UNCERTAIN records.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/pytifex/services/llm"
	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// Method selects the evaluation strategy.
type Method string

const (
	MethodConsensus Method = "consensus"
	MethodMultiStep Method = "multi_step"
	MethodRuntime   Method = "runtime"

	// MethodAll runs every method and pools the records.
	MethodAll Method = "all"
)

// Valid reports whether the method name is recognized.
func (m Method) Valid() bool {
	switch m {
	case MethodConsensus, MethodMultiStep, MethodRuntime, MethodAll:
		return true
	}
	return false
}

// Evaluator runs verdict analysis through a model client.
//
// Thread Safety: Safe for concurrent use if the underlying client is.
type Evaluator struct {
	client llm.Client
}

// NewEvaluator creates an evaluator over the given client.
func NewEvaluator(client llm.Client) *Evaluator {
	return &Evaluator{client: client}
}

// ConsensusEvaluate judges all tools in one call from the majority
// position. A failed or unparseable response yields an UNCERTAIN
// record per tool.
func (e *Evaluator) ConsensusEvaluate(ctx context.Context, sourceCode string, outputs map[string]string) map[string][]datatypes.EvaluationRecord {
	response, err := e.client.Generate(ctx, buildConsensusPrompt(sourceCode, outputs), llm.GenerationParams{})
	if err != nil {
		slog.Warn("Consensus evaluation call failed", slog.String("error", err.Error()))
		return uncertainForAll(outputs, "Consensus analysis failed", string(MethodConsensus))
	}

	records := parseConsensusResponse(response, outputs)
	if len(records) == 0 {
		slog.Warn("Consensus response yielded no parseable tool verdicts")
		return uncertainForAll(outputs, "Could not parse consensus response", string(MethodConsensus))
	}
	return records
}

// MultiStepEvaluate analyzes the code independently, then judges one
// tool's output against that analysis.
func (e *Evaluator) MultiStepEvaluate(ctx context.Context, sourceCode, tool, toolOutput string) datatypes.EvaluationRecord {
	record := datatypes.EvaluationRecord{
		Tool:    tool,
		Method:  string(MethodMultiStep),
		Verdict: datatypes.VerdictUncertain,
	}

	analysis, err := e.client.Generate(ctx, buildAnalyzePrompt(sourceCode), llm.GenerationParams{})
	if err != nil {
		record.Reason = "Failed to analyze code"
		return record
	}

	comparison, err := e.client.Generate(ctx, buildComparePrompt(analysis, tool, toolOutput), llm.GenerationParams{})
	if err != nil {
		record.Reason = "Failed comparison step"
		return record
	}

	record.Reason = "Could not parse"
	for _, line := range strings.Split(comparison, "\n") {
		switch {
		case strings.HasPrefix(line, "VERDICT:"):
			record.Verdict = parseVerdict(strings.TrimSpace(strings.TrimPrefix(line, "VERDICT:")))
		case strings.HasPrefix(line, "REASON:"):
			record.Reason = strings.TrimSpace(strings.TrimPrefix(line, "REASON:"))
		case strings.HasPrefix(line, "ACCURACY:"):
			record.Accuracy = strings.TrimSpace(strings.TrimPrefix(line, "ACCURACY:"))
		}
	}
	return record
}

// RuntimeEvaluate asks whether the code would fail at runtime and
// derives the verdict from whether the tool flagged it.
func (e *Evaluator) RuntimeEvaluate(ctx context.Context, sourceCode, tool, toolOutput string) datatypes.EvaluationRecord {
	record := datatypes.EvaluationRecord{
		Tool:    tool,
		Method:  string(MethodRuntime),
		Verdict: datatypes.VerdictUncertain,
	}

	response, err := e.client.Generate(ctx, buildRuntimePrompt(sourceCode), llm.GenerationParams{})
	if err != nil {
		record.Reason = "Runtime analysis failed"
		return record
	}

	var hasRuntimeError, shouldBeCaught bool
	var explanation string
	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "RUNTIME_ERRORS:"):
			hasRuntimeError = strings.Contains(line, "YES")
		case strings.HasPrefix(line, "SHOULD_BE_CAUGHT:"):
			shouldBeCaught = strings.Contains(line, "YES")
		case strings.HasPrefix(line, "EXPLANATION:"):
			explanation = strings.TrimSpace(strings.TrimPrefix(line, "EXPLANATION:"))
		}
	}

	toolReportedError := !toolReportedSuccess(toolOutput)
	switch {
	case hasRuntimeError && shouldBeCaught:
		record.Verdict = verdictIf(toolReportedError)
		record.Reason = fmt.Sprintf("Code would fail at runtime. %s", explanation)
	case !hasRuntimeError:
		record.Verdict = verdictIf(!toolReportedError)
		record.Reason = fmt.Sprintf("Code is runtime-safe. %s", explanation)
	default:
		record.Verdict = datatypes.VerdictUncertain
		record.Reason = explanation
	}
	return record
}

// parseConsensusResponse walks the TOOL:/LIKELY_CORRECT:/REASON:/
// CONFIDENCE: line blocks of a consensus reply. Tool names are matched
// case-insensitively against the known output set.
func parseConsensusResponse(response string, outputs map[string]string) map[string][]datatypes.EvaluationRecord {
	records := make(map[string][]datatypes.EvaluationRecord)
	var current *datatypes.EvaluationRecord
	var currentTool string

	flush := func() {
		if current != nil && currentTool != "" {
			records[currentTool] = append(records[currentTool], *current)
		}
		current = nil
		currentTool = ""
	}

	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "TOOL:"):
			flush()
			name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "TOOL:")))
			for known := range outputs {
				if strings.ToLower(known) == name {
					currentTool = known
					break
				}
			}
			if currentTool != "" {
				current = &datatypes.EvaluationRecord{
					Tool:    currentTool,
					Method:  string(MethodConsensus),
					Verdict: datatypes.VerdictUncertain,
				}
			}
		case current != nil && strings.HasPrefix(line, "LIKELY_CORRECT:"):
			current.Verdict = parseLikelyCorrect(strings.TrimSpace(strings.TrimPrefix(line, "LIKELY_CORRECT:")))
		case current != nil && strings.HasPrefix(line, "REASON:"):
			current.Reason = strings.TrimSpace(strings.TrimPrefix(line, "REASON:"))
		case current != nil && strings.HasPrefix(line, "CONFIDENCE:"):
			current.Confidence = strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:"))
		}
	}
	flush()
	return records
}

// parseVerdict normalizes a VERDICT: value. INCORRECT is checked
// before CORRECT because one contains the other.
func parseVerdict(value string) datatypes.Verdict {
	upper := strings.ToUpper(value)
	switch {
	case strings.Contains(upper, "INCORRECT"):
		return datatypes.VerdictIncorrect
	case strings.Contains(upper, "PARTIAL"):
		return datatypes.VerdictPartial
	case strings.Contains(upper, "CORRECT"):
		return datatypes.VerdictCorrect
	default:
		return datatypes.VerdictUncertain
	}
}

// parseLikelyCorrect maps a YES/NO/UNCERTAIN consensus answer to a
// verdict.
func parseLikelyCorrect(value string) datatypes.Verdict {
	switch strings.ToUpper(value) {
	case "YES":
		return datatypes.VerdictCorrect
	case "NO":
		return datatypes.VerdictIncorrect
	default:
		return datatypes.VerdictUncertain
	}
}

// toolReportedSuccess reports whether the output looks like a clean
// pass.
func toolReportedSuccess(output string) bool {
	lower := strings.ToLower(output)
	for _, indicator := range []string{"success", "no issues", "no errors found"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// verdictIf maps a boolean correctness decision to a verdict.
func verdictIf(correct bool) datatypes.Verdict {
	if correct {
		return datatypes.VerdictCorrect
	}
	return datatypes.VerdictIncorrect
}

// uncertainForAll builds one UNCERTAIN record per tool.
func uncertainForAll(outputs map[string]string, reason, method string) map[string][]datatypes.EvaluationRecord {
	records := make(map[string][]datatypes.EvaluationRecord, len(outputs))
	for tool := range outputs {
		records[tool] = []datatypes.EvaluationRecord{{
			Tool:    tool,
			Method:  method,
			Verdict: datatypes.VerdictUncertain,
			Reason:  reason,
		}}
	}
	return records
}
