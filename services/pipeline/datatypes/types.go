// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the shared domain types for the Pytifex
// pipeline: seeds harvested from issue trackers, generated candidates,
// type-checker results, and evaluation verdicts.
package datatypes

// =============================================================================
// Seeds
// =============================================================================

// Seed is a real historical bug example used as generation inspiration.
// Seeds are produced once per run by the seed fetcher and consumed
// read-only by generation prompts; they are never tested directly.
type Seed struct {
	// PatternName identifies the divergence pattern or checker the seed
	// was harvested for (e.g., "mypy", "typed-dict-total").
	PatternName string

	// Source is the Python code extracted from the bug report.
	Source string

	// Provenance of the seed. Repo and IssueNumber are empty/zero for
	// pattern-based seeds that have no backing issue.
	Repo        string
	IssueNumber int
	IssueTitle  string
	IssueURL    string
	Labels      []string

	// FalsePositive marks a report of a checker flagging correct code.
	FalsePositive bool

	// FalseNegative marks a report of a checker missing a real error.
	FalseNegative bool
}

// =============================================================================
// Candidates
// =============================================================================

// Origin records how a candidate came to exist.
type Origin int

const (
	// OriginFresh marks a candidate produced by a batch generation call.
	OriginFresh Origin = iota

	// OriginRefined marks a candidate produced by the refinement
	// controller from an agreement-only ancestor.
	OriginRefined
)

// String returns "fresh" or "refined".
func (o Origin) String() string {
	switch o {
	case OriginFresh:
		return "fresh"
	case OriginRefined:
		return "refined"
	default:
		return "unknown"
	}
}

// Candidate is one generated code snippet under test.
type Candidate struct {
	// Slug is the kebab-case identifier from the generator. Unique
	// within a run; the store deduplicates collisions deterministically.
	Slug string

	// Source is the Python source text of the snippet.
	Source string

	// Metadata is the raw comment header the generator emitted
	// alongside the code (category, seed reference, notes).
	Metadata string

	// Category is the divergence pattern category, when parseable.
	Category string

	// SeedIssue is the issue URL or repo#number reference the candidate
	// was derived from, when present in the metadata.
	SeedIssue string

	// Origin is fresh for batch output, refined for refinement output.
	Origin Origin

	// RefinementCount is the number of refinement rounds applied.
	// Always 0 for fresh candidates and never exceeds the configured
	// refinement bound.
	RefinementCount int
}

// Tag classifies a candidate's terminal disposition. Tags are
// structured values; rendering to text happens only at the reporting
// boundary.
type Tag int

const (
	// TagAgreement marks a candidate all checkers agreed on.
	TagAgreement Tag = iota

	// TagDisagreement marks a confirmed disagreement from batch output.
	TagDisagreement

	// TagDisagreementRefined marks a disagreement reached via refinement.
	TagDisagreementRefined
)

// String renders the tag the way run logs display it.
func (t Tag) String() string {
	switch t {
	case TagAgreement:
		return "AGREEMENT"
	case TagDisagreement:
		return "DISAGREEMENT"
	case TagDisagreementRefined:
		return "DISAGREEMENT (refined)"
	default:
		return "UNKNOWN"
	}
}

// =============================================================================
// Checker results
// =============================================================================

// CheckerStatus is the coarse outcome of one tool invocation.
type CheckerStatus string

const (
	// StatusOK means the tool ran and reported no type errors.
	StatusOK CheckerStatus = "ok"

	// StatusError means the tool ran and reported type errors.
	StatusError CheckerStatus = "error"

	// StatusCrash means the tool failed to produce a usable status:
	// timeout, missing binary, or an unexpected exit code. Crashes are
	// excluded from agreement/disagreement comparison.
	StatusCrash CheckerStatus = "crash"
)

// CheckerResult is the outcome of running one tool on one candidate.
// Immutable once produced; re-running a candidate produces a new set.
type CheckerResult struct {
	Tool      string        `json:"tool"`
	Status    CheckerStatus `json:"status"`
	RawOutput string        `json:"raw_output"`
}

// =============================================================================
// Evaluation
// =============================================================================

// Verdict is an evaluator's judgment of one tool's output on one
// candidate.
type Verdict string

const (
	VerdictCorrect   Verdict = "CORRECT"
	VerdictIncorrect Verdict = "INCORRECT"
	VerdictPartial   Verdict = "PARTIAL"
	VerdictUncertain Verdict = "UNCERTAIN"
)

// EvaluationRecord is one (candidate, tool, method) judgment.
// Accuracy and Confidence are populated only by the methods that emit
// them.
type EvaluationRecord struct {
	CandidateSlug string  `json:"-"`
	Tool          string  `json:"-"`
	Verdict       Verdict `json:"verdict"`
	Reason        string  `json:"reason"`
	Method        string  `json:"method"`
	Accuracy      string  `json:"accuracy,omitempty"`
	Confidence    string  `json:"confidence,omitempty"`
}
