// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// RunReport is the results.json artifact written after a generation
// run. Field names are fixed; downstream tooling parses them.
type RunReport struct {
	Timestamp          string            `json:"timestamp"`
	ModelUsed          string            `json:"model_used"`
	TotalGenerated     int               `json:"total_generated"`
	DisagreementsFound int               `json:"disagreements_found"`
	SuccessRate        string            `json:"success_rate"`
	CheckersUsed       []string          `json:"checkers_used"`
	Results            []CandidateReport `json:"results"`
}

// CandidateReport is one confirmed disagreement inside a RunReport.
type CandidateReport struct {
	Filename  string                   `json:"filename"`
	Filepath  string                   `json:"filepath"`
	SeedIssue string                   `json:"seed_issue,omitempty"`
	Outputs   map[string]string        `json:"outputs"`
	Statuses  map[string]CheckerStatus `json:"statuses"`
}

// EvaluationReport is the evaluation_<method>.json artifact.
type EvaluationReport struct {
	Method      string                 `json:"method"`
	Evaluations []CandidateEvaluation  `json:"evaluations"`
	Summary     map[string]*ToolTally  `json:"summary,omitempty"`
}

// CandidateEvaluation holds every record produced for one candidate,
// keyed by tool name.
type CandidateEvaluation struct {
	Filename    string                        `json:"filename"`
	Filepath    string                        `json:"filepath"`
	Evaluations map[string][]EvaluationRecord `json:"evaluations"`
}

// ToolTally is the per-tool verdict tally across all
// (candidate x method) evaluations. PARTIAL verdicts count in the
// Correct bucket, matching the historical aggregation rule.
type ToolTally struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Uncertain int `json:"uncertain"`
	Total     int `json:"total"`
}

// Accuracy returns Correct/Total as a percentage, or 0 when the tally
// is empty.
func (t *ToolTally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total) * 100
}
