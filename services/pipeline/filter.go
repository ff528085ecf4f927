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
	"sort"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// Classification is the disagreement filter outcome.
type Classification int

const (
	// ClassAgreement means every comparable tool returned the same status.
	ClassAgreement Classification = iota

	// ClassDisagreement means at least one comparable tool differed.
	// Unanimity, not majority, defines agreement: a single dissenting
	// tool out of four is a disagreement.
	ClassDisagreement
)

// String returns "AGREEMENT" or "DISAGREEMENT".
func (c Classification) String() string {
	if c == ClassDisagreement {
		return "DISAGREEMENT"
	}
	return "AGREEMENT"
}

// FilterVerdict is the full classification of one result set.
type FilterVerdict struct {
	// Class is the agreement/disagreement outcome.
	Class Classification

	// CrashedTools lists tools excluded from the comparison because
	// they failed to produce a usable status, sorted by name.
	CrashedTools []string

	// AllCrashed is set when every configured tool crashed. Such a set
	// classifies as agreement since no comparative signal exists.
	AllCrashed bool
}

// Classify applies the disagreement rule to one candidate's checker
// results.
//
// Crashed tools are excluded from the comparison and reported in
// CrashedTools. If the statuses of the remaining tools are not all
// identical, the set is a disagreement. A set where every tool crashed
// is an agreement with AllCrashed set.
//
// Classify is pure: no side effects, and re-classifying the same set
// yields the same verdict.
func Classify(results map[string]datatypes.CheckerResult) FilterVerdict {
	verdict := FilterVerdict{Class: ClassAgreement}

	statuses := make(map[datatypes.CheckerStatus]struct{})
	comparable := 0
	for tool, result := range results {
		if result.Status == datatypes.StatusCrash {
			verdict.CrashedTools = append(verdict.CrashedTools, tool)
			continue
		}
		statuses[result.Status] = struct{}{}
		comparable++
	}
	sort.Strings(verdict.CrashedTools)

	if comparable == 0 {
		verdict.AllCrashed = len(results) > 0
		return verdict
	}

	if len(statuses) > 1 {
		verdict.Class = ClassDisagreement
	}
	return verdict
}
