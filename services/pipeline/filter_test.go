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
	"reflect"
	"testing"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

func resultSet(statuses map[string]datatypes.CheckerStatus) map[string]datatypes.CheckerResult {
	results := make(map[string]datatypes.CheckerResult, len(statuses))
	for tool, status := range statuses {
		results[tool] = datatypes.CheckerResult{Tool: tool, Status: status}
	}
	return results
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		statuses     map[string]datatypes.CheckerStatus
		wantClass    Classification
		wantCrashed  []string
		wantAllCrash bool
	}{
		{
			name: "unanimous ok is agreement",
			statuses: map[string]datatypes.CheckerStatus{
				"mypy": datatypes.StatusOK, "pyrefly": datatypes.StatusOK,
				"zuban": datatypes.StatusOK, "ty": datatypes.StatusOK,
			},
			wantClass: ClassAgreement,
		},
		{
			name: "unanimous error is agreement",
			statuses: map[string]datatypes.CheckerStatus{
				"mypy": datatypes.StatusError, "pyrefly": datatypes.StatusError,
				"zuban": datatypes.StatusError, "ty": datatypes.StatusError,
			},
			wantClass: ClassAgreement,
		},
		{
			name: "single dissenting tool is disagreement",
			statuses: map[string]datatypes.CheckerStatus{
				"mypy": datatypes.StatusOK, "pyrefly": datatypes.StatusOK,
				"zuban": datatypes.StatusError, "ty": datatypes.StatusOK,
			},
			wantClass: ClassDisagreement,
		},
		{
			name: "crash excluded from comparison",
			statuses: map[string]datatypes.CheckerStatus{
				"mypy": datatypes.StatusOK, "pyrefly": datatypes.StatusCrash,
				"zuban": datatypes.StatusOK, "ty": datatypes.StatusOK,
			},
			wantClass:   ClassAgreement,
			wantCrashed: []string{"pyrefly"},
		},
		{
			name: "crash does not mask a real split",
			statuses: map[string]datatypes.CheckerStatus{
				"mypy": datatypes.StatusOK, "pyrefly": datatypes.StatusCrash,
				"zuban": datatypes.StatusError, "ty": datatypes.StatusOK,
			},
			wantClass:   ClassDisagreement,
			wantCrashed: []string{"pyrefly"},
		},
		{
			name: "all crashed is agreement",
			statuses: map[string]datatypes.CheckerStatus{
				"mypy": datatypes.StatusCrash, "pyrefly": datatypes.StatusCrash,
				"zuban": datatypes.StatusCrash, "ty": datatypes.StatusCrash,
			},
			wantClass:    ClassAgreement,
			wantCrashed:  []string{"mypy", "pyrefly", "ty", "zuban"},
			wantAllCrash: true,
		},
		{
			name: "single surviving tool is agreement",
			statuses: map[string]datatypes.CheckerStatus{
				"mypy": datatypes.StatusError, "pyrefly": datatypes.StatusCrash,
				"zuban": datatypes.StatusCrash, "ty": datatypes.StatusCrash,
			},
			wantClass:   ClassAgreement,
			wantCrashed: []string{"pyrefly", "ty", "zuban"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Classify(resultSet(tt.statuses))
			if verdict.Class != tt.wantClass {
				t.Errorf("Class = %v, want %v", verdict.Class, tt.wantClass)
			}
			if !reflect.DeepEqual(verdict.CrashedTools, tt.wantCrashed) {
				t.Errorf("CrashedTools = %v, want %v", verdict.CrashedTools, tt.wantCrashed)
			}
			if verdict.AllCrashed != tt.wantAllCrash {
				t.Errorf("AllCrashed = %v, want %v", verdict.AllCrashed, tt.wantAllCrash)
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	results := resultSet(map[string]datatypes.CheckerStatus{
		"mypy": datatypes.StatusOK, "pyrefly": datatypes.StatusOK,
		"zuban": datatypes.StatusError, "ty": datatypes.StatusOK,
	})

	first := Classify(results)
	second := Classify(results)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-classification differs: %+v vs %+v", first, second)
	}
}

func TestClassifyEmptySet(t *testing.T) {
	verdict := Classify(nil)
	if verdict.Class != ClassAgreement {
		t.Errorf("empty set Class = %v, want agreement", verdict.Class)
	}
	if verdict.AllCrashed {
		t.Error("empty set should not report AllCrashed")
	}
}
