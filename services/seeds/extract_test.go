// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package seeds

import (
	"strings"
	"testing"
)

const longSnippet = `from typing import Protocol

class Comparable(Protocol):
    def __lt__(self, other: "Comparable") -> bool: ...
`

func TestExtractPythonCode(t *testing.T) {
	body := "Repro:\n```python\n" + longSnippet + "```\nand also\n```py\n" + longSnippet + "```\n"

	blocks := ExtractPythonCode(body)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if !strings.HasPrefix(blocks[0], "from typing import Protocol") {
		t.Errorf("block = %q", blocks[0])
	}
}

func TestExtractPythonCodeDropsShortSnippets(t *testing.T) {
	body := "```python\nx = 1\n```"
	if got := ExtractPythonCode(body); got != nil {
		t.Errorf("short snippet kept: %v", got)
	}
}

func TestExtractPythonCodePlainFenceFallback(t *testing.T) {
	body := "Minimal example to reproduce:\n```\n" + longSnippet + "```\n"

	blocks := ExtractPythonCode(body)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
}

func TestExtractPythonCodeNoFences(t *testing.T) {
	if got := ExtractPythonCode("just prose, no code"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		wantFP bool
		wantFN bool
	}{
		{"false positive label", []string{"bug", "false-positive"}, true, false},
		{"false negative label", []string{"false negative"}, false, true},
		{"case insensitive", []string{"Bug: False Positive"}, true, false},
		{"both", []string{"false-positive", "missed-error"}, true, true},
		{"unrelated", []string{"bug", "documentation"}, false, false},
		{"empty", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isFP, isFN := classifyLabels(tt.labels)
			if isFP != tt.wantFP || isFN != tt.wantFN {
				t.Errorf("classifyLabels(%v) = (%t, %t), want (%t, %t)",
					tt.labels, isFP, isFN, tt.wantFP, tt.wantFN)
			}
		})
	}
}
