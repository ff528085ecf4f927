// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package generator

import "testing"

const sampleResponse = "Here are the examples:\n\n" +
	"# id: protocol-defaults\n" +
	"# category: protocol\n" +
	"# seed_issue: python/mypy#12345\n\n" +
	"```python\n" +
	"from typing import Protocol\n\n" +
	"class P(Protocol):\n" +
	"    def f(self, x: int = 0) -> None: ...\n" +
	"```\n\n" +
	"---\n\n" +
	"# id: typed-dict-total\n" +
	"# category: typeddict\n" +
	"# seed_issue: astral-sh/ty#99\n\n" +
	"```python\n" +
	"from typing import TypedDict\n\n" +
	"class TD(TypedDict, total=False):\n" +
	"    x: int\n" +
	"```\n"

func TestParseGenerated(t *testing.T) {
	examples := parseGenerated(sampleResponse)
	if len(examples) != 2 {
		t.Fatalf("got %d examples, want 2", len(examples))
	}

	first := examples[0]
	if first.ID != "protocol-defaults" {
		t.Errorf("ID = %q, want protocol-defaults", first.ID)
	}
	if got := extractCategory(first.Metadata); got != "protocol" {
		t.Errorf("category = %q, want protocol", got)
	}
	if got := extractSeedIssue(first.Metadata); got != "https://github.com/python/mypy/issues/12345" {
		t.Errorf("seed issue = %q", got)
	}
	wantCode := "from typing import Protocol\n\nclass P(Protocol):\n    def f(self, x: int = 0) -> None: ..."
	if first.Code != wantCode {
		t.Errorf("code = %q, want %q", first.Code, wantCode)
	}

	second := examples[1]
	if second.ID != "typed-dict-total" {
		t.Errorf("ID = %q, want typed-dict-total", second.ID)
	}
	if got := extractSeedIssue(second.Metadata); got != "https://github.com/astral-sh/ty/issues/99" {
		t.Errorf("seed issue = %q", got)
	}
}

func TestParseGeneratedDropsEmptyBlocks(t *testing.T) {
	response := "# id: empty-one\n# category: nothing\n\n---\n\n" +
		"# id: has-code\n```python\nx = 1\n```\n"

	examples := parseGenerated(response)
	if len(examples) != 1 {
		t.Fatalf("got %d examples, want 1", len(examples))
	}
	if examples[0].ID != "has-code" {
		t.Errorf("ID = %q, want has-code", examples[0].ID)
	}
}

func TestParseGeneratedNoMarkers(t *testing.T) {
	if got := parseGenerated("```python\nx = 1\n```"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := parseGenerated(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestParseGeneratedUnfencedCode(t *testing.T) {
	response := "# id: bare\n# category: misc\nx: int = \"oops\"\nprint(x)\n"
	examples := parseGenerated(response)
	if len(examples) != 1 {
		t.Fatalf("got %d examples, want 1", len(examples))
	}
	if examples[0].Code != "x: int = \"oops\"\nprint(x)" {
		t.Errorf("code = %q", examples[0].Code)
	}
}

func TestExtractSeedIssue(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     string
	}{
		{
			"repo reference becomes url",
			"# seed_issue: python/mypy#12345",
			"https://github.com/python/mypy/issues/12345",
		},
		{
			"dotted repo name",
			"# seed_issue: facebook/pyrefly#7",
			"https://github.com/facebook/pyrefly/issues/7",
		},
		{
			"url passes through",
			"# seed_issue: https://github.com/python/mypy/issues/5",
			"https://github.com/python/mypy/issues/5",
		},
		{"original is absent", "# seed_issue: original", ""},
		{"case-insensitive original", "# seed_issue: Original", ""},
		{"missing line", "# category: protocol", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSeedIssue(tt.metadata); got != tt.want {
				t.Errorf("extractSeedIssue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFallbackCode(t *testing.T) {
	response := "Sure, here is the fix:\n```python\nx: int = 1\n```\nHope that helps."
	if got := fallbackCode(response); got != "x: int = 1" {
		t.Errorf("fallbackCode = %q", got)
	}
	if got := fallbackCode("no code here"); got != "" {
		t.Errorf("fallbackCode on prose = %q, want empty", got)
	}
}
