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
	"regexp"
	"strings"
)

var (
	pythonFencePattern = regexp.MustCompile("(?is)```(?:python|py)\n(.*?)```")
	plainFencePattern  = regexp.MustCompile("(?is)(?:Example|Code|Reproduce|MRE|Minimal).*?:\n```\n?(.*?)```")
)

// Label fragments that mark an issue as a false positive or false
// negative report. Matched as substrings of lowercased label names.
var (
	falsePositiveLabels = []string{
		"false-positive",
		"false positive",
		"false-alarm",
		"spurious",
		"incorrect-error",
		"bug: false positive",
	}
	falseNegativeLabels = []string{
		"false-negative",
		"false negative",
		"missed-error",
		"should-error",
		"bug: false negative",
	}
)

// ExtractPythonCode pulls Python code blocks out of markdown issue
// text. Fenced python blocks are preferred; unlabeled fences directly
// after a reproduction heading are a fallback. Snippets shorter than
// minSnippetLength are dropped.
func ExtractPythonCode(text string) []string {
	matches := pythonFencePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		matches = plainFencePattern.FindAllStringSubmatch(text, -1)
	}

	var blocks []string
	for _, m := range matches {
		code := strings.TrimSpace(m[1])
		if len(code) > minSnippetLength {
			blocks = append(blocks, code)
		}
	}
	return blocks
}

// classifyLabels reports whether an issue's labels mark it as a false
// positive and/or false negative report.
func classifyLabels(labels []string) (isFP, isFN bool) {
	for _, label := range labels {
		name := strings.ToLower(label)
		for _, fp := range falsePositiveLabels {
			if strings.Contains(name, fp) {
				isFP = true
			}
		}
		for _, fn := range falseNegativeLabels {
			if strings.Contains(name, fn) {
				isFN = true
			}
		}
	}
	return isFP, isFN
}
