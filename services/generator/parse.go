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

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	idPattern        = regexp.MustCompile(`(?m)^# id:\s*([\w-]+)`)
	seedIssuePattern = regexp.MustCompile(`(?i)#\s*seed_issue:\s*(.+)`)
	repoIssuePattern = regexp.MustCompile(`^([\w.-]+/[\w.-]+)#(\d+)`)
	categoryPattern  = regexp.MustCompile(`(?i)#\s*category:\s*(.+)`)
	codeFencePattern = regexp.MustCompile("(?s)```python\n(.*?)```")
)

// parsedExample is one structured block recovered from a raw model
// response.
type parsedExample struct {
	ID       string
	Metadata string
	Code     string
}

// parseGenerated splits a raw model response into examples on "# id:"
// markers. Within each block, leading comment lines become metadata and
// the remainder becomes code; markdown fences and dash separators are
// stripped. Blocks with no code are dropped.
func parseGenerated(response string) []parsedExample {
	var examples []parsedExample

	matches := idPattern.FindAllStringSubmatchIndex(response, -1)
	for i, match := range matches {
		id := response[match[2]:match[3]]
		start := match[0]
		end := len(response)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		chunk := strings.TrimSpace(response[start:end])

		var metadataLines, codeLines []string
		captureCode := false

		for _, line := range strings.Split(chunk, "\n") {
			stripped := strings.TrimSpace(line)

			// Drop separator artifacts between blocks.
			if strings.Contains(line, "---") && len(stripped) < 5 {
				continue
			}
			if strings.HasPrefix(stripped, "# id:") {
				continue
			}

			if !captureCode {
				switch {
				case strings.HasPrefix(stripped, "#"):
					metadataLines = append(metadataLines, line)
				case stripped == "" || strings.HasPrefix(stripped, "```"):
					continue
				default:
					captureCode = true
					codeLines = append(codeLines, line)
				}
			} else {
				if strings.HasPrefix(stripped, "```") {
					continue
				}
				codeLines = append(codeLines, line)
			}
		}

		code := strings.TrimSpace(strings.Join(codeLines, "\n"))
		if id == "" || code == "" {
			continue
		}
		examples = append(examples, parsedExample{
			ID:       id,
			Metadata: strings.TrimSpace(strings.Join(metadataLines, "\n")),
			Code:     code,
		})
	}
	return examples
}

// extractSeedIssue pulls the seed issue reference out of a metadata
// block. Repo references like "python/mypy#12345" are normalized to
// issue URLs. Returns "" when no usable reference is present; the
// literal "original" is treated as absent.
func extractSeedIssue(metadata string) string {
	match := seedIssuePattern.FindStringSubmatch(metadata)
	if match == nil {
		return ""
	}
	value := strings.TrimSpace(match[1])

	if ref := repoIssuePattern.FindStringSubmatch(value); ref != nil {
		return fmt.Sprintf("https://github.com/%s/issues/%s", ref[1], ref[2])
	}
	if strings.EqualFold(value, "original") {
		return ""
	}
	return value
}

// extractCategory pulls the category line out of a metadata block.
func extractCategory(metadata string) string {
	match := categoryPattern.FindStringSubmatch(metadata)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// fallbackCode extracts a bare fenced python block from a response that
// carried no "# id:" marker. Used for refinement replies that ignore
// the output format.
func fallbackCode(response string) string {
	match := codeFencePattern.FindStringSubmatch(response)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
