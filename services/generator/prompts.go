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
	"sort"
	"strings"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// maxSeedsInPrompt bounds how many seed examples one prompt carries.
const maxSeedsInPrompt = 5

// maxOutputExcerpt bounds per-tool output text in refinement prompts.
const maxOutputExcerpt = 200

// formatSeed renders one GitHub issue seed for inclusion in a prompt.
func formatSeed(seed datatypes.Seed) string {
	labels := "none"
	if len(seed.Labels) > 0 {
		shown := seed.Labels
		if len(shown) > 5 {
			shown = shown[:5]
		}
		labels = strings.Join(shown, ", ")
	}

	return fmt.Sprintf(`### Example from %s (Issue #%d)
Title: %s
Labels: %s
False Positive: %t | False Negative: %t

`+"```python\n%s\n```\n", seed.Repo, seed.IssueNumber, seed.IssueTitle, labels,
		seed.FalsePositive, seed.FalseNegative, seed.Source)
}

// buildSeedPrompt builds the primary generation prompt from real bug
// report seeds, asking for variations likely to split the checkers.
func buildSeedPrompt(seeds []datatypes.Seed, numVariations int) string {
	if len(seeds) > maxSeedsInPrompt {
		seeds = seeds[:maxSeedsInPrompt]
	}
	seedTexts := make([]string, len(seeds))
	for i, seed := range seeds {
		seedTexts[i] = formatSeed(seed)
	}

	var patternLines []string
	for _, p := range Patterns()[:6] {
		patternLines = append(patternLines, fmt.Sprintf("- %s: %s", p.ID, p.Description))
	}

	return fmt.Sprintf(`You are an expert in Python type systems. Your task is to generate Python code
that causes DISAGREEMENTS between type checkers (mypy, pyrefly, zuban, ty).

Below are REAL code examples extracted from closed GitHub issues in type checker repositories.
These represent actual bugs - false positives (checker reports error when code is correct) or
false negatives (checker misses a real error).

## REAL BUG EXAMPLES FROM TYPE CHECKER ISSUES:

%s

## YOUR TASK:

Using these real bugs as inspiration, generate %d NEW Python code examples that:

1. Are VARIATIONS or EXTENSIONS of the patterns shown above
2. Target subtle type system edge cases likely to cause checker disagreements
3. Are self-contained and runnable (include all imports)
4. Have a minimal `+"`if __name__ == \"__main__\":`"+` block

## KNOWN DIVERGENCE PATTERNS TO TARGET:

%s

## STRATEGY FOR GENERATING DIVERGENCES:

- If a seed shows a false positive in mypy, try to create a similar case that other checkers also get wrong
- If a seed shows a false negative, create variations that test the boundaries of what gets caught
- Combine patterns: e.g., TypedDict + Protocol, ParamSpec + classmethod
- Modify the seeds slightly: change types, add generics, wrap in decorators

## OUTPUT FORMAT:

For each example, use this exact format:

# id: <short-kebab-name>
# category: <pattern category>
# seed_issue: <repo>#<issue_number> (REQUIRED - must reference a real seed issue from above)

`+"```python\n<your code here>\n```"+`

IMPORTANT RULES:
- Generate exactly %d examples
- EVERY example MUST have a valid seed_issue referencing one of the GitHub issues shown above
- Do NOT use "original" - all examples must be inspired by a real issue
- Focus on NOVEL variations, not copies of the seeds
- Distribute examples across different seed issues (not all from the same one)
`, strings.Join(seedTexts, "\n\n"), numVariations, strings.Join(patternLines, "\n"), numVariations)
}

// buildPatternPrompt is the fallback prompt when no GitHub seeds are
// available. It steers generation with the pattern catalog alone.
func buildPatternPrompt(numExamples int) string {
	var patternLines []string
	for _, p := range Patterns() {
		patternLines = append(patternLines, fmt.Sprintf("- **%s** (%s): %s [refs: %s]",
			p.ID, p.Category, p.Description, strings.Join(p.PEPRefs, ", ")))
	}

	return fmt.Sprintf(`You are an expert in Python type systems and type checker implementation differences.
Generate exactly %d Python code snippets that demonstrate REAL divergences between
mypy, pyrefly, zuban, and ty type checkers.

CRITICAL REQUIREMENTS:
1. Each snippet must be SELF-CONTAINED and RUNNABLE
2. Use ONLY valid Python 3.12+ syntax and REAL typing features
3. NO forward reference issues - use string annotations if needed: `+"`-> \"ClassName\"`"+`
4. Each snippet must target a SPECIFIC type checker divergence area
5. Include imports from `+"`typing`"+` and `+"`typing_extensions`"+` as needed
6. Include a minimal `+"`if __name__ == \"__main__\":`"+` block

TARGET THESE DIVERGENCE PATTERNS:
%s

OUTPUT FORMAT:
For each example, use this exact format:

# id: <short-kebab-case-name>
# category: <category from list above>

`+"```python\n<your code here>\n```"+`

Generate exactly %d examples covering different patterns from the list above.
Ensure all examples have valid Python syntax.
Focus on subtle type system edge cases where checkers genuinely disagree.
`, numExamples, strings.Join(patternLines, "\n"), numExamples)
}

// buildRefinementPrompt asks the model to minimally modify code that
// all checkers agreed on. Feedback lines carry each tool's status and
// a short excerpt of its output, in sorted tool order for determinism.
func buildRefinementPrompt(code string, feedback map[string]datatypes.CheckerResult) string {
	tools := make([]string, 0, len(feedback))
	for tool := range feedback {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	var resultLines []string
	for _, tool := range tools {
		result := feedback[tool]
		excerpt := strings.SplitN(result.RawOutput, "\n", 2)[0]
		if len(excerpt) > maxOutputExcerpt {
			excerpt = excerpt[:maxOutputExcerpt]
		}
		resultLines = append(resultLines, fmt.Sprintf("- %s: %s - %s", tool, result.Status, excerpt))
	}

	return fmt.Sprintf(`The following Python code was tested with all 4 type checkers (mypy, pyrefly, zuban, ty)
but they ALL AGREED - meaning this is NOT a useful divergence example.

## CURRENT CODE:
`+"```python\n%s\n```"+`

## ACTUAL CHECKER RESULTS (all agree):
%s

## YOUR TASK:

Modify this code MINIMALLY to create a REAL divergence where at least one checker
disagrees with the others.

STRATEGIES:
1. If all passed: Add a subtle type error that only some checkers catch
2. If all failed: Fix the obvious error but keep a subtle edge case
3. Change the typing pattern slightly (add Protocol, use TypeGuard, add overloads)
4. Wrap in a decorator with ParamSpec
5. Use TypedDict with Required/NotRequired inheritance

## REQUIREMENTS:
- Keep it self-contained and runnable
- Use valid Python 3.12+ syntax
- Target a real type system ambiguity, not just syntax tricks

## OUTPUT:
Provide ONLY the modified code in this format:

# id: <name>-refined
# category: refined

`+"```python\n<your modified code>\n```"+`
`, code, strings.Join(resultLines, "\n"))
}
