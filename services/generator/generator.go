// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package generator turns model responses into candidate snippets.
//
// Two prompt strategies feed it: seed-based generation from real bug
// reports (primary) and pattern-based generation from the divergence
// catalog (fallback when no seeds are available). Refinement prompts
// feed observed checker results back to the model to push an
// agreement-only candidate toward divergence.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/pytifex/services/llm"
	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// ErrNoRefinedCode indicates a refinement response contained nothing
// recoverable as code.
var ErrNoRefinedCode = errors.New("no code in refinement response")

// LLMGenerator produces candidates through a model client. It
// implements the pipeline's Generator capability.
//
// Thread Safety: Safe for concurrent use if the underlying client is.
type LLMGenerator struct {
	client llm.Client
}

// NewLLMGenerator creates a generator over the given client.
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

// Generate requests one batch of fresh candidates.
//
// With seeds present, candidates missing a usable seed_issue reference
// are dropped; the prompt requires every example to cite a real issue.
// A malformed response yields an empty slice, not an error, so one bad
// reply costs a single attempt rather than the run.
func (g *LLMGenerator) Generate(ctx context.Context, seeds []datatypes.Seed, batchSize int) ([]datatypes.Candidate, error) {
	var prompt string
	seeded := len(seeds) > 0
	if seeded {
		prompt = buildSeedPrompt(seeds, batchSize)
	} else {
		prompt = buildPatternPrompt(batchSize)
	}

	response, err := g.client.Generate(ctx, prompt, llm.GenerationParams{})
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	parsed := parseGenerated(response)
	if len(parsed) == 0 {
		slog.Warn("No examples parsed from model response",
			slog.Int("response_length", len(response)),
		)
		return nil, nil
	}

	candidates := make([]datatypes.Candidate, 0, len(parsed))
	for _, item := range parsed {
		seedIssue := extractSeedIssue(item.Metadata)
		if seeded && seedIssue == "" {
			slog.Debug("Skipping candidate without seed issue",
				slog.String("slug", item.ID),
			)
			continue
		}
		candidates = append(candidates, datatypes.Candidate{
			Slug:      item.ID,
			Source:    item.Code,
			Metadata:  item.Metadata,
			Category:  extractCategory(item.Metadata),
			SeedIssue: seedIssue,
			Origin:    datatypes.OriginFresh,
		})
	}

	slog.Debug("Parsed generation batch",
		slog.Int("parsed", len(parsed)),
		slog.Int("kept", len(candidates)),
		slog.Bool("seeded", seeded),
	)
	return candidates, nil
}

// Refine requests a minimally modified variant of a candidate that all
// checkers agreed on. Responses that ignore the block format fall back
// to extracting a bare fenced code block.
func (g *LLMGenerator) Refine(ctx context.Context, cand datatypes.Candidate, feedback map[string]datatypes.CheckerResult) (datatypes.Candidate, error) {
	prompt := buildRefinementPrompt(cand.Source, feedback)

	response, err := g.client.Generate(ctx, prompt, llm.GenerationParams{})
	if err != nil {
		return datatypes.Candidate{}, fmt.Errorf("refinement call failed: %w", err)
	}

	refined := datatypes.Candidate{
		Slug:      cand.Slug + "-refined",
		Category:  "refined",
		SeedIssue: cand.SeedIssue,
		Origin:    datatypes.OriginRefined,
	}

	if parsed := parseGenerated(response); len(parsed) > 0 {
		refined.Slug = parsed[0].ID
		refined.Source = parsed[0].Code
		refined.Metadata = parsed[0].Metadata
		return refined, nil
	}
	if code := fallbackCode(response); code != "" {
		refined.Source = code
		return refined, nil
	}
	return datatypes.Candidate{}, ErrNoRefinedCode
}
