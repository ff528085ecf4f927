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
	"context"
	"errors"
	"testing"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

func TestRefineConfirmsOnFirstRound(t *testing.T) {
	gen := &fakeGenerator{
		refineFn: func(round int, cand datatypes.Candidate) (datatypes.Candidate, error) {
			return datatypes.Candidate{Slug: cand.Slug + "-refined", Source: "divergent"}, nil
		},
	}
	runner := &fakeRunner{resultsFor: resultsBySource}
	controller := NewRefinementController(gen, runner, 2)

	cand := datatypes.Candidate{Slug: "stubborn", Source: "boring"}
	outcome, err := controller.Refine(context.Background(), cand, agreementResults())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if outcome == nil {
		t.Fatal("expected an outcome, got nil")
	}
	if outcome.Candidate.RefinementCount != 1 {
		t.Errorf("RefinementCount = %d, want 1", outcome.Candidate.RefinementCount)
	}
	if outcome.Candidate.Origin != datatypes.OriginRefined {
		t.Errorf("Origin = %v, want refined", outcome.Candidate.Origin)
	}
	if gen.refineCalls != 1 {
		t.Errorf("refineCalls = %d, want 1", gen.refineCalls)
	}
	if Classify(outcome.Results).Class != ClassDisagreement {
		t.Error("outcome results should classify as disagreement")
	}
}

func TestRefineExhaustsBound(t *testing.T) {
	gen := &fakeGenerator{
		refineFn: func(round int, cand datatypes.Candidate) (datatypes.Candidate, error) {
			return datatypes.Candidate{Slug: cand.Slug, Source: "boring"}, nil
		},
	}
	runner := &fakeRunner{resultsFor: resultsBySource}
	controller := NewRefinementController(gen, runner, 3)

	cand := datatypes.Candidate{Slug: "stubborn", Source: "boring"}
	outcome, err := controller.Refine(context.Background(), cand, agreementResults())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if outcome != nil {
		t.Fatalf("expected nil outcome, got %+v", outcome)
	}
	if gen.refineCalls != 3 {
		t.Errorf("refineCalls = %d, want 3", gen.refineCalls)
	}
}

func TestRefineZeroBound(t *testing.T) {
	gen := &fakeGenerator{}
	controller := NewRefinementController(gen, &fakeRunner{resultsFor: resultsBySource}, 0)

	outcome, err := controller.Refine(context.Background(), datatypes.Candidate{Slug: "a"}, agreementResults())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if outcome != nil {
		t.Fatal("expected nil outcome for zero bound")
	}
	if gen.refineCalls != 0 {
		t.Errorf("refineCalls = %d, want 0", gen.refineCalls)
	}
}

func TestRefineGeneratorFailureEndsEpisode(t *testing.T) {
	gen := &fakeGenerator{
		refineFn: func(round int, cand datatypes.Candidate) (datatypes.Candidate, error) {
			return datatypes.Candidate{}, errors.New("model unreachable")
		},
	}
	controller := NewRefinementController(gen, &fakeRunner{resultsFor: resultsBySource}, 2)

	outcome, err := controller.Refine(context.Background(), datatypes.Candidate{Slug: "a"}, agreementResults())
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if outcome != nil {
		t.Fatal("expected nil outcome after generator failure")
	}
	if gen.refineCalls != 1 {
		t.Errorf("refineCalls = %d, want 1", gen.refineCalls)
	}
}

func TestRefineContextCancellation(t *testing.T) {
	gen := &fakeGenerator{
		refineFn: func(round int, cand datatypes.Candidate) (datatypes.Candidate, error) {
			return datatypes.Candidate{Slug: cand.Slug, Source: "boring"}, nil
		},
	}
	controller := NewRefinementController(gen, &fakeRunner{resultsFor: resultsBySource}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := controller.Refine(ctx, datatypes.Candidate{Slug: "a"}, agreementResults()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRefinementPhaseString(t *testing.T) {
	tests := []struct {
		phase RefinementPhase
		want  string
	}{
		{PhasePending, "pending"},
		{PhaseRefining, "refining"},
		{PhaseConfirmed, "confirmed"},
		{PhaseExhausted, "exhausted"},
		{RefinementPhase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
