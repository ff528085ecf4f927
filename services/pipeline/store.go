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
	"fmt"
	"sync"

	"github.com/AleutianAI/pytifex/services/pipeline/datatypes"
)

// StoredCandidate couples a candidate with its checker results and its
// terminal disposition tag.
type StoredCandidate struct {
	Candidate datatypes.Candidate
	Results   map[string]datatypes.CheckerResult
	Tag       datatypes.Tag
}

// CandidateStore is the in-memory record of every candidate seen during
// one run. It is the only shared-write point in the pipeline; all
// appends are serialized under a mutex so the all_seen and
// disagreements orderings are deterministic.
//
// Thread Safety: Safe for concurrent use.
type CandidateStore struct {
	mu            sync.Mutex
	slugs         map[string]int
	allSeen       []StoredCandidate
	disagreements []StoredCandidate
}

// NewCandidateStore creates an empty store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		slugs: make(map[string]int),
	}
}

// ReserveSlug returns a run-unique slug for the given generator slug.
//
// The first reservation of a slug returns it unchanged. Collisions are
// resolved deterministically by suffixing an ordinal: the second "foo"
// becomes "foo-2", the third "foo-3", and so on.
func (s *CandidateStore) ReserveSlug(slug string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slugs[slug]++
	if n := s.slugs[slug]; n > 1 {
		unique := fmt.Sprintf("%s-%d", slug, n)
		// The suffixed form could itself collide with a later reservation.
		s.slugs[unique]++
		return unique
	}
	return slug
}

// Record appends a classified candidate. Candidates tagged as
// disagreements (fresh or refined) are additionally appended to the
// disagreement sequence.
func (s *CandidateStore) Record(cand datatypes.Candidate, results map[string]datatypes.CheckerResult, tag datatypes.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := StoredCandidate{Candidate: cand, Results: results, Tag: tag}
	s.allSeen = append(s.allSeen, entry)
	if tag == datatypes.TagDisagreement || tag == datatypes.TagDisagreementRefined {
		s.disagreements = append(s.disagreements, entry)
	}
}

// DisagreementCount returns the number of confirmed disagreements.
func (s *CandidateStore) DisagreementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.disagreements)
}

// Disagreements returns a copy of the confirmed disagreements in
// insertion order.
func (s *CandidateStore) Disagreements() []StoredCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredCandidate, len(s.disagreements))
	copy(out, s.disagreements)
	return out
}

// AllSeen returns a copy of every recorded candidate in insertion order.
func (s *CandidateStore) AllSeen() []StoredCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredCandidate, len(s.allSeen))
	copy(out, s.allSeen)
	return out
}

// FreshCount returns the number of recorded batch-generated candidates.
// Refined candidates are excluded; this is the "total generated" figure
// the run report uses for its success rate.
func (s *CandidateStore) FreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, entry := range s.allSeen {
		if entry.Candidate.Origin == datatypes.OriginFresh {
			n++
		}
	}
	return n
}
