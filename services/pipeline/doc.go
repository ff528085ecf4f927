// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline implements the generate -> filter -> refine control
// loop at the heart of Pytifex.
//
// The loop turns a stream of LLM-generated Python snippets into a
// bounded set of confirmed type-checker disagreements:
//
//	SeedSource -> GenerationLoop -> CheckerRunner -> Classify
//	                  |                                  |
//	                  +<---- RefinementController <------+
//
// # Responsibilities
//
//   - GenerationLoop drives repeated Generator calls under attempt and
//     target budgets, classifies every candidate, and hands
//     agreement-only candidates to the RefinementController.
//   - Classify is the pure disagreement filter: checker statuses that
//     are not unanimous (crashes excluded) constitute a disagreement.
//   - CandidateStore is the single shared-write point; appends are
//     serialized so all_seen/disagreement ordering is deterministic.
//   - ArtifactWriter persists the timestamped results.json and the
//     source files for each confirmed disagreement.
//
// # Failure model
//
// Transient external failures (seed fetch, generator call, individual
// checker crash) are logged and skipped; the loop never aborts on a
// single candidate. Exhausting the attempt budget is a normal terminal
// state, not an error. Only invalid configuration stops a run before
// any work is attempted.
//
// # Thread Safety
//
// A GenerationLoop run is sequential; CandidateStore is safe for
// concurrent use so checker execution may fan out per candidate.
package pipeline
