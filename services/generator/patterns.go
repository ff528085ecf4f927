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

// DivergencePattern describes a typing feature area where the four
// checkers are known to diverge. Patterns steer generation when no
// GitHub seeds are available and add context to seed-based prompts.
type DivergencePattern struct {
	ID          string
	Category    string
	Description string
	PEPRefs     []string
}

// Patterns returns the curated divergence pattern catalog.
func Patterns() []DivergencePattern {
	return []DivergencePattern{
		{
			ID:          "protocol-defaults",
			Category:    "protocols",
			Description: "Protocol methods with default argument values may be checked differently when implementations use different defaults",
			PEPRefs:     []string{"PEP 544"},
		},
		{
			ID:          "typed-dict-total",
			Category:    "typed-dict",
			Description: "TypedDict with mixed total=True/False inheritance and Required/NotRequired fields",
			PEPRefs:     []string{"PEP 589", "PEP 655"},
		},
		{
			ID:          "typeguard-narrowing",
			Category:    "type-narrowing",
			Description: "TypeGuard and TypeIs functions with generic type parameters and list narrowing",
			PEPRefs:     []string{"PEP 647", "PEP 742"},
		},
		{
			ID:          "param-spec-decorator",
			Category:    "callable",
			Description: "ParamSpec used in decorators applied to classmethods or staticmethods",
			PEPRefs:     []string{"PEP 612"},
		},
		{
			ID:          "self-generic",
			Category:    "generics",
			Description: "Self type used in generic classes, especially with abstract methods",
			PEPRefs:     []string{"PEP 673"},
		},
		{
			ID:          "newtype-containers",
			Category:    "newtypes",
			Description: "NewType values in generic containers and covariance/contravariance handling",
			PEPRefs:     []string{"PEP 484"},
		},
		{
			ID:          "overload-literals",
			Category:    "overloads",
			Description: "Overloaded functions with Literal types and overlapping signatures",
			PEPRefs:     []string{"PEP 484", "PEP 586"},
		},
		{
			ID:          "final-override",
			Category:    "inheritance",
			Description: "Final class attributes overridden by properties or descriptors in subclasses",
			PEPRefs:     []string{"PEP 591"},
		},
		{
			ID:          "keyword-vs-positional",
			Category:    "callable",
			Description: "Protocol callable signatures with keyword-only vs positional-or-keyword parameters",
			PEPRefs:     []string{"PEP 544", "PEP 570"},
		},
		{
			ID:          "bounded-typevars",
			Category:    "generics",
			Description: "TypeVar bounds with nested generic types and multiple inheritance",
			PEPRefs:     []string{"PEP 484"},
		},
	}
}
