// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"strings"
	"testing"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"simple kebab", "protocol-defaults", false},
		{"with digits", "overload-literals-2", false},
		{"underscores tolerated", "typed_dict_total", false},
		{"single char", "x", false},
		{"80 chars", strings.Repeat("a", 80), false},
		{"empty", "", true},
		{"81 chars", strings.Repeat("a", 81), true},
		{"path traversal", "../etc/passwd", true},
		{"leading hyphen", "-flag-like", true},
		{"dots", "name.py", true},
		{"slash", "a/b", true},
		{"whitespace", "two words", true},
		{"shell metachars", "a;rm -rf", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %t", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlugs(t *testing.T) {
	if err := ValidateSlugs([]string{"a", "b-c", "d_e"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateSlugs([]string{"good", "../bad", "also-good"})
	if err == nil {
		t.Fatal("expected error for invalid slugs")
	}
	if !strings.Contains(err.Error(), "../bad") {
		t.Errorf("error %q does not name the invalid slug", err)
	}

	if err := ValidateSlugs(nil); err != nil {
		t.Errorf("nil slice should validate: %v", err)
	}
}
