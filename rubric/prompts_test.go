/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"strings"
	"testing"
)

func TestBuildScoringPrompt(t *testing.T) {
	spec := Spec{
		{Label: "Realism", Question: "How realistic is it?"},
		{Label: "Clarity", Question: "How clear is it?"},
	}
	req := Request{
		Input:  "Write a changelog for version 1.2",
		Output: "## [1.2.0] - 2025-01-15\n- Fixed parser crash",
	}

	prompt, err := buildScoringPrompt(spec, req)
	if err != nil {
		t.Fatalf("buildScoringPrompt() error = %v", err)
	}

	for _, fragment := range []string{
		"Realism",
		"How clear is it?",
		"Write a changelog for version 1.2",
		"Fixed parser crash",
		"question_scores",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
	if strings.Contains(prompt, "{{") {
		t.Errorf("prompt has unresolved placeholders:\n%s", prompt)
	}
}
