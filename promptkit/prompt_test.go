/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptkit_test

import (
	"strings"
	"testing"

	"chainguard.dev/changebench/promptkit"
)

func TestNewPrompt(t *testing.T) {
	t.Run("no placeholders", func(t *testing.T) {
		p, err := promptkit.NewPrompt("plain text, nothing to bind")
		if err != nil {
			t.Fatalf("NewPrompt() error = %v", err)
		}
		if got := len(p.Placeholders()); got != 0 {
			t.Errorf("placeholder count: got = %d, wanted = 0", got)
		}
	})

	t.Run("collects placeholder names", func(t *testing.T) {
		p, err := promptkit.NewPrompt("Input: {{input}}\nSpec: {{spec}}\nAgain: {{input}}")
		if err != nil {
			t.Fatalf("NewPrompt() error = %v", err)
		}
		placeholders := p.Placeholders()
		for _, name := range []string{"input", "spec"} {
			if _, exists := placeholders[name]; !exists {
				t.Errorf("placeholder %q: got = absent, wanted = present", name)
			}
		}
		if got := len(placeholders); got != 2 {
			t.Errorf("placeholder count: got = %d, wanted = 2", got)
		}
	})

	t.Run("unclosed placeholder", func(t *testing.T) {
		if _, err := promptkit.NewPrompt("broken {{name"); err == nil {
			t.Error("NewPrompt() error = nil, wanted parse failure")
		}
	})

	t.Run("invalid identifier", func(t *testing.T) {
		if _, err := promptkit.NewPrompt("bad {{1name}}"); err == nil {
			t.Error("NewPrompt() error = nil, wanted identifier failure")
		}
	})
}

func TestPromptBuild(t *testing.T) {
	t.Run("renders bound values", func(t *testing.T) {
		p, err := promptkit.NewPrompt("Score {{output}} against {{input}}")
		if err != nil {
			t.Fatalf("NewPrompt() error = %v", err)
		}
		p, err = p.Bind("output", "the changelog")
		if err != nil {
			t.Fatalf("Bind() error = %v", err)
		}
		p, err = p.Bind("input", "the prompt")
		if err != nil {
			t.Fatalf("Bind() error = %v", err)
		}
		got, err := p.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		wanted := "Score the changelog against the prompt"
		if got != wanted {
			t.Errorf("Build(): got = %q, wanted = %q", got, wanted)
		}
	})

	t.Run("repeated placeholder bound once", func(t *testing.T) {
		p := promptkit.MustNewPrompt("{{x}} and {{x}}")
		p, err := p.Bind("x", "twice")
		if err != nil {
			t.Fatalf("Bind() error = %v", err)
		}
		got, err := p.Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if got != "twice and twice" {
			t.Errorf("Build(): got = %q, wanted = %q", got, "twice and twice")
		}
	})

	t.Run("unbound placeholder fails", func(t *testing.T) {
		p := promptkit.MustNewPrompt("needs {{value}}")
		if _, err := p.Build(); err == nil {
			t.Error("Build() error = nil, wanted unbound failure")
		}
	})

	t.Run("double bind fails", func(t *testing.T) {
		p := promptkit.MustNewPrompt("{{value}}")
		p, err := p.Bind("value", "first")
		if err != nil {
			t.Fatalf("Bind() error = %v", err)
		}
		if _, err := p.Bind("value", "second"); err == nil {
			t.Error("Bind() error = nil, wanted already-bound failure")
		}
	})

	t.Run("unknown placeholder fails", func(t *testing.T) {
		p := promptkit.MustNewPrompt("{{value}}")
		if _, err := p.Bind("other", "x"); err == nil {
			t.Error("Bind() error = nil, wanted unknown-placeholder failure")
		}
	})

	t.Run("binding does not mutate receiver", func(t *testing.T) {
		base := promptkit.MustNewPrompt("{{value}}")
		if _, err := base.Bind("value", "bound"); err != nil {
			t.Fatalf("Bind() error = %v", err)
		}
		if _, err := base.Build(); err == nil {
			t.Error("Build() on original error = nil, wanted unbound failure")
		}
	})
}

func TestPromptBindJSON(t *testing.T) {
	p := promptkit.MustNewPrompt("Payload:\n{{payload}}")
	p, err := p.BindJSON("payload", map[string]int{"score": 1})
	if err != nil {
		t.Fatalf("BindJSON() error = %v", err)
	}
	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(got, `"score": 1`) {
		t.Errorf("Build(): got = %q, wanted JSON payload embedded", got)
	}
}
