/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package promptkit builds LLM prompts from templates with {{name}}
// placeholders. Bindings are explicit and Build fails on anything left
// unbound, so a typo in a template surfaces before the API call.
package promptkit

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Prompt is a template with named placeholders. Binding returns a new
// Prompt; the receiver is never mutated.
type Prompt struct {
	template string
	bindings map[string]string
	bound    map[string]bool
}

// NewPrompt parses the template and collects its placeholder names.
func NewPrompt(template string) (*Prompt, error) {
	bindings := make(map[string]string)
	bound := make(map[string]bool)

	// Walking with an identity resolver validates placeholder syntax up front.
	if _, err := walkTemplate(template, func(name string) (string, error) {
		bindings[name] = ""
		bound[name] = false
		return fmt.Sprintf("{{%s}}", name), nil
	}); err != nil {
		return nil, err
	}

	return &Prompt{template: template, bindings: bindings, bound: bound}, nil
}

// MustNewPrompt is NewPrompt for package-level templates; it panics on a
// malformed template.
func MustNewPrompt(template string) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the set of placeholder names in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// Bind binds a string value to a placeholder.
func (p *Prompt) Bind(name, value string) (*Prompt, error) {
	return p.bind(name, value)
}

// BindJSON binds structured data to a placeholder as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal binding %q: %w", name, err)
	}
	return p.bind(name, string(b))
}

func (p *Prompt) bind(name, value string) (*Prompt, error) {
	if _, exists := p.bindings[name]; !exists {
		return nil, fmt.Errorf("unknown placeholder %q", name)
	}
	if p.bound[name] {
		return nil, fmt.Errorf("placeholder %q is already bound", name)
	}
	next := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
		bound:    maps.Clone(p.bound),
	}
	next.bindings[name] = value
	next.bound[name] = true
	return next, nil
}

// Build renders the template, failing if any placeholder is unbound.
func (p *Prompt) Build() (string, error) {
	return walkTemplate(p.template, func(name string) (string, error) {
		if !p.bound[name] {
			return "", fmt.Errorf("placeholder %q is unbound", name)
		}
		return p.bindings[name], nil
	})
}
