/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package generation produces synthetic changelog/release-notes text from
// LLM providers. Every provider implements the same Generator contract so a
// grid search can sweep sampling parameters across all of them uniformly.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"chainguard.dev/changebench/retry"
)

// Request holds one generation call's inputs. Sampling parameters are
// per-request because grid search varies them between calls to the same
// provider.
type Request struct {
	// Prompt is the full user prompt.
	Prompt string

	// Temperature is the sampling temperature.
	Temperature float64

	// TopP is the nucleus sampling parameter.
	TopP float64

	// MaxTokens caps the response length.
	MaxTokens int64
}

// Validate checks the request against the limits shared by all providers.
// Provider-specific limits (e.g. Claude's temperature ceiling) are enforced
// by the individual generators.
func (r Request) Validate() error {
	if r.Prompt == "" {
		return errors.New("prompt cannot be empty")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %v", r.Temperature)
	}
	if r.TopP <= 0 || r.TopP > 1 {
		return fmt.Errorf("top_p must be in (0.0, 1.0], got %v", r.TopP)
	}
	if r.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", r.MaxTokens)
	}
	return nil
}

// OutputName returns the candidate filename for this request's output under
// the given provider name, e.g. "Claude_3.7_temp-0.7_top_p-0.9_max_tok-2000.txt".
// The name doubles as the candidate ID in downstream scoring.
func (r Request) OutputName(provider string) string {
	return fmt.Sprintf("%s_temp-%s_top_p-%s_max_tok-%d.txt",
		provider,
		strconv.FormatFloat(r.Temperature, 'g', -1, 64),
		strconv.FormatFloat(r.TopP, 'g', -1, 64),
		r.MaxTokens)
}

// Generator is implemented by each LLM provider client.
type Generator interface {
	// Name identifies the provider/model for output naming and reporting.
	Name() string

	// Generate returns the model's text completion for the request.
	Generate(ctx context.Context, req Request) (string, error)
}

// settings holds provider-independent configuration applied via options.
type settings struct {
	model       string
	retryConfig retry.Config
}

// Option configures a generator at construction time.
type Option func(*settings) error

// WithModel overrides the provider's default model name.
func WithModel(model string) Option {
	return func(s *settings) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		s.model = model
		return nil
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		s.retryConfig = cfg
		return nil
	}
}

// applyOptions builds settings from a default model and the given options.
func applyOptions(defaultModel string, opts []Option) (settings, error) {
	s := settings{
		model:       defaultModel,
		retryConfig: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return s, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return s, nil
}
