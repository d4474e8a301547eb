/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"chainguard.dev/changebench/retry"
)

const defaultClaudeModel = "claude-3-7-sonnet-20250219"

// claudeGenerator implements Generator using the Anthropic Messages API.
type claudeGenerator struct {
	client anthropic.Client
	settings
}

// NewClaude creates a Claude-backed generator. The client carries the API
// credentials; see anthropic.NewClient.
func NewClaude(client anthropic.Client, opts ...Option) (Generator, error) {
	s, err := applyOptions(defaultClaudeModel, opts)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(s.model, "claude-") {
		return nil, fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", s.model)
	}
	return &claudeGenerator{client: client, settings: s}, nil
}

// Name implements Generator.
func (g *claudeGenerator) Name() string {
	return "Claude_" + g.model
}

// Generate implements Generator.
func (g *claudeGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid request: %w", err)
	}
	if req.Temperature > 1 {
		return "", fmt.Errorf("claude temperature must be between 0.0 and 1.0, got %v", req.Temperature)
	}

	log := clog.FromContext(ctx)
	log.With("model", g.model).
		With("prompt_length", len(req.Prompt)).
		Info("Starting Claude generation")

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(req.Prompt),
			},
		}},
	}
	// The API rejects temperature and top_p together unless top_p is default.
	if req.TopP != 1.0 {
		params.TopP = anthropic.Float(req.TopP)
	}

	message, err := retry.Do(ctx, g.retryConfig, "claude_generate", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return g.client.Messages.New(ctx, params)
	})
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}

	var out strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			out.WriteString(content.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("claude returned no text content")
	}

	log.With("model", g.model).
		With("output_length", out.Len()).
		Info("Claude generation complete")
	return out.String(), nil
}

// isRetryableClaudeError reports whether an error is a transient Anthropic
// API error: rate limit, overloaded, or server-side failures.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
