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

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"chainguard.dev/changebench/retry"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiGenerator implements Generator using the Google GenAI API.
type geminiGenerator struct {
	client *genai.Client
	settings
}

// NewGemini creates a Gemini-backed generator. The client carries the API
// credentials; see genai.NewClient.
func NewGemini(client *genai.Client, opts ...Option) (Generator, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
	s, err := applyOptions(defaultGeminiModel, opts)
	if err != nil {
		return nil, err
	}
	return &geminiGenerator{client: client, settings: s}, nil
}

// Name implements Generator.
func (g *geminiGenerator) Name() string {
	return "Gemini_" + g.model
}

// Generate implements Generator.
func (g *geminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid request: %w", err)
	}

	log := clog.FromContext(ctx)
	log.With("model", g.model).
		With("prompt_length", len(req.Prompt)).
		Info("Starting Gemini generation")

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		TopP:            genai.Ptr(float32(req.TopP)),
		MaxOutputTokens: int32(req.MaxTokens),
	}

	response, err := retry.Do(ctx, g.retryConfig, "gemini_generate", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(response.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	candidate := response.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("gemini candidate has no content parts")
	}

	var out strings.Builder
	for _, part := range candidate.Content.Parts {
		out.WriteString(part.Text)
	}
	if out.Len() == 0 {
		return "", errors.New("gemini returned no text content")
	}

	log.With("model", g.model).
		With("output_length", out.Len()).
		Info("Gemini generation complete")
	return out.String(), nil
}

// isRetryableGeminiError reports whether an error is a transient GenAI API
// error. The SDK does not expose typed status errors for every transport, so
// this matches on the status text.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
