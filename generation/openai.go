/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"chainguard.dev/changebench/retry"
)

const (
	defaultOpenAIModel = "gpt-4o"

	// huggingFaceRouterURL is the OpenAI-compatible endpoint for Hugging Face
	// hosted models.
	huggingFaceRouterURL = "https://router.huggingface.co/v1"

	// defaultLlamaModel is Llama 3.3 70B served through the router.
	defaultLlamaModel = "meta-llama/Llama-3.3-70B-Instruct:fireworks-ai"
)

// openAIGenerator implements Generator using the chat completions API. It
// backs both the native OpenAI provider and any OpenAI-compatible endpoint
// such as the Hugging Face router.
type openAIGenerator struct {
	client openai.Client
	name   string
	settings
}

// NewOpenAI creates a GPT-backed generator. The client carries the API
// credentials; see openai.NewClient.
func NewOpenAI(client openai.Client, opts ...Option) (Generator, error) {
	s, err := applyOptions(defaultOpenAIModel, opts)
	if err != nil {
		return nil, err
	}
	return &openAIGenerator{client: client, name: "OpenAI_" + s.model, settings: s}, nil
}

// NewLlama creates a Llama generator served through the Hugging Face router,
// which speaks the OpenAI chat completions protocol.
func NewLlama(hfToken string, opts ...Option) (Generator, error) {
	if hfToken == "" {
		return nil, errors.New("hugging face token cannot be empty")
	}
	s, err := applyOptions(defaultLlamaModel, opts)
	if err != nil {
		return nil, err
	}
	client := openai.NewClient(
		option.WithAPIKey(hfToken),
		option.WithBaseURL(huggingFaceRouterURL),
	)
	return &openAIGenerator{client: client, name: "Llama-3.3_70B", settings: s}, nil
}

// Name implements Generator.
func (g *openAIGenerator) Name() string {
	return g.name
}

// Generate implements Generator.
func (g *openAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid request: %w", err)
	}

	log := clog.FromContext(ctx)
	log.With("model", g.model).
		With("prompt_length", len(req.Prompt)).
		Info("Starting chat completion")

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature:         openai.Float(req.Temperature),
		TopP:                openai.Float(req.TopP),
		MaxCompletionTokens: openai.Int(req.MaxTokens),
	}

	completion, err := retry.Do(ctx, g.retryConfig, "chat_completion", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return g.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", errors.New("chat completion returned empty content")
	}

	log.With("model", g.model).
		With("output_length", len(content)).
		Info("Chat completion complete")
	return content, nil
}

// isRetryableOpenAIError reports whether an error is a transient chat
// completions API error.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
