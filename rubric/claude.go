/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"chainguard.dev/changebench/retry"
)

const defaultJudgeModel = "claude-3-7-sonnet-20250219"

// judgeMaxTokens bounds the judge response; a scorecard is small.
const judgeMaxTokens = 4096

// claudeScorer implements Scorer using the Anthropic Messages API. Judging
// runs at low temperature for score stability.
type claudeScorer struct {
	client      anthropic.Client
	spec        Spec
	model       string
	retryConfig retry.Config
}

// ScorerOption configures a Claude scorer.
type ScorerOption func(*claudeScorer) error

// WithJudgeModel overrides the default judge model.
func WithJudgeModel(model string) ScorerOption {
	return func(s *claudeScorer) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		s.model = model
		return nil
	}
}

// WithScorerRetryConfig overrides the default retry behavior.
func WithScorerRetryConfig(cfg retry.Config) ScorerOption {
	return func(s *claudeScorer) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		s.retryConfig = cfg
		return nil
	}
}

// NewClaudeScorer creates a Claude-backed rubric scorer for the given spec.
func NewClaudeScorer(client anthropic.Client, spec Spec, opts ...ScorerOption) (Scorer, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring spec: %w", err)
	}
	s := &claudeScorer{
		client:      client,
		spec:        spec,
		model:       defaultJudgeModel,
		retryConfig: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return s, nil
}

// Score implements Scorer.
func (s *claudeScorer) Score(ctx context.Context, request Request) (*Scorecard, error) {
	if request.Output == "" {
		return nil, errors.New("output to score cannot be empty")
	}

	prompt, err := buildScoringPrompt(s.spec, request)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring prompt: %w", err)
	}

	log := clog.FromContext(ctx)
	log.With("model", s.model).
		With("dimensions", len(s.spec)).
		With("output_length", len(request.Output)).
		Info("Scoring output against rubric")

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   judgeMaxTokens,
		Temperature: anthropic.Float(0.1),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(prompt),
			},
		}},
	}

	message, err := retry.Do(ctx, s.retryConfig, "rubric_score", isRetryableJudgeError, func() (*anthropic.Message, error) {
		return s.client.Messages.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("judge request failed: %w", err)
	}

	var text strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("judge returned no text content")
	}

	response, err := extract[judgeResponse](text.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse judge response: %w", err)
	}

	card, err := newScorecard(s.spec, response.QuestionScores)
	if err != nil {
		return nil, err
	}

	log.With("total_score", card.TotalScore).Info("Rubric scoring complete")
	return card, nil
}

// isRetryableJudgeError mirrors the generation-side classification for the
// Anthropic API.
func isRetryableJudgeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
