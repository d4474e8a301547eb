/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric scores generated text against a multi-dimension scoring
// specification using an LLM judge. It is the second, independent axis of
// quality next to the lexical consensus score: a rubric judge reads the text,
// the consensus metric only counts it.
package rubric

import (
	"context"
	"errors"
	"fmt"
)

// Dimension is one labeled question the judge answers with a score in [0,1].
type Dimension struct {
	// Label identifies the dimension in scorecards and reports.
	Label string `yaml:"label" json:"label"`

	// Question is the instruction the judge scores against.
	Question string `yaml:"question" json:"question"`
}

// Spec is an ordered list of scoring dimensions.
type Spec []Dimension

// Validate checks that the spec is non-empty with unique, non-empty labels.
func (s Spec) Validate() error {
	if len(s) == 0 {
		return errors.New("scoring spec must have at least one dimension")
	}
	seen := make(map[string]bool, len(s))
	for i, d := range s {
		if d.Label == "" {
			return fmt.Errorf("dimension %d has an empty label", i)
		}
		if d.Question == "" {
			return fmt.Errorf("dimension %q has an empty question", d.Label)
		}
		if seen[d.Label] {
			return fmt.Errorf("duplicate dimension label %q", d.Label)
		}
		seen[d.Label] = true
	}
	return nil
}

// Request is one text to score: the prompt that produced it and the output
// itself.
type Request struct {
	// Input is the prompt the text was generated from.
	Input string

	// Output is the generated text under evaluation.
	Output string
}

// Scorecard is the judged result for one request.
type Scorecard struct {
	// TotalScore is the mean of the dimension scores, in [0,1]. Computed
	// locally rather than trusted from the judge.
	TotalScore float64

	// QuestionScores maps dimension label to its score in [0,1].
	QuestionScores map[string]float64
}

// Scorer evaluates one request against a fixed scoring spec.
type Scorer interface {
	// Score returns the judged scorecard for the request.
	Score(ctx context.Context, request Request) (*Scorecard, error)
}

// newScorecard assembles a scorecard from per-dimension scores, clamping
// each to [0,1] and computing the mean total.
func newScorecard(spec Spec, scores map[string]float64) (*Scorecard, error) {
	questionScores := make(map[string]float64, len(spec))
	var total float64
	for _, d := range spec {
		score, ok := scores[d.Label]
		if !ok {
			return nil, fmt.Errorf("judge omitted dimension %q", d.Label)
		}
		score = clamp01(score)
		questionScores[d.Label] = score
		total += score
	}
	return &Scorecard{
		TotalScore:     total / float64(len(spec)),
		QuestionScores: questionScores,
	}, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
