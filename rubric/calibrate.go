/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
)

// Example is a calibration anchor: a previously scored output with its
// reference total score.
type Example struct {
	// Input is the prompt the output was generated from.
	Input string

	// Output is the generated text.
	Output string

	// Score is the reference total score in [0,1].
	Score float64
}

// Calibration is an affine correction mapping raw judge totals onto the
// reference scale.
type Calibration struct {
	Scale float64
	Bias  float64
}

// Apply maps a raw total through the calibration, clamped to [0,1].
func (c Calibration) Apply(raw float64) float64 {
	return clamp01(c.Scale*raw + c.Bias)
}

// Calibrate scores every example with the given scorer and fits a
// least-squares affine map from the judge's totals to the reference scores.
// With a single example, or examples whose judged totals don't vary, only
// the bias is fitted.
func Calibrate(ctx context.Context, scorer Scorer, examples []Example) (*Calibration, error) {
	if len(examples) == 0 {
		return nil, errors.New("calibration requires at least one example")
	}

	log := clog.FromContext(ctx)
	log.With("examples", len(examples)).Info("Calibrating rubric scorer")

	raw := make([]float64, len(examples))
	ref := make([]float64, len(examples))
	for i, ex := range examples {
		card, err := scorer.Score(ctx, Request{Input: ex.Input, Output: ex.Output})
		if err != nil {
			return nil, fmt.Errorf("failed to score calibration example %d: %w", i, err)
		}
		raw[i] = card.TotalScore
		ref[i] = ex.Score
	}

	n := float64(len(examples))
	var sumRaw, sumRef float64
	for i := range raw {
		sumRaw += raw[i]
		sumRef += ref[i]
	}
	meanRaw := sumRaw / n
	meanRef := sumRef / n

	var covar, variance float64
	for i := range raw {
		covar += (raw[i] - meanRaw) * (ref[i] - meanRef)
		variance += (raw[i] - meanRaw) * (raw[i] - meanRaw)
	}

	cal := &Calibration{Scale: 1, Bias: meanRef - meanRaw}
	if variance > 0 {
		cal.Scale = covar / variance
		cal.Bias = meanRef - cal.Scale*meanRaw
	}

	log.With("scale", cal.Scale).With("bias", cal.Bias).Info("Calibration complete")
	return cal, nil
}

// calibratedScorer rescales every total score through a calibration.
// Per-dimension scores are reported as judged.
type calibratedScorer struct {
	inner       Scorer
	calibration Calibration
}

// NewCalibratedScorer wraps a scorer so its total scores pass through the
// calibration.
func NewCalibratedScorer(inner Scorer, calibration Calibration) Scorer {
	return &calibratedScorer{inner: inner, calibration: calibration}
}

// Score implements Scorer.
func (s *calibratedScorer) Score(ctx context.Context, request Request) (*Scorecard, error) {
	card, err := s.inner.Score(ctx, request)
	if err != nil {
		return nil, err
	}
	card.TotalScore = s.calibration.Apply(card.TotalScore)
	return card, nil
}
