/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"chainguard.dev/changebench/rubric"
)

// fixedScorer returns a canned total per output string.
type fixedScorer struct {
	totals map[string]float64
}

func (f *fixedScorer) Score(_ context.Context, req rubric.Request) (*rubric.Scorecard, error) {
	total, ok := f.totals[req.Output]
	if !ok {
		return nil, errors.New("unknown output")
	}
	return &rubric.Scorecard{TotalScore: total}, nil
}

func TestCalibrateLinearFit(t *testing.T) {
	// Judge totals are consistently half the reference scores; the fit must
	// recover scale 2, bias 0.
	scorer := &fixedScorer{totals: map[string]float64{
		"low":  0.1,
		"mid":  0.25,
		"high": 0.4,
	}}
	cal, err := rubric.Calibrate(context.Background(), scorer, []rubric.Example{
		{Output: "low", Score: 0.2},
		{Output: "mid", Score: 0.5},
		{Output: "high", Score: 0.8},
	})
	if err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}
	if math.Abs(cal.Scale-2) > 1e-9 {
		t.Errorf("scale: got = %v, wanted = 2", cal.Scale)
	}
	if math.Abs(cal.Bias) > 1e-9 {
		t.Errorf("bias: got = %v, wanted = 0", cal.Bias)
	}
}

func TestCalibrateSingleExample(t *testing.T) {
	// One anchor can only shift, not rescale.
	scorer := &fixedScorer{totals: map[string]float64{"only": 0.6}}
	cal, err := rubric.Calibrate(context.Background(), scorer, []rubric.Example{
		{Output: "only", Score: 0.9},
	})
	if err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}
	if cal.Scale != 1 {
		t.Errorf("scale: got = %v, wanted = 1", cal.Scale)
	}
	if math.Abs(cal.Bias-0.3) > 1e-9 {
		t.Errorf("bias: got = %v, wanted = 0.3", cal.Bias)
	}
}

func TestCalibrateNoExamples(t *testing.T) {
	if _, err := rubric.Calibrate(context.Background(), &fixedScorer{}, nil); err == nil {
		t.Error("Calibrate() error = nil, wanted failure for empty examples")
	}
}

func TestCalibrationApplyClamps(t *testing.T) {
	cal := rubric.Calibration{Scale: 2, Bias: 0.5}
	if got := cal.Apply(0.9); got != 1 {
		t.Errorf("Apply(0.9): got = %v, wanted clamped to 1", got)
	}
	cal = rubric.Calibration{Scale: 1, Bias: -0.5}
	if got := cal.Apply(0.2); got != 0 {
		t.Errorf("Apply(0.2): got = %v, wanted clamped to 0", got)
	}
}

func TestCalibratedScorer(t *testing.T) {
	inner := &fixedScorer{totals: map[string]float64{"doc": 0.4}}
	scorer := rubric.NewCalibratedScorer(inner, rubric.Calibration{Scale: 2, Bias: 0})
	card, err := scorer.Score(context.Background(), rubric.Request{Output: "doc"})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if math.Abs(card.TotalScore-0.8) > 1e-9 {
		t.Errorf("calibrated total: got = %v, wanted = 0.8", card.TotalScore)
	}
}
