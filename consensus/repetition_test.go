/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package consensus

import (
	"math"
	"testing"
)

func TestRepetitionRate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wanted float64
	}{{
		name:   "empty text",
		text:   "",
		wanted: 0,
	}, {
		name:   "single word",
		text:   "hello",
		wanted: 0,
	}, {
		name:   "two distinct words",
		text:   "hello world",
		wanted: 0,
	}, {
		name:   "no repeated bigrams",
		text:   "the quick brown fox jumps",
		wanted: 0,
	}, {
		// "a b a b a b": five bigrams, two distinct -> 1 - 2/5
		name:   "alternating pair",
		text:   "a b a b a b",
		wanted: 0.6,
	}, {
		// Case folds before pairing: every bigram is ("go","go").
		name:   "case insensitive",
		text:   "Go go Go go",
		wanted: 1 - 1.0/3.0,
	}, {
		// "x x x x": three bigrams, one distinct -> 1 - 1/3
		name:   "single repeated word",
		text:   "x x x x",
		wanted: 1 - 1.0/3.0,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := repetitionRate(tc.text)
			if math.Abs(got-tc.wanted) > 1e-12 {
				t.Errorf("repetitionRate(%q): got = %v, wanted = %v", tc.text, got, tc.wanted)
			}
		})
	}
}

func TestRepetitionRateShortTextContribution(t *testing.T) {
	// Sub-two-token candidates must not be penalized: the repetition slice of
	// the final score is exactly its full 0.3 weight.
	scores, err := ScoreCandidates("prompt", []Candidate{{ID: "A", Body: "word"}})
	if err != nil {
		t.Fatalf("ScoreCandidates() error = %v", err)
	}
	if scores[0].RepetitionInverse != 1 {
		t.Errorf("repetition inverse: got = %v, wanted = 1", scores[0].RepetitionInverse)
	}
	contribution := 0.3 * scores[0].RepetitionInverse
	if contribution != 0.3 {
		t.Errorf("repetition contribution: got = %v, wanted = 0.3", contribution)
	}
}
