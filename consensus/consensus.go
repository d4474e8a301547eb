/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package consensus scores a batch of generated candidate texts without an LLM
// judge, by combining three lexical statistics: how central each candidate is
// among its peers, how relevant it is to the reference prompt, and how
// non-repetitive its phrasing is.
package consensus

import (
	"errors"
	"math"
)

// Weights for the final score. These are design constants, not tunables.
const (
	consensusWeight  = 0.4
	promptWeight     = 0.3
	repetitionWeight = 0.3
)

// ErrNoCandidates is returned when ScoreCandidates is given an empty batch.
var ErrNoCandidates = errors.New("consensus: no candidates to score")

// Candidate is one generated text sample under evaluation.
type Candidate struct {
	// ID is a stable identifier, typically the source filename.
	ID string

	// Body is the raw generated text. May be empty.
	Body string
}

// Score holds the per-candidate metrics. All fields are full precision;
// use Rounded for reporting.
type Score struct {
	// ID matches the candidate's ID.
	ID string

	// ConsensusSimilarity is the mean cosine similarity of this candidate to
	// every other candidate. Zero when the batch has a single candidate.
	ConsensusSimilarity float64

	// PromptSimilarity is the cosine similarity between the candidate and the
	// reference prompt.
	PromptSimilarity float64

	// RepetitionInverse is 1 minus the candidate's bigram repetition rate.
	RepetitionInverse float64

	// FinalScore is the weighted combination of the three sub-scores.
	FinalScore float64
}

// Rounded returns a copy of the score with every field rounded to four
// decimal digits. Rounding is a presentation concern only.
func (s Score) Rounded() Score {
	return Score{
		ID:                  s.ID,
		ConsensusSimilarity: round4(s.ConsensusSimilarity),
		PromptSimilarity:    round4(s.PromptSimilarity),
		RepetitionInverse:   round4(s.RepetitionInverse),
		FinalScore:          round4(s.FinalScore),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ScoreCandidates computes one Score per candidate. The output order is the
// input order; callers typically sort by FinalScore descending for reporting.
//
// The computation is deterministic and purely functional: identical inputs in
// identical order produce identical output. An empty prompt (or a prompt with
// no recognizable terms) yields a prompt similarity of zero for every
// candidate rather than an error. A single-candidate batch yields a consensus
// similarity of zero since there are no peers to compare against.
//
// The batch is expected to be tens to low hundreds of candidates; memory
// grows with candidate count times vocabulary size.
func ScoreCandidates(prompt string, candidates []Candidate) ([]Score, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	bodies := make([]string, len(candidates))
	for i, c := range candidates {
		bodies[i] = c.Body
	}

	consensusScores := consensusSimilarities(bodies)
	promptScores := promptSimilarities(prompt, bodies)

	scores := make([]Score, len(candidates))
	for i, c := range candidates {
		repInv := 1 - repetitionRate(c.Body)
		scores[i] = Score{
			ID:                  c.ID,
			ConsensusSimilarity: consensusScores[i],
			PromptSimilarity:    promptScores[i],
			RepetitionInverse:   repInv,
			FinalScore: consensusWeight*consensusScores[i] +
				promptWeight*promptScores[i] +
				repetitionWeight*repInv,
		}
	}
	return scores, nil
}

// consensusSimilarities computes, for each document, the mean cosine
// similarity to every other document. The vector space is built over the
// candidate documents only; the prompt must not influence document
// frequencies here.
func consensusSimilarities(bodies []string) []float64 {
	scores := make([]float64, len(bodies))
	if len(bodies) < 2 {
		return scores
	}

	vectors := vectorize(bodies)
	for i := range vectors {
		var sum float64
		for j := range vectors {
			if j == i {
				continue
			}
			sum += dot(vectors[i], vectors[j])
		}
		scores[i] = sum / float64(len(vectors)-1)
	}
	return scores
}

// promptSimilarities computes the cosine similarity between the prompt and
// each document. A second vector space is built over {prompt} plus the
// documents: including the prompt changes every term's document frequency, so
// the space from consensusSimilarities cannot be reused.
func promptSimilarities(prompt string, bodies []string) []float64 {
	docs := make([]string, 0, len(bodies)+1)
	docs = append(docs, prompt)
	docs = append(docs, bodies...)

	vectors := vectorize(docs)
	scores := make([]float64, len(bodies))
	for i := range bodies {
		scores[i] = dot(vectors[0], vectors[i+1])
	}
	return scores
}
