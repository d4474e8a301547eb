/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report joins rubric quality scores with consensus scores and
// classifies every candidate into one of four quadrants around the median
// of each axis.
package report

import (
	"errors"
	"fmt"
	"sort"

	"chainguard.dev/changebench/consensus"
	"chainguard.dev/changebench/corpus"
)

// Quadrant classifies a candidate relative to the median quality and
// median consensus score.
type Quadrant string

const (
	// Goldilocks candidates score above both medians.
	Goldilocks Quadrant = "Goldilocks (High PI + High Consensus)"
	// CreativeExcellence candidates score high on quality but diverge
	// from the batch.
	CreativeExcellence Quadrant = "Creative Excellence (High PI + Low Consensus)"
	// SafeConsensus candidates agree with the batch without standing out
	// on quality.
	SafeConsensus Quadrant = "Safe Consensus (Low PI + High Consensus)"
	// Avoid candidates score below both medians.
	Avoid Quadrant = "Avoid (Low PI + Low Consensus)"
)

// ErrNoOverlap is returned when the rubric and consensus inputs share no
// candidate IDs.
var ErrNoOverlap = errors.New("no candidates present in both score sets")

// Entry is one candidate with both of its scores and its quadrant.
type Entry struct {
	ID             string
	QualityScore   float64
	ConsensusScore float64
	Quadrant       Quadrant
}

// Analysis is the joined, classified view of a scored batch.
type Analysis struct {
	Entries         []Entry
	QualityMedian   float64
	ConsensusMedian float64
}

// Analyze inner-joins rubric records with consensus scores by candidate ID
// and classifies each joined candidate. Rubric records contribute their
// calibrated total when one is present. Entries keep the rubric input
// order.
func Analyze(rubricRecords []corpus.RubricRecord, scores []consensus.Score) (*Analysis, error) {
	finals := make(map[string]float64, len(scores))
	for _, score := range scores {
		finals[score.ID] = score.FinalScore
	}

	entries := make([]Entry, 0, len(rubricRecords))
	for _, record := range rubricRecords {
		final, ok := finals[record.ID]
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			ID:             record.ID,
			QualityScore:   record.Preferred(),
			ConsensusScore: final,
		})
	}
	if len(entries) == 0 {
		return nil, ErrNoOverlap
	}

	qualities := make([]float64, len(entries))
	consensuses := make([]float64, len(entries))
	for i, entry := range entries {
		qualities[i] = entry.QualityScore
		consensuses[i] = entry.ConsensusScore
	}
	analysis := &Analysis{
		QualityMedian:   median(qualities),
		ConsensusMedian: median(consensuses),
	}

	for i := range entries {
		entries[i].Quadrant = classify(
			entries[i].QualityScore >= analysis.QualityMedian,
			entries[i].ConsensusScore >= analysis.ConsensusMedian,
		)
	}
	analysis.Entries = entries
	return analysis, nil
}

func classify(highQuality, highConsensus bool) Quadrant {
	switch {
	case highQuality && highConsensus:
		return Goldilocks
	case highQuality:
		return CreativeExcellence
	case highConsensus:
		return SafeConsensus
	default:
		return Avoid
	}
}

// median returns the middle value of vs, or the mean of the two middle
// values when the count is even.
func median(vs []float64) float64 {
	ordered := make([]float64, len(vs))
	copy(ordered, vs)
	sort.Float64s(ordered)
	mid := len(ordered) / 2
	if len(ordered)%2 == 1 {
		return ordered[mid]
	}
	return (ordered[mid-1] + ordered[mid]) / 2
}

// ByQuadrant groups entries into the four quadrants, each sorted by
// quality score descending.
func (a *Analysis) ByQuadrant() map[Quadrant][]Entry {
	groups := make(map[Quadrant][]Entry, 4)
	for _, entry := range a.Entries {
		groups[entry.Quadrant] = append(groups[entry.Quadrant], entry)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].QualityScore > group[j].QualityScore
		})
	}
	return groups
}

func formatEntryScore(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
