/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package corpus

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/viant/afs/file"

	"chainguard.dev/changebench/consensus"
)

// RubricRecord is one judged candidate as persisted to CSV. Calibrated is
// the rescaled total when calibration ran, or nil when it did not.
type RubricRecord struct {
	ID         string
	TotalScore float64
	Calibrated *float64
}

// Preferred returns the calibrated total when present, the raw total
// otherwise.
func (r RubricRecord) Preferred() float64 {
	if r.Calibrated != nil {
		return *r.Calibrated
	}
	return r.TotalScore
}

func (s *Service) upload(ctx context.Context, targetURL string, data []byte) error {
	return s.fs.Upload(ctx, targetURL, file.DefaultFileOsMode, bytes.NewReader(data))
}

// SaveConsensusScores writes scores to a CSV at targetURL, sorted by final
// score descending with values rounded to four decimals.
func (s *Service) SaveConsensusScores(ctx context.Context, targetURL string, scores []consensus.Score) error {
	ordered := make([]consensus.Score, len(scores))
	copy(ordered, scores)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].FinalScore > ordered[j].FinalScore
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"model_name", "consensus_similarity", "prompt_similarity", "w_rep_inv", "final_consensus_score"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, score := range ordered {
		rounded := score.Rounded()
		record := []string{
			rounded.ID,
			formatScore(rounded.ConsensusSimilarity),
			formatScore(rounded.PromptSimilarity),
			formatScore(rounded.RepetitionInverse),
			formatScore(rounded.FinalScore),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record for %s: %w", score.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush scores: %w", err)
	}
	return s.upload(ctx, targetURL, buf.Bytes())
}

// LoadConsensusScores reads a CSV previously written by
// SaveConsensusScores.
func (s *Service) LoadConsensusScores(ctx context.Context, sourceURL string) ([]consensus.Score, error) {
	records, header, err := s.readCSV(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(header, "model_name", "consensus_similarity", "prompt_similarity", "w_rep_inv", "final_consensus_score")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceURL, err)
	}

	scores := make([]consensus.Score, 0, len(records))
	for i, record := range records {
		score := consensus.Score{ID: record[cols["model_name"]]}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"consensus_similarity", &score.ConsensusSimilarity},
			{"prompt_similarity", &score.PromptSimilarity},
			{"w_rep_inv", &score.RepetitionInverse},
			{"final_consensus_score", &score.FinalScore},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(record[cols[f.name]], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid %s: %w", sourceURL, i+1, f.name, err)
			}
			*f.dst = v
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// SaveRubricScores writes judged totals to a CSV at targetURL. The
// calibrated_total_score column is emitted only when at least one record
// carries a calibrated total.
func (s *Service) SaveRubricScores(ctx context.Context, targetURL string, records []RubricRecord) error {
	ordered := make([]RubricRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Preferred() > ordered[j].Preferred()
	})

	calibrated := false
	for _, r := range ordered {
		if r.Calibrated != nil {
			calibrated = true
			break
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"model_name", "total_score"}
	if calibrated {
		header = append(header, "calibrated_total_score")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range ordered {
		row := []string{r.ID, formatScore(r.TotalScore)}
		if calibrated {
			value := ""
			if r.Calibrated != nil {
				value = formatScore(*r.Calibrated)
			}
			row = append(row, value)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write record for %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush scores: %w", err)
	}
	return s.upload(ctx, targetURL, buf.Bytes())
}

// LoadRubricScores reads judged totals from a CSV at sourceURL. A
// calibrated_total_score column is picked up when present.
func (s *Service) LoadRubricScores(ctx context.Context, sourceURL string) ([]RubricRecord, error) {
	records, header, err := s.readCSV(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(header, "model_name", "total_score")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceURL, err)
	}
	calibratedCol := -1
	for i, name := range header {
		if name == "calibrated_total_score" {
			calibratedCol = i
			break
		}
	}

	out := make([]RubricRecord, 0, len(records))
	for i, record := range records {
		r := RubricRecord{ID: record[cols["model_name"]]}
		total, err := strconv.ParseFloat(record[cols["total_score"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid total_score: %w", sourceURL, i+1, err)
		}
		r.TotalScore = total
		if calibratedCol >= 0 && calibratedCol < len(record) && record[calibratedCol] != "" {
			v, err := strconv.ParseFloat(record[calibratedCol], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid calibrated_total_score: %w", sourceURL, i+1, err)
			}
			r.Calibrated = &v
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadReferenceScores reads human reference totals used for judge
// calibration, keyed by candidate ID. The CSV needs model_name and
// reference_score columns.
func (s *Service) LoadReferenceScores(ctx context.Context, sourceURL string) (map[string]float64, error) {
	records, header, err := s.readCSV(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(header, "model_name", "reference_score")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceURL, err)
	}

	refs := make(map[string]float64, len(records))
	for i, record := range records {
		v, err := strconv.ParseFloat(record[cols["reference_score"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid reference_score: %w", sourceURL, i+1, err)
		}
		refs[record[cols["model_name"]]] = v
	}
	return refs, nil
}

// SaveReport writes a rendered report to targetURL.
func (s *Service) SaveReport(ctx context.Context, targetURL, report string) error {
	if err := s.upload(ctx, targetURL, []byte(report)); err != nil {
		return fmt.Errorf("failed to save report %s: %w", targetURL, err)
	}
	return nil
}

func (s *Service) readCSV(ctx context.Context, sourceURL string) ([][]string, []string, error) {
	data, err := s.fs.DownloadWithURL(ctx, sourceURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", sourceURL, err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", sourceURL, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", sourceURL)
	}
	return rows[1:], rows[0], nil
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
