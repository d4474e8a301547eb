/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main judges a folder of candidate texts against a scoring
// rubric using Claude, optionally calibrating the judge against human
// reference scores, and writes the totals to CSV.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/changebench/consensus"
	"chainguard.dev/changebench/corpus"
	"chainguard.dev/changebench/rubric"
)

type config struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY,required"`
	JudgeModel      string `env:"JUDGE_MODEL"`
	Concurrency     int    `env:"CONCURRENCY,default=4"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	promptPath := flag.String("prompt", "", "path or URL of the prompt file")
	candidatesDir := flag.String("candidates", "", "folder of candidate .txt files")
	outPath := flag.String("out", "rubric_scores.csv", "path to write the scores CSV to")
	specPath := flag.String("spec", "", "optional YAML scoring spec (changelog spec when empty)")
	observations := flag.String("observations", "", "observed format patterns to embed in the changelog spec")
	releaseNotes := flag.Bool("release-notes", false, "score with the release notes spec instead of the changelog spec")
	referencePath := flag.String("reference", "", "optional CSV of human reference scores to calibrate the judge with")
	flag.Parse()

	if *promptPath == "" || *candidatesDir == "" {
		clog.FatalContextf(ctx, "both -prompt and -candidates are required")
	}

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	spec, err := loadSpec(*specPath, *observations, *releaseNotes)
	if err != nil {
		clog.FatalContextf(ctx, "loading spec: %v", err)
	}

	store := corpus.New()
	prompt, err := store.LoadPrompt(ctx, *promptPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading prompt: %v", err)
	}
	candidates, err := store.LoadCandidates(ctx, *candidatesDir)
	if err != nil {
		clog.FatalContextf(ctx, "loading candidates: %v", err)
	}
	if len(candidates) == 0 {
		clog.FatalContextf(ctx, "no candidate .txt files found in %s", *candidatesDir)
	}

	var opts []rubric.ScorerOption
	if cfg.JudgeModel != "" {
		opts = append(opts, rubric.WithJudgeModel(cfg.JudgeModel))
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	scorer, err := rubric.NewClaudeScorer(client, spec, opts...)
	if err != nil {
		clog.FatalContextf(ctx, "creating scorer: %v", err)
	}

	var calibration *rubric.Calibration
	if *referencePath != "" {
		calibration, err = calibrate(ctx, store, scorer, prompt, candidates, *referencePath)
		if err != nil {
			clog.FatalContextf(ctx, "calibrating judge: %v", err)
		}
	}

	records, err := scoreAll(ctx, scorer, prompt, candidates, cfg.Concurrency, calibration)
	if err != nil {
		clog.FatalContextf(ctx, "scoring candidates: %v", err)
	}

	if err := store.SaveRubricScores(ctx, *outPath, records); err != nil {
		clog.FatalContextf(ctx, "saving scores: %v", err)
	}
	clog.InfoContextf(ctx, "Judged %d candidates, wrote %s", len(records), *outPath)
}

func loadSpec(specPath, observations string, releaseNotes bool) (rubric.Spec, error) {
	if specPath != "" {
		data, err := os.ReadFile(specPath)
		if err != nil {
			return nil, err
		}
		return rubric.ParseSpec(data)
	}
	if releaseNotes {
		return rubric.ReleaseNotesSpec(), nil
	}
	return rubric.ChangelogSpec(observations), nil
}

// calibrate fits the judge against human reference totals for the
// candidates named in the reference CSV.
func calibrate(ctx context.Context, store *corpus.Service, scorer rubric.Scorer, prompt string, candidates []consensus.Candidate, referencePath string) (*rubric.Calibration, error) {
	refs, err := store.LoadReferenceScores(ctx, referencePath)
	if err != nil {
		return nil, err
	}

	var examples []rubric.Example
	for _, candidate := range candidates {
		ref, ok := refs[candidate.ID]
		if !ok {
			continue
		}
		examples = append(examples, rubric.Example{Input: prompt, Output: candidate.Body, Score: ref})
	}

	calibration, err := rubric.Calibrate(ctx, scorer, examples)
	if err != nil {
		return nil, err
	}
	clog.InfoContextf(ctx, "Calibrated judge on %d examples (scale=%.4f bias=%.4f)", len(examples), calibration.Scale, calibration.Bias)
	return calibration, nil
}

// scoreAll judges every candidate with bounded concurrency and returns
// records in candidate order. When a calibration is supplied the rescaled
// total is recorded alongside the raw one.
func scoreAll(ctx context.Context, scorer rubric.Scorer, prompt string, candidates []consensus.Candidate, concurrency int, calibration *rubric.Calibration) ([]corpus.RubricRecord, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	records := make([]corpus.RubricRecord, len(candidates))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, candidate := range candidates {
		eg.Go(func() error {
			card, err := scorer.Score(ctx, rubric.Request{Input: prompt, Output: candidate.Body})
			if err != nil {
				return err
			}
			record := corpus.RubricRecord{ID: candidate.ID, TotalScore: card.TotalScore}
			if calibration != nil {
				rescaled := calibration.Apply(card.TotalScore)
				record.Calibrated = &rescaled
			}
			mu.Lock()
			records[i] = record
			mu.Unlock()
			clog.FromContext(ctx).With("candidate", candidate.ID).
				With("total", card.TotalScore).
				Info("Judged candidate")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
