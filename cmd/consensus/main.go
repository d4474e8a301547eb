/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main scores a folder of candidate texts against each other and
// the prompt that produced them, writing the ranked scores to CSV.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/changebench/consensus"
	"chainguard.dev/changebench/corpus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	promptPath := flag.String("prompt", "", "path or URL of the prompt file")
	candidatesDir := flag.String("candidates", "", "folder of candidate .txt files")
	outPath := flag.String("out", "consensus_scores.csv", "path to write the scores CSV to")
	flag.Parse()

	if *promptPath == "" || *candidatesDir == "" {
		clog.FatalContextf(ctx, "both -prompt and -candidates are required")
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

	scores, err := consensus.ScoreCandidates(prompt, candidates)
	if err != nil {
		clog.FatalContextf(ctx, "scoring candidates: %v", err)
	}

	if err := store.SaveConsensusScores(ctx, *outPath, scores); err != nil {
		clog.FatalContextf(ctx, "saving scores: %v", err)
	}

	best := scores[0]
	for _, score := range scores[1:] {
		if score.FinalScore > best.FinalScore {
			best = score
		}
	}
	clog.InfoContextf(ctx, "Scored %d candidates, best %s (%.4f), wrote %s", len(scores), best.ID, best.FinalScore, *outPath)
}
