/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main joins rubric and consensus score CSVs and renders the
// quadrant analysis as a markdown report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/changebench/corpus"
	"chainguard.dev/changebench/report"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rubricPath := flag.String("rubric", "", "path or URL of the rubric scores CSV")
	consensusPath := flag.String("consensus", "", "path or URL of the consensus scores CSV")
	outPath := flag.String("out", "", "optional path to write the report to (stdout when empty)")
	flag.Parse()

	if *rubricPath == "" || *consensusPath == "" {
		clog.FatalContextf(ctx, "both -rubric and -consensus are required")
	}

	store := corpus.New()
	rubricRecords, err := store.LoadRubricScores(ctx, *rubricPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading rubric scores: %v", err)
	}
	scores, err := store.LoadConsensusScores(ctx, *consensusPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading consensus scores: %v", err)
	}

	analysis, err := report.Analyze(rubricRecords, scores)
	if err != nil {
		clog.FatalContextf(ctx, "analyzing scores: %v", err)
	}

	rendered := analysis.Render()
	if *outPath == "" {
		fmt.Print(rendered)
		return
	}
	if err := store.SaveReport(ctx, *outPath, rendered); err != nil {
		clog.FatalContextf(ctx, "saving report: %v", err)
	}
	clog.InfoContextf(ctx, "Classified %d candidates, wrote %s", len(analysis.Entries), *outPath)
}
