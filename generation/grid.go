/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation

import (
	"context"
	"errors"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Grid is a cartesian sweep over sampling parameters. Each combination is
// issued to every generator once.
type Grid struct {
	Temperatures []float64
	TopPs        []float64
	MaxTokens    []int64
}

// DefaultGrid returns the sweep used for changelog benchmarking runs.
func DefaultGrid() Grid {
	return Grid{
		Temperatures: []float64{0.5, 0.7, 1.0},
		TopPs:        []float64{0.5, 0.7, 0.9, 1.0},
		MaxTokens:    []int64{2000, 4000, 6000, 8000, 10000},
	}
}

// Requests expands the grid into one request per parameter combination, all
// sharing the given prompt. Order is deterministic: temperature, then top-p,
// then max tokens.
func (g Grid) Requests(prompt string) []Request {
	requests := make([]Request, 0, len(g.Temperatures)*len(g.TopPs)*len(g.MaxTokens))
	for _, temp := range g.Temperatures {
		for _, topP := range g.TopPs {
			for _, maxTok := range g.MaxTokens {
				requests = append(requests, Request{
					Prompt:      prompt,
					Temperature: temp,
					TopP:        topP,
					MaxTokens:   maxTok,
				})
			}
		}
	}
	return requests
}

// Result is the outcome of one generator/request pair. A failed run carries
// its error instead of aborting the sweep; grid searches routinely lose a few
// cells to provider hiccups and the rest are still useful.
type Result struct {
	// Provider is the generator's Name.
	Provider string

	// Request is the parameter combination that produced this result.
	Request Request

	// Output is the generated text; empty when Err is set.
	Output string

	// Err is the terminal error for this run, after retries.
	Err error
}

// OutputName returns the candidate filename for this result.
func (r Result) OutputName() string {
	return r.Request.OutputName(r.Provider)
}

// Runner executes a grid across a set of generators with bounded
// concurrency.
type Runner struct {
	generators  []Generator
	concurrency int
}

// NewRunner creates a Runner. Concurrency bounds the number of in-flight
// provider calls across all generators.
func NewRunner(generators []Generator, concurrency int) (*Runner, error) {
	if len(generators) == 0 {
		return nil, errors.New("at least one generator is required")
	}
	if concurrency <= 0 {
		return nil, errors.New("concurrency must be positive")
	}
	return &Runner{generators: generators, concurrency: concurrency}, nil
}

// Run issues every grid combination to every generator and returns one
// Result per run, ordered by generator then by request. Individual failures
// are recorded in their Result; Run itself only fails if the context is
// canceled before all runs complete.
func (r *Runner) Run(ctx context.Context, prompt string, grid Grid) ([]Result, error) {
	log := clog.FromContext(ctx)
	requests := grid.Requests(prompt)
	results := make([]Result, len(r.generators)*len(requests))

	log.With("generators", len(r.generators)).
		With("combinations", len(requests)).
		With("total_runs", len(results)).
		Info("Starting grid search")

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for gi, gen := range r.generators {
		for ri, req := range requests {
			idx := gi*len(requests) + ri
			group.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				output, err := gen.Generate(gctx, req)
				results[idx] = Result{
					Provider: gen.Name(),
					Request:  req,
					Output:   output,
					Err:      err,
				}
				if err != nil {
					log.With("provider", gen.Name()).
						With("output_name", req.OutputName(gen.Name())).
						With("error", err.Error()).
						Warn("Grid run failed")
				}
				// Per-run failures are recorded, not propagated: one rate-limited
				// cell must not cancel the rest of the sweep.
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
