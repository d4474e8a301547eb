/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"chainguard.dev/changebench/generation"
)

// fakeGenerator echoes its parameters so tests can check routing.
type fakeGenerator struct {
	name  string
	err   error
	calls atomic.Int32
}

func (f *fakeGenerator) Name() string { return f.name }

func (f *fakeGenerator) Generate(_ context.Context, req generation.Request) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("%s temp=%g", f.name, req.Temperature), nil
}

func TestGridRequests(t *testing.T) {
	grid := generation.Grid{
		Temperatures: []float64{0.5, 1.0},
		TopPs:        []float64{0.9},
		MaxTokens:    []int64{2000, 4000},
	}
	requests := grid.Requests("write a changelog")
	if len(requests) != 4 {
		t.Fatalf("request count: got = %d, wanted = 4", len(requests))
	}
	// Deterministic order: temperature outermost, max tokens innermost.
	if requests[0].Temperature != 0.5 || requests[0].MaxTokens != 2000 {
		t.Errorf("first request: got = %+v, wanted temp=0.5 max_tok=2000", requests[0])
	}
	if requests[3].Temperature != 1.0 || requests[3].MaxTokens != 4000 {
		t.Errorf("last request: got = %+v, wanted temp=1.0 max_tok=4000", requests[3])
	}
	for i, req := range requests {
		if req.Prompt != "write a changelog" {
			t.Errorf("request %d prompt: got = %q, wanted shared prompt", i, req.Prompt)
		}
	}
}

func TestRequestOutputName(t *testing.T) {
	req := generation.Request{Temperature: 0.7, TopP: 0.9, MaxTokens: 2000}
	got := req.OutputName("Claude_3.7")
	wanted := "Claude_3.7_temp-0.7_top_p-0.9_max_tok-2000.txt"
	if got != wanted {
		t.Errorf("OutputName(): got = %q, wanted = %q", got, wanted)
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     generation.Request
		wantErr bool
	}{{
		name: "valid",
		req:  generation.Request{Prompt: "p", Temperature: 0.7, TopP: 0.9, MaxTokens: 100},
	}, {
		name:    "empty prompt",
		req:     generation.Request{Temperature: 0.7, TopP: 0.9, MaxTokens: 100},
		wantErr: true,
	}, {
		name:    "temperature too high",
		req:     generation.Request{Prompt: "p", Temperature: 2.5, TopP: 0.9, MaxTokens: 100},
		wantErr: true,
	}, {
		name:    "zero top_p",
		req:     generation.Request{Prompt: "p", Temperature: 0.7, MaxTokens: 100},
		wantErr: true,
	}, {
		name:    "zero max tokens",
		req:     generation.Request{Prompt: "p", Temperature: 0.7, TopP: 0.9},
		wantErr: true,
	}}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestRunnerRun(t *testing.T) {
	gen1 := &fakeGenerator{name: "one"}
	gen2 := &fakeGenerator{name: "two"}
	runner, err := generation.NewRunner([]generation.Generator{gen1, gen2}, 4)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	grid := generation.Grid{
		Temperatures: []float64{0.5, 0.7},
		TopPs:        []float64{0.9},
		MaxTokens:    []int64{1000},
	}
	results, err := runner.Run(context.Background(), "prompt", grid)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("result count: got = %d, wanted = 4", len(results))
	}

	// Ordered by generator then by request.
	if results[0].Provider != "one" || results[2].Provider != "two" {
		t.Errorf("result ordering: got = [%s %s %s %s]",
			results[0].Provider, results[1].Provider, results[2].Provider, results[3].Provider)
	}
	if got := gen1.calls.Load(); got != 2 {
		t.Errorf("generator one calls: got = %d, wanted = 2", got)
	}
}

func TestRunnerRunRecordsFailures(t *testing.T) {
	boom := errors.New("rate limited")
	good := &fakeGenerator{name: "good"}
	bad := &fakeGenerator{name: "bad", err: boom}
	runner, err := generation.NewRunner([]generation.Generator{good, bad}, 2)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	grid := generation.Grid{Temperatures: []float64{0.7}, TopPs: []float64{0.9}, MaxTokens: []int64{1000}}
	results, err := runner.Run(context.Background(), "prompt", grid)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("result count: got = %d, wanted = 2", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("good result error: got = %v, wanted = nil", results[0].Err)
	}
	if !errors.Is(results[1].Err, boom) {
		t.Errorf("bad result error: got = %v, wanted = %v", results[1].Err, boom)
	}
	if results[1].Output != "" {
		t.Errorf("failed result output: got = %q, wanted empty", results[1].Output)
	}
}

func TestNewRunnerValidation(t *testing.T) {
	if _, err := generation.NewRunner(nil, 1); err == nil {
		t.Error("NewRunner(no generators) error = nil, wanted failure")
	}
	if _, err := generation.NewRunner([]generation.Generator{&fakeGenerator{name: "x"}}, 0); err == nil {
		t.Error("NewRunner(zero concurrency) error = nil, wanted failure")
	}
}
