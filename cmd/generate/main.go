/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main generates candidate texts by sweeping a sampling parameter
// grid across every configured model provider and saving each output to
// the corpus folder.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"github.com/sethvargo/go-envconfig"
	"google.golang.org/genai"

	"chainguard.dev/changebench/corpus"
	"chainguard.dev/changebench/generation"
)

type config struct {
	AnthropicAPIKey   string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey      string `env:"OPENAI_API_KEY"`
	HuggingFaceAPIKey string `env:"HF_API_KEY"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`

	ClaudeModel string `env:"CLAUDE_MODEL"`
	OpenAIModel string `env:"OPENAI_MODEL"`
	GeminiModel string `env:"GEMINI_MODEL"`

	Concurrency int `env:"CONCURRENCY,default=4"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	promptPath := flag.String("prompt", "", "path or URL of the prompt file")
	outputDir := flag.String("output", "", "folder to save generated outputs to")
	temps := flag.String("temperatures", "", "comma-separated temperatures (default grid when empty)")
	topPs := flag.String("top-ps", "", "comma-separated top_p values (default grid when empty)")
	maxTokens := flag.String("max-tokens", "", "comma-separated max token counts (default grid when empty)")
	flag.Parse()

	if *promptPath == "" || *outputDir == "" {
		clog.FatalContextf(ctx, "both -prompt and -output are required")
	}

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	grid, err := buildGrid(*temps, *topPs, *maxTokens)
	if err != nil {
		clog.FatalContextf(ctx, "building grid: %v", err)
	}

	generators, err := buildGenerators(ctx, &cfg)
	if err != nil {
		clog.FatalContextf(ctx, "building generators: %v", err)
	}
	if len(generators) == 0 {
		clog.FatalContextf(ctx, "no provider API keys configured, set at least one of ANTHROPIC_API_KEY, OPENAI_API_KEY, HF_API_KEY, GEMINI_API_KEY")
	}

	store := corpus.New()
	prompt, err := store.LoadPrompt(ctx, *promptPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading prompt: %v", err)
	}

	runner, err := generation.NewRunner(generators, cfg.Concurrency)
	if err != nil {
		clog.FatalContextf(ctx, "creating runner: %v", err)
	}

	clog.InfoContextf(ctx, "Generating %d outputs across %d providers", len(grid.Requests(prompt))*len(generators), len(generators))
	results, err := runner.Run(ctx, prompt, grid)
	if err != nil {
		clog.FatalContextf(ctx, "running grid: %v", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			clog.FromContext(ctx).With("output", r.OutputName()).
				With("error", r.Err).
				Warn("Generation failed")
		}
	}

	saved, err := store.SaveResults(ctx, *outputDir, results)
	if err != nil {
		clog.FatalContextf(ctx, "saving outputs: %v", err)
	}
	clog.InfoContextf(ctx, "Saved %d outputs to %s (%d failures)", saved, *outputDir, failed)
}

func buildGenerators(ctx context.Context, cfg *config) ([]generation.Generator, error) {
	var generators []generation.Generator

	if cfg.AnthropicAPIKey != "" {
		var opts []generation.Option
		if cfg.ClaudeModel != "" {
			opts = append(opts, generation.WithModel(cfg.ClaudeModel))
		}
		client := anthropic.NewClient(anthropicoption.WithAPIKey(cfg.AnthropicAPIKey))
		g, err := generation.NewClaude(client, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating Claude generator: %w", err)
		}
		generators = append(generators, g)
	}

	if cfg.OpenAIAPIKey != "" {
		var opts []generation.Option
		if cfg.OpenAIModel != "" {
			opts = append(opts, generation.WithModel(cfg.OpenAIModel))
		}
		client := openai.NewClient(openaioption.WithAPIKey(cfg.OpenAIAPIKey))
		g, err := generation.NewOpenAI(client, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating OpenAI generator: %w", err)
		}
		generators = append(generators, g)
	}

	if cfg.HuggingFaceAPIKey != "" {
		g, err := generation.NewLlama(cfg.HuggingFaceAPIKey)
		if err != nil {
			return nil, fmt.Errorf("creating Llama generator: %w", err)
		}
		generators = append(generators, g)
	}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("creating Gemini client: %w", err)
		}
		var opts []generation.Option
		if cfg.GeminiModel != "" {
			opts = append(opts, generation.WithModel(cfg.GeminiModel))
		}
		g, err := generation.NewGemini(client, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating Gemini generator: %w", err)
		}
		generators = append(generators, g)
	}

	return generators, nil
}

func buildGrid(temps, topPs, maxTokens string) (generation.Grid, error) {
	grid := generation.DefaultGrid()
	if temps != "" {
		vs, err := parseFloats(temps)
		if err != nil {
			return generation.Grid{}, fmt.Errorf("invalid -temperatures: %w", err)
		}
		grid.Temperatures = vs
	}
	if topPs != "" {
		vs, err := parseFloats(topPs)
		if err != nil {
			return generation.Grid{}, fmt.Errorf("invalid -top-ps: %w", err)
		}
		grid.TopPs = vs
	}
	if maxTokens != "" {
		var vs []int64
		for _, s := range strings.Split(maxTokens, ",") {
			v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return generation.Grid{}, fmt.Errorf("invalid -max-tokens: %w", err)
			}
			vs = append(vs, v)
		}
		grid.MaxTokens = vs
	}
	return grid, nil
}

func parseFloats(s string) ([]float64, error) {
	var vs []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}
