/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package corpus loads prompt and candidate texts and persists score
// records. All locations are afs URLs, so a corpus can live on local disk,
// in an archive, or in object storage without the callers changing.
package corpus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"chainguard.dev/changebench/consensus"
	"chainguard.dev/changebench/generation"
)

// Service reads and writes corpus artifacts.
type Service struct {
	fs afs.Service
}

// New constructs a Service backed by the default afs service.
func New() *Service {
	return &Service{fs: afs.New()}
}

// LoadPrompt reads the reference prompt from the given URL.
func (s *Service) LoadPrompt(ctx context.Context, promptURL string) (string, error) {
	data, err := s.fs.DownloadWithURL(ctx, promptURL)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt %s: %w", promptURL, err)
	}
	prompt := string(data)
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt %s is empty", promptURL)
	}
	return prompt, nil
}

// LoadCandidates reads every .txt file directly under folderURL as one
// candidate, using the filename as the candidate ID. Files are ordered by
// name so discovery order is stable across runs and filesystems.
func (s *Service) LoadCandidates(ctx context.Context, folderURL string) ([]consensus.Candidate, error) {
	objects, err := s.fs.List(ctx, folderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", folderURL, err)
	}

	var names []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".txt") {
			continue
		}
		names = append(names, object.Name())
	}
	sort.Strings(names)

	candidates := make([]consensus.Candidate, 0, len(names))
	for _, name := range names {
		data, err := s.fs.DownloadWithURL(ctx, url.Join(folderURL, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read candidate %s: %w", name, err)
		}
		candidates = append(candidates, consensus.Candidate{ID: name, Body: string(data)})
	}

	clog.FromContext(ctx).With("folder", folderURL).
		With("candidates", len(candidates)).
		Info("Loaded candidate corpus")
	return candidates, nil
}

// SaveResults writes every successful grid result under folderURL, named by
// provider and sampling parameters. Failed runs are skipped; the count of
// saved files is returned.
func (s *Service) SaveResults(ctx context.Context, folderURL string, results []generation.Result) (int, error) {
	log := clog.FromContext(ctx)
	saved := 0
	for _, r := range results {
		if r.Err != nil || r.Output == "" {
			continue
		}
		target := url.Join(folderURL, r.OutputName())
		if err := s.upload(ctx, target, []byte(r.Output)); err != nil {
			return saved, fmt.Errorf("failed to save %s: %w", r.OutputName(), err)
		}
		saved++
		log.With("file", r.OutputName()).Info("Saved generated output")
	}
	return saved, nil
}
