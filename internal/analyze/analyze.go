// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze enriches scored papers with per-paper deep analysis.
package analyze

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// Result holds the three analysis fields for one paper.
type Result struct {
	Innovation  string `json:"innovation"`
	Methodology string `json:"methodology"`
	Deployment  string `json:"deployment"`
}

// Backend analyzes a single paper. Tests supply a mock.
type Backend interface {
	Analyze(ctx context.Context, title, abstract string) (Result, error)
}

// Run analyzes every paper independently and returns exactly one output per
// input. A failed analysis leaves that paper's fields empty; it is never
// dropped and never cancels its siblings. In-flight calls are capped by
// cfg.Concurrency.
//
// Run fails immediately when no API key is configured.
func Run(ctx context.Context, backend Backend, papers []types.ScoredPaper, cfg types.AnalyzeConfig, log *zap.Logger) ([]types.AnalyzedPaper, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("analyze: no API key configured")
	}
	if log == nil {
		log = zap.NewNop()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 12
	}

	out := make([]types.AnalyzedPaper, len(papers))
	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup

	for i, p := range papers {
		out[i] = types.AnalyzedPaper{ScoredPaper: p}

		wg.Add(1)
		go func(i int, p types.ScoredPaper) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				log.Warn("analysis skipped", zap.String("id", p.ID), zap.Error(err))
				return
			}
			defer sem.Release(1)

			res, err := backend.Analyze(ctx, p.Title, p.Abstract)
			if err != nil {
				log.Warn("analysis failed", zap.String("id", p.ID), zap.Error(err))
				return
			}
			out[i].Innovation = res.Innovation
			out[i].Methodology = res.Methodology
			out[i].Deployment = res.Deployment
		}(i, p)
	}

	wg.Wait()
	return out, nil
}
