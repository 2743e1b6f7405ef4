// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter scores fetched papers for topical relevance in batches and
// keeps the papers the scorer returns.
package filter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// BatchEntry is the condensed view of a paper sent to the scorer.
type BatchEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Comment  string `json:"comment,omitempty"`
}

// Verdict is one scorer result. The scorer's contract is to return only
// papers at or above the rubric threshold; verdicts are accepted as returned
// and never re-checked locally.
type Verdict struct {
	ID       string   `json:"id"`
	Score    int      `json:"score"`
	HasCode  bool     `json:"has_code"`
	Accepted bool     `json:"accepted"`
	Topics   []string `json:"topics"`
	Reason   string   `json:"reason"`
}

// ScoreBackend scores one batch of condensed papers. Implementations handle
// transport and response parsing; tests supply a mock.
type ScoreBackend interface {
	Score(ctx context.Context, batch []BatchEntry) ([]Verdict, error)
}

// Run partitions papers into batches and scores them sequentially, merging
// verdicts back onto the original papers by identifier. Reconciliation is
// scoped to the batch that was sent: a verdict citing an identifier outside
// it, including one from another batch, is dropped, never fabricated into a
// record. A failed batch contributes zero papers and the run continues.
//
// Run fails immediately when no API key is configured; that is an operator
// configuration error, not a runtime fault.
func Run(ctx context.Context, backend ScoreBackend, papers []types.Paper, cfg types.FilterConfig, log *zap.Logger) ([]types.ScoredPaper, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("filter: no API key configured")
	}
	if log == nil {
		log = zap.NewNop()
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	var scored []types.ScoredPaper
	for start := 0; start < len(papers); start += batchSize {
		end := start + batchSize
		if end > len(papers) {
			end = len(papers)
		}

		byID := make(map[string]types.Paper, end-start)
		batch := make([]BatchEntry, 0, end-start)
		for _, p := range papers[start:end] {
			byID[p.ID] = p
			batch = append(batch, BatchEntry{
				ID:       p.ID,
				Title:    p.Title,
				Abstract: p.Abstract,
				Comment:  p.Comment,
			})
		}

		verdicts, err := backend.Score(ctx, batch)
		if err != nil {
			log.Warn("score batch failed", zap.Int("offset", start), zap.Error(err))
			continue
		}

		for _, v := range verdicts {
			p, ok := byID[v.ID]
			if !ok {
				log.Warn("scorer returned unknown id", zap.String("id", v.ID))
				continue
			}
			scored = append(scored, types.ScoredPaper{
				Paper:    p,
				Score:    v.Score,
				HasCode:  v.HasCode,
				Accepted: v.Accepted,
				Topics:   v.Topics,
				Reason:   v.Reason,
			})
		}
	}

	return scored, nil
}
