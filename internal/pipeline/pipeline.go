// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the daily fetch → filter → analyze run. Each
// stage reads its input back from the store rather than passing it along in
// memory, so a rerun resumes from whichever stage last committed.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paperwatch/internal/analyze"
	"github.com/pdiddy/paperwatch/internal/filter"
	"github.com/pdiddy/paperwatch/internal/store"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// Fetcher produces the day's candidate papers. Satisfied by fetch.Fetcher;
// tests supply a mock.
type Fetcher interface {
	Latest(ctx context.Context) ([]types.Paper, error)
}

// Pipeline wires the stages together.
type Pipeline struct {
	Fetcher  Fetcher
	Scorer   filter.ScoreBackend
	Analyzer analyze.Backend
	Store    *store.StageStore
	Cfg      types.PipelineConfig
	Log      *zap.Logger

	// Now is a seam for tests running on synthetic dates; defaults to time.Now.
	Now func() time.Time
}

func (p *Pipeline) dateKey() string {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return now().Format(types.DateKeyLayout)
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// Run executes the full pipeline for today.
func (p *Pipeline) Run(ctx context.Context) error {
	log := p.logger()
	date := p.dateKey()
	log.Info("pipeline starting", zap.String("date", date))

	papers, err := p.Fetcher.Latest(ctx)
	if err != nil {
		return fmt.Errorf("fetch stage: %w", err)
	}
	log.Info("fetch complete", zap.Int("papers", len(papers)))

	if err := p.Store.CommitRaw(ctx, date, papers); err != nil {
		return fmt.Errorf("committing raw snapshot: %w", err)
	}

	return p.runFromFiltered(ctx, date)
}

// RunFrom resumes the pipeline at the named stage using today's committed
// snapshot for the stage before it.
func (p *Pipeline) RunFrom(ctx context.Context, stage types.Stage) error {
	date := p.dateKey()
	switch stage {
	case types.StageRaw:
		return p.Run(ctx)
	case types.StageFiltered:
		return p.runFromFiltered(ctx, date)
	case types.StageReport:
		return p.runFromReport(ctx, date)
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
}

// runFromFiltered re-reads the raw snapshot, scores it, and continues.
func (p *Pipeline) runFromFiltered(ctx context.Context, date string) error {
	log := p.logger()

	snap, err := p.Store.LoadRaw(ctx, date)
	if err != nil {
		return fmt.Errorf("loading raw snapshot: %w", err)
	}
	if snap == nil {
		return fmt.Errorf("no raw snapshot for %s; run the fetch stage first", date)
	}

	scored, err := filter.Run(ctx, p.Scorer, snap.Papers, p.Cfg.Filter, log)
	if err != nil {
		return fmt.Errorf("filter stage: %w", err)
	}
	log.Info("filter complete",
		zap.Int("in", len(snap.Papers)), zap.Int("kept", len(scored)))

	if err := p.Store.CommitFiltered(ctx, date, scored); err != nil {
		return fmt.Errorf("committing filtered snapshot: %w", err)
	}

	return p.runFromReport(ctx, date)
}

// runFromReport re-reads the filtered snapshot, analyzes it, and commits the
// report.
func (p *Pipeline) runFromReport(ctx context.Context, date string) error {
	log := p.logger()

	snap, err := p.Store.LoadFiltered(ctx, date)
	if err != nil {
		return fmt.Errorf("loading filtered snapshot: %w", err)
	}
	if snap == nil {
		return fmt.Errorf("no filtered snapshot for %s; run the filter stage first", date)
	}

	analyzed, err := analyze.Run(ctx, p.Analyzer, snap.Papers, p.Cfg.Analyze, log)
	if err != nil {
		return fmt.Errorf("analyze stage: %w", err)
	}
	log.Info("analysis complete", zap.Int("papers", len(analyzed)))

	if err := p.Store.CommitReport(ctx, date, analyzed); err != nil {
		return fmt.Errorf("committing report snapshot: %w", err)
	}

	log.Info("pipeline completed", zap.String("date", date))
	return nil
}
