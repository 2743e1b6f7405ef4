// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves newly announced arXiv papers. The primary path
// scrapes the category listing pages for identifiers and resolves them
// through the query API; when the scrape yields nothing it falls back to
// paging the query API sorted by submission date, bounded by an adaptive
// acceptance window anchored on the newest observed record.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paperwatch/internal/feed"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// queryAPIBase is the arXiv query API endpoint. Declared as a var so tests
// can substitute an httptest server.
var queryAPIBase = "https://export.arxiv.org/api/query"

// Fetcher retrieves the day's candidate papers.
type Fetcher struct {
	cfg    types.FetchConfig
	relays []Relay
	log    *zap.Logger
}

// New constructs a Fetcher. When relays is empty a default chain is built:
// a direct fetch, then an envelope proxy, then a prefix proxy, tried in that
// order for every outbound request.
func New(cfg types.FetchConfig, relays []Relay, log *zap.Logger) *Fetcher {
	if cfg.IDBatchSize <= 0 {
		cfg.IDBatchSize = 40
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxOffset <= 0 {
		cfg.MaxOffset = 1000
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = 3 * time.Second
	}
	if len(relays) == 0 {
		client := &http.Client{Timeout: cfg.Timeout}
		relays = []Relay{
			&DirectRelay{Client: client, UserAgent: cfg.UserAgent},
			&EnvelopeRelay{Client: client, Base: "https://api.allorigins.win/get?url=", UserAgent: cfg.UserAgent},
			&PrefixRelay{Client: client, Base: "https://corsproxy.io/?url=", UserAgent: cfg.UserAgent},
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{cfg: cfg, relays: relays, log: log}
}

// Latest returns today's candidate papers, deduplicated by identifier. It
// may return an empty slice. The fallback path activates when the listing
// scrape produces no identifiers.
func (f *Fetcher) Latest(ctx context.Context) ([]types.Paper, error) {
	ids := f.scrapeListings(ctx)
	if len(ids) > 0 {
		f.log.Info("listing scrape succeeded", zap.Int("ids", len(ids)))
		return dedup(f.resolveIDs(ctx, ids)), nil
	}

	f.log.Info("listing scrape empty, using fallback pagination")
	return f.fallback(ctx)
}

// resolveIDs fetches full metadata for the given identifiers from the query
// API in fixed-size batches. A failed batch contributes zero records; the
// remaining batches still resolve.
func (f *Fetcher) resolveIDs(ctx context.Context, ids []string) []types.Paper {
	var papers []types.Paper
	for start := 0; start < len(ids); start += f.cfg.IDBatchSize {
		end := start + f.cfg.IDBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		target := fmt.Sprintf("%s?id_list=%s&max_results=%d",
			queryAPIBase, strings.Join(batch, ","), len(batch))
		body, err := GetVia(ctx, f.relays, target)
		if err != nil {
			f.log.Warn("id batch failed", zap.Int("offset", start), zap.Error(err))
			continue
		}
		papers = append(papers, feed.Parse(body)...)
	}
	return papers
}

// fallback pages the query API sorted by submission date, newest first.
// The first record of the first page anchors the acceptance window; the walk
// stops at the first record older than the window, relying on the feed's
// non-increasing publication order within and across pages.
func (f *Fetcher) fallback(ctx context.Context) ([]types.Paper, error) {
	var (
		anchor time.Time
		window time.Duration
		out    []types.Paper
	)

	for offset := 0; offset <= f.cfg.MaxOffset; offset += f.cfg.PageSize {
		if offset > 0 && f.cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return dedup(out), ctx.Err()
			case <-time.After(f.cfg.PageDelay):
			}
		}

		target := fmt.Sprintf("%s?search_query=%s&start=%d&max_results=%d&sortBy=submittedDate&sortOrder=descending",
			queryAPIBase, f.categoryQuery(), offset, f.cfg.PageSize)
		body, err := GetVia(ctx, f.relays, target)
		if err != nil {
			if offset == 0 {
				// No other source of data remains at this point.
				return nil, fmt.Errorf("fallback fetch: %w", err)
			}
			f.log.Warn("fallback page failed", zap.Int("offset", offset), zap.Error(err))
			break
		}

		papers := feed.Parse(body)
		if len(papers) == 0 {
			break
		}

		if anchor.IsZero() {
			anchor = papers[0].Published
			window = Window(anchor)
			f.log.Info("fallback anchor established",
				zap.Time("anchor", anchor), zap.Duration("window", window))
		}

		outside := false
		for _, p := range papers {
			if anchor.Sub(p.Published) > window {
				outside = true
				break
			}
			out = append(out, p)
		}
		if outside || len(papers) < f.cfg.PageSize {
			break
		}
	}

	return dedup(out), nil
}

// categoryQuery builds the fallback boolean category expression
// (e.g. "cat:cs.CV+OR+cat:cs.AI").
func (f *Fetcher) categoryQuery() string {
	parts := make([]string, 0, len(f.cfg.Categories))
	for _, c := range f.cfg.Categories {
		parts = append(parts, "cat:"+c)
	}
	return strings.Join(parts, "+OR+")
}

// dedup keeps the first occurrence of each identifier.
func dedup(papers []types.Paper) []types.Paper {
	seen := make(map[string]bool, len(papers))
	var out []types.Paper
	for _, p := range papers {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
