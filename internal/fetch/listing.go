// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

// listingBase is the arXiv "new submissions" listing page root. Declared as
// a var so tests can substitute an httptest server.
var listingBase = "https://arxiv.org/list"

// absPattern matches abstract-page path fragments on a listing page.
var absPattern = regexp.MustCompile(`/abs/(\d{4}\.\d{4,5})`)

// listingFanout is the fixed number of listing pages scraped per cycle.
const listingFanout = 2

// scrapeListings fetches the first listingFanout category listing pages
// concurrently and returns the merged, deduplicated identifier set. A page
// that fails contributes zero identifiers; only the identifiers decide
// whether the primary path is usable.
func (f *Fetcher) scrapeListings(ctx context.Context) []string {
	cats := f.cfg.Categories
	if len(cats) > listingFanout {
		cats = cats[:listingFanout]
	}

	type pageResult struct {
		ids []string
		err error
		cat string
	}

	ch := make(chan pageResult, len(cats))
	var wg sync.WaitGroup

	for _, cat := range cats {
		wg.Add(1)
		go func(cat string) {
			defer wg.Done()
			target := fmt.Sprintf("%s/%s/new", listingBase, cat)
			body, err := GetVia(ctx, f.relays, target)
			if err != nil {
				ch <- pageResult{err: err, cat: cat}
				return
			}
			ch <- pageResult{ids: extractIDs(body), cat: cat}
		}(cat)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var merged []string
	seen := make(map[string]bool)
	for pr := range ch {
		if pr.err != nil {
			f.log.Warn("listing scrape failed",
				zap.String("category", pr.cat), zap.Error(pr.err))
			continue
		}
		for _, id := range pr.ids {
			if !seen[id] {
				seen[id] = true
				merged = append(merged, id)
			}
		}
	}
	return merged
}

// extractIDs returns the identifiers found in a listing document, first
// occurrence order, duplicates removed.
func extractIDs(doc []byte) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range absPattern.FindAllSubmatch(doc, -1) {
		id := string(m[1])
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
