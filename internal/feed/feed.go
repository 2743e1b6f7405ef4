// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed parses arXiv query API responses into normalized paper records.
package feed

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// Parse converts an arXiv Atom feed document into paper records. Entries
// without a recognizable identifier are skipped. A document that cannot be
// parsed at all yields an empty slice, never an error; the feed boundary is
// where malformed upstream data stops.
func Parse(doc []byte) []types.Paper {
	parser := gofeed.NewParser()
	parsed, err := parser.Parse(bytes.NewReader(doc))
	if err != nil || parsed == nil {
		return nil
	}

	var papers []types.Paper
	for _, item := range parsed.Items {
		id := ExtractID(firstNonEmpty(item.GUID, item.Link))
		if id == "" {
			continue
		}

		p := types.Paper{
			ID:       id,
			Title:    collapse(item.Title),
			Abstract: collapse(item.Description),
			Link:     firstNonEmpty(item.Link, item.GUID),
			Comment:  collapse(arxivExtension(item, "comment")),
		}

		for _, a := range item.Authors {
			if a == nil {
				continue
			}
			if name := strings.TrimSpace(a.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}

		for _, c := range item.Categories {
			if c = strings.TrimSpace(c); c != "" {
				p.Categories = append(p.Categories, c)
			}
		}

		if item.PublishedParsed != nil {
			p.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			p.Published = *item.UpdatedParsed
		}

		papers = append(papers, p)
	}
	return papers
}

// ExtractID pulls the arXiv ID from an abstract-page URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func ExtractID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// arxivExtension returns the text of an arxiv-namespace extension element
// such as <arxiv:comment>, or "" when absent.
func arxivExtension(item *gofeed.Item, name string) string {
	ns, ok := item.Extensions["arxiv"]
	if !ok {
		return ""
	}
	elems, ok := ns[name]
	if !ok || len(elems) == 0 {
		return ""
	}
	return elems[0].Value
}

// collapse trims s and folds internal runs of whitespace (including the
// line breaks arXiv wraps titles and abstracts with) into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
