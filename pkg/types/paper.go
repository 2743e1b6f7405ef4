// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds the normalized metadata for one arXiv submission as parsed
// from the query API feed. Papers are immutable after parsing; downstream
// stages wrap them rather than mutating them.
type Paper struct {
	// ID is the canonical arXiv identifier (e.g. "2401.00001").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with internal line breaks collapsed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, whitespace-normalized.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the submission timestamp reported by the feed.
	Published time.Time `json:"published" yaml:"published"`

	// Link is the canonical abstract page URL.
	Link string `json:"link" yaml:"link"`

	// Categories is the set of arXiv category tags (e.g. "cs.CV").
	Categories []string `json:"categories" yaml:"categories"`

	// Comment is the free-text submission comment, when present. It often
	// carries acceptance or code-availability signals embedded in prose.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ScoredPaper is a Paper annotated with the relevance scorer's verdict.
// Created by the filter stage by merging scorer output onto the original
// paper by identifier; never fabricated for identifiers the fetch cycle
// did not produce.
type ScoredPaper struct {
	Paper `yaml:",inline"`

	// Score is the scorer's relevance rating on a 0-10 scale.
	Score int `json:"score" yaml:"score"`

	// HasCode reports whether the scorer found a code release signal.
	HasCode bool `json:"has_code" yaml:"has_code"`

	// Accepted reports whether the scorer found a venue acceptance signal.
	Accepted bool `json:"accepted" yaml:"accepted"`

	// Topics are short topical tags assigned by the scorer.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// Reason is the scorer's free-text justification.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// AnalyzedPaper is a ScoredPaper with the deep-analysis fields attached.
// All three fields stay empty when the per-item analysis call failed; the
// paper itself is never dropped.
type AnalyzedPaper struct {
	ScoredPaper `yaml:",inline"`

	// Innovation summarizes what is novel about the work.
	Innovation string `json:"innovation,omitempty" yaml:"innovation,omitempty"`

	// Methodology summarizes how the work achieves its results.
	Methodology string `json:"methodology,omitempty" yaml:"methodology,omitempty"`

	// Deployment summarizes the practical deployment value of the work.
	Deployment string `json:"deployment,omitempty" yaml:"deployment,omitempty"`
}
