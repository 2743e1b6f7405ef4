// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DateKeyLayout is the date-key format used throughout the store ("2006-01-02").
const DateKeyLayout = "2006-01-02"

// Stage names the three persisted pipeline stages.
type Stage string

const (
	StageRaw      Stage = "raw"
	StageFiltered Stage = "filtered"
	StageReport   Stage = "report"
)

// RawSnapshot is the persisted output of the fetch stage for one date.
type RawSnapshot struct {
	DateKey   string    `json:"date_key"`
	Timestamp time.Time `json:"timestamp"`
	Papers    []Paper   `json:"papers"`
}

// FilteredSnapshot is the persisted output of the filter stage for one date.
type FilteredSnapshot struct {
	DateKey   string        `json:"date_key"`
	Timestamp time.Time     `json:"timestamp"`
	Papers    []ScoredPaper `json:"papers"`
}

// ReportSnapshot is the persisted output of the analyze stage for one date.
// Report snapshots are the only stage retained beyond the current date.
type ReportSnapshot struct {
	DateKey   string          `json:"date_key"`
	Timestamp time.Time       `json:"timestamp"`
	Papers    []AnalyzedPaper `json:"papers"`
}

// Manifest indexes the retained report dates, newest first. It never holds
// more than the configured retention count after a report commit.
type Manifest struct {
	Dates []string `json:"dates"`
}

// Contains reports whether the manifest already references date.
func (m Manifest) Contains(date string) bool {
	for _, d := range m.Dates {
		if d == date {
			return true
		}
	}
	return false
}
