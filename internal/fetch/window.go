// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import "time"

// Acceptance windows for the fallback walk, expressed as durations relative
// to the anchor record. arXiv announces nothing over the weekend, so a Monday
// anchor must reach back across the two-day gap; any other day only needs to
// cover one announcement cycle plus timezone slop.
const (
	weekdayWindow = time.Duration(1.2 * 24 * float64(time.Hour))
	mondayWindow  = 4 * 24 * time.Hour
)

// Window returns the maximum age, relative to anchor, for a fallback record
// to count as part of the current cycle.
func Window(anchor time.Time) time.Duration {
	if anchor.Weekday() == time.Monday {
		return mondayWindow
	}
	return weekdayWindow
}
