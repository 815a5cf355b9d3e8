package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the rating and year
	// columns are dropped.
	LayoutCompactWidth = 70

	// LayoutOverviewWidth is the minimum width for the side overview pane.
	LayoutOverviewWidth = 120
)

// List behavior.
const (
	// LoadMoreThreshold is how close to the end of the list the selection
	// must be before the next page is requested.
	LoadMoreThreshold = 5

	// RestoreMaxAttempts bounds how many arriving pages a pending selection
	// restore waits for before giving up.
	RestoreMaxAttempts = 5
)

// Timing constants.
const (
	// DefaultFetchTimeout bounds every upstream call issued by the UI.
	DefaultFetchTimeout = 15 * time.Second
)
