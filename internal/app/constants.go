package app

import "time"

// Layout constants define the default dimensions and spacing for the UI
const (
	// MinRosterWidth is the narrowest the roster pane is allowed to get.
	MinRosterWidth = 36

	// RosterWidthPercent is the share of the terminal width given to the
	// roster pane when the terminal is wide enough.
	RosterWidthPercent = 55

	// FooterRows is the number of rows reserved for the status footer.
	FooterRows = 1

	// NameColumnWidth is the fixed width of the patient name column.
	NameColumnWidth = 22

	// RowIndent is the left indent for alert and allergy lines.
	RowIndent = 4
)

// Scrolling constants
const (
	// MouseScrollStep is the number of rows scrolled per wheel notch.
	MouseScrollStep = 3

	// MaxSyncPasses bounds how many render/measure rounds a single UI update
	// may spend settling the roster layout.
	MaxSyncPasses = 6
)

// Paging constants
const (
	// FetchTimeout bounds a single page fetch.
	FetchTimeout = 5 * time.Second
)

// Rendering constants control render timing and optimization
const (
	// RenderDebounce is the delay before rendering the selected chart, so
	// holding j/k does not render every patient passed over.
	RenderDebounce = 150 * time.Millisecond

	// RenderWidthBucket is the granularity for width-based render caching
	// Widths are rounded down to a multiple of this value
	RenderWidthBucket = 20

	// MaxChartCacheEntries bounds the rendered chart cache.
	MaxChartCacheEntries = 256
)
