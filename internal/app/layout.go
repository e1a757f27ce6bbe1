// layout.go centralizes all terminal layout calculations for the two-pane UI.
//
// The UI is laid out as a horizontal split: the roster pane on the left and
// the chart pane on the right, with a single footer row underneath. The
// roster pane's inner height is the viewport height handed to the list
// engine; its inner width decides how roster rows wrap and therefore how tall
// each row measures.
package app

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	RosterWidth    int // width allocated to the roster pane (including border/padding)
	ChartWidth     int // width allocated to the chart pane (remainder after roster)
	ContentHeight  int // total height available for pane content (terminal height minus footer)
	RowWidth       int // usable width for a roster row
	ListHeight     int // usable height for roster rows (after border and header)
	ViewportWidth  int // usable width inside the chart pane
	ViewportHeight int // usable height inside the chart pane (after border and header)
}

// calculateLayout computes all UI dimensions based on terminal size.
//
// The roster pane takes RosterWidthPercent of the terminal, but never less
// than MinRosterWidth (or more than the terminal). Both panes subtract their
// border/padding and one header row.
func (m *Model) calculateLayout() LayoutDimensions {
	rosterWidth := min(m.width, max(MinRosterWidth, m.width*RosterWidthPercent/100))
	chartWidth := max(0, m.width-rosterWidth)
	contentHeight := max(0, m.height-FooterRows)

	return LayoutDimensions{
		RosterWidth:    rosterWidth,
		ChartWidth:     chartWidth,
		ContentHeight:  contentHeight,
		RowWidth:       max(0, rosterWidth-rosterPane.GetHorizontalFrameSize()),
		ListHeight:     max(0, contentHeight-rosterPane.GetVerticalFrameSize()-1),
		ViewportWidth:  max(0, chartWidth-chartPane.GetHorizontalFrameSize()),
		ViewportHeight: max(0, contentHeight-chartPane.GetVerticalFrameSize()-1),
	}
}

// applyLayout pushes the calculated layout into the chart viewport and the
// roster engine. It reports whether the roster row width changed, which
// invalidates every measured row height.
func (m *Model) applyLayout(layout LayoutDimensions) bool {
	m.viewport.Width = layout.ViewportWidth
	m.viewport.Height = layout.ViewportHeight

	widthChanged := m.rowWidth != layout.RowWidth
	m.rowWidth = layout.RowWidth
	if widthChanged {
		m.roster.Reset()
	}
	m.roster.SetViewportHeight(float64(layout.ListHeight))
	return widthChanged
}
