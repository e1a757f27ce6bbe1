package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View draws the full UI (roster + chart pane + status line).
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	layout := m.calculateLayout()
	roster := m.renderRoster(layout.RosterWidth, layout.ContentHeight)
	chart := m.renderChart(layout.ChartWidth, layout.ContentHeight)
	row := lipgloss.JoinHorizontal(lipgloss.Top, roster, chart)
	// Clamp the pane row so the last terminal line is always reserved for footer status.
	row = padBlock(row, m.width, layout.ContentHeight)

	view := row + "\n" + m.renderStatus(m.width)
	return padBlock(view, m.width, m.height)
}

// renderPane draws content inside style so that the bordered pane is exactly
// width by height cells.
func renderPane(style lipgloss.Style, width, height int, content string) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	innerWidth := max(0, width-style.GetHorizontalFrameSize())
	innerHeight := max(0, height-style.GetVerticalFrameSize())
	body := padBlock(content, innerWidth, innerHeight)
	return style.
		Width(max(0, width-style.GetHorizontalBorderSize())).
		Height(max(0, height-style.GetVerticalBorderSize())).
		Render(body)
}

// renderRoster draws the left-hand roster pane from the rows materialized by
// the last syncRoster call.
func (m *Model) renderRoster(width, height int) string {
	innerWidth := max(0, width-rosterPane.GetHorizontalFrameSize())
	innerHeight := max(0, height-rosterPane.GetVerticalFrameSize())

	header := titleStyle.Render(fmt.Sprintf("Ward roster (%d)", m.censusSize()))
	lines := []string{truncate(header, innerWidth)}
	lines = append(lines, m.rosterLines(max(0, innerHeight-1))...)
	if len(m.patients) == 0 {
		empty := "(no patients)"
		if m.loading {
			empty = m.spinner.View() + " Loading patients..."
		}
		lines = append(lines, truncate(mutedStyle.Render(empty), innerWidth))
	}
	return renderPane(rosterPane, width, height, strings.Join(lines, "\n"))
}

// rosterLines cuts the rendered rows down to the lines that fall inside the
// viewport. The first rendered row usually starts above the scroll offset
// because of overscan.
func (m *Model) rosterLines(height int) []string {
	if height <= 0 || len(m.rows) == 0 {
		return nil
	}
	ws := m.roster.State()
	top := int(ws.ScrollOffset)
	bottom := top + height

	out := make([]string, 0, height)
	y := int(m.rows[0].Offset)
	for _, row := range m.rows {
		for _, line := range strings.Split(row.View, "\n") {
			if y >= top && y < bottom {
				out = append(out, line)
			}
			y++
		}
		if y >= bottom {
			break
		}
	}
	return out
}

// renderChart draws the right-hand pane: the selected patient's chart, or
// the help screen.
func (m *Model) renderChart(width, height int) string {
	innerWidth := max(0, width-chartPane.GetHorizontalFrameSize())

	label := "No patient selected"
	if p, ok := m.selectedPatient(); ok {
		label = fmt.Sprintf("%s · %s", p.MRN, p.Name)
	}
	content := m.viewport.View()
	if m.showHelp {
		label = "Help"
		content = m.helpContent()
	}
	header := truncate(titleStyle.Render(label), innerWidth)
	return renderPane(chartPane, width, height, header+"\n"+content)
}

// helpContent lists every action with its current key bindings.
func (m *Model) helpContent() string {
	entries := []struct {
		action string
		label  string
	}{
		{actionCursorUp, "Previous patient"},
		{actionCursorDown, "Next patient"},
		{actionPageUp, "Page up"},
		{actionPageDown, "Page down"},
		{actionJumpTop, "First patient"},
		{actionJumpBottom, "Last loaded patient"},
		{actionScrollUp, "Scroll roster up"},
		{actionScrollDown, "Scroll roster down"},
		{actionChartHalfUp, "Scroll chart up"},
		{actionChartHalfDown, "Scroll chart down"},
		{actionRefresh, "Re-measure roster / retry paging"},
		{actionHelp, "Toggle help"},
		{actionQuit, "Quit"},
	}
	lines := []string{"Keys", ""}
	for _, entry := range entries {
		keys := m.allActionKeys(entry.action, "unbound")
		lines = append(lines, fmt.Sprintf("%s  %s", helpKeyStyle.Render(fmt.Sprintf("%-18s", keys)), entry.label))
	}
	lines = append(lines, "", mutedStyle.Render("Mouse wheel scrolls the pane under the pointer."))
	return strings.Join(lines, "\n")
}

// renderStatus draws the single footer row: status message, window range,
// paging progress and the help hint.
func (m *Model) renderStatus(width int) string {
	segments := make([]string, 0, 4)
	if m.status != "" {
		status := m.status
		if m.statusIsError {
			status = errorStyle.Render(status)
		}
		segments = append(segments, status)
	}
	if ws := m.roster.State(); !ws.Empty() {
		segments = append(segments, fmt.Sprintf("rows %d-%d", ws.StartIndex+1, ws.EndIndex+1))
	}
	progress := fmt.Sprintf("%d/%d loaded", len(m.patients), m.censusSize())
	if m.loading {
		progress = m.spinner.View() + " " + progress
	}
	segments = append(segments, progress)
	segments = append(segments, m.primaryActionKey(actionHelp, "?")+" help")

	line := " " + truncate(strings.Join(segments, " │ "), max(0, width-1))
	return statusStyle.Width(width).Render(line)
}

// censusSize is the number of patients the source can supply.
func (m *Model) censusSize() int {
	if m.source == nil {
		return len(m.patients)
	}
	return m.source.Total()
}
