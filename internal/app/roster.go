// roster.go drives the virtualized patient roster.
//
// The roster pane never renders more than the engine's current window. After
// every input that can move the window (keys, wheel, resize, page loads) the
// model calls syncRoster, which renders the window, measures each rendered
// row with lipgloss.Height and reports the heights back to the engine. Rows
// wrap with the pane width, so heights are only known after rendering; a
// measurement that changes the layout makes the engine recompute the window,
// and syncRoster goes round again until nothing changes or MaxSyncPasses is
// reached.
//
// Paging is driven by the engine's end-reached signal: the hook only sets
// wantMore, and maybeFetch turns that into at most one fetch command in
// flight at a time.
package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/treykane/ward-roster/internal/records"
)

// maxFetchFailures stops automatic paging after repeated errors. A manual
// refresh clears the counter.
const maxFetchFailures = 3

// pageLoadedMsg carries a fetched page back to Update.
type pageLoadedMsg struct {
	offset   int
	patients []records.Patient
	err      error
}

// renderPatientRow renders one roster row. The first line carries the
// acuity badge, name and location; alerts and allergies wrap onto indented
// lines below it.
func (m *Model) renderPatientRow(p records.Patient, index int) string {
	width := max(1, m.rowWidth)
	selected := index == m.cursor

	name := runewidth.FillRight(runewidth.Truncate(p.Name, NameColumnWidth, "…"), NameColumnWidth)
	var head string
	if selected {
		plain := fmt.Sprintf("▌%s %s %s %3d%s", acuityLabel(p.Acuity), name, p.Location(), p.Age, p.Sex)
		head = selectedStyle.Width(width).Render(truncate(plain, width))
	} else {
		head = truncate(fmt.Sprintf(" %s %s %s %s", acuityBadge(p.Acuity), titleStyle.Render(name),
			p.Location(), mutedStyle.Render(fmt.Sprintf("%3d%s", p.Age, p.Sex))), width)
	}

	lines := []string{head}
	if len(p.Alerts) > 0 {
		lines = append(lines, wrapDetail(alertStyle, "! "+strings.Join(p.Alerts, " · "), width))
	}
	if len(p.Allergies) > 0 {
		lines = append(lines, wrapDetail(allergyStyle, "Allergies: "+strings.Join(p.Allergies, ", "), width))
	}
	row := strings.Join(lines, "\n")
	if fixed := m.cfg.FixedRowHeight; fixed > 0 {
		row = padBlock(row, width, fixed)
	}
	return row
}

// wrapDetail word-wraps text to the row width, indented by RowIndent.
func wrapDetail(style lipgloss.Style, text string, width int) string {
	inner := max(1, width-RowIndent)
	wrapped := style.Width(inner).Render(text)
	return lipgloss.NewStyle().PaddingLeft(RowIndent).Render(wrapped)
}

// syncRoster renders the current window and feeds measured row heights back
// to the engine until the layout settles.
func (m *Model) syncRoster() {
	controller := m.roster.Controller()
	for pass := 0; pass < MaxSyncPasses; pass++ {
		version := controller.Version()
		m.rows = m.roster.Visible()
		for _, row := range m.rows {
			m.roster.Measure(row.Index, float64(lipgloss.Height(row.View)))
		}
		if controller.Version() == version {
			return
		}
	}
	m.rows = m.roster.Visible()
	appLog.Warn("roster layout did not settle", "passes", MaxSyncPasses, "cursor", m.cursor)
}

// revealCursor scrolls the roster so the selected row is fully visible.
// Scrolling can bring unmeasured rows into view and shift the selected row
// again, so it repeats until the window stops moving.
func (m *Model) revealCursor() {
	controller := m.roster.Controller()
	for pass := 0; pass < MaxSyncPasses; pass++ {
		version := controller.Version()
		m.roster.EnsureVisible(m.cursor)
		m.syncRoster()
		if controller.Version() == version {
			return
		}
	}
}

// selectedPatient returns the patient under the cursor.
func (m *Model) selectedPatient() (records.Patient, bool) {
	if m.cursor < 0 || m.cursor >= len(m.patients) {
		return records.Patient{}, false
	}
	return m.patients[m.cursor], true
}

// moveCursor moves the selection by delta rows and shows the new chart.
func (m *Model) moveCursor(delta int) tea.Cmd {
	if len(m.patients) == 0 {
		return nil
	}
	return m.selectIndex(m.cursor + delta)
}

// selectIndex moves the selection to index i (clamped) and shows its chart.
func (m *Model) selectIndex(i int) tea.Cmd {
	if len(m.patients) == 0 {
		return nil
	}
	m.cursor = clamp(i, 0, len(m.patients)-1)
	m.revealCursor()
	return m.showSelectedChart()
}

// pageRoster scrolls a full viewport up (direction < 0) or down and moves
// the selection to the first row whose top edge is on screen.
func (m *Model) pageRoster(direction int) tea.Cmd {
	if len(m.patients) == 0 {
		return nil
	}
	before := m.roster.State()
	m.roster.ScrollBy(float64(direction) * before.ViewportHeight)
	m.syncRoster()

	after := m.roster.State()
	switch {
	case after.ScrollOffset == before.ScrollOffset && direction > 0:
		m.cursor = len(m.patients) - 1
	case after.ScrollOffset == before.ScrollOffset && direction < 0:
		m.cursor = 0
	default:
		if i, ok := m.firstVisibleIndex(); ok {
			m.cursor = i
		}
	}
	m.revealCursor()
	return m.showSelectedChart()
}

// scrollRoster scrolls by delta rows without moving the selection.
func (m *Model) scrollRoster(delta int) {
	m.roster.ScrollBy(float64(delta))
	m.syncRoster()
}

// firstVisibleIndex returns the first rendered row whose top edge is inside
// the viewport.
func (m *Model) firstVisibleIndex() (int, bool) {
	ws := m.roster.State()
	for _, row := range m.rows {
		if row.Offset >= ws.ScrollOffset {
			return row.Index, true
		}
	}
	if len(m.rows) > 0 {
		return m.rows[len(m.rows)-1].Index, true
	}
	return 0, false
}

// requestMore is the engine's end-reached hook.
func (m *Model) requestMore() {
	m.wantMore = true
}

// maybeFetch starts a page fetch when the engine asked for more rows and no
// fetch is already running.
func (m *Model) maybeFetch() tea.Cmd {
	if !m.wantMore {
		return nil
	}
	m.wantMore = false
	if m.loading || m.exhausted || m.source == nil || m.fetchErrs >= maxFetchFailures {
		return nil
	}
	if len(m.patients) >= m.source.Total() {
		m.exhausted = true
		return nil
	}
	m.loading = true
	return fetchPageCmd(m.source, len(m.patients), m.cfg.PageSize)
}

// fetchPageCmd fetches one page on a background goroutine.
func fetchPageCmd(source PatientSource, offset, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), FetchTimeout)
		defer cancel()
		patients, err := source.Page(ctx, offset, limit)
		return pageLoadedMsg{offset: offset, patients: patients, err: err}
	}
}

// handlePageLoaded appends a fetched page to the roster.
func (m *Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.fetchErrs++
		m.setStatusError("Could not load patients", msg.err, "offset", msg.offset)
		return m, nil
	}
	if msg.offset != len(m.patients) {
		appLog.Debug("drop stale page", "offset", msg.offset, "loaded", len(m.patients))
		return m, m.maybeFetch()
	}
	m.fetchErrs = 0
	if len(msg.patients) == 0 {
		m.exhausted = true
		return m, nil
	}

	first := len(m.patients) == 0
	m.patients = append(m.patients, msg.patients...)
	m.roster.SetItems(m.patients)
	m.syncRoster()
	m.setStatus(fmt.Sprintf("Loaded %d of %d patients", len(m.patients), m.source.Total()))

	var cmd tea.Cmd
	if first {
		cmd = m.showSelectedChart()
	}
	return m, tea.Batch(cmd, m.maybeFetch())
}

// refreshRoster drops every measured row height and re-renders the window.
func (m *Model) refreshRoster() {
	m.roster.Reset()
	m.fetchErrs = 0
	m.wantMore = !m.exhausted
	m.revealCursor()
	m.setStatus("Refreshed")
}
