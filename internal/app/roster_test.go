package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/ward-roster/internal/config"
	"github.com/treykane/ward-roster/internal/records"
	"github.com/treykane/ward-roster/internal/virtual"
)

type fakeSource struct {
	store *records.Store
	calls int
	err   error
}

func (f *fakeSource) Total() int {
	return f.store.Total()
}

func (f *fakeSource) Page(ctx context.Context, offset, limit int) ([]records.Patient, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.store.Page(ctx, offset, limit)
}

func newTestModel(t *testing.T, total int) (*Model, *fakeSource) {
	t.Helper()
	t.Setenv("WARD_ROSTER_GLAMOUR_STYLE", "notty")
	cfg := config.Default()
	src := &fakeSource{store: records.NewStore(total, 7)}
	m, err := New(cfg, src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m, src
}

// collect runs cmd and every command batched inside it, returning the
// resulting messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// findPage returns the page message produced by cmd.
func findPage(t *testing.T, cmd tea.Cmd) pageLoadedMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if page, ok := msg.(pageLoadedMsg); ok {
			return page
		}
	}
	t.Fatal("expected a page fetch command")
	return pageLoadedMsg{}
}

// startRoster sizes the terminal and loads the first page.
func startRoster(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.handleWindowResize(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(findPage(t, cmd))
}

func assertRowsMeasured(t *testing.T, m *Model) {
	t.Helper()
	if len(m.rows) == 0 {
		t.Fatal("expected rendered roster rows")
	}
	for _, row := range m.rows {
		if state := m.roster.ItemState(row.Index); state != virtual.Measured {
			t.Fatalf("row %d state = %v, want measured", row.Index, state)
		}
		if got, want := m.roster.HeightOf(row.Index), float64(lipgloss.Height(row.View)); got != want {
			t.Fatalf("row %d height = %v, rendered %v", row.Index, got, want)
		}
	}
}

func TestResizeRequestsFirstPage(t *testing.T) {
	m, src := newTestModel(t, 120)
	_, cmd := m.handleWindowResize(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !m.loading {
		t.Fatal("expected the empty roster to request its first page")
	}
	page := findPage(t, cmd)
	if page.offset != 0 || len(page.patients) != m.cfg.PageSize {
		t.Fatalf("unexpected first page offset=%d len=%d", page.offset, len(page.patients))
	}
	if src.calls != 1 {
		t.Fatalf("expected one fetch, got %d", src.calls)
	}
}

func TestPageLoadMeasuresVisibleRows(t *testing.T) {
	m, _ := newTestModel(t, 120)
	startRoster(t, m)

	if len(m.patients) != m.cfg.PageSize {
		t.Fatalf("expected %d patients, got %d", m.cfg.PageSize, len(m.patients))
	}
	if m.loading {
		t.Fatal("a full first page should not immediately request another")
	}
	if m.rows[0].Index != 0 {
		t.Fatalf("expected first rendered row 0, got %d", m.rows[0].Index)
	}
	assertRowsMeasured(t, m)
	if m.currentMRN != m.patients[0].MRN {
		t.Fatalf("expected first patient chart to be selected, got %q", m.currentMRN)
	}
}

func TestJumpBottomLoadsNextPage(t *testing.T) {
	m, _ := newTestModel(t, 120)
	startRoster(t, m)

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnd})
	last := m.cfg.PageSize - 1
	if m.cursor != last {
		t.Fatalf("expected cursor on %d, got %d", last, m.cursor)
	}
	if ws := m.roster.State(); ws.EndIndex != last {
		t.Fatalf("expected window to end at %d, got %+v", last, ws)
	}
	if !m.loading {
		t.Fatal("expected reaching the end to request the next page")
	}

	m.Update(findPage(t, cmd))
	if len(m.patients) != 2*m.cfg.PageSize {
		t.Fatalf("expected %d patients, got %d", 2*m.cfg.PageSize, len(m.patients))
	}
	if m.cursor != last {
		t.Fatalf("appending a page must not move the cursor, got %d", m.cursor)
	}
	assertRowsMeasured(t, m)
}

func TestCursorStaysVisibleWhileMovingDown(t *testing.T) {
	m, _ := newTestModel(t, 120)
	startRoster(t, m)

	for i := 0; i < 30; i++ {
		m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
		ws := m.roster.State()
		top := m.roster.OffsetOf(m.cursor)
		bottom := top + m.roster.HeightOf(m.cursor)
		if top < ws.ScrollOffset || bottom > ws.ScrollOffset+ws.ViewportHeight {
			t.Fatalf("cursor %d [%v,%v) outside viewport %+v", m.cursor, top, bottom, ws)
		}
	}
	if m.cursor != 30 {
		t.Fatalf("expected cursor 30, got %d", m.cursor)
	}
}

func TestStalePageIsDropped(t *testing.T) {
	m, _ := newTestModel(t, 120)
	store := records.NewStore(120, 7)
	page, err := store.Page(context.Background(), 50, 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	m.Update(pageLoadedMsg{offset: 50, patients: page})
	if len(m.patients) != 0 {
		t.Fatalf("expected stale page to be dropped, got %d patients", len(m.patients))
	}
}

func TestFetchFailuresStopAutomaticPaging(t *testing.T) {
	m, src := newTestModel(t, 120)
	src.err = errors.New("records offline")

	_, cmd := m.handleWindowResize(tea.WindowSizeMsg{Width: 100, Height: 30})
	for i := 0; i < maxFetchFailures; i++ {
		m.Update(findPage(t, cmd))
		if !m.statusIsError {
			t.Fatal("expected fetch error in status")
		}
		m.wantMore = true
		cmd = m.maybeFetch()
	}
	if cmd != nil {
		t.Fatal("expected paging to stop after repeated failures")
	}
	if m.fetchErrs != maxFetchFailures {
		t.Fatalf("expected %d failures, got %d", maxFetchFailures, m.fetchErrs)
	}

	src.err = nil
	_, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	m.Update(findPage(t, cmd))
	if len(m.patients) != m.cfg.PageSize {
		t.Fatalf("expected refresh to resume paging, got %d patients", len(m.patients))
	}
}

func TestPagingStopsAtEndOfCensus(t *testing.T) {
	m, _ := newTestModel(t, 30)
	startRoster(t, m)
	if len(m.patients) != 30 {
		t.Fatalf("expected whole census, got %d", len(m.patients))
	}
	m.wantMore = true
	if cmd := m.maybeFetch(); cmd != nil {
		t.Fatal("expected no fetch once the census is loaded")
	}
	if !m.exhausted {
		t.Fatal("expected roster to be marked exhausted")
	}
}

func TestResizeRemeasuresRows(t *testing.T) {
	m, _ := newTestModel(t, 120)
	startRoster(t, m)
	wide := m.rowWidth

	m.handleWindowResize(tea.WindowSizeMsg{Width: 60, Height: 30})
	if m.rowWidth >= wide {
		t.Fatalf("expected narrower rows, got %d (was %d)", m.rowWidth, wide)
	}
	assertRowsMeasured(t, m)
	for _, row := range m.rows {
		if w := lipgloss.Width(row.View); w > m.rowWidth {
			t.Fatalf("row %d is %d cells wide, pane allows %d", row.Index, w, m.rowWidth)
		}
	}
}

func TestMouseWheelScrollsRosterWithoutMovingCursor(t *testing.T) {
	m, _ := newTestModel(t, 120)
	startRoster(t, m)

	m.handleMouse(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if got := m.roster.State().ScrollOffset; got != MouseScrollStep {
		t.Fatalf("expected scroll offset %d, got %v", MouseScrollStep, got)
	}
	if m.cursor != 0 {
		t.Fatalf("wheel must not move the cursor, got %d", m.cursor)
	}

	m.handleMouse(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	m.handleMouse(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if got := m.roster.State().ScrollOffset; got != 0 {
		t.Fatalf("expected scroll clamped at 0, got %v", got)
	}
}

func TestQuitDisposesRoster(t *testing.T) {
	m, _ := newTestModel(t, 120)
	startRoster(t, m)

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !m.roster.Controller().Disposed() {
		t.Fatal("expected roster to be disposed on quit")
	}
}
