package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/treykane/ward-roster/internal/config"
	"github.com/treykane/ward-roster/internal/virtual"
)

// Snapshot is one headless render of the roster pane.
type Snapshot struct {
	Window virtual.WindowState
	Lines  []string
}

// RenderSnapshot drives the roster without a terminal: it sizes the panes
// for a width x height terminal, loads pages from source until the window at
// scroll is covered (or the census runs out), and returns the visible roster
// lines. It runs the same render/measure loop as the interactive UI.
func RenderSnapshot(ctx context.Context, cfg config.Config, source PatientSource, width, height int, scroll float64) (Snapshot, error) {
	m, err := New(cfg, source)
	if err != nil {
		return Snapshot{}, err
	}
	defer m.Close()

	m.width, m.height = width, height
	layout := m.calculateLayout()
	m.applyLayout(layout)

	for {
		m.roster.ScrollTo(scroll)
		m.syncRoster()
		ws := m.roster.State()
		if ws.TotalExtent >= scroll+ws.ViewportHeight || len(m.patients) >= source.Total() {
			break
		}
		page, err := source.Page(ctx, len(m.patients), cfg.PageSize)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load patients at %d: %w", len(m.patients), err)
		}
		if len(page) == 0 {
			break
		}
		m.patients = append(m.patients, page...)
		m.roster.SetItems(m.patients)
	}
	return Snapshot{
		Window: m.roster.State(),
		Lines:  m.rosterLines(layout.ListHeight),
	}, nil
}

// String renders the snapshot as a window summary followed by the roster
// lines.
func (s Snapshot) String() string {
	ws := s.Window
	var b strings.Builder
	fmt.Fprintf(&b, "scroll=%g viewport=%g start=%d end=%d offset_before_start=%g total=%g\n",
		ws.ScrollOffset, ws.ViewportHeight, ws.StartIndex, ws.EndIndex, ws.OffsetBeforeStart, ws.TotalExtent)
	for _, line := range s.Lines {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
