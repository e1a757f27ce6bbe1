package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// handleSpinnerTick updates the spinner animation state.
func (m *Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if m.rendering {
		m.viewport.SetContent(m.spinner.View() + " Rendering chart...")
	}
	return m, cmd
}

// handleWindowResize recalculates the layout after a terminal resize. A new
// roster width invalidates every row height, so the roster is re-measured and
// the chart re-rendered at the new width.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	widthChanged := m.applyLayout(m.calculateLayout())
	m.revealCursor()

	var cmd tea.Cmd
	if widthChanged || m.rendering {
		cmd = m.refreshViewport()
	}
	return m, tea.Batch(cmd, m.maybeFetch())
}

// handleMouse scrolls the pane under the pointer on wheel events.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	layout := m.calculateLayout()
	overChart := msg.X >= layout.RosterWidth

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if overChart {
			m.viewport.LineUp(MouseScrollStep)
			return m, nil
		}
		m.scrollRoster(-MouseScrollStep)
	case tea.MouseButtonWheelDown:
		if overChart {
			m.viewport.LineDown(MouseScrollStep)
			return m, nil
		}
		m.scrollRoster(MouseScrollStep)
	default:
		return m, nil
	}
	return m, m.maybeFetch()
}
