package app

import tea "github.com/charmbracelet/bubbletea"

// handleKey routes key presses through the keybinding map. Every roster
// action may have moved the window towards the end of the list, so the
// result is batched with maybeFetch.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.actionForKey(msg.String())
	if action == actionQuit {
		m.Close()
		return m, tea.Quit
	}
	if m.showHelp && action != actionHelp {
		m.showHelp = false
		if action == "" {
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch action {
	case actionHelp:
		return m.toggleHelp()
	case actionCursorUp:
		cmd = m.moveCursor(-1)
	case actionCursorDown:
		cmd = m.moveCursor(1)
	case actionPageUp:
		cmd = m.pageRoster(-1)
	case actionPageDown:
		cmd = m.pageRoster(1)
	case actionJumpTop:
		cmd = m.selectIndex(0)
	case actionJumpBottom:
		cmd = m.selectIndex(len(m.patients) - 1)
	case actionScrollUp:
		m.scrollRoster(-1)
	case actionScrollDown:
		m.scrollRoster(1)
	case actionChartHalfUp:
		m.viewport.HalfViewUp()
	case actionChartHalfDown:
		m.viewport.HalfViewDown()
	case actionRefresh:
		m.refreshRoster()
	default:
		return m, nil
	}
	return m, tea.Batch(cmd, m.maybeFetch())
}

// toggleHelp shows or hides the help screen.
func (m *Model) toggleHelp() (tea.Model, tea.Cmd) {
	m.showHelp = !m.showHelp
	if m.showHelp {
		m.setStatus("")
	}
	return m, nil
}
