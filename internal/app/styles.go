package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/ward-roster/internal/records"
)

var (
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	rosterPane    = paneStyle.Copy().BorderForeground(lipgloss.Color("62"))
	chartPane     = paneStyle.Copy().BorderForeground(lipgloss.Color("204"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	allergyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("211"))
	helpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
)

var acuityStyles = map[records.Acuity]lipgloss.Style{
	records.AcuityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("114")),
	records.AcuityModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("221")),
	records.AcuityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("208")),
	records.AcuityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Bold(true),
}

// acuityLabel returns the fixed-width badge text for an acuity grade.
func acuityLabel(a records.Acuity) string {
	switch a {
	case records.AcuityLow:
		return " LOW "
	case records.AcuityModerate:
		return " MOD "
	case records.AcuityHigh:
		return " HIGH"
	case records.AcuityCritical:
		return " CRIT"
	default:
		return "  ?  "
	}
}

func acuityBadge(a records.Acuity) string {
	style, ok := acuityStyles[a]
	if !ok {
		return acuityLabel(a)
	}
	return style.Render(acuityLabel(a))
}
