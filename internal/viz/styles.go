package viz

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00cccc"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))

	canvasStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Foreground(lipgloss.Color("#00ccff"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(40)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(15)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff88ff")).
			Bold(true)

	invalidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaa00"))

	metricStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00aaaa")).
			Bold(true)
)

func keyHint(key, desc string) string {
	return keyStyle.Render(key) + subtleStyle.Render(" "+desc+"  ")
}
