package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))
)

// ApplyTheme recolours the shared text styles with the theme's text colours.
func ApplyTheme(th Theme) {
	HeaderStyle = HeaderStyle.Foreground(th.Text)
	Subtle = Subtle.Foreground(th.Muted)
	MetricLabel = MetricLabel.Foreground(th.Muted)
	MetricValue = MetricValue.Foreground(th.Accent)
}

// Metric renders a "label: value" pair.
func Metric(label string, value any) string {
	return MetricLabel.Render(label+":") + " " + MetricValue.Render(fmt.Sprint(value))
}

// Separator draws a decorated horizontal rule.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
