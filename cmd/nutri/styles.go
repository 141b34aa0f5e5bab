package nutri

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 20

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barDoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
)

// progressBar draws pct (0..1) as a fixed-width bar.
func progressBar(pct float64) string {
	filled := int(math.Round(pct * barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	fill := barFillStyle
	if pct >= 1 {
		fill = barDoneStyle
	}
	return fill.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
