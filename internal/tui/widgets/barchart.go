// ABOUTME: Horizontal bar widget for ranking reports
// ABOUTME: Scales each bar against the largest value in the set

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar renders value as a bar of up to width cells, scaled against maxValue.
// Any positive value gets at least one cell.
func Bar(value, maxValue, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if maxValue > 0 && value > 0 {
		filled = max(1, value*width/maxValue)
	}
	filled = min(filled, width)

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", width-filled))
	return bar + rest
}
