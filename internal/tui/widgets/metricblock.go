// ABOUTME: Compact metric block widget for account and admin summaries
// ABOUTME: Draws an icon title in the top border above a value and subtitle

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       24,
		BorderColor: lipgloss.Color("#6B7280"),
		TitleColor:  lipgloss.Color("#7C3AED"),
		ValueColor:  lipgloss.Color("#F9FAFB"),
	}
}

// MetricBlock renders a compact metric display block
func MetricBlock(icon icons.Icon, title, value, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 24
	}
	innerWidth := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	// Padding is computed on the plain text; styled strings carry escape codes.
	topBorder := borderStyle.Render("┌─ ") + titleStyle.Render(titleStr) + " " +
		borderStyle.Render(strings.Repeat("─", max(0, innerWidth-lipgloss.Width(titleStr)-1))+"┐")
	valueLine := row(valueStyle.Render(truncate(value, innerWidth)), lipgloss.Width(truncate(value, innerWidth)), innerWidth, borderStyle)
	sub := truncate(subtitle, innerWidth)
	subtitleLine := row(subtitleStyle.Render(sub), lipgloss.Width(sub), innerWidth, borderStyle)
	bottomBorder := borderStyle.Render(fmt.Sprintf("└%s┘", strings.Repeat("─", config.Width-2)))

	return strings.Join([]string{topBorder, valueLine, subtitleLine, bottomBorder}, "\n")
}

// CountBlock renders a simple integer metric
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), label, config)
}

func row(styled string, width, innerWidth int, border lipgloss.Style) string {
	return border.Render("│  ") + styled + strings.Repeat(" ", max(0, innerWidth-width)) + border.Render("│")
}

// truncate shortens a string to maxLen cells with ellipsis if needed
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:min(len(r), maxLen)])
	}
	for len(r) > 0 && lipgloss.Width(string(r))+3 > maxLen {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
