// ABOUTME: Shared lipgloss styles and the huh form theme for the storefront TUI
// ABOUTME: Also formats money so every screen shows prices the same way

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Accent    = lipgloss.Color("#8B5CF6")
	Info      = lipgloss.Color("#3B82F6")
	Gold      = lipgloss.Color("#FBBF24") // Ratings

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(Danger).
		Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Selected row in lists and tables
	Selected = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	PriceStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// Money formats an amount in Kenyan shillings with two decimals
func Money(d decimal.Decimal) string {
	return "KSh " + d.StringFixed(2)
}

// FormTheme returns the huh theme shared by every form screen
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	purple := lipgloss.Color("#A78BFA")
	light := lipgloss.Color("#E5E7EB")
	gray := lipgloss.Color("#9CA3AF")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Primary)
	t.Focused.Title = t.Focused.Title.Foreground(purple).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(gray)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(purple)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(Muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(purple)
	t.Focused.TextInput.Text = t.Focused.TextInput.Text.Foreground(light)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(purple)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(purple)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(Danger)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(Danger)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderForeground(Muted)
	t.Blurred.Title = t.Blurred.Title.Foreground(gray).Bold(false)

	return t
}
