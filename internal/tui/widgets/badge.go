// ABOUTME: Badge widgets for inline status: cart count, stock level, order state
// ABOUTME: All badges share one palette keyed by StatusLevel

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// LowStock is the threshold below which stock is flagged
const LowStock = 5

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func colors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colors(level)
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// CartBadge shows the number of units in the cart. An empty cart is neutral.
func CartBadge(count int) string {
	level := StatusInfo
	if count == 0 {
		level = StatusNeutral
	}
	return Badge(fmt.Sprintf("%s %d", icons.Cart.String(), count), level)
}

// StockLevel classifies a stock count
func StockLevel(stock int) StatusLevel {
	switch {
	case stock <= 0:
		return StatusCritical
	case stock < LowStock:
		return StatusWarning
	default:
		return StatusOK
	}
}

// StockText returns "Out of stock", "Only N left" or "In stock"
func StockText(stock int) string {
	switch StockLevel(stock) {
	case StatusCritical:
		return "Out of stock"
	case StatusWarning:
		return fmt.Sprintf("Only %d left", stock)
	default:
		return "In stock"
	}
}

// StockBadge renders StockText colored by stock level
func StockBadge(stock int) string {
	return Badge(StockText(stock), StockLevel(stock))
}

// OrderStatusBadge colors an order status string from the backend
func OrderStatusBadge(status string) string {
	var level StatusLevel
	switch strings.ToLower(status) {
	case "delivered", "completed", "paid":
		level = StatusOK
	case "pending", "processing":
		level = StatusWarning
	case "shipped":
		level = StatusInfo
	case "cancelled", "canceled", "failed":
		level = StatusCritical
	default:
		level = StatusNeutral
	}
	if status == "" {
		status = "unknown"
	}
	return Badge(status, level)
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colors(level)
	var icon string
	switch level {
	case StatusOK:
		icon = icons.CheckOK.String()
	case StatusWarning:
		icon = icons.Warning.String()
	case StatusCritical:
		icon = icons.Critical.String()
	case StatusInfo:
		icon = icons.Info.String()
	default:
		icon = "•"
	}
	return lipgloss.NewStyle().Foreground(bg).Render(icon)
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := colors(level)
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}
