// ABOUTME: Cart view listing items with quantities, subtotals and the total
// ABOUTME: Tracks the highlighted line; the root model applies quantity changes

package cartview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
)

// View renders a cart snapshot
type View struct {
	items  []cart.Item
	total  decimal.Decimal
	count  int
	cursor int
	width  int
}

// New creates an empty cart view
func New(width int) *View {
	return &View{width: width}
}

// Refresh copies the current cart contents. The cursor stays on the same
// row index, clamped to the new length.
func (v *View) Refresh(c *cart.Store) {
	v.items = c.Items()
	v.total = c.CartTotal()
	v.count = c.CartItemsCount()
	if v.cursor >= len(v.items) {
		v.cursor = max(0, len(v.items)-1)
	}
}

// SetWidth updates the render width
func (v *View) SetWidth(width int) {
	v.width = width
}

// MoveUp highlights the previous line
func (v *View) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
	}
}

// MoveDown highlights the next line
func (v *View) MoveDown() {
	if v.cursor < len(v.items)-1 {
		v.cursor++
	}
}

// Selected returns the highlighted line
func (v *View) Selected() (cart.Item, bool) {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return cart.Item{}, false
	}
	return v.items[v.cursor], true
}

// Render renders the cart
func (v *View) Render() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Shopping cart", icons.Cart.String())))
	sb.WriteString("\n")

	if len(v.items) == 0 {
		sb.WriteString(styles.Subtitle.Render("Your cart is empty. Browse products to add some."))
		return sb.String()
	}

	nameWidth := max(20, min(48, v.width-50))
	header := fmt.Sprintf("  %-*s %14s %5s %16s", nameWidth, "Product", "Price", "Qty", "Subtotal")
	sb.WriteString(styles.Subtitle.Render(header))
	sb.WriteString("\n")

	for i, item := range v.items {
		name := item.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		line := fmt.Sprintf("%-*s %14s %5d %16s",
			nameWidth, name, styles.Money(item.Price), item.Quantity, styles.Money(item.Subtotal()))
		if i == v.cursor {
			sb.WriteString("> " + styles.Selected.Render(line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	rule := strings.Repeat("─", nameWidth+40)
	sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("  " + rule))
	sb.WriteString("\n")

	units := "items"
	if v.count == 1 {
		units = "item"
	}
	totalLabel := fmt.Sprintf("Total (%d %s)", v.count, units)
	sb.WriteString(fmt.Sprintf("  %-*s %s", nameWidth+21, totalLabel, styles.PriceStyle.Render(fmt.Sprintf("%16s", styles.Money(v.total)))))
	sb.WriteString("\n")
	return sb.String()
}
