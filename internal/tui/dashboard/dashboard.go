// ABOUTME: Admin dashboard with the product inventory table and bestseller report
// ABOUTME: Two tabs share one view; the root model handles the admin actions

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/widgets"
)

// Tab selects the dashboard section
type Tab int

const (
	TabProducts Tab = iota
	TabBestsellers
)

// String returns the tab label
func (t Tab) String() string {
	switch t {
	case TabProducts:
		return "Products"
	case TabBestsellers:
		return "Bestsellers"
	default:
		return "unknown"
	}
}

// Dashboard displays admin data
type Dashboard struct {
	tab         Tab
	products    []client.Product
	bestsellers []client.Bestseller
	productsErr string
	reportErr   string
	loading     bool
	cursor      int
	width       int
	height      int
}

// New creates a dashboard waiting for its inventory
func New(width, height int) *Dashboard {
	return &Dashboard{loading: true, width: width, height: height}
}

// SetProducts replaces the inventory table
func (d *Dashboard) SetProducts(products []client.Product) {
	d.products = products
	d.productsErr = ""
	d.loading = false
	if d.cursor >= len(products) {
		d.cursor = max(0, len(products)-1)
	}
}

// SetProductsError shows an inventory load failure
func (d *Dashboard) SetProductsError(msg string) {
	d.productsErr = msg
	d.loading = false
}

// SetBestsellers replaces the sales report
func (d *Dashboard) SetBestsellers(rows []client.Bestseller) {
	d.bestsellers = rows
	d.reportErr = ""
}

// SetReportError shows a report load failure
func (d *Dashboard) SetReportError(msg string) {
	d.reportErr = msg
}

// SetTab switches the visible section
func (d *Dashboard) SetTab(t Tab) {
	d.tab = t
}

// Tab returns the visible section
func (d *Dashboard) Tab() Tab {
	return d.tab
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// MoveUp highlights the previous product
func (d *Dashboard) MoveUp() {
	if d.cursor > 0 {
		d.cursor--
	}
}

// MoveDown highlights the next product
func (d *Dashboard) MoveDown() {
	if d.cursor < len(d.products)-1 {
		d.cursor++
	}
}

// Selected returns the highlighted product
func (d *Dashboard) Selected() (client.Product, bool) {
	if d.cursor < 0 || d.cursor >= len(d.products) {
		return client.Product{}, false
	}
	return d.products[d.cursor], true
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Admin dashboard", icons.Admin.String())))
	sb.WriteString("\n")
	sb.WriteString(d.renderTabs())
	sb.WriteString("\n\n")

	if d.tab == TabBestsellers {
		sb.WriteString(d.renderBestsellers())
	} else {
		sb.WriteString(d.renderProducts())
	}
	return sb.String()
}

func (d *Dashboard) renderTabs() string {
	var tabs []string
	for _, t := range []Tab{TabProducts, TabBestsellers} {
		if t == d.tab {
			tabs = append(tabs, styles.Selected.Padding(0, 1).Render(t.String()))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(styles.Muted).Padding(0, 1).Render(t.String()))
		}
	}
	return strings.Join(tabs, " ")
}

func (d *Dashboard) renderProducts() string {
	if d.loading {
		return styles.Subtitle.Render("Loading inventory...")
	}
	if d.productsErr != "" {
		return styles.Error.Render("Could not load products: " + d.productsErr)
	}

	var sb strings.Builder
	low, out := 0, 0
	for _, p := range d.products {
		switch widgets.StockLevel(p.Stock) {
		case widgets.StatusCritical:
			out++
		case widgets.StatusWarning:
			low++
		}
	}
	cfg := widgets.DefaultMetricBlockConfig()
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Product, "Products", len(d.products), "in catalog", cfg), " ",
		widgets.CountBlock(icons.Warning, "Low stock", low, fmt.Sprintf("under %d units", widgets.LowStock), cfg), " ",
		widgets.CountBlock(icons.Critical, "Sold out", out, "need restock", cfg),
	))
	sb.WriteString("\n\n")

	if len(d.products) == 0 {
		sb.WriteString(styles.Subtitle.Render("No products yet. Press a to add one."))
		return sb.String()
	}

	nameWidth := max(20, min(48, d.width-48))
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("  %5s  %-*s %14s %6s", "ID", nameWidth, "Name", "Price", "Stock")))
	sb.WriteString("\n")

	start, end := d.window()
	for i := start; i < end; i++ {
		p := d.products[i]
		name := p.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		line := fmt.Sprintf("%5d  %-*s %14s %6d", p.ID, nameWidth, name, styles.Money(p.Price), p.Stock)
		if i == d.cursor {
			sb.WriteString("> " + styles.Selected.Render(line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString(" " + widgets.StatusIcon(widgets.StockLevel(p.Stock)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *Dashboard) window() (int, int) {
	rows := len(d.products)
	if d.height > 16 {
		rows = min(rows, d.height-14)
	}
	start := 0
	if d.cursor >= rows {
		start = d.cursor - rows + 1
	}
	return start, min(len(d.products), start+rows)
}

func (d *Dashboard) renderBestsellers() string {
	if d.reportErr != "" {
		return styles.Error.Render("Could not load report: " + d.reportErr)
	}
	if len(d.bestsellers) == 0 {
		return styles.Subtitle.Render("No sales yet.")
	}

	var sb strings.Builder
	top := 0
	revenue := decimal.Zero
	units := 0
	for _, b := range d.bestsellers {
		top = max(top, b.UnitsSold)
		revenue = revenue.Add(b.Revenue)
		units += b.UnitsSold
	}

	cfg := widgets.DefaultMetricBlockConfig()
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Chart, "Units sold", units, "top products", cfg), " ",
		widgets.MetricBlock(icons.Order, "Revenue", styles.Money(revenue), "top products", cfg),
	))
	sb.WriteString("\n\n")

	nameWidth := 24
	barWidth := max(10, min(30, d.width-nameWidth-36))
	for i, b := range d.bestsellers {
		name := b.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		sb.WriteString(fmt.Sprintf("%2d. %-*s %s %5d  %s\n",
			i+1, nameWidth, name,
			widgets.Bar(b.UnitsSold, top, barWidth, styles.Primary),
			b.UnitsSold,
			styles.PriceStyle.Render(styles.Money(b.Revenue))))
	}
	return sb.String()
}
