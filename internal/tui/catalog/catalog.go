// ABOUTME: Product catalog screen with a live search box
// ABOUTME: Lists products with price and stock, emits messages for the root model

package catalog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/widgets"
)

type state int

const (
	stateList state = iota
	stateSearch
)

// SelectedMsg is sent when a product is opened
type SelectedMsg struct {
	Product client.Product
}

// AddToCartMsg is sent when the user adds the highlighted product
type AddToCartMsg struct {
	Product client.Product
}

// RefreshMsg asks the root model to reload the product list
type RefreshMsg struct{}

// CancelledMsg is sent when the user leaves the catalog
type CancelledMsg struct{}

// Catalog is the product list component
type Catalog struct {
	products []client.Product
	visible  []client.Product
	cursor   int
	state    state
	search   textinput.Model
	loading  bool
	err      string
	width    int
	height   int
}

var (
	normalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// New creates a catalog waiting for its first product list
func New() *Catalog {
	ti := textinput.New()
	ti.Placeholder = "search name or description"
	ti.Prompt = icons.Search.String() + " "
	ti.CharLimit = 100
	ti.Width = 40

	return &Catalog{
		state:   stateList,
		search:  ti,
		loading: true,
	}
}

// Init implements tea.Model
func (c *Catalog) Init() tea.Cmd {
	return nil
}

// SetProducts replaces the product list and reapplies the current search
func (c *Catalog) SetProducts(products []client.Product) {
	c.products = products
	c.loading = false
	c.err = ""
	c.applyFilter()
}

// SetError shows a load or action error
func (c *Catalog) SetError(msg string) {
	c.loading = false
	c.err = msg
}

// SetSize records the area available to the list
func (c *Catalog) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Query returns the active search text
func (c *Catalog) Query() string {
	return c.search.Value()
}

// Visible returns the products matching the search
func (c *Catalog) Visible() []client.Product {
	return c.visible
}

// Selected returns the highlighted product
func (c *Catalog) Selected() (client.Product, bool) {
	if c.cursor < 0 || c.cursor >= len(c.visible) {
		return client.Product{}, false
	}
	return c.visible[c.cursor], true
}

// Searching reports whether the search box has focus
func (c *Catalog) Searching() bool {
	return c.state == stateSearch
}

func (c *Catalog) applyFilter() {
	c.visible = client.FilterProducts(c.products, c.search.Value())
	if c.cursor >= len(c.visible) {
		c.cursor = max(0, len(c.visible)-1)
	}
}

// Update implements tea.Model
func (c *Catalog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.SetSize(msg.Width, msg.Height)
		return c, nil

	case tea.KeyMsg:
		c.err = ""
		if c.state == stateSearch {
			return c.updateSearch(msg)
		}
		return c.updateList(msg)
	}
	return c, nil
}

func (c *Catalog) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.visible)-1 {
			c.cursor++
		}
	case "/":
		c.state = stateSearch
		return c, c.search.Focus()
	case "enter":
		if p, ok := c.Selected(); ok {
			return c, func() tea.Msg { return SelectedMsg{Product: p} }
		}
	case "a":
		p, ok := c.Selected()
		if !ok {
			return c, nil
		}
		if !p.InStock() {
			c.err = "Out of stock"
			return c, nil
		}
		return c, func() tea.Msg { return AddToCartMsg{Product: p} }
	case "r":
		c.loading = true
		return c, func() tea.Msg { return RefreshMsg{} }
	case "esc", "b":
		if c.search.Value() != "" {
			c.search.SetValue("")
			c.applyFilter()
			return c, nil
		}
		return c, func() tea.Msg { return CancelledMsg{} }
	}
	return c, nil
}

func (c *Catalog) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.search.SetValue("")
		c.search.Blur()
		c.state = stateList
		c.applyFilter()
		return c, nil
	case "enter", "down":
		c.search.Blur()
		c.state = stateList
		return c, nil
	}

	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	c.applyFilter()
	return c, cmd
}

// View implements tea.Model
func (c *Catalog) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Products", icons.Product.String())))
	b.WriteString("\n")
	if c.state == stateSearch || c.search.Value() != "" {
		b.WriteString(c.search.View())
		b.WriteString("\n")
	}
	b.WriteString(dividerStyle.Render(strings.Repeat("─", c.dividerWidth())))
	b.WriteString("\n")

	switch {
	case c.loading:
		b.WriteString(styles.Subtitle.Render("Loading products..."))
		b.WriteString("\n")
	case len(c.visible) == 0 && c.search.Value() != "":
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("No products match %q", c.search.Value())))
		b.WriteString("\n")
	case len(c.visible) == 0:
		b.WriteString(styles.Subtitle.Render("No products available"))
		b.WriteString("\n")
	default:
		start, end := c.window()
		for i := start; i < end; i++ {
			b.WriteString(c.renderRow(i))
			b.WriteString("\n")
		}
		if end-start < len(c.visible) {
			b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(c.visible))))
			b.WriteString("\n")
		}
	}

	if c.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render("Error: " + c.err))
	}
	return b.String()
}

func (c *Catalog) renderRow(i int) string {
	p := c.visible[i]
	cursor := "  "
	style := normalStyle
	if i == c.cursor {
		cursor = cursorStyle.Render("> ")
		style = cursorStyle
	}

	nameWidth := 32
	if c.width > 80 {
		nameWidth = min(60, c.width-48)
	}
	name := p.Name
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	}
	return fmt.Sprintf("%s%s %s  %s",
		cursor,
		style.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		styles.PriceStyle.Render(fmt.Sprintf("%14s", styles.Money(p.Price))),
		widgets.StockBadge(p.Stock))
}

// window returns the slice of rows that fits the height, keeping the cursor visible
func (c *Catalog) window() (int, int) {
	rows := len(c.visible)
	if c.height > 8 {
		rows = min(rows, c.height-6)
	}
	start := 0
	if c.cursor >= rows {
		start = c.cursor - rows + 1
	}
	return start, min(len(c.visible), start+rows)
}

func (c *Catalog) dividerWidth() int {
	if c.width < 10 {
		return 40
	}
	return min(72, c.width-4)
}
