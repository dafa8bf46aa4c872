// ABOUTME: Account view showing the profile, spending summary and order history
// ABOUTME: Pure renderer fed by storefront.LoadAccount

package account

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/widgets"
)

// View displays the signed-in user's account
type View struct {
	profile *session.User
	orders  []client.Order
	loading bool
	err     string
	offset  int
	width   int
	height  int
}

// New creates a view waiting for data
func New(width, height int) *View {
	return &View{loading: true, width: width, height: height}
}

// SetAccount shows the loaded profile and orders
func (v *View) SetAccount(profile *session.User, orders []client.Order) {
	v.profile = profile
	v.orders = orders
	v.loading = false
	v.err = ""
	v.offset = 0
}

// SetError shows a load failure
func (v *View) SetError(msg string) {
	v.loading = false
	v.err = msg
}

// SetSize updates the view dimensions
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// ScrollDown moves the order list by one entry
func (v *View) ScrollDown() {
	if v.offset < len(v.orders)-1 {
		v.offset++
	}
}

// ScrollUp moves the order list back by one entry
func (v *View) ScrollUp() {
	if v.offset > 0 {
		v.offset--
	}
}

// TotalSpent sums every order total
func TotalSpent(orders []client.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}

// View renders the account
func (v *View) View() string {
	if v.loading {
		return styles.Subtitle.Render("Loading account...")
	}
	if v.err != "" {
		return styles.Error.Render("Could not load account: " + v.err)
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s My account", icons.User.String())))
	sb.WriteString("\n")

	if p := v.profile; p != nil {
		rows := []string{
			styles.ValueStyle.Render(p.Name),
			p.Email,
		}
		if p.Phone != "" {
			rows = append(rows, p.Phone)
		}
		if p.Address != "" {
			rows = append(rows, p.Address)
		}
		if p.IsAdmin {
			rows = append(rows, widgets.Badge("admin", widgets.StatusInfo))
		}
		sb.WriteString(styles.Panel.Render(strings.Join(rows, "\n")))
		sb.WriteString("\n")
	}

	cfg := widgets.DefaultMetricBlockConfig()
	units := 0
	for _, o := range v.orders {
		for _, it := range o.Items {
			units += it.Quantity
		}
	}
	blocks := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Order, "Orders", len(v.orders), "placed", cfg), " ",
		widgets.MetricBlock(icons.Cart, "Spent", styles.Money(TotalSpent(v.orders)), "all orders", cfg), " ",
		widgets.CountBlock(icons.Product, "Items", units, "bought", cfg),
	)
	sb.WriteString(blocks)
	sb.WriteString("\n\n")

	sb.WriteString(styles.Subtitle.Bold(true).Render("Order history"))
	sb.WriteString("\n")
	if len(v.orders) == 0 {
		sb.WriteString(styles.Subtitle.Render("No orders yet."))
		return sb.String()
	}

	limit := len(v.orders)
	if v.height > 20 {
		limit = max(1, (v.height-16)/3)
	}
	end := min(len(v.orders), v.offset+limit)
	for _, o := range v.orders[v.offset:end] {
		sb.WriteString(renderOrder(o))
	}
	if end < len(v.orders) || v.offset > 0 {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d-%d of %d orders", v.offset+1, end, len(v.orders))))
	}
	return sb.String()
}

func renderOrder(o client.Order) string {
	var sb strings.Builder
	date := o.OrderDate
	if len(date) > 10 {
		date = date[:10]
	}
	sb.WriteString(fmt.Sprintf("%s #%d  %s  %s  %s\n",
		icons.Order.String(), o.ID, date,
		widgets.OrderStatusBadge(o.Status),
		styles.PriceStyle.Render(styles.Money(o.TotalAmount))))

	var parts []string
	for _, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("product %d", it.ProductID)
		}
		parts = append(parts, fmt.Sprintf("%d x %s", it.Quantity, name))
	}
	if len(parts) > 0 {
		sb.WriteString(styles.Subtitle.Render("   " + strings.Join(parts, ", ")))
		sb.WriteString("\n")
	}
	return sb.String()
}
