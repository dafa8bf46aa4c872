// ABOUTME: Product detail view with description, stock and customer reviews
// ABOUTME: Pure renderer; the root model owns key handling and data loading

package productview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/widgets"
)

// sideBySide is the width from which details and reviews share a row
const sideBySide = 100

// Detail displays one product
type Detail struct {
	product    *client.Product
	reviews    []client.Review
	reviewsErr string
	inCart     int
	offset     int
	width      int
	height     int
}

// New creates an empty detail view
func New(width, height int) *Detail {
	return &Detail{width: width, height: height}
}

// SetProduct shows p and clears any previous reviews
func (d *Detail) SetProduct(p client.Product) {
	d.product = &p
	d.reviews = nil
	d.reviewsErr = ""
	d.offset = 0
}

// Product returns the displayed product
func (d *Detail) Product() (client.Product, bool) {
	if d.product == nil {
		return client.Product{}, false
	}
	return *d.product, true
}

// SetReviews shows reviews newest first as returned by the backend
func (d *Detail) SetReviews(reviews []client.Review) {
	d.reviews = reviews
	d.reviewsErr = ""
}

// SetReviewsError replaces the review list with msg
func (d *Detail) SetReviewsError(msg string) {
	d.reviewsErr = msg
}

// SetInCart records how many units of this product are in the cart
func (d *Detail) SetInCart(n int) {
	d.inCart = n
}

// SetSize updates the view dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// ScrollDown moves the review list by one entry
func (d *Detail) ScrollDown() {
	if d.offset < len(d.reviews)-1 {
		d.offset++
	}
}

// ScrollUp moves the review list back by one entry
func (d *Detail) ScrollUp() {
	if d.offset > 0 {
		d.offset--
	}
}

// View renders the product
func (d *Detail) View() string {
	if d.product == nil {
		return styles.Subtitle.Render("Loading product...")
	}

	if d.width >= sideBySide {
		colWidth := (d.width - 4) / 2
		left := lipgloss.NewStyle().Width(colWidth).Render(d.renderDetails(colWidth))
		right := lipgloss.NewStyle().Width(colWidth).Render(d.renderReviews(colWidth))
		return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}

	width := max(40, d.width)
	return d.renderDetails(width) + "\n" + d.renderReviews(width)
}

func (d *Detail) renderDetails(width int) string {
	p := d.product
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Product.String(), p.Name)))
	sb.WriteString("\n")
	sb.WriteString(styles.PriceStyle.Render(styles.Money(p.Price)))
	sb.WriteString("  ")
	sb.WriteString(widgets.StockBadge(p.Stock))
	sb.WriteString("\n")
	sb.WriteString(widgets.AverageRating(d.ratings()))
	sb.WriteString("\n\n")

	sb.WriteString(lipgloss.NewStyle().Width(width).Render(p.Description))
	sb.WriteString("\n\n")

	if p.ImageURL != "" {
		sb.WriteString(styles.Subtitle.Render("Image: " + p.ImageURL))
		sb.WriteString("\n")
	}
	if d.inCart > 0 {
		sb.WriteString(widgets.StatusText(fmt.Sprintf("%d in your cart", d.inCart), widgets.StatusInfo))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *Detail) renderReviews(width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Bold(true).Render(fmt.Sprintf("Reviews (%d)", len(d.reviews))))
	sb.WriteString("\n\n")

	if d.reviewsErr != "" {
		sb.WriteString(styles.Error.Render("Could not load reviews: " + d.reviewsErr))
		return sb.String()
	}
	if len(d.reviews) == 0 {
		sb.WriteString(styles.Subtitle.Render("Be the first to review this product."))
		return sb.String()
	}

	// Each review takes at least three lines plus a gap
	limit := len(d.reviews)
	if d.height > 12 {
		limit = max(1, (d.height-8)/4)
	}
	end := min(len(d.reviews), d.offset+limit)
	for _, r := range d.reviews[d.offset:end] {
		author := r.UserName
		if author == "" {
			author = "Anonymous"
		}
		sb.WriteString(widgets.Stars(r.Rating))
		sb.WriteString(" ")
		sb.WriteString(styles.ValueStyle.Render(author))
		if r.CreatedAt != "" {
			sb.WriteString(styles.Subtitle.Render("  " + shortDate(r.CreatedAt)))
		}
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Width(width).Render(r.Comment))
		sb.WriteString("\n\n")
	}
	if end < len(d.reviews) || d.offset > 0 {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d-%d of %d", d.offset+1, end, len(d.reviews))))
	}
	return sb.String()
}

func (d *Detail) ratings() []int {
	out := make([]int, len(d.reviews))
	for i, r := range d.reviews {
		out[i] = r.Rating
	}
	return out
}

// shortDate trims an ISO timestamp to its date
func shortDate(s string) string {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}
