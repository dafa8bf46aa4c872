// ABOUTME: Star rating widgets for product reviews
// ABOUTME: Renders a single review's stars and the average across reviews

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
)

// maxRating is the top of the review scale
const maxRating = 5

var starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))

// Stars renders rating filled stars followed by empty ones. Out of range
// values are clamped.
func Stars(rating int) string {
	rating = min(max(rating, 0), maxRating)
	filled := strings.Repeat(icons.Star.String(), rating)
	empty := strings.Repeat(icons.StarOff.String(), maxRating-rating)
	return starStyle.Render(filled) + lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(empty)
}

// average returns the mean rating and whether there was anything to average
func average(ratings []int) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), true
}

// AverageRating renders "★★★★☆ 4.2 (12 reviews)" or "No reviews yet"
func AverageRating(ratings []int) string {
	avg, ok := average(ratings)
	if !ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render("No reviews yet")
	}
	noun := "reviews"
	if len(ratings) == 1 {
		noun = "review"
	}
	return fmt.Sprintf("%s %.1f (%d %s)", Stars(int(avg+0.5)), avg, len(ratings), noun)
}
