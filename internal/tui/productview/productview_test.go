// ABOUTME: Tests for the product detail view
// ABOUTME: Validates details, review list and scrolling

package productview

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
)

func boots() client.Product {
	return client.Product{
		ID:          7,
		Name:        "Hiking Boots",
		Description: "Waterproof leather boots with ankle support",
		Price:       decimal.RequireFromString("8999.5"),
		Stock:       3,
		ImageURL:    "/images/boots.png",
	}
}

func TestDetailView(t *testing.T) {
	d := New(120, 40)
	d.SetProduct(boots())
	d.SetReviews([]client.Review{
		{ID: 1, ProductID: 7, UserName: "Ann", Rating: 5, Comment: "Dry feet all week", CreatedAt: "2024-05-01T10:00:00"},
		{ID: 2, ProductID: 7, Rating: 3, Comment: "Stiff at first"},
	})
	d.SetInCart(2)

	view := d.View()
	tests := []string{
		"Hiking Boots",
		"KSh 8999.50",
		"Only 3 left",
		"Reviews (2)",
		"Dry feet all week",
		"2024-05-01",
		"Anonymous",
		"4.0 (2 reviews)",
		"2 in your cart",
	}
	for _, expected := range tests {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
}

func TestDetailNilProduct(t *testing.T) {
	d := New(80, 24)

	if !strings.Contains(d.View(), "Loading") {
		t.Error("expected loading message when no product is set")
	}
	if _, ok := d.Product(); ok {
		t.Error("expected no product")
	}
}

func TestDetailNoReviews(t *testing.T) {
	d := New(80, 24)
	d.SetProduct(boots())

	view := d.View()
	if !strings.Contains(view, "Be the first to review") {
		t.Error("expected empty reviews prompt")
	}
	if !strings.Contains(view, "No reviews yet") {
		t.Error("expected empty rating summary")
	}
}

func TestDetailReviewsError(t *testing.T) {
	d := New(80, 24)
	d.SetProduct(boots())
	d.SetReviewsError("Network error. Please try again.")

	if !strings.Contains(d.View(), "Could not load reviews") {
		t.Error("expected reviews error")
	}
}

func TestSetProductResetsReviews(t *testing.T) {
	d := New(80, 24)
	d.SetProduct(boots())
	d.SetReviews([]client.Review{{ID: 1, Rating: 4, Comment: "Good"}})
	d.ScrollDown()

	other := boots()
	other.ID = 8
	d.SetProduct(other)

	if len(d.reviews) != 0 || d.offset != 0 {
		t.Error("expected reviews and scroll reset for a new product")
	}
}

func TestScroll(t *testing.T) {
	d := New(80, 24)
	d.SetProduct(boots())
	d.SetReviews([]client.Review{{ID: 1}, {ID: 2}, {ID: 3}})

	d.ScrollUp()
	if d.offset != 0 {
		t.Errorf("expected offset 0, got %d", d.offset)
	}
	d.ScrollDown()
	d.ScrollDown()
	d.ScrollDown()
	if d.offset != 2 {
		t.Errorf("expected offset clamped at 2, got %d", d.offset)
	}
}

func TestShortDate(t *testing.T) {
	if got := shortDate("2024-05-01T10:00:00"); got != "2024-05-01" {
		t.Errorf("unexpected %q", got)
	}
	if got := shortDate("yesterday"); got != "yesterday" {
		t.Errorf("unexpected %q", got)
	}
}
