// ABOUTME: Tests for the cart view
// ABOUTME: Validates totals, empty state and cursor clamping

package cartview

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
)

func filledCart() *cart.Store {
	c := cart.New()
	c.AddToCart(cart.Product{ID: 1, Name: "Trail Shoes", Price: decimal.NewFromInt(4500)})
	c.AddToCart(cart.Product{ID: 1, Name: "Trail Shoes", Price: decimal.NewFromInt(4500)})
	c.AddToCart(cart.Product{ID: 2, Name: "Wool Socks", Price: decimal.RequireFromString("599.99")})
	return c
}

func TestRender(t *testing.T) {
	v := New(100)
	v.Refresh(filledCart())

	view := v.Render()
	tests := []string{
		"Trail Shoes",
		"KSh 9000.00",
		"Wool Socks",
		"Total (3 items)",
		"KSh 9599.99",
	}
	for _, expected := range tests {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	v := New(80)
	v.Refresh(cart.New())

	if !strings.Contains(v.Render(), "Your cart is empty") {
		t.Error("expected empty cart message")
	}
	if _, ok := v.Selected(); ok {
		t.Error("expected no selection in an empty cart")
	}
}

func TestCursor(t *testing.T) {
	c := filledCart()
	v := New(80)
	v.Refresh(c)

	v.MoveDown()
	v.MoveDown()
	item, ok := v.Selected()
	if !ok || item.ID != 2 {
		t.Fatalf("expected second line selected, got %+v", item)
	}

	c.RemoveFromCart(2)
	v.Refresh(c)
	item, ok = v.Selected()
	if !ok || item.ID != 1 {
		t.Errorf("expected cursor clamped to remaining line, got %+v", item)
	}

	v.MoveUp()
	v.MoveUp()
	if v.cursor != 0 {
		t.Errorf("expected cursor 0, got %d", v.cursor)
	}
}

func TestSingularItem(t *testing.T) {
	c := cart.New()
	c.AddToCart(cart.Product{ID: 5, Name: "Cap", Price: decimal.NewFromInt(300)})
	v := New(80)
	v.Refresh(c)

	if !strings.Contains(v.Render(), "Total (1 item)") {
		t.Error("expected singular item label")
	}
}
