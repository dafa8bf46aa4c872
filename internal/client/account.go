// ABOUTME: Signed-in user endpoints: profile, order history and checkout
// ABOUTME: Plus the backend health check

package client

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
)

// ProfileUpdate is the editable part of the profile
type ProfileUpdate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderItem is one line of a past order
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order is a past order
type Order struct {
	ID          int64           `json:"id"`
	OrderDate   string          `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	Items       []OrderItem     `json:"items"`
}

// CheckoutRequest is the order submission payload
type CheckoutRequest struct {
	Items []cart.Line `json:"items"`
}

// CheckoutResponse acknowledges a placed order
type CheckoutResponse struct {
	OrderID int64  `json:"order_id"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// GetProfile fetches the signed-in user's profile
func (c *Client) GetProfile(ctx context.Context) (*session.User, error) {
	var u session.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/user/profile", auth: authSession}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile saves profile edits
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/api/user/profile", body: in, auth: authSession}, nil)
}

// ListOrders fetches the signed-in user's orders
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/user/orders", auth: authSession}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Checkout places an order for the given lines
func (c *Client) Checkout(ctx context.Context, lines []cart.Line) (*CheckoutResponse, error) {
	var out CheckoutResponse
	req := request{
		method: http.MethodPost,
		path:   "/api/orders/checkout",
		body:   CheckoutRequest{Items: lines},
		auth:   authSession,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks backend health
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
