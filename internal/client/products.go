// ABOUTME: Catalog endpoints: products, reviews and the admin bestseller report
// ABOUTME: Also provides the client-side product search used by the catalog

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
)

// Product is a catalog entry
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// CartProduct returns the snapshot stored in the cart
func (p Product) CartProduct() cart.Product {
	return cart.Product{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
}

// InStock reports whether at least one unit is available
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductInput is the create/update payload
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// MarshalJSON sends price as a JSON number, which the backend expects
func (in ProductInput) MarshalJSON() ([]byte, error) {
	type wire struct {
		Name        string      `json:"name"`
		Description string      `json:"description"`
		Price       json.Number `json:"price"`
		Stock       int         `json:"stock"`
		ImageURL    string      `json:"image_url"`
	}
	return json.Marshal(wire{
		Name:        in.Name,
		Description: in.Description,
		Price:       json.Number(in.Price.String()),
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	})
}

// Review is a product review
type Review struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	UserName  string `json:"user_name,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ReviewInput is the review submission payload
type ReviewInput struct {
	ProductID int64  `json:"product_id,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Bestseller is one row of the admin sales report
type Bestseller struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ListProducts fetches the catalog
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/products"}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(id)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct adds a product. Requires an admin session.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var p Product
	req := request{method: http.MethodPost, path: "/api/products", body: in, auth: authSession}
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces a product. Requires an admin session.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	var p Product
	req := request{method: http.MethodPut, path: productPath(id), body: in, auth: authSession}
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	if p.ID == 0 {
		// Some backends only acknowledge; echo the input
		p = Product{ID: id, Name: in.Name, Description: in.Description, Price: in.Price, Stock: in.Stock, ImageURL: in.ImageURL}
	}
	return &p, nil
}

// DeleteProduct removes a product. Requires an admin session.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: productPath(id), auth: authSession}, nil)
}

// ListReviews fetches the reviews of a product
func (c *Client) ListReviews(ctx context.Context, productID int64) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(productID) + "/reviews"}, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview posts a review for a product
func (c *Client) CreateReview(ctx context.Context, productID int64, in ReviewInput) (*Review, error) {
	var r Review
	in.ProductID = productID
	req := request{method: http.MethodPost, path: productPath(productID) + "/reviews", body: in, auth: authSession}
	if err := c.do(ctx, req, &r); err != nil {
		return nil, err
	}
	if r.ProductID == 0 {
		r.ProductID = productID
	}
	return &r, nil
}

// Bestsellers fetches the admin sales report
func (c *Client) Bestsellers(ctx context.Context) ([]Bestseller, error) {
	var rows []Bestseller
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/admin/bestsellers", auth: authSession}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FilterProducts returns the products whose name or description contains
// query, ignoring case. An empty query returns all products.
func FilterProducts(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

func productPath(id int64) string {
	return fmt.Sprintf("/api/products/%d", id)
}
