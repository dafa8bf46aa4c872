// ABOUTME: Tests for the admin commands
// ABOUTME: Covers the admin gate, product create/update/delete and the bestsellers report

package cmd

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

func changedFlags(names ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func TestAdminCommands_RequireAdmin(t *testing.T) {
	newBackend(t)

	var buf bytes.Buffer
	if code := runAdminProducts(context.Background(), &buf); code != 1 {
		t.Errorf("expected exit code 1 when signed out, got %d", code)
	}
	if !strings.Contains(buf.String(), "please log in first") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	signIn(t, "ann@example.com", "secret1")
	buf.Reset()
	if code := runBestsellers(context.Background(), &buf); code != 1 {
		t.Errorf("expected exit code 1 for a customer, got %d", code)
	}
	if !strings.Contains(buf.String(), "admin access required") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestAdminProductsCommand(t *testing.T) {
	newBackend(t)
	signIn(t, "admin@example.com", "adminpw")

	var buf bytes.Buffer
	if code := runAdminProducts(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Trail Boots", "Wool Socks", "Only 3 left", "2 products, 1 low stock, 0 sold out"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAdminCreateCommand(t *testing.T) {
	b := newBackend(t)
	signIn(t, "admin@example.com", "adminpw")
	productForm = validation.ProductForm{
		Name:        "Rain Jacket",
		Description: "Lightweight jacket for wet weather",
		Price:       "3200.50",
		Stock:       "7",
		ImageURL:    "/images/jacket.png",
	}

	var buf bytes.Buffer
	if code := runAdminSave(context.Background(), &buf, "", nil); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Added Rain Jacket") || !strings.Contains(buf.String(), "KSh 3200.50, 7 in stock") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	found := false
	for id := b.socks.ID + 1; id < b.socks.ID+5; id++ {
		if p, ok := b.api.Product(id); ok && p.Name == "Rain Jacket" {
			found = true
		}
	}
	if !found {
		t.Error("expected the product on the backend")
	}
}

func TestAdminCreateCommand_Validates(t *testing.T) {
	newBackend(t)
	signIn(t, "admin@example.com", "adminpw")
	productForm = validation.ProductForm{
		Name:        "R!",
		Description: "too short",
		Price:       "abc",
		Stock:       "-1",
		ImageURL:    "jacket",
	}

	var buf bytes.Buffer
	if code := runAdminSave(context.Background(), &buf, "", nil); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	out := buf.String()
	for _, want := range []string{"at least 3 characters", "at least 20 characters", "price must be a number", "cannot be negative", "valid URL or path"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAdminUpdateCommand_OnlyChangedFlags(t *testing.T) {
	b := newBackend(t)
	signIn(t, "admin@example.com", "adminpw")
	productForm.Stock = "40"
	productForm.Name = "ignored because not changed"

	var buf bytes.Buffer
	id := strconv.FormatInt(b.boots.ID, 10)
	if code := runAdminSave(context.Background(), &buf, id, changedFlags("stock")); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Updated Trail Boots") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	p, _ := b.api.Product(b.boots.ID)
	if p.Stock != 40 {
		t.Errorf("expected stock 40, got %d", p.Stock)
	}
	if p.Name != "Trail Boots" || !p.Price.Equal(b.boots.Price) {
		t.Errorf("expected other fields untouched, got %+v", p)
	}
}

func TestAdminUpdateCommand_Missing(t *testing.T) {
	newBackend(t)
	signIn(t, "admin@example.com", "adminpw")

	var buf bytes.Buffer
	if code := runAdminSave(context.Background(), &buf, "999", changedFlags()); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if code := runAdminSave(context.Background(), &buf, "x", changedFlags()); code != 2 {
		t.Errorf("expected exit code 2 for a bad id, got %d", code)
	}
}

func TestMergeProductForm(t *testing.T) {
	base := validation.ProductForm{Name: "Old", Description: "Old description", Price: "10.00", Stock: "1", ImageURL: "/images/a.png"}
	flags := validation.ProductForm{Name: "New", Price: "12.00"}

	got := mergeProductForm(base, flags, changedFlags("name", "price"))
	want := validation.ProductForm{Name: "New", Description: "Old description", Price: "12.00", Stock: "1", ImageURL: "/images/a.png"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if got := mergeProductForm(base, flags, nil); got != flags {
		t.Errorf("expected flags unchanged on create, got %+v", got)
	}
}

func TestAdminDeleteCommand(t *testing.T) {
	b := newBackend(t)
	signIn(t, "admin@example.com", "adminpw")
	id := strconv.FormatInt(b.socks.ID, 10)

	var buf bytes.Buffer
	if code := runAdminDelete(context.Background(), &buf, id); code != 2 {
		t.Errorf("expected exit code 2 without --yes, got %d", code)
	}
	if _, ok := b.api.Product(b.socks.ID); !ok {
		t.Fatal("expected product to survive an unconfirmed delete")
	}

	confirmDelete = true
	buf.Reset()
	if code := runAdminDelete(context.Background(), &buf, id); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Deleted Wool Socks") {
		t.Errorf("unexpected output: %q", buf.String())
	}
	if _, ok := b.api.Product(b.socks.ID); ok {
		t.Error("expected product to be gone")
	}
}

func TestBestsellersCommand(t *testing.T) {
	b := newBackend(t)
	signIn(t, "ann@example.com", "secret1")
	checkoutItems = []string{strconv.FormatInt(b.boots.ID, 10) + ":3", strconv.FormatInt(b.socks.ID, 10)}
	var buf bytes.Buffer
	if code := runCheckout(context.Background(), &buf); code != 0 {
		t.Fatalf("checkout failed: %s", buf.String())
	}

	signIn(t, "admin@example.com", "adminpw")
	buf.Reset()
	if code := runBestsellers(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Trail Boots", "KSh 13500.00", "Wool Socks", "KSh 800.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatBestsellersHuman_Empty(t *testing.T) {
	if got := formatBestsellersHuman([]client.Bestseller{}); got != "No sales yet." {
		t.Errorf("unexpected output: %q", got)
	}
}
