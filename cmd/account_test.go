// ABOUTME: Tests for the account commands
// ABOUTME: Covers profile show and update, order history and flag-driven checkout

package cmd

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		in      string
		id      int64
		qty     int
		wantErr bool
	}{
		{"7", 7, 1, false},
		{"7:3", 7, 3, false},
		{" 12 : 2 ", 12, 2, false},
		{"7:0", 0, 0, true},
		{"7:-1", 0, 0, true},
		{"7:x", 0, 0, true},
		{"abc", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseItem(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %+v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.id != tt.id || got.quantity != tt.qty {
				t.Errorf("expected %d x%d, got %d x%d", tt.id, tt.qty, got.id, got.quantity)
			}
		})
	}
}

func TestCheckoutCommand(t *testing.T) {
	b := newBackend(t)
	signIn(t, "ann@example.com", "secret1")
	boots := strconv.FormatInt(b.boots.ID, 10)
	socks := strconv.FormatInt(b.socks.ID, 10)
	checkoutItems = []string{boots, socks + ":2", boots}

	var buf bytes.Buffer
	if code := runCheckout(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Order #1000 placed: 4 items, KSh 10600.00") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	orders := b.api.Orders("ann@example.com")
	if len(orders) != 1 {
		t.Fatalf("expected 1 order on the backend, got %d", len(orders))
	}
	if p, _ := b.api.Product(b.socks.ID); p.Stock != 1 {
		t.Errorf("expected socks stock to drop to 1, got %d", p.Stock)
	}
}

func TestCheckoutCommand_NotSignedIn(t *testing.T) {
	b := newBackend(t)
	checkoutItems = []string{strconv.FormatInt(b.boots.ID, 10)}

	var buf bytes.Buffer
	if code := runCheckout(context.Background(), &buf); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if len(b.api.Orders("ann@example.com")) != 0 {
		t.Error("expected no order to be placed")
	}
}

func TestCheckoutCommand_BadInput(t *testing.T) {
	newBackend(t)
	signIn(t, "ann@example.com", "secret1")

	var buf bytes.Buffer
	if code := runCheckout(context.Background(), &buf); code != 2 {
		t.Errorf("expected exit code 2 without items, got %d", code)
	}

	checkoutItems = []string{"boots"}
	buf.Reset()
	if code := runCheckout(context.Background(), &buf); code != 2 {
		t.Errorf("expected exit code 2 for a bad item, got %d", code)
	}
	if !strings.Contains(buf.String(), `invalid item "boots"`) {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestCheckoutCommand_InsufficientStock(t *testing.T) {
	b := newBackend(t)
	signIn(t, "ann@example.com", "secret1")
	checkoutItems = []string{strconv.FormatInt(b.socks.ID, 10) + ":5"}

	var buf bytes.Buffer
	if code := runCheckout(context.Background(), &buf); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Insufficient stock for Wool Socks") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
}

func TestOrdersCommand(t *testing.T) {
	b := newBackend(t)
	signIn(t, "ann@example.com", "secret1")

	var buf bytes.Buffer
	runOrders(context.Background(), &buf)
	if !strings.Contains(buf.String(), "No orders yet.") {
		t.Errorf("expected empty history, got %q", buf.String())
	}

	checkoutItems = []string{strconv.FormatInt(b.boots.ID, 10) + ":2"}
	buf.Reset()
	if code := runCheckout(context.Background(), &buf); code != 0 {
		t.Fatalf("checkout failed: %s", buf.String())
	}

	buf.Reset()
	if code := runOrders(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	out := buf.String()
	for _, want := range []string{"#1000", "pending", "2 x Trail Boots", "1 orders, KSh 9000.00 spent"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestOrdersCommand_NotSignedIn(t *testing.T) {
	newBackend(t)

	var buf bytes.Buffer
	if code := runOrders(context.Background(), &buf); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestProfileCommand(t *testing.T) {
	newBackend(t)
	signIn(t, "ann@example.com", "secret1")

	var buf bytes.Buffer
	if code := runProfile(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	out := buf.String()
	for _, want := range []string{"Name:    Ann", "Phone:   0700000000", "Address: -"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestProfileCommand_Update(t *testing.T) {
	newBackend(t)
	signIn(t, "ann@example.com", "secret1")
	profileAddress = "12 Moi Avenue"

	var buf bytes.Buffer
	if code := runProfile(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Profile updated.", "Name:    Ann", "Address: 12 Moi Avenue"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestProfileCommand_UpdateValidates(t *testing.T) {
	newBackend(t)
	signIn(t, "ann@example.com", "secret1")
	profileEmail = "not-an-email"

	var buf bytes.Buffer
	if code := runProfile(context.Background(), &buf); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestFormatOrdersHuman_Empty(t *testing.T) {
	if got := formatOrdersHuman(nil); got != "No orders yet." {
		t.Errorf("unexpected output: %q", got)
	}
}
