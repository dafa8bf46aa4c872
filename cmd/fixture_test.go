// ABOUTME: Shared fixture for command tests
// ABOUTME: Points the global flags at a fake backend and resets them afterwards

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/client/clienttest"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

type backend struct {
	api   *clienttest.Server
	boots client.Product
	socks client.Product
}

// newBackend starts a fake backend and aims the CLI at it with a fresh
// config dir, so each test has its own stored session.
func newBackend(t *testing.T) *backend {
	t.Helper()
	api := clienttest.New()
	t.Cleanup(api.Close)

	api.AddAccount(clienttest.Account{
		User:      session.User{Name: "Ann", Email: "ann@example.com", Phone: "0700000000"},
		Password:  "secret1",
		Questions: [2]string{client.SecurityQuestions[0], client.SecurityQuestions[1]},
		Answers:   [2]string{"Rex", "Smith"},
	})
	api.AddAccount(clienttest.Account{
		User:     session.User{Name: "Root", Email: "admin@example.com", IsAdmin: true},
		Password: "adminpw",
	})
	boots := api.AddProduct(client.Product{
		Name:        "Trail Boots",
		Description: "Waterproof boots for muddy trails",
		Price:       decimal.NewFromInt(4500),
		Stock:       12,
		ImageURL:    "/images/boots.png",
	})
	socks := api.AddProduct(client.Product{
		Name:        "Wool Socks",
		Description: "Warm merino socks",
		Price:       decimal.NewFromInt(800),
		Stock:       3,
		ImageURL:    "/images/socks.png",
	})

	t.Setenv("STOREFRONT_EPHEMERAL", "false")
	apiURL = api.URL
	configDir = t.TempDir()
	prevInteractive := interactive
	interactive = func() bool { return false }

	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
		interactive = prevInteractive
		resetCommandFlags()
	})

	return &backend{api: api, boots: boots, socks: socks}
}

func resetCommandFlags() {
	productSearch, reviewRating, reviewComment = "", "", ""
	authEmail, authPassword = "", ""
	regName, regPhone, regAddress = "", "", ""
	regQuestions, regAnswers, recoverAnswers = nil, nil, nil
	currentPassword, newPassword = "", ""
	profileName, profileEmail, profilePhone, profileAddress = "", "", "", ""
	checkoutItems = nil
	productForm = validation.ProductForm{}
	confirmDelete = false
}

// signIn stores a session the way "storefront login" would
func signIn(t *testing.T, email, password string) {
	t.Helper()
	authEmail, authPassword = email, password
	defer func() { authEmail, authPassword = "", "" }()

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf); code != 0 {
		t.Fatalf("login failed with exit code %d: %s", code, buf.String())
	}
}
