// ABOUTME: Tests for the storefront API client executor
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("expected path /api/health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
}

func TestHealth_ConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if !IsKind(err, KindNetwork) {
		t.Errorf("expected network error, got %v", err)
	}
	if got := UserMessage(err); got != "Network error. Please try again." {
		t.Errorf("unexpected user message %q", got)
	}
}

func TestHealth_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := c.Health(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "request canceled" {
		t.Errorf("expected request canceled, got %q", apiErr.Message)
	}
}

func TestHealth_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Health(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "request timed out" {
		t.Errorf("expected request timed out, got %q", apiErr.Message)
	}
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		kind    Kind
		message string
	}{
		{http.StatusBadRequest, `{"error":"Insufficient stock for Boots"}`, KindValidation, "Insufficient stock for Boots"},
		{http.StatusForbidden, `{"message":"Admin access required"}`, KindValidation, "Admin access required"},
		{http.StatusUnprocessableEntity, `{"msg":"Not enough segments"}`, KindValidation, "Not enough segments"},
		{http.StatusNotFound, `{}`, KindNotFound, "Not found"},
		{http.StatusInternalServerError, `{"error":"db down"}`, KindServer, "Something went wrong. Please try again."},
		{http.StatusBadGateway, `not json`, KindServer, "Something went wrong. Please try again."},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := New(server.URL).GetProduct(context.Background(), 1)
			if !IsKind(err, tc.kind) {
				t.Fatalf("expected kind %s, got %v", tc.kind, err)
			}
			if got := UserMessage(err); got != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, got)
			}
		})
	}
}

func TestAuthenticatedCall_SendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]Order{})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("abc123")))
	if _, err := c.ListOrders(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if _, err := uuid.Parse(gotRequestID); err != nil {
		t.Errorf("expected uuid request id, got %q", gotRequestID)
	}
}

func TestPublicCall_OmitsBearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Product{})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("abc123")))
	if _, err := c.ListProducts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestUnauthorized_FiresHookForSessionCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Token has expired"})
	}))
	defer server.Close()

	var fired int32
	c := New(server.URL,
		WithTokenSource(staticToken("stale")),
		WithUnauthorizedHandler(func(token string) bool {
			if token != "stale" {
				t.Errorf("expected the sent token, got %q", token)
			}
			atomic.AddInt32(&fired, 1)
			return true
		}),
	)

	_, err := c.GetProfile(context.Background())
	if !IsKind(err, KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("expected hook to fire once, fired %d", fired)
	}
	if got := UserMessage(err); got != "Session expired. Please log in again." {
		t.Errorf("unexpected user message %q", got)
	}
}

func TestUnauthorized_LoginIsCredentialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid email or password"})
	}))
	defer server.Close()

	fired := false
	c := New(server.URL,
		WithTokenSource(staticToken("still-valid")),
		WithUnauthorizedHandler(func(string) bool { fired = true; return true }),
	)

	_, err := c.Login(context.Background(), "a@example.com", "wrong")
	if !IsKind(err, KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if fired {
		t.Error("login failure must not end the current session")
	}
	if got := UserMessage(err); got != "Invalid email or password" {
		t.Errorf("unexpected user message %q", got)
	}
}

func TestUnauthorized_NoHookWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	fired := false
	c := New(server.URL, WithUnauthorizedHandler(func(string) bool { fired = true; return true }))
	_, _ = c.ListOrders(context.Background())
	if fired {
		t.Error("anonymous 401 must not fire the logout hook")
	}
}

func TestUnauthorized_ReplacedSessionIsNotEnded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Token has expired"})
	}))
	defer server.Close()

	// the hook declines because a newer session replaced the one sent
	c := New(server.URL,
		WithTokenSource(staticToken("old")),
		WithUnauthorizedHandler(func(token string) bool { return token != "old" }),
	)

	_, err := c.GetProfile(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.SessionEnded {
		t.Error("expected SessionEnded to be false when the hook ended nothing")
	}
	if got := UserMessage(err); got != "Token has expired" {
		t.Errorf("unexpected user message %q", got)
	}
}

func TestWithTimeout_CopiesSuppliedClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	c := New("http://localhost:5000", WithHTTPClient(hc), WithTimeout(5*time.Second))

	if hc.Timeout != time.Minute {
		t.Errorf("caller's client was modified: timeout %v", hc.Timeout)
	}
	if c.httpClient == hc || c.httpClient.Timeout != 5*time.Second {
		t.Errorf("expected a copy with a 5s timeout, got %v", c.httpClient.Timeout)
	}
}

func TestResetPassword_UsesResetToken(t *testing.T) {
	var gotAuth string
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(MessageResponse{Message: "ok"})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("session-token")))
	if err := c.ResetPassword(context.Background(), "reset-1", "newpass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer reset-1" {
		t.Errorf("expected reset token as bearer, got %q", gotAuth)
	}
	if body["new_password"] != "newpass" {
		t.Errorf("expected new_password in body, got %v", body)
	}
}

func TestCreateProduct_SendsNumericPrice(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Product{ID: 7, Name: "Boots", Price: decimal.RequireFromString("1999.50")})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("admin")))
	p, err := c.CreateProduct(context.Background(), ProductInput{
		Name:  "Boots",
		Price: decimal.RequireFromString("1999.50"),
		Stock: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw["price"]) != "1999.5" {
		t.Errorf("expected numeric price, got %s", raw["price"])
	}
	if p.ID != 7 {
		t.Errorf("expected id 7, got %d", p.ID)
	}
}

func TestDeleteProduct_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL).DeleteProduct(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://shop.example.com/")
	if c.BaseURL() != "http://shop.example.com" {
		t.Errorf("unexpected base url %q", c.BaseURL())
	}
}

func TestFilterProducts(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "Leather Boots", Description: "Waterproof hiking boots"},
		{ID: 2, Name: "Sandals", Description: "Light summer footwear"},
		{ID: 3, Name: "Rain Jacket", Description: "Keeps you dry in BOOTS weather"},
	}

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"  ", []int64{1, 2, 3}},
		{"boots", []int64{1, 3}},
		{"SUMMER", []int64{2}},
		{"umbrella", nil},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			var got []int64
			for _, p := range FilterProducts(products, tc.query) {
				got = append(got, p.ID)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("FilterProducts(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestUserMessage_PlainError(t *testing.T) {
	if got := UserMessage(errors.New("cart is empty")); got != "cart is empty" {
		t.Errorf("unexpected message %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("expected empty message, got %q", got)
	}
}
