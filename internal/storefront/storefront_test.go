// ABOUTME: Tests for storefront wiring
// ABOUTME: Exercises login, checkout, account loading and session hooks against a fake API

package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/client/clienttest"
	"github.com/Spiffy047/Ecommerce-frontend/internal/config"
	"github.com/Spiffy047/Ecommerce-frontend/internal/inactivity"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storage"
)

type fixture struct {
	api   *clienttest.Server
	kv    *storage.MemoryStore
	sf    *Storefront
	boots client.Product
	socks client.Product
}

func newFixture(t *testing.T, idle time.Duration) *fixture {
	t.Helper()
	api := clienttest.New()
	t.Cleanup(api.Close)

	api.AddAccount(clienttest.Account{
		User:     session.User{Name: "Ann", Email: "ann@example.com", Phone: "0700000000"},
		Password: "secret1",
	})
	api.AddAccount(clienttest.Account{
		User:     session.User{Name: "Root", Email: "admin@example.com", IsAdmin: true},
		Password: "adminpw",
	})
	boots := api.AddProduct(client.Product{Name: "Boots", Price: decimal.NewFromInt(1000), Stock: 10})
	socks := api.AddProduct(client.Product{Name: "Socks", Price: decimal.NewFromInt(500), Stock: 10})

	kv := storage.NewMemoryStore()
	cfg := &config.Config{
		APIURL:           api.URL,
		RequestTimeout:   5 * time.Second,
		Ephemeral:        true,
		AdminIdleTimeout: idle,
	}
	sf, err := New(cfg, WithStorage(kv))
	require.NoError(t, err)
	t.Cleanup(sf.Close)

	return &fixture{api: api, kv: kv, sf: sf, boots: boots, socks: socks}
}

func TestLogin_PersistsBothKeys(t *testing.T) {
	f := newFixture(t, time.Minute)

	user, err := f.sf.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, hasToken := f.kv.Get(session.TokenKey)
	_, hasUser := f.kv.Get(session.UserKey)
	assert.True(t, hasToken)
	assert.True(t, hasUser)
	assert.Equal(t, inactivity.Idle, f.sf.Monitor.State(), "shoppers are not watched")
}

func TestLogin_BadCredentialsKeepAnonymous(t *testing.T) {
	f := newFixture(t, time.Minute)

	_, err := f.sf.Login(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindUnauthorized))
	assert.Equal(t, "Invalid email or password", client.UserMessage(err))
	assert.False(t, f.sf.Session.IsAuthenticated())
}

func TestLogin_InvalidFormSkipsNetwork(t *testing.T) {
	f := newFixture(t, time.Minute)

	_, err := f.sf.Login(context.Background(), "not-an-email", "")
	require.Error(t, err)
	assert.Empty(t, f.api.Requests())
}

func TestCheckout_ClearsCartOnSuccess(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	_, err := f.sf.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	f.sf.Cart.AddToCart(f.boots.CartProduct())
	f.sf.Cart.AddToCart(f.boots.CartProduct())
	f.sf.Cart.AddToCart(f.socks.CartProduct())
	require.True(t, f.sf.Cart.CartTotal().Equal(decimal.NewFromInt(2500)))

	resp, err := f.sf.Checkout(ctx)
	require.NoError(t, err)
	assert.NotZero(t, resp.OrderID)
	assert.Equal(t, 0, f.sf.Cart.Len())

	orders := f.api.Orders("ann@example.com")
	require.Len(t, orders, 1)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.NewFromInt(2500)))
}

func TestCheckout_KeepsCartOnFailure(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	_, err := f.sf.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	f.sf.Cart.AddToCart(f.boots.CartProduct())
	f.sf.Cart.UpdateQuantity(f.boots.ID, 50)

	_, err = f.sf.Checkout(ctx)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Boots", client.UserMessage(err))
	assert.Equal(t, 50, f.sf.Cart.CartItemsCount())
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t, time.Minute)

	_, err := f.sf.Checkout(context.Background())
	assert.ErrorIs(t, err, cart.ErrEmpty)
}

func TestCheckout_RequiresSession(t *testing.T) {
	f := newFixture(t, time.Minute)
	f.sf.Cart.AddToCart(f.boots.CartProduct())

	_, err := f.sf.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Equal(t, 1, f.sf.Cart.Len())
}

func TestRevokedTokenLogsOutWithExpiredReason(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	_, err := f.sf.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	var reason session.Reason
	f.sf.Session.Subscribe(func(ev session.Event) {
		if !ev.Authenticated {
			reason = ev.Reason
		}
	})

	f.api.RevokeSessions()
	_, err = f.sf.LoadAccount(ctx)
	require.Error(t, err)

	assert.False(t, f.sf.Session.IsAuthenticated())
	assert.Equal(t, session.ReasonExpired, reason)
	_, hasToken := f.kv.Get(session.TokenKey)
	assert.False(t, hasToken)
}

func TestStaleUnauthorizedKeepsNewerSession(t *testing.T) {
	var sf *Storefront
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer tok-a" {
			// another login lands while this request is in flight
			assert.NoError(t, sf.Session.Logout(session.ReasonManual))
			assert.NoError(t, sf.Session.Login("tok-b", session.User{ID: 2, Email: "b@example.com"}))
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(client.ErrorResponse{Error: "token expired"})
	}))
	defer server.Close()

	cfg := &config.Config{APIURL: server.URL, RequestTimeout: 5 * time.Second, Ephemeral: true, AdminIdleTimeout: time.Minute}
	var err error
	sf, err = New(cfg, WithStorage(storage.NewMemoryStore()))
	require.NoError(t, err)
	defer sf.Close()
	require.NoError(t, sf.Session.Login("tok-a", session.User{ID: 1, Email: "a@example.com"}))

	_, err = sf.API.GetProfile(context.Background())
	require.True(t, client.IsKind(err, client.KindUnauthorized))

	assert.True(t, sf.Session.IsAuthenticated(), "a 401 for token A must not end session B")
	assert.Equal(t, "tok-b", sf.Session.Token())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.False(t, apiErr.SessionEnded)
}

// heldClock records deadlines so a test can fire them by hand
type heldClock struct{ fns []func() }

func (c *heldClock) Now() time.Time { return time.Now() }

func (c *heldClock) AfterFunc(_ time.Duration, f func()) inactivity.Timer {
	c.fns = append(c.fns, f)
	return heldTimer{}
}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

// onLogHandler runs fn when a record with a matching message is logged
type onLogHandler struct {
	slog.Handler
	match string
	fn    func()
}

func (h *onLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if fn := h.fn; fn != nil && strings.Contains(r.Message, h.match) {
		h.fn = nil
		fn()
	}
	return nil
}

func TestStaleIdleDeadlineKeepsNewerSession(t *testing.T) {
	clock := &heldClock{}
	cfg := &config.Config{APIURL: "http://127.0.0.1:1", RequestTimeout: time.Second, Ephemeral: true, AdminIdleTimeout: time.Minute}
	sf, err := New(cfg, WithStorage(storage.NewMemoryStore()), WithClock(clock))
	require.NoError(t, err)
	defer sf.Close()

	require.NoError(t, sf.Session.Login("tok-a", session.User{ID: 1, Email: "admin@example.com", IsAdmin: true}))
	require.Len(t, clock.fns, 1)

	// switch users after the deadline is claimed but before its logout runs
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(slog.New(&onLogHandler{
		Handler: slog.NewTextHandler(io.Discard, nil),
		match:   "idle timeout reached",
		fn: func() {
			require.NoError(t, sf.Session.Logout(session.ReasonManual))
			require.NoError(t, sf.Session.Login("tok-b", session.User{ID: 2, Email: "shopper@example.com"}))
		},
	}))

	clock.fns[0]()

	assert.True(t, sf.Session.IsAuthenticated(), "admin A's deadline must not end session B")
	assert.Equal(t, "tok-b", sf.Session.Token())
}

func TestLoadAccount(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	_, err := f.sf.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	f.sf.Cart.AddToCart(f.socks.CartProduct())
	_, err = f.sf.Checkout(ctx)
	require.NoError(t, err)

	acct, err := f.sf.LoadAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0700000000", acct.Profile.Phone)
	require.Len(t, acct.Orders, 1)
	assert.Equal(t, "Socks", acct.Orders[0].Items[0].ProductName)
}

func TestLoadAccount_RequiresSession(t *testing.T) {
	f := newFixture(t, time.Minute)

	_, err := f.sf.LoadAccount(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestUpdateProfile_RefreshesSession(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	_, err := f.sf.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	err = f.sf.UpdateProfile(ctx, client.ProfileUpdate{Name: "Ann W", Email: "ann@example.com", Address: "Nairobi"})
	require.NoError(t, err)

	assert.Equal(t, "Ann W", f.sf.Session.User().Name)
	assert.Equal(t, "Nairobi", f.sf.Session.User().Address)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	_, err := f.sf.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	err = f.sf.ChangePassword(ctx, "secret1", "newpass", "mismatch")
	require.Error(t, err)

	require.NoError(t, f.sf.ChangePassword(ctx, "secret1", "newpass", "newpass"))
	require.NoError(t, f.sf.Logout())
	_, err = f.sf.Login(ctx, "ann@example.com", "newpass")
	assert.NoError(t, err)
}

func TestRegister_SignsIn(t *testing.T) {
	f := newFixture(t, time.Minute)

	user, err := f.sf.Register(context.Background(), client.RegisterRequest{
		Name:              "Ben",
		Email:             "ben@example.com",
		Password:          "hunter2",
		SecurityQuestion1: client.SecurityQuestions[0],
		SecurityAnswer1:   "Rex",
		SecurityQuestion2: client.SecurityQuestions[4],
		SecurityAnswer2:   "Heat",
	})
	require.NoError(t, err)
	assert.Equal(t, "ben@example.com", user.Email)
	assert.True(t, f.sf.Session.IsAuthenticated())
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	assert.ErrorIs(t, f.sf.RequireAdmin(), ErrNotSignedIn)

	_, err := f.sf.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.ErrorIs(t, f.sf.RequireAdmin(), ErrAdminRequired)

	_, err = f.sf.Login(ctx, "admin@example.com", "adminpw")
	require.NoError(t, err)
	assert.NoError(t, f.sf.RequireAdmin())
}

func TestAdminIdleLogout(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)

	done := make(chan session.Reason, 1)
	f.sf.Session.Subscribe(func(ev session.Event) {
		if !ev.Authenticated {
			done <- ev.Reason
		}
	})

	_, err := f.sf.Login(context.Background(), "admin@example.com", "adminpw")
	require.NoError(t, err)
	assert.Equal(t, inactivity.Watching, f.sf.Monitor.State())

	select {
	case reason := <-done:
		assert.Equal(t, session.ReasonInactivity, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("admin session was not ended by the inactivity monitor")
	}
	assert.False(t, f.sf.Session.IsAuthenticated())
}

func TestRestorePersistedSession(t *testing.T) {
	api := clienttest.New()
	defer api.Close()
	api.AddAccount(clienttest.Account{User: session.User{Name: "Ann", Email: "ann@example.com"}, Password: "secret1"})

	kv := storage.NewMemoryStore()
	require.NoError(t, kv.SetMany(map[string]string{
		session.TokenKey: api.Token("ann@example.com", time.Hour),
		session.UserKey:  `{"id":1,"name":"Ann","email":"ann@example.com"}`,
	}))

	cfg := &config.Config{APIURL: api.URL, RequestTimeout: time.Second, Ephemeral: true, AdminIdleTimeout: time.Minute}
	sf, err := New(cfg, WithStorage(kv))
	require.NoError(t, err)
	defer sf.Close()

	assert.True(t, sf.Session.IsAuthenticated())
	p, err := sf.API.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
}

func TestRestoreDropsExpiredToken(t *testing.T) {
	api := clienttest.New()
	defer api.Close()
	api.AddAccount(clienttest.Account{User: session.User{Email: "ann@example.com"}, Password: "secret1"})

	kv := storage.NewMemoryStore()
	require.NoError(t, kv.SetMany(map[string]string{
		session.TokenKey: api.Token("ann@example.com", -time.Minute),
		session.UserKey:  `{"id":1,"email":"ann@example.com"}`,
	}))

	cfg := &config.Config{APIURL: api.URL, RequestTimeout: time.Second, Ephemeral: true, AdminIdleTimeout: time.Minute}
	sf, err := New(cfg, WithStorage(kv))
	require.NoError(t, err)
	defer sf.Close()

	assert.False(t, sf.Session.IsAuthenticated())
	_, hasUser := kv.Get(session.UserKey)
	assert.False(t, hasUser)
	assert.Equal(t, session.ReasonExpired, sf.Session.RestoredReason())
}

func TestResetPassword_ValidatesBeforeNetwork(t *testing.T) {
	f := newFixture(t, time.Minute)

	err := f.sf.ResetPassword(context.Background(), "reset-1", "abc", "abc")
	require.Error(t, err)
	assert.False(t, errors.As(err, new(*client.APIError)))
	assert.Empty(t, f.api.Requests())
}
