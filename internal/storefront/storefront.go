// ABOUTME: Wires storage, session, cart, API client and inactivity monitor together
// ABOUTME: Owns every store so views and commands receive them by injection

package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/config"
	"github.com/Spiffy047/Ecommerce-frontend/internal/inactivity"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storage"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

var (
	// ErrNotSignedIn is returned by operations that need a session
	ErrNotSignedIn = errors.New("please log in first")
	// ErrAdminRequired is returned by admin operations for other users
	ErrAdminRequired = errors.New("admin access required")
)

// Storefront is the application root
type Storefront struct {
	Config  *config.Config
	Session *session.Store
	Cart    *cart.Store
	API     *client.Client
	Monitor *inactivity.Monitor

	unbind func()
}

type options struct {
	store      storage.Store
	clock      inactivity.Clock
	httpClient *http.Client
}

// Option customizes New
type Option func(*options)

// WithStorage replaces the key-value store chosen from config
func WithStorage(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

// WithClock replaces the clock driving the inactivity monitor
func WithClock(c inactivity.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithHTTPClient replaces the HTTP client used for API calls
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New builds the storefront from cfg and restores any persisted session
func New(cfg *config.Config, opts ...Option) (*Storefront, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.store == nil {
		if cfg.Ephemeral {
			o.store = storage.NewMemoryStore()
		} else {
			o.store = storage.NewFileStore(cfg.ConfigDir)
		}
	}

	sess := session.New(o.store)
	if err := sess.Restore(); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	clientOpts := []client.Option{
		client.WithTokenSource(sess),
		client.WithUnauthorizedHandler(func(token string) bool {
			ended, err := sess.LogoutIf(token, session.ReasonExpired)
			if err != nil {
				slog.Error("Failed to clear expired session", "error", err)
			}
			return ended
		}),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	clientOpts = append(clientOpts, client.WithTimeout(cfg.RequestTimeout))

	var monitorOpts []inactivity.Option
	if o.clock != nil {
		monitorOpts = append(monitorOpts, inactivity.WithClock(o.clock))
	}
	monitor := inactivity.New(cfg.AdminIdleTimeout, func(token string) {
		if _, err := sess.LogoutIf(token, session.ReasonInactivity); err != nil {
			slog.Error("Failed to clear idle admin session", "error", err)
		}
	}, monitorOpts...)

	sf := &Storefront{
		Config:  cfg,
		Session: sess,
		Cart:    cart.New(),
		API:     client.New(cfg.APIURL, clientOpts...),
		Monitor: monitor,
	}
	sf.unbind = monitor.Bind(sess)

	slog.Debug("Storefront ready", "api_url", cfg.APIURL, "ephemeral", cfg.Ephemeral, "signed_in", sess.IsAuthenticated())
	return sf, nil
}

// Close stops the inactivity monitor and detaches it from the session
func (sf *Storefront) Close() {
	if sf.unbind != nil {
		sf.unbind()
		sf.unbind = nil
	}
}

// Login authenticates and starts a session
func (sf *Storefront) Login(ctx context.Context, email, password string) (*session.User, error) {
	if err := validation.Login(email, password); err != nil {
		return nil, err
	}
	auth, err := sf.API.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return sf.startSession(auth)
}

// Register creates an account and signs the new user in
func (sf *Storefront) Register(ctx context.Context, req client.RegisterRequest) (*session.User, error) {
	if err := validation.Registration(req); err != nil {
		return nil, err
	}
	auth, err := sf.API.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return sf.startSession(auth)
}

func (sf *Storefront) startSession(auth *client.AuthResponse) (*session.User, error) {
	if err := sf.Session.Login(auth.AccessToken, auth.User); err != nil {
		return nil, err
	}
	return sf.Session.User(), nil
}

// Logout ends the session at the user's request
func (sf *Storefront) Logout() error {
	return sf.Session.Logout(session.ReasonManual)
}

// RequireAdmin reports whether admin operations are allowed
func (sf *Storefront) RequireAdmin() error {
	if !sf.Session.IsAuthenticated() {
		return ErrNotSignedIn
	}
	if !sf.Session.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// Checkout submits the cart as an order. The cart is cleared only when the
// backend accepts the order.
func (sf *Storefront) Checkout(ctx context.Context) (*client.CheckoutResponse, error) {
	lines, err := sf.Cart.CheckoutLines()
	if err != nil {
		return nil, err
	}
	if !sf.Session.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}

	resp, err := sf.API.Checkout(ctx, lines)
	if err != nil {
		slog.Warn("Checkout failed, keeping cart", "items", len(lines), "error", err)
		return nil, err
	}
	sf.Cart.ClearCart()
	slog.Info("Order placed", "order_id", resp.OrderID, "items", len(lines))
	return resp, nil
}

// Account is the signed-in user's profile and order history
type Account struct {
	Profile *session.User
	Orders  []client.Order
}

// LoadAccount fetches profile and orders concurrently
func (sf *Storefront) LoadAccount(ctx context.Context) (*Account, error) {
	if !sf.Session.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}

	var acct Account
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := sf.API.GetProfile(ctx)
		if err != nil {
			return err
		}
		acct.Profile = p
		return nil
	})
	g.Go(func() error {
		orders, err := sf.API.ListOrders(ctx)
		if err != nil {
			return err
		}
		acct.Orders = orders
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &acct, nil
}

// UpdateProfile saves profile edits and refreshes the session copy
func (sf *Storefront) UpdateProfile(ctx context.Context, in client.ProfileUpdate) error {
	current := sf.Session.User()
	if current == nil {
		return ErrNotSignedIn
	}
	if err := errors.Join(validation.Required("name")(in.Name), validation.Email(in.Email)); err != nil {
		return err
	}
	if err := sf.API.UpdateProfile(ctx, in); err != nil {
		return err
	}

	next := *current
	next.Name = in.Name
	next.Email = in.Email
	next.Phone = in.Phone
	next.Address = in.Address
	return sf.Session.UpdateUser(next)
}

// ChangePassword validates and submits a password change
func (sf *Storefront) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if !sf.Session.IsAuthenticated() {
		return ErrNotSignedIn
	}
	if err := validation.ChangePassword(current, next, confirm); err != nil {
		return err
	}
	return sf.API.ChangePassword(ctx, current, next)
}

// ResetPassword finishes account recovery with the token from VerifySecurity
func (sf *Storefront) ResetPassword(ctx context.Context, resetToken, next, confirm string) error {
	if err := errors.Join(validation.Password(next), validation.Confirmation(&next)(confirm)); err != nil {
		return err
	}
	return sf.API.ResetPassword(ctx, resetToken, next)
}
