// ABOUTME: Commands that call the storefront and report back as messages
// ABOUTME: Anything that changes the session runs here, never inside Update

package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
)

// SessionChangedMsg carries a session event into the program
type SessionChangedMsg struct {
	Event session.Event
}

type productsLoadedMsg struct {
	products []client.Product
	err      error
}

type productLoadedMsg struct {
	product    *client.Product
	reviews    []client.Review
	err        error
	reviewsErr error
}

type reviewPostedMsg struct {
	productID int64
	err       error
}

type authDoneMsg struct {
	user       *session.User
	registered bool
	err        error
}

type logoutDoneMsg struct {
	err error
}

type checkoutDoneMsg struct {
	resp *client.CheckoutResponse
	err  error
}

type accountLoadedMsg struct {
	account *storefront.Account
	err     error
}

type profileSavedMsg struct {
	err error
}

type passwordChangedMsg struct {
	err error
}

type questionsLoadedMsg struct {
	questions []string
	err       error
}

type resetTokenMsg struct {
	token string
	err   error
}

type passwordResetMsg struct {
	err error
}

type adminProductsLoadedMsg struct {
	products []client.Product
	err      error
}

type bestsellersLoadedMsg struct {
	rows []client.Bestseller
	err  error
}

type productSavedMsg struct {
	created bool
	name    string
	err     error
}

type productDeletedMsg struct {
	name string
	err  error
}

func (a *App) loadProducts() tea.Cmd {
	return func() tea.Msg {
		products, err := a.sf.API.ListProducts(a.ctx)
		return productsLoadedMsg{products: products, err: err}
	}
}

// loadProduct fetches the product and its reviews together. A review
// failure does not hide the product.
func (a *App) loadProduct(id int64) tea.Cmd {
	return func() tea.Msg {
		var msg productLoadedMsg
		g, ctx := errgroup.WithContext(a.ctx)
		g.Go(func() error {
			p, err := a.sf.API.GetProduct(ctx, id)
			msg.product = p
			return err
		})
		g.Go(func() error {
			reviews, err := a.sf.API.ListReviews(ctx, id)
			msg.reviews = reviews
			msg.reviewsErr = err
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

func (a *App) postReview(productID int64, in client.ReviewInput) tea.Cmd {
	return func() tea.Msg {
		_, err := a.sf.API.CreateReview(a.ctx, productID, in)
		return reviewPostedMsg{productID: productID, err: err}
	}
}

func (a *App) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := a.sf.Login(a.ctx, email, password)
		return authDoneMsg{user: user, err: err}
	}
}

func (a *App) register(req client.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		user, err := a.sf.Register(a.ctx, req)
		return authDoneMsg{user: user, registered: true, err: err}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{err: a.sf.Logout()}
	}
}

func (a *App) checkout() tea.Cmd {
	return func() tea.Msg {
		resp, err := a.sf.Checkout(a.ctx)
		return checkoutDoneMsg{resp: resp, err: err}
	}
}

func (a *App) loadAccount() tea.Cmd {
	return func() tea.Msg {
		acct, err := a.sf.LoadAccount(a.ctx)
		return accountLoadedMsg{account: acct, err: err}
	}
}

func (a *App) saveProfile(in client.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		return profileSavedMsg{err: a.sf.UpdateProfile(a.ctx, in)}
	}
}

func (a *App) changePassword(current, next, confirm string) tea.Cmd {
	return func() tea.Msg {
		return passwordChangedMsg{err: a.sf.ChangePassword(a.ctx, current, next, confirm)}
	}
}

func (a *App) forgotPassword(email string) tea.Cmd {
	return func() tea.Msg {
		questions, err := a.sf.API.ForgotPassword(a.ctx, email)
		return questionsLoadedMsg{questions: questions, err: err}
	}
}

func (a *App) verifySecurity(email string, answers []string) tea.Cmd {
	return func() tea.Msg {
		token, err := a.sf.API.VerifySecurity(a.ctx, email, answers)
		return resetTokenMsg{token: token, err: err}
	}
}

func (a *App) resetPassword(token, next, confirm string) tea.Cmd {
	return func() tea.Msg {
		return passwordResetMsg{err: a.sf.ResetPassword(a.ctx, token, next, confirm)}
	}
}

func (a *App) loadAdminProducts() tea.Cmd {
	return func() tea.Msg {
		products, err := a.sf.API.ListProducts(a.ctx)
		return adminProductsLoadedMsg{products: products, err: err}
	}
}

func (a *App) loadBestsellers() tea.Cmd {
	return func() tea.Msg {
		rows, err := a.sf.API.Bestsellers(a.ctx)
		return bestsellersLoadedMsg{rows: rows, err: err}
	}
}

func (a *App) saveProduct(id int64, in client.ProductInput) tea.Cmd {
	return func() tea.Msg {
		if err := a.sf.RequireAdmin(); err != nil {
			return productSavedMsg{err: err}
		}
		var err error
		if id == 0 {
			_, err = a.sf.API.CreateProduct(a.ctx, in)
		} else {
			_, err = a.sf.API.UpdateProduct(a.ctx, id, in)
		}
		return productSavedMsg{created: id == 0, name: in.Name, err: err}
	}
}

func (a *App) deleteProduct(p client.Product) tea.Cmd {
	return func() tea.Msg {
		if err := a.sf.RequireAdmin(); err != nil {
			return productDeletedMsg{err: err}
		}
		return productDeletedMsg{name: p.Name, err: a.sf.API.DeleteProduct(a.ctx, p.ID)}
	}
}

// sessionEnded reports whether err already logged the user out. The
// session event handles navigation in that case.
func sessionEnded(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.SessionEnded
}
