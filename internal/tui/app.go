// ABOUTME: Root bubbletea model for the storefront TUI
// ABOUTME: Manages screen state, routes input to child views and reacts to session changes

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/account"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/cartview"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/catalog"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/dashboard"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/forms"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/menu"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/productview"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenCatalog
	ScreenProduct
	ScreenCart
	ScreenAccount
	ScreenAdmin
	ScreenForm
	ScreenRecovery
)

// String returns the title shown in the header
func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "Home"
	case ScreenCatalog:
		return "Products"
	case ScreenProduct:
		return "Product"
	case ScreenCart:
		return "Cart"
	case ScreenAccount:
		return "My Account"
	case ScreenAdmin:
		return "Admin"
	case ScreenForm:
		return "Form"
	case ScreenRecovery:
		return "Password Recovery"
	default:
		return "Unknown"
	}
}

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	frameRows        = 2  // Header and footer
)

// App is the root model for the TUI
type App struct {
	sf  *storefront.Storefront
	ctx context.Context

	screen     Screen
	width      int
	height     int
	flash      string
	flashLevel widgets.StatusLevel

	menu        *menu.Menu
	catalog     *catalog.Catalog
	detail      *productview.Detail
	cartView    *cartview.View
	accountView *account.View
	dash        *dashboard.Dashboard
	form        *forms.Form
	recovery    *forms.Recovery

	formReturn    Screen // where a cancelled form goes back to
	afterLogin    Screen // where a successful login continues
	pendingDelete *client.Product
	lastEmail     string
}

// New creates the root model around an already wired storefront
func New(sf *storefront.Storefront) *App {
	a := &App{
		sf:          sf,
		ctx:         context.Background(),
		screen:      ScreenMenu,
		catalog:     catalog.New(),
		detail:      productview.New(minTerminalWidth, 0),
		cartView:    cartview.New(minTerminalWidth),
		accountView: account.New(minTerminalWidth, 0),
		dash:        dashboard.New(minTerminalWidth, 0),
		afterLogin:  ScreenMenu,
	}
	if u := sf.Session.User(); u != nil {
		a.lastEmail = u.Email
	}
	a.menu = a.newMenu()
	if reason := sf.Session.RestoredReason(); reason != session.ReasonNone {
		a.setFlash(reason.Message(), widgets.StatusWarning)
	}
	return a
}

func (a *App) newMenu() *menu.Menu {
	return menu.New(a.sf.Session.IsAuthenticated(), a.sf.Session.IsAdmin())
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.menu.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, a.forward(msg)

	case tea.MouseMsg:
		a.sf.Monitor.Touch()
		return a, nil

	case tea.KeyMsg:
		a.sf.Monitor.Touch()
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(msg)

	case SessionChangedMsg:
		return a, a.handleSession(msg.Event)

	// Menu
	case menu.SelectedMsg:
		return a, a.handleMenu(msg.Action)
	case menu.DisabledMsg:
		cmd := a.showMenu()
		a.setFlash(msg.Reason, widgets.StatusWarning)
		return a, cmd

	// Catalog
	case catalog.SelectedMsg:
		return a, a.openProduct(msg.Product)
	case catalog.AddToCartMsg:
		a.addToCart(msg.Product)
		return a, nil
	case catalog.RefreshMsg:
		return a, a.loadProducts()
	case catalog.CancelledMsg:
		return a, a.showMenu()

	// Forms
	case forms.CancelledMsg:
		return a, a.closeForm()
	case forms.LoginMsg:
		a.lastEmail = msg.Email
		return a, a.login(msg.Email, msg.Password)
	case forms.RegisterMsg:
		a.lastEmail = msg.Request.Email
		return a, a.register(msg.Request)
	case forms.PasswordMsg:
		return a, a.changePassword(msg.Current, msg.Next, msg.Confirm)
	case forms.ProfileMsg:
		return a, a.saveProfile(msg.Update)
	case forms.ReviewMsg:
		return a, a.postReview(msg.ProductID, msg.Input)
	case forms.ProductMsg:
		return a, a.saveProduct(msg.ID, msg.Input)
	case forms.ConfirmMsg:
		if !msg.Yes || a.pendingDelete == nil {
			return a, a.closeForm()
		}
		return a, a.deleteProduct(*a.pendingDelete)
	case forms.RecoveryEmailMsg:
		a.lastEmail = msg.Email
		return a, a.forgotPassword(msg.Email)
	case forms.RecoveryAnswersMsg:
		return a, a.verifySecurity(msg.Email, msg.Answers)
	case forms.RecoveryResetMsg:
		return a, a.resetPassword(msg.Token, msg.Password, msg.Confirm)

	// Command results
	case productsLoadedMsg:
		if msg.err != nil {
			a.catalog.SetError(client.UserMessage(msg.err))
			return a, nil
		}
		a.catalog.SetProducts(msg.products)
		return a, nil

	case productLoadedMsg:
		return a, a.handleProductLoaded(msg)

	case reviewPostedMsg:
		if msg.err != nil {
			return a, a.formError(msg.err)
		}
		a.form = nil
		a.navigate(ScreenProduct)
		a.setFlash("Thanks for your review!", widgets.StatusOK)
		return a, a.loadProduct(msg.productID)

	case authDoneMsg:
		return a, a.handleAuthDone(msg)

	case logoutDoneMsg:
		if msg.err != nil {
			a.setFlash(client.UserMessage(msg.err), widgets.StatusCritical)
		}
		return a, nil

	case checkoutDoneMsg:
		return a, a.handleCheckoutDone(msg)

	case accountLoadedMsg:
		if msg.err != nil {
			if !sessionEnded(msg.err) {
				a.accountView.SetError(client.UserMessage(msg.err))
			}
			return a, nil
		}
		a.accountView.SetAccount(msg.account.Profile, msg.account.Orders)
		return a, nil

	case profileSavedMsg:
		if msg.err != nil {
			return a, a.formError(msg.err)
		}
		a.form = nil
		cmd := a.showAccount()
		a.setFlash("Profile updated", widgets.StatusOK)
		return a, cmd

	case passwordChangedMsg:
		if msg.err != nil {
			return a, a.formError(msg.err)
		}
		a.form = nil
		a.navigate(ScreenAccount)
		a.setFlash("Password changed", widgets.StatusOK)
		return a, nil

	case questionsLoadedMsg:
		if a.recovery == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.recovery.SetError(client.UserMessage(msg.err))
		}
		return a, a.recovery.ShowQuestions(msg.questions)

	case resetTokenMsg:
		if a.recovery == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.recovery.SetError(client.UserMessage(msg.err))
		}
		return a, a.recovery.ShowReset(msg.token)

	case passwordResetMsg:
		if a.recovery == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.recovery.SetError(client.UserMessage(msg.err))
		}
		a.recovery = nil
		cmd := a.openLogin(ScreenMenu, ScreenMenu)
		a.setFlash("Password reset. Please log in with your new password.", widgets.StatusOK)
		return a, cmd

	case adminProductsLoadedMsg:
		if msg.err != nil {
			if !sessionEnded(msg.err) {
				a.dash.SetProductsError(client.UserMessage(msg.err))
			}
			return a, nil
		}
		a.dash.SetProducts(msg.products)
		return a, nil

	case bestsellersLoadedMsg:
		if msg.err != nil {
			if !sessionEnded(msg.err) {
				a.dash.SetReportError(client.UserMessage(msg.err))
			}
			return a, nil
		}
		a.dash.SetBestsellers(msg.rows)
		return a, nil

	case productSavedMsg:
		if msg.err != nil {
			return a, a.formError(msg.err)
		}
		a.form = nil
		cmd := a.showAdmin()
		if msg.created {
			a.setFlash("Added "+msg.name, widgets.StatusOK)
		} else {
			a.setFlash("Updated "+msg.name, widgets.StatusOK)
		}
		return a, cmd

	case productDeletedMsg:
		if msg.err != nil {
			return a, a.formError(msg.err)
		}
		a.form = nil
		a.pendingDelete = nil
		cmd := a.showAdmin()
		a.setFlash("Deleted "+msg.name, widgets.StatusOK)
		return a, cmd
	}

	return a, a.forward(msg)
}

// forward hands messages the root does not own (spinner ticks, cursor
// blinks, huh internals) to whichever child is active.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenMenu:
		var model tea.Model
		model, cmd = a.menu.Update(msg)
		a.menu = model.(*menu.Menu)
	case ScreenCatalog:
		var model tea.Model
		model, cmd = a.catalog.Update(msg)
		a.catalog = model.(*catalog.Catalog)
	case ScreenForm:
		if a.form != nil {
			var model tea.Model
			model, cmd = a.form.Update(msg)
			a.form = model.(*forms.Form)
		}
	case ScreenRecovery:
		if a.recovery != nil {
			var model tea.Model
			model, cmd = a.recovery.Update(msg)
			a.recovery = model.(*forms.Recovery)
		}
	}
	return cmd
}

func (a *App) resize() {
	w := max(minTerminalWidth, a.width-1)
	h := max(0, a.height-frameRows)

	a.catalog.SetSize(w, h)
	a.detail.SetSize(w, h)
	a.cartView.SetWidth(w)
	a.accountView.SetSize(w, h)
	a.dash.SetSize(w, h)
	if a.form != nil {
		a.form.SetWidth(w)
	}
	if a.recovery != nil {
		a.recovery.SetWidth(w)
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenMenu:
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case ScreenCatalog:
		if !a.catalog.Searching() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "c":
				return a, a.showCart()
			}
		}
		return a, a.forward(msg)

	case ScreenProduct:
		return a, a.productKey(msg)
	case ScreenCart:
		return a, a.cartKey(msg)
	case ScreenAccount:
		return a, a.accountKey(msg)
	case ScreenAdmin:
		return a, a.adminKey(msg)
	}

	// Forms and the recovery wizard own every other key
	return a, a.forward(msg)
}

func (a *App) productKey(msg tea.KeyMsg) tea.Cmd {
	p, ok := a.detail.Product()
	switch msg.String() {
	case "q":
		return tea.Quit
	case "esc", "b":
		a.navigate(ScreenCatalog)
	case "up", "k":
		a.detail.ScrollUp()
	case "down", "j":
		a.detail.ScrollDown()
	case "c":
		return a.showCart()
	case "a":
		if ok {
			a.addToCart(p)
		}
	case "w":
		if !ok {
			return nil
		}
		if !a.sf.Session.IsAuthenticated() {
			cmd := a.openLogin(ScreenProduct, ScreenProduct)
			a.setFlash("Please log in to write a review", widgets.StatusInfo)
			return cmd
		}
		return a.openForm(forms.Review(p), ScreenProduct)
	case "r":
		if ok {
			return a.loadProduct(p.ID)
		}
	}
	return nil
}

func (a *App) cartKey(msg tea.KeyMsg) tea.Cmd {
	item, ok := a.cartView.Selected()
	switch msg.String() {
	case "q":
		return tea.Quit
	case "esc", "b":
		return a.showMenu()
	case "up", "k":
		a.cartView.MoveUp()
	case "down", "j":
		a.cartView.MoveDown()
	case "+", "=":
		if ok {
			a.sf.Cart.UpdateQuantity(item.ID, item.Quantity+1)
		}
	case "-":
		if ok {
			a.sf.Cart.UpdateQuantity(item.ID, item.Quantity-1)
		}
	case "d", "delete":
		if ok {
			a.sf.Cart.RemoveFromCart(item.ID)
			a.setFlash("Removed "+item.Name, widgets.StatusInfo)
		}
	case "x":
		if a.sf.Cart.Len() > 0 {
			a.sf.Cart.ClearCart()
			a.setFlash("Cart cleared", widgets.StatusInfo)
		}
	case "o", "enter":
		if a.sf.Cart.Len() == 0 {
			a.setFlash("Your cart is empty", widgets.StatusWarning)
			return nil
		}
		if !a.sf.Session.IsAuthenticated() {
			cmd := a.openLogin(ScreenCart, ScreenCart)
			a.setFlash("Please log in to check out", widgets.StatusInfo)
			return cmd
		}
		a.setFlash("Placing order...", widgets.StatusInfo)
		return a.checkout()
	}
	a.cartView.Refresh(a.sf.Cart)
	return nil
}

func (a *App) accountKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "esc", "b":
		return a.showMenu()
	case "up", "k":
		a.accountView.ScrollUp()
	case "down", "j":
		a.accountView.ScrollDown()
	case "e":
		return a.openForm(forms.Profile(a.sf.Session.User()), ScreenAccount)
	case "p":
		return a.openForm(forms.ChangePassword(), ScreenAccount)
	case "r":
		return a.showAccount()
	}
	return nil
}

func (a *App) adminKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "esc", "b":
		return a.showMenu()
	case "tab":
		if a.dash.Tab() == dashboard.TabProducts {
			a.dash.SetTab(dashboard.TabBestsellers)
		} else {
			a.dash.SetTab(dashboard.TabProducts)
		}
	case "up", "k":
		a.dash.MoveUp()
	case "down", "j":
		a.dash.MoveDown()
	case "r":
		return a.showAdmin()
	case "a":
		return a.openForm(forms.Product(nil), ScreenAdmin)
	case "e", "enter":
		if p, ok := a.dash.Selected(); ok && a.dash.Tab() == dashboard.TabProducts {
			return a.openForm(forms.Product(&p), ScreenAdmin)
		}
	case "d":
		if p, ok := a.dash.Selected(); ok && a.dash.Tab() == dashboard.TabProducts {
			a.pendingDelete = &p
			question := fmt.Sprintf("Delete %s? This cannot be undone.", p.Name)
			return a.openForm(forms.Confirm("Delete product", question), ScreenAdmin)
		}
	}
	return nil
}

func (a *App) handleMenu(action menu.Action) tea.Cmd {
	switch action {
	case menu.ActionCatalog:
		return a.showCatalog()
	case menu.ActionCart:
		return a.showCart()
	case menu.ActionLogin:
		return a.openLogin(ScreenMenu, ScreenMenu)
	case menu.ActionRegister:
		a.afterLogin = ScreenMenu
		return a.openForm(forms.Register(), ScreenMenu)
	case menu.ActionRecover:
		a.recovery = forms.NewRecovery()
		a.recovery.SetWidth(max(minTerminalWidth, a.width-1))
		a.navigate(ScreenRecovery)
		return a.recovery.Init()
	case menu.ActionAccount:
		return a.showAccount()
	case menu.ActionAdmin:
		return a.showAdmin()
	case menu.ActionLogout:
		return a.logout()
	case menu.ActionQuit:
		return tea.Quit
	}
	return a.showMenu()
}

// handleSession reacts to session events published from outside Update:
// expired tokens, idle admin timeouts, and the app's own login/logout.
func (a *App) handleSession(ev session.Event) tea.Cmd {
	if ev.Authenticated {
		if a.screen == ScreenMenu {
			return a.showMenu()
		}
		return nil
	}

	a.accountView = account.New(max(minTerminalWidth, a.width-1), max(0, a.height-frameRows))
	a.dash = dashboard.New(max(minTerminalWidth, a.width-1), max(0, a.height-frameRows))
	a.pendingDelete = nil

	switch ev.Reason {
	case session.ReasonExpired, session.ReasonInactivity:
		a.form = nil
		a.recovery = nil
		cmd := a.openLogin(ScreenMenu, ScreenMenu)
		a.setFlash(ev.Reason.Message(), widgets.StatusWarning)
		return cmd
	default:
		cmd := a.showMenu()
		a.setFlash(ev.Reason.Message(), widgets.StatusInfo)
		return cmd
	}
}

func (a *App) handleAuthDone(msg authDoneMsg) tea.Cmd {
	if msg.err != nil {
		return a.formError(msg.err)
	}
	a.form = nil
	next := a.afterLogin
	a.afterLogin = ScreenMenu
	cmd := a.goTo(next)

	greeting := "Welcome back, " + msg.user.Name
	if msg.registered {
		greeting = "Account created. Welcome, " + msg.user.Name
	}
	a.setFlash(greeting, widgets.StatusOK)
	return cmd
}

func (a *App) handleCheckoutDone(msg checkoutDoneMsg) tea.Cmd {
	a.cartView.Refresh(a.sf.Cart)
	if msg.err != nil {
		switch {
		case sessionEnded(msg.err):
			return nil
		case errors.Is(msg.err, storefront.ErrNotSignedIn):
			cmd := a.openLogin(ScreenCart, ScreenCart)
			a.setFlash("Please log in to check out", widgets.StatusInfo)
			return cmd
		case errors.Is(msg.err, cart.ErrEmpty):
			a.setFlash("Your cart is empty", widgets.StatusWarning)
		default:
			a.setFlash("Checkout failed: "+client.UserMessage(msg.err), widgets.StatusCritical)
		}
		return nil
	}
	a.setFlash(fmt.Sprintf("Order #%d placed. Thank you!", msg.resp.OrderID), widgets.StatusOK)
	return nil
}

func (a *App) handleProductLoaded(msg productLoadedMsg) tea.Cmd {
	if msg.err != nil {
		if !sessionEnded(msg.err) && a.screen == ScreenProduct {
			a.setFlash(client.UserMessage(msg.err), widgets.StatusCritical)
		}
		return nil
	}
	// Ignore a late result for a product the user already left
	if current, ok := a.detail.Product(); ok && current.ID != msg.product.ID {
		return nil
	}
	a.detail.SetProduct(*msg.product)
	if msg.reviewsErr != nil {
		a.detail.SetReviewsError(client.UserMessage(msg.reviewsErr))
	} else {
		a.detail.SetReviews(msg.reviews)
	}
	a.syncInCart(msg.product.ID)
	return nil
}

// formError shows err on the open form unless the session event already
// moved the user to the login screen.
func (a *App) formError(err error) tea.Cmd {
	if sessionEnded(err) || a.form == nil {
		return nil
	}
	return a.form.SetError(client.UserMessage(err))
}

func (a *App) addToCart(p client.Product) {
	if !p.InStock() {
		a.setFlash(p.Name+" is out of stock", widgets.StatusWarning)
		return
	}
	if item, ok := a.sf.Cart.Get(p.ID); ok && item.Quantity >= p.Stock {
		a.setFlash(fmt.Sprintf("Only %d of %s in stock", p.Stock, p.Name), widgets.StatusWarning)
		return
	}
	a.sf.Cart.AddToCart(p.CartProduct())
	a.syncInCart(p.ID)
	a.setFlash("Added "+p.Name+" to cart", widgets.StatusOK)
}

func (a *App) syncInCart(id int64) {
	if current, ok := a.detail.Product(); ok && current.ID == id {
		item, _ := a.sf.Cart.Get(id)
		a.detail.SetInCart(item.Quantity)
	}
}

// Navigation

func (a *App) navigate(s Screen) {
	a.screen = s
	a.flash = ""
}

func (a *App) setFlash(text string, level widgets.StatusLevel) {
	a.flash = text
	a.flashLevel = level
}

func (a *App) goTo(s Screen) tea.Cmd {
	switch s {
	case ScreenCatalog:
		a.navigate(ScreenCatalog)
		return nil
	case ScreenProduct:
		a.navigate(ScreenProduct)
		return nil
	case ScreenCart:
		return a.showCart()
	case ScreenAccount:
		return a.showAccount()
	case ScreenAdmin:
		return a.showAdmin()
	default:
		return a.showMenu()
	}
}

func (a *App) showMenu() tea.Cmd {
	a.navigate(ScreenMenu)
	a.menu = a.newMenu()
	return a.menu.Init()
}

func (a *App) showCatalog() tea.Cmd {
	a.navigate(ScreenCatalog)
	return a.loadProducts()
}

func (a *App) openProduct(p client.Product) tea.Cmd {
	a.detail.SetProduct(p)
	a.syncInCart(p.ID)
	a.navigate(ScreenProduct)
	return a.loadProduct(p.ID)
}

func (a *App) showCart() tea.Cmd {
	a.cartView.Refresh(a.sf.Cart)
	a.navigate(ScreenCart)
	return nil
}

func (a *App) showAccount() tea.Cmd {
	if !a.sf.Session.IsAuthenticated() {
		cmd := a.openLogin(ScreenAccount, ScreenMenu)
		a.setFlash(storefront.ErrNotSignedIn.Error(), widgets.StatusInfo)
		return cmd
	}
	a.accountView = account.New(max(minTerminalWidth, a.width-1), max(0, a.height-frameRows))
	a.navigate(ScreenAccount)
	return a.loadAccount()
}

func (a *App) showAdmin() tea.Cmd {
	if err := a.sf.RequireAdmin(); err != nil {
		cmd := a.showMenu()
		a.setFlash(storefront.ErrAdminRequired.Error(), widgets.StatusWarning)
		return cmd
	}
	a.navigate(ScreenAdmin)
	return tea.Batch(a.loadAdminProducts(), a.loadBestsellers())
}

func (a *App) openForm(f *forms.Form, returnTo Screen) tea.Cmd {
	a.form = f
	a.form.SetWidth(max(minTerminalWidth, a.width-1))
	a.formReturn = returnTo
	a.navigate(ScreenForm)
	return a.form.Init()
}

// openLogin shows the login form. A successful login continues to next,
// cancelling goes back to returnTo.
func (a *App) openLogin(next, returnTo Screen) tea.Cmd {
	a.afterLogin = next
	return a.openForm(forms.Login(a.lastEmail), returnTo)
}

func (a *App) closeForm() tea.Cmd {
	a.form = nil
	a.recovery = nil
	a.pendingDelete = nil
	a.afterLogin = ScreenMenu
	return a.goTo(a.formReturn)
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenMenu:
		content = a.menu.View()
	case ScreenCatalog:
		content = a.catalog.View()
	case ScreenProduct:
		content = a.detail.View()
	case ScreenCart:
		content = a.cartView.Render()
	case ScreenAccount:
		content = a.accountView.View()
	case ScreenAdmin:
		content = a.dash.View()
	case ScreenForm:
		if a.form != nil {
			content = a.form.View()
		}
	case ScreenRecovery:
		if a.recovery != nil {
			content = a.recovery.View()
		}
	}
	return a.wrapWithFrame(lipgloss.NewStyle().Padding(0, 1).Render(content))
}

func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

// renderHeader creates the header with the shop name, signed-in user and cart count
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	title := a.screen.String()
	if a.screen == ScreenForm && a.form != nil {
		title = a.form.Title()
	}
	leftText := fmt.Sprintf(" %s %s %s ", icons.App.String(), titleStyle.Render("Storefront"), styles.Subtitle.Render("· "+title))

	rightText := " "
	if u := a.sf.Session.User(); u != nil {
		rightText += contextStyle.Render(icons.User.String()+" "+u.Name) + " "
		if u.IsAdmin {
			rightText += widgets.Badge("admin", widgets.StatusInfo) + " "
		}
	}
	rightText += widgets.CartBadge(a.sf.Cart.CartItemsCount()) + " "

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText)) // -4 for ╭─ and ─╮
	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╭─") + leftText + borderStyle.Render(fill) + rightText + borderStyle.Render("─╮")
}

// shortcuts returns the key hints for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenCatalog:
		if a.catalog.Searching() {
			return []string{"Type Filter", "Enter Done", "Esc Clear"}
		}
		return []string{"↑↓ Navigate", "Enter Details", "a Add", "/ Search", "c Cart", "b Back"}
	case ScreenProduct:
		return []string{"a Add to cart", "w Review", "↑↓ Scroll", "c Cart", "b Back"}
	case ScreenCart:
		return []string{"↑↓ Navigate", "+/- Qty", "d Remove", "x Clear", "o Checkout", "b Back"}
	case ScreenAccount:
		return []string{"e Edit profile", "p Password", "r Refresh", "b Back"}
	case ScreenAdmin:
		return []string{"Tab Switch", "a Add", "e Edit", "d Delete", "r Refresh", "b Back"}
	case ScreenForm:
		return []string{"Tab Next", "Enter Submit", "Esc Cancel"}
	case ScreenRecovery:
		return []string{"Enter Continue", "Esc Cancel"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and the flash message
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftWidth := lipgloss.Width(leftText)

	// The flash gets whatever room the shortcuts leave
	rightText := ""
	if a.flash != "" {
		room := width - 4 - leftWidth - 3 - lipgloss.Width(widgets.StatusIcon(a.flashLevel))
		if flash := clip(a.flash, room); flash != "" {
			rightText = " " + widgets.StatusText(flash, a.flashLevel) + " "
		}
	}

	fillWidth := max(0, width-4-leftWidth-lipgloss.Width(rightText)) // -4 for ╰─ and ─╯
	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╰─") + leftText + borderStyle.Render(fill) + rightText + borderStyle.Render("─╯")
}

func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and forwards session events into it until it exits
func Run(sf *storefront.Storefront) error {
	icons.Enable(sf.Config.NerdFonts)
	slog.Debug("Starting interactive shop", "nerd_fonts", icons.HasNerdFonts(), "signed_in", sf.Session.IsAuthenticated())
	app := New(sf)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Send blocks until Update takes the message, so Update must never
	// mutate the session directly.
	unsubscribe := sf.Session.Subscribe(func(ev session.Event) {
		p.Send(SessionChangedMsg{Event: ev})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
