// ABOUTME: Main menu for the storefront TUI
// ABOUTME: A huh select whose options depend on who is signed in

package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
)

// Action is a main menu destination
type Action int

const (
	ActionCatalog Action = iota
	ActionCart
	ActionLogin
	ActionRegister
	ActionRecover
	ActionAccount
	ActionAdmin
	ActionLogout
	ActionQuit
)

// String returns the string representation of an Action
func (a Action) String() string {
	switch a {
	case ActionCatalog:
		return "catalog"
	case ActionCart:
		return "cart"
	case ActionLogin:
		return "login"
	case ActionRegister:
		return "register"
	case ActionRecover:
		return "recover"
	case ActionAccount:
		return "account"
	case ActionAdmin:
		return "admin"
	case ActionLogout:
		return "logout"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// SelectedMsg is sent when the user picks an enabled option
type SelectedMsg struct {
	Action Action
}

// DisabledMsg is sent when the user picks an option they cannot use. The
// form is finished at that point; callers show a fresh menu.
type DisabledMsg struct {
	Action Action
	Reason string
}

type option struct {
	label   string
	value   Action
	enabled bool
	reason  string
}

// Menu is the main menu model
type Menu struct {
	options  []option
	selected Action
	form     *huh.Form
}

// New builds the menu for the current session
func New(signedIn, isAdmin bool) *Menu {
	var opts []option
	opts = append(opts,
		option{label: "Browse products", value: ActionCatalog, enabled: true},
		option{label: "View cart", value: ActionCart, enabled: true},
	)
	if signedIn {
		opts = append(opts, option{label: "My account", value: ActionAccount, enabled: true})
	} else {
		opts = append(opts,
			option{label: "Log in", value: ActionLogin, enabled: true},
			option{label: "Create account", value: ActionRegister, enabled: true},
			option{label: "Forgot password", value: ActionRecover, enabled: true},
		)
	}
	opts = append(opts, option{label: "Admin dashboard", value: ActionAdmin, enabled: isAdmin, reason: "admin access required"})
	if signedIn {
		opts = append(opts, option{label: "Log out", value: ActionLogout, enabled: true})
	}
	opts = append(opts, option{label: "Quit", value: ActionQuit, enabled: true})

	m := &Menu{options: opts, selected: ActionCatalog}
	m.form = m.buildForm()
	return m
}

func (m *Menu) buildForm() *huh.Form {
	var options []huh.Option[Action]
	for _, opt := range m.options {
		label := opt.label
		if !opt.enabled {
			label = fmt.Sprintf("%s (%s)", label, opt.reason)
		}
		options = append(options, huh.NewOption(label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("What would you like to do?").
				Options(options...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.resolve()
	}
	return m, cmd
}

func (m *Menu) resolve() tea.Cmd {
	action := m.selected
	for _, opt := range m.options {
		if opt.value == action && !opt.enabled {
			reason := opt.reason
			return func() tea.Msg { return DisabledMsg{Action: action, Reason: reason} }
		}
	}
	return func() tea.Msg { return SelectedMsg{Action: action} }
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// Options returns the actions in display order
func (m *Menu) Options() []Action {
	out := make([]Action, len(m.options))
	for i, o := range m.options {
		out[i] = o.value
	}
	return out
}
