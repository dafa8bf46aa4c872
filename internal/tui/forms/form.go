// ABOUTME: Single-screen huh form wrapped as a bubbletea model
// ABOUTME: Handles cancel, submit, the pending spinner and server-side errors

package forms

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
)

// CancelledMsg is sent when the user leaves a form with esc
type CancelledMsg struct{}

// Form is a huh form whose completion produces a typed message. The fields
// are bound to values that outlive the huh form, so a rebuilt form keeps
// what the user typed.
type Form struct {
	title   string
	build   func() *huh.Form
	submit  func() (tea.Msg, error)
	form    *huh.Form
	spinner spinner.Model
	pending bool
	err     string
	width   int
}

func newForm(title string, build func() *huh.Form, submit func() (tea.Msg, error)) *Form {
	f := &Form{
		title:   title,
		build:   build,
		submit:  submit,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	f.form = f.themed(build())
	return f
}

func (f *Form) themed(form *huh.Form) *huh.Form {
	return form.WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if f.pending {
		// Waiting on the backend; only the spinner moves.
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return f, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		out, err := f.submit()
		if err != nil {
			return f, f.SetError(err.Error())
		}
		f.pending = true
		f.err = ""
		return f, tea.Batch(f.spinner.Tick, func() tea.Msg { return out })
	}
	return f, cmd
}

// SetError shows err above a fresh copy of the form so the user can retry
func (f *Form) SetError(msg string) tea.Cmd {
	f.pending = false
	f.err = msg
	f.form = f.themed(f.build())
	return f.form.Init()
}

// Pending reports whether a submission is waiting on the backend
func (f *Form) Pending() bool {
	return f.pending
}

// Err returns the error shown above the form
func (f *Form) Err() string {
	return f.err
}

// Title returns the form heading
func (f *Form) Title() string {
	return f.title
}

// SetWidth sets the form width for rendering
func (f *Form) SetWidth(width int) {
	f.width = width
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(f.title))
	sb.WriteString("\n")
	if f.err != "" {
		sb.WriteString(styles.Error.Render(icons.Critical.String() + " " + f.err))
		sb.WriteString("\n\n")
	}
	if f.pending {
		sb.WriteString(f.spinner.View() + " Submitting...")
		return sb.String()
	}
	sb.WriteString(f.form.View())
	return sb.String()
}
