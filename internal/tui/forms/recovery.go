// ABOUTME: Three-step password recovery wizard: email, security answers, new password
// ABOUTME: Each step hands off to the root model, which calls the API and advances it

package forms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/icons"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

// RecoveryEmailMsg asks for the security questions of Email
type RecoveryEmailMsg struct {
	Email string
}

// RecoveryAnswersMsg submits answers for verification
type RecoveryAnswersMsg struct {
	Email   string
	Answers []string
}

// RecoveryResetMsg submits the new password with the reset token
type RecoveryResetMsg struct {
	Token    string
	Password string
	Confirm  string
}

var recoverySteps = []string{"Email", "Security Questions", "New Password"}

// Recovery is the password recovery wizard
type Recovery struct {
	step      int
	form      *huh.Form
	spinner   spinner.Model
	pending   bool
	err       string
	width     int
	email     string
	questions []string
	answers   []string
	token     string
	password  string
	confirm   string
}

// NewRecovery starts the wizard at the email step
func NewRecovery() *Recovery {
	r := &Recovery{
		step:    1,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	r.form = r.buildStep()
	return r
}

func (r *Recovery) buildStep() *huh.Form {
	var group *huh.Group
	switch r.step {
	case 1:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Description("The address you registered with").
				Value(&r.email).
				Validate(validation.Email),
		).Title("Step 1: Find your account")

	case 2:
		var fields []huh.Field
		for i, q := range r.questions {
			fields = append(fields, huh.NewInput().
				Title(q).
				Value(&r.answers[i]).
				Validate(validation.Required("answer")))
		}
		group = huh.NewGroup(fields...).
			Title("Step 2: Security questions").
			Description("Answers are not case sensitive")

	default:
		group = huh.NewGroup(
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&r.password).
				Validate(validation.Password),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&r.confirm).
				Validate(validation.Confirmation(&r.password)),
		).Title("Step 3: Choose a new password")
	}
	return huh.NewForm(group).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (r *Recovery) Init() tea.Cmd {
	return r.form.Init()
}

// Update implements tea.Model
func (r *Recovery) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if r.pending {
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return r, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}
	if r.form.State == huh.StateCompleted {
		return r, r.submitStep()
	}
	return r, cmd
}

func (r *Recovery) submitStep() tea.Cmd {
	r.pending = true
	r.err = ""

	var out tea.Msg
	switch r.step {
	case 1:
		out = RecoveryEmailMsg{Email: strings.TrimSpace(r.email)}
	case 2:
		answers := make([]string, len(r.answers))
		for i, a := range r.answers {
			answers[i] = strings.TrimSpace(a)
		}
		out = RecoveryAnswersMsg{Email: strings.TrimSpace(r.email), Answers: answers}
	default:
		out = RecoveryResetMsg{Token: r.token, Password: r.password, Confirm: r.confirm}
	}
	return tea.Batch(r.spinner.Tick, func() tea.Msg { return out })
}

// ShowQuestions advances to the answers step
func (r *Recovery) ShowQuestions(questions []string) tea.Cmd {
	if len(questions) == 0 {
		return r.SetError("no security questions are set for this account")
	}
	r.questions = questions
	r.answers = make([]string, len(questions))
	return r.advance(2)
}

// ShowReset advances to the new password step
func (r *Recovery) ShowReset(token string) tea.Cmd {
	r.token = token
	return r.advance(3)
}

func (r *Recovery) advance(step int) tea.Cmd {
	r.step = step
	r.pending = false
	r.err = ""
	r.form = r.buildStep()
	return r.form.Init()
}

// SetError shows msg and lets the user retry the current step
func (r *Recovery) SetError(msg string) tea.Cmd {
	r.pending = false
	r.err = msg
	r.form = r.buildStep()
	return r.form.Init()
}

// Step returns the current step number, starting at 1
func (r *Recovery) Step() int {
	return r.step
}

// Err returns the error shown above the current step
func (r *Recovery) Err() string {
	return r.err
}

// Pending reports whether a step is waiting on the backend
func (r *Recovery) Pending() bool {
	return r.pending
}

// SetWidth sets the wizard width for rendering
func (r *Recovery) SetWidth(width int) {
	r.width = width
}

// View implements tea.Model
func (r *Recovery) View() string {
	var sb strings.Builder
	sb.WriteString(r.renderProgress())
	sb.WriteString("\n\n")
	if r.err != "" {
		sb.WriteString(styles.Error.Render(icons.Critical.String() + " " + r.err))
		sb.WriteString("\n\n")
	}
	if r.pending {
		sb.WriteString(r.spinner.View() + " Checking...")
		return sb.String()
	}
	sb.WriteString(r.form.View())
	return sb.String()
}

// renderProgress draws the step indicator box
func (r *Recovery) renderProgress() string {
	width := max(60, r.width-1)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range recoverySteps {
		n := i + 1
		var indicator string
		var nameStyle lipgloss.Style
		switch {
		case n < r.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case n == r.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}
		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │" is 5 cells of chrome
	barWidth := width - 5
	filled := (r.step * barWidth) / len(recoverySteps)
	bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("─", barWidth-filled))

	title := icons.Lock.String() + " Reset password"
	topBorder := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", max(0, width-5-lipgloss.Width(title))) + "┐"
	stepsRow := "│ " + stepsLine + strings.Repeat(" ", max(0, width-4-lipgloss.Width(stepsLine))) + " │"
	barRow := "│  " + bar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{topBorder, stepsRow, barRow, bottomBorder}, "\n"))
}
