// ABOUTME: Account forms: login, registration, password change and profile edit
// ABOUTME: Field rules come from the validation package so the CLI and TUI agree

package forms

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

// LoginMsg carries submitted credentials
type LoginMsg struct {
	Email    string
	Password string
}

// RegisterMsg carries a completed sign-up form
type RegisterMsg struct {
	Request client.RegisterRequest
}

// PasswordMsg carries a password change
type PasswordMsg struct {
	Current string
	Next    string
	Confirm string
}

// ProfileMsg carries profile edits
type ProfileMsg struct {
	Update client.ProfileUpdate
}

// Login builds the login form, prefilled with email when known
func Login(email string) *Form {
	var password string
	build := func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Placeholder("you@example.com").
					Value(&email).
					Validate(validation.Email),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(validation.Required("password")),
			),
		)
	}
	return newForm("Log in", build, func() (tea.Msg, error) {
		return LoginMsg{Email: strings.TrimSpace(email), Password: password}, nil
	})
}

func securityOptions() []huh.Option[string] {
	return huh.NewOptions(client.SecurityQuestions...)
}

// Register builds the two-page sign-up form
func Register() *Form {
	var (
		req     client.RegisterRequest
		confirm string
	)
	req.SecurityQuestion1 = client.SecurityQuestions[0]
	req.SecurityQuestion2 = client.SecurityQuestions[1]

	build := func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Full name").Value(&req.Name).Validate(validation.Required("name")),
				huh.NewInput().Title("Email").Value(&req.Email).Validate(validation.Email),
				huh.NewInput().Title("Phone").Description("Optional").Value(&req.Phone),
				huh.NewInput().Title("Address").Description("Optional").Value(&req.Address),
				huh.NewInput().
					Title("Password").
					Description("At least 6 characters").
					EchoMode(huh.EchoModePassword).
					Value(&req.Password).
					Validate(validation.Password),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm).
					Validate(validation.Confirmation(&req.Password)),
			).Title("Account"),
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Security question 1").
					Options(securityOptions()...).
					Value(&req.SecurityQuestion1),
				huh.NewInput().
					Title("Answer").
					Value(&req.SecurityAnswer1).
					Validate(validation.Required("first security answer")),
				huh.NewSelect[string]().
					Title("Security question 2").
					Options(securityOptions()...).
					Value(&req.SecurityQuestion2).
					Validate(func(q string) error {
						if q == req.SecurityQuestion1 {
							return errors.New("security questions must be different")
						}
						return nil
					}),
				huh.NewInput().
					Title("Answer").
					Value(&req.SecurityAnswer2).
					Validate(validation.Required("second security answer")),
			).Title("Account recovery").
				Description("Used to reset your password if you forget it"),
		)
	}
	return newForm("Create account", build, func() (tea.Msg, error) {
		out := req
		out.Name = strings.TrimSpace(out.Name)
		out.Email = strings.TrimSpace(out.Email)
		if err := validation.Registration(out); err != nil {
			return nil, err
		}
		return RegisterMsg{Request: out}, nil
	})
}

// ChangePassword builds the change password form
func ChangePassword() *Form {
	var current, next, confirm string
	build := func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Current password").
					EchoMode(huh.EchoModePassword).
					Value(&current).
					Validate(validation.Required("current password")),
				huh.NewInput().
					Title("New password").
					EchoMode(huh.EchoModePassword).
					Value(&next).
					Validate(validation.Password),
				huh.NewInput().
					Title("Confirm new password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm).
					Validate(validation.Confirmation(&next)),
			),
		)
	}
	return newForm("Change password", build, func() (tea.Msg, error) {
		return PasswordMsg{Current: current, Next: next, Confirm: confirm}, nil
	})
}

// Profile builds the profile form prefilled from u
func Profile(u *session.User) *Form {
	var in client.ProfileUpdate
	if u != nil {
		in = client.ProfileUpdate{Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address}
	}
	build := func() *huh.Form {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Full name").Value(&in.Name).Validate(validation.Required("name")),
				huh.NewInput().Title("Email").Value(&in.Email).Validate(validation.Email),
				huh.NewInput().Title("Phone").Value(&in.Phone),
				huh.NewText().Title("Address").Lines(3).Value(&in.Address),
			),
		)
	}
	return newForm("Edit profile", build, func() (tea.Msg, error) {
		return ProfileMsg{Update: client.ProfileUpdate{
			Name:    strings.TrimSpace(in.Name),
			Email:   strings.TrimSpace(in.Email),
			Phone:   strings.TrimSpace(in.Phone),
			Address: strings.TrimSpace(in.Address),
		}}, nil
	})
}
