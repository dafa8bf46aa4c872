// ABOUTME: Authentication commands for the storefront CLI
// ABOUTME: Login, logout, whoami, register, password recovery and password change

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
	"github.com/Spiffy047/Ecommerce-frontend/internal/storefront"
	"github.com/Spiffy047/Ecommerce-frontend/internal/tui/styles"
	"github.com/Spiffy047/Ecommerce-frontend/internal/validation"
)

// interactive reports whether missing values may be prompted for
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// errMissingInput is returned when a required flag is absent and there is
// no terminal to prompt on
var errMissingInput = errors.New("missing required flags; run in a terminal to be prompted")

var (
	authEmail    string
	authPassword string

	regName      string
	regPhone     string
	regAddress   string
	regQuestions []string
	regAnswers   []string

	recoverAnswers  []string
	currentPassword string
	newPassword     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Long:  `Sign in and keep the session for later commands. Prompts for anything not given as a flag.`,
	Run: func(cmd *cobra.Command, args []string) {
		run(runLogin)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		run(runLogout)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		run(runWhoami)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account and sign in. Two different security questions are required;
pass each --question as its number or full text:

` + questionList(),
	Run: func(cmd *cobra.Command, args []string) {
		run(runRegister)
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Reset a forgotten password with security questions",
	Run: func(cmd *cobra.Command, args []string) {
		run(runRecover)
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Run: func(cmd *cobra.Command, args []string) {
		run(runPasswd)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, recoverCmd, passwdCmd)

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Account password")

	registerCmd.Flags().StringVar(&regName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "Password (at least 6 characters)")
	registerCmd.Flags().StringVar(&regPhone, "phone", "", "Phone number")
	registerCmd.Flags().StringVar(&regAddress, "address", "", "Delivery address")
	registerCmd.Flags().StringArrayVar(&regQuestions, "question", nil, "Security question (number or text), twice")
	registerCmd.Flags().StringArrayVar(&regAnswers, "answer", nil, "Answer to each --question, in order")

	recoverCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	recoverCmd.Flags().StringArrayVar(&recoverAnswers, "answer", nil, "Answer to each security question, in order")
	recoverCmd.Flags().StringVar(&newPassword, "new-password", "", "New password")

	passwdCmd.Flags().StringVar(&currentPassword, "current", "", "Current password")
	passwdCmd.Flags().StringVar(&newPassword, "new", "", "New password")
}

// prompt runs a themed huh form
func prompt(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(styles.FormTheme()).Run()
}

func passwordInput(title string, value *string) *huh.Input {
	return huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(value)
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	email, password := authEmail, authPassword
	if email == "" || password == "" {
		if !interactive() {
			fmt.Fprintf(w, "Error: %v (--email, --password)\n", errMissingInput)
			return exitError
		}
		err := prompt(
			huh.NewInput().Title("Email").Value(&email).Validate(validation.Email),
			passwordInput("Password", &password).Validate(validation.Required("password")),
		)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		user, err := sf.Login(ctx, email, password)
		if err != nil {
			return fail(w, err)
		}
		printUser(w, user, sf.Session.Token())
		return exitOK
	})
}

// runLogout ends the stored session and returns exit code
func runLogout(_ context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		if !sf.Session.IsAuthenticated() {
			fmt.Fprintln(w, "Not signed in.")
			return exitOK
		}
		if err := sf.Logout(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		fmt.Fprintln(w, session.ReasonManual.Message())
		return exitOK
	})
}

// runWhoami prints the stored user and returns exit code
func runWhoami(_ context.Context, w io.Writer) int {
	return withStorefront(w, func(sf *storefront.Storefront) int {
		user := sf.Session.User()
		if user == nil {
			fmt.Fprintln(w, "Not signed in.")
			return exitRejected
		}
		printUser(w, user, sf.Session.Token())
		return exitOK
	})
}

func printUser(w io.Writer, user *session.User, token string) {
	if IsJSONOutput() {
		printJSON(w, user)
		return
	}
	fmt.Fprintln(w, formatUserHuman(user, session.ParseClaims(token)))
}

// formatUserHuman formats the signed-in user for the terminal
func formatUserHuman(user *session.User, claims session.Claims) string {
	role := "customer"
	if user.IsAdmin {
		role = "admin"
	}
	out := fmt.Sprintf(`Signed in as %s <%s>
Role:    %s`, user.Name, user.Email, role)
	if !claims.ExpiresAt.IsZero() {
		out += "\nExpires: " + claims.ExpiresAt.Local().Format(time.RFC1123)
	}
	return out
}

func questionList() string {
	var b strings.Builder
	for i, q := range client.SecurityQuestions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, q)
	}
	return b.String()
}

// resolveQuestion accepts a question number or its text
func resolveQuestion(s string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 1 && n <= len(client.SecurityQuestions) {
		return client.SecurityQuestions[n-1]
	}
	return strings.TrimSpace(s)
}

// runRegister creates an account and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	req := client.RegisterRequest{
		Name:     regName,
		Email:    authEmail,
		Password: authPassword,
		Phone:    regPhone,
		Address:  regAddress,
	}

	if len(regQuestions) != 2 || len(regAnswers) != 2 {
		if !interactive() {
			fmt.Fprintf(w, "Error: %v (two --question and two --answer)\n", errMissingInput)
			return exitError
		}
		if err := promptRegistration(&req); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	} else {
		req.SecurityQuestion1 = resolveQuestion(regQuestions[0])
		req.SecurityAnswer1 = regAnswers[0]
		req.SecurityQuestion2 = resolveQuestion(regQuestions[1])
		req.SecurityAnswer2 = regAnswers[1]
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		user, err := sf.Register(ctx, req)
		if err != nil {
			return fail(w, err)
		}
		if !IsJSONOutput() {
			fmt.Fprintln(w, "Account created.")
		}
		printUser(w, user, sf.Session.Token())
		return exitOK
	})
}

func promptRegistration(req *client.RegisterRequest) error {
	options := make([]huh.Option[string], len(client.SecurityQuestions))
	for i, q := range client.SecurityQuestions {
		options[i] = huh.NewOption(q, q)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&req.Name).Validate(validation.Required("name")),
			huh.NewInput().Title("Email").Value(&req.Email).Validate(validation.Email),
			passwordInput("Password", &req.Password).Validate(validation.Password),
			huh.NewInput().Title("Phone").Value(&req.Phone),
			huh.NewInput().Title("Address").Value(&req.Address),
		).Title("Create account"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Security question 1").Options(options...).Value(&req.SecurityQuestion1),
			huh.NewInput().Title("Answer").Value(&req.SecurityAnswer1).Validate(validation.Required("answer")),
			huh.NewSelect[string]().Title("Security question 2").Options(options...).Value(&req.SecurityQuestion2).
				Validate(func(q string) error {
					if q == req.SecurityQuestion1 {
						return errors.New("security questions must be different")
					}
					return nil
				}),
			huh.NewInput().Title("Answer").Value(&req.SecurityAnswer2).Validate(validation.Required("answer")),
		).Title("Security questions"),
	).WithTheme(styles.FormTheme())
	return form.Run()
}

// runRecover walks the three recovery steps and returns exit code
func runRecover(ctx context.Context, w io.Writer) int {
	email := authEmail
	if email == "" {
		if !interactive() {
			fmt.Fprintf(w, "Error: %v (--email)\n", errMissingInput)
			return exitError
		}
		if err := prompt(huh.NewInput().Title("Email").Value(&email).Validate(validation.Email)); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		questions, err := sf.API.ForgotPassword(ctx, email)
		if err != nil {
			return fail(w, err)
		}
		if len(questions) == 0 {
			fmt.Fprintln(w, "Error: no security questions are set for this account")
			return exitRejected
		}

		answers := recoverAnswers
		password, confirm := newPassword, newPassword
		if len(answers) != len(questions) || password == "" {
			if !interactive() {
				fmt.Fprintf(w, "Error: %v (one --answer per question, --new-password)\n", errMissingInput)
				for i, q := range questions {
					fmt.Fprintf(w, "  %d. %s\n", i+1, q)
				}
				return exitError
			}
			answers = make([]string, len(questions))
			var fields []huh.Field
			for i, q := range questions {
				fields = append(fields, huh.NewInput().Title(q).Value(&answers[i]).Validate(validation.Required("answer")))
			}
			fields = append(fields,
				passwordInput("New password", &password).Validate(validation.Password),
				passwordInput("Confirm new password", &confirm).Validate(validation.Confirmation(&password)),
			)
			if err := prompt(fields...); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return exitError
			}
		}

		token, err := sf.API.VerifySecurity(ctx, email, answers)
		if err != nil {
			return fail(w, err)
		}
		if err := sf.ResetPassword(ctx, token, password, confirm); err != nil {
			return fail(w, err)
		}
		fmt.Fprintln(w, "Password reset. Please log in with your new password.")
		return exitOK
	})
}

// runPasswd changes the signed-in user's password and returns exit code
func runPasswd(ctx context.Context, w io.Writer) int {
	current, next, confirm := currentPassword, newPassword, newPassword
	if current == "" || next == "" {
		if !interactive() {
			fmt.Fprintf(w, "Error: %v (--current, --new)\n", errMissingInput)
			return exitError
		}
		err := prompt(
			passwordInput("Current password", &current).Validate(validation.Required("current password")),
			passwordInput("New password", &next).Validate(validation.Password),
			passwordInput("Confirm new password", &confirm).Validate(validation.Confirmation(&next)),
		)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	}

	return withStorefront(w, func(sf *storefront.Storefront) int {
		if err := sf.ChangePassword(ctx, current, next, confirm); err != nil {
			return fail(w, err)
		}
		fmt.Fprintln(w, "Password changed.")
		return exitOK
	})
}
