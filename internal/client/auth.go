// ABOUTME: Authentication endpoints: login, registration and password recovery
// ABOUTME: Login failures are credential errors and never end an existing session

package client

import (
	"context"
	"net/http"

	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
)

// SecurityQuestions is the fixed list offered at registration
var SecurityQuestions = []string{
	"What was the name of your first pet?",
	"What is your mother's maiden name?",
	"What city were you born in?",
	"What was the name of your elementary school?",
	"What is your favorite movie?",
	"What was your childhood nickname?",
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        session.User `json:"user"`
}

// LoginRequest holds login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	SecurityQuestion1 string `json:"security_question_1"`
	SecurityAnswer1   string `json:"security_answer_1"`
	SecurityQuestion2 string `json:"security_question_2"`
	SecurityAnswer2   string `json:"security_answer_2"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	SecurityQuestions []string `json:"security_questions"`
}

type verifySecurityRequest struct {
	Email   string   `json:"email"`
	Answers []string `json:"answers"`
}

type verifySecurityResponse struct {
	ResetToken string `json:"reset_token"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// Login exchanges credentials for a token and profile. A 401 here means bad
// credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	req := request{method: http.MethodPost, path: "/api/auth/login", body: LoginRequest{Email: email, Password: password}}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account; the backend signs the new user in
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	req := request{method: http.MethodPost, path: "/api/auth/register", body: in}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword changes the signed-in user's password
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	req := request{
		method: http.MethodPost,
		path:   "/api/auth/change-password",
		body:   changePasswordRequest{CurrentPassword: current, NewPassword: next},
		auth:   authSession,
	}
	return c.do(ctx, req, nil)
}

// ForgotPassword starts recovery and returns the account's security questions
func (c *Client) ForgotPassword(ctx context.Context, email string) ([]string, error) {
	var out forgotPasswordResponse
	req := request{method: http.MethodPost, path: "/api/auth/forgot-password", body: forgotPasswordRequest{Email: email}}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.SecurityQuestions, nil
}

// VerifySecurity checks the answers and returns a short-lived reset token
func (c *Client) VerifySecurity(ctx context.Context, email string, answers []string) (string, error) {
	var out verifySecurityResponse
	req := request{
		method: http.MethodPost,
		path:   "/api/auth/verify-security",
		body:   verifySecurityRequest{Email: email, Answers: answers},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.ResetToken, nil
}

// ResetPassword sets a new password using the reset token as bearer
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	req := request{
		method: http.MethodPost,
		path:   "/api/auth/reset-password",
		body:   resetPasswordRequest{NewPassword: newPassword},
		auth:   authExplicit,
		bearer: resetToken,
	}
	return c.do(ctx, req, nil)
}
