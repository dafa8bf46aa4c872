// ABOUTME: Form validation rules for products, reviews and account forms
// ABOUTME: Each rule is a func(string) error so huh fields and cobra flags share them

package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
)

// MinPasswordLength applies to registration, change and reset
const MinPasswordLength = 6

var (
	productNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)
	pricePattern       = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	imageURLPattern    = regexp.MustCompile(`^(https?://.+|/images/.+)$`)

	minPrice = decimal.NewFromInt(1)
	maxPrice = decimal.NewFromInt(9_999_999)
)

// ProductForm holds the raw admin product form fields
type ProductForm struct {
	Name        string
	Description string
	Price       string
	Stock       string
	ImageURL    string
}

// FormFromProduct fills a form for editing p
func FormFromProduct(p client.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       strconv.Itoa(p.Stock),
		ImageURL:    p.ImageURL,
	}
}

// Product validates f and converts it to an API payload. The returned error
// joins every failing field.
func Product(f ProductForm) (client.ProductInput, error) {
	err := errors.Join(
		ProductName(f.Name),
		ProductDescription(f.Description),
		Price(f.Price),
		Stock(f.Stock),
		ImageURL(f.ImageURL),
	)
	if err != nil {
		return client.ProductInput{}, err
	}

	price, _ := decimal.NewFromString(strings.TrimSpace(f.Price))
	stock, _ := strconv.Atoi(strings.TrimSpace(f.Stock))
	return client.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Price:       price,
		Stock:       stock,
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}, nil
}

// ProductName requires 3-100 letters, digits, spaces or hyphens
func ProductName(s string) error {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return errors.New("product name is required")
	case n < 3:
		return errors.New("name must be at least 3 characters")
	case n > 100:
		return errors.New("name must be less than 100 characters")
	case !productNamePattern.MatchString(s):
		return errors.New("name can only contain letters, numbers, spaces, and hyphens")
	}
	return nil
}

// ProductDescription requires 20-1000 characters
func ProductDescription(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case n == 0:
		return errors.New("description is required")
	case n < 20:
		return errors.New("description must be at least 20 characters")
	case n > 1000:
		return errors.New("description must be less than 1000 characters")
	}
	return nil
}

// Price requires a number from 1 up to 9,999,999 with at most two decimals
func Price(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("price is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("price must be a number")
	}
	if !pricePattern.MatchString(s) {
		if d.IsNegative() {
			return errors.New("price must be positive")
		}
		return errors.New("price can have at most 2 decimal places")
	}
	if d.LessThan(minPrice) {
		return errors.New("price must be at least KSh 1")
	}
	if d.GreaterThan(maxPrice) {
		return errors.New("price must be less than KSh 10,000,000")
	}
	return nil
}

// Stock requires a whole number >= 0
func Stock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("stock quantity is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("stock must be a whole number")
	}
	if n < 0 {
		return errors.New("stock cannot be negative")
	}
	return nil
}

// ImageURL requires an http(s) URL or an /images/ path of at most 500 chars
func ImageURL(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return errors.New("image URL is required")
	case len(s) > 500:
		return errors.New("URL must be less than 500 characters")
	case !imageURLPattern.MatchString(s):
		return errors.New("must be a valid URL or path")
	}
	return nil
}

// Review validates a review form and converts it to an API payload
func Review(rating, comment string) (client.ReviewInput, error) {
	if err := errors.Join(Rating(rating), Comment(comment)); err != nil {
		return client.ReviewInput{}, err
	}
	n, _ := strconv.Atoi(strings.TrimSpace(rating))
	return client.ReviewInput{Rating: n, Comment: strings.TrimSpace(comment)}, nil
}

// Rating requires an integer from 1 to 5
func Rating(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("rating is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("rating must be a whole number")
	}
	if n < 1 {
		return errors.New("rating must be at least 1")
	}
	if n > 5 {
		return errors.New("rating must be at most 5")
	}
	return nil
}

// Comment requires at least 10 characters
func Comment(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n == 0 {
		return errors.New("comment is required")
	}
	if n < 10 {
		return errors.New("comment must be at least 10 characters")
	}
	return nil
}

// Email requires a bare address such as user@example.com
func Email(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@")+1:], ".") {
		return errors.New("invalid email")
	}
	return nil
}

// Required returns a rule that rejects blank input
func Required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// Password requires MinPasswordLength characters
func Password(s string) error {
	if s == "" {
		return errors.New("password is required")
	}
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Confirmation returns a rule that requires the input to equal *password.
// The pointer is read at validation time so it tracks a live form field.
func Confirmation(password *string) func(string) error {
	return func(s string) error {
		if s == "" {
			return errors.New("please confirm your password")
		}
		if s != *password {
			return errors.New("passwords must match")
		}
		return nil
	}
}

// Login validates the login form
func Login(email, password string) error {
	return errors.Join(Email(email), Required("password")(password))
}

// ChangePassword validates the change password form
func ChangePassword(current, next, confirm string) error {
	return errors.Join(
		Required("current password")(current),
		Password(next),
		Confirmation(&next)(confirm),
	)
}

// SecurityQuestion requires one of the fixed questions
func SecurityQuestion(s string) error {
	for _, q := range client.SecurityQuestions {
		if s == q {
			return nil
		}
	}
	if s == "" {
		return errors.New("security question is required")
	}
	return errors.New("unknown security question")
}

// Registration validates the sign-up payload
func Registration(r client.RegisterRequest) error {
	var distinct error
	if r.SecurityQuestion1 != "" && r.SecurityQuestion1 == r.SecurityQuestion2 {
		distinct = errors.New("security questions must be different")
	}
	return errors.Join(
		Required("name")(r.Name),
		Email(r.Email),
		Password(r.Password),
		SecurityQuestion(r.SecurityQuestion1),
		Required("first security answer")(r.SecurityAnswer1),
		SecurityQuestion(r.SecurityQuestion2),
		Required("second security answer")(r.SecurityAnswer2),
		distinct,
	)
}

// Quantity parses a cart quantity. Zero and negatives are allowed and mean
// "remove".
func Quantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("quantity must be a whole number")
	}
	return n, nil
}
