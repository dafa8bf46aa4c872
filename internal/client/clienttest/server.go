// ABOUTME: In-memory fake of the storefront backend for tests
// ABOUTME: Serves the REST routes the client uses with a chi router over httptest

package clienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/Spiffy047/Ecommerce-frontend/internal/cart"
	"github.com/Spiffy047/Ecommerce-frontend/internal/client"
	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
)

var signingKey = []byte("clienttest-signing-key")

// Account is a registered user held by the fake
type Account struct {
	User      session.User
	Password  string
	Questions [2]string
	Answers   [2]string
}

// Recorded is one request seen by the fake
type Recorded struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
}

// Server is a fake storefront backend
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	products    map[int64]client.Product
	nextProduct int64
	reviews     map[int64][]client.Review
	accounts    map[string]*Account
	nextUser    int64
	orders      map[string][]client.Order
	nextOrder   int64
	resetTokens map[string]string
	revoked     bool
	failures    map[string]failure
	requests    []Recorded
}

type failure struct {
	status  int
	message string
}

// New starts a fake backend
func New() *Server {
	s := &Server{
		products:    map[int64]client.Product{},
		nextProduct: 1,
		reviews:     map[int64][]client.Review{},
		accounts:    map[string]*Account{},
		nextUser:    1,
		orders:      map[string][]client.Order{},
		nextOrder:   1000,
		resetTokens: map[string]string{},
		failures:    map[string]failure{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.With(s.requireAdmin).Post("/", s.createProduct)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getProduct)
			r.With(s.requireAdmin).Put("/", s.updateProduct)
			r.With(s.requireAdmin).Delete("/", s.deleteProduct)
			r.Get("/reviews", s.listReviews)
			r.With(s.requireUser).Post("/reviews", s.createReview)
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/register", s.register)
		r.With(s.requireUser).Post("/change-password", s.changePassword)
		r.Post("/forgot-password", s.forgotPassword)
		r.Post("/verify-security", s.verifySecurity)
		r.Post("/reset-password", s.resetPassword)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/profile", s.getProfile)
		r.Put("/profile", s.updateProfile)
		r.Get("/orders", s.listOrders)
	})

	r.With(s.requireUser).Post("/api/orders/checkout", s.checkout)
	r.With(s.requireAdmin).Get("/api/admin/bestsellers", s.bestsellers)
	return r
}

// AddProduct seeds a product and returns it with its id
func (s *Server) AddProduct(p client.Product) client.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextProduct
	}
	if p.ID >= s.nextProduct {
		s.nextProduct = p.ID + 1
	}
	s.products[p.ID] = p
	return p
}

// Product returns the stored product
func (s *Server) Product(id int64) (client.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// AddAccount seeds a user account
func (s *Server) AddAccount(a Account) session.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.User.ID == 0 {
		a.User.ID = s.nextUser
	}
	s.nextUser = a.User.ID + 1
	acct := a
	s.accounts[strings.ToLower(a.User.Email)] = &acct
	return a.User
}

// Token issues a signed token for email that expires after ttl
func (s *Server) Token(email string, ttl time.Duration) string {
	s.mu.Lock()
	acct := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()

	admin := acct != nil && acct.User.IsAdmin
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      email,
		"is_admin": admin,
		"exp":      time.Now().Add(ttl).Unix(),
	}).SignedString(signingKey)
	if err != nil {
		panic(fmt.Sprintf("clienttest: sign token: %v", err))
	}
	return tok
}

// RevokeSessions makes every authenticated route answer 401
func (s *Server) RevokeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = true
}

// Fail forces requests to path to answer status with message
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Orders returns the orders placed by email
func (s *Server) Orders(email string) []client.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.Order(nil), s.orders[strings.ToLower(email)]...)
}

// Requests returns the requests seen so far
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:    r.Method,
			Path:      r.URL.Path,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(r *http.Request) (*Account, bool) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return signingKey, nil })
	if err != nil {
		return nil, false
	}
	sub, _ := claims["sub"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked {
		return nil, false
	}
	acct, ok := s.accounts[strings.ToLower(sub)]
	return acct, ok
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authenticate(r); !ok {
			writeError(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, ok := s.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		if !acct.User.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) account(r *http.Request) *Account {
	acct, _ := s.authenticate(r)
	return acct
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]client.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, found := s.Product(id)
	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in client.Product
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	in.ID = 0
	writeJSON(w, http.StatusCreated, s.AddProduct(in))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in client.Product
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	_, found := s.products[id]
	if found {
		in.ID = id
		s.products[id] = in
	}
	s.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, client.MessageResponse{Message: "Product deleted"})
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	out := append([]client.Review{}, s.reviews[id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in client.ReviewInput
	if !decode(w, r, &in) {
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	acct := s.account(r)

	s.mu.Lock()
	rev := client.Review{
		ID:        int64(len(s.reviews[id]) + 1),
		ProductID: id,
		UserName:  acct.User.Name,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	s.reviews[id] = append(s.reviews[id], rev)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rev)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in client.LoginRequest
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if !ok || acct.Password != in.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, client.AuthResponse{AccessToken: s.Token(acct.User.Email, time.Hour), User: acct.User})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in client.RegisterRequest
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	_, exists := s.accounts[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	user := s.AddAccount(Account{
		User:      session.User{Name: in.Name, Email: in.Email, Phone: in.Phone, Address: in.Address},
		Password:  in.Password,
		Questions: [2]string{in.SecurityQuestion1, in.SecurityQuestion2},
		Answers:   [2]string{in.SecurityAnswer1, in.SecurityAnswer2},
	})
	writeJSON(w, http.StatusCreated, client.AuthResponse{AccessToken: s.Token(user.Email, time.Hour), User: user})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decode(w, r, &in) {
		return
	}
	acct := s.account(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct.Password != in.CurrentPassword {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	acct.Password = in.NewPassword
	writeJSON(w, http.StatusOK, client.MessageResponse{Message: "Password changed successfully"})
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(in.Email)]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "No account with that email")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"security_questions": acct.Questions[:]})
}

func (s *Server) verifySecurity(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email   string   `json:"email"`
		Answers []string `json:"answers"`
	}
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[strings.ToLower(in.Email)]
	if !ok || len(in.Answers) != 2 ||
		!strings.EqualFold(in.Answers[0], acct.Answers[0]) ||
		!strings.EqualFold(in.Answers[1], acct.Answers[1]) {
		writeError(w, http.StatusBadRequest, "Security answers do not match")
		return
	}
	token := fmt.Sprintf("reset-%d", len(s.resetTokens)+1)
	s.resetTokens[token] = strings.ToLower(in.Email)
	writeJSON(w, http.StatusOK, map[string]string{"reset_token": token})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		NewPassword string `json:"new_password"`
	}
	if !decode(w, r, &in) {
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetTokens[token]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid or expired reset token")
		return
	}
	delete(s.resetTokens, token)
	s.accounts[email].Password = in.NewPassword
	writeJSON(w, http.StatusOK, client.MessageResponse{Message: "Password reset successfully"})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.account(r).User)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in client.ProfileUpdate
	if !decode(w, r, &in) {
		return
	}
	acct := s.account(r)
	s.mu.Lock()
	acct.User.Name = in.Name
	acct.User.Phone = in.Phone
	acct.User.Address = in.Address
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, client.MessageResponse{Message: "Profile updated"})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	acct := s.account(r)
	orders := s.Orders(acct.User.Email)
	if orders == nil {
		orders = []client.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Items []cart.Line `json:"items"`
	}
	if !decode(w, r, &in) {
		return
	}
	if len(in.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	acct := s.account(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	order := client.Order{ID: s.nextOrder, OrderDate: time.Now().UTC().Format(time.RFC3339), Status: "pending"}
	for _, line := range in.Items {
		p, ok := s.products[line.ProductID]
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Product %d not found", line.ProductID))
			return
		}
		if p.Stock < line.Quantity {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", p.Name))
			return
		}
	}
	for _, line := range in.Items {
		p := s.products[line.ProductID]
		p.Stock -= line.Quantity
		s.products[p.ID] = p
		order.Items = append(order.Items, client.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			Price:       p.Price,
		})
		order.TotalAmount = order.TotalAmount.Add(p.Price.Mul(decimalInt(line.Quantity)))
	}
	s.nextOrder++
	email := strings.ToLower(acct.User.Email)
	s.orders[email] = append(s.orders[email], order)
	writeJSON(w, http.StatusCreated, client.CheckoutResponse{OrderID: order.ID, Message: "Order placed"})
}

func (s *Server) bestsellers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	byProduct := map[int64]*client.Bestseller{}
	for _, orders := range s.orders {
		for _, o := range orders {
			for _, it := range o.Items {
				row, ok := byProduct[it.ProductID]
				if !ok {
					row = &client.Bestseller{ProductID: it.ProductID, Name: it.ProductName}
					byProduct[it.ProductID] = row
				}
				row.UnitsSold += it.Quantity
				row.Revenue = row.Revenue.Add(it.Price.Mul(decimalInt(it.Quantity)))
			}
		}
	}
	s.mu.Unlock()

	out := make([]client.Bestseller, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	writeJSON(w, http.StatusOK, out)
}

func decimalInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
