// ABOUTME: Session store holding the bearer token and user profile
// ABOUTME: Persists both values together and notifies subscribers on change

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Spiffy047/Ecommerce-frontend/internal/storage"
)

// Storage keys. Regular users and admins share one scheme.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// ErrInvalidSession is returned when Login is called without a token or user
var ErrInvalidSession = errors.New("session requires both a token and a user")

// Reason explains why a session ended. It is for UI messaging only and is
// never persisted.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonManual     Reason = "manual"
	ReasonExpired    Reason = "expired"
	ReasonInactivity Reason = "inactivity"
)

// Message returns the user-facing text for a logout reason
func (r Reason) Message() string {
	switch r {
	case ReasonExpired:
		return "Session expired. Please log in again."
	case ReasonInactivity:
		return "Logged out due to inactivity."
	case ReasonManual:
		return "Logged out."
	default:
		return ""
	}
}

// User is the profile blob stored alongside the token
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

// Snapshot is an immutable view of the session
type Snapshot struct {
	Token string
	User  *User
}

// Authenticated reports whether both halves of the session are present
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Event is delivered to subscribers after every committed change
type Event struct {
	Snapshot      Snapshot
	Authenticated bool
	Reason        Reason
}

// Store owns the current session. Token and user are always set and cleared
// together.
type Store struct {
	kv  storage.Store
	now func() time.Time

	// commitMu serializes Login/Logout so subscribers see events in commit
	// order. Subscribers must not call Login or Logout synchronously.
	commitMu sync.Mutex

	mu      sync.RWMutex
	snap    Snapshot
	subs    map[int]func(Event)
	nextSub int

	// restored is why Restore discarded a persisted session, if it did
	restored Reason
}

// New creates a session store backed by kv. Call Restore to load a
// previously persisted session.
func New(kv storage.Store) *Store {
	return &Store{
		kv:   kv,
		now:  time.Now,
		subs: map[int]func(Event){},
	}
}

// Restore loads the persisted session. A half-present session or a token
// whose exp claim has passed is cleared from storage.
func (s *Store) Restore() error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	token, hasToken := s.kv.Get(TokenKey)
	raw, hasUser := s.kv.Get(UserKey)

	if !hasToken || !hasUser || token == "" {
		if hasToken || hasUser {
			slog.Warn("Discarding incomplete persisted session", "has_token", hasToken, "has_user", hasUser)
			return s.kv.Remove(TokenKey, UserKey)
		}
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Warn("Discarding unreadable persisted user", "error", err)
		return s.kv.Remove(TokenKey, UserKey)
	}

	claims := ParseClaims(token)
	if claims.Expired(s.now()) {
		slog.Info("Persisted session token has expired", "expires_at", claims.ExpiresAt)
		s.mu.Lock()
		s.restored = ReasonExpired
		s.mu.Unlock()
		return s.kv.Remove(TokenKey, UserKey)
	}
	if !user.IsAdmin && claims.Admin {
		user.IsAdmin = true
	}

	s.mu.Lock()
	s.snap = Snapshot{Token: token, User: &user}
	s.mu.Unlock()

	slog.Debug("Session restored", "user", user.Email, "admin", user.IsAdmin)
	return nil
}

// RestoredReason reports why Restore discarded the persisted session:
// ReasonExpired when its token had expired, otherwise ReasonNone
func (s *Store) RestoredReason() Reason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// Login persists token and user in one write and marks the session
// authenticated. A user with neither id nor email is rejected.
func (s *Store) Login(token string, user User) error {
	if token == "" || (user.ID == 0 && user.Email == "") {
		return ErrInvalidSession
	}
	if !user.IsAdmin && ParseClaims(token).Admin {
		user.IsAdmin = true
	}

	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if err := s.kv.SetMany(map[string]string{TokenKey: token, UserKey: string(blob)}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	u := user
	snap := Snapshot{Token: token, User: &u}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	slog.Info("Session started", "user", user.Email, "admin", user.IsAdmin)
	s.publish(Event{Snapshot: snap, Authenticated: true})
	return nil
}

// Logout clears the persisted session. Logging out an anonymous session is
// a no-op. The in-memory session is cleared even if storage fails.
func (s *Store) Logout(reason Reason) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	_, err := s.logoutLocked("", reason)
	return err
}

// LogoutIf ends the session only while token is still the current one, so
// a stale 401 or idle deadline cannot end a newer session. It reports
// whether a session was ended.
func (s *Store) LogoutIf(token string, reason Reason) (bool, error) {
	if token == "" {
		return false, nil
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	return s.logoutLocked(token, reason)
}

// logoutLocked clears the session when it is authenticated and, if token is
// non-empty, holds that token. commitMu must be held.
func (s *Store) logoutLocked(token string, reason Reason) (bool, error) {
	s.mu.Lock()
	if !s.snap.Authenticated() {
		s.mu.Unlock()
		return false, nil
	}
	if token != "" && s.snap.Token != token {
		s.mu.Unlock()
		slog.Debug("Ignoring logout for a replaced session", "reason", string(reason))
		return false, nil
	}
	email := s.snap.User.Email
	s.snap = Snapshot{}
	s.mu.Unlock()

	err := s.kv.Remove(TokenKey, UserKey)
	if err != nil {
		slog.Error("Failed to remove persisted session", "error", err)
		err = fmt.Errorf("failed to clear persisted session: %w", err)
	}

	slog.Info("Session ended", "user", email, "reason", string(reason))
	s.publish(Event{Reason: reason})
	return true, err
}

// UpdateUser replaces the stored profile while keeping the token
func (s *Store) UpdateUser(user User) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if !snap.Authenticated() {
		return ErrInvalidSession
	}
	// The server does not echo admin status on profile updates
	user.IsAdmin = snap.User.IsAdmin

	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(UserKey, string(blob)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}

	u := user
	next := Snapshot{Token: snap.Token, User: &u}
	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.publish(Event{Snapshot: next, Authenticated: true})
	return nil
}

// Snapshot returns the current session
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// IsAuthenticated reports whether a token and user are loaded
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Authenticated()
}

// IsAdmin reports whether the loaded user is an administrator
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Authenticated() && s.snap.User.IsAdmin
}

// Token returns the bearer token, or "" when anonymous
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token
}

// User returns a copy of the loaded user, or nil when anonymous
func (s *Store) User() *User {
	return s.Snapshot().User
}

// Subscribe registers fn for session events and returns its cancel func
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
