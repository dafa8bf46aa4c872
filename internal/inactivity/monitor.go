// ABOUTME: Inactivity watchdog that ends an admin session after an idle period
// ABOUTME: Holds a single cancellable deadline that user interaction pushes back

package inactivity

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Spiffy047/Ecommerce-frontend/internal/session"
)

// DefaultTimeout is the idle period before an admin is logged out
const DefaultTimeout = 5 * time.Minute

// State is the watchdog state
type State int

const (
	Idle State = iota
	Watching
)

func (s State) String() string {
	if s == Watching {
		return "watching"
	}
	return "idle"
}

// Timer is the subset of *time.Timer the monitor needs
type Timer interface {
	Stop() bool
}

// Clock schedules deadlines; tests substitute a manual clock
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Monitor
type Option func(*Monitor)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

// Monitor is a two-state watchdog. At most one deadline is pending at any
// time; every reset cancels the previous one.
type Monitor struct {
	mu       sync.Mutex
	clock    Clock
	timeout  time.Duration
	onExpire func(owner string)

	state    State
	owner    string // session token the deadline was armed for
	timer    Timer
	deadline time.Time
	// gen identifies the live deadline; callbacks from older generations
	// are ignored
	gen uint64
}

// New creates an idle monitor that calls onExpire with the watched owner
// when a deadline passes without interaction
func New(timeout time.Duration, onExpire func(owner string), opts ...Option) *Monitor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	m := &Monitor{
		clock:    realClock{},
		timeout:  timeout,
		onExpire: onExpire,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins watching for the current owner. Calling Start while already
// watching resets the deadline.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startLocked(m.owner)
}

// Watch begins watching on behalf of owner, replacing any previous owner
// and deadline
func (m *Monitor) Watch(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startLocked(owner)
}

func (m *Monitor) startLocked(owner string) {
	if m.state != Watching {
		slog.Debug("Inactivity monitor watching", "timeout", m.timeout)
	}
	m.owner = owner
	m.state = Watching
	m.armLocked()
}

// Touch records user interaction. It is a no-op while idle.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Watching {
		return
	}
	m.armLocked()
}

// Stop cancels any pending deadline and returns to idle. Safe to call
// repeatedly.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Watching {
		slog.Debug("Inactivity monitor stopped")
	}
	m.disarmLocked()
	m.state = Idle
	m.owner = ""
}

// State returns the current state
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Deadline returns the pending deadline, or the zero time when idle
func (m *Monitor) Deadline() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Watching {
		return time.Time{}
	}
	return m.deadline
}

// Remaining returns the time left before the deadline, or 0 when idle
func (m *Monitor) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Watching {
		return 0
	}
	if d := m.deadline.Sub(m.clock.Now()); d > 0 {
		return d
	}
	return 0
}

// Bind ties the monitor to a session: it watches while an admin is signed in
// and stops on any logout. The returned func detaches it and stops the
// monitor.
func (m *Monitor) Bind(s *session.Store) func() {
	unsubscribe := s.Subscribe(func(ev session.Event) {
		if ev.Authenticated && ev.Snapshot.User != nil && ev.Snapshot.User.IsAdmin {
			m.Watch(ev.Snapshot.Token)
			return
		}
		m.Stop()
	})
	if snap := s.Snapshot(); snap.Authenticated() && snap.User.IsAdmin {
		m.Watch(snap.Token)
	}
	return func() {
		unsubscribe()
		m.Stop()
	}
}

func (m *Monitor) armLocked() {
	m.disarmLocked()
	gen := m.gen
	m.deadline = m.clock.Now().Add(m.timeout)
	m.timer = m.clock.AfterFunc(m.timeout, func() { m.fire(gen) })
}

func (m *Monitor) disarmLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *Monitor) fire(gen uint64) {
	m.mu.Lock()
	if m.state != Watching || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.gen++
	m.state = Idle
	owner := m.owner
	m.owner = ""
	m.mu.Unlock()

	slog.Info("Admin session idle timeout reached", "timeout", m.timeout)
	if m.onExpire != nil {
		m.onExpire(owner)
	}
}
