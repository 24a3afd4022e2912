package conn

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/singleflight"
)

// State is the session connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrNotConnected is returned by CallTool when no session is established.
var ErrNotConnected = errors.New("not connected to tool server")

// Status is the externally observable connection status.
type Status struct {
	State     State
	Connected bool
	Attempts  int
	Healthy   bool
	LastError string
}

// Config tunes a Manager. Zero values fall back to defaults.
type Config struct {
	Policy         RetryPolicy
	ConnectTimeout time.Duration
	CallTimeout    time.Duration
	Clock          Clock
	Logger         *slog.Logger
}

// Manager owns the single logical session to the tool-execution server:
// connect/disconnect, health probing and backoff-driven auto-reconnect.
// Session state is mutated only inside its transition methods.
type Manager struct {
	dialer         Dialer
	policy         RetryPolicy
	clock          Clock
	logger         *slog.Logger
	connectTimeout time.Duration
	callTimeout    time.Duration

	sf singleflight.Group

	mu        sync.Mutex
	state     State
	session   ToolSession
	attempts  int
	lastErr   error
	healthy   bool
	retrying  bool
	closed    bool
	gen       int // bumped on disconnect/close to invalidate in-flight dials
	stopRetry chan struct{}
}

// NewManager creates a connection manager over a dialer.
func NewManager(dialer Dialer, cfg Config) *Manager {
	if cfg.Policy == (RetryPolicy{}) {
		cfg.Policy = DefaultRetryPolicy()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{
		dialer:         dialer,
		policy:         cfg.Policy,
		clock:          cfg.Clock,
		logger:         cfg.Logger,
		connectTimeout: cfg.ConnectTimeout,
		callTimeout:    cfg.CallTimeout,
		state:          StateDisconnected,
	}
}

// Connect performs one connect attempt and arms the background retry loop on
// failure. It never returns an error; failures are observable via Status.
func (m *Manager) Connect(ctx context.Context) bool {
	if m.tryConnect(ctx) {
		return true
	}
	m.armRetry()
	return false
}

// EnsureConnected is the single connectivity entry point for callers about to
// issue a request: it returns immediately when connected, otherwise performs
// one synchronous connect attempt rather than waiting on the retry timer.
func (m *Manager) EnsureConnected(ctx context.Context) bool {
	m.mu.Lock()
	connected := m.state == StateConnected
	m.mu.Unlock()
	if connected {
		return true
	}
	if m.tryConnect(ctx) {
		return true
	}
	m.armRetry()
	return false
}

// tryConnect collapses concurrent callers into a single dial.
func (m *Manager) tryConnect(ctx context.Context) bool {
	v, _, _ := m.sf.Do("connect", func() (any, error) {
		return m.connectOnce(ctx), nil
	})
	ok, _ := v.(bool)
	return ok
}

// connectOnce runs one full dial + handshake and applies the resulting state
// transition.
func (m *Manager) connectOnce(ctx context.Context) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	if m.state == StateConnected {
		m.mu.Unlock()
		return true
	}
	m.state = StateConnecting
	m.attempts++
	attempt := m.attempts
	gen := m.gen
	m.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()
	session, err := m.dialer.Dial(dialCtx)

	m.mu.Lock()
	defer m.mu.Unlock()

	// The consumer may have torn down while the dial was in flight.
	if m.closed || m.gen != gen {
		if session != nil {
			_ = session.Close()
		}
		return false
	}

	if err != nil {
		m.state = StateFailed
		m.lastErr = err
		m.healthy = false
		m.logger.Warn("connect attempt failed",
			"attempt", attempt,
			"max_attempts", m.policy.MaxAttempts,
			"error", err,
		)
		return false
	}

	m.session = session
	m.state = StateConnected
	m.attempts = 0
	m.lastErr = nil
	m.healthy = true
	m.logger.Info("connected to tool server")
	return true
}

// armRetry starts the background retry loop unless one is already running or
// no attempts remain.
func (m *Manager) armRetry() {
	m.mu.Lock()
	if m.retrying || m.closed || m.state != StateFailed || !m.policy.ShouldRetry(m.attempts) {
		m.mu.Unlock()
		return
	}
	m.retrying = true
	m.stopRetry = make(chan struct{})
	stop := m.stopRetry
	m.mu.Unlock()

	go m.retryLoop(stop)
}

func (m *Manager) retryLoop(stop chan struct{}) {
	defer func() {
		m.mu.Lock()
		m.retrying = false
		m.mu.Unlock()
	}()

	for {
		m.mu.Lock()
		if m.closed || m.state != StateFailed {
			m.mu.Unlock()
			return
		}
		failures := m.attempts
		m.mu.Unlock()

		if !m.policy.ShouldRetry(failures) {
			m.logger.Error("giving up on reconnection", "attempts", failures)
			return
		}

		delay := m.policy.DelayFor(failures)
		m.logger.Info("scheduling reconnect", "attempt", failures+1, "delay", delay)
		select {
		case <-m.clock.After(delay):
		case <-stop:
			return
		}

		// The consumer may have disconnected while we slept.
		m.mu.Lock()
		if m.closed || m.state != StateFailed {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		if m.tryConnect(context.Background()) {
			return
		}
	}
}

// ReportFailure records a transport error observed on an established session:
// Connected moves to Disconnected and the retry loop arms.
func (m *Manager) ReportFailure(err error) {
	m.mu.Lock()
	if m.state != StateConnected {
		m.mu.Unlock()
		return
	}
	if m.session != nil {
		_ = m.session.Close()
		m.session = nil
	}
	m.state = StateFailed
	m.lastErr = err
	m.healthy = false
	m.logger.Warn("transport failure on established session", "error", err)
	m.mu.Unlock()

	m.armRetry()
}

// Disconnect tears down the session explicitly and stops any pending retry.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.gen++
	if m.session != nil {
		_ = m.session.Close()
		m.session = nil
	}
	m.state = StateDisconnected
	m.attempts = 0
	m.lastErr = nil
	m.healthy = false
	if m.stopRetry != nil {
		close(m.stopRetry)
		m.stopRetry = nil
	}
	m.mu.Unlock()
	m.logger.Info("disconnected from tool server")
}

// Close disconnects and marks the manager unusable.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.Disconnect()
}

// Status returns the externally observable connection status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Status{
		State:     m.state,
		Connected: m.state == StateConnected,
		Attempts:  m.attempts,
		Healthy:   m.healthy,
	}
	if m.lastErr != nil {
		st.LastError = m.lastErr.Error()
	}
	return st
}

// CallTool invokes a tool over the established session with the call timeout
// applied. Transport errors flip the session to Disconnected and arm the
// retry loop; the caller still receives the error.
func (m *Manager) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	m.mu.Lock()
	session := m.session
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || session == nil {
		return nil, ErrNotConnected
	}

	callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()

	res, err := session.CallTool(callCtx, name, args)
	if err != nil {
		m.ReportFailure(err)
		return nil, err
	}
	return res, nil
}

// ListTools fetches the server's advertised tool list over the established
// session.
func (m *Manager) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	m.mu.Lock()
	session := m.session
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || session == nil {
		return nil, ErrNotConnected
	}

	callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()
	return session.ListTools(callCtx)
}
