package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkarev/surrealsession/internal/common"
	"github.com/mkarev/surrealsession/internal/config"
	"github.com/mkarev/surrealsession/internal/logging"
	"github.com/mkarev/surrealsession/internal/metrics"
	"github.com/mkarev/surrealsession/internal/surreal"
	"github.com/mkarev/surrealsession/internal/token"
)

// TokenSource is the issuance capability the Manager needs. token.Bound is
// the production implementation.
type TokenSource interface {
	// Token returns the current session token from the cookie store, or "".
	Token() string

	// Authenticate runs the refresh-then-credentials issuance ladder.
	Authenticate(ctx context.Context, email, password string) (token.Result, error)

	// Invalidate clears the persisted session cookies.
	Invalidate(ctx context.Context) error
}

// Invalidatable is a dependent cache that must be cleared on logout.
type Invalidatable interface {
	Clear()
}

// Manager is the session lifecycle facade. It exclusively owns one
// transport handle for its mounted scope: create it on mount, Connect, and
// Close on unmount.
type Manager struct {
	cfg       *config.Config
	transport surreal.Transport
	tokens    TokenSource
	caches    []Invalidatable
	log       logging.Logger
	m         *metrics.Metrics

	// opMu serializes connect and logout against the shared transport.
	opMu sync.Mutex

	// mu guards the observable status and the attempt counter.
	mu      sync.Mutex
	gen     uint64
	state   State
	lastErr error
}

func NewManager(cfg *config.Config, transport surreal.Transport, tokens TokenSource, log logging.Logger, m *metrics.Metrics, caches ...Invalidatable) *Manager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Manager{
		cfg:       cfg,
		transport: transport,
		tokens:    tokens,
		caches:    caches,
		log:       log,
		m:         m,
		state:     StateIdle,
	}
}

// Connect drives one full attempt: open the transport, try the cached
// session token, fall back to token issuance, bind the issued token.
//
// The returned state is terminal for this attempt:
//   - StateAuthenticated: the session is usable.
//   - StateUnauthenticated: no session exists (expected on the login
//     surface); the transport has been released and err is nil.
//   - StateFailed: transport or protocol error, or a CSRF rejection; err
//     carries the cause.
//
// Re-entrant from any state. When calls overlap, the newest call's result
// is authoritative for Status: an older attempt that completes late is
// discarded.
func (m *Manager) Connect(ctx context.Context, email, password string) (State, error) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.state = StateConnecting
	m.lastErr = nil
	m.mu.Unlock()

	m.opMu.Lock()
	start := time.Now()
	st, err := m.attempt(ctx, email, password)
	m.opMu.Unlock()

	m.m.ObserveConnect(st.String(), time.Since(start))

	m.mu.Lock()
	if gen == m.gen {
		m.state = st
		m.lastErr = err
	}
	m.mu.Unlock()

	return st, err
}

func (m *Manager) attempt(ctx context.Context, email, password string) (State, error) {
	addr := m.cfg.RPCURL()
	params := surreal.Params{Namespace: m.cfg.Namespace, Database: m.cfg.Database}

	if err := m.transport.Connect(ctx, addr, params); err != nil {
		m.log.Error(ctx, "transport connect failed", "addr", addr, "err", err)
		return StateFailed, fmt.Errorf("connect %s: %w", addr, err)
	}

	if tok := m.tokens.Token(); tok != "" {
		if err := m.transport.Authenticate(ctx, tok); err == nil {
			return StateAuthenticated, nil
		}
		// The cached token is stale. Recover through issuance; the caller
		// never sees this failure.
		m.log.Debug(ctx, "cached token rejected, falling back to issuance")
	}

	res, err := m.tokens.Authenticate(ctx, email, password)
	if err != nil {
		_ = m.transport.Close()
		if errors.Is(err, common.ErrNoSession) {
			// Expected on an unauthenticated landing page. The caller
			// redirects to the login surface instead of showing an error.
			return StateUnauthenticated, nil
		}
		return StateFailed, err
	}
	if !res.Success || res.Token == "" {
		_ = m.transport.Close()
		return StateUnauthenticated, nil
	}

	if err := m.transport.Authenticate(ctx, res.Token); err != nil {
		m.log.Warn(ctx, "freshly issued token rejected", "err", err)
		_ = m.transport.Close()
		return StateUnauthenticated, nil
	}
	return StateAuthenticated, nil
}

// Close releases the transport on unmount. Interest in any in-flight
// attempt is discarded: the attempt counter advances so a late completion
// cannot overwrite the status. The underlying network call is not aborted;
// its result is simply ignored.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.gen++
	m.state = StateIdle
	m.lastErr = nil
	m.mu.Unlock()

	return m.transport.Close()
}

// Logout tears the session down: remote session invalidation when the
// transport supports it, transport close, dependent cache clear, cookie
// clear. Every step is best-effort — failures are logged and the next step
// still runs. The caller performs the final, unconditional navigation to
// the landing surface.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if inv, ok := m.transport.(surreal.Invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			m.log.Warn(ctx, "session invalidate failed", "err", err)
		}
	}
	if err := m.transport.Close(); err != nil {
		m.log.Warn(ctx, "transport close failed", "err", err)
	}
	for _, c := range m.caches {
		c.Clear()
	}
	if err := m.tokens.Invalidate(ctx); err != nil {
		m.log.Error(ctx, "failed to clear cookies during logout", "err", err)
	}

	m.mu.Lock()
	m.gen++
	m.state = StateUnauthenticated
	m.lastErr = nil
	m.mu.Unlock()
}

// State reports the current machine state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Status derives the read-only connection view for UI collaborators.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		IsConnecting: m.state == StateConnecting,
		IsSuccess:    m.state == StateAuthenticated,
		IsError:      m.state == StateFailed,
		Err:          m.lastErr,
	}
}
