package session

import (
	"context"
	"log"
	"sync"
	"time"

	"portal/backend/auth"
	"portal/backend/models"
)

// State is the authentication state of the portal process.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "uninitialized"
}

// RoleState tracks role resolution separately from authentication, so the
// authenticated shell can render while role-gated content shows a placeholder.
type RoleState int

const (
	RoleUnknown RoleState = iota
	RolePending
	RoleResolved
)

func (s RoleState) String() string {
	switch s {
	case RolePending:
		return "pending"
	case RoleResolved:
		return "resolved"
	}
	return "unknown"
}

// Manager owns the single session of the portal process. It is constructed
// once in main and injected into every consumer.
//
// Session initialization and the auth change listener are independent async
// chains; both funnel through the same guarded state update, and a generation
// counter makes sure a resolution started against an older session never
// clobbers state belonging to a newer one.
type Manager struct {
	authAPI        auth.API
	resolver       *RoleResolver
	logger         *log.Logger
	restoreTimeout time.Duration

	mu        sync.Mutex
	state     State
	roleState RoleState
	session   *auth.Session
	profile   Profile
	gen       uint64

	listeners    map[int]func(*auth.Session)
	nextListener int

	unsubscribe func()
}

func NewManager(authAPI auth.API, resolver *RoleResolver, restoreTimeout time.Duration, logger *log.Logger) *Manager {
	m := &Manager{
		authAPI:        authAPI,
		resolver:       resolver,
		logger:         logger,
		restoreTimeout: restoreTimeout,
		state:          StateUninitialized,
		listeners:      make(map[int]func(*auth.Session)),
	}
	m.unsubscribe = authAPI.OnChange(m.handleAuthChange)
	return m
}

// Close detaches the manager from the auth change feed.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Initialize recovers a persisted session, bounded by the restore timeout. If
// the backend has not answered by the deadline the manager resolves to "no
// session" rather than hanging; the portal must never sit in an indefinite
// loading state. Role resolution for a recovered session runs in the
// background and does not block the return.
func (m *Manager) Initialize(ctx context.Context) *auth.Session {
	m.mu.Lock()
	m.state = StateInitializing
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.restoreTimeout)
	defer cancel()

	type result struct {
		session *auth.Session
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		s, err := m.authAPI.GetSession(ctx)
		ch <- result{s, err}
	}()

	var session *auth.Session
	select {
	case res := <-ch:
		if res.err != nil {
			m.logger.Printf("session: restore failed, assuming no session: %v", res.err)
		}
		session = res.session
	case <-ctx.Done():
		m.logger.Printf("session: restore timed out, assuming no session")
	}

	m.mu.Lock()
	if session == nil {
		m.state = StateAnonymous
		m.session = nil
		m.roleState = RoleUnknown
		m.profile = Profile{}
		m.gen++
		m.mu.Unlock()
		return nil
	}
	m.state = StateAuthenticated
	m.session = session
	m.roleState = RolePending
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	go m.resolveRole(gen, session.UserID)
	return session
}

// SignUp registers a new identity. It does not resolve a role; the caller
// signs in (or waits for the change feed) to get one.
func (m *Manager) SignUp(ctx context.Context, email, password string, metadata map[string]string) (auth.Identity, error) {
	return m.authAPI.SignUp(ctx, email, password, metadata)
}

// SignIn authenticates and resolves the role synchronously, so callers observe
// a fully-formed profile on return.
func (m *Manager) SignIn(ctx context.Context, email, password string) (auth.Identity, error) {
	identity, session, err := m.authAPI.SignInWithPassword(ctx, email, password)
	if err != nil {
		return auth.Identity{}, err
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.session = session
	m.roleState = RolePending
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	profile := m.resolver.Resolve(ctx, identity.UserID)
	m.applyProfile(gen, profile)
	return identity, nil
}

// SignOut clears all local session state before the remote invalidation call.
// The remote call is best-effort: its failure is logged, never surfaced, so
// local state can never be left "signed in" by a slow or failing backend.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	m.state = StateAnonymous
	m.session = nil
	m.roleState = RoleUnknown
	m.profile = Profile{}
	m.gen++
	m.mu.Unlock()

	if err := m.authAPI.SignOut(ctx); err != nil {
		m.logger.Printf("session: remote sign-out failed: %v", err)
	}
}

// OnSessionChange registers a listener invoked on every session transition.
func (m *Manager) OnSessionChange(fn func(*auth.Session)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// handleAuthChange reacts to transitions surfaced by the auth client (sign-in,
// sign-out, revocation). Role re-resolution is asynchronous and non-blocking.
func (m *Manager) handleAuthChange(session *auth.Session) {
	m.mu.Lock()
	if session != nil && m.session != nil && session.Token == m.session.Token {
		// Echo of a sign-in this manager already applied; notifying again is
		// fine, resetting role resolution is not.
		fns := make([]func(*auth.Session), 0, len(m.listeners))
		for _, fn := range m.listeners {
			fns = append(fns, fn)
		}
		m.mu.Unlock()
		for _, fn := range fns {
			fn(session)
		}
		return
	}
	m.session = session
	m.gen++
	gen := m.gen
	if session == nil {
		m.state = StateAnonymous
		m.roleState = RoleUnknown
		m.profile = Profile{}
	} else {
		m.state = StateAuthenticated
		m.roleState = RolePending
	}
	fns := make([]func(*auth.Session), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	if session != nil {
		go m.resolveRole(gen, session.UserID)
	}
	for _, fn := range fns {
		fn(session)
	}
}

func (m *Manager) resolveRole(gen uint64, userID uint) {
	profile := m.resolver.Resolve(context.Background(), userID)
	m.applyProfile(gen, profile)
}

// RefreshProfile re-resolves the role and profile for the current session,
// for callers that just changed profile data. No-op when signed out.
func (m *Manager) RefreshProfile(ctx context.Context) Profile {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return Profile{}
	}
	userID := m.session.UserID
	gen := m.gen
	m.roleState = RolePending
	m.mu.Unlock()

	profile := m.resolver.Resolve(ctx, userID)
	m.applyProfile(gen, profile)
	return profile
}

// applyProfile installs a resolution result unless the session has moved on
// since the resolution started.
func (m *Manager) applyProfile(gen uint64, profile Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		m.logger.Printf("session: discarding stale role resolution for user %d", profile.UserID)
		return
	}
	m.profile = profile
	m.roleState = RoleResolved
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) RoleState() RoleState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roleState
}

// Session returns the active session, or nil when signed out.
func (m *Manager) Session() *auth.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Profile returns the resolved profile. Only meaningful once RoleState is
// RoleResolved.
func (m *Manager) Profile() Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Role returns the resolved role, or "" while resolution is pending.
func (m *Manager) Role() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roleState != RoleResolved {
		return ""
	}
	return m.profile.Role
}

// IsAdmin reports whether the resolved role is admin. Pending or unknown
// roles are not admin.
func (m *Manager) IsAdmin() bool {
	return m.Role() == models.RoleAdmin
}

// UserID returns the signed-in user id, or 0 when signed out.
func (m *Manager) UserID() uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0
	}
	return m.session.UserID
}

// DisplayName prefers the resolved profile name, then the session email.
func (m *Manager) DisplayName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roleState == RoleResolved && (m.profile.FirstName != "" || m.profile.Email != "") {
		return m.profile.DisplayName()
	}
	if m.session != nil && m.session.Email != "" {
		return m.session.Email
	}
	return "User"
}
