package auth

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portal/backend/models"
	"portal/backend/store"
	"portal/backend/utils"
)

const defaultTokenTTL = 72 * time.Hour

// Client implements API over the record store. The session token is a signed
// JWT persisted to a local file so the portal can recover it across restarts.
type Client struct {
	creds    store.CredentialStore
	profiles store.ProfileStore
	secret   string
	tokenTTL time.Duration
	file     string
	now      func() time.Time
	logger   *log.Logger

	mu           sync.Mutex
	current      *Session
	listeners    map[int]func(*Session)
	nextListener int
}

// Option configures Client behavior.
type Option func(*Client)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(c *Client) {
		if fn != nil {
			c.now = fn
		}
	}
}

// WithTokenTTL overrides the session token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.tokenTTL = ttl
		}
	}
}

func NewClient(st store.Store, secret, sessionFile string, logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		creds:     st.Credentials(),
		profiles:  st.Profiles(),
		secret:    secret,
		tokenTTL:  defaultTokenTTL,
		file:      sessionFile,
		now:       time.Now,
		logger:    logger,
		listeners: make(map[int]func(*Session)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSession recovers the persisted session. A missing, malformed, expired or
// revoked token is a plain "no session", not an error; only a backend failure
// while confirming the account surfaces as one.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	raw, err := os.ReadFile(c.file)
	if err != nil {
		return nil, nil
	}

	userID, issuedAt, expiresAt, err := utils.ParseSessionToken(string(raw), c.secret)
	if err != nil || c.now().After(expiresAt) {
		c.discardToken()
		return nil, nil
	}

	user, err := c.creds.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.discardToken()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.TokenInvalidBefore.IsZero() && issuedAt.Before(user.TokenInvalidBefore) {
		// Signed out elsewhere since this token was issued.
		c.discardToken()
		return nil, nil
	}

	session := &Session{
		Token:     string(raw),
		UserID:    userID,
		Email:     user.Email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	c.mu.Lock()
	c.current = session
	c.mu.Unlock()
	return session, nil
}

// SignUp registers a new identity. The profile row is created alongside the
// credentials with the default trainee role; a profile insert failure is
// logged but does not fail the registration, matching the backend trigger it
// stands in for.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (Identity, error) {
	if email == "" {
		return Identity{}, ErrEmailRequired
	}
	if len(password) < 6 {
		return Identity{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	user := models.AuthUser{Email: email, PasswordHash: string(hash)}
	if err := c.creds.Insert(ctx, &user); err != nil {
		return Identity{}, err
	}

	profile := models.UserProfile{
		ID:        user.ID,
		Email:     email,
		FirstName: metadata["first_name"],
		LastName:  metadata["last_name"],
		Role:      models.RoleTrainee,
	}
	if err := c.profiles.Insert(ctx, &profile); err != nil {
		c.logger.Printf("auth: could not create profile for user %d: %v", user.ID, err)
	}

	return Identity{UserID: user.ID, Email: user.Email}, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Identity, *Session, error) {
	user, err := c.creds.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Identity{}, nil, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Identity{}, nil, ErrInvalidCredentials
	}

	issuedAt := c.now()
	expiresAt := issuedAt.Add(c.tokenTTL)
	token, err := utils.GenerateSessionToken(user.ID, c.secret, issuedAt, expiresAt)
	if err != nil {
		return Identity{}, nil, err
	}
	if err := os.WriteFile(c.file, []byte(token), 0o600); err != nil {
		c.logger.Printf("auth: could not persist session token: %v", err)
	}

	session := &Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	c.mu.Lock()
	c.current = session
	c.mu.Unlock()
	c.notify(session)

	return Identity{UserID: user.ID, Email: user.Email}, session, nil
}

// SignOut clears the local session before the remote invalidation call, so a
// slow or failing backend can never leave the portal looking signed in.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.current
	c.current = nil
	c.mu.Unlock()
	c.discardToken()
	c.notify(nil)

	if session == nil {
		return nil
	}
	return c.creds.Revoke(ctx, session.UserID)
}

func (c *Client) OnChange(fn func(*Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) notify(s *Session) {
	c.mu.Lock()
	fns := make([]func(*Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		go fn(s)
	}
}

func (c *Client) discardToken() {
	if err := os.Remove(c.file); err != nil && !os.IsNotExist(err) {
		c.logger.Printf("auth: could not remove session file: %v", err)
	}
}
