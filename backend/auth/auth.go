package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrEmailRequired      = errors.New("auth: email is required")
	ErrWeakPassword       = errors.New("auth: password must be at least 6 characters")
)

// Session is an authenticated connection to the backend identifying a user.
type Session struct {
	Token     string
	UserID    uint
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the immutable pairing of a user id and the email it was
// registered with.
type Identity struct {
	UserID uint
	Email  string
}

// API is the auth surface of the remote backend. GetSession recovers the
// persisted session, if any; OnChange delivers session transitions (sign-in,
// sign-out, revocation noticed on restore) to registered listeners.
type API interface {
	GetSession(ctx context.Context) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (Identity, *Session, error)
	SignOut(ctx context.Context) error
	OnChange(fn func(*Session)) (unsubscribe func())
}
