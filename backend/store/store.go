package store

import (
	"context"
	"errors"

	"portal/backend/models"
)

// ErrNotFound reports an empty result: no row matched the query. Callers treat
// it as a legitimate default state, not a backend failure.
var ErrNotFound = errors.New("store: record not found")

// ErrUnknownRPC reports a remote procedure name the backend does not implement.
var ErrUnknownRPC = errors.New("store: unknown remote procedure")

// RPCDeleteAccount removes a user account and everything attached to it.
// Privileged; callers gate it on the admin role.
const RPCDeleteAccount = "delete_account"

// Store is the thin query client over the remote relational backend. It is the
// single source of truth and the only shared mutable resource; the portal
// holds no locks of its own and relies on the backend's uniqueness constraints
// for consistency.
type Store interface {
	Credentials() CredentialStore
	Profiles() ProfileStore
	Attempts() AttemptStore
	Earnings() EarningsStore

	// RPC invokes a named server-side procedure for privileged operations.
	RPC(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error)
}

// CredentialStore covers the auth_users relation, owned by the auth backend.
type CredentialStore interface {
	Insert(ctx context.Context, u *models.AuthUser) error
	Get(ctx context.Context, id uint) (models.AuthUser, error)
	GetByEmail(ctx context.Context, email string) (models.AuthUser, error)
	// Revoke invalidates every session token issued to the user before now.
	Revoke(ctx context.Context, id uint) error
}

// ProfileStore covers the user_profiles relation.
type ProfileStore interface {
	Get(ctx context.Context, userID uint) (models.UserProfile, error)
	// List returns all profiles, newest first.
	List(ctx context.Context) ([]models.UserProfile, error)
	Insert(ctx context.Context, p *models.UserProfile) error
	UpdateNames(ctx context.Context, userID uint, firstName, lastName string) error
}

// AttemptStore covers the append-only quiz_attempts log. Rows are inserted and
// read back in created_at order; nothing updates or deletes them.
type AttemptStore interface {
	Insert(ctx context.Context, a *models.QuizAttempt) error
	ListByUser(ctx context.Context, userID uint) ([]models.QuizAttempt, error)
	// ListAll returns every attempt, for admin aggregation.
	ListAll(ctx context.Context) ([]models.QuizAttempt, error)
}

// EarningsStore covers the leaderboard_earnings relation. The backend enforces
// uniqueness on (user_id, month_year); Upsert keys on that constraint.
type EarningsStore interface {
	Get(ctx context.Context, userID uint, monthKey string) (models.EarningsEntry, error)
	ListByMonth(ctx context.Context, monthKey string) ([]models.EarningsEntry, error)
	Upsert(ctx context.Context, e *models.EarningsEntry) error
}
