package session

import (
	"context"
	"errors"
	"log"
	"time"

	"portal/backend/models"
	"portal/backend/store"
)

// Profile is the resolved authorization view of a user. Role is always
// concrete; name fields are empty when resolution fell back.
type Profile struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// DisplayName falls back from full name to first name to email to "User".
func (p Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.Email != "":
		return p.Email
	}
	return "User"
}

// RoleResolver derives the authorization role for a user id. Resolution never
// fails: a missing record, a timeout or any backend error all degrade to the
// least-privileged trainee role, so role-gated navigation can never stall on a
// slow backend.
type RoleResolver struct {
	profiles store.ProfileStore
	timeout  time.Duration
	logger   *log.Logger
}

func NewRoleResolver(profiles store.ProfileStore, timeout time.Duration, logger *log.Logger) *RoleResolver {
	return &RoleResolver{profiles: profiles, timeout: timeout, logger: logger}
}

// Resolve races the profile query against the resolver timeout; whichever
// completes first wins. A response arriving after the deadline is discarded.
func (r *RoleResolver) Resolve(ctx context.Context, userID uint) Profile {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		profile models.UserProfile
		err     error
	}
	// Buffered so a late completion does not leak the goroutine.
	ch := make(chan result, 1)
	go func() {
		p, err := r.profiles.Get(ctx, userID)
		ch <- result{p, err}
	}()

	select {
	case res := <-ch:
		if errors.Is(res.err, store.ErrNotFound) {
			// No profile row is a legitimate empty state.
			return Profile{UserID: userID, Role: models.RoleTrainee}
		}
		if res.err != nil {
			r.logger.Printf("session: profile fetch for user %d failed, defaulting to trainee: %v", userID, res.err)
			return Profile{UserID: userID, Role: models.RoleTrainee}
		}
		role := res.profile.Role
		if role == "" {
			role = models.RoleTrainee
		}
		return Profile{
			UserID:    userID,
			Email:     res.profile.Email,
			FirstName: res.profile.FirstName,
			LastName:  res.profile.LastName,
			Role:      role,
		}
	case <-ctx.Done():
		r.logger.Printf("session: profile fetch for user %d timed out, defaulting to trainee", userID)
		return Profile{UserID: userID, Role: models.RoleTrainee}
	}
}
