package leaderboard

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"portal/backend/models"
	"portal/backend/store"
)

var (
	// ErrNegativeAmount rejects an absolute set below zero. Checked before any
	// store call is made.
	ErrNegativeAmount = errors.New("leaderboard: amount must not be negative")
	// ErrNonPositiveDelta rejects an increment of zero or less. Checked before
	// any store call is made.
	ErrNonPositiveDelta = errors.New("leaderboard: delta must be positive")
)

// Aggregator maintains per-user monthly earnings totals and produces ranked
// views. All consistency comes from the store's uniqueness constraint on
// (user_id, month_year); the aggregator holds no locks of its own.
type Aggregator struct {
	earnings store.EarningsStore
	profiles store.ProfileStore
	now      func() time.Time
	logger   *log.Logger
}

// Option configures Aggregator behavior.
type Option func(*Aggregator)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.now = fn
		}
	}
}

func NewAggregator(earnings store.EarningsStore, profiles store.ProfileStore, logger *log.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		earnings: earnings,
		profiles: profiles,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MonthKeyForNow derives the canonical YYYY-MM key for the current earnings
// period. Every read and write for "this month" goes through this single
// derivation.
func (a *Aggregator) MonthKeyForNow() string {
	return a.now().UTC().Format("2006-01")
}

// SetAmount writes an absolute amount for (userID, monthKey).
func (a *Aggregator) SetAmount(ctx context.Context, userID uint, monthKey string, amount float64, actorID uint) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	return a.earnings.Upsert(ctx, &models.EarningsEntry{
		UserID:    userID,
		MonthYear: monthKey,
		Amount:    amount,
		UpdatedBy: actorID,
		UpdatedAt: a.now().UTC(),
	})
}

// AddAmount reads the current amount for (userID, monthKey) — zero if absent —
// adds delta and writes the sum back. The read-modify-write is NOT atomic
// against concurrent writers: two admins incrementing the same key can race,
// and the last upsert wins. The store has no atomic increment; until it grows
// one, concurrent edits of the same user and month can lose an update.
func (a *Aggregator) AddAmount(ctx context.Context, userID uint, monthKey string, delta float64, actorID uint) (float64, error) {
	if delta <= 0 {
		return 0, ErrNonPositiveDelta
	}

	current, err := a.earnings.Get(ctx, userID, monthKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}

	total := current.Amount + delta
	err = a.earnings.Upsert(ctx, &models.EarningsEntry{
		UserID:    userID,
		MonthYear: monthKey,
		Amount:    total,
		UpdatedBy: actorID,
		UpdatedAt: a.now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Rankings returns the month's entries sorted descending by amount with
// 1-based ranks. Ties keep the store's retrieval order (stable sort). Users
// with no entry for the month are simply absent; no zero rows are synthesized.
func (a *Aggregator) Rankings(ctx context.Context, monthKey string) ([]models.LeaderboardEntry, error) {
	entries, err := a.earnings.ListByMonth(ctx, monthKey)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	names := a.displayNames(ctx)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount > entries[j].Amount
	})

	ranked := make([]models.LeaderboardEntry, len(entries))
	for i, e := range entries {
		name, ok := names[e.UserID]
		if !ok {
			name = "Unknown"
		}
		ranked[i] = models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      e.UserID,
			DisplayName: name,
			Amount:      e.Amount,
		}
	}
	return ranked, nil
}

// displayNames joins profile display names by user id. A failed profile fetch
// degrades to an empty map — rankings still render, with "Unknown" names.
func (a *Aggregator) displayNames(ctx context.Context) map[uint]string {
	profiles, err := a.profiles.List(ctx)
	if err != nil {
		a.logger.Printf("leaderboard: could not fetch profiles for display names: %v", err)
		return map[uint]string{}
	}
	names := make(map[uint]string, len(profiles))
	for _, p := range profiles {
		switch {
		case p.FirstName != "" && p.LastName != "":
			names[p.ID] = p.FirstName + " " + p.LastName
		case p.FirstName != "":
			names[p.ID] = p.FirstName
		case p.Email != "":
			names[p.ID] = p.Email
		}
	}
	return names
}
