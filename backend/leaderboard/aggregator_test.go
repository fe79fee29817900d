package leaderboard

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/backend/models"
	"portal/backend/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestMonthKeyForNow(t *testing.T) {
	st := store.NewMemoryStore()
	agg := NewAggregator(st.Earnings(), st.Profiles(), testLogger(),
		fixedClock(time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-08", agg.MonthKeyForNow())
}

func TestAddAmountSequential(t *testing.T) {
	st := store.NewMemoryStore()
	agg := NewAggregator(st.Earnings(), st.Profiles(), testLogger())
	ctx := context.Background()

	total, err := agg.AddAmount(ctx, 1, "2026-08", 100, 9)
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)

	total, err = agg.AddAmount(ctx, 1, "2026-08", 50, 9)
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)

	total, err = agg.AddAmount(ctx, 1, "2026-08", 50, 9)
	require.NoError(t, err)
	assert.Equal(t, 200.0, total)
}

// gatedEarnings holds every Get until release closes, forcing two increments
// to read the same snapshot.
type gatedEarnings struct {
	store.EarningsStore
	entered chan struct{}
	release chan struct{}
}

func (g gatedEarnings) Get(ctx context.Context, userID uint, monthKey string) (models.EarningsEntry, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.EarningsStore.Get(ctx, userID, monthKey)
}

func TestAddAmountConcurrentIncrementsCanLoseUpdates(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Earnings().Upsert(ctx, &models.EarningsEntry{
		UserID: 1, MonthYear: "2026-08", Amount: 100,
	}))

	gated := gatedEarnings{
		EarningsStore: st.Earnings(),
		entered:       make(chan struct{}, 2),
		release:       make(chan struct{}),
	}
	agg := NewAggregator(gated, st.Profiles(), testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := agg.AddAmount(ctx, 1, "2026-08", 50, 9)
			assert.NoError(t, err)
		}()
	}
	<-gated.entered
	<-gated.entered
	close(gated.release)
	wg.Wait()

	// Both writers read 100 and both wrote 150: one increment was lost. The
	// read-modify-write has no atomicity, last write wins.
	entry, err := st.Earnings().Get(ctx, 1, "2026-08")
	require.NoError(t, err)
	assert.Equal(t, 150.0, entry.Amount)
}

// recordingEarnings counts store calls to prove validation short-circuits.
type recordingEarnings struct {
	store.EarningsStore
	calls int
}

func (r *recordingEarnings) Get(ctx context.Context, userID uint, monthKey string) (models.EarningsEntry, error) {
	r.calls++
	return r.EarningsStore.Get(ctx, userID, monthKey)
}

func (r *recordingEarnings) Upsert(ctx context.Context, e *models.EarningsEntry) error {
	r.calls++
	return r.EarningsStore.Upsert(ctx, e)
}

func TestSetAmountRejectsNegativeBeforeStore(t *testing.T) {
	st := store.NewMemoryStore()
	recording := &recordingEarnings{EarningsStore: st.Earnings()}
	agg := NewAggregator(recording, st.Profiles(), testLogger())

	err := agg.SetAmount(context.Background(), 1, "2026-08", -5, 9)
	assert.ErrorIs(t, err, ErrNegativeAmount)
	assert.Zero(t, recording.calls)
}

func TestAddAmountRejectsNonPositiveBeforeStore(t *testing.T) {
	st := store.NewMemoryStore()
	recording := &recordingEarnings{EarningsStore: st.Earnings()}
	agg := NewAggregator(recording, st.Profiles(), testLogger())

	for _, delta := range []float64{0, -10} {
		_, err := agg.AddAmount(context.Background(), 1, "2026-08", delta, 9)
		assert.ErrorIs(t, err, ErrNonPositiveDelta)
	}
	assert.Zero(t, recording.calls)
}

func TestSetAmountAllowsZero(t *testing.T) {
	st := store.NewMemoryStore()
	agg := NewAggregator(st.Earnings(), st.Profiles(), testLogger())
	ctx := context.Background()

	require.NoError(t, agg.SetAmount(ctx, 1, "2026-08", 0, 9))
	entry, err := st.Earnings().Get(ctx, 1, "2026-08")
	require.NoError(t, err)
	assert.Equal(t, 0.0, entry.Amount)
}

func TestRankingsSortsAndBreaksTiesStably(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.Profiles().Insert(ctx, &models.UserProfile{ID: 1, FirstName: "Alice", LastName: "Ng"}))
	require.NoError(t, st.Profiles().Insert(ctx, &models.UserProfile{ID: 2, FirstName: "Bob", LastName: "Lee"}))

	agg := NewAggregator(st.Earnings(), st.Profiles(), testLogger())
	require.NoError(t, agg.SetAmount(ctx, 1, "2026-08", 300, 9))
	require.NoError(t, agg.SetAmount(ctx, 2, "2026-08", 300, 9))
	require.NoError(t, agg.SetAmount(ctx, 3, "2026-08", 100, 9))

	ranked, err := agg.Rankings(ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, uint(1), ranked[0].UserID)
	assert.Equal(t, "Alice Ng", ranked[0].DisplayName)

	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, uint(2), ranked[1].UserID)
	assert.Equal(t, "Bob Lee", ranked[1].DisplayName)

	assert.Equal(t, 3, ranked[2].Rank)
	assert.Equal(t, uint(3), ranked[2].UserID)
	assert.Equal(t, "Unknown", ranked[2].DisplayName)
	assert.Equal(t, 100.0, ranked[2].Amount)
}

func TestRankingsEmptyMonth(t *testing.T) {
	st := store.NewMemoryStore()
	agg := NewAggregator(st.Earnings(), st.Profiles(), testLogger())

	ranked, err := agg.Rankings(context.Background(), "1999-01")
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankingsSkipsAbsentUsers(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Profiles().Insert(ctx, &models.UserProfile{ID: 1, Email: "a@portal.io"}))
	require.NoError(t, st.Profiles().Insert(ctx, &models.UserProfile{ID: 2, Email: "b@portal.io"}))

	agg := NewAggregator(st.Earnings(), st.Profiles(), testLogger())
	require.NoError(t, agg.SetAmount(ctx, 1, "2026-08", 40, 9))

	ranked, err := agg.Rankings(ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, uint(1), ranked[0].UserID)
	assert.Equal(t, "a@portal.io", ranked[0].DisplayName)
}

func TestRankingsScopedToMonth(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	agg := NewAggregator(st.Earnings(), st.Profiles(), testLogger())

	require.NoError(t, agg.SetAmount(ctx, 1, "2026-07", 500, 9))
	require.NoError(t, agg.SetAmount(ctx, 1, "2026-08", 50, 9))

	ranked, err := agg.Rankings(ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 50.0, ranked[0].Amount)
}
