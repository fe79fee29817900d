package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"portal/backend/models"
)

// MemoryStore implements Store in process memory. It backs tests and the
// DB_DRIVER=memory mode; ordering matches the Postgres store so derived views
// behave the same against both.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   uint
	users    map[uint]models.AuthUser
	profiles map[uint]models.UserProfile
	attempts []models.QuizAttempt

	// earnings keeps upsert-order per month so rankings see a stable
	// retrieval order.
	earnings map[string][]models.EarningsEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		users:    make(map[uint]models.AuthUser),
		profiles: make(map[uint]models.UserProfile),
		earnings: make(map[string][]models.EarningsEntry),
	}
}

func (s *MemoryStore) Credentials() CredentialStore { return memCredentials{s} }
func (s *MemoryStore) Profiles() ProfileStore       { return memProfiles{s} }
func (s *MemoryStore) Attempts() AttemptStore       { return memAttempts{s} }
func (s *MemoryStore) Earnings() EarningsStore      { return memEarnings{s} }

func (s *MemoryStore) RPC(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch name {
	case RPCDeleteAccount:
		userID, ok := toUint(args["user_id"])
		if !ok {
			return nil, errors.New("store: delete_account requires user_id")
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.users, userID)
		delete(s.profiles, userID)
		kept := s.attempts[:0]
		for _, a := range s.attempts {
			if a.UserID != userID {
				kept = append(kept, a)
			}
		}
		s.attempts = kept
		for month, entries := range s.earnings {
			filtered := entries[:0]
			for _, e := range entries {
				if e.UserID != userID {
					filtered = append(filtered, e)
				}
			}
			s.earnings[month] = filtered
		}
		return map[string]interface{}{"deleted": true}, nil
	default:
		return nil, ErrUnknownRPC
	}
}

type memCredentials struct{ s *MemoryStore }

func (m memCredentials) Insert(ctx context.Context, u *models.AuthUser) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.users {
		if existing.Email == u.Email {
			return errors.New("store: email already registered")
		}
	}
	u.ID = m.s.nextID
	m.s.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.s.users[u.ID] = *u
	return nil
}

func (m memCredentials) Get(ctx context.Context, id uint) (models.AuthUser, error) {
	if err := ctx.Err(); err != nil {
		return models.AuthUser{}, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return models.AuthUser{}, ErrNotFound
	}
	return u, nil
}

func (m memCredentials) GetByEmail(ctx context.Context, email string) (models.AuthUser, error) {
	if err := ctx.Err(); err != nil {
		return models.AuthUser{}, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.AuthUser{}, ErrNotFound
}

func (m memCredentials) Revoke(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.TokenInvalidBefore = time.Now().UTC()
	m.s.users[id] = u
	return nil
}

type memProfiles struct{ s *MemoryStore }

func (m memProfiles) Get(ctx context.Context, userID uint) (models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.UserProfile{}, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.profiles[userID]
	if !ok {
		return models.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (m memProfiles) List(ctx context.Context) ([]models.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	profiles := make([]models.UserProfile, 0, len(m.s.profiles))
	for _, p := range m.s.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].ID > profiles[j].ID
		}
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (m memProfiles) Insert(ctx context.Context, p *models.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p.Role == "" {
		p.Role = models.RoleTrainee
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.s.profiles[p.ID] = *p
	return nil
}

func (m memProfiles) UpdateNames(ctx context.Context, userID uint, firstName, lastName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.FirstName = firstName
	p.LastName = lastName
	m.s.profiles[userID] = p
	return nil
}

type memAttempts struct{ s *MemoryStore }

func (m memAttempts) Insert(ctx context.Context, a *models.QuizAttempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a.ID = m.s.nextID
	m.s.nextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.s.attempts = append(m.s.attempts, *a)
	return nil
}

func (m memAttempts) ListByUser(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var attempts []models.QuizAttempt
	for _, a := range m.s.attempts {
		if a.UserID == userID {
			attempts = append(attempts, a)
		}
	}
	return attempts, nil
}

func (m memAttempts) ListAll(ctx context.Context) ([]models.QuizAttempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	attempts := make([]models.QuizAttempt, len(m.s.attempts))
	copy(attempts, m.s.attempts)
	return attempts, nil
}

type memEarnings struct{ s *MemoryStore }

func (m memEarnings) Get(ctx context.Context, userID uint, monthKey string) (models.EarningsEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.EarningsEntry{}, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, e := range m.s.earnings[monthKey] {
		if e.UserID == userID {
			return e, nil
		}
	}
	return models.EarningsEntry{}, ErrNotFound
}

func (m memEarnings) ListByMonth(ctx context.Context, monthKey string) ([]models.EarningsEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	entries := make([]models.EarningsEntry, len(m.s.earnings[monthKey]))
	copy(entries, m.s.earnings[monthKey])
	return entries, nil
}

func (m memEarnings) Upsert(ctx context.Context, e *models.EarningsEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	entries := m.s.earnings[e.MonthYear]
	for i, existing := range entries {
		if existing.UserID == e.UserID {
			entries[i] = *e
			return nil
		}
	}
	m.s.earnings[e.MonthYear] = append(entries, *e)
	return nil
}
