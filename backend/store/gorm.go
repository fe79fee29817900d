package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"portal/backend/config"
	"portal/backend/models"
)

// InitDB opens the connection to the remote relational backend.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GormStore implements Store against Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Credentials() CredentialStore { return gormCredentials{s.db} }
func (s *GormStore) Profiles() ProfileStore       { return gormProfiles{s.db} }
func (s *GormStore) Attempts() AttemptStore       { return gormAttempts{s.db} }
func (s *GormStore) Earnings() EarningsStore      { return gormEarnings{s.db} }

func (s *GormStore) RPC(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	switch name {
	case RPCDeleteAccount:
		userID, ok := toUint(args["user_id"])
		if !ok {
			return nil, errors.New("store: delete_account requires user_id")
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", userID).Delete(&models.EarningsEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.QuizAttempt{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.UserProfile{}, userID).Error; err != nil {
				return err
			}
			return tx.Delete(&models.AuthUser{}, userID).Error
		})
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"deleted": true}, nil
	default:
		return nil, ErrUnknownRPC
	}
}

func toUint(v interface{}) (uint, bool) {
	switch n := v.(type) {
	case uint:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	default:
		return 0, false
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type gormCredentials struct{ db *gorm.DB }

func (s gormCredentials) Insert(ctx context.Context, u *models.AuthUser) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s gormCredentials) Get(ctx context.Context, id uint) (models.AuthUser, error) {
	var u models.AuthUser
	err := s.db.WithContext(ctx).First(&u, id).Error
	return u, translate(err)
}

func (s gormCredentials) GetByEmail(ctx context.Context, email string) (models.AuthUser, error) {
	var u models.AuthUser
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, translate(err)
}

func (s gormCredentials) Revoke(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.AuthUser{}).
		Where("id = ?", id).
		Update("token_invalid_before", time.Now().UTC()).Error
}

type gormProfiles struct{ db *gorm.DB }

func (s gormProfiles) Get(ctx context.Context, userID uint) (models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.WithContext(ctx).First(&p, userID).Error
	return p, translate(err)
}

func (s gormProfiles) List(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

func (s gormProfiles) Insert(ctx context.Context, p *models.UserProfile) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s gormProfiles) UpdateNames(ctx context.Context, userID uint, firstName, lastName string) error {
	return s.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"first_name": firstName, "last_name": lastName}).Error
}

type gormAttempts struct{ db *gorm.DB }

func (s gormAttempts) Insert(ctx context.Context, a *models.QuizAttempt) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s gormAttempts) ListByUser(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (s gormAttempts) ListAll(ctx context.Context) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&attempts).Error
	return attempts, err
}

type gormEarnings struct{ db *gorm.DB }

func (s gormEarnings) Get(ctx context.Context, userID uint, monthKey string) (models.EarningsEntry, error) {
	var e models.EarningsEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND month_year = ?", userID, monthKey).
		First(&e).Error
	return e, translate(err)
}

func (s gormEarnings) ListByMonth(ctx context.Context, monthKey string) ([]models.EarningsEntry, error) {
	var entries []models.EarningsEntry
	err := s.db.WithContext(ctx).
		Where("month_year = ?", monthKey).
		Order("updated_at ASC").
		Find(&entries).Error
	return entries, err
}

func (s gormEarnings) Upsert(ctx context.Context, e *models.EarningsEntry) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month_year"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_by", "updated_at"}),
	}).Create(e).Error
}
