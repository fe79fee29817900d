package models

import "time"

// EarningsEntry mirrors the leaderboard_earnings relation. Exactly one row per
// (user_id, month_year); the composite primary key is what the upsert keys on.
type EarningsEntry struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MonthYear string    `gorm:"primaryKey" json:"month_year"` // YYYY-MM
	Amount    float64   `gorm:"not null" json:"amount"`
	UpdatedBy uint      `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EarningsEntry) TableName() string { return "leaderboard_earnings" }

// LeaderboardEntry is a derived ranking row, never persisted.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      uint    `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Amount      float64 `json:"amount"`
}
