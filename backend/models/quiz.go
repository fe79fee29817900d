package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnswerMap maps question id to the chosen option letter ("A".."D").
// Stored as a JSON column on the attempt row.
type AnswerMap map[int]string

func (m AnswerMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *AnswerMap) Scan(value interface{}) error {
	if value == nil {
		*m = AnswerMap{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for AnswerMap")
	}
	return json.Unmarshal(b, m)
}

// QuizAttempt is one row of the append-only quiz_attempts log. Rows are never
// updated or deleted; highest score and last attempt are derived on read.
type QuizAttempt struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Answers        AnswerMap `gorm:"type:jsonb" json:"answers"`
	CreatedAt      time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempts" }

// Question is a single quiz question. The bank is static content compiled into
// the portal; CorrectAnswer never leaves the process.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"-"`
}
