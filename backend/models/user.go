package models

import "time"

const (
	RoleTrainee = "trainee"
	RoleAdmin   = "admin"
)

// AuthUser is the credential record behind a sign-in. It is owned by the auth
// backend; the portal only ever reads it through the auth client.
type AuthUser struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	// TokenInvalidBefore invalidates session tokens issued before it. Sign-out
	// pushes it forward; zero means no session was ever revoked.
	TokenInvalidBefore time.Time `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}

// UserProfile mirrors the user_profiles relation. The id matches the auth user
// id. Role is filled by the backend default and changed out of band by admin
// tooling; the portal never writes it.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `gorm:"default:trainee" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName falls back from full name to first name to email.
func (p UserProfile) DisplayName() string {
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

func (AuthUser) TableName() string    { return "auth_users" }
func (UserProfile) TableName() string { return "user_profiles" }
