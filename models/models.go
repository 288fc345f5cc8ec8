package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:32;not null;default:USER" json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	// Notes are removed together with their owner.
	Notes []Note `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Note struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	UserID    int64     `gorm:"index;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Principal is the authenticated identity for the duration of one request.
// Derived from a validated token, never persisted.
type Principal struct {
	UserID int64
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// UserSummary is the public view of a user. It never carries the password hash.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type AuthResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
