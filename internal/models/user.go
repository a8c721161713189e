package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает пользователя платформы: фрилансера, покупателя или обоих.
type User struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	Username      string     `db:"username" json:"username"`
	FirstName     *string    `db:"first_name" json:"first_name,omitempty"`
	LastName      *string    `db:"last_name" json:"last_name,omitempty"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	UserType      string     `db:"user_type" json:"user_type"`
	Bio           *string    `db:"bio" json:"bio,omitempty"`
	Skills        *string    `db:"skills" json:"skills,omitempty"`
	PhoneNumber   *string    `db:"phone_number" json:"phone_number,omitempty"`
	Address       *string    `db:"address" json:"address,omitempty"`
	HourlyRate    *float64   `db:"hourly_rate" json:"hourly_rate,omitempty"`
	TotalEarnings float64    `db:"total_earnings" json:"total_earnings"`
	Rating        float64    `db:"rating" json:"rating"`
	TotalReviews  int        `db:"total_reviews" json:"total_reviews"`
	PhotoID       *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName возвращает полное имя или username, если имя не заполнено.
func (u *User) FullName() string {
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
