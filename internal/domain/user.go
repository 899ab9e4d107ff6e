package domain

import "time"

type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"`
	IsVerified   bool       `json:"is_verified"`
	IsApproved   bool       `json:"is_approved"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"-"`
}

// UserWithMedia agrega los documentos adjuntados durante el registro.
type UserWithMedia struct {
	User
	RegistrationMedia []Media `json:"registration_media"`
}
