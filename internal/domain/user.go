package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account created on first Google sign-in.
// GoogleSubject is the stable "sub" identifier from Google and is unique.
type User struct {
	ID            uuid.UUID `json:"id"`
	GoogleSubject string    `json:"-"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
