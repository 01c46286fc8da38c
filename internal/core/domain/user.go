package domain

import (
	"strings"
	"time"
)

// User models an account that can authenticate against the API.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address so
// that lookups and the store's uniqueness constraint agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
