package models

import (
	"strings"
	"time"
	"unicode"
)

// User is created when the login flow completes (email, then nickname).
// It is immutable afterwards; the email is the partition key for every
// per-user record in the store.
type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Initial   string    `json:"initial"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest carries both steps of the login form.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

// NewUser builds a user record from the login inputs. The initial is the
// uppercased first rune of the nickname, matching what the gallery renders
// in the avatar badge.
func NewUser(email, name string) User {
	initial := ""
	for _, r := range strings.TrimSpace(name) {
		initial = string(unicode.ToUpper(r))
		break
	}
	return User{
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Initial:   initial,
		CreatedAt: time.Now(),
	}
}
