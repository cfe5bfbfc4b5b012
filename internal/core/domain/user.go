package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")

// User models an authenticated actor in the system. PasswordHash is never
// serialized in API responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the recognised role values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}
