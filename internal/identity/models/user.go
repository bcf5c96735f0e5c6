package models

import (
	"time"

	id "campusconnect/pkg/domain"
)

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account known to the identity store. PasswordHash never leaves
// the identity module.
type User struct {
	ID           id.UserID
	Name         string
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}
