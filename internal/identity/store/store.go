// Package store persists user accounts. Implementations return sentinel
// errors; the service layer translates them into domain errors.
package store

import (
	"context"

	"campusconnect/internal/identity/models"
	id "campusconnect/pkg/domain"
)

// Store is the user persistence contract.
type Store interface {
	// Create inserts a new user. Returns sentinel.ErrConflict when the email
	// is already taken.
	Create(ctx context.Context, user *models.User) error
	// FindByID returns sentinel.ErrNotFound when no such user exists.
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	// FindByEmail returns sentinel.ErrNotFound when no such user exists.
	// Lookup is case-insensitive.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIDs resolves a batch of user IDs in one round trip. Missing IDs
	// are simply absent from the result; callers decide the orphan policy.
	FindByIDs(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.User, error)
}
