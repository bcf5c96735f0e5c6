// Package store persists the registration ledger.
//
// Implementations must make Create atomic with respect to concurrent calls
// for the same (user, notice) pair: exactly one succeeds, the rest get
// sentinel.ErrConflict and leave no row behind. The PostgreSQL store
// delegates this to the compound unique index; the memory store serializes
// behind its mutex.
package store

import (
	"context"

	"campusconnect/internal/registration/models"
	id "campusconnect/pkg/domain"
)

// Store is the ledger persistence contract.
type Store interface {
	// Create appends a registration. Returns sentinel.ErrConflict when a
	// record for the same (user, notice) pair already exists; the existing
	// record is untouched and no new record is written.
	Create(ctx context.Context, reg *models.Registration) error
	// FindByPair is the point lookup for one (user, notice) pair.
	// Returns sentinel.ErrNotFound when absent.
	FindByPair(ctx context.Context, userID id.UserID, noticeID id.NoticeID) (*models.Registration, error)
	// ListByUser returns a user's registrations newest first (CreatedAt
	// descending), as a snapshot at call time.
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Registration, error)
	// ListByNotice returns all registrations for a notice. Order is
	// unspecified; callers must not rely on it.
	ListByNotice(ctx context.Context, noticeID id.NoticeID) ([]*models.Registration, error)
	// CountByUser groups the whole ledger by user and returns at most limit
	// groups ordered by count descending, ties broken by user ID ascending
	// so output is reproducible.
	CountByUser(ctx context.Context, limit int) ([]models.UserCount, error)
}
