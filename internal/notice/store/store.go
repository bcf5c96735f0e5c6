// Package store persists event notices.
package store

import (
	"context"

	"campusconnect/internal/notice/models"
	id "campusconnect/pkg/domain"
)

// Store is the notice persistence contract.
type Store interface {
	Create(ctx context.Context, notice *models.Notice) error
	// FindByID returns sentinel.ErrNotFound when no such notice exists.
	FindByID(ctx context.Context, noticeID id.NoticeID) (*models.Notice, error)
	// FindByIDs resolves a batch of notice IDs; missing IDs are absent from
	// the result.
	FindByIDs(ctx context.Context, noticeIDs []id.NoticeID) (map[id.NoticeID]*models.Notice, error)
	// List returns all notices newest first (by CreatedAt descending).
	List(ctx context.Context) ([]*models.Notice, error)
	// Update overwrites title, description, event date and UpdatedAt.
	// Returns sentinel.ErrNotFound when no such notice exists.
	Update(ctx context.Context, notice *models.Notice) error
	// Delete removes a notice. Returns sentinel.ErrNotFound when absent.
	Delete(ctx context.Context, noticeID id.NoticeID) error
}
