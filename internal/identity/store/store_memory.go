package store

import (
	"context"
	"strings"
	"sync"

	"campusconnect/internal/identity/models"
	id "campusconnect/pkg/domain"
	"campusconnect/pkg/platform/sentinel"
)

// Memory is the in-memory Store used in dev mode and tests.
type Memory struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

// NewMemory returns an empty in-memory user store.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *Memory) Create(_ context.Context, user *models.User) error {
	key := strings.ToLower(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}
	u := *user
	s.users[u.ID] = &u
	s.byEmail[key] = u.ID
	return nil
}

func (s *Memory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Memory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.users[userID]
	return &cp, nil
}

func (s *Memory) FindByIDs(_ context.Context, userIDs []id.UserID) (map[id.UserID]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[id.UserID]*models.User, len(userIDs))
	for _, userID := range userIDs {
		if u, ok := s.users[userID]; ok {
			cp := *u
			out[userID] = &cp
		}
	}
	return out, nil
}
