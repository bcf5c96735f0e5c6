package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"campusconnect/internal/registration/models"
	id "campusconnect/pkg/domain"
	"campusconnect/pkg/platform/sentinel"
)

type pairKey struct {
	user   id.UserID
	notice id.NoticeID
}

// Memory is the in-memory ledger used in dev mode and tests. The mutex
// serializes check-and-insert, which is the uniqueness discipline the
// postgres store gets from its unique index.
type Memory struct {
	mu     sync.RWMutex
	byPair map[pairKey]*models.Registration
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{byPair: make(map[pairKey]*models.Registration)}
}

func (s *Memory) Create(_ context.Context, reg *models.Registration) error {
	key := pairKey{user: reg.UserID, notice: reg.NoticeID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byPair[key]; exists {
		return sentinel.ErrConflict
	}
	cp := *reg
	s.byPair[key] = &cp
	return nil
}

func (s *Memory) FindByPair(_ context.Context, userID id.UserID, noticeID id.NoticeID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.byPair[pairKey{user: userID, notice: noticeID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (s *Memory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Registration
	for key, reg := range s.byPair {
		if key.user == userID {
			cp := *reg
			out = append(out, &cp)
		}
	}
	// Newest first; registration IDs break exact-timestamp ties so the
	// order is stable.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Memory) ListByNotice(_ context.Context, noticeID id.NoticeID) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Registration
	for key, reg := range s.byPair {
		if key.notice == noticeID {
			cp := *reg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Memory) CountByUser(_ context.Context, limit int) ([]models.UserCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[id.UserID]int)
	for key := range s.byPair {
		counts[key.user]++
	}

	out := make([]models.UserCount, 0, len(counts))
	for userID, count := range counts {
		out = append(out, models.UserCount{UserID: userID, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.Compare(out[i].UserID.String(), out[j].UserID.String()) < 0
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
