package store

import (
	"context"
	"sort"
	"sync"

	"campusconnect/internal/notice/models"
	id "campusconnect/pkg/domain"
	"campusconnect/pkg/platform/sentinel"
)

// Memory is the in-memory Store used in dev mode and tests.
type Memory struct {
	mu      sync.RWMutex
	notices map[id.NoticeID]*models.Notice
}

// NewMemory returns an empty in-memory notice store.
func NewMemory() *Memory {
	return &Memory{notices: make(map[id.NoticeID]*models.Notice)}
}

func (s *Memory) Create(_ context.Context, notice *models.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := *notice
	s.notices[n.ID] = &n
	return nil
}

func (s *Memory) FindByID(_ context.Context, noticeID id.NoticeID) (*models.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notices[noticeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *Memory) FindByIDs(_ context.Context, noticeIDs []id.NoticeID) (map[id.NoticeID]*models.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[id.NoticeID]*models.Notice, len(noticeIDs))
	for _, noticeID := range noticeIDs {
		if n, ok := s.notices[noticeID]; ok {
			cp := *n
			out[noticeID] = &cp
		}
	}
	return out, nil
}

func (s *Memory) List(_ context.Context) ([]*models.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Notice, 0, len(s.notices))
	for _, n := range s.notices {
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Memory) Update(_ context.Context, notice *models.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notices[notice.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Title = notice.Title
	existing.Description = notice.Description
	existing.EventDate = notice.EventDate
	existing.UpdatedAt = notice.UpdatedAt
	return nil
}

func (s *Memory) Delete(_ context.Context, noticeID id.NoticeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notices[noticeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.notices, noticeID)
	return nil
}
