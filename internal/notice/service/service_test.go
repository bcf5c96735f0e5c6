package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	identitymodels "campusconnect/internal/identity/models"
	identitystore "campusconnect/internal/identity/store"
	"campusconnect/internal/notice/store"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
	"campusconnect/pkg/requestcontext"
)

type resolverAdapter struct {
	users *identitystore.Memory
}

func (r *resolverAdapter) ResolveMany(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*identitymodels.User, error) {
	return r.users.FindByIDs(ctx, userIDs)
}

type ServiceSuite struct {
	suite.Suite
	svc   *Service
	users *identitystore.Memory
	admin *identitymodels.User
}

func (s *ServiceSuite) SetupTest() {
	s.users = identitystore.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = New(store.NewMemory(), &resolverAdapter{users: s.users}, WithLogger(logger))

	s.admin = &identitymodels.User{
		ID:    id.NewUserID(),
		Name:  "Dean",
		Email: "dean@example.edu",
		Role:  identitymodels.RoleAdmin,
	}
	s.Require().NoError(s.users.Create(s.T().Context(), s.admin))
}

func (s *ServiceSuite) draft(title string) Draft {
	return Draft{
		Title:       title,
		Description: "details",
		EventDate:   time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC),
	}
}

func (s *ServiceSuite) TestCreateAndGet() {
	created, err := s.svc.Create(s.T().Context(), s.admin.ID, s.draft("  Career Fair  "))
	s.Require().NoError(err)
	s.Equal("Career Fair", created.Title)
	s.Equal(s.admin.ID, created.CreatedBy)
	s.False(created.CreatedAt.IsZero())

	populated, err := s.svc.Get(s.T().Context(), created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, populated.Notice.ID)
	s.Require().NotNil(populated.Creator)
	s.Equal("Dean", populated.Creator.Name)
	s.Equal("dean@example.edu", populated.Creator.Email)
}

func (s *ServiceSuite) TestCreateValidation() {
	cases := []struct {
		name  string
		draft Draft
	}{
		{"missing title", Draft{Description: "d", EventDate: time.Now()}},
		{"missing description", Draft{Title: "t", EventDate: time.Now()}},
		{"missing event date", Draft{Title: "t", Description: "d"}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.Create(s.T().Context(), s.admin.ID, tc.draft)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func (s *ServiceSuite) TestListNewestFirst() {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"First", "Second", "Third"} {
		ctx := requestcontext.WithTime(s.T().Context(), base.Add(time.Duration(i)*time.Minute))
		_, err := s.svc.Create(ctx, s.admin.ID, s.draft(title))
		s.Require().NoError(err)
	}

	populated, err := s.svc.List(s.T().Context())
	s.Require().NoError(err)
	s.Require().Len(populated, 3)
	s.Equal("Third", populated[0].Notice.Title)
	s.Equal("Second", populated[1].Notice.Title)
	s.Equal("First", populated[2].Notice.Title)
	for _, p := range populated {
		s.Require().NotNil(p.Creator)
		s.Equal("Dean", p.Creator.Name)
	}
}

func (s *ServiceSuite) TestListTolerantOfUnknownCreator() {
	// Creator never stored: the notice still lists, Creator nil.
	_, err := s.svc.Create(s.T().Context(), id.NewUserID(), s.draft("Orphaned"))
	s.Require().NoError(err)

	populated, err := s.svc.List(s.T().Context())
	s.Require().NoError(err)
	s.Require().Len(populated, 1)
	s.Equal("Orphaned", populated[0].Notice.Title)
	s.Nil(populated[0].Creator)
}

func (s *ServiceSuite) TestUpdate() {
	created, err := s.svc.Create(s.T().Context(), s.admin.ID, s.draft("Before"))
	s.Require().NoError(err)

	later := requestcontext.WithTime(s.T().Context(), created.CreatedAt.Add(time.Hour))
	updated, err := s.svc.Update(later, created.ID, Draft{
		Title:       "After",
		Description: "rescheduled",
		EventDate:   created.EventDate.Add(24 * time.Hour),
	})
	s.Require().NoError(err)
	s.Equal("After", updated.Title)
	s.Equal("rescheduled", updated.Description)
	s.True(updated.UpdatedAt.After(updated.CreatedAt))

	fetched, err := s.svc.Get(s.T().Context(), created.ID)
	s.Require().NoError(err)
	s.Equal("After", fetched.Notice.Title)
}

func (s *ServiceSuite) TestUpdateMissing() {
	_, err := s.svc.Update(s.T().Context(), id.NewNoticeID(), s.draft("Nope"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDelete() {
	created, err := s.svc.Create(s.T().Context(), s.admin.ID, s.draft("Ephemeral"))
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.T().Context(), created.ID))

	_, err = s.svc.Get(s.T().Context(), created.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.svc.Delete(s.T().Context(), created.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
