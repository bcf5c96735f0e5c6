// Package service implements notice CRUD and the creator-populated read
// side. Role enforcement for the admin mutations lives in the middleware
// chain; the service trusts its caller.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	identitymodels "campusconnect/internal/identity/models"
	"campusconnect/internal/notice/models"
	"campusconnect/internal/notice/store"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
	"campusconnect/pkg/platform/sentinel"
	"campusconnect/pkg/requestcontext"
)

// UserResolver batch-resolves user references for populated reads.
type UserResolver interface {
	ResolveMany(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*identitymodels.User, error)
}

// Service orchestrates notice lifecycle.
type Service struct {
	notices store.Store
	users   UserResolver
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New builds a notice Service.
func New(notices store.Store, users UserResolver, opts ...Option) *Service {
	s := &Service{notices: notices, users: users, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Creator is the projected {name, email} of the publishing admin.
type Creator struct {
	ID    id.UserID
	Name  string
	Email string
}

// Populated is a notice joined with its creator. Creator is nil when the
// referenced user no longer resolves.
type Populated struct {
	Notice  *models.Notice
	Creator *Creator
}

// Draft carries the caller-supplied notice fields.
type Draft struct {
	Title       string
	Description string
	EventDate   time.Time
}

// Create publishes a new notice on behalf of the caller.
func (s *Service) Create(ctx context.Context, createdBy id.UserID, draft Draft) (*models.Notice, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	notice := &models.Notice{
		ID:          id.NewNoticeID(),
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		EventDate:   draft.EventDate,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create notice")
	}
	return notice, nil
}

// Get returns a single notice populated with its creator.
func (s *Service) Get(ctx context.Context, noticeID id.NoticeID) (*Populated, error) {
	notice, err := s.notices.FindByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notice not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch notice")
	}

	populated, err := s.populate(ctx, []*models.Notice{notice})
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// List returns all notices newest first, populated with their creators.
func (s *Service) List(ctx context.Context) ([]*Populated, error) {
	notices, err := s.notices.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list notices")
	}
	return s.populate(ctx, notices)
}

// Update overwrites the mutable fields of an existing notice.
func (s *Service) Update(ctx context.Context, noticeID id.NoticeID, draft Draft) (*models.Notice, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	notice, err := s.notices.FindByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notice not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch notice")
	}

	notice.Title = strings.TrimSpace(draft.Title)
	notice.Description = strings.TrimSpace(draft.Description)
	notice.EventDate = draft.EventDate
	notice.UpdatedAt = requestcontext.Now(ctx)

	if err := s.notices.Update(ctx, notice); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notice not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update notice")
	}
	return notice, nil
}

// Delete removes a notice. Existing registrations keep their reference; the
// read side tolerates the orphan.
func (s *Service) Delete(ctx context.Context, noticeID id.NoticeID) error {
	if err := s.notices.Delete(ctx, noticeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notice not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to delete notice")
	}
	return nil
}

func (s *Service) populate(ctx context.Context, notices []*models.Notice) ([]*Populated, error) {
	ids := make([]id.UserID, 0, len(notices))
	seen := make(map[id.UserID]struct{}, len(notices))
	for _, n := range notices {
		if _, ok := seen[n.CreatedBy]; !ok {
			seen[n.CreatedBy] = struct{}{}
			ids = append(ids, n.CreatedBy)
		}
	}

	users, err := s.users.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*Populated, len(notices))
	for i, n := range notices {
		p := &Populated{Notice: n}
		if u, ok := users[n.CreatedBy]; ok {
			p.Creator = &Creator{ID: u.ID, Name: u.Name, Email: u.Email}
		} else {
			s.logger.WarnContext(ctx, "notice references unknown creator",
				"notice_id", n.ID,
				"user_id", n.CreatedBy,
			)
		}
		out[i] = p
	}
	return out, nil
}

func validateDraft(draft Draft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}
	if strings.TrimSpace(draft.Description) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "description is required")
	}
	if draft.EventDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "event date is required")
	}
	return nil
}
