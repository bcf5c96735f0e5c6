// Package service implements the registration ledger operations: register
// with duplicate enforcement, the populated read sides, and the point lookup.
//
// Existence of the referenced user and notice is checked here before the
// insert; uniqueness of the (user, notice) pair is the store's job so the
// check-then-insert stays atomic under concurrency.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	identitymodels "campusconnect/internal/identity/models"
	noticemodels "campusconnect/internal/notice/models"
	"campusconnect/internal/registration/metrics"
	"campusconnect/internal/registration/models"
	"campusconnect/internal/registration/store"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
	"campusconnect/pkg/platform/sentinel"
	"campusconnect/pkg/requestcontext"
)

// UserDirectory is the slice of the identity store the ledger needs.
type UserDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (*identitymodels.User, error)
	FindByIDs(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*identitymodels.User, error)
}

// NoticeDirectory is the slice of the notice store the ledger needs.
type NoticeDirectory interface {
	FindByID(ctx context.Context, noticeID id.NoticeID) (*noticemodels.Notice, error)
	FindByIDs(ctx context.Context, noticeIDs []id.NoticeID) (map[id.NoticeID]*noticemodels.Notice, error)
}

// EventPublisher receives a notification after each successful ledger write.
// Implementations must not block the request path.
type EventPublisher interface {
	PublishRegistrationCreated(ctx context.Context, reg *models.Registration)
}

// Service orchestrates the registration ledger.
type Service struct {
	ledger  store.Store
	users   UserDirectory
	notices NoticeDirectory
	events  EventPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches the registration metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithEventPublisher attaches the registration event stream.
func WithEventPublisher(events EventPublisher) Option {
	return func(s *Service) { s.events = events }
}

// New builds a registration Service.
func New(ledger store.Store, users UserDirectory, notices NoticeDirectory, opts ...Option) *Service {
	s := &Service{
		ledger:  ledger,
		users:   users,
		notices: notices,
		logger:  slog.Default(),
		tracer:  otel.Tracer("campusconnect/registration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends one ledger record for (user, notice). Exactly one of any
// set of concurrent calls for the same pair succeeds; the rest fail with a
// conflict and leave the ledger untouched.
func (s *Service) Register(ctx context.Context, userID id.UserID, noticeID id.NoticeID) (*models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Register",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("notice.id", noticeID.String()),
		))
	defer span.End()

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up user")
	}
	if _, err := s.notices.FindByID(ctx, noticeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notice not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up notice")
	}

	reg := &models.Registration{
		ID:        id.NewRegistrationID(),
		UserID:    userID,
		NoticeID:  noticeID,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.ledger.Create(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementDuplicatesRejected()
			return nil, dErrors.New(dErrors.CodeConflict, "Already registered for this event")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create registration")
	}

	s.metrics.IncrementRegistrationsCreated()
	if s.events != nil {
		s.events.PublishRegistrationCreated(ctx, reg)
	}
	s.logger.InfoContext(ctx, "registration created",
		"registration_id", reg.ID,
		"user_id", userID,
		"notice_id", noticeID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return reg, nil
}

// FindByPair returns the registration for (user, notice) if one exists.
// Callers use it for idempotency hints in the UI.
func (s *Service) FindByPair(ctx context.Context, userID id.UserID, noticeID id.NoticeID) (*models.Registration, error) {
	reg, err := s.ledger.FindByPair(ctx, userID, noticeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up registration")
	}
	return reg, nil
}

// WithNotice is a registration joined with its notice on the read side.
// Notice is nil when the referenced notice was deleted; callers tolerate the
// orphan.
type WithNotice struct {
	Registration *models.Registration
	Notice       *noticemodels.Notice
}

// ListMine returns the caller's registrations newest first, each populated
// with its notice.
func (s *Service) ListMine(ctx context.Context, userID id.UserID) ([]*WithNotice, error) {
	ctx, span := s.tracer.Start(ctx, "registration.ListMine")
	defer span.End()

	regs, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list registrations")
	}

	noticeIDs := make([]id.NoticeID, 0, len(regs))
	seen := make(map[id.NoticeID]struct{}, len(regs))
	for _, reg := range regs {
		if _, ok := seen[reg.NoticeID]; !ok {
			seen[reg.NoticeID] = struct{}{}
			noticeIDs = append(noticeIDs, reg.NoticeID)
		}
	}
	notices, err := s.notices.FindByIDs(ctx, noticeIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve notices")
	}

	out := make([]*WithNotice, len(regs))
	for i, reg := range regs {
		entry := &WithNotice{Registration: reg}
		if n, ok := notices[reg.NoticeID]; ok {
			entry.Notice = n
		} else {
			s.logger.WarnContext(ctx, "registration references missing notice",
				"registration_id", reg.ID,
				"notice_id", reg.NoticeID,
			)
		}
		out[i] = entry
	}
	return out, nil
}

// Registrant is the {name, email} projection of a registered user.
type Registrant struct {
	ID    id.UserID
	Name  string
	Email string
}

// WithRegistrant is a registration joined with its user on the read side.
// Registrant is nil when the referenced user no longer resolves.
type WithRegistrant struct {
	Registration *models.Registration
	Registrant   *Registrant
}

// ListForNotice returns a notice's registrations, each populated with the
// registrant's name and email. Order is unspecified.
func (s *Service) ListForNotice(ctx context.Context, noticeID id.NoticeID) ([]*WithRegistrant, error) {
	ctx, span := s.tracer.Start(ctx, "registration.ListForNotice")
	defer span.End()

	regs, err := s.ledger.ListByNotice(ctx, noticeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list registrations")
	}

	userIDs := make([]id.UserID, 0, len(regs))
	seen := make(map[id.UserID]struct{}, len(regs))
	for _, reg := range regs {
		if _, ok := seen[reg.UserID]; !ok {
			seen[reg.UserID] = struct{}{}
			userIDs = append(userIDs, reg.UserID)
		}
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve users")
	}

	out := make([]*WithRegistrant, len(regs))
	for i, reg := range regs {
		entry := &WithRegistrant{Registration: reg}
		if u, ok := users[reg.UserID]; ok {
			entry.Registrant = &Registrant{ID: u.ID, Name: u.Name, Email: u.Email}
		} else {
			s.logger.WarnContext(ctx, "registration references missing user",
				"registration_id", reg.ID,
				"user_id", reg.UserID,
			)
		}
		out[i] = entry
	}
	return out, nil
}
