// Package service implements the identity collaborator: signup, login, and
// the batch lookups the registration and leaderboard modules use to resolve
// user references.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"campusconnect/internal/identity/models"
	"campusconnect/internal/identity/store"
	"campusconnect/internal/platform/token"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
	"campusconnect/pkg/platform/sentinel"
	"campusconnect/pkg/requestcontext"
)

// Service orchestrates user accounts and session issuance.
type Service struct {
	users  store.Store
	tokens *token.Manager
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New builds an identity Service over the given user store and token manager.
func New(users store.Store, tokens *token.Manager, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session is the result of a successful signup or login.
type Session struct {
	User  *models.User
	Token string
}

// Signup creates a user account with the default role and returns a session.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &models.User{
		ID:           id.NewUserID(),
		Name:         name,
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create user")
	}

	return s.newSession(ctx, user)
}

// Login verifies credentials and returns a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	return s.newSession(ctx, user)
}

// GetUser returns the user with the given ID.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to look up user")
	}
	return user, nil
}

// ResolveMany batch-resolves user IDs for read-side joins. Unresolvable IDs
// are absent from the result.
func (s *Service) ResolveMany(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.User, error) {
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve users")
	}
	return users, nil
}

func (s *Service) newSession(ctx context.Context, user *models.User) (*Session, error) {
	signed, err := s.tokens.Issue(user.ID, user.Role, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}
	return &Session{User: user, Token: signed}, nil
}
