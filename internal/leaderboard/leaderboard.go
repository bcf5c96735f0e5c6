// Package leaderboard derives the ranked registrants view from the ledger's
// grouped counts joined with the identity store.
//
// The pipeline is: group registrations by user -> count -> sort count
// descending (user ID ascending breaks ties so output is reproducible) ->
// truncate to limit -> resolve names and emails -> project. Users with zero
// registrations never appear because the aggregation starts from the ledger.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	identitymodels "campusconnect/internal/identity/models"
	"campusconnect/internal/platform/redis"
	"campusconnect/internal/registration/metrics"
	"campusconnect/internal/registration/models"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
)

// DefaultLimit is the leaderboard size served by the HTTP surface.
const DefaultLimit = 10

// maxLimit caps caller-supplied limits.
const maxLimit = 100

// Entry is one leaderboard row. Derived on demand, never persisted.
type Entry struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Count  int    `json:"count"`
}

// Counter is the slice of the ledger the aggregator needs.
type Counter interface {
	CountByUser(ctx context.Context, limit int) ([]models.UserCount, error)
}

// UserResolver batch-resolves the grouped user IDs.
type UserResolver interface {
	FindByIDs(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*identitymodels.User, error)
}

// Service computes the leaderboard.
type Service struct {
	ledger   Counter
	users    UserResolver
	cache    *redis.Client
	cacheTTL time.Duration
	group    singleflight.Group
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
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

// WithCache attaches a read-through redis cache. A nil client disables
// caching.
func WithCache(cache *redis.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// New builds a leaderboard Service.
func New(ledger Counter, users UserResolver, opts ...Option) *Service {
	s := &Service{
		ledger:   ledger,
		users:    users,
		cacheTTL: 30 * time.Second,
		logger:   slog.Default(),
		tracer:   otel.Tracer("campusconnect/leaderboard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Top returns at most limit entries ordered by registration count
// descending. Concurrent calls for the same limit collapse into a single
// computation, and results are served from the cache inside its TTL.
//
// Registrations whose user no longer resolves are skipped with a logged
// warning rather than failing the whole board.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "limit must be positive")
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	ctx, span := s.tracer.Start(ctx, "leaderboard.Top")
	defer span.End()

	if entries, ok := s.fromCache(ctx, limit); ok {
		return entries, nil
	}

	v, err, _ := s.group.Do(fmt.Sprintf("top:%d", limit), func() (any, error) {
		return s.compute(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	entries := v.([]Entry)

	s.toCache(ctx, limit, entries)
	return entries, nil
}

func (s *Service) compute(ctx context.Context, limit int) ([]Entry, error) {
	start := time.Now()
	defer s.metrics.ObserveLeaderboard(start)

	counts, err := s.ledger.CountByUser(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to aggregate registrations")
	}

	userIDs := make([]id.UserID, len(counts))
	for i, c := range counts {
		userIDs[i] = c.UserID
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve users")
	}

	entries := make([]Entry, 0, len(counts))
	for _, c := range counts {
		u, ok := users[c.UserID]
		if !ok {
			// Orphaned reference: the user behind these registrations is
			// gone. Skip the row and keep the board available.
			s.logger.WarnContext(ctx, "leaderboard skipping unresolvable user",
				"user_id", c.UserID,
				"count", c.Count,
			)
			continue
		}
		entries = append(entries, Entry{
			UserID: u.ID.String(),
			Name:   u.Name,
			Email:  u.Email,
			Count:  c.Count,
		})
	}
	return entries, nil
}

func (s *Service) cacheKey(limit int) string {
	return fmt.Sprintf("leaderboard:top:%d", limit)
}

func (s *Service) fromCache(ctx context.Context, limit int) ([]Entry, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(limit)).Bytes()
	if err != nil {
		// Cache miss or unreachable cache; either way compute from the
		// ledger.
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.WarnContext(ctx, "leaderboard cache entry corrupt", "error", err)
		return nil, false
	}
	return entries, true
}

func (s *Service) toCache(ctx context.Context, limit int, entries []Entry) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(limit), raw, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "leaderboard cache write failed", "error", err)
	}
}
