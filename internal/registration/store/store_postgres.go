package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"campusconnect/internal/registration/models"
	id "campusconnect/pkg/domain"
	"campusconnect/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Postgres persists the ledger in PostgreSQL. Duplicate prevention rides on
// the registrations_user_notice_key unique index: the insert races to the
// constraint and the loser's violation is translated to ErrConflict, so two
// concurrent attempts for the same pair yield exactly one row.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const registrationColumns = `id, user_id, notice_id, created_at`

func (s *Postgres) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(reg.ID), uuid.UUID(reg.UserID), uuid.UUID(reg.NoticeID), reg.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *Postgres) FindByPair(ctx context.Context, userID id.UserID, noticeID id.NoticeID) (*models.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations WHERE user_id = $1 AND notice_id = $2
	`
	reg, err := scanRegistration(s.db.QueryRowContext(ctx, query, uuid.UUID(userID), uuid.UUID(noticeID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC
	`
	return s.queryAll(ctx, query, uuid.UUID(userID))
}

func (s *Postgres) ListByNotice(ctx context.Context, noticeID id.NoticeID) ([]*models.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE notice_id = $1
	`
	return s.queryAll(ctx, query, uuid.UUID(noticeID))
}

// CountByUser is the SQL form of the leaderboard aggregation pipeline:
// group by user, count, order by count descending with user id as the
// deterministic tie-break, truncate to limit.
func (s *Postgres) CountByUser(ctx context.Context, limit int) ([]models.UserCount, error) {
	query := `
		SELECT user_id, COUNT(*) AS registrations
		FROM registrations
		GROUP BY user_id
		ORDER BY registrations DESC, user_id ASC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate registrations: %w", err)
	}
	defer rows.Close()

	var out []models.UserCount
	for rows.Next() {
		var (
			rawID uuid.UUID
			count int
		)
		if err := rows.Scan(&rawID, &count); err != nil {
			return nil, fmt.Errorf("scan registration count: %w", err)
		}
		out = append(out, models.UserCount{UserID: id.UserID(rawID), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registration counts: %w", err)
	}
	return out, nil
}

func (s *Postgres) queryAll(ctx context.Context, query string, args ...any) ([]*models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select registrations: %w", err)
	}
	defer rows.Close()

	var out []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*models.Registration, error) {
	var (
		reg      models.Registration
		rawID    uuid.UUID
		userID   uuid.UUID
		noticeID uuid.UUID
	)
	if err := row.Scan(&rawID, &userID, &noticeID, &reg.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	reg.ID = id.RegistrationID(rawID)
	reg.UserID = id.UserID(userID)
	reg.NoticeID = id.NoticeID(noticeID)
	return &reg, nil
}
