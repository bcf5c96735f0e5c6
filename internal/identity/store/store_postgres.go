package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"campusconnect/internal/identity/models"
	id "campusconnect/pkg/domain"
	"campusconnect/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// Postgres persists users in PostgreSQL. The users table carries a unique
// index on lower(email).
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID), user.Name, user.Email, user.Role, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `
		SELECT id, name, email, role, password_hash, created_at
		FROM users WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, role, password_hash, created_at
		FROM users WHERE lower(email) = lower($1)
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

func (s *Postgres) FindByIDs(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.User, error) {
	if len(userIDs) == 0 {
		return map[id.UserID]*models.User{}, nil
	}

	raw := make([]uuid.UUID, len(userIDs))
	for i, userID := range userIDs {
		raw[i] = uuid.UUID(userID)
	}

	query := `
		SELECT id, name, email, role, password_hash, created_at
		FROM users WHERE id = ANY($1)
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("select users by ids: %w", err)
	}
	defer rows.Close()

	out := make(map[id.UserID]*models.User, len(userIDs))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row *sql.Row) (*models.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u     models.User
		rawID uuid.UUID
	)
	if err := row.Scan(&rawID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(rawID)
	return &u, nil
}
