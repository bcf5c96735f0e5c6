package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"campusconnect/internal/notice/models"
	id "campusconnect/pkg/domain"
	"campusconnect/pkg/platform/sentinel"
)

// Postgres persists notices in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed notice store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const noticeColumns = `id, title, description, event_date, created_by, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, notice *models.Notice) error {
	query := `
		INSERT INTO notices (` + noticeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(notice.ID), notice.Title, notice.Description, notice.EventDate,
		uuid.UUID(notice.CreatedBy), notice.CreatedAt, notice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notice: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, noticeID id.NoticeID) (*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1`
	n, err := scanNotice(s.db.QueryRowContext(ctx, query, uuid.UUID(noticeID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *Postgres) FindByIDs(ctx context.Context, noticeIDs []id.NoticeID) (map[id.NoticeID]*models.Notice, error) {
	if len(noticeIDs) == 0 {
		return map[id.NoticeID]*models.Notice{}, nil
	}

	raw := make([]uuid.UUID, len(noticeIDs))
	for i, noticeID := range noticeIDs {
		raw[i] = uuid.UUID(noticeID)
	}

	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = ANY($1)`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("select notices by ids: %w", err)
	}
	defer rows.Close()

	out := make(map[id.NoticeID]*models.Notice, len(noticeIDs))
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notices: %w", err)
	}
	return out, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select notices: %w", err)
	}
	defer rows.Close()

	var out []*models.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notices: %w", err)
	}
	return out, nil
}

func (s *Postgres) Update(ctx context.Context, notice *models.Notice) error {
	query := `
		UPDATE notices
		SET title = $2, description = $3, event_date = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(notice.ID), notice.Title, notice.Description, notice.EventDate, notice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update notice rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, noticeID id.NoticeID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, uuid.UUID(noticeID))
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notice rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotice(row rowScanner) (*models.Notice, error) {
	var (
		n         models.Notice
		rawID     uuid.UUID
		createdBy uuid.UUID
	)
	err := row.Scan(&rawID, &n.Title, &n.Description, &n.EventDate, &createdBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan notice: %w", err)
	}
	n.ID = id.NoticeID(rawID)
	n.CreatedBy = id.UserID(createdBy)
	return &n, nil
}
