package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

var _ repository.SessionRepository = (*SessionDB)(nil)

type SessionDB struct {
	pool *pgxpool.Pool
}

func (s *SessionDB) Create(ctx context.Context, session *model.Session) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		session.ID, session.UserID, session.CreatedAt.UTC(), session.ExpiresAt.UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", session.UserID)
		}
		return fmt.Errorf("postgres: creating session: %w", err)
	}
	return nil
}

func (s *SessionDB) Get(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1`, id,
	).Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("postgres: getting session: %w", err)
	}
	return &session, nil
}

func (s *SessionDB) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: deleting session: %w", err)
	}
	return nil
}

func (s *SessionDB) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("postgres: deleting expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
