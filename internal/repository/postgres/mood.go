package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

var _ repository.MoodRepository = (*MoodDB)(nil)

type MoodDB struct {
	pool *pgxpool.Pool
}

func (m *MoodDB) Create(ctx context.Context, mood *model.Mood) error {
	if mood.Date.IsZero() {
		mood.Date = time.Now()
	}
	mood.Date = mood.Date.UTC()
	mood.ID = xid.New().String()

	_, err := m.pool.Exec(ctx,
		`INSERT INTO moods (id, user_id, mood, date, day) VALUES ($1, $2, $3, $4, $5)`,
		mood.ID, mood.UserID, mood.Mood, mood.Date, mood.Day,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.ConflictMessage("You have already recorded your mood today")
		case isForeignKeyViolation(err):
			return apperror.NotFound("user", mood.UserID)
		}
		return fmt.Errorf("postgres: creating mood for user %s: %w", mood.UserID, err)
	}
	return nil
}

func (m *MoodDB) ListByUser(ctx context.Context, userID string) ([]model.Mood, error) {
	rows, err := m.pool.Query(ctx,
		`SELECT id, user_id, mood, date, day FROM moods
		 WHERE user_id = $1
		 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing moods for user %s: %w", userID, err)
	}

	moods, err := pgx.CollectRows(rows, scanMood)
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning moods: %w", err)
	}
	if moods == nil {
		moods = []model.Mood{}
	}
	return moods, nil
}

func (m *MoodDB) GetByDay(ctx context.Context, userID, day string) (*model.Mood, error) {
	rows, err := m.pool.Query(ctx,
		`SELECT id, user_id, mood, date, day FROM moods
		 WHERE user_id = $1 AND day = $2
		 ORDER BY date DESC
		 LIMIT 1`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("postgres: getting mood for user %s on %s: %w", userID, day, err)
	}

	mood, err := pgx.CollectExactlyOneRow(rows, scanMood)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFoundMessage("No mood recorded for that day")
		}
		return nil, fmt.Errorf("postgres: scanning mood: %w", err)
	}
	return &mood, nil
}

func scanMood(row pgx.CollectableRow) (model.Mood, error) {
	var mood model.Mood
	err := row.Scan(&mood.ID, &mood.UserID, &mood.Mood, &mood.Date, &mood.Day)
	return mood, err
}
