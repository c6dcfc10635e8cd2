package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

var _ repository.MoodRepository = (*MoodDB)(nil)

// MoodDB reads and writes the moods table.
type MoodDB struct {
	conn *sql.DB
}

// Create records a mood. mood.Day must already be set by the caller; a
// zero Date defaults to now. The UNIQUE(user_id, day) constraint rejects a
// second mood for the same day.
func (m *MoodDB) Create(ctx context.Context, mood *model.Mood) error {
	if mood.Date.IsZero() {
		mood.Date = time.Now()
	}
	mood.Date = mood.Date.UTC()
	mood.ID = xid.New().String()

	_, err := m.conn.ExecContext(ctx,
		`INSERT INTO moods (id, user_id, mood, date, day) VALUES (?, ?, ?, ?, ?)`,
		mood.ID, mood.UserID, mood.Mood, mood.Date, mood.Day,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.ConflictMessage("You have already recorded your mood today")
		case isForeignKeyViolation(err):
			return apperror.NotFound("user", mood.UserID)
		}
		return fmt.Errorf("sqlite: creating mood for user %s: %w", mood.UserID, err)
	}
	return nil
}

// ListByUser returns the user's moods, newest first.
func (m *MoodDB) ListByUser(ctx context.Context, userID string) ([]model.Mood, error) {
	rows, err := m.conn.QueryContext(ctx,
		`SELECT id, user_id, mood, date, day FROM moods
		 WHERE user_id = ?
		 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing moods for user %s: %w", userID, err)
	}
	defer rows.Close()

	moods := []model.Mood{}
	for rows.Next() {
		var mood model.Mood
		if err := rows.Scan(&mood.ID, &mood.UserID, &mood.Mood, &mood.Date, &mood.Day); err != nil {
			return nil, fmt.Errorf("sqlite: scanning mood row: %w", err)
		}
		moods = append(moods, mood)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating moods: %w", err)
	}
	return moods, nil
}

// GetByDay returns the user's mood for the given day key.
func (m *MoodDB) GetByDay(ctx context.Context, userID, day string) (*model.Mood, error) {
	var mood model.Mood
	err := m.conn.QueryRowContext(ctx,
		`SELECT id, user_id, mood, date, day FROM moods
		 WHERE user_id = ? AND day = ?
		 ORDER BY date DESC
		 LIMIT 1`, userID, day,
	).Scan(&mood.ID, &mood.UserID, &mood.Mood, &mood.Date, &mood.Day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFoundMessage("No mood recorded for that day")
		}
		return nil, fmt.Errorf("sqlite: getting mood for user %s on %s: %w", userID, day, err)
	}
	return &mood, nil
}
