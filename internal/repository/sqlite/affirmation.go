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

var _ repository.AffirmationRepository = (*AffirmationDB)(nil)

// AffirmationDB reads and writes the affirmations table.
type AffirmationDB struct {
	conn *sql.DB
}

const affirmationColumns = `id, text, category, audio_path`

func (a *AffirmationDB) Create(ctx context.Context, aff *model.Affirmation) error {
	aff.ID = xid.New().String()

	_, err := a.conn.ExecContext(ctx,
		`INSERT INTO affirmations (id, text, category, audio_path, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		aff.ID, aff.Text, aff.Category, aff.AudioPath, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating affirmation: %w", err)
	}
	return nil
}

func (a *AffirmationDB) GetByID(ctx context.Context, id string) (*model.Affirmation, error) {
	var aff model.Affirmation
	err := a.conn.QueryRowContext(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations WHERE id = ?`, id,
	).Scan(&aff.ID, &aff.Text, &aff.Category, &aff.AudioPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("affirmation", id)
		}
		return nil, fmt.Errorf("sqlite: getting affirmation %s: %w", id, err)
	}
	return &aff, nil
}

// List returns every affirmation in insertion order.
func (a *AffirmationDB) List(ctx context.Context) ([]model.Affirmation, error) {
	return a.query(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations ORDER BY created_at, id`)
}

// ListByCategory returns the affirmations whose category name matches exactly.
func (a *AffirmationDB) ListByCategory(ctx context.Context, category string) ([]model.Affirmation, error) {
	return a.query(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations WHERE category = ? ORDER BY created_at, id`,
		category)
}

// Daily returns a random affirmation. On an empty table it inserts the
// default affirmation first; the NOT EXISTS guard keeps concurrent callers
// from inserting it twice.
func (a *AffirmationDB) Daily(ctx context.Context) (*model.Affirmation, error) {
	aff, err := a.random(ctx)
	if err == nil {
		return aff, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: picking daily affirmation: %w", err)
	}

	_, err = a.conn.ExecContext(ctx,
		`INSERT INTO affirmations (id, text, category, audio_path, created_at)
		 SELECT ?, ?, ?, NULL, ?
		 WHERE NOT EXISTS (SELECT 1 FROM affirmations)`,
		xid.New().String(),
		repository.DefaultAffirmationText,
		repository.DefaultAffirmationCategory,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: creating default affirmation: %w", err)
	}

	aff, err = a.random(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: picking daily affirmation: %w", err)
	}
	return aff, nil
}

func (a *AffirmationDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM affirmations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting affirmations: %w", err)
	}
	return n, nil
}

func (a *AffirmationDB) random(ctx context.Context) (*model.Affirmation, error) {
	var aff model.Affirmation
	err := a.conn.QueryRowContext(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations ORDER BY RANDOM() LIMIT 1`,
	).Scan(&aff.ID, &aff.Text, &aff.Category, &aff.AudioPath)
	if err != nil {
		return nil, err
	}
	return &aff, nil
}

func (a *AffirmationDB) query(ctx context.Context, query string, args ...any) ([]model.Affirmation, error) {
	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing affirmations: %w", err)
	}
	defer rows.Close()

	affirmations := []model.Affirmation{}
	for rows.Next() {
		var aff model.Affirmation
		if err := rows.Scan(&aff.ID, &aff.Text, &aff.Category, &aff.AudioPath); err != nil {
			return nil, fmt.Errorf("sqlite: scanning affirmation row: %w", err)
		}
		affirmations = append(affirmations, aff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating affirmations: %w", err)
	}
	return affirmations, nil
}
