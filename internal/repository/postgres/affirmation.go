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

var _ repository.AffirmationRepository = (*AffirmationDB)(nil)

type AffirmationDB struct {
	pool *pgxpool.Pool
}

const affirmationColumns = `id, text, category, audio_path`

func (a *AffirmationDB) Create(ctx context.Context, aff *model.Affirmation) error {
	aff.ID = xid.New().String()
	_, err := a.pool.Exec(ctx,
		`INSERT INTO affirmations (id, text, category, audio_path, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		aff.ID, aff.Text, aff.Category, aff.AudioPath, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres: creating affirmation: %w", err)
	}
	return nil
}

func (a *AffirmationDB) GetByID(ctx context.Context, id string) (*model.Affirmation, error) {
	var aff model.Affirmation
	err := a.pool.QueryRow(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations WHERE id = $1`, id,
	).Scan(&aff.ID, &aff.Text, &aff.Category, &aff.AudioPath)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("affirmation", id)
		}
		return nil, fmt.Errorf("postgres: getting affirmation %s: %w", id, err)
	}
	return &aff, nil
}

func (a *AffirmationDB) List(ctx context.Context) ([]model.Affirmation, error) {
	return a.query(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations ORDER BY created_at, id`)
}

func (a *AffirmationDB) ListByCategory(ctx context.Context, category string) ([]model.Affirmation, error) {
	return a.query(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations WHERE category = $1 ORDER BY created_at, id`,
		category)
}

// Daily returns a random affirmation, inserting the default one when the
// table is empty.
func (a *AffirmationDB) Daily(ctx context.Context) (*model.Affirmation, error) {
	aff, err := a.random(ctx)
	if err == nil {
		return aff, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("postgres: picking daily affirmation: %w", err)
	}

	_, err = a.pool.Exec(ctx,
		`INSERT INTO affirmations (id, text, category, audio_path, created_at)
		 SELECT $1, $2, $3, NULL, $4
		 WHERE NOT EXISTS (SELECT 1 FROM affirmations)`,
		xid.New().String(),
		repository.DefaultAffirmationText,
		repository.DefaultAffirmationCategory,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating default affirmation: %w", err)
	}

	aff, err = a.random(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: picking daily affirmation: %w", err)
	}
	return aff, nil
}

func (a *AffirmationDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.pool.QueryRow(ctx, `SELECT COUNT(*) FROM affirmations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: counting affirmations: %w", err)
	}
	return n, nil
}

func (a *AffirmationDB) random(ctx context.Context) (*model.Affirmation, error) {
	var aff model.Affirmation
	err := a.pool.QueryRow(ctx,
		`SELECT `+affirmationColumns+` FROM affirmations ORDER BY random() LIMIT 1`,
	).Scan(&aff.ID, &aff.Text, &aff.Category, &aff.AudioPath)
	if err != nil {
		return nil, err
	}
	return &aff, nil
}

func (a *AffirmationDB) query(ctx context.Context, query string, args ...any) ([]model.Affirmation, error) {
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing affirmations: %w", err)
	}

	affirmations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Affirmation, error) {
		var aff model.Affirmation
		err := row.Scan(&aff.ID, &aff.Text, &aff.Category, &aff.AudioPath)
		return aff, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning affirmations: %w", err)
	}
	if affirmations == nil {
		affirmations = []model.Affirmation{}
	}
	return affirmations, nil
}
