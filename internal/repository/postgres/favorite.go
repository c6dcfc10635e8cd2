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

var _ repository.FavoriteRepository = (*FavoriteDB)(nil)

type FavoriteDB struct {
	pool *pgxpool.Pool
}

func (f *FavoriteDB) Add(ctx context.Context, fav *model.Favorite) error {
	fav.ID = xid.New().String()
	fav.CreatedAt = time.Now().UTC()

	_, err := f.pool.Exec(ctx,
		`INSERT INTO favorites (id, user_id, affirmation_id, created_at) VALUES ($1, $2, $3, $4)`,
		fav.ID, fav.UserID, fav.AffirmationID, fav.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.ConflictMessage("Affirmation is already a favorite")
		case isForeignKeyViolation(err):
			return apperror.NotFound("affirmation", fav.AffirmationID)
		}
		return fmt.Errorf("postgres: adding favorite: %w", err)
	}
	return nil
}

func (f *FavoriteDB) Remove(ctx context.Context, userID, affirmationID string) error {
	_, err := f.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND affirmation_id = $2`,
		userID, affirmationID,
	)
	if err != nil {
		return fmt.Errorf("postgres: removing favorite: %w", err)
	}
	return nil
}

func (f *FavoriteDB) Exists(ctx context.Context, userID, affirmationID string) (bool, error) {
	var exists bool
	err := f.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND affirmation_id = $2)`,
		userID, affirmationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: checking favorite: %w", err)
	}
	return exists, nil
}

func (f *FavoriteDB) ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithAffirmation, error) {
	rows, err := f.pool.Query(ctx,
		`SELECT f.id, f.user_id, f.affirmation_id, f.created_at,
		        a.id, a.text, a.category, a.audio_path
		 FROM favorites f
		 INNER JOIN affirmations a ON a.id = f.affirmation_id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing favorites for user %s: %w", userID, err)
	}

	favorites, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.FavoriteWithAffirmation, error) {
		var r model.FavoriteWithAffirmation
		err := row.Scan(
			&r.Favorite.ID,
			&r.Favorite.UserID,
			&r.Favorite.AffirmationID,
			&r.Favorite.CreatedAt,
			&r.Affirmation.ID,
			&r.Affirmation.Text,
			&r.Affirmation.Category,
			&r.Affirmation.AudioPath,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning favorites: %w", err)
	}
	if favorites == nil {
		favorites = []model.FavoriteWithAffirmation{}
	}
	return favorites, nil
}
