package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

var _ repository.FavoriteRepository = (*FavoriteDB)(nil)

// FavoriteDB reads and writes the favorites table.
type FavoriteDB struct {
	conn *sql.DB
}

// Add saves an affirmation as a favorite. Saving the same pair twice is a
// conflict; an unknown affirmation is reported as not found.
func (f *FavoriteDB) Add(ctx context.Context, fav *model.Favorite) error {
	fav.ID = xid.New().String()
	fav.CreatedAt = time.Now().UTC()

	_, err := f.conn.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, affirmation_id, created_at) VALUES (?, ?, ?, ?)`,
		fav.ID, fav.UserID, fav.AffirmationID, fav.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.ConflictMessage("Affirmation is already a favorite")
		case isForeignKeyViolation(err):
			return apperror.NotFound("affirmation", fav.AffirmationID)
		}
		return fmt.Errorf("sqlite: adding favorite: %w", err)
	}
	return nil
}

// Remove deletes the pair if present. Removing a missing favorite is not an error.
func (f *FavoriteDB) Remove(ctx context.Context, userID, affirmationID string) error {
	_, err := f.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND affirmation_id = ?`,
		userID, affirmationID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing favorite: %w", err)
	}
	return nil
}

func (f *FavoriteDB) Exists(ctx context.Context, userID, affirmationID string) (bool, error) {
	var exists bool
	err := f.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = ? AND affirmation_id = ?)`,
		userID, affirmationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking favorite: %w", err)
	}
	return exists, nil
}

// ListByUser returns the user's favorites joined with their affirmations,
// most recently saved first.
func (f *FavoriteDB) ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithAffirmation, error) {
	rows, err := f.conn.QueryContext(ctx,
		`SELECT f.id, f.user_id, f.affirmation_id, f.created_at,
		        a.id, a.text, a.category, a.audio_path
		 FROM favorites f
		 INNER JOIN affirmations a ON a.id = f.affirmation_id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	favorites := []model.FavoriteWithAffirmation{}
	for rows.Next() {
		var row model.FavoriteWithAffirmation
		if err := rows.Scan(
			&row.Favorite.ID,
			&row.Favorite.UserID,
			&row.Favorite.AffirmationID,
			&row.Favorite.CreatedAt,
			&row.Affirmation.ID,
			&row.Affirmation.Text,
			&row.Affirmation.Category,
			&row.Affirmation.AudioPath,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		favorites = append(favorites, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating favorites: %w", err)
	}
	return favorites, nil
}
