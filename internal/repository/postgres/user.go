package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

var _ repository.UserRepository = (*UserDB)(nil)

type UserDB struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, password_hash, first_name, preferences, current_streak, created_at, updated_at`

func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("postgres: encoding preferences: %w", err)
	}

	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = u.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.PasswordHash, user.FirstName,
		prefs, user.CurrentStreak, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ConflictMessage("Username already exists")
		}
		return fmt.Errorf("postgres: inserting user %q: %w", user.Username, err)
	}
	return nil
}

func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(u.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("postgres: getting user %s: %w", id, err)
	}
	return user, nil
}

func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(u.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("postgres: getting user by username %q: %w", username, err)
	}
	return user, nil
}

func (u *UserDB) UpdateStreak(ctx context.Context, id string, streak int) (*model.User, error) {
	user, err := scanUser(u.pool.QueryRow(ctx,
		`UPDATE users SET current_streak = $1, updated_at = $2
		 WHERE id = $3
		 RETURNING `+userColumns,
		streak, time.Now().UTC(), id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("postgres: updating streak for user %s: %w", id, err)
	}
	return user, nil
}

func (u *UserDB) UpdatePreferences(ctx context.Context, id string, prefs model.Preferences) (*model.User, error) {
	encoded, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("postgres: encoding preferences: %w", err)
	}

	user, err := scanUser(u.pool.QueryRow(ctx,
		`UPDATE users SET preferences = $1, updated_at = $2
		 WHERE id = $3
		 RETURNING `+userColumns,
		encoded, time.Now().UTC(), id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("postgres: updating preferences for user %s: %w", id, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user  model.User
		prefs []byte
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&prefs,
		&user.CurrentStreak,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.Preferences = model.DefaultPreferences()
	if err := json.Unmarshal(prefs, &user.Preferences); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	if user.Preferences.Categories == nil {
		user.Preferences.Categories = []string{}
	}
	return &user, nil
}
