package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB reads and writes the users table.
type UserDB struct {
	conn *sql.DB
}

const userColumns = `id, username, password_hash, first_name, preferences, current_streak, created_at, updated_at`

// Create inserts a new user, filling in ID and timestamps.
// A taken username is reported as apperror.ErrConflict.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("sqlite: encoding preferences: %w", err)
	}

	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = u.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		string(prefs),
		user.CurrentStreak,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ConflictMessage("Username already exists")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by their unique username.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by username %q: %w", username, err)
	}
	return user, nil
}

// UpdateStreak sets the user's streak to the given value.
func (u *UserDB) UpdateStreak(ctx context.Context, id string, streak int) (*model.User, error) {
	result, err := u.conn.ExecContext(ctx,
		`UPDATE users SET current_streak = ?, updated_at = ? WHERE id = ?`,
		streak, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating streak for user %s: %w", id, err)
	}
	if err := requireRow(result, "user", id); err != nil {
		return nil, err
	}
	return u.GetByID(ctx, id)
}

// UpdatePreferences replaces the user's whole preferences document.
func (u *UserDB) UpdatePreferences(ctx context.Context, id string, prefs model.Preferences) (*model.User, error) {
	encoded, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding preferences: %w", err)
	}

	result, err := u.conn.ExecContext(ctx,
		`UPDATE users SET preferences = ?, updated_at = ? WHERE id = ?`,
		string(encoded), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating preferences for user %s: %w", id, err)
	}
	if err := requireRow(result, "user", id); err != nil {
		return nil, err
	}
	return u.GetByID(ctx, id)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		user  model.User
		prefs string
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
	if err := json.Unmarshal([]byte(prefs), &user.Preferences); err != nil {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	if user.Preferences.Categories == nil {
		user.Preferences.Categories = []string{}
	}
	return &user, nil
}

// requireRow turns "0 rows affected" into a NotFound error.
func requireRow(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
