// Package repository declares the storage interfaces the service layer depends
// on. Implementations live in the sqlite and postgres subpackages.
//
// Lookups that find nothing return an error wrapping apperror.ErrNotFound;
// uniqueness violations wrap apperror.ErrConflict.
package repository

import (
	"context"
	"time"

	"github.com/sakif/affirmations/internal/model"
)

// DefaultAffirmationText is what Daily creates when the store has no
// affirmations at all.
const (
	DefaultAffirmationText     = "Today is a wonderful day full of possibilities!"
	DefaultAffirmationCategory = "General"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateStreak(ctx context.Context, id string, streak int) (*model.User, error)
	UpdatePreferences(ctx context.Context, id string, prefs model.Preferences) (*model.User, error)
}

type AffirmationRepository interface {
	Create(ctx context.Context, a *model.Affirmation) error
	GetByID(ctx context.Context, id string) (*model.Affirmation, error)
	List(ctx context.Context) ([]model.Affirmation, error)
	ListByCategory(ctx context.Context, category string) ([]model.Affirmation, error)
	// Daily picks a uniformly random affirmation, creating the default one
	// first if none exist.
	Daily(ctx context.Context) (*model.Affirmation, error)
	Count(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	// RefreshCounts recomputes every category's count from the affirmations table.
	RefreshCounts(ctx context.Context) error
}

type MoodRepository interface {
	// Create fails with ErrConflict when the user already has a mood for mood.Day.
	Create(ctx context.Context, mood *model.Mood) error
	ListByUser(ctx context.Context, userID string) ([]model.Mood, error)
	GetByDay(ctx context.Context, userID, day string) (*model.Mood, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, fav *model.Favorite) error
	// Remove succeeds whether or not the pair existed.
	Remove(ctx context.Context, userID, affirmationID string) error
	Exists(ctx context.Context, userID, affirmationID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.FavoriteWithAffirmation, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Store is a complete storage backend.
type Store interface {
	Users() UserRepository
	Affirmations() AffirmationRepository
	Categories() CategoryRepository
	Moods() MoodRepository
	Favorites() FavoriteRepository
	Sessions() SessionRepository
	Ping(ctx context.Context) error
	Close() error
}
