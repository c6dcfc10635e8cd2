package service

import (
	"context"
	"log/slog"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// UserService reads and updates the signed-in user's own record.
type UserService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewUserService(users repository.UserRepository, categories repository.CategoryRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, categories: categories, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePreferences merges patch over the stored preferences, validates the
// result and saves it.
func (s *UserService) UpdatePreferences(ctx context.Context, id string, patch model.PreferencesPatch) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prefs, err := normalizePreferences(ctx, s.categories, user.Preferences.Apply(patch))
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdatePreferences(ctx, id, prefs)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("preferences updated", slog.String("userID", id))
	return updated, nil
}

// UpdateStreak stores streak, which must not be negative.
func (s *UserService) UpdateStreak(ctx context.Context, id string, streak int) (*model.User, error) {
	if streak < 0 {
		return nil, apperror.ValidationFailed("streak", "Streak must be a non-negative number")
	}

	updated, err := s.users.UpdateStreak(ctx, id, streak)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("streak updated", slog.String("userID", id), slog.Int("streak", streak))
	return updated, nil
}
