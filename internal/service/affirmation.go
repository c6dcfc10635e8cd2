package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/media"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// AffirmationService serves the affirmation catalogue and the daily pick.
type AffirmationService struct {
	affirmations repository.AffirmationRepository
	categories   repository.CategoryRepository
	favorites    repository.FavoriteRepository
	media        mediaLinker
	logger       *slog.Logger
}

func NewAffirmationService(
	affirmations repository.AffirmationRepository,
	categories repository.CategoryRepository,
	favorites repository.FavoriteRepository,
	resolver media.Resolver,
	logger *slog.Logger,
) *AffirmationService {
	return &AffirmationService{
		affirmations: affirmations,
		categories:   categories,
		favorites:    favorites,
		media:        newMediaLinker(resolver, logger),
		logger:       logger,
	}
}

// Daily returns a random affirmation flagged with whether userID has it
// saved. Anonymous callers (empty userID) always get IsFavorite false. The
// pick is not stable across calls within a day.
func (s *AffirmationService) Daily(ctx context.Context, userID string) (*model.DailyAffirmation, error) {
	aff, err := s.affirmations.Daily(ctx)
	if err != nil {
		return nil, err
	}

	var fav bool
	if userID != "" {
		if fav, err = s.favorites.Exists(ctx, userID, aff.ID); err != nil {
			return nil, err
		}
	}

	s.media.affirmation(ctx, aff)
	return &model.DailyAffirmation{Affirmation: *aff, IsFavorite: fav}, nil
}

func (s *AffirmationService) Get(ctx context.Context, id string) (*model.Affirmation, error) {
	aff, err := s.affirmations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.media.affirmation(ctx, aff)
	return aff, nil
}

func (s *AffirmationService) List(ctx context.Context) ([]model.Affirmation, error) {
	list, err := s.affirmations.List(ctx)
	if err != nil {
		return nil, err
	}
	s.media.affirmations(ctx, list)
	return list, nil
}

// ListByCategory matches the category name exactly. An unknown category
// yields an empty list rather than an error.
func (s *AffirmationService) ListByCategory(ctx context.Context, category string) ([]model.Affirmation, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperror.ValidationFailed("category", "category is required")
	}

	list, err := s.affirmations.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	s.media.affirmations(ctx, list)
	return list, nil
}

func (s *AffirmationService) Categories(ctx context.Context) ([]model.Category, error) {
	list, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	s.media.categories(ctx, list)
	return list, nil
}

// Create adds an affirmation under an existing category.
func (s *AffirmationService) Create(ctx context.Context, text, category string, audioPath *string) (*model.Affirmation, error) {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)

	var errs []apperror.FieldError
	switch {
	case text == "":
		errs = append(errs, apperror.FieldError{Field: "text", Message: "text is required"})
	case utf8.RuneCountInString(text) > MaxAffirmationText:
		errs = append(errs, apperror.FieldError{Field: "text",
			Message: fmt.Sprintf("text must be %d characters or less", MaxAffirmationText)})
	}
	if category == "" {
		errs = append(errs, apperror.FieldError{Field: "category", Message: "category is required"})
	}
	if err := apperror.Invalid(errs); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetByName(ctx, category); err != nil {
		return nil, err
	}

	aff := &model.Affirmation{Text: text, Category: category, AudioPath: audioPath}
	if err := s.affirmations.Create(ctx, aff); err != nil {
		return nil, err
	}
	return aff, nil
}

// CreateCategory adds a category with a zero count.
func (s *AffirmationService) CreateCategory(ctx context.Context, name, description string, imagePath *string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	cat := &model.Category{Name: name, Description: strings.TrimSpace(description), ImagePath: imagePath}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// RefreshCounts recomputes every category's affirmation count.
func (s *AffirmationService) RefreshCounts(ctx context.Context) error {
	return s.categories.RefreshCounts(ctx)
}
