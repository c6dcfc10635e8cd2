package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/media"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// FavoriteService manages the affirmations a user has saved.
type FavoriteService struct {
	favorites    repository.FavoriteRepository
	affirmations repository.AffirmationRepository
	media        mediaLinker
	logger       *slog.Logger
}

func NewFavoriteService(
	favorites repository.FavoriteRepository,
	affirmations repository.AffirmationRepository,
	resolver media.Resolver,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites:    favorites,
		affirmations: affirmations,
		media:        newMediaLinker(resolver, logger),
		logger:       logger,
	}
}

// Add saves affirmationID for userID. The affirmation must exist; saving it
// twice is a conflict.
func (s *FavoriteService) Add(ctx context.Context, userID, affirmationID string) (*model.FavoriteWithAffirmation, error) {
	affirmationID = strings.TrimSpace(affirmationID)
	if affirmationID == "" {
		return nil, apperror.ValidationFailed("affirmationId", "affirmationId is required")
	}

	aff, err := s.affirmations.GetByID(ctx, affirmationID)
	if err != nil {
		return nil, err
	}

	fav := &model.Favorite{UserID: userID, AffirmationID: aff.ID}
	if err := s.favorites.Add(ctx, fav); err != nil {
		return nil, err
	}

	s.logger.Debug("favorite added",
		slog.String("userID", userID),
		slog.String("affirmationID", aff.ID),
	)
	s.media.affirmation(ctx, aff)
	return &model.FavoriteWithAffirmation{Favorite: *fav, Affirmation: *aff}, nil
}

// Remove deletes the favorite if it exists. Removing an absent favorite
// succeeds.
func (s *FavoriteService) Remove(ctx context.Context, userID, affirmationID string) error {
	affirmationID = strings.TrimSpace(affirmationID)
	if affirmationID == "" {
		return apperror.ValidationFailed("affirmationId", "affirmationId is required")
	}
	return s.favorites.Remove(ctx, userID, affirmationID)
}

// List returns userID's favorites, most recently saved first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.FavoriteWithAffirmation, error) {
	list, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.media.affirmation(ctx, &list[i].Affirmation)
	}
	return list, nil
}
