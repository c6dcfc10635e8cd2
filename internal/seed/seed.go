// Package seed loads the starter catalogue and, optionally, a demo account.
//
// Seeding is additive and safe to repeat. Categories and affirmations are
// matched by name and text, so rows created elsewhere (the fallback
// affirmation from Daily, say) never stop the rest of the catalogue loading.
// The demo account is completed on every run: whatever moods and favorites
// it is missing get added.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/calendar"
	"github.com/sakif/affirmations/internal/media"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
	"github.com/sakif/affirmations/internal/service"
)

type Options struct {
	// Demo also creates the demo user with two moods and two favorites.
	Demo bool
}

// Result counts what a run created.
type Result struct {
	Categories   int
	Affirmations int
	DemoUserID   string
}

type Seeder struct {
	store        repository.Store
	affirmations *service.AffirmationService
	moods        *service.MoodService
	favorites    *service.FavoriteService
	passwords    *auth.PasswordService
	calendar     *calendar.Calendar
	logger       *slog.Logger
}

func New(store repository.Store, cal *calendar.Calendar, passwords *auth.PasswordService, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:        store,
		affirmations: service.NewAffirmationService(store.Affirmations(), store.Categories(), store.Favorites(), media.Noop{}, logger),
		moods:        service.NewMoodService(store.Moods(), cal, logger),
		favorites:    service.NewFavoriteService(store.Favorites(), store.Affirmations(), media.Noop{}, logger),
		passwords:    passwords,
		calendar:     cal,
		logger:       logger,
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	for _, c := range categories {
		_, err := s.store.Categories().GetByName(ctx, c.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("seed: looking up category %q: %w", c.Name, err)
		}
		if _, err := s.affirmations.CreateCategory(ctx, c.Name, c.Description, nil); err != nil {
			return nil, fmt.Errorf("seed: creating category %q: %w", c.Name, err)
		}
		res.Categories++
	}

	existing, err := s.store.Affirmations().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: listing affirmations: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, a := range existing {
		have[a.Text] = true
	}
	for _, a := range affirmations {
		if have[a.Text] {
			continue
		}
		audio := a.AudioPath
		if _, err := s.affirmations.Create(ctx, a.Text, a.Category, &audio); err != nil {
			return nil, fmt.Errorf("seed: creating affirmation: %w", err)
		}
		have[a.Text] = true
		res.Affirmations++
	}

	if err := s.affirmations.RefreshCounts(ctx); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	if opts.Demo {
		id, err := s.demo(ctx)
		if err != nil {
			return nil, err
		}
		res.DemoUserID = id
	}

	total, err := s.store.Affirmations().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: counting affirmations: %w", err)
	}

	s.logger.Info("seed complete",
		slog.Int("categories", res.Categories),
		slog.Int("affirmations", res.Affirmations),
		slog.Int("total", total),
		slog.Bool("demo", opts.Demo),
	)
	return res, nil
}

// demo makes sure the demo user exists with today's and yesterday's moods
// and its favorites. Steps already done by an earlier run are skipped, so a
// run that failed halfway is finished by the next one.
func (s *Seeder) demo(ctx context.Context) (string, error) {
	userID, err := s.demoUser(ctx)
	if err != nil {
		return "", err
	}

	now := s.calendar.Now()
	yesterday := now.AddDate(0, 0, -1)
	for _, m := range []struct {
		mood string
		at   time.Time
	}{
		{"happy", now},
		{"content", yesterday},
	} {
		at := m.at
		if _, err := s.moods.Record(ctx, userID, m.mood, &at); err != nil && !errors.Is(err, apperror.ErrConflict) {
			return "", fmt.Errorf("seed: recording demo mood: %w", err)
		}
	}

	all, err := s.affirmations.List(ctx)
	if err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}
	byText := make(map[string]string, len(all))
	for _, a := range all {
		byText[a.Text] = a.ID
	}
	for _, i := range demoFavorites {
		id, ok := byText[affirmations[i].Text]
		if !ok {
			continue
		}
		if _, err := s.favorites.Add(ctx, userID, id); err != nil && !errors.Is(err, apperror.ErrConflict) {
			return "", fmt.Errorf("seed: adding demo favorite: %w", err)
		}
	}

	return userID, nil
}

func (s *Seeder) demoUser(ctx context.Context) (string, error) {
	existing, err := s.store.Users().GetByUsername(ctx, DemoUsername)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("seed: looking up demo user: %w", err)
	}

	hash, err := s.passwords.Hash(DemoPassword)
	if err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}

	prefs := model.DefaultPreferences()
	prefs.Categories = append([]string{}, demoCategories...)
	prefs.NotificationsEnabled = true
	prefs.BackgroundMusicEnabled = true

	user := &model.User{
		Username:      DemoUsername,
		PasswordHash:  hash,
		FirstName:     "Demo",
		Preferences:   prefs,
		CurrentStreak: demoStreak,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return "", fmt.Errorf("seed: creating demo user: %w", err)
	}
	s.logger.Info("demo user created", slog.String("userID", user.ID))
	return user.ID, nil
}
