// Package service holds the business rules of the affirmations API.
//
//	Handler (HTTP) → Service (rules) → Repository (storage)
//
// Services accept plain Go values, validate them, and return apperror values
// for anything the caller did wrong. They never see an *http.Request, so the
// seed command can use them exactly as the handlers do.
package service

import (
	"context"
	"log/slog"

	"github.com/sakif/affirmations/internal/media"
	"github.com/sakif/affirmations/internal/model"
)

// Field limits shared by registration and mood recording.
const (
	MaxUsernameLength  = 50
	MaxFirstNameLength = 50
	MaxMoodLength      = 50
	MaxAffirmationText = 500
)

// mediaLinker fills in the URL fields of records that carry media paths.
// A failed resolution is logged and leaves the URL empty; clients fall back
// to the stored path.
type mediaLinker struct {
	resolver media.Resolver
	logger   *slog.Logger
}

func newMediaLinker(resolver media.Resolver, logger *slog.Logger) mediaLinker {
	if resolver == nil {
		resolver = media.Noop{}
	}
	return mediaLinker{resolver: resolver, logger: logger}
}

func (m mediaLinker) resolve(ctx context.Context, path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	url, err := m.resolver.Resolve(ctx, *path)
	if err != nil {
		m.logger.Warn("resolving media URL",
			slog.String("path", *path),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return url
}

func (m mediaLinker) affirmation(ctx context.Context, a *model.Affirmation) {
	a.AudioURL = m.resolve(ctx, a.AudioPath)
}

func (m mediaLinker) affirmations(ctx context.Context, list []model.Affirmation) {
	for i := range list {
		m.affirmation(ctx, &list[i])
	}
}

func (m mediaLinker) categories(ctx context.Context, list []model.Category) {
	for i := range list {
		list[i].ImageURL = m.resolve(ctx, list[i].ImagePath)
	}
}
