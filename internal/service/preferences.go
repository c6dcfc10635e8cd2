package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

const notificationTimeLayout = "15:04"

// normalizePreferences validates p and returns it in canonical form:
// categories trimmed, de-duplicated in first-seen order, and each naming an
// existing category; notification time as zero-padded 24h "HH:MM".
func normalizePreferences(ctx context.Context, categories repository.CategoryRepository, p model.Preferences) (model.Preferences, error) {
	var errs []apperror.FieldError

	out := p
	out.Categories = []string{}

	if len(p.Categories) > 0 {
		known, err := categoryNames(ctx, categories)
		if err != nil {
			return model.Preferences{}, err
		}

		seen := make(map[string]bool, len(p.Categories))
		for _, name := range p.Categories {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			if !known[name] {
				errs = append(errs, apperror.FieldError{
					Field:   "preferences.categories",
					Message: fmt.Sprintf("unknown category %q", name),
				})
				continue
			}
			seen[name] = true
			out.Categories = append(out.Categories, name)
		}
	}

	if strings.TrimSpace(p.NotificationTime) == "" {
		out.NotificationTime = model.DefaultNotificationTime
	} else {
		t, err := time.Parse(notificationTimeLayout, strings.TrimSpace(p.NotificationTime))
		if err != nil {
			errs = append(errs, apperror.FieldError{
				Field:   "preferences.notificationTime",
				Message: "notificationTime must be a 24-hour time like 08:30",
			})
		} else {
			out.NotificationTime = t.Format(notificationTimeLayout)
		}
	}

	if err := apperror.Invalid(errs); err != nil {
		return model.Preferences{}, err
	}
	return out, nil
}

func categoryNames(ctx context.Context, categories repository.CategoryRepository) (map[string]bool, error) {
	list, err := categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	names := make(map[string]bool, len(list))
	for _, c := range list {
		names[c.Name] = true
	}
	return names, nil
}
