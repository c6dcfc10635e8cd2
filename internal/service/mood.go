package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/calendar"
	"github.com/sakif/affirmations/internal/model"
	"github.com/sakif/affirmations/internal/repository"
)

// Messages clients match on.
const (
	MsgMoodAlreadyRecorded = "You have already recorded your mood today"
	MsgNoMoodToday         = "No mood recorded for today"
)

// MoodService records at most one mood per user per calendar day. Days are
// counted in the calendar's time zone.
type MoodService struct {
	moods    repository.MoodRepository
	calendar *calendar.Calendar
	logger   *slog.Logger
}

func NewMoodService(moods repository.MoodRepository, cal *calendar.Calendar, logger *slog.Logger) *MoodService {
	return &MoodService{moods: moods, calendar: cal, logger: logger}
}

// Record stores mood for userID. A nil date means now; a date later than
// the end of today is rejected.
func (s *MoodService) Record(ctx context.Context, userID, mood string, date *time.Time) (*model.Mood, error) {
	mood = strings.TrimSpace(mood)

	var errs []apperror.FieldError
	switch {
	case mood == "":
		errs = append(errs, apperror.FieldError{Field: "mood", Message: "mood is required"})
	case utf8.RuneCountInString(mood) > MaxMoodLength:
		errs = append(errs, apperror.FieldError{Field: "mood",
			Message: fmt.Sprintf("mood must be %d characters or less", MaxMoodLength)})
	}

	at := s.calendar.Now()
	if date != nil {
		if !date.Before(s.calendar.EndOfToday()) {
			errs = append(errs, apperror.FieldError{Field: "date", Message: "date cannot be in the future"})
		}
		at = *date
	}
	if err := apperror.Invalid(errs); err != nil {
		return nil, err
	}

	entry := &model.Mood{
		UserID: userID,
		Mood:   mood,
		Date:   at,
		Day:    s.calendar.DayKey(at),
	}
	if err := s.moods.Create(ctx, entry); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ConflictMessage(MsgMoodAlreadyRecorded)
		}
		return nil, err
	}

	s.logger.Debug("mood recorded",
		slog.String("userID", userID),
		slog.String("day", entry.Day),
	)
	return entry, nil
}

// Today returns the mood userID recorded today.
func (s *MoodService) Today(ctx context.Context, userID string) (*model.Mood, error) {
	entry, err := s.moods.GetByDay(ctx, userID, s.calendar.Today())
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFoundMessage(MsgNoMoodToday)
		}
		return nil, err
	}
	return entry, nil
}

// History returns every mood of userID, newest first.
func (s *MoodService) History(ctx context.Context, userID string) ([]model.Mood, error) {
	return s.moods.ListByUser(ctx, userID)
}
