package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/affirmations/internal/apperror"
	"github.com/sakif/affirmations/internal/model"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:     "sam",
		PasswordHash: "hash",
		FirstName:    "Sam",
		Preferences:  model.DefaultPreferences(),
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "sam")

	err := db.Users().Create(context.Background(), &model.User{
		Username:     "sam",
		PasswordHash: "other",
		FirstName:    "Other",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// READ TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "sam")

	got, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "sam" {
		t.Errorf("Username = %q, want %q", got.Username, "sam")
	}
	if got.PasswordHash != "hash" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "hash")
	}
	if got.Preferences.NotificationTime != model.DefaultNotificationTime {
		t.Errorf("NotificationTime = %q, want %q", got.Preferences.NotificationTime, model.DefaultNotificationTime)
	}
	if got.Preferences.Categories == nil {
		t.Error("Preferences.Categories is nil, want empty slice")
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "sam")

	got, err := db.Users().GetByUsername(context.Background(), "sam")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}

	_, err = db.Users().GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername(nobody) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUserUpdateStreak(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "sam")

	got, err := db.Users().UpdateStreak(context.Background(), created.ID, 7)
	if err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}
	if got.CurrentStreak != 7 {
		t.Errorf("CurrentStreak = %d, want 7", got.CurrentStreak)
	}

	_, err = db.Users().UpdateStreak(context.Background(), "missing", 1)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateStreak(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdatePreferences(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "sam")

	prefs := model.Preferences{
		Categories:             []string{"Confidence", "Gratitude"},
		DarkMode:               true,
		NotificationsEnabled:   true,
		NotificationTime:       "21:30",
		BackgroundMusicEnabled: false,
	}
	got, err := db.Users().UpdatePreferences(context.Background(), created.ID, prefs)
	if err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}

	if !got.Preferences.DarkMode || got.Preferences.NotificationTime != "21:30" {
		t.Errorf("Preferences = %+v, want dark mode at 21:30", got.Preferences)
	}
	if len(got.Preferences.Categories) != 2 || got.Preferences.Categories[1] != "Gratitude" {
		t.Errorf("Categories = %v, want [Confidence Gratitude]", got.Preferences.Categories)
	}
}
