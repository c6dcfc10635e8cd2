package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferencesApply(t *testing.T) {
	base := Preferences{
		Categories:       []string{"Gratitude"},
		DarkMode:         true,
		NotificationTime: "08:00",
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		got := base.Apply(PreferencesPatch{})
		assert.Equal(t, base, got)
	})

	t.Run("only set fields change", func(t *testing.T) {
		off := false
		at := "21:30"
		got := base.Apply(PreferencesPatch{DarkMode: &off, NotificationTime: &at})

		assert.False(t, got.DarkMode)
		assert.Equal(t, "21:30", got.NotificationTime)
		assert.Equal(t, []string{"Gratitude"}, got.Categories)
	})

	t.Run("categories are replaced, not appended", func(t *testing.T) {
		cats := []string{"Confidence", "Abundance"}
		got := base.Apply(PreferencesPatch{Categories: &cats})
		assert.Equal(t, []string{"Confidence", "Abundance"}, got.Categories)
	})

	t.Run("receiver is not modified", func(t *testing.T) {
		cats := []string{}
		_ = base.Apply(PreferencesPatch{Categories: &cats})
		assert.Equal(t, []string{"Gratitude"}, base.Categories)
	})
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	assert.NotNil(t, p.Categories)
	assert.Empty(t, p.Categories)
	assert.Equal(t, DefaultNotificationTime, p.NotificationTime)
	assert.False(t, p.NotificationsEnabled)
}
