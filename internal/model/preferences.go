package model

// DefaultNotificationTime is used when a user has never picked a reminder time.
const DefaultNotificationTime = "08:00"

// Preferences is the per-user settings document, stored as JSON.
type Preferences struct {
	Categories             []string `json:"categories"`
	DarkMode               bool     `json:"darkMode"`
	NotificationsEnabled   bool     `json:"notificationsEnabled"`
	NotificationTime       string   `json:"notificationTime"`
	BackgroundMusicEnabled bool     `json:"backgroundMusicEnabled"`
}

// DefaultPreferences returns the settings a new account starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Categories:       []string{},
		NotificationTime: DefaultNotificationTime,
	}
}

// PreferencesPatch is a partial Preferences update. Nil fields are left as
// they are.
type PreferencesPatch struct {
	Categories             *[]string `json:"categories,omitempty"`
	DarkMode               *bool     `json:"darkMode,omitempty"`
	NotificationsEnabled   *bool     `json:"notificationsEnabled,omitempty"`
	NotificationTime       *string   `json:"notificationTime,omitempty"`
	BackgroundMusicEnabled *bool     `json:"backgroundMusicEnabled,omitempty"`
}

// Apply returns p with every non-nil field of patch written over it.
// p itself is not modified.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	out := p
	out.Categories = append([]string(nil), p.Categories...)
	if patch.Categories != nil {
		out.Categories = append([]string(nil), (*patch.Categories)...)
	}
	if patch.DarkMode != nil {
		out.DarkMode = *patch.DarkMode
	}
	if patch.NotificationsEnabled != nil {
		out.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.NotificationTime != nil {
		out.NotificationTime = *patch.NotificationTime
	}
	if patch.BackgroundMusicEnabled != nil {
		out.BackgroundMusicEnabled = *patch.BackgroundMusicEnabled
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	return out
}
