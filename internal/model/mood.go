package model

import "time"

// Mood is one user's mood entry. Day is the calendar day (YYYY-MM-DD) the
// entry counts for; the store allows one mood per (UserID, Day).
type Mood struct {
	ID     string    `json:"id"     db:"id"`
	UserID string    `json:"userId" db:"user_id"`
	Mood   string    `json:"mood"   db:"mood"`
	Date   time.Time `json:"date"   db:"date"`
	Day    string    `json:"day"    db:"day"`
}
