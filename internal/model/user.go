// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds a bcrypt hash and is never serialized. The JSON shape is
// the public projection returned by /api/register, /api/login and /api/user.
type User struct {
	ID            string      `json:"id"            db:"id"`
	Username      string      `json:"username"      db:"username"`
	PasswordHash  string      `json:"-"             db:"password_hash"`
	FirstName     string      `json:"firstName"     db:"first_name"`
	Preferences   Preferences `json:"preferences"   db:"preferences"`
	CurrentStreak int         `json:"currentStreak" db:"current_streak"`
	CreatedAt     time.Time   `json:"createdAt"     db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt"     db:"updated_at"`
}
