package model

import "time"

// Favorite is a user's saved reference to an affirmation.
type Favorite struct {
	ID            string    `json:"id"            db:"id"`
	UserID        string    `json:"userId"        db:"user_id"`
	AffirmationID string    `json:"affirmationId" db:"affirmation_id"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
}

// FavoriteWithAffirmation is the joined row returned by favorite listings.
type FavoriteWithAffirmation struct {
	Favorite    Favorite    `json:"favorite"`
	Affirmation Affirmation `json:"affirmation"`
}
