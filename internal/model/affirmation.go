package model

// Affirmation is a short positive statement. Category holds a category name,
// not a foreign key.
//
// AudioURL is not stored; it is filled in from AudioPath when a media
// resolver is configured.
type Affirmation struct {
	ID        string  `json:"id"                 db:"id"`
	Text      string  `json:"text"               db:"text"`
	Category  string  `json:"category"           db:"category"`
	AudioPath *string `json:"audioPath"          db:"audio_path"`
	AudioURL  string  `json:"audioUrl,omitempty" db:"-"`
}

// DailyAffirmation is an Affirmation annotated with the caller's favorite flag.
type DailyAffirmation struct {
	Affirmation
	IsFavorite bool `json:"isFavorite"`
}

// Category groups affirmations by name. Count is denormalized.
type Category struct {
	ID          string  `json:"id"                 db:"id"`
	Name        string  `json:"name"               db:"name"`
	Description string  `json:"description"        db:"description"`
	Count       int     `json:"count"              db:"count"`
	ImagePath   *string `json:"imagePath"          db:"image_path"`
	ImageURL    string  `json:"imageUrl,omitempty" db:"-"`
}
