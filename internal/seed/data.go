package seed

type categorySeed struct {
	Name        string
	Description string
}

type affirmationSeed struct {
	Text      string
	Category  string
	AudioPath string
}

var categories = []categorySeed{
	{"Self Love", "Affirmations focusing on loving yourself."},
	{"Abundance", "Affirmations focusing on attracting abundance."},
	{"Confidence", "Affirmations to boost self-confidence."},
	{"Mindfulness", "Affirmations for staying present and mindful."},
	{"Gratitude", "Affirmations for cultivating gratitude."},
}

var affirmations = []affirmationSeed{
	{"I am capable of amazing things, and today I choose to focus on the positive.", "Self Love", "affirmation1.mp3"},
	{"I am worthy of love, respect, and kindness from myself and others.", "Self Love", "affirmation2.mp3"},
	{"Every day I am becoming a better version of myself.", "Self Love", "affirmation3.mp3"},
	{"I attract abundance and prosperity effortlessly.", "Abundance", "affirmation4.mp3"},
	{"The universe is working in my favor, bringing me endless opportunities.", "Abundance", "affirmation5.mp3"},
	{"I am confident in my abilities and trust my decisions.", "Confidence", "affirmation6.mp3"},
	{"I face challenges with courage and determination.", "Confidence", "affirmation7.mp3"},
	{"I am present in this moment and grateful for all I have.", "Mindfulness", "affirmation8.mp3"},
	{"I choose to focus on what brings me joy and peace.", "Mindfulness", "affirmation9.mp3"},
	{"I am thankful for the abundance of blessings in my life.", "Gratitude", "affirmation10.mp3"},
}

// Demo account.
const (
	DemoUsername = "demo"
	DemoPassword = "password"
	demoStreak   = 5
)

var demoCategories = []string{"Mindfulness", "Gratitude"}

// demoFavorites index into affirmations.
var demoFavorites = []int{0, 3}
