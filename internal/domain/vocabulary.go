package domain

import "time"

// Language is a language that vocabulary belongs to
type Language struct {
	ID   int64
	Code string
	Name string
}

// VocabularyItem represents a word of a language with its translation
type VocabularyItem struct {
	ID              int64
	LanguageID      int64
	Word            string
	Translation     string
	Pronunciation   string
	PartOfSpeech    string
	Definition      string
	ExampleSentence string
	// Frequency is the frequency rank of the word, 1 is the most common, 0 is unranked
	Frequency int
	CreatedAt time.Time
}

// NewCardOrder selects the order in which never-seen items are offered
type NewCardOrder string

const (
	OrderByID        NewCardOrder = "id"
	OrderByFrequency NewCardOrder = "frequency"
)

// Valid reports whether o is a known order
func (o NewCardOrder) Valid() bool {
	return o == OrderByID || o == OrderByFrequency
}

// DailyBatch is the set of cards offered to a user for one session
type DailyBatch struct {
	ReviewCards []Card
	NewCards    []VocabularyItem
}

// VocabularyStats summarizes a user's progress in one language
type VocabularyStats struct {
	Total        int
	Mastered     int
	Learning     int
	Review       int
	DueForReview int
}

// DueSummary is the number of due cards a user has in their current language
type DueSummary struct {
	UserID   int64
	DueCount int
}
