package domain

import (
	"time"

	"github.com/google/uuid"
)

// Default scheduling values for a card that has never been reviewed
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Status is the learning stage of a card
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// Card holds the scheduling state of one vocabulary item for one user
type Card struct {
	ID             int64
	UserID         int64
	VocabularyID   int64
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	NextReviewAt   time.Time
	Status         Status
	TimesReviewed  int
	TimesCorrect   int
	TimesIncorrect int
	FirstSeenAt    time.Time
	LastReviewedAt *time.Time
	MasteredAt     *time.Time

	// Version is the optimistic-concurrency token of the stored row.
	// Zero means the card has not been persisted yet.
	Version int64
}

// NewCard returns an unsaved card with default scheduling state
func NewCard(userID, vocabularyID int64, now time.Time) Card {
	return Card{
		UserID:       userID,
		VocabularyID: vocabularyID,
		EaseFactor:   DefaultEaseFactor,
		NextReviewAt: now,
		Status:       StatusNew,
		FirstSeenAt:  now,
	}
}

// IsDue reports whether the card should be reviewed at now
func (c Card) IsDue(now time.Time) bool {
	return !c.NextReviewAt.After(now)
}

// ReviewEvent is an append-only record of a single review
type ReviewEvent struct {
	ID               uuid.UUID
	CardID           int64
	Quality          int
	TimeTakenSeconds int
	WasCorrect       bool
	ReviewedAt       time.Time
}

// ReviewResult is returned to callers after a review was applied
type ReviewResult struct {
	NextReviewAt time.Time
	Status       Status
	Card         Card
}
