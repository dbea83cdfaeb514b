package testutil

import (
	"time"

	"linguo/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
}

// NewTestLanguage creates a test language
func NewTestLanguage(id int64, code, name string) *domain.Language {
	return &domain.Language{ID: id, Code: code, Name: name}
}

// NewTestItem creates a test vocabulary item
func NewTestItem(id, languageID int64, word, translation string) *domain.VocabularyItem {
	return &domain.VocabularyItem{
		ID:          id,
		LanguageID:  languageID,
		Word:        word,
		Translation: translation,
		CreatedAt:   time.Now(),
	}
}

// NewTestCard creates a persisted test card in the given SM-2 state
func NewTestCard(id, userID, vocabularyID int64, easeFactor float64, intervalDays, repetitions int, nextReviewAt time.Time) *domain.Card {
	status := domain.StatusLearning
	if repetitions > 0 {
		status = domain.StatusReview
	}
	return &domain.Card{
		ID:           id,
		UserID:       userID,
		VocabularyID: vocabularyID,
		EaseFactor:   easeFactor,
		IntervalDays: intervalDays,
		Repetitions:  repetitions,
		NextReviewAt: nextReviewAt,
		Status:       status,
		FirstSeenAt:  nextReviewAt.AddDate(0, 0, -intervalDays),
		Version:      1,
	}
}
