package repository

import (
	"context"
	"time"

	"linguo/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AuthorizeUser(ctx context.Context, userID int64) error
	EnsureUserExists(ctx context.Context, userID int64) error
	// GetLanguage returns the user's current language id, 0 when none is selected
	GetLanguage(ctx context.Context, userID int64) (int64, error)
	SetLanguage(ctx context.Context, userID, languageID int64) error
}

// LanguageRepository defines language lookups.
// Single-row getters return nil, nil when the row does not exist.
type LanguageRepository interface {
	List(ctx context.Context) ([]domain.Language, error)
	GetByID(ctx context.Context, id int64) (*domain.Language, error)
	GetByCode(ctx context.Context, code string) (*domain.Language, error)
}

// VocabularyRepository defines vocabulary item operations
type VocabularyRepository interface {
	GetItem(ctx context.Context, id int64) (*domain.VocabularyItem, error)
	// ListUnseen returns items of the language the user has no card for
	ListUnseen(ctx context.Context, userID, languageID int64, order domain.NewCardOrder, limit int) ([]domain.VocabularyItem, error)
	// Upsert creates the item or updates the existing one with the same language and word
	Upsert(ctx context.Context, item *domain.VocabularyItem) (int64, error)
}

// CardRepository defines scheduling state operations
type CardRepository interface {
	// GetCard returns nil, nil when the user has never reviewed the item
	GetCard(ctx context.Context, userID, vocabularyID int64) (*domain.Card, error)
	// ListDueCards returns non-mastered cards due at now, most overdue first
	ListDueCards(ctx context.Context, userID, languageID int64, now time.Time, limit int) ([]domain.Card, error)
	// SaveReview writes card conditioned on card.Version and appends event in one transaction.
	// It returns domain.ErrConcurrencyConflict when the stored version moved on.
	// On success card.ID, card.Version and event.ID/CardID are updated.
	SaveReview(ctx context.Context, card *domain.Card, event *domain.ReviewEvent) error
	Stats(ctx context.Context, userID, languageID int64, now time.Time) (domain.VocabularyStats, error)
	ListDueSummaries(ctx context.Context, now time.Time) ([]domain.DueSummary, error)
}
