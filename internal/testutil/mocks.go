package testutil

import (
	"context"
	"time"

	"linguo/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetLanguage(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetLanguage(ctx context.Context, userID, languageID int64) error {
	args := m.Called(ctx, userID, languageID)
	return args.Error(0)
}

// MockLanguageRepository is a mock for LanguageRepository
type MockLanguageRepository struct {
	mock.Mock
}

func (m *MockLanguageRepository) List(ctx context.Context) ([]domain.Language, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Language), args.Error(1)
}

func (m *MockLanguageRepository) GetByID(ctx context.Context, id int64) (*domain.Language, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Language), args.Error(1)
}

func (m *MockLanguageRepository) GetByCode(ctx context.Context, code string) (*domain.Language, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Language), args.Error(1)
}

// MockVocabularyRepository is a mock for VocabularyRepository
type MockVocabularyRepository struct {
	mock.Mock
}

func (m *MockVocabularyRepository) GetItem(ctx context.Context, id int64) (*domain.VocabularyItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyRepository) ListUnseen(ctx context.Context, userID, languageID int64, order domain.NewCardOrder, limit int) ([]domain.VocabularyItem, error) {
	args := m.Called(ctx, userID, languageID, order, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyRepository) Upsert(ctx context.Context, item *domain.VocabularyItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

// MockCardRepository is a mock for CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) GetCard(ctx context.Context, userID, vocabularyID int64) (*domain.Card, error) {
	args := m.Called(ctx, userID, vocabularyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListDueCards(ctx context.Context, userID, languageID int64, now time.Time, limit int) ([]domain.Card, error) {
	args := m.Called(ctx, userID, languageID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) SaveReview(ctx context.Context, card *domain.Card, event *domain.ReviewEvent) error {
	args := m.Called(ctx, card, event)
	return args.Error(0)
}

func (m *MockCardRepository) Stats(ctx context.Context, userID, languageID int64, now time.Time) (domain.VocabularyStats, error) {
	args := m.Called(ctx, userID, languageID, now)
	return args.Get(0).(domain.VocabularyStats), args.Error(1)
}

func (m *MockCardRepository) ListDueSummaries(ctx context.Context, now time.Time) ([]domain.DueSummary, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DueSummary), args.Error(1)
}
