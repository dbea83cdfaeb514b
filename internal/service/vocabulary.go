package service

import (
	"context"
	"fmt"

	"linguo/internal/domain"
	"linguo/internal/repository"
)

// VocabularyService handles language selection and vocabulary lookups
type VocabularyService struct {
	userRepo     repository.UserRepository
	languageRepo repository.LanguageRepository
	vocabRepo    repository.VocabularyRepository
}

// NewVocabularyService creates a new vocabulary service
func NewVocabularyService(
	userRepo repository.UserRepository,
	languageRepo repository.LanguageRepository,
	vocabRepo repository.VocabularyRepository,
) *VocabularyService {
	return &VocabularyService{
		userRepo:     userRepo,
		languageRepo: languageRepo,
		vocabRepo:    vocabRepo,
	}
}

// ListLanguages returns all languages that can be studied
func (s *VocabularyService) ListLanguages(ctx context.Context) ([]domain.Language, error) {
	return s.languageRepo.List(ctx)
}

// GetLanguage returns a language by id
func (s *VocabularyService) GetLanguage(ctx context.Context, id int64) (*domain.Language, error) {
	language, err := s.languageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if language == nil {
		return nil, fmt.Errorf("%w: language %d", domain.ErrNotFound, id)
	}
	return language, nil
}

// GetItem returns a vocabulary item by id
func (s *VocabularyService) GetItem(ctx context.Context, id int64) (*domain.VocabularyItem, error) {
	item, err := s.vocabRepo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: vocabulary item %d", domain.ErrNotFound, id)
	}
	return item, nil
}

// UserLanguage returns the user's current language id, 0 if none was chosen yet
func (s *VocabularyService) UserLanguage(ctx context.Context, userID int64) (int64, error) {
	return s.userRepo.GetLanguage(ctx, userID)
}

// SetUserLanguage switches the language the user studies
func (s *VocabularyService) SetUserLanguage(ctx context.Context, userID, languageID int64) (*domain.Language, error) {
	language, err := s.GetLanguage(ctx, languageID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetLanguage(ctx, userID, languageID); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return language, nil
}
