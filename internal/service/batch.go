package service

import (
	"context"
	"fmt"
	"time"

	"linguo/internal/domain"
	"linguo/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type batchRequest struct {
	UserID     int64 `validate:"gt=0"`
	LanguageID int64 `validate:"gt=0"`
}

// BatchService composes daily review batches
type BatchService struct {
	userRepo     repository.UserRepository
	languageRepo repository.LanguageRepository
	vocabRepo    repository.VocabularyRepository
	cardRepo     repository.CardRepository
	order        domain.NewCardOrder
	logger       *zap.Logger
	now          func() time.Time
}

// NewBatchService creates a new batch service. An unknown order falls back to domain.OrderByID.
func NewBatchService(
	userRepo repository.UserRepository,
	languageRepo repository.LanguageRepository,
	vocabRepo repository.VocabularyRepository,
	cardRepo repository.CardRepository,
	order domain.NewCardOrder,
	logger *zap.Logger,
) *BatchService {
	if !order.Valid() {
		order = domain.OrderByID
	}
	return &BatchService{
		userRepo:     userRepo,
		languageRepo: languageRepo,
		vocabRepo:    vocabRepo,
		cardRepo:     cardRepo,
		order:        order,
		logger:       logger,
		now:          time.Now,
	}
}

// GetDailyBatch returns up to maxReview due cards, most overdue first, and up to
// maxNew items the user has never reviewed. A non-positive cap yields an empty list.
// Nothing is written.
func (s *BatchService) GetDailyBatch(ctx context.Context, userID, languageID int64, maxNew, maxReview int) (*domain.DailyBatch, error) {
	if err := validateRequest(batchRequest{UserID: userID, LanguageID: languageID}); err != nil {
		return nil, err
	}
	if err := s.checkUserAndLanguage(ctx, userID, languageID); err != nil {
		return nil, err
	}

	now := s.now()
	batch := &domain.DailyBatch{
		ReviewCards: []domain.Card{},
		NewCards:    []domain.VocabularyItem{},
	}

	g, gctx := errgroup.WithContext(ctx)

	if maxReview > 0 {
		g.Go(func() error {
			cards, err := s.cardRepo.ListDueCards(gctx, userID, languageID, now, maxReview)
			if err != nil {
				return fmt.Errorf("failed to list due cards: %w", err)
			}
			if cards != nil {
				batch.ReviewCards = cards
			}
			return nil
		})
	}

	if maxNew > 0 {
		g.Go(func() error {
			items, err := s.vocabRepo.ListUnseen(gctx, userID, languageID, s.order, maxNew)
			if err != nil {
				return fmt.Errorf("failed to list new items: %w", err)
			}
			if items != nil {
				batch.NewCards = items
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to compose daily batch",
			zap.Int64("user_id", userID),
			zap.Int64("language_id", languageID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("Daily batch composed",
		zap.Int64("user_id", userID),
		zap.Int64("language_id", languageID),
		zap.Int("review_cards", len(batch.ReviewCards)),
		zap.Int("new_cards", len(batch.NewCards)),
	)

	return batch, nil
}

func (s *BatchService) checkUserAndLanguage(ctx context.Context, userID, languageID int64) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}

	language, err := s.languageRepo.GetByID(ctx, languageID)
	if err != nil {
		return fmt.Errorf("failed to get language: %w", err)
	}
	if language == nil {
		return fmt.Errorf("%w: language %d", domain.ErrNotFound, languageID)
	}

	return nil
}
