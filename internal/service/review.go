package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linguo/internal/domain"
	"linguo/internal/repository"
	"linguo/internal/srs"

	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds the read-compute-write cycle of a review
const DefaultMaxAttempts = 3

// SubmitReviewRequest is a graded answer for one vocabulary item
type SubmitReviewRequest struct {
	UserID           int64 `validate:"gt=0"`
	VocabularyID     int64 `validate:"gt=0"`
	Quality          int   `validate:"gte=0,lte=5"`
	TimeTakenSeconds int   `validate:"gte=0"`
}

// ReviewService applies review grades to cards
type ReviewService struct {
	userRepo    repository.UserRepository
	vocabRepo   repository.VocabularyRepository
	cardRepo    repository.CardRepository
	maxAttempts int
	logger      *zap.Logger
	now         func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(
	userRepo repository.UserRepository,
	vocabRepo repository.VocabularyRepository,
	cardRepo repository.CardRepository,
	maxAttempts int,
	logger *zap.Logger,
) *ReviewService {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &ReviewService{
		userRepo:    userRepo,
		vocabRepo:   vocabRepo,
		cardRepo:    cardRepo,
		maxAttempts: maxAttempts,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitReview grades the user's card for the item and returns its new schedule.
// The card is created on the first review. A write that loses a race with another
// review of the same card is retried from a fresh read.
func (s *ReviewService) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*domain.ReviewResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, req.UserID)
	}

	item, err := s.vocabRepo.GetItem(ctx, req.VocabularyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: vocabulary item %d", domain.ErrNotFound, req.VocabularyID)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err := s.tryReview(ctx, req)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}

		s.logger.Warn("Review write conflict, retrying",
			zap.Int64("user_id", req.UserID),
			zap.Int64("vocabulary_id", req.VocabularyID),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Error("Review not saved, attempts exhausted",
		zap.Int64("user_id", req.UserID),
		zap.Int64("vocabulary_id", req.VocabularyID),
		zap.Int("attempts", s.maxAttempts),
	)
	return nil, fmt.Errorf("review not saved after %d attempts: %w", s.maxAttempts, domain.ErrConcurrencyConflict)
}

func (s *ReviewService) tryReview(ctx context.Context, req SubmitReviewRequest) (*domain.ReviewResult, error) {
	now := s.now()

	current, err := s.cardRepo.GetCard(ctx, req.UserID, req.VocabularyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if current == nil {
		card := domain.NewCard(req.UserID, req.VocabularyID, now)
		current = &card
	}

	card, event, err := srs.ApplyReview(*current, req.Quality, req.TimeTakenSeconds, now)
	if err != nil {
		return nil, err
	}

	if err := s.cardRepo.SaveReview(ctx, &card, &event); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	return &domain.ReviewResult{
		NextReviewAt: card.NextReviewAt,
		Status:       card.Status,
		Card:         card,
	}, nil
}
