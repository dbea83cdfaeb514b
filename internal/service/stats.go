package service

import (
	"context"
	"fmt"
	"time"

	"linguo/internal/domain"
	"linguo/internal/repository"

	"go.uber.org/zap"
)

// StatsService reports learning progress
type StatsService struct {
	userRepo     repository.UserRepository
	languageRepo repository.LanguageRepository
	cardRepo     repository.CardRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(
	userRepo repository.UserRepository,
	languageRepo repository.LanguageRepository,
	cardRepo repository.CardRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		userRepo:     userRepo,
		languageRepo: languageRepo,
		cardRepo:     cardRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// GetStats counts the user's cards in the language by status
func (s *StatsService) GetStats(ctx context.Context, userID, languageID int64) (domain.VocabularyStats, error) {
	if err := validateRequest(batchRequest{UserID: userID, LanguageID: languageID}); err != nil {
		return domain.VocabularyStats{}, err
	}

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return domain.VocabularyStats{}, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.VocabularyStats{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}

	language, err := s.languageRepo.GetByID(ctx, languageID)
	if err != nil {
		return domain.VocabularyStats{}, fmt.Errorf("failed to get language: %w", err)
	}
	if language == nil {
		return domain.VocabularyStats{}, fmt.Errorf("%w: language %d", domain.ErrNotFound, languageID)
	}

	stats, err := s.cardRepo.Stats(ctx, userID, languageID, s.now())
	if err != nil {
		s.logger.Error("Failed to get stats",
			zap.Int64("user_id", userID),
			zap.Int64("language_id", languageID),
			zap.Error(err),
		)
		return domain.VocabularyStats{}, err
	}

	return stats, nil
}

// DueReminders returns the users that have cards due in their current language.
// Counts above reviewCap are capped since no more can be reviewed in one day.
func (s *StatsService) DueReminders(ctx context.Context, reviewCap int) ([]domain.DueSummary, error) {
	summaries, err := s.cardRepo.ListDueSummaries(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	reminders := make([]domain.DueSummary, 0, len(summaries))
	for _, sum := range summaries {
		if sum.DueCount <= 0 {
			continue
		}
		if reviewCap > 0 && sum.DueCount > reviewCap {
			sum.DueCount = reviewCap
		}
		reminders = append(reminders, sum)
	}

	return reminders, nil
}
