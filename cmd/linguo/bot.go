package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"linguo/internal/handler"
	"linguo/internal/reminder"
	"linguo/internal/repository/postgres"
	"linguo/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func newBotCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot and the reminder job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), logger)
		},
	}
}

func runBot(ctx context.Context, logger *zap.Logger) error {
	logger.Info("Starting Linguo Bot")

	cfg, db, err := openDatabase(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	languageRepo := postgres.NewLanguageRepo(db)
	vocabRepo := postgres.NewVocabularyRepo(db)
	cardRepo := postgres.NewCardRepo(db)

	// Initialize services
	statsService := service.NewStatsService(userRepo, languageRepo, cardRepo, logger)
	services := handler.Services{
		Auth:       service.NewAuthService(userRepo, cfg.BotPassword),
		Vocabulary: service.NewVocabularyService(userRepo, languageRepo, vocabRepo),
		Batch:      service.NewBatchService(userRepo, languageRepo, vocabRepo, cardRepo, cfg.Flashcards.NewCardOrder, logger),
		Review:     service.NewReviewService(userRepo, vocabRepo, cardRepo, cfg.Flashcards.MaxAttempts, logger),
		Stats:      statsService,
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Telegram bot initialized")

	h := handler.NewHandler(bot, services, handler.Limits{
		NewCardsPerDay:    cfg.Flashcards.NewCardsPerDay,
		ReviewCardsPerDay: cfg.Flashcards.ReviewCardsPerDay,
	}, logger)
	h.RegisterHandlers()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rem := reminder.New(statsService, h, reminder.Config{
		StartHour: cfg.Reminders.StartHour,
		EndHour:   cfg.Reminders.EndHour,
		ReviewCap: cfg.Flashcards.ReviewCardsPerDay,
	}, logger)
	if err := rem.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminders: %w", err)
	}
	defer rem.Stop()

	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping bot...")

	bot.Stop()
	logger.Info("Bot stopped gracefully")
	return nil
}
