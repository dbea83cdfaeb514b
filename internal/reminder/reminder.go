// Package reminder notifies users hourly about cards waiting for review.
package reminder

import (
	"context"
	"fmt"
	"time"

	"linguo/internal/domain"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Default notification window, hours in UTC
const (
	DefaultStartHour = 8
	DefaultEndHour   = 21
)

// DueSource lists users with due cards
type DueSource interface {
	DueReminders(ctx context.Context, reviewCap int) ([]domain.DueSummary, error)
}

// Notifier delivers a reminder to a user
type Notifier interface {
	SendReminder(userID int64, dueCount int) error
}

// Config holds reminder settings
type Config struct {
	StartHour int
	EndHour   int
	// ReviewCap caps the count in a reminder to what can be reviewed in a day
	ReviewCap int
}

// Reminder runs the hourly reminder job
type Reminder struct {
	scheduler *gocron.Scheduler
	source    DueSource
	notifier  Notifier
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a reminder job. Hours outside [0, 23] fall back to the defaults.
func New(source DueSource, notifier Notifier, cfg Config, logger *zap.Logger) *Reminder {
	if cfg.StartHour < 0 || cfg.StartHour > 23 {
		cfg.StartHour = DefaultStartHour
	}
	if cfg.EndHour < 0 || cfg.EndHour > 23 {
		cfg.EndHour = DefaultEndHour
	}
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules the job every hour without blocking
func (r *Reminder) Start(ctx context.Context) error {
	if _, err := r.scheduler.Every(1).Hour().Do(func() { r.Run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	r.scheduler.StartAsync()
	r.logger.Info("Reminder job started",
		zap.Int("start_hour", r.cfg.StartHour),
		zap.Int("end_hour", r.cfg.EndHour),
	)
	return nil
}

// Stop terminates the scheduled job
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Run sends one round of reminders and returns how many were delivered.
// Nothing is sent outside the notification window.
func (r *Reminder) Run(ctx context.Context) int {
	hour := r.now().UTC().Hour()
	if hour < r.cfg.StartHour || hour > r.cfg.EndHour {
		r.logger.Debug("Outside notification hours, skipping reminders",
			zap.Int("hour", hour),
			zap.Int("start_hour", r.cfg.StartHour),
			zap.Int("end_hour", r.cfg.EndHour),
		)
		return 0
	}

	reminders, err := r.source.DueReminders(ctx, r.cfg.ReviewCap)
	if err != nil {
		r.logger.Error("Failed to get due reminders", zap.Error(err))
		return 0
	}

	sent := 0
	for _, rem := range reminders {
		if ctx.Err() != nil {
			break
		}
		if err := r.notifier.SendReminder(rem.UserID, rem.DueCount); err != nil {
			r.logger.Warn("Failed to send reminder",
				zap.Int64("user_id", rem.UserID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	r.logger.Info("Reminders sent", zap.Int("sent", sent), zap.Int("due_users", len(reminders)))
	return sent
}
