package config

import (
	"fmt"
	"os"
	"strconv"

	"linguo/internal/domain"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken       string
	BotPassword    string
	MigrationsPath string
	Database       DatabaseConfig
	Flashcards     FlashcardConfig
	Reminders      ReminderConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// FlashcardConfig holds review session settings
type FlashcardConfig struct {
	NewCardsPerDay    int
	ReviewCardsPerDay int
	MaxAttempts       int
	NewCardOrder      domain.NewCardOrder
}

// ReminderConfig holds the notification window, hours in UTC
type ReminderConfig struct {
	StartHour int
	EndHour   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		BotPassword:    os.Getenv("BOT_PASSWORD"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "linguo"),
			User:     getEnv("DB_USER", "linguo"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	var err error
	if cfg.Flashcards.NewCardsPerDay, err = getEnvInt("FLASHCARD_NEW_CARDS_PER_DAY", 20); err != nil {
		return nil, err
	}
	if cfg.Flashcards.ReviewCardsPerDay, err = getEnvInt("FLASHCARD_REVIEW_CARDS_PER_DAY", 100); err != nil {
		return nil, err
	}
	if cfg.Flashcards.MaxAttempts, err = getEnvInt("REVIEW_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.Reminders.StartHour, err = getEnvInt("REMINDER_START_HOUR", 8); err != nil {
		return nil, err
	}
	if cfg.Reminders.EndHour, err = getEnvInt("REMINDER_END_HOUR", 21); err != nil {
		return nil, err
	}

	cfg.Flashcards.NewCardOrder = domain.NewCardOrder(getEnv("NEW_CARD_ORDER", string(domain.OrderByID)))
	if !cfg.Flashcards.NewCardOrder.Valid() {
		return nil, fmt.Errorf("NEW_CARD_ORDER must be %q or %q", domain.OrderByID, domain.OrderByFrequency)
	}

	// Validate required fields
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Flashcards.MaxAttempts < 1 {
		return nil, fmt.Errorf("REVIEW_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
}

// ValidateBot checks the settings only the bot needs
func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.BotPassword == "" {
		return fmt.Errorf("BOT_PASSWORD is required")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
