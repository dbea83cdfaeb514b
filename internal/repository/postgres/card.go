package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linguo/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CardRepo implements repository.CardRepository on the user_vocabulary table
type CardRepo struct {
	db *sqlx.DB
}

// NewCardRepo creates a new card repository
func NewCardRepo(db *sqlx.DB) *CardRepo {
	return &CardRepo{db: db}
}

type cardRow struct {
	ID             int64        `db:"id"`
	UserID         int64        `db:"user_id"`
	VocabularyID   int64        `db:"vocabulary_id"`
	EaseFactor     float64      `db:"ease_factor"`
	IntervalDays   int          `db:"interval_days"`
	Repetitions    int          `db:"repetitions"`
	NextReviewAt   time.Time    `db:"next_review_at"`
	Status         string       `db:"status"`
	TimesReviewed  int          `db:"times_reviewed"`
	TimesCorrect   int          `db:"times_correct"`
	TimesIncorrect int          `db:"times_incorrect"`
	FirstSeenAt    time.Time    `db:"first_seen_at"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
	MasteredAt     sql.NullTime `db:"mastered_at"`
	Version        int64        `db:"version"`
}

func (r cardRow) toDomain() domain.Card {
	c := domain.Card{
		ID:             r.ID,
		UserID:         r.UserID,
		VocabularyID:   r.VocabularyID,
		EaseFactor:     r.EaseFactor,
		IntervalDays:   r.IntervalDays,
		Repetitions:    r.Repetitions,
		NextReviewAt:   r.NextReviewAt,
		Status:         domain.Status(r.Status),
		TimesReviewed:  r.TimesReviewed,
		TimesCorrect:   r.TimesCorrect,
		TimesIncorrect: r.TimesIncorrect,
		FirstSeenAt:    r.FirstSeenAt,
		Version:        r.Version,
	}
	if r.LastReviewedAt.Valid {
		c.LastReviewedAt = &r.LastReviewedAt.Time
	}
	if r.MasteredAt.Valid {
		c.MasteredAt = &r.MasteredAt.Time
	}
	return c
}

const cardColumns = `uv.id, uv.user_id, uv.vocabulary_id, uv.ease_factor, uv.interval_days, uv.repetitions,
	uv.next_review_at, uv.status, uv.times_reviewed, uv.times_correct, uv.times_incorrect,
	uv.first_seen_at, uv.last_reviewed_at, uv.mastered_at, uv.version`

// GetCard returns the card of the user for the item or nil if it was never reviewed
func (r *CardRepo) GetCard(ctx context.Context, userID, vocabularyID int64) (*domain.Card, error) {
	var row cardRow
	query := `SELECT ` + cardColumns + ` FROM user_vocabulary uv WHERE uv.user_id = $1 AND uv.vocabulary_id = $2`
	err := r.db.GetContext(ctx, &row, query, userID, vocabularyID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c := row.toDomain()
	return &c, nil
}

// ListDueCards returns non-mastered cards of the language due at now, most overdue first
func (r *CardRepo) ListDueCards(ctx context.Context, userID, languageID int64, now time.Time, limit int) ([]domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM user_vocabulary uv
		JOIN vocabulary v ON v.id = uv.vocabulary_id
		WHERE uv.user_id = $1
			AND v.language_id = $2
			AND uv.status <> 'mastered'
			AND uv.next_review_at <= $3
		ORDER BY uv.next_review_at ASC, uv.id ASC
		LIMIT $4
	`

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, languageID, now, limit); err != nil {
		return nil, err
	}

	cards := make([]domain.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toDomain())
	}
	return cards, nil
}

// SaveReview persists the reviewed card and appends the review event atomically.
// A card with Version 0 is inserted, any other card is updated only if the
// stored version still equals card.Version.
func (r *CardRepo) SaveReview(ctx context.Context, card *domain.Card, event *domain.ReviewEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cardID int64
	if card.Version == 0 {
		cardID, err = insertCard(ctx, tx, card)
	} else {
		cardID, err = updateCard(ctx, tx, card)
	}
	if err != nil {
		return err
	}

	eventID := event.ID
	if eventID == uuid.Nil {
		eventID = uuid.New()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO flashcard_reviews (id, user_vocabulary_id, quality, time_taken_seconds, was_correct, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, eventID, cardID, event.Quality, event.TimeTakenSeconds, event.WasCorrect, event.ReviewedAt)
	if err != nil {
		return fmt.Errorf("failed to append review event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	card.ID = cardID
	card.Version++
	event.ID = eventID
	event.CardID = cardID
	return nil
}

func insertCard(ctx context.Context, tx *sqlx.Tx, card *domain.Card) (int64, error) {
	query := `
		INSERT INTO user_vocabulary (user_id, vocabulary_id, ease_factor, interval_days, repetitions,
			next_review_at, status, times_reviewed, times_correct, times_incorrect,
			first_seen_at, last_reviewed_at, mastered_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)
		ON CONFLICT (user_id, vocabulary_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := tx.QueryRowxContext(ctx, query,
		card.UserID,
		card.VocabularyID,
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		card.NextReviewAt,
		string(card.Status),
		card.TimesReviewed,
		card.TimesCorrect,
		card.TimesIncorrect,
		card.FirstSeenAt,
		nullTime(card.LastReviewedAt),
		nullTime(card.MasteredAt),
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		// another review created the card first
		return 0, domain.ErrConcurrencyConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert card: %w", err)
	}
	return id, nil
}

func updateCard(ctx context.Context, tx *sqlx.Tx, card *domain.Card) (int64, error) {
	query := `
		UPDATE user_vocabulary SET
			ease_factor = $1,
			interval_days = $2,
			repetitions = $3,
			next_review_at = $4,
			status = $5,
			times_reviewed = $6,
			times_correct = $7,
			times_incorrect = $8,
			last_reviewed_at = $9,
			mastered_at = $10,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $11 AND version = $12
	`

	res, err := tx.ExecContext(ctx, query,
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		card.NextReviewAt,
		string(card.Status),
		card.TimesReviewed,
		card.TimesCorrect,
		card.TimesIncorrect,
		nullTime(card.LastReviewedAt),
		nullTime(card.MasteredAt),
		card.ID,
		card.Version,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update card: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrConcurrencyConflict
	}
	return card.ID, nil
}

// Stats counts the user's cards of the language by status.
// Due cards exclude mastered ones, same as the daily batch.
func (r *CardRepo) Stats(ctx context.Context, userID, languageID int64, now time.Time) (domain.VocabularyStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE uv.status = 'mastered') AS mastered,
			COUNT(*) FILTER (WHERE uv.status = 'learning') AS learning,
			COUNT(*) FILTER (WHERE uv.status = 'review') AS review,
			COUNT(*) FILTER (WHERE uv.status <> 'mastered' AND uv.next_review_at <= $3) AS due
		FROM user_vocabulary uv
		JOIN vocabulary v ON v.id = uv.vocabulary_id
		WHERE uv.user_id = $1 AND v.language_id = $2
	`

	var row struct {
		Total    int `db:"total"`
		Mastered int `db:"mastered"`
		Learning int `db:"learning"`
		Review   int `db:"review"`
		Due      int `db:"due"`
	}
	if err := r.db.GetContext(ctx, &row, query, userID, languageID, now); err != nil {
		return domain.VocabularyStats{}, err
	}

	return domain.VocabularyStats{
		Total:        row.Total,
		Mastered:     row.Mastered,
		Learning:     row.Learning,
		Review:       row.Review,
		DueForReview: row.Due,
	}, nil
}

// ListDueSummaries counts due cards per authorized user in the user's current language
func (r *CardRepo) ListDueSummaries(ctx context.Context, now time.Time) ([]domain.DueSummary, error) {
	query := `
		SELECT uv.user_id, COUNT(*) AS due_count
		FROM user_vocabulary uv
		JOIN users u ON u.user_id = uv.user_id
		JOIN vocabulary v ON v.id = uv.vocabulary_id
		WHERE u.authorized = TRUE
			AND v.language_id = u.language_id
			AND uv.status <> 'mastered'
			AND uv.next_review_at <= $1
		GROUP BY uv.user_id
		ORDER BY uv.user_id
	`

	var rows []struct {
		UserID   int64 `db:"user_id"`
		DueCount int   `db:"due_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, err
	}

	summaries := make([]domain.DueSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.DueSummary{UserID: row.UserID, DueCount: row.DueCount})
	}
	return summaries, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
