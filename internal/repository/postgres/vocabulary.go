package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linguo/internal/domain"

	"github.com/jmoiron/sqlx"
)

// VocabularyRepo implements repository.VocabularyRepository
type VocabularyRepo struct {
	db *sqlx.DB
}

// NewVocabularyRepo creates a new vocabulary repository
func NewVocabularyRepo(db *sqlx.DB) *VocabularyRepo {
	return &VocabularyRepo{db: db}
}

type vocabularyRow struct {
	ID              int64          `db:"id"`
	LanguageID      int64          `db:"language_id"`
	Word            string         `db:"word"`
	Translation     sql.NullString `db:"translation"`
	Pronunciation   sql.NullString `db:"pronunciation"`
	PartOfSpeech    sql.NullString `db:"part_of_speech"`
	Definition      sql.NullString `db:"definition"`
	ExampleSentence sql.NullString `db:"example_sentence"`
	Frequency       int            `db:"frequency"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r vocabularyRow) toDomain() domain.VocabularyItem {
	return domain.VocabularyItem{
		ID:              r.ID,
		LanguageID:      r.LanguageID,
		Word:            r.Word,
		Translation:     r.Translation.String,
		Pronunciation:   r.Pronunciation.String,
		PartOfSpeech:    r.PartOfSpeech.String,
		Definition:      r.Definition.String,
		ExampleSentence: r.ExampleSentence.String,
		Frequency:       r.Frequency,
		CreatedAt:       r.CreatedAt,
	}
}

const vocabularyColumns = `v.id, v.language_id, v.word, v.translation, v.pronunciation, v.part_of_speech,
	v.definition, v.example_sentence, v.frequency, v.created_at`

// Whitelisted ORDER BY clauses for unseen items
var unseenOrder = map[domain.NewCardOrder]string{
	domain.OrderByID:        "v.id ASC",
	domain.OrderByFrequency: "(v.frequency = 0) ASC, v.frequency ASC, v.id ASC",
}

// GetItem returns a vocabulary item by id or nil if it does not exist
func (r *VocabularyRepo) GetItem(ctx context.Context, id int64) (*domain.VocabularyItem, error) {
	var row vocabularyRow
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary v WHERE v.id = $1`
	err := r.db.GetContext(ctx, &row, query, id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item := row.toDomain()
	return &item, nil
}

// ListUnseen returns items of the language that the user has no card for
func (r *VocabularyRepo) ListUnseen(ctx context.Context, userID, languageID int64, order domain.NewCardOrder, limit int) ([]domain.VocabularyItem, error) {
	orderBy, ok := unseenOrder[order]
	if !ok {
		return nil, fmt.Errorf("unknown new card order %q", order)
	}

	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary v
		WHERE v.language_id = $1
			AND NOT EXISTS (
				SELECT 1 FROM user_vocabulary uv
				WHERE uv.vocabulary_id = v.id AND uv.user_id = $2
			)
		ORDER BY ` + orderBy + `
		LIMIT $3
	`

	var rows []vocabularyRow
	if err := r.db.SelectContext(ctx, &rows, query, languageID, userID, limit); err != nil {
		return nil, err
	}

	items := make([]domain.VocabularyItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

// Upsert saves the item, updating the existing row for the same language and word
func (r *VocabularyRepo) Upsert(ctx context.Context, item *domain.VocabularyItem) (int64, error) {
	query := `
		INSERT INTO vocabulary (language_id, word, translation, pronunciation, part_of_speech,
			definition, example_sentence, frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (language_id, word)
		DO UPDATE SET
			translation = EXCLUDED.translation,
			pronunciation = EXCLUDED.pronunciation,
			part_of_speech = EXCLUDED.part_of_speech,
			definition = EXCLUDED.definition,
			example_sentence = EXCLUDED.example_sentence,
			frequency = EXCLUDED.frequency
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		item.LanguageID,
		item.Word,
		nullString(item.Translation),
		nullString(item.Pronunciation),
		nullString(item.PartOfSpeech),
		nullString(item.Definition),
		nullString(item.ExampleSentence),
		item.Frequency,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	item.ID = id
	return id, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
