package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"linguo/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var vocabularyColumnNames = []string{
	"id", "language_id", "word", "translation", "pronunciation", "part_of_speech",
	"definition", "example_sentence", "frequency", "created_at",
}

func TestVocabularyRepo_GetItem(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expectedNil   bool
		expectedError bool
	}{
		{
			name: "item found",
			mockRows: sqlmock.NewRows(vocabularyColumnNames).
				AddRow(7, 1, "hola", "hello", nil, "interjection", nil, "¡Hola, amigo!", 12, created),
		},
		{
			name:        "item missing",
			mockError:   sql.ErrNoRows,
			expectedNil: true,
		},
		{
			name: "scan error",
			mockRows: sqlmock.NewRows(vocabularyColumnNames).
				AddRow("invalid", 1, "hola", "hello", nil, nil, nil, nil, 0, created),
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewVocabularyRepo(db)

			expect := mock.ExpectQuery("SELECT v.id, v.language_id, v.word, .* FROM vocabulary v WHERE v.id = \\$1").
				WithArgs(int64(7))
			if tt.mockError != nil {
				expect.WillReturnError(tt.mockError)
			} else {
				expect.WillReturnRows(tt.mockRows)
			}

			item, err := repo.GetItem(context.Background(), 7)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, item)
			} else {
				assert.Equal(t, &domain.VocabularyItem{
					ID:              7,
					LanguageID:      1,
					Word:            "hola",
					Translation:     "hello",
					PartOfSpeech:    "interjection",
					ExampleSentence: "¡Hola, amigo!",
					Frequency:       12,
					CreatedAt:       created,
				}, item)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVocabularyRepo_ListUnseen(t *testing.T) {
	tests := []struct {
		name    string
		order   domain.NewCardOrder
		orderBy string
	}{
		{name: "by id", order: domain.OrderByID, orderBy: "ORDER BY v.id ASC LIMIT \\$3"},
		{name: "by frequency", order: domain.OrderByFrequency, orderBy: "ORDER BY \\(v.frequency = 0\\) ASC, v.frequency ASC, v.id ASC LIMIT \\$3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewVocabularyRepo(db)

			rows := sqlmock.NewRows(vocabularyColumnNames).
				AddRow(3, 1, "gato", "cat", nil, "noun", nil, nil, 0, time.Now()).
				AddRow(4, 1, "perro", "dog", nil, "noun", nil, nil, 0, time.Now())

			mock.ExpectQuery("FROM vocabulary v WHERE v.language_id = \\$1 AND NOT EXISTS \\( SELECT 1 FROM user_vocabulary uv WHERE uv.vocabulary_id = v.id AND uv.user_id = \\$2 \\) "+tt.orderBy).
				WithArgs(int64(1), int64(123), 10).
				WillReturnRows(rows)

			items, err := repo.ListUnseen(context.Background(), 123, 1, tt.order, 10)

			assert.NoError(t, err)
			assert.Len(t, items, 2)
			assert.Equal(t, "gato", items[0].Word)
			assert.Equal(t, "perro", items[1].Word)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVocabularyRepo_ListUnseen_UnknownOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVocabularyRepo(db)

	items, err := repo.ListUnseen(context.Background(), 123, 1, domain.NewCardOrder("random; DROP TABLE"), 10)

	assert.Error(t, err)
	assert.Nil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVocabularyRepo_ListUnseen_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVocabularyRepo(db)

	mock.ExpectQuery("FROM vocabulary v").
		WithArgs(int64(1), int64(123), 5).
		WillReturnError(fmt.Errorf("query error"))

	items, err := repo.ListUnseen(context.Background(), 123, 1, domain.OrderByID, 5)

	assert.Error(t, err)
	assert.Nil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVocabularyRepo_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVocabularyRepo(db)

	item := &domain.VocabularyItem{
		LanguageID:  1,
		Word:        "casa",
		Translation: "house",
		Frequency:   40,
	}

	mock.ExpectQuery("INSERT INTO vocabulary .* ON CONFLICT \\(language_id, word\\) DO UPDATE SET .* RETURNING id").
		WithArgs(int64(1), "casa", "house", nil, nil, nil, nil, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(55)))

	id, err := repo.Upsert(context.Background(), item)

	assert.NoError(t, err)
	assert.Equal(t, int64(55), id)
	assert.Equal(t, int64(55), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
