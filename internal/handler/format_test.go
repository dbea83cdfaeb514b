package handler

import (
	"testing"
	"time"

	"linguo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueue(t *testing.T) {
	tests := []struct {
		name     string
		batch    *domain.DailyBatch
		expected []int64
	}{
		{
			name:     "nil batch",
			batch:    nil,
			expected: nil,
		},
		{
			name:     "empty batch",
			batch:    &domain.DailyBatch{},
			expected: []int64{},
		},
		{
			name: "review cards before new items",
			batch: &domain.DailyBatch{
				ReviewCards: []domain.Card{{VocabularyID: 9}, {VocabularyID: 4}},
				NewCards:    []domain.VocabularyItem{{ID: 2}, {ID: 11}},
			},
			expected: []int64{9, 4, 2, 11},
		},
		{
			name: "duplicates dropped",
			batch: &domain.DailyBatch{
				ReviewCards: []domain.Card{{VocabularyID: 9}},
				NewCards:    []domain.VocabularyItem{{ID: 9}, {ID: 3}},
			},
			expected: []int64{9, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildQueue(tt.batch))
		})
	}
}

func TestParseGradeData(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expectedID  int64
		expectedQ   int
		expectError bool
	}{
		{name: "valid", data: "42|5", expectedID: 42, expectedQ: 5},
		{name: "lowest grade", data: "7|0", expectedID: 7, expectedQ: 0},
		{name: "grade out of range", data: "7|6", expectError: true},
		{name: "negative grade", data: "7|-1", expectError: true},
		{name: "missing grade", data: "7", expectError: true},
		{name: "extra field", data: "7|3|1", expectError: true},
		{name: "non-numeric id", data: "abc|3", expectError: true},
		{name: "empty", data: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, q, err := parseGradeData(tt.data)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedID, id)
			assert.Equal(t, tt.expectedQ, q)
		})
	}
}

func TestSecondsSince(t *testing.T) {
	shown := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, 12, secondsSince(shown, shown.Add(12*time.Second+400*time.Millisecond)))
	assert.Equal(t, 0, secondsSince(time.Time{}, shown))
	assert.Equal(t, 0, secondsSince(shown, shown.Add(-time.Second)))
}

func TestGradeMarkup(t *testing.T) {
	markup := gradeMarkup(7)

	require.Len(t, markup.InlineKeyboard, 3)
	require.Len(t, markup.InlineKeyboard[0], 3)
	require.Len(t, markup.InlineKeyboard[1], 3)

	first := markup.InlineKeyboard[0][0]
	assert.Equal(t, "grade", first.Unique)
	assert.Equal(t, "7|0", first.Data)

	last := markup.InlineKeyboard[1][2]
	assert.Equal(t, "7|5", last.Data)
	assert.Equal(t, "cancel", markup.InlineKeyboard[2][0].Unique)
}

func TestCardText(t *testing.T) {
	item := &domain.VocabularyItem{
		Word:            "casa",
		Translation:     "house",
		Pronunciation:   "ˈkasa",
		ExampleSentence: "Mi casa es tu casa.",
	}
	session := &domain.ReviewSession{Queue: []int64{1, 2, 3}, Pos: 1}

	front := cardFrontText(item, session)
	assert.Contains(t, front, "2 из 3")
	assert.Contains(t, front, "casa")
	assert.Contains(t, front, "[ˈkasa]")
	assert.NotContains(t, front, "house")

	back := cardBackText(item, session)
	assert.Contains(t, back, "house")
	assert.Contains(t, back, "Mi casa es tu casa.")
	assert.NotContains(t, back, "🏷")
}

func TestStatsText(t *testing.T) {
	text := statsText(&domain.Language{Name: "Spanish"}, domain.VocabularyStats{
		Total: 40, Mastered: 10, Learning: 5, Review: 25, DueForReview: 8,
	})

	assert.Contains(t, text, "Spanish")
	assert.Contains(t, text, "Всего изучается: 40")
	assert.Contains(t, text, "К повторению сейчас: 8")
}

func TestSessionSummaryText(t *testing.T) {
	assert.Equal(t, "Сессия завершена.", sessionSummaryText(nil))
	assert.Contains(t, sessionSummaryText(&domain.ReviewSession{Reviewed: 4, Correct: 3}), "Вспомнил: 3")
}

func TestLastReviewNote(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	assert.Empty(t, lastReviewNote(&domain.ReviewSession{}, now))

	session := &domain.ReviewSession{LastWord: "hola", LastNextReviewAt: now.Add(24 * time.Hour)}
	assert.Equal(t, "✅ «hola», следующий повтор: Завтра\n\n", lastReviewNote(session, now))
}
