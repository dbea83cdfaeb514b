package handler

import (
	"fmt"
	"sync"
	"testing"

	"linguo/internal/domain"
	"linguo/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "grade payload", input: "7|4", expected: "7|4"},
		{name: "surrounding whitespace", input: "  12  ", expected: "12"},
		{name: "newline inside", input: "7|\n4", expected: "7|4"},
		{name: "unprintable characters", input: "\f7|4\x00", expected: "7|4"},
		{name: "only whitespace", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanCallbackData(tt.input))
		})
	}
}

func TestHandler_LanguageSelect(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		language     *domain.Language
		setError     error
		expectSet    bool
		expectEdited string
	}{
		{
			name:         "language selected",
			data:         "2",
			language:     testutil.NewTestLanguage(2, "de", "German"),
			expectSet:    true,
			expectEdited: "✅ Язык: German",
		},
		{name: "unknown language", data: "9"},
		{name: "malformed id", data: "de"},
		{
			name:      "store error",
			data:      "2",
			language:  testutil.NewTestLanguage(2, "de", "German"),
			setError:  fmt.Errorf("db error"),
			expectSet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler()
			h.SetState(123, &domain.StateData{
				State:   domain.StateReviewing,
				Session: &domain.ReviewSession{LanguageID: 1, Queue: []int64{7}},
			})

			m.languages.On("GetByID", mock.Anything, mock.Anything).Return(tt.language, nil).Maybe()
			m.users.On("SetLanguage", mock.Anything, int64(123), int64(2)).Return(tt.setError).Maybe()

			c := &fakeContext{sender: &tele.User{ID: 123}, callback: &tele.Callback{ID: "cb", Data: tt.data}}
			require.NoError(t, h.handleLanguageSelect(c))

			if tt.expectSet {
				m.users.AssertCalled(t, "SetLanguage", mock.Anything, int64(123), int64(2))
			} else {
				m.users.AssertNotCalled(t, "SetLanguage", mock.Anything, mock.Anything, mock.Anything)
			}

			if tt.expectEdited != "" {
				require.Len(t, c.edited, 1)
				assert.Contains(t, c.edited[0], tt.expectEdited)
				assert.Equal(t, domain.StateIdle, h.GetState(123).State)
			} else {
				assert.Empty(t, c.edited)
				assert.Equal(t, 1, c.responded)
				assert.Equal(t, domain.StateReviewing, h.GetState(123).State)
			}
		})
	}
}

func TestHandler_Stats(t *testing.T) {
	h, m := newTestHandler()

	m.users.On("GetLanguage", mock.Anything, int64(123)).Return(int64(1), nil)
	m.users.On("Exists", mock.Anything, int64(123)).Return(true, nil)
	m.languages.On("GetByID", mock.Anything, int64(1)).Return(testutil.NewTestLanguage(1, "es", "Spanish"), nil)
	m.cards.On("Stats", mock.Anything, int64(123), int64(1), mock.Anything).
		Return(domain.VocabularyStats{Total: 40, Mastered: 10, Learning: 5, Review: 25, DueForReview: 8}, nil)

	c := &fakeContext{sender: &tele.User{ID: 123}}
	require.NoError(t, h.handleStats(c))

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "Spanish")
	assert.Contains(t, c.sent[0], "К повторению сейчас: 8")
}

func TestHandler_Stats_NoLanguageShowsChoice(t *testing.T) {
	h, m := newTestHandler()

	m.users.On("GetLanguage", mock.Anything, int64(123)).Return(int64(0), nil)
	m.languages.On("List", mock.Anything).Return([]domain.Language{
		{ID: 1, Code: "es", Name: "Spanish"},
	}, nil)

	c := &fakeContext{sender: &tele.User{ID: 123}}
	require.NoError(t, h.handleStats(c))

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "Какой язык учим?")
	m.cards.AssertNotCalled(t, "Stats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Cancel(t *testing.T) {
	h, _ := newTestHandler()
	h.SetState(123, &domain.StateData{
		State:   domain.StateReviewing,
		Session: &domain.ReviewSession{Queue: []int64{7, 3}, Pos: 1, Reviewed: 1, Correct: 1},
	})

	c := &fakeContext{sender: &tele.User{ID: 123}, callback: &tele.Callback{ID: "cb"}}
	require.NoError(t, h.handleCancel(c))

	require.Len(t, c.edited, 1)
	assert.Contains(t, c.edited[0], "Сессия завершена")
	assert.Equal(t, domain.StateIdle, h.GetState(123).State)
}

func TestHandler_CancelDuringGrade(t *testing.T) {
	for i := 0; i < 20; i++ {
		h, m := newTestHandler()
		h.SetState(123, &domain.StateData{
			State:   domain.StateReviewing,
			Session: &domain.ReviewSession{LanguageID: 1, Queue: []int64{3, 4}},
		})

		m.users.On("Exists", mock.Anything, int64(123)).Return(true, nil)
		m.vocab.On("GetItem", mock.Anything, mock.Anything).Return(testutil.NewTestItem(3, 1, "gato", "cat"), nil)
		m.cards.On("GetCard", mock.Anything, int64(123), int64(3)).Return(nil, nil)
		m.cards.On("SaveReview", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		grade := &fakeContext{sender: &tele.User{ID: 123}, callback: &tele.Callback{ID: "cb1", Data: "3|4"}}
		cancel := &fakeContext{sender: &tele.User{ID: 123}, callback: &tele.Callback{ID: "cb2"}}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.handleGrade(grade))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, h.handleCancel(cancel))
		}()
		wg.Wait()

		assert.Equal(t, domain.StateIdle, h.GetState(123).State)
		require.Len(t, cancel.edited, 1)
		assert.Contains(t, cancel.edited[0], "Сессия завершена")
	}
}
