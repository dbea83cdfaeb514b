package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"linguo/internal/domain"
	"linguo/internal/srs"

	tele "gopkg.in/telebot.v3"
)

// Grade button labels, indexed by quality
var gradeLabels = [...]string{"0 😶", "1 😣", "2 😕", "3 🤔", "4 🙂", "5 😎"}

// buildQueue orders a batch for presentation: due cards first, then new items
func buildQueue(batch *domain.DailyBatch) []int64 {
	if batch == nil {
		return nil
	}

	queue := make([]int64, 0, len(batch.ReviewCards)+len(batch.NewCards))
	seen := make(map[int64]bool, cap(queue))
	for _, card := range batch.ReviewCards {
		if !seen[card.VocabularyID] {
			seen[card.VocabularyID] = true
			queue = append(queue, card.VocabularyID)
		}
	}
	for _, item := range batch.NewCards {
		if !seen[item.ID] {
			seen[item.ID] = true
			queue = append(queue, item.ID)
		}
	}
	return queue
}

// parseGradeData parses the "<vocabulary id>|<quality>" payload of a grade button
func parseGradeData(data string) (int64, int, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed grade data %q", data)
	}

	vocabularyID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed vocabulary id: %w", err)
	}

	quality, err := strconv.Atoi(parts[1])
	if err != nil || !srs.ValidQuality(quality) {
		return 0, 0, fmt.Errorf("malformed quality %q", parts[1])
	}

	return vocabularyID, quality, nil
}

func secondsSince(shownAt, now time.Time) int {
	if shownAt.IsZero() || now.Before(shownAt) {
		return 0
	}
	return int(now.Sub(shownAt) / time.Second)
}

func showMarkup(vocabularyID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("👀 Показать ответ", btnShow.Unique, strconv.FormatInt(vocabularyID, 10))),
		markup.Row(btnCancel),
	)
	return markup
}

func gradeMarkup(vocabularyID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	id := strconv.FormatInt(vocabularyID, 10)

	grades := make([]tele.Btn, 0, len(gradeLabels))
	for q, label := range gradeLabels {
		grades = append(grades, markup.Data(label, btnGrade.Unique, id, strconv.Itoa(q)))
	}

	markup.Inline(
		markup.Row(grades[:3]...),
		markup.Row(grades[3:]...),
		markup.Row(btnCancel),
	)
	return markup
}

func progressLine(session *domain.ReviewSession) string {
	return fmt.Sprintf("📖 Карточка %d из %d", session.Pos+1, len(session.Queue))
}

func cardFrontText(item *domain.VocabularyItem, session *domain.ReviewSession) string {
	var b strings.Builder
	b.WriteString(progressLine(session))
	b.WriteString("\n\n")
	b.WriteString(item.Word)
	if item.Pronunciation != "" {
		fmt.Fprintf(&b, "\n[%s]", item.Pronunciation)
	}
	return b.String()
}

// lastReviewNote tells when the previously graded word comes back
func lastReviewNote(session *domain.ReviewSession, now time.Time) string {
	if session.LastWord == "" || session.LastNextReviewAt.IsZero() {
		return ""
	}
	return fmt.Sprintf("✅ «%s», следующий повтор: %s\n\n", session.LastWord, domain.DueLabel(session.LastNextReviewAt, now))
}

func cardBackText(item *domain.VocabularyItem, session *domain.ReviewSession) string {
	var b strings.Builder
	b.WriteString(cardFrontText(item, session))
	fmt.Fprintf(&b, "\n\n🔄 %s", item.Translation)
	if item.PartOfSpeech != "" {
		fmt.Fprintf(&b, "\n🏷 %s", item.PartOfSpeech)
	}
	if item.Definition != "" {
		fmt.Fprintf(&b, "\n📝 %s", item.Definition)
	}
	if item.ExampleSentence != "" {
		fmt.Fprintf(&b, "\n💬 %s", item.ExampleSentence)
	}
	b.WriteString("\n\nНасколько легко вспомнилось? (0 — не вспомнил, 5 — сразу)")
	return b.String()
}

func statsText(language *domain.Language, stats domain.VocabularyStats) string {
	return fmt.Sprintf(
		"📊 Статистика: %s\n\nВсего изучается: %d\n🌱 Изучаю: %d\n🔁 Повторяю: %d\n🏆 Выучено: %d\n\n⏰ К повторению сейчас: %d",
		language.Name,
		stats.Total,
		stats.Learning,
		stats.Review,
		stats.Mastered,
		stats.DueForReview,
	)
}

func sessionSummaryText(session *domain.ReviewSession) string {
	if session == nil || session.Reviewed == 0 {
		return "Сессия завершена."
	}
	return fmt.Sprintf("✅ Сессия завершена!\n\nПовторено: %d\nВспомнил: %d", session.Reviewed, session.Correct)
}
