package handler

import (
	"errors"
	"strconv"

	"linguo/internal/domain"
	"linguo/internal/service"
	"linguo/internal/srs"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleReview starts a review session over today's batch
func (h *Handler) handleReview(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	unlock := h.lockUser(userID)
	defer unlock()

	language, ok, err := h.currentLanguage(c, userID)
	if !ok {
		return err
	}

	batch, err := h.services.Batch.GetDailyBatch(ctx, userID, language.ID, h.limits.NewCardsPerDay, h.limits.ReviewCardsPerDay)
	if err != nil {
		h.logger.Error("Failed to get daily batch",
			zap.Int64("user_id", userID),
			zap.Int64("language_id", language.ID),
			zap.Error(err),
		)
		return h.respondError(c)
	}

	queue := buildQueue(batch)
	if len(queue) == 0 {
		h.ResetState(userID)
		return h.editOrSend(c, "🎉 На сегодня всё! Карточек к повторению нет.", mainMenuMarkup())
	}

	session := &domain.ReviewSession{LanguageID: language.ID, Queue: queue}
	h.SetState(userID, &domain.StateData{State: domain.StateReviewing, Session: session})

	h.logger.Info("Review session started",
		zap.Int64("user_id", userID),
		zap.Int("review_cards", len(batch.ReviewCards)),
		zap.Int("new_cards", len(batch.NewCards)),
	)

	return h.showFront(c, session)
}

// handleShow reveals the answer of the current card
func (h *Handler) handleShow(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	unlock := h.lockUser(userID)
	defer unlock()

	session, ok := h.activeSession(userID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Сессия завершена, откройте /review"})
	}

	vocabularyID, err := strconv.ParseInt(cleanCallbackData(c.Data()), 10, 64)
	current, _ := session.Current()
	if err != nil || vocabularyID != current {
		return c.Respond()
	}

	item, err := h.services.Vocabulary.GetItem(ctx, vocabularyID)
	if err != nil {
		h.logger.Error("Failed to get vocabulary item", zap.Int64("vocabulary_id", vocabularyID), zap.Error(err))
		return h.respondError(c)
	}

	return h.editOrSend(c, cardBackText(item, session), gradeMarkup(vocabularyID))
}

// handleGrade submits the grade of the current card and moves to the next one
func (h *Handler) handleGrade(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	unlock := h.lockUser(userID)
	defer unlock()

	session, ok := h.activeSession(userID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Сессия завершена, откройте /review"})
	}

	vocabularyID, quality, err := parseGradeData(cleanCallbackData(c.Data()))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная оценка"})
	}

	// Stale button of an already graded card
	if current, _ := session.Current(); vocabularyID != current {
		return c.Respond()
	}

	result, err := h.services.Review.SubmitReview(ctx, service.SubmitReviewRequest{
		UserID:           userID,
		VocabularyID:     vocabularyID,
		Quality:          quality,
		TimeTakenSeconds: secondsSince(session.ShownAt, h.now()),
	})
	if err != nil {
		h.logger.Error("Failed to submit review",
			zap.Int64("user_id", userID),
			zap.Int64("vocabulary_id", vocabularyID),
			zap.Int("quality", quality),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return c.Respond(&tele.CallbackResponse{Text: "Карточка уже обновлена, попробуйте ещё раз"})
		}
		return h.respondError(c)
	}

	h.logger.Debug("Review submitted",
		zap.Int64("user_id", userID),
		zap.Int64("vocabulary_id", vocabularyID),
		zap.Int("quality", quality),
		zap.String("status", string(result.Status)),
		zap.Time("next_review_at", result.NextReviewAt),
	)

	session.Reviewed++
	if quality >= srs.PassThreshold {
		session.Correct++
	}
	session.Pos++

	if session.Remaining() == 0 {
		h.ResetState(userID)
		return h.editOrSend(c, sessionSummaryText(session)+"\n\n"+mainMenuText, mainMenuMarkup())
	}

	session.LastNextReviewAt = result.NextReviewAt
	session.LastWord = ""
	if item, err := h.services.Vocabulary.GetItem(ctx, vocabularyID); err == nil {
		session.LastWord = item.Word
	}

	return h.showFront(c, session)
}

// showFront shows the word of the current card and starts timing the answer
func (h *Handler) showFront(c tele.Context, session *domain.ReviewSession) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	vocabularyID, ok := session.Current()
	if !ok {
		return h.editOrSend(c, sessionSummaryText(session), mainMenuMarkup())
	}

	item, err := h.services.Vocabulary.GetItem(ctx, vocabularyID)
	if err != nil {
		h.logger.Error("Failed to get vocabulary item", zap.Int64("vocabulary_id", vocabularyID), zap.Error(err))
		return h.respondError(c)
	}

	session.ShownAt = h.now()
	return h.editOrSend(c, lastReviewNote(session, session.ShownAt)+cardFrontText(item, session), showMarkup(vocabularyID))
}

// activeSession returns the user's running review session
func (h *Handler) activeSession(userID int64) (*domain.ReviewSession, bool) {
	state := h.GetState(userID)
	if state.State != domain.StateReviewing || state.Session == nil {
		return nil, false
	}
	if _, ok := state.Session.Current(); !ok {
		return nil, false
	}
	return state.Session, true
}
