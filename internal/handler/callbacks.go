package handler

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"linguo/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// The message was already edited by another callback
	if errors.Is(err, tele.ErrSameMessageContent) || strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// editOrSend edits the message of a callback, or sends a new one for commands
func (h *Handler) editOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleCallback acknowledges callbacks that no button endpoint matched,
// e.g. buttons of a keyboard from an older bot version
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", cleanCallbackData(callback.Data)),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)
	return c.Respond(&tele.CallbackResponse{Text: "Кнопка устарела, откройте /start"})
}

// handleMainMenu shows the main menu
func (h *Handler) handleMainMenu(c tele.Context) error {
	return h.editOrSend(c, mainMenuText, mainMenuMarkup())
}

// handleCancel ends the current review session
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	unlock := h.lockUser(userID)
	defer unlock()

	state := h.GetState(userID)
	h.ResetState(userID)

	text := mainMenuText
	if state.State == domain.StateReviewing {
		text = sessionSummaryText(state.Session) + "\n\n" + mainMenuText
	}
	return h.editOrSend(c, text, mainMenuMarkup())
}

// handleStats shows progress in the current language
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	language, ok, err := h.currentLanguage(c, userID)
	if !ok {
		return err
	}

	stats, err := h.services.Stats.GetStats(ctx, userID, language.ID)
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Int64("user_id", userID), zap.Error(err))
		return h.respondError(c)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnReview), markup.Row(btnBack))

	return h.editOrSend(c, statsText(language, stats), markup)
}

// handleLanguages lists the languages to choose from
func (h *Handler) handleLanguages(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	languages, err := h.services.Vocabulary.ListLanguages(ctx)
	if err != nil {
		h.logger.Error("Failed to list languages", zap.Int64("user_id", userID), zap.Error(err))
		return h.respondError(c)
	}

	if len(languages) == 0 {
		return h.editOrSend(c, "Языки пока не добавлены", nil)
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(languages)+1)
	for _, language := range languages {
		rows = append(rows, markup.Row(markup.Data(language.Name, btnLanguage.Unique, strconv.FormatInt(language.ID, 10))))
	}
	rows = append(rows, markup.Row(btnBack))
	markup.Inline(rows...)

	return h.editOrSend(c, "🌍 Какой язык учим?", markup)
}

// handleLanguageSelect switches the user's language
func (h *Handler) handleLanguageSelect(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	unlock := h.lockUser(userID)
	defer unlock()

	languageID, err := strconv.ParseInt(cleanCallbackData(c.Data()), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверный язык"})
	}

	language, err := h.services.Vocabulary.SetUserLanguage(ctx, userID, languageID)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "Язык не найден", ShowAlert: true})
	}
	if err != nil {
		h.logger.Error("Failed to set language",
			zap.Int64("user_id", userID),
			zap.Int64("language_id", languageID),
			zap.Error(err),
		)
		return h.respondError(c)
	}

	h.logger.Info("Language selected", zap.Int64("user_id", userID), zap.String("language", language.Code))

	// A running session belongs to the previous language
	h.ResetState(userID)
	return h.editOrSend(c, "✅ Язык: "+language.Name+"\n\n"+mainMenuText, mainMenuMarkup())
}

// currentLanguage loads the user's language, prompting for one if none is set.
// When ok is false the returned error is the result of the prompt.
func (h *Handler) currentLanguage(c tele.Context, userID int64) (*domain.Language, bool, error) {
	ctx, cancel := h.requestContext()
	defer cancel()

	languageID, err := h.services.Vocabulary.UserLanguage(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get user language", zap.Int64("user_id", userID), zap.Error(err))
		return nil, false, h.respondError(c)
	}
	if languageID == 0 {
		return nil, false, h.handleLanguages(c)
	}

	language, err := h.services.Vocabulary.GetLanguage(ctx, languageID)
	if err != nil {
		h.logger.Error("Failed to get language", zap.Int64("language_id", languageID), zap.Error(err))
		return nil, false, h.respondError(c)
	}
	return language, true, nil
}

func (h *Handler) respondError(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка при загрузке"})
	}
	return c.Send(errorText)
}
