package handler

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	errorText          = "Произошла ошибка. Попробуйте позже."
	passwordPromptText = "Привет! Чтобы начать, введи пароль:"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.services.Auth.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(errorText)
	}

	// Check if authorized
	authorized, err := h.services.Auth.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(errorText)
	}

	h.ResetState(userID)

	if !authorized {
		return c.Send(passwordPromptText)
	}

	return h.sendMainMenu(c, userID)
}

// handleText handles plain text, which is only meaningful as a password
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())
	ctx, cancel := h.requestContext()
	defer cancel()

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	if err := h.services.Auth.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	authorized, err := h.services.Auth.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(errorText)
	}

	if authorized {
		return c.Send(mainMenuText, mainMenuMarkup())
	}

	if !h.services.Auth.CheckPassword(text) {
		return c.Send("❌ Неверный пароль")
	}

	if err := h.services.Auth.AuthorizeUser(ctx, userID); err != nil {
		h.logger.Error("Failed to authorize user", zap.Error(err))
		return c.Send(errorText)
	}

	h.logger.Info("User authorized", zap.Int64("user_id", userID))
	h.ResetState(userID)

	if err := c.Send("✅ Доступ разрешён!"); err != nil {
		return err
	}
	return h.sendMainMenu(c, userID)
}

// sendMainMenu shows the menu, or the language list if no language was chosen yet
func (h *Handler) sendMainMenu(c tele.Context, userID int64) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	languageID, err := h.services.Vocabulary.UserLanguage(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get user language", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(errorText)
	}
	if languageID == 0 {
		return h.handleLanguages(c)
	}

	return c.Send(mainMenuText, mainMenuMarkup())
}
