package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"linguo/internal/domain"
	"linguo/internal/middleware"
	"linguo/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const requestTimeout = 10 * time.Second

// Services groups the services the bot talks to
type Services struct {
	Auth       *service.AuthService
	Vocabulary *service.VocabularyService
	Batch      *service.BatchService
	Review     *service.ReviewService
	Stats      *service.StatsService
}

// Limits are the daily caps passed to the batch selector
type Limits struct {
	NewCardsPerDay    int
	ReviewCardsPerDay int
}

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	services Services
	limits   Limits
	logger   *zap.Logger
	now      func() time.Time

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Per-user locks so double taps on a card are handled one at a time
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, services Services, limits Limits, logger *zap.Logger) *Handler {
	return &Handler{
		bot:           bot,
		services:      services,
		limits:        limits,
		logger:        logger,
		now:           time.Now,
		states:        make(map[int64]*domain.StateData),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages, the password prompt lives here
	h.bot.Handle(tele.OnText, h.handleText)

	// Everything else requires an authorized user
	authed := h.bot.Group()
	authed.Use(middleware.AuthMiddleware(h.services.Auth, h.logger))

	authed.Handle("/review", h.handleReview)
	authed.Handle("/stats", h.handleStats)
	authed.Handle("/language", h.handleLanguages)

	authed.Handle(&btnReview, h.handleReview)
	authed.Handle(&btnStats, h.handleStats)
	authed.Handle(&btnLanguages, h.handleLanguages)
	authed.Handle(&btnCancel, h.handleCancel)
	authed.Handle(&btnBack, h.handleMainMenu)
	authed.Handle(&btnMainMenu, h.handleMainMenu)

	// Buttons carrying a payload
	authed.Handle(&btnShow, h.handleShow)
	authed.Handle(&btnGrade, h.handleGrade)
	authed.Handle(&btnLanguage, h.handleLanguageSelect)

	// Fallback for callbacks no button matched
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// SendReminder tells the user how many cards are waiting
func (h *Handler) SendReminder(userID int64, dueCount int) error {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnReview))

	text := fmt.Sprintf("⏰ Пора повторить слова!\n\nКарточек к повторению: %d", dueCount)
	if _, err := h.bot.Send(&tele.User{ID: userID}, text, markup); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// lockUser serializes callbacks of one user, call the returned func to release
func (h *Handler) lockUser(userID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnReview = tele.Btn{
		Unique: "review",
		Text:   "📚 Повторение",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Статистика",
	}
	btnLanguages = tele.Btn{
		Unique: "languages",
		Text:   "🌍 Язык",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Завершить",
	}
	btnBack = tele.Btn{
		Unique: "back",
		Text:   "🏠 Назад",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Главное меню",
	}

	// Endpoints for buttons built with markup.Data
	btnShow     = tele.Btn{Unique: "show"}
	btnGrade    = tele.Btn{Unique: "grade"}
	btnLanguage = tele.Btn{Unique: "lang"}
)

const mainMenuText = "🏠 Главное меню\n\nВыберите действие:"

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnReview),
		menu.Row(btnStats, btnLanguages),
	)
	return menu
}
