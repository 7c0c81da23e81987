// Package telegram renders the collection as a Telegram bot. Every chat has
// its own session; commands send new messages and buttons edit them in place.
package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/onboarding"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/service"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

const (
	ownerPrefix    = "tg:"
	warnEditFailed = "telegram-edit-failed"
)

// Bot is the part of tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// CatalogService exposes the loaded catalog and its lifecycle.
type CatalogService interface {
	Catalog() *catalog.Catalog
	State() service.LoadState
	Load(ctx context.Context) error
}

// Config holds bot settings.
type Config struct {
	PublicURL       string        // base of share links
	PageSize        int           // cards per message
	OnboardingDelay time.Duration // pause before the first-run tour
}

type Handler struct {
	bot      Bot
	logger   *zap.Logger
	catalogs CatalogService
	sessions *session.Manager
	cfg      Config
	screens  screenRenderer
	now      func() time.Time
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	catalogs CatalogService,
	sessions *session.Manager,
	cfg Config,
) *Handler {
	if cfg.OnboardingDelay <= 0 {
		cfg.OnboardingDelay = onboarding.DefaultAutoOpenDelay
	}
	return &Handler{
		bot:      bot,
		logger:   logger,
		catalogs: catalogs,
		sessions: sessions,
		cfg:      cfg,
		screens:  newScreenRenderer(cfg.PageSize),
		now:      time.Now,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	sess := h.session(ctx, chatID)

	if update.Message.IsCommand() {
		args := update.Message.CommandArguments()
		var fn HandlerFunc

		switch update.Message.Command() {
		case "start":
			fn = h.handleStart(sess)
		case "home":
			fn = h.handleGo(sess, entities.RouteHome)
		case "prophets":
			fn = h.handleGo(sess, entities.RouteProphets)
		case "topics":
			fn = h.handleGo(sess, entities.RouteTopics)
		case "favorites":
			fn = h.handleGo(sess, entities.RouteFavorites)
		case "about":
			fn = h.handleGo(sess, entities.RouteAbout)
		case "search":
			fn = h.handleSearch(sess, args)
		case "reset":
			fn = h.handleReset(sess, args)
		case "daily":
			fn = h.handleDaily(sess)
		case "settings":
			fn = h.handleSettings(sess)
		case "tour":
			fn = h.handleTour(sess)
		case "help":
			fn = h.handleHelp(sess)
		default:
			fn = h.handleUnknown(sess)
		}

		_ = h.withErrorHandling(fn)(ctx, chatID)
		return
	}

	if update.Message.Text == "" {
		return
	}
	h.handleText(ctx, chatID, sess, update.Message.Text)
}

func (h *Handler) session(ctx context.Context, chatID int64) *session.Session {
	return h.sessions.Get(ctx, ownerPrefix+strconv.FormatInt(chatID, 10))
}

// screen builds the view-model of the session's current state.
func (h *Handler) screen(snap session.Snapshot) render.Screen {
	return render.BuildScreen(render.ScreenInput{
		Catalog: h.catalogs.Catalog(),
		Status:  statusOf(h.catalogs.State()),
		State:   snap.State,
		Prefs:   snap.Prefs,
		Day:     h.now(),
	})
}

// sendScreen sends the state as a new message.
func (h *Handler) sendScreen(chatID int64, snap session.Snapshot, page int) error {
	v := h.screens.render(h.screen(snap), page)
	msg := newHTMLMessage(chatID, v.Text)
	if v.Keyboard != nil {
		msg.ReplyMarkup = *v.Keyboard
	}
	return h.send(msg)
}

// editScreen replaces the message msgID with the state.
func (h *Handler) editScreen(chatID int64, msgID int, snap session.Snapshot, page int) error {
	v := h.screens.render(h.screen(snap), page)
	return h.edit(chatID, msgID, v)
}

func (h *Handler) edit(chatID int64, msgID int, v view) error {
	if _, err := h.bot.Send(newHTMLEdit(chatID, msgID, v.Text, v.Keyboard)); err != nil {
		h.sessions.Warn().Warn(warnEditFailed, "failed to edit telegram message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
	return nil
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, esc(err))
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// answer removes the user's "clock" from a pressed button.
func (h *Handler) answer(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	a := tgbotapi.NewCallback(cb.ID, text)
	a.ShowAlert = alert
	if _, err := h.bot.Request(a); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func statusOf(state service.LoadState) render.Status {
	switch state {
	case service.StateReady:
		return render.StatusReady
	case service.StateFailed:
		return render.StatusFailed
	default:
		return render.StatusLoading
	}
}
