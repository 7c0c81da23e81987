package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/onboarding"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/router"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

// handleCallback applies a pressed button to the chat's session and edits
// the message it belongs to.
func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answer(cb, "", false)
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	sess := h.session(ctx, chatID)
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionHash:
		fn = h.onNavigate(cb, sess, msgID, data.tail(0))
	case actionGo:
		fn = h.onGo(cb, sess, msgID, entities.Route(data.tail(0)))
	case actionFilter:
		fn = h.onFilter(cb, sess, msgID, data)
	case actionReset:
		fn = h.onResetFilters(cb, sess, msgID, false)
	case actionShowAll:
		fn = h.onResetFilters(cb, sess, msgID, true)
	case actionOpen:
		fn = h.onOpen(cb, sess, msgID, data.tail(0))
	case actionClose:
		fn = h.onClose(cb, sess, msgID)
	case actionFavorite:
		fn = h.onFavorite(cb, sess, msgID, data)
	case actionPage:
		fn = h.onPage(cb, sess, msgID, data)
	case actionCopyArabic, actionCopyFull:
		fn = h.onCopy(cb, sess, data.Action, data.tail(0))
	case actionShare:
		fn = h.onShare(cb, sess, data.tail(0))
	case actionSettings:
		fn = h.onSettings(cb, sess, msgID, data)
	case actionOnboarding:
		fn = h.onTour(cb, sess, msgID, data.tail(0))
	case actionRetry:
		fn = h.onRetry(cb, sess, msgID)
	case actionBack:
		fn = h.onPage(cb, sess, msgID, callbackData{Action: actionPage})
	case actionNoop:
		h.answer(cb, "", false)
		return
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		h.answer(cb, "", false)
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) onNavigate(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, hash string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.answer(cb, "", false)
		return h.editScreen(chatID, msgID, sess.Navigate(ctx, hash), 0)
	}
}

func (h *Handler) onGo(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, route entities.Route) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.answer(cb, "", false)
		return h.editScreen(chatID, msgID, sess.Go(ctx, route), 0)
	}
}

// onFilter sets one filter; buttons of the active value carry an empty one.
func (h *Handler) onFilter(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.answer(cb, "", false)

		f, ok := filterFromCode(firstParam(data))
		if !ok {
			return nil
		}

		return h.editScreen(chatID, msgID, sess.SetFilter(ctx, f, data.tail(1)), 0)
	}
}

// onResetFilters clears the filters; home also leaves the current route.
func (h *Handler) onResetFilters(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, home bool) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.answer(cb, "", false)
		snap := sess.ResetFilters(ctx)
		if home {
			snap = sess.Go(ctx, entities.RouteHome)
		}
		return h.editScreen(chatID, msgID, snap, 0)
	}
}

func (h *Handler) onOpen(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, id string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		snap, _, ok := sess.Open(ctx, id)
		if !ok {
			h.answer(cb, render.For(snap.Prefs.Language()).NotFoundTitle, true)
			return nil
		}
		h.answer(cb, "", false)
		return h.editScreen(chatID, msgID, snap, 0)
	}
}

func (h *Handler) onClose(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.answer(cb, "", false)
		return h.editScreen(chatID, msgID, sess.Close(ctx), 0)
	}
}

// onFavorite toggles a favorite and redraws the page the button was on.
func (h *Handler) onFavorite(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		page, _ := strconv.Atoi(firstParam(data))
		id := data.tail(1)

		msg := render.For(sess.Snapshot().Prefs.Language())
		if sess.ToggleFavorite(ctx, id) {
			h.answer(cb, "⭐ "+msg.Saved, false)
		} else {
			h.answer(cb, "☆ "+msg.Save, false)
		}
		return h.editScreen(chatID, msgID, sess.Snapshot(), page)
	}
}

func (h *Handler) onPage(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, data callbackData) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		h.answer(cb, "", false)
		page, _ := strconv.Atoi(firstParam(data))
		return h.editScreen(chatID, msgID, sess.Snapshot(), page)
	}
}

// onCopy sends the text as a plain message, ready to be copied.
func (h *Handler) onCopy(cb *tgbotapi.CallbackQuery, sess *session.Session, action, id string) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		snap := sess.Snapshot()
		d, ok := sess.Catalog().Get(id)
		if !ok {
			h.answer(cb, render.For(snap.Prefs.Language()).NotFoundTitle, true)
			return nil
		}

		text := render.FullCopy(d)
		if action == actionCopyArabic {
			text = d.Arabic
		}
		if err := h.send(newPlainMessage(chatID, clip(text, maxMessageLen))); err != nil {
			return err
		}
		h.answer(cb, textsFor(snap.Prefs.Language()).Copied, false)
		return nil
	}
}

func (h *Handler) onShare(cb *tgbotapi.CallbackQuery, sess *session.Session, id string) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		t := textsFor(sess.Snapshot().Prefs.Language())
		link := router.ShareLink(h.cfg.PublicURL, id)
		h.answer(cb, "", false)
		return h.send(newPlainMessage(chatID, t.ShareLink+"\n"+link))
	}
}

// onSettings applies a settings change and redraws the settings message.
func (h *Handler) onSettings(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		value := data.tail(1)

		switch firstParam(data) {
		case settingsMenu:
		case settingsTheme:
			sess.SetTheme(ctx, value)
		case settingsLanguage:
			sess.SetLanguage(ctx, value)
		case settingsVisibility:
			sess.ToggleVisibility(ctx, value)
		case settingsFont:
			if len(data.Params) < 3 {
				h.answer(cb, "", false)
				return nil
			}
			delta, err := strconv.Atoi(data.Params[2])
			if err != nil {
				h.answer(cb, "", false)
				return nil
			}
			sess.AdjustFontSize(ctx, data.Params[1], delta)
		case settingsWipe:
			snap := sess.Reset(ctx)
			h.answer(cb, textsFor(snap.Prefs.Language()).Wiped, true)
			return h.editScreen(chatID, msgID, snap, 0)
		default:
			h.answer(cb, "", false)
			return nil
		}

		h.answer(cb, "", false)
		return h.edit(chatID, msgID, renderSettings(sess.Snapshot().Prefs))
	}
}

// onTour moves through the tour. Closing it returns to the view it was
// opened from.
func (h *Handler) onTour(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int, control string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.answer(cb, "", false)

		tour := sess.Tour()
		if !tour.IsOpen() {
			return h.editScreen(chatID, msgID, sess.Snapshot(), 0)
		}

		var (
			returnTo string
			closed   bool
		)
		switch onboarding.Control(control) {
		case onboarding.ControlNext:
			returnTo, closed = tour.Next(ctx)
		case onboarding.ControlPrev:
			tour.Prev()
		case onboarding.ControlFinish:
			returnTo, closed = tour.Finish(ctx), true
		case onboarding.ControlSkip:
			returnTo, closed = tour.Skip(ctx), true
		default:
			return nil
		}

		if closed {
			return h.editScreen(chatID, msgID, sess.Navigate(ctx, returnTo), 0)
		}
		return h.edit(chatID, msgID, renderTour(tour, render.For(sess.Snapshot().Prefs.Language())))
	}
}

// onRetry reloads the dataset after a failed load.
func (h *Handler) onRetry(cb *tgbotapi.CallbackQuery, sess *session.Session, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.catalogs.Load(ctx); err != nil {
			h.logger.Warn("dataset reload failed", zap.Error(err))
			h.answer(cb, render.For(sess.Snapshot().Prefs.Language()).ErrorTitle, true)
			return h.editScreen(chatID, msgID, sess.Snapshot(), 0)
		}
		h.answer(cb, "", false)
		return h.editScreen(chatID, msgID, sess.Navigate(ctx, sess.Snapshot().Hash), 0)
	}
}

func firstParam(data callbackData) string {
	if len(data.Params) == 0 {
		return ""
	}
	return data.Params[0]
}
