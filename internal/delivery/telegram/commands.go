package telegram

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

// handleStart greets the user, shows the restored view and schedules the
// first-run tour.
func (h *Handler) handleStart(sess *session.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		snap := sess.Snapshot()
		t := textsFor(snap.Prefs.Language())

		if err := h.send(newHTMLMessage(chatID, esc(t.Welcome))); err != nil {
			return err
		}
		if err := h.sendScreen(chatID, snap, 0); err != nil {
			return err
		}

		h.scheduleTour(ctx, chatID, sess)
		return nil
	}
}

// scheduleTour opens the tour after the configured delay unless it was seen.
func (h *Handler) scheduleTour(ctx context.Context, chatID int64, sess *session.Session) {
	tour := sess.Tour()
	if !tour.ShouldAutoOpen(ctx) {
		return
	}

	snap := sess.Snapshot()
	steps := len(render.For(snap.Prefs.Language()).Onboarding)
	tour.AutoOpen(ctx, h.cfg.OnboardingDelay, steps, snap.Hash, func() {
		_ = h.withErrorHandling(h.sendTour(sess))(ctx, chatID)
	})
}

func (h *Handler) sendTour(sess *session.Session) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		v := renderTour(sess.Tour(), render.For(sess.Snapshot().Prefs.Language()))
		msg := newHTMLMessage(chatID, v.Text)
		if v.Keyboard != nil {
			msg.ReplyMarkup = *v.Keyboard
		}
		return h.send(msg)
	}
}

// handleGo switches route, keeping the active filters.
func (h *Handler) handleGo(sess *session.Session, route entities.Route) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.sendScreen(chatID, sess.Go(ctx, route), 0)
	}
}

func (h *Handler) handleSearch(sess *session.Session, query string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		query = strings.TrimSpace(query)
		if query == "" {
			t := textsFor(sess.Snapshot().Prefs.Language())
			return h.send(newHTMLMessage(chatID, esc(t.SearchUsage)))
		}
		return h.sendScreen(chatID, sess.Search(ctx, query), 0)
	}
}

// handleReset clears the filters; "/reset all" forgets everything stored.
func (h *Handler) handleReset(sess *session.Session, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.EqualFold(strings.TrimSpace(args), "all") {
			snap := sess.Reset(ctx)
			t := textsFor(snap.Prefs.Language())
			if err := h.send(newHTMLMessage(chatID, esc(t.Wiped))); err != nil {
				return err
			}
			return h.sendScreen(chatID, snap, 0)
		}
		return h.sendScreen(chatID, sess.ResetFilters(ctx), 0)
	}
}

// handleDaily opens the dua of the day.
func (h *Handler) handleDaily(sess *session.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		d, ok := h.catalogs.Catalog().Daily(h.now())
		if !ok {
			return h.sendScreen(chatID, sess.Go(ctx, entities.RouteHome), 0)
		}
		snap, _, _ := sess.Open(ctx, d.ID)
		return h.sendScreen(chatID, snap, 0)
	}
}

func (h *Handler) handleSettings(sess *session.Session) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		v := renderSettings(sess.Snapshot().Prefs)
		msg := newHTMLMessage(chatID, v.Text)
		msg.ReplyMarkup = *v.Keyboard
		return h.send(msg)
	}
}

// handleTour replays the tour, even when it was seen.
func (h *Handler) handleTour(sess *session.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		snap := sess.Snapshot()
		steps := len(render.For(snap.Prefs.Language()).Onboarding)
		if !sess.Tour().Replay(steps, snap.Hash) {
			return nil
		}
		return h.sendTour(sess)(ctx, chatID)
	}
}

func (h *Handler) handleHelp(sess *session.Session) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		t := textsFor(sess.Snapshot().Prefs.Language())
		return h.send(newHTMLMessage(chatID, t.Help))
	}
}

func (h *Handler) handleUnknown(sess *session.Session) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		t := textsFor(sess.Snapshot().Prefs.Language())
		return h.send(newHTMLMessage(chatID, esc(t.Unknown)))
	}
}

// handleText searches for plain text. Messages arriving within the debounce
// delay collapse into the last one.
func (h *Handler) handleText(ctx context.Context, chatID int64, sess *session.Session, text string) {
	sess.SearchDebounced(ctx, text, func(snap session.Snapshot) {
		h.logger.Debug("search published",
			zap.Int64("chat_id", chatID),
			zap.String("hash", snap.Hash),
		)
		_ = h.withErrorHandling(func(_ context.Context, chatID int64) error {
			return h.sendScreen(chatID, snap, 0)
		})(ctx, chatID)
	})
}
