package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/onboarding"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/router"
	"github.com/aliskhannn/prophets-duas-bot/internal/service"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

const (
	errDatasetLoading   = "dataset loading"
	errUnknownTourInput = "unknown tour control"
)

// Tour controls that are not buttons.
const (
	tourOpen   = "open"
	tourReplay = "replay"
	tourEscape = "escape"
)

// GET /healthz
func (s *Server) healthz(c *gin.Context) {
	state := s.catalogs.State()
	code := http.StatusOK
	if state != service.StateReady {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, HealthResponse{Status: state.String(), Duas: s.catalogs.Catalog().Len()})
}

// GET /api/duas?view=&q=&prophet=&topic=&source=
func (s *Server) listDuas(c *gin.Context, sess *session.Session) (any, *Error) {
	cat, apiErr := s.requireCatalog()
	if apiErr != nil {
		return nil, apiErr
	}

	state := router.Parse(c.Request.URL.RawQuery)
	if state.Route == entities.RouteDetail {
		state.Route, state.Selected = entities.RouteHome, ""
	}

	prefs := sess.Snapshot().Prefs
	entries := cat.FilterEntries(catalog.CriteriaFromState(state, prefs.Favorites))

	items := make([]CardResponse, 0, len(entries))
	for _, d := range entries {
		items = append(items, toCard(render.Card(d, prefs, render.CardOptions{Highlight: state.Query})))
	}

	return ListResponse{
		State: toState(state),
		Found: len(items),
		Total: cat.Len(),
		Items: items,
	}, nil
}

// GET /api/duas/:id[?open=1]
func (s *Server) getDua(c *gin.Context, sess *session.Session) (any, *Error) {
	cat, apiErr := s.requireCatalog()
	if apiErr != nil {
		return nil, apiErr
	}

	id := c.Param("id")
	d, err := cat.MustGet(id)
	if err != nil {
		if errors.Is(err, catalog.ErrEntryNotFound) {
			return nil, &Error{Code: http.StatusNotFound, Message: err.Error()}
		}
		return nil, &Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	if c.Query("open") == "1" {
		sess.Open(c.Request.Context(), id)
	}

	prefs := sess.Snapshot().Prefs
	return toDetail(render.Detail(d, prefs), d, router.ShareLink(s.cfg.PublicURL, id)), nil
}

// GET /api/prophets
func (s *Server) listProphets(*gin.Context) (any, *Error) {
	cat, apiErr := s.requireCatalog()
	if apiErr != nil {
		return nil, apiErr
	}
	return cat.Prophets(), nil
}

// GET /api/topics[?popular=n]
func (s *Server) listTopics(c *gin.Context) (any, *Error) {
	cat, apiErr := s.requireCatalog()
	if apiErr != nil {
		return nil, apiErr
	}

	var q struct {
		Popular int `form:"popular"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, &Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if q.Popular > 0 {
		return cat.PopularTopics(q.Popular), nil
	}
	return cat.Topics(), nil
}

// GET /api/sources
func (s *Server) listSources(*gin.Context) (any, *Error) {
	cat, apiErr := s.requireCatalog()
	if apiErr != nil {
		return nil, apiErr
	}
	return cat.Sources(), nil
}

// GET /api/route?hash=
func (s *Server) parseRoute(c *gin.Context) (any, *Error) {
	state := router.Parse(c.Query("hash"))

	resp := RouteResponse{State: toState(state), Hash: router.Serialize(state)}
	if state.Route == entities.RouteDetail {
		resp.ShareLink = router.ShareLink(s.cfg.PublicURL, state.Selected)
	}
	return resp, nil
}

// GET /api/preferences
func (s *Server) getPreferences(_ *gin.Context, sess *session.Session) (any, *Error) {
	return sess.Snapshot().Prefs, nil
}

// PATCH /api/preferences
func (s *Server) patchPreferences(c *gin.Context, sess *session.Session) (any, *Error) {
	next := sess.Snapshot().Prefs
	if err := c.ShouldBindJSON(&next); err != nil {
		return nil, &Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	return sess.UpdatePreferences(c.Request.Context(), next).Prefs, nil
}

// POST /api/favorites/:id
func (s *Server) toggleFavorite(c *gin.Context, sess *session.Session) (any, *Error) {
	cat, apiErr := s.requireCatalog()
	if apiErr != nil {
		return nil, apiErr
	}

	id := c.Param("id")
	if _, ok := cat.Get(id); !ok {
		return nil, &Error{Code: http.StatusNotFound, Message: catalog.ErrEntryNotFound.Error()}
	}

	return FavoriteResponse{ID: id, Favorite: sess.ToggleFavorite(c.Request.Context(), id)}, nil
}

// GET /api/onboarding
func (s *Server) getOnboarding(c *gin.Context, sess *session.Session) (any, *Error) {
	prefs := sess.Snapshot().Prefs
	return OnboardingResponse{
		Seen:  sess.OnboardingSeen(c.Request.Context()),
		Steps: render.For(prefs.Language()).Onboarding,
	}, nil
}

// POST /api/onboarding/seen
func (s *Server) markOnboardingSeen(c *gin.Context, sess *session.Session) (any, *Error) {
	sess.MarkOnboardingSeen(c.Request.Context())
	return gin.H{"seen": true}, nil
}

// GET /api/tour
func (s *Server) getTour(c *gin.Context, sess *session.Session) (any, *Error) {
	return toTour(c, sess), nil
}

// POST /api/tour/:control
// open only opens a tour that was never seen; replay opens it regardless.
func (s *Server) controlTour(c *gin.Context, sess *session.Session) (any, *Error) {
	ctx := c.Request.Context()
	snap := sess.Snapshot()
	steps := len(render.For(snap.Prefs.Language()).Onboarding)
	tour := sess.Tour()

	switch c.Param("control") {
	case tourOpen:
		if tour.ShouldAutoOpen(ctx) {
			tour.Open(steps, snap.Hash)
		}
	case tourReplay:
		tour.Replay(steps, snap.Hash)
	case string(onboarding.ControlNext):
		tour.Next(ctx)
	case string(onboarding.ControlPrev):
		tour.Prev()
	case string(onboarding.ControlFinish):
		tour.Finish(ctx)
	case string(onboarding.ControlSkip):
		tour.Skip(ctx)
	case tourEscape:
		tour.Escape(ctx)
	default:
		return nil, &Error{Code: http.StatusBadRequest, Message: errUnknownTourInput}
	}

	return toTour(c, sess), nil
}

func toTour(c *gin.Context, sess *session.Session) TourResponse {
	tour := sess.Tour()
	step, total := tour.Current()

	resp := TourResponse{
		Open:     tour.IsOpen(),
		Seen:     sess.OnboardingSeen(c.Request.Context()),
		Step:     step,
		Total:    total,
		Controls: []string{},
		Focused:  string(tour.Focused()),
	}
	for _, ctrl := range tour.Controls() {
		resp.Controls = append(resp.Controls, string(ctrl))
	}
	return resp
}

// POST /api/reload
func (s *Server) reload(c *gin.Context) (any, *Error) {
	if err := s.catalogs.Load(c.Request.Context()); err != nil {
		s.logger.Warn("reload requested over http failed", zap.Error(err))
		return nil, &Error{Code: http.StatusServiceUnavailable, Message: service.ErrDatasetUnavailable.Error()}
	}
	return HealthResponse{Status: s.catalogs.State().String(), Duas: s.catalogs.Catalog().Len()}, nil
}

func (s *Server) requireCatalog() (*catalog.Catalog, *Error) {
	if cat := s.catalogs.Catalog(); cat != nil {
		return cat, nil
	}
	if s.catalogs.State() == service.StateFailed {
		return nil, &Error{Code: http.StatusServiceUnavailable, Message: service.ErrDatasetUnavailable.Error()}
	}
	return nil, &Error{Code: http.StatusServiceUnavailable, Message: errDatasetLoading}
}
