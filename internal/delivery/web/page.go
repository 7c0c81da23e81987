package web

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/router"
	"github.com/aliskhannn/prophets-duas-bot/internal/service"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

const pageTemplate = "page.html"

var templateFuncs = template.FuncMap{
	"segments": segmentsHTML,
	"href":     href,
	"routeHref": func(r entities.Route) string {
		return href(entities.ViewState{Route: r})
	},
	"filterHref": filterHref,
	"openHref": func(id string) string {
		return "/?" + router.Serialize(entities.ViewState{Route: entities.RouteDetail, Selected: id})
	},
	"card": func(msg *render.Messages, v render.CardView) cardData {
		return cardData{Msg: msg, Card: v}
	},
	"emptyHref": func(st entities.ViewState, a render.EmptyAction) string {
		if a.Reset {
			st = st.WithoutFilters()
		}
		st.Route = a.Route
		return href(st)
	},
}

type cardData struct {
	Msg  *render.Messages
	Card render.CardView
}

type navItem struct {
	Label  string
	Href   string
	Active bool
}

type pageData struct {
	render.Screen
	Prefs          entities.Preferences
	ProphetOptions []entities.ProphetOption
	Nav            []navItem
	Query          string
	ShareLink      string
	ShowTour       bool
	TourDelay      int64 // milliseconds
	Steps          []render.OnboardingStep
}

// GET /?<routable state>
// Also handles ?close=1 to leave the detail view.
func (s *Server) page(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	raw := c.Request.URL.RawQuery

	var snap session.Snapshot
	switch {
	case c.Query("close") == "1":
		snap = sess.Close(ctx)
	case raw == "":
		snap = sess.Snapshot()
	default:
		state := router.Parse(raw)
		if state.Route == entities.RouteDetail {
			var found bool
			if snap, _, found = sess.Open(ctx, state.Selected); !found {
				snap = sess.Navigate(ctx, raw)
			}
		} else {
			snap = sess.Navigate(ctx, raw)
		}
	}

	screen := render.BuildScreen(render.ScreenInput{
		Catalog: s.catalogs.Catalog(),
		Status:  statusOf(s.catalogs.State()),
		State:   snap.State,
		Prefs:   snap.Prefs,
		Day:     time.Now(),
	})

	data := pageData{
		Screen:         screen,
		Prefs:          snap.Prefs,
		ProphetOptions: s.catalogs.Catalog().Prophets(),
		Query:          snap.State.Query,
	}
	for _, r := range []entities.Route{entities.RouteHome, entities.RouteProphets, entities.RouteTopics, entities.RouteFavorites, entities.RouteAbout} {
		st := snap.State
		if st.Route == entities.RouteDetail {
			st = st.WithoutFilters()
		}
		st.Route = r
		data.Nav = append(data.Nav, navItem{
			Label:  screen.Msg.Section(r),
			Href:   href(st),
			Active: snap.State.Route == r,
		})
	}
	if screen.Detail != nil {
		data.ShareLink = router.ShareLink(s.shareBase(c), screen.Detail.ID)
	}
	if tour := sess.Tour(); tour.IsOpen() || tour.ShouldAutoOpen(ctx) {
		data.ShowTour = true
		data.TourDelay = s.cfg.TourDelay.Milliseconds()
		data.Steps = screen.Msg.Onboarding
	}

	c.HTML(http.StatusOK, pageTemplate, data)
}

func (s *Server) shareBase(c *gin.Context) string {
	if s.cfg.PublicURL != "" {
		return s.cfg.PublicURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/"
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

func href(st entities.ViewState) string {
	return "/?" + router.Serialize(st)
}

func filterHref(st entities.ViewState, filter, value string) string {
	st.Selected = ""
	switch filter {
	case string(session.FilterProphet):
		st.Prophet = value
	case string(session.FilterTopic):
		st.Topic = value
	case string(session.FilterSource):
		st.Source = value
	}
	return href(st)
}

func segmentsHTML(segs []render.Segment) template.HTML {
	var b strings.Builder
	for _, s := range segs {
		if s.Mark {
			b.WriteString(`<mark class="hl">`)
			b.WriteString(template.HTMLEscapeString(s.Text))
			b.WriteString(`</mark>`)
			continue
		}
		b.WriteString(template.HTMLEscapeString(s.Text))
	}
	return template.HTML(b.String()) //nolint:gosec // every segment is escaped above
}
