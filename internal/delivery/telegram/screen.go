package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

const (
	defaultPageSize   = 5
	maxTopicButtons   = 24
	maxDetailTagLinks = 6
)

var navRoutes = []entities.Route{
	entities.RouteHome,
	entities.RouteProphets,
	entities.RouteTopics,
	entities.RouteFavorites,
	entities.RouteAbout,
}

var routeIcons = map[entities.Route]string{
	entities.RouteHome:      "🏠",
	entities.RouteProphets:  "👤",
	entities.RouteTopics:    "🏷",
	entities.RouteFavorites: "⭐",
	entities.RouteAbout:     "ℹ️",
}

// view is a rendered Telegram message.
type view struct {
	Text     string
	Keyboard *tgbotapi.InlineKeyboardMarkup
	Page     int
	Pages    int
}

// screenRenderer turns a render.Screen into a Telegram message.
type screenRenderer struct {
	pageSize int
	budget   int
}

func newScreenRenderer(pageSize int) screenRenderer {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return screenRenderer{pageSize: pageSize, budget: maxMessageLen}
}

func (r screenRenderer) render(s render.Screen, page int) view {
	msg := s.Msg

	switch {
	case s.Status == render.StatusLoading:
		return view{Text: bold("⏳ "+msg.LoadingTitle) + "\n" + esc(msg.LoadingDesc)}
	case s.Status == render.StatusFailed:
		kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 "+msg.Retry, actionRetry),
		))
		return view{Text: bold("⚠️ "+msg.ErrorTitle) + "\n" + esc(msg.ErrorDesc), Keyboard: &kb}
	case s.Detail != nil:
		return r.renderDetail(s)
	case s.NotFound:
		kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ "+msg.Close, actionClose),
		))
		return view{Text: esc(msg.NotFoundTitle), Keyboard: &kb}
	case s.About != nil:
		return r.renderAbout(s)
	}
	return r.renderList(s, page)
}

func (r screenRenderer) renderList(s render.Screen, page int) view {
	msg := s.Msg

	var head strings.Builder
	head.WriteString(bold(s.Title))
	if f := filterLine(s.State); f != "" {
		head.WriteString("\n🔎 ")
		head.WriteString(esc(f))
	}
	head.WriteString("\n")
	head.WriteString(esc(fmt.Sprintf("%d %s · %d %s", s.Found, msg.Found, s.Total, msg.Prayers)))

	if s.Daily != nil {
		head.WriteString("\n\n")
		head.WriteString(bold("☀️ " + msg.Daily))
		head.WriteString("\n")
		head.WriteString(cardText(*s.Daily, msg, 0))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if s.Daily != nil {
		rows = append(rows, buttonRow(button{"📖 " + msg.Daily, buildOpenCallback(s.Daily.ID)}))
	}
	rows = append(rows, recentRows(s)...)
	rows = append(rows, optionRows(s)...)

	if s.Empty != nil {
		text := head.String() + "\n\n" + bold(s.Empty.Title) + "\n" + esc(s.Empty.Desc)
		rows = append(rows, emptyRow(s))
		rows = append(rows, navRows(s)...)
		return view{Text: text, Keyboard: markup(rows)}
	}

	cards := make([]string, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = cardText(c, msg, i+1)
	}
	pages := r.paginate(cards, utf8.RuneCountInString(head.String()))
	page = clampPage(page, len(pages))

	body := head.String()
	if len(pages) > 0 {
		for _, i := range pages[page] {
			body += "\n\n" + cards[i]
			rows = append(rows, cardRow(s.Cards[i], msg, page, i+1))
		}
	}
	if len(pages) > 1 {
		body += "\n\n" + italic(fmt.Sprintf(textsFor(s.Lang).Page, page+1, len(pages)))
		rows = append(rows, pagerRow(page, len(pages)))
	}
	rows = append(rows, navRows(s)...)

	return view{Text: clipHTML(body, r.budget), Keyboard: markup(rows), Page: page, Pages: len(pages)}
}

func (r screenRenderer) renderDetail(s render.Screen) view {
	d := *s.Detail
	msg := s.Msg

	var b strings.Builder
	b.WriteString(bold(d.Title))
	b.WriteString("\n")
	b.WriteString(italic(d.Attribution))
	b.WriteString("\n")
	b.WriteString(esc(d.RefLine))
	if d.Arabic != "" {
		b.WriteString("\n\n")
		b.WriteString(esc(clip(d.Arabic, maxFieldLen)))
	}
	for _, blk := range d.Blocks {
		b.WriteString("\n\n")
		b.WriteString(bold(blk.Label + ":"))
		b.WriteString(" ")
		b.WriteString(segments(clipSegments(blk.Text, maxFieldLen)))
	}
	if d.Reflection != "" {
		b.WriteString("\n\n")
		b.WriteString(bold(msg.Reflection))
		b.WriteString("\n")
		b.WriteString(esc(clip(d.Reflection, maxFieldLen)))
	}
	if len(d.Tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(esc(hashtags(d.Tags)))
	}
	if len(d.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(bold(msg.Sources))
		for _, src := range d.Sources {
			b.WriteString("\n• ")
			b.WriteString(esc(src))
		}
	}

	favLabel := "☆ " + msg.Save
	if d.Favorite {
		favLabel = "★ " + msg.Saved
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		buttonRow(
			button{favLabel, buildFavoriteCallback(0, d.ID)},
			button{"🔗 " + msg.Share, buildIDCallback(actionShare, d.ID)},
		),
		buttonRow(
			button{"📋 " + msg.CopyArabic, buildIDCallback(actionCopyArabic, d.ID)},
			button{"📋 " + msg.CopyFull, buildIDCallback(actionCopyFull, d.ID)},
		),
	}

	var tags []tgbotapi.InlineKeyboardButton
	for _, t := range firstTags(d.Tags, maxDetailTagLinks) {
		st := s.State.WithoutFilters()
		st.Route, st.Selected, st.Topic = entities.RouteTopics, "", t
		data := buildNavCallback(st, buildFilterCallback(session.FilterTopic, t))
		if data == "" {
			continue
		}
		tags = append(tags, tgbotapi.NewInlineKeyboardButtonData("#"+t, data))
	}
	rows = append(rows, chunk(tags, 3)...)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖️ "+msg.Close, actionClose),
	))

	return view{Text: clipHTML(b.String(), r.budget), Keyboard: markup(rows)}
}

func (r screenRenderer) renderAbout(s render.Screen) view {
	a := *s.About
	msg := s.Msg

	var b strings.Builder
	b.WriteString(bold(a.Title))
	b.WriteString("\n\n")
	b.WriteString(esc(a.Desc))
	b.WriteString("\n\n")
	b.WriteString(bold(msg.AboutNotes))
	for _, d := range a.Disclaimers {
		b.WriteString("\n• ")
		b.WriteString(esc(d))
	}
	b.WriteString("\n\n")
	b.WriteString(bold(msg.AboutSources))
	b.WriteString("\n")
	b.WriteString(esc(msg.AboutSourcesDesc))
	b.WriteString("\n\n")
	b.WriteString(esc(fmt.Sprintf("%s: %d %s", msg.AboutDataset, a.Count, msg.Prayers)))

	return view{Text: b.String(), Keyboard: markup(navRows(s))}
}

// paginate groups cards into pages of at most pageSize cards whose text,
// with the header, stays within the message budget.
func (r screenRenderer) paginate(cards []string, headLen int) [][]int {
	// room for the pager line
	budget := r.budget - headLen - 64

	var (
		pages [][]int
		cur   []int
		used  int
	)
	for i, c := range cards {
		l := utf8.RuneCountInString(c) + 2
		if len(cur) > 0 && (len(cur) == r.pageSize || used+l > budget) {
			pages = append(pages, cur)
			cur, used = nil, 0
		}
		cur = append(cur, i)
		used += l
	}
	if len(cur) > 0 {
		pages = append(pages, cur)
	}
	return pages
}

func cardText(v render.CardView, msg *render.Messages, n int) string {
	var b strings.Builder

	b.WriteString("<b>")
	if n > 0 {
		b.WriteString(strconv.Itoa(n))
		b.WriteString(". ")
	}
	b.WriteString(segments(v.Title))
	b.WriteString("</b>")
	if v.Featured {
		b.WriteString(" ⭐ ")
		b.WriteString(esc(msg.FeaturedBadge))
	}
	if v.Favorite {
		b.WriteString(" ★")
	}
	b.WriteString("\n")
	b.WriteString(italic(v.Attribution))
	b.WriteString("\n")
	b.WriteString(segments(v.RefLine))

	if v.Arabic != "" {
		b.WriteString("\n\n")
		b.WriteString(esc(clip(v.Arabic, maxFieldLen)))
	}
	for _, blk := range v.Blocks {
		b.WriteString("\n")
		b.WriteString(bold(blk.Label + ":"))
		b.WriteString(" ")
		b.WriteString(segments(clipSegments(blk.Text, maxFieldLen)))
	}
	if len(v.Reflection) > 0 {
		b.WriteString("\n💭 ")
		b.WriteString(segments(clipSegments(v.Reflection, maxFieldLen)))
	}
	if len(v.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(esc(hashtags(v.Tags)))
	}
	return b.String()
}

func cardRow(v render.CardView, msg *render.Messages, page, n int) []tgbotapi.InlineKeyboardButton {
	fav := "☆"
	if v.Favorite {
		fav = "★"
	}
	return buttonRow(
		button{fmt.Sprintf("📖 %d. %s", n, msg.Detail), buildOpenCallback(v.ID)},
		button{fav, buildFavoriteCallback(page, v.ID)},
	)
}

type button struct {
	label string
	data  string
}

// buttonRow builds a keyboard row, leaving out buttons whose callback data
// exceeds the Telegram limit.
func buttonRow(btns ...button) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	for _, b := range btns {
		if fits(b.data) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.label, b.data))
		}
	}
	return row
}

func recentRows(s render.Screen) [][]tgbotapi.InlineKeyboardButton {
	var btns []tgbotapi.InlineKeyboardButton
	for _, m := range s.Recent {
		data := buildOpenCallback(m.ID)
		if !fits(data) {
			continue
		}
		label := "🕘 " + m.Prophet
		if m.Reference != "" {
			label += " · " + m.Reference
		}
		btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}
	return chunk(btns, 2)
}

// optionRows lists the filter choices of the current route.
func optionRows(s render.Screen) [][]tgbotapi.InlineKeyboardButton {
	var btns []tgbotapi.InlineKeyboardButton
	add := func(label string, st entities.ViewState, f session.Filter, value string) {
		if data := buildNavCallback(st, buildFilterCallback(f, value)); data != "" {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(label, data))
		}
	}

	perRow := 3
	switch s.State.Route {
	case entities.RouteHome:
		for _, t := range s.PopularTopics {
			st := s.State
			st.Route, st.Topic = entities.RouteTopics, t.Key
			add("#"+t.Label, st, session.FilterTopic, t.Key)
		}
	case entities.RouteProphets:
		perRow = 2
		for _, p := range s.Prophets {
			st := s.State
			label := fmt.Sprintf("%s (%d)", p.Label, p.Count)
			st.Prophet = p.Key
			if s.State.Prophet == p.Key {
				label = "✓ " + label
				st.Prophet = ""
			}
			add(label, st, session.FilterProphet, st.Prophet)
		}
	case entities.RouteTopics:
		for i, t := range s.Topics {
			if i == maxTopicButtons {
				break
			}
			st := s.State
			label := fmt.Sprintf("%s (%d)", t.Label, t.Count)
			st.Topic = t.Key
			if s.State.Topic == t.Key {
				label = "✓ " + label
				st.Topic = ""
			}
			add(label, st, session.FilterTopic, st.Topic)
		}
	}

	if s.State.Route != entities.RouteAbout {
		for _, src := range s.Sources {
			st := s.State
			label := src
			st.Source = src
			if s.State.Source == src {
				label = "✓ " + label
				st.Source = ""
			}
			add("📚 "+label, st, session.FilterSource, st.Source)
		}
	}

	return chunk(btns, perRow)
}

func emptyRow(s render.Screen) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	for _, a := range s.Empty.Actions {
		st := s.State
		if a.Reset {
			st = st.WithoutFilters()
		}
		st.Route = a.Route

		fallback := buildGoCallback(a.Route)
		if a.Reset {
			fallback = actionShowAll
		}
		if data := buildNavCallback(st, fallback); data != "" {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(a.Label, data))
		}
	}
	return row
}

func navRows(s render.Screen) [][]tgbotapi.InlineKeyboardButton {
	var nav []tgbotapi.InlineKeyboardButton
	for _, route := range navRoutes {
		st := s.State
		st.Route, st.Selected = route, ""
		label := routeIcons[route]
		if s.State.Route == route {
			label = "• " + label + " •"
		}
		if data := buildNavCallback(st, buildGoCallback(route)); data != "" {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(label, data))
		}
	}

	tools := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⚙️ "+s.Msg.Settings, buildSettingsCallback(settingsMenu)),
	}
	if s.State.HasFilters() {
		tools = append(tools, tgbotapi.NewInlineKeyboardButtonData("♻️ "+s.Msg.Reset, actionReset))
	}

	return [][]tgbotapi.InlineKeyboardButton{nav, tools}
}

func pagerRow(page, pages int) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️", buildPageCallback(page-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, pages), actionNoop))
	if page < pages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("▶️", buildPageCallback(page+1)))
	}
	return row
}

func filterLine(st entities.ViewState) string {
	var parts []string
	for _, v := range []string{st.Query, st.Prophet, st.Topic, st.Source} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " · ")
}

func hashtags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, "#"+strings.Join(strings.Fields(t), "_"))
	}
	return strings.Join(out, " ")
}

func firstTags(tags []string, n int) []string {
	if len(tags) > n {
		return tags[:n]
	}
	return tags
}

func clampPage(page, pages int) int {
	if pages == 0 || page < 0 {
		return 0
	}
	if page >= pages {
		return pages - 1
	}
	return page
}

// clipHTML drops trailing paragraphs while text exceeds limit. Tags never
// span a paragraph break, so none is left open.
func clipHTML(text string, limit int) string {
	for utf8.RuneCountInString(text) > limit {
		i := strings.LastIndex(text, "\n\n")
		if i <= 0 {
			return string([]rune(text)[:limit-1]) + ellipsis
		}
		text = text[:i] + "\n" + ellipsis
	}
	return text
}

func chunk(btns []tgbotapi.InlineKeyboardButton, n int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(btns) > 0 {
		k := min(n, len(btns))
		rows = append(rows, btns[:k])
		btns = btns[k:]
	}
	return rows
}

func markup(rows [][]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	var kept [][]tgbotapi.InlineKeyboardButton
	for _, r := range rows {
		if len(r) > 0 {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(kept...)
	return &kb
}
