package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/aliskhannn/prophets-duas-bot/internal/catalog"
	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
	"github.com/aliskhannn/prophets-duas-bot/internal/service"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
	"github.com/aliskhannn/prophets-duas-bot/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const testChatID int64 = 42

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	nextID   int
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbotapi.Update, 8)}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {}

func (b *fakeBot) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (b *fakeBot) edits() []tgbotapi.EditMessageTextConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range b.sent {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

func (b *fakeBot) answers() []tgbotapi.CallbackConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, c := range b.requests {
		if a, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, a)
		}
	}
	return out
}

func (b *fakeBot) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()
	edits := b.edits()
	require.NotEmpty(t, edits)
	return edits[len(edits)-1]
}

func (b *fakeBot) lastAnswer(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	answers := b.answers()
	require.NotEmpty(t, answers)
	return answers[len(answers)-1]
}

type stubCatalogs struct {
	mu      sync.Mutex
	cat     *catalog.Catalog
	state   service.LoadState
	loadErr error
}

func (s *stubCatalogs) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat
}

func (s *stubCatalogs) State() service.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubCatalogs) Load(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		s.state = service.StateFailed
		return s.loadErr
	}
	s.state = service.StateReady
	return nil
}

func testEntries() []entities.Dua {
	return []entities.Dua{
		{
			ID:              "e1",
			Prophet:         entities.ProphetNames{EN: "Ibrahim", TR: "İbrahim"},
			Arabic:          "رَبِّ اجْعَلْنِي مُقِيمَ الصَّلَاةِ",
			Transliteration: "Rabbi-j'alni muqimas-salati",
			English:         "My Lord, make me an establisher of prayer",
			Topics:          []string{"patience", "prayer"},
			Source:          entities.Source{Type: "Quran", Reference: "14:40"},
		},
		{
			ID:      "e2",
			Prophet: entities.ProphetNames{EN: "Musa"},
			English: "My Lord, I have wronged myself, so pardon me",
			Topics:  []string{"forgiveness"},
			Source:  entities.Source{Type: "Quran", Reference: "28:16"},
		},
	}
}

func readyCatalogs() *stubCatalogs {
	return &stubCatalogs{
		state: service.StateReady,
		cat:   catalog.New(testEntries(), zap.NewNop()),
	}
}

func newTestHandler(t *testing.T, catalogs *stubCatalogs, cfg Config) (*Handler, *fakeBot) {
	t.Helper()

	sessions := session.NewManager(storage.NewKVStorage(), catalogs, zap.NewNop(), 20*time.Millisecond)
	t.Cleanup(sessions.Close)

	bot := newFakeBot()
	h := NewHandler(bot, zap.NewNop(), catalogs, sessions, cfg)
	h.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }
	return h, bot
}

func commandUpdate(text string) tgbotapi.Update {
	cmd := text
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmd = text[:i]
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: testChatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: testChatID},
		Text: text,
	}}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: testChatID},
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: 7,
			Chat:      &tgbotapi.Chat{ID: testChatID},
		},
	}}
}

func testSession(h *Handler) *session.Session {
	return h.session(context.Background(), testChatID)
}

// ---------------------------------------------------------------------------
// Callback data
// ---------------------------------------------------------------------------

func TestCallbackData_RoundTrip(t *testing.T) {
	t.Parallel()

	data := decodeCallback(buildFavoriteCallback(2, "quran:14:40"))
	assert.Equal(t, actionFavorite, data.Action)
	assert.Equal(t, "2", firstParam(data))
	assert.Equal(t, "quran:14:40", data.tail(1))
	assert.Empty(t, data.tail(5))

	settings := decodeCallback(buildSettingsCallback(settingsFont, entities.FontArabic, "-1"))
	assert.Equal(t, []string{settingsFont, entities.FontArabic, "-1"}, settings.Params)

	f, ok := filterFromCode(firstParam(decodeCallback(buildFilterCallback(session.FilterSource, "Quran"))))
	require.True(t, ok)
	assert.Equal(t, session.FilterSource, f)
}

func TestBuildNavCallback(t *testing.T) {
	t.Parallel()

	short := entities.ViewState{Route: entities.RouteTopics, Topic: "patience"}
	assert.True(t, strings.HasPrefix(buildNavCallback(short, "g:topics"), actionHash+":"))

	long := entities.ViewState{Route: entities.RouteHome, Query: strings.Repeat("x", 80)}
	assert.Equal(t, "g:home", buildNavCallback(long, "g:home"))
	assert.Empty(t, buildNavCallback(long, strings.Repeat("y", 80)))
}

// ---------------------------------------------------------------------------
// Screen rendering
// ---------------------------------------------------------------------------

func buildTestScreen(cat *catalog.Catalog, st entities.ViewState) render.Screen {
	return render.BuildScreen(render.ScreenInput{
		Catalog: cat,
		Status:  render.StatusReady,
		State:   st,
		Prefs:   entities.DefaultPreferences(),
		Day:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})
}

func TestScreenRenderer_HighlightsQuery(t *testing.T) {
	t.Parallel()

	cat := catalog.New(testEntries(), zap.NewNop())
	v := newScreenRenderer(0).render(buildTestScreen(cat, entities.ViewState{Route: entities.RouteHome, Query: "wronged"}), 0)

	assert.Contains(t, v.Text, "<u><b>wronged</b></u>")
	assert.Contains(t, v.Text, "1 found")
}

func TestScreenRenderer_PagesStayWithinLimit(t *testing.T) {
	t.Parallel()

	var entries []entities.Dua
	for i := range 12 {
		entries = append(entries, entities.Dua{
			ID:      "d" + string(rune('a'+i)),
			Prophet: entities.ProphetNames{EN: "Yunus"},
			English: strings.Repeat("There is no deity except You. ", 30),
			Source:  entities.Source{Type: "Quran", Reference: "21:87"},
		})
	}
	cat := catalog.New(entries, zap.NewNop())
	s := buildTestScreen(cat, entities.ViewState{Route: entities.RouteProphets})
	r := newScreenRenderer(5)

	first := r.render(s, 0)
	require.GreaterOrEqual(t, first.Pages, 3)

	for page := range first.Pages {
		v := r.render(s, page)
		assert.Equal(t, page, v.Page)
		assert.LessOrEqual(t, len([]rune(v.Text)), maxMessageLen)
	}

	// out of range pages clamp to the last one
	assert.Equal(t, first.Pages-1, r.render(s, 99).Page)
}

func TestScreenRenderer_FailedOffersRetry(t *testing.T) {
	t.Parallel()

	s := render.BuildScreen(render.ScreenInput{Status: render.StatusFailed, Prefs: entities.DefaultPreferences()})
	v := newScreenRenderer(0).render(s, 0)

	require.NotNil(t, v.Keyboard)
	assert.Equal(t, actionRetry, *v.Keyboard.InlineKeyboard[0][0].CallbackData)
}

func TestScreenRenderer_CallbackDataFits(t *testing.T) {
	t.Parallel()

	cat := catalog.New(testEntries(), zap.NewNop())
	r := newScreenRenderer(0)
	for _, st := range []entities.ViewState{
		{Route: entities.RouteHome},
		{Route: entities.RouteProphets, Prophet: "musa"},
		{Route: entities.RouteTopics, Query: strings.Repeat("long query ", 10)},
		{Route: entities.RouteDetail, Selected: "e1"},
	} {
		v := r.render(buildTestScreen(cat, st), 0)
		require.NotNil(t, v.Keyboard)
		for _, row := range v.Keyboard.InlineKeyboard {
			for _, btn := range row {
				require.NotNil(t, btn.CallbackData)
				assert.LessOrEqual(t, len(*btn.CallbackData), maxCallbackData, *btn.CallbackData)
			}
		}
	}
}

func TestScreenRenderer_LongIDsKeepKeyboardValid(t *testing.T) {
	t.Parallel()

	longID := "ibrahim-" + strings.Repeat("x", 70)
	entries := []entities.Dua{{
		ID:      longID,
		Prophet: entities.ProphetNames{EN: "Ibrahim"},
		English: "My Lord, make me an establisher of prayer",
		Topics:  []string{"prayer"},
		Source:  entities.Source{Type: "Quran", Reference: "14:40"},
	}}
	cat := catalog.New(entries, zap.NewNop())
	r := newScreenRenderer(0)

	for _, st := range []entities.ViewState{
		{Route: entities.RouteHome},
		{Route: entities.RouteProphets},
		{Route: entities.RouteDetail, Selected: longID},
	} {
		v := r.render(buildTestScreen(cat, st), 0)
		require.NotNil(t, v.Keyboard, st.Route)
		for _, row := range v.Keyboard.InlineKeyboard {
			assert.NotEmpty(t, row)
			for _, btn := range row {
				require.NotNil(t, btn.CallbackData)
				assert.LessOrEqual(t, len(*btn.CallbackData), maxCallbackData, *btn.CallbackData)
			}
		}
	}

	detail := r.render(buildTestScreen(cat, entities.ViewState{Route: entities.RouteDetail, Selected: longID}), 0)
	assert.Contains(t, detail.Text, "establisher of prayer", "the dua is still shown without its id buttons")
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestHandler_StartOpensTourOnce(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{OnboardingDelay: 10 * time.Millisecond})
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("/start"))

	msgs := bot.messages()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Contains(t, msgs[0].Text, "As-salamu alaykum")
	assert.Equal(t, tgbotapi.ModeHTML, msgs[1].ParseMode)
	assert.Contains(t, msgs[1].Text, esc(render.For(entities.LangEN).Featured))

	welcome := render.For(entities.LangEN).Onboarding[0].Title
	require.Eventually(t, func() bool {
		for _, m := range bot.messages() {
			if strings.Contains(m.Text, welcome) && !strings.Contains(m.Text, "As-salamu") {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	assert.True(t, testSession(h).Tour().IsOpen())
}

func TestHandler_SearchCommand(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("/search"))
	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "/search")

	h.handleUpdate(ctx, commandUpdate("/search wronged"))
	msgs = bot.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Text, "<u><b>wronged</b></u>")
	assert.Equal(t, "wronged", testSession(h).Snapshot().State.Query)
}

func TestHandler_TextSearchIsDebounced(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, textUpdate("prayer"))
	h.handleUpdate(ctx, textUpdate("wronged"))

	require.Eventually(t, func() bool { return len(bot.messages()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "wronged")
	assert.Equal(t, "wronged", testSession(h).Snapshot().State.Query)
}

func TestHandler_RoutesAndReset(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("/topics"))
	assert.Equal(t, entities.RouteTopics, testSession(h).Snapshot().State.Route)

	h.handleUpdate(ctx, callbackUpdate(buildFilterCallback(session.FilterTopic, "patience")))
	assert.Equal(t, "patience", testSession(h).Snapshot().State.Topic)
	assert.Contains(t, bot.lastEdit(t).Text, "patience")

	h.handleUpdate(ctx, commandUpdate("/reset"))
	snap := testSession(h).Snapshot()
	assert.Equal(t, entities.RouteTopics, snap.State.Route)
	assert.False(t, snap.State.HasFilters())

	testSession(h).ToggleFavorite(ctx, "e1")
	h.handleUpdate(ctx, commandUpdate("/reset all"))
	snap = testSession(h).Snapshot()
	assert.Equal(t, entities.RouteHome, snap.State.Route)
	assert.Empty(t, snap.Prefs.Favorites)
}

func TestHandler_Daily(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, readyCatalogs(), Config{})
	h.handleUpdate(context.Background(), commandUpdate("/daily"))

	st := testSession(h).Snapshot().State
	assert.Equal(t, entities.RouteDetail, st.Route)
	assert.NotEmpty(t, st.Selected)
}

func TestHandler_UnknownCommand(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	h.handleUpdate(context.Background(), commandUpdate("/nope"))

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "/help")
}

// ---------------------------------------------------------------------------
// Callbacks
// ---------------------------------------------------------------------------

func TestHandler_OpenAndClose(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("/prophets"))
	h.handleUpdate(ctx, callbackUpdate(buildOpenCallback("e2")))

	snap := testSession(h).Snapshot()
	assert.Equal(t, entities.RouteDetail, snap.State.Route)
	assert.Equal(t, "e2", snap.State.Selected)
	assert.Equal(t, []string{"e2"}, snap.Prefs.Recent)

	edit := bot.lastEdit(t)
	assert.Equal(t, 7, edit.MessageID)
	assert.Contains(t, edit.Text, "28:16")

	h.handleUpdate(ctx, callbackUpdate(actionClose))
	assert.Equal(t, entities.RouteProphets, testSession(h).Snapshot().State.Route)
}

func TestHandler_OpenUnknownAlerts(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	h.handleUpdate(context.Background(), callbackUpdate(buildOpenCallback("missing")))

	a := bot.lastAnswer(t)
	assert.True(t, a.ShowAlert)
	assert.Equal(t, render.For(entities.LangEN).NotFoundTitle, a.Text)
	assert.Empty(t, bot.edits())
}

func TestHandler_ToggleFavorite(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, callbackUpdate(buildFavoriteCallback(0, "e1")))
	assert.Equal(t, []string{"e1"}, testSession(h).Snapshot().Prefs.Favorites)
	assert.Contains(t, bot.lastAnswer(t).Text, "Saved")

	h.handleUpdate(ctx, callbackUpdate(buildFavoriteCallback(0, "e1")))
	assert.Empty(t, testSession(h).Snapshot().Prefs.Favorites)
}

func TestHandler_CopyAndShare(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{PublicURL: "https://duas.example"})
	ctx := context.Background()

	h.handleUpdate(ctx, callbackUpdate(buildIDCallback(actionCopyFull, "e1")))
	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].ParseMode)
	assert.Contains(t, msgs[0].Text, "establisher of prayer")
	assert.Contains(t, msgs[0].Text, "Quran • 14:40")

	h.handleUpdate(ctx, callbackUpdate(buildIDCallback(actionCopyArabic, "e1")))
	msgs = bot.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "رَبِّ اجْعَلْنِي مُقِيمَ الصَّلَاةِ", msgs[1].Text)

	h.handleUpdate(ctx, callbackUpdate(buildIDCallback(actionShare, "e2")))
	msgs = bot.messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[2].Text, "https://duas.example#dua=e2")
}

func TestHandler_Settings(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("/settings"))
	require.Len(t, bot.messages(), 1)

	h.handleUpdate(ctx, callbackUpdate(buildSettingsCallback(settingsLanguage, entities.LangTR)))
	h.handleUpdate(ctx, callbackUpdate(buildSettingsCallback(settingsVisibility, entities.FieldTurkish)))
	h.handleUpdate(ctx, callbackUpdate(buildSettingsCallback(settingsFont, entities.FontArabic, "1")))
	h.handleUpdate(ctx, callbackUpdate(buildSettingsCallback(settingsTheme, entities.ThemeDark)))

	prefs := testSession(h).Snapshot().Prefs
	assert.Equal(t, entities.LangTR, prefs.Language())
	assert.False(t, prefs.ShowTR)
	assert.Greater(t, prefs.FontArabic, entities.DefaultPreferences().FontArabic)
	assert.Equal(t, entities.ThemeDark, prefs.Theme)
	assert.Contains(t, bot.lastEdit(t).Text, render.For(entities.LangTR).Settings)

	h.handleUpdate(ctx, callbackUpdate(buildSettingsCallback(settingsWipe)))
	assert.Equal(t, entities.DefaultPreferences().Theme, testSession(h).Snapshot().Prefs.Theme)
	assert.True(t, bot.lastAnswer(t).ShowAlert)
}

func TestHandler_TourSkipReturnsToView(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, commandUpdate("/topics"))
	h.handleUpdate(ctx, commandUpdate("/tour"))
	require.True(t, testSession(h).Tour().IsOpen())

	h.handleUpdate(ctx, callbackUpdate(buildOnboardingCallback(onboardingNext)))
	step, _ := testSession(h).Tour().Current()
	assert.Equal(t, 1, step)
	assert.Contains(t, bot.lastEdit(t).Text, "2 / ")

	h.handleUpdate(ctx, callbackUpdate(buildOnboardingCallback(onboardingSkip)))
	assert.False(t, testSession(h).Tour().IsOpen())
	assert.True(t, testSession(h).OnboardingSeen(ctx))
	assert.Equal(t, entities.RouteTopics, testSession(h).Snapshot().State.Route)
}

func TestHandler_Retry(t *testing.T) {
	t.Parallel()

	catalogs := &stubCatalogs{state: service.StateFailed, loadErr: errors.New("boom")}
	h, bot := newTestHandler(t, catalogs, Config{})
	ctx := context.Background()

	h.handleUpdate(ctx, callbackUpdate(actionRetry))
	assert.True(t, bot.lastAnswer(t).ShowAlert)
	assert.Contains(t, bot.lastEdit(t).Text, render.For(entities.LangEN).ErrorTitle)

	catalogs.mu.Lock()
	catalogs.loadErr = nil
	catalogs.cat = catalog.New(testEntries(), zap.NewNop())
	catalogs.mu.Unlock()

	h.handleUpdate(ctx, callbackUpdate(actionRetry))
	assert.False(t, bot.lastAnswer(t).ShowAlert)
	assert.Contains(t, bot.lastEdit(t).Text, esc(render.For(entities.LangEN).Featured))
}

func TestHandler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	h, bot := newTestHandler(t, readyCatalogs(), Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	bot.updates <- commandUpdate("/help")
	require.Eventually(t, func() bool { return len(bot.messages()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
