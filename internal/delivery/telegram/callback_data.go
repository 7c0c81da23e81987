package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/router"
	"github.com/aliskhannn/prophets-duas-bot/internal/session"
)

// maxCallbackData is the Telegram limit on callback_data in bytes.
const maxCallbackData = 64

// Callback action constants.
const (
	actionHash       = "h"  // h:<routable string>
	actionGo         = "g"  // g:<route>, keeps filters
	actionFilter     = "fl" // fl:<p|t|s>:<value>
	actionReset      = "rf"
	actionShowAll    = "sa"
	actionOpen       = "o" // o:<id>
	actionClose      = "c"
	actionFavorite   = "fv" // fv:<page>:<id>
	actionPage       = "pg" // pg:<page>
	actionCopyArabic = "ca" // ca:<id>
	actionCopyFull   = "cp" // cp:<id>
	actionShare      = "sh" // sh:<id>
	actionSettings   = "s"
	actionOnboarding = "ob"
	actionRetry      = "retry"
	actionBack       = "bk"
	actionNoop       = "noop"
)

// Settings sub-actions.
const (
	settingsMenu       = "menu"
	settingsTheme      = "th"   // s:th:<theme>
	settingsLanguage   = "lg"   // s:lg:<lang>
	settingsVisibility = "vis"  // s:vis:<field>
	settingsFont       = "font" // s:font:<arabic|text>:<delta>
	settingsWipe       = "wipe"
)

// Onboarding sub-actions map to onboarding controls.
const (
	onboardingSkip   = "skip"
	onboardingPrev   = "prev"
	onboardingNext   = "next"
	onboardingFinish = "finish"
)

var filterCodes = map[session.Filter]string{
	session.FilterProphet: "p",
	session.FilterTopic:   "t",
	session.FilterSource:  "s",
}

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// tail returns the params from i on, joined back with ":". Ids and filter
// values may contain colons.
func (cd callbackData) tail(i int) string {
	if i >= len(cd.Params) {
		return ""
	}
	return strings.Join(cd.Params[i:], ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func fits(data string) bool {
	return data != "" && len(data) <= maxCallbackData
}

// buildNavCallback carries the whole state when it fits, otherwise the
// fallback, which the session resolves against its current state.
func buildNavCallback(st entities.ViewState, fallback string) string {
	if data := actionHash + ":" + router.Serialize(st); fits(data) {
		return data
	}
	if fits(fallback) {
		return fallback
	}
	return ""
}

func buildGoCallback(route entities.Route) string {
	return callbackData{Action: actionGo, Params: []string{string(route)}}.encode()
}

func buildFilterCallback(f session.Filter, value string) string {
	return callbackData{Action: actionFilter, Params: []string{filterCodes[f], value}}.encode()
}

func filterFromCode(code string) (session.Filter, bool) {
	for f, c := range filterCodes {
		if c == code {
			return f, true
		}
	}
	return "", false
}

func buildOpenCallback(id string) string {
	return callbackData{Action: actionOpen, Params: []string{id}}.encode()
}

func buildFavoriteCallback(page int, id string) string {
	return callbackData{Action: actionFavorite, Params: []string{strconv.Itoa(page), id}}.encode()
}

func buildPageCallback(page int) string {
	return callbackData{Action: actionPage, Params: []string{strconv.Itoa(page)}}.encode()
}

func buildIDCallback(action, id string) string {
	return callbackData{Action: action, Params: []string{id}}.encode()
}

// buildSettingsCallback builds callback data for settings-related actions.
func buildSettingsCallback(subAction string, value ...string) string {
	params := []string{subAction}
	params = append(params, value...)
	return callbackData{
		Action: actionSettings,
		Params: params,
	}.encode()
}

func buildOnboardingCallback(control string) string {
	return callbackData{Action: actionOnboarding, Params: []string{control}}.encode()
}
