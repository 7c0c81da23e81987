package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
)

// renderSettings renders the settings message with its keyboard.
func renderSettings(prefs entities.Preferences) view {
	msg := render.For(prefs.Language())
	t := textsFor(prefs.Language())

	var b strings.Builder
	b.WriteString(bold("⚙️ " + msg.Settings))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("🎨 <b>%s:</b> %s\n", esc(msg.Theme), esc(prefs.Theme)))
	b.WriteString(fmt.Sprintf("🌐 <b>%s:</b> %s\n", esc(msg.Language), esc(strings.ToUpper(prefs.Language()))))
	b.WriteString("\n")
	for _, f := range []struct {
		label string
		on    bool
	}{
		{"Arabic", prefs.ShowArabic},
		{msg.Translit, prefs.ShowTranslit},
		{msg.English, prefs.ShowEN},
		{msg.Turkish, prefs.ShowTR},
	} {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", formatBool(f.on), esc(f.label), esc(visibility(t, f.on))))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("🔠 <b>%s:</b> Arabic %dpx · Text %dpx", esc(msg.FontSize), prefs.FontArabic, prefs.FontText))

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			themeButton(prefs, entities.ThemeAuto, "🌓 auto"),
			themeButton(prefs, entities.ThemeLight, "☀️ light"),
			themeButton(prefs, entities.ThemeDark, "🌙 dark"),
		),
		tgbotapi.NewInlineKeyboardRow(
			langButton(prefs, entities.LangEN, "🇬🇧 EN"),
			langButton(prefs, entities.LangTR, "🇹🇷 TR"),
		),
		tgbotapi.NewInlineKeyboardRow(
			visButton(prefs.ShowArabic, "AR", entities.FieldArabic),
			visButton(prefs.ShowTranslit, "Tr.", entities.FieldTranslit),
			visButton(prefs.ShowEN, "EN", entities.FieldEnglish),
			visButton(prefs.ShowTR, "TR", entities.FieldTurkish),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("AR A−", buildSettingsCallback(settingsFont, entities.FontArabic, "-1")),
			tgbotapi.NewInlineKeyboardButtonData("AR A+", buildSettingsCallback(settingsFont, entities.FontArabic, "1")),
			tgbotapi.NewInlineKeyboardButtonData("A−", buildSettingsCallback(settingsFont, entities.FontText, "-1")),
			tgbotapi.NewInlineKeyboardButtonData("A+", buildSettingsCallback(settingsFont, entities.FontText, "1")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+msg.Reset, buildSettingsCallback(settingsWipe)),
			tgbotapi.NewInlineKeyboardButtonData("« "+msg.Close, actionBack),
		),
	)

	return view{Text: b.String(), Keyboard: &kb}
}

func themeButton(prefs entities.Preferences, theme, label string) tgbotapi.InlineKeyboardButton {
	if prefs.Theme == theme {
		label = "✓ " + label
	}
	return tgbotapi.NewInlineKeyboardButtonData(label, buildSettingsCallback(settingsTheme, theme))
}

func langButton(prefs entities.Preferences, lang, label string) tgbotapi.InlineKeyboardButton {
	if prefs.Language() == lang {
		label = "✓ " + label
	}
	return tgbotapi.NewInlineKeyboardButtonData(label, buildSettingsCallback(settingsLanguage, lang))
}

func visButton(on bool, label, field string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(formatBool(on)+" "+label, buildSettingsCallback(settingsVisibility, field))
}

func visibility(t botTexts, on bool) string {
	if on {
		return t.Shown
	}
	return t.Hidden
}

func formatBool(b bool) string {
	if b {
		return "✅"
	}
	return "🚫"
}
