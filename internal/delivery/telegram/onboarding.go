package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/prophets-duas-bot/internal/onboarding"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
)

// renderTour renders the current step of an open tour. The focused control
// is marked, so the primary action stands out.
func renderTour(tour *onboarding.Controller, msg *render.Messages) view {
	step, total := tour.Current()
	if step >= len(msg.Onboarding) {
		step = len(msg.Onboarding) - 1
	}
	s := msg.Onboarding[step]

	var b strings.Builder
	b.WriteString(bold(s.Title))
	b.WriteString("\n\n")
	b.WriteString(esc(s.Body))
	b.WriteString("\n\n")
	b.WriteString(italic(fmt.Sprintf("%d / %d", step+1, total)))

	focused := tour.Focused()
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range tour.Controls() {
		label := controlLabel(c, msg)
		if c == focused {
			label = "› " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildOnboardingCallback(string(c))))
	}

	return view{Text: b.String(), Keyboard: markup([][]tgbotapi.InlineKeyboardButton{row})}
}

func controlLabel(c onboarding.Control, msg *render.Messages) string {
	switch c {
	case onboarding.ControlSkip:
		return msg.Skip
	case onboarding.ControlPrev:
		return "◀️ " + msg.Prev
	case onboarding.ControlNext:
		return msg.Next + " ▶️"
	case onboarding.ControlFinish:
		return "✅ " + msg.Finish
	}
	return string(c)
}
