// Package terminal renders view-models for a terminal with lipgloss.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aliskhannn/prophets-duas-bot/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	refStyle   = lipgloss.NewStyle().Faint(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
	markStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#f59e0b"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	favStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4c1d95")).
			Padding(0, 1)
)

// Card renders a card with a rounded border.
func Card(v render.CardView, width int) string {
	var b strings.Builder

	title := segments(v.Title, titleStyle)
	if v.Favorite {
		title += " " + favStyle.Render("★")
	}
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(segments(v.RefLine, refStyle))

	if v.Arabic != "" {
		b.WriteString("\n\n")
		b.WriteString(v.Arabic)
	}
	for _, blk := range v.Blocks {
		if len(blk.Text) == 0 {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render(blk.Label))
		b.WriteByte('\n')
		b.WriteString(segments(blk.Text, lipgloss.NewStyle()))
	}
	if len(v.Tags) > 0 {
		tags := make([]string, 0, len(v.Tags))
		for _, t := range v.Tags {
			tags = append(tags, tagStyle.Render("#"+t))
		}
		b.WriteString("\n\n")
		b.WriteString(strings.Join(tags, " "))
	}
	b.WriteString("\n")
	b.WriteString(refStyle.Render(v.ID))

	style := cardStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(b.String())
}

// Summary renders the results meta line, e.g. "3 found · 120 prayers".
func Summary(msg *render.Messages, found, total int) string {
	return refStyle.Render(fmt.Sprintf("%d %s · %d %s", found, msg.Found, total, msg.Prayers))
}

// Empty renders an empty state.
func Empty(title, desc string) string {
	return titleStyle.Render(title) + "\n" + refStyle.Render(desc)
}

func segments(segs []render.Segment, base lipgloss.Style) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Mark {
			b.WriteString(markStyle.Render(s.Text))
			continue
		}
		b.WriteString(base.Render(s.Text))
	}
	return b.String()
}
