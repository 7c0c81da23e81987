// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/prophets-duas-bot/internal/domain/entities"
	"github.com/aliskhannn/prophets-duas-bot/internal/render"
)

// Error messages.
const (
	msgInternalError = "Something went wrong. Please try again later. / Bir şeyler ters gitti, lütfen daha sonra tekrar deneyin."
)

const (
	// maxMessageLen is the Telegram limit on message text.
	maxMessageLen = 4096
	// maxFieldLen bounds a single text field of a card.
	maxFieldLen = 600
	ellipsis    = "…"
)

// botTexts are the strings only the bot needs.
type botTexts struct {
	Welcome       string
	Help          string
	Unknown       string
	SearchUsage   string
	SearchPending string
	Page          string
	Copied        string
	ShareLink     string
	Wiped         string
	Shown         string
	Hidden        string
}

var texts = map[string]botTexts{
	entities.LangEN: {
		Welcome: "As-salamu alaykum! This bot is a collection of the supplications of the prophets. Send any word to search.",
		Help: "/home — featured & recent\n" +
			"/prophets — browse by prophet\n" +
			"/topics — browse by topic\n" +
			"/favorites — saved duas\n" +
			"/daily — the dua of the day\n" +
			"/search &lt;text&gt; — search\n" +
			"/reset — clear filters (/reset all forgets everything)\n" +
			"/settings — language, fields and font size\n" +
			"/tour — replay the introduction\n" +
			"/about — about & sources",
		Unknown:       "Unknown command. Send /help for the list of commands.",
		SearchUsage:   "Usage: /search patience",
		SearchPending: "🔎",
		Page:          "Page %d/%d",
		Copied:        "Sent as a separate message",
		ShareLink:     "Share link:",
		Wiped:         "All saved data was removed.",
		Shown:         "shown",
		Hidden:        "hidden",
	},
	entities.LangTR: {
		Welcome: "Es-selamu aleykum! Bu bot peygamberlerin dualarından oluşan bir koleksiyondur. Aramak için herhangi bir kelime gönderin.",
		Help: "/home — öne çıkanlar\n" +
			"/prophets — peygambere göre\n" +
			"/topics — konuya göre\n" +
			"/favorites — kaydedilen dualar\n" +
			"/daily — günün duası\n" +
			"/search &lt;metin&gt; — arama\n" +
			"/reset — filtreleri temizle (/reset all her şeyi siler)\n" +
			"/settings — dil, alanlar ve yazı boyutu\n" +
			"/tour — tanıtımı tekrar göster\n" +
			"/about — hakkında & kaynaklar",
		Unknown:       "Bilinmeyen komut. Komut listesi için /help gönderin.",
		SearchUsage:   "Kullanım: /search sabır",
		SearchPending: "🔎",
		Page:          "Sayfa %d/%d",
		Copied:        "Ayrı bir mesaj olarak gönderildi",
		ShareLink:     "Paylaşım bağlantısı:",
		Wiped:         "Kaydedilen tüm veriler silindi.",
		Shown:         "gösteriliyor",
		Hidden:        "gizli",
	},
}

func textsFor(lang string) botTexts {
	if t, ok := texts[lang]; ok {
		return t
	}
	return texts[entities.LangEN]
}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func bold(s string) string {
	return "<b>" + esc(s) + "</b>"
}

func italic(s string) string {
	return "<i>" + esc(s) + "</i>"
}

// segments renders highlighted runs, marking matches as bold underlined text.
func segments(segs []render.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Mark {
			b.WriteString("<u><b>")
			b.WriteString(esc(s.Text))
			b.WriteString("</b></u>")
			continue
		}
		b.WriteString(esc(s.Text))
	}
	return b.String()
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + ellipsis
}

// clipSegments shortens highlighted runs to at most n runes in total.
func clipSegments(segs []render.Segment, n int) []render.Segment {
	out := make([]render.Segment, 0, len(segs))
	left := n
	for _, s := range segs {
		l := utf8.RuneCountInString(s.Text)
		if l < left {
			out = append(out, s)
			left -= l
			continue
		}
		out = append(out, render.Segment{Text: clip(s.Text, max(left, 1)), Mark: s.Mark})
		break
	}
	return out
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg
}

// newPlainMessage creates a message without parse mode, used for copyable text.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

func newHTMLEdit(chatID int64, msgID int, text string, kb *tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	return edit
}
