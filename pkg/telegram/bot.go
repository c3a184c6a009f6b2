package telegram

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Максимальная длина анонса в сообщении
const maxSummaryRunes = 600

// Bot публикует анонсы новостей сайта в канал Telegram
type Bot struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	siteURL string
}

// NewBot создает новый экземпляр бота; siteURL нужен для ссылки «Читать на сайте»
func NewBot(token string, chatID int64, siteURL string) (*Bot, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	api.Debug = false

	return &Bot{
		api:     api,
		chatID:  chatID,
		siteURL: strings.TrimRight(siteURL, "/"),
	}, nil
}

// AnnounceNews отправляет в канал заголовок, анонс и кнопку со ссылкой на новость
func (b *Bot) AnnounceNews(ctx context.Context, title, summary, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(b.chatID, FormatNews(title, summary))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if link := b.link(path); link != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Читать на сайте", link),
			),
		)
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send news announcement: %w", err)
	}
	return nil
}

// link возвращает абсолютный адрес; без адреса сайта кнопка не добавляется
func (b *Bot) link(path string) string {
	if b.siteURL == "" || path == "" {
		return ""
	}
	return b.siteURL + "/" + strings.TrimLeft(path, "/")
}

// FormatNews собирает HTML-текст сообщения
func FormatNews(title, summary string) string {
	var sb strings.Builder
	sb.WriteString("📰 <b>")
	sb.WriteString(html.EscapeString(strings.TrimSpace(title)))
	sb.WriteString("</b>")

	summary = strings.TrimSpace(summary)
	if summary != "" {
		if utf8.RuneCountInString(summary) > maxSummaryRunes {
			summary = string([]rune(summary)[:maxSummaryRunes]) + "…"
		}
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(summary))
	}
	return sb.String()
}
