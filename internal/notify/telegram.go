package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers notifications to a fixed chat through the bot API.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

func (s *TelegramSender) Send(_ context.Context, channel Channel, title, body string) error {
	prefix := "⚠️"
	if channel == ChannelSmoke {
		prefix = "🚨"
	}
	msg := tgbotapi.NewMessage(s.chatID, fmt.Sprintf("%s *%s*\n%s", prefix, title, body))
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = true
	// Smoke alerts always ring; security messages are delivered silently.
	msg.DisableNotification = channel != ChannelSmoke
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
