// Package notify delivers digests through the Telegram Bot API and answers
// task commands sent to the bot.
package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends HTML messages through a bot.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *log.Logger
}

// NewTelegram authorizes the bot token against the public Bot API.
func NewTelegram(token string, logger *log.Logger) (*Telegram, error) {
	return NewTelegramWithClient(token, tgbotapi.APIEndpoint, http.DefaultClient, logger)
}

// NewTelegramWithClient is NewTelegram against a custom endpoint, e.g. a local Bot API server.
func NewTelegramWithClient(token, endpoint string, client tgbotapi.HTTPClient, logger *log.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	logger.Info("telegram bot authorized", "account", api.Self.UserName)
	return &Telegram{api: api, logger: logger}, nil
}

// Send posts text (Telegram HTML) to chatID.
func (t *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Start polls updates until ctx is cancelled and answers commands with commands.
func (t *Telegram) Start(ctx context.Context, commands *Commands) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := t.api.GetUpdatesChan(updateConfig)

	t.logger.Info("telegram polling started")

	go func() {
		<-ctx.Done()
		t.api.StopReceivingUpdates()
	}()

	for update := range updates {
		reply, ok := commands.Reply(ctx, update.Message)
		if !ok {
			continue
		}
		if err := t.Send(ctx, update.Message.Chat.ID, reply); err != nil {
			t.logger.Warn("telegram reply", "chat", update.Message.Chat.ID, "err", err)
		}
	}
	return ctx.Err()
}
