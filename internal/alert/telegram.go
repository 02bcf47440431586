package alert

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier mirrors suspicious-session alerts into a Telegram chat
// for the review team. It is an optional secondary channel next to the
// webhook.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier creates the notifier. A missing token disables it
// (nil notifier, nil error) so the service can continue without Telegram.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	if token == "" {
		logger.Info("Telegram alerts are disabled (no bot token configured)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram alert bot authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:    botAPI,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Dispatch sends a human-readable summary of the alert.
func (n *TelegramNotifier) Dispatch(ctx context.Context, payload *Payload) error {
	text := fmt.Sprintf(
		"🚨 Suspicious session %s\nClient: %s\nScore: %.4f\nIP: %s\nCase file: %s",
		payload.SessionID, payload.Client, payload.Score, payload.IP, payload.LienDossier,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return &DispatchError{Channel: "telegram", Err: err}
	}
	return nil
}
