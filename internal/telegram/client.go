// Package telegram adapts Telegram updates to dispatcher actions.
package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Client defines the methods required from the Telegram bot.
// *bot.Bot satisfies it.
type Client interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error)
}

// NewBot creates a Bot API client. Updates arrive through the webhook,
// so the client never polls and skips the startup getMe call.
func NewBot(token string) (*bot.Bot, error) {
	return bot.New(token, bot.WithSkipGetMe())
}

// RegisterWebhook points Telegram at url, with an optional secret token
// echoed back in the X-Telegram-Bot-Api-Secret-Token header.
func RegisterWebhook(ctx context.Context, c Client, url, secret string) error {
	_, err := c.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         url,
		SecretToken: secret,
	})
	return err
}
