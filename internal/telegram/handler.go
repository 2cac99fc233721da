package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"gtaskbot/internal/config"
	"gtaskbot/internal/dispatch"
	"gtaskbot/internal/logging"
	"gtaskbot/internal/output"
)

// PrivateBotText is sent to users other than the configured owner.
const PrivateBotText = "⛔ This bot is private."

// Handler turns updates into dispatcher actions and sends the replies.
type Handler struct {
	client     Client
	dispatcher *dispatch.Dispatcher
	cfg        *config.Config
	log        *zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(client Client, dispatcher *dispatch.Dispatcher, cfg *config.Config, log *zerolog.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{client: client, dispatcher: dispatcher, cfg: cfg, log: log}
}

// HandleUpdate processes one update synchronously.
// Only a failure to talk to Telegram is returned.
func (h *Handler) HandleUpdate(ctx context.Context, update *models.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return h.handleMessage(ctx, update.Message)
	default:
		logging.With(ctx, h.log).Debug().Int64("update_id", update.ID).Msg("ignoring update without message or callback")
		return nil
	}
}

func (h *Handler) handleMessage(ctx context.Context, message *models.Message) error {
	if message.Text == "" {
		return nil
	}
	chatID := message.Chat.ID
	ctx = logging.WithChatID(ctx, chatID)

	action := ActionFromMessage(message)
	if !h.allowed(action) {
		logging.With(ctx, h.log).Warn().Int64("user_id", action.UserID).Msg("rejected message from non-owner")
		return h.send(ctx, chatID, output.Text(PrivateBotText))
	}

	reply := h.dispatcher.Dispatch(ctx, action)
	if reply.Text == "" {
		return nil
	}
	return h.send(ctx, chatID, reply)
}

func (h *Handler) handleCallback(ctx context.Context, query *models.CallbackQuery) error {
	action := dispatch.Action{
		Kind:    dispatch.KindControl,
		UserID:  query.From.ID,
		Payload: query.Data,
	}
	action.ChatID = callbackChatID(query)
	if action.ChatID != 0 {
		ctx = logging.WithChatID(ctx, action.ChatID)
	}

	if !h.allowed(action) {
		logging.With(ctx, h.log).Warn().Int64("user_id", action.UserID).Msg("rejected button press from non-owner")
		return h.answer(ctx, query.ID, PrivateBotText)
	}

	reply := h.dispatcher.Dispatch(ctx, action)

	// Always acknowledge so the client stops its spinner. With no chat to
	// write to, the reply travels in the acknowledgement.
	if action.ChatID == 0 {
		return h.answer(ctx, query.ID, reply.Text)
	}
	if err := h.answer(ctx, query.ID, ""); err != nil {
		return err
	}
	if reply.Text == "" {
		return nil
	}
	return h.send(ctx, action.ChatID, reply)
}

// callbackChatID returns the chat of the message carrying the button.
// Messages older than 48 hours arrive as inaccessible but keep their chat.
func callbackChatID(query *models.CallbackQuery) int64 {
	switch {
	case query.Message.Message != nil:
		return query.Message.Message.Chat.ID
	case query.Message.InaccessibleMessage != nil:
		return query.Message.InaccessibleMessage.Chat.ID
	default:
		return 0
	}
}

// allowed applies the owner restriction. /start stays open so a new
// operator can discover their ids.
func (h *Handler) allowed(a dispatch.Action) bool {
	if h.cfg == nil || h.cfg.IsOwner(a.UserID) {
		return true
	}
	return a.Kind == dispatch.KindCommand && strings.EqualFold(a.Command, "start")
}

func (h *Handler) send(ctx context.Context, chatID int64, msg output.Message) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   msg.Text,
	}
	if kb := Keyboard(msg.Controls); kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := h.client.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (h *Handler) answer(ctx context.Context, queryID, text string) error {
	_, err := h.client.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// Keyboard lays out controls one button per row. Returns nil for no controls.
func Keyboard(controls []output.Control) *models.InlineKeyboardMarkup {
	if len(controls) == 0 {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(controls))
	for _, c := range controls {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: c.Label, CallbackData: c.Token},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ActionFromMessage classifies a text message. A leading bot_command entity
// makes it a command ("/add@MyBot milk" is command "add", payload "milk");
// anything else is free text.
func ActionFromMessage(message *models.Message) dispatch.Action {
	action := dispatch.Action{
		Kind:    dispatch.KindText,
		ChatID:  message.Chat.ID,
		Payload: message.Text,
	}
	if message.From != nil {
		action.UserID = message.From.ID
	}

	for _, entity := range message.Entities {
		if entity.Type != models.MessageEntityTypeBotCommand || entity.Offset != 0 {
			continue
		}
		// Offset and Length count UTF-16 units; command names and bot
		// usernames are ASCII, so they equal byte offsets here.
		end := entity.Length
		if end > len(message.Text) {
			end = len(message.Text)
		}
		name := strings.TrimPrefix(message.Text[:end], "/")
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		action.Kind = dispatch.KindCommand
		action.Command = strings.ToLower(name)
		action.Payload = strings.TrimSpace(message.Text[end:])
		break
	}
	return action
}
