// Package telegram adapts the Telegram Bot API to the gateway ports.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"whipbot/internal/gateway"
	"whipbot/internal/log"
)

// pollTimeout is the long-poll window in seconds.
const pollTimeout = 60

type Gateway struct {
	api    *tgbotapi.BotAPI
	logger *log.Logger
}

func New(token string, logger *log.Logger) (*Gateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	return &Gateway{
		api:    api,
		logger: logger.WithComponent(log.ComponentGateway),
	}, nil
}

// Handle returns the bot's registered username, without '@'.
func (g *Gateway) Handle() string {
	return g.api.Self.UserName
}

// Run long-polls Telegram and feeds every translatable update to dispatch.
// It returns when ctx is cancelled.
func (g *Gateway) Run(ctx context.Context, dispatch func(context.Context, gateway.Update)) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := g.api.GetUpdatesChan(cfg)
	defer g.api.StopReceivingUpdates()

	g.logger.InfoContext(ctx, "Listening for updates", "handle", g.Handle())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-updates:
			if !ok {
				return nil
			}
			u, ok := g.translate(ctx, raw)
			if !ok {
				continue
			}
			dispatch(ctx, u)
		}
	}
}

func (g *Gateway) translate(ctx context.Context, raw tgbotapi.Update) (gateway.Update, bool) {
	if cq := raw.CallbackQuery; cq != nil {
		// Stop the client spinner before the press is handled.
		if _, err := g.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			g.logger.WarnContext(ctx, "Failed to answer callback query", log.FieldError, err)
		}
		if cq.From == nil || cq.Message == nil {
			return gateway.Update{}, false
		}
		return gateway.Update{
			Actor:             actorFrom(cq.From),
			Chat:              chatFrom(cq.Message.Chat),
			Callback:          cq.Data,
			CallbackMessageID: cq.Message.MessageID,
		}, true
	}

	msg := raw.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return gateway.Update{}, false
	}

	u := gateway.Update{
		Actor:    actorFrom(msg.From),
		Chat:     chatFrom(msg.Chat),
		Text:     msg.Text,
		Mentions: extractMentions(msg.Text, msg.Entities),
	}
	if msg.IsCommand() {
		u.Command = msg.Command()
		u.Args = msg.CommandArguments()
	}
	return u, true
}

func actorFrom(from *tgbotapi.User) gateway.Actor {
	name := from.UserName
	if name == "" {
		name = from.FirstName
	}
	return gateway.Actor{ID: from.ID, DisplayName: name}
}

func chatFrom(chat *tgbotapi.Chat) gateway.Chat {
	kind := gateway.ChatGroup
	if chat.IsPrivate() {
		kind = gateway.ChatPrivate
	}
	return gateway.Chat{ID: chat.ID, Kind: kind}
}

// extractMentions pulls @handle entities out of the message. Entity offsets
// are in UTF-16 code units, per the Bot API.
func extractMentions(text string, entities []tgbotapi.MessageEntity) []string {
	if len(entities) == 0 {
		return nil
	}
	encoded := utf16.Encode([]rune(text))
	var mentions []string
	for _, e := range entities {
		if e.Type != "mention" {
			continue
		}
		if e.Offset < 0 || e.Length < 0 || e.Offset+e.Length > len(encoded) {
			continue
		}
		handle := string(utf16.Decode(encoded[e.Offset : e.Offset+e.Length]))
		mentions = append(mentions, strings.ToLower(strings.TrimPrefix(handle, "@")))
	}
	return mentions
}

func (g *Gateway) SendMessage(_ context.Context, chatID int64, text string) error {
	if _, err := g.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (g *Gateway) SendButtons(_ context.Context, chatID int64, text string, buttons []gateway.Button) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data),
		))
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := g.api.Send(msg); err != nil {
		return fmt.Errorf("send buttons: %w", err)
	}
	return nil
}

func (g *Gateway) EditMessage(_ context.Context, chatID int64, messageID int, text string) error {
	if _, err := g.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}
