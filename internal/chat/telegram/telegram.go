// Package telegram provides Telegram Bot API integration using go-telegram/bot library.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"tunebridge/internal/chat"
	"tunebridge/internal/core"
)

var _ chat.Frontend = (*Frontend)(nil)

// inlineCacheTime is how long Telegram may cache inline answers, in seconds.
// Kept short so freshly published tracks show up without a stale miss.
const inlineCacheTime = 30

// Config holds Telegram-specific configuration.
type Config struct {
	BotToken    string
	WebhookURL  string // public URL Telegram delivers updates to
	SecretToken string // optional X-Telegram-Bot-Api-Secret-Token value
}

// Dispatcher turns normalized updates into responses.
type Dispatcher interface {
	Dispatch(ctx context.Context, update *core.Update) *core.Response
}

// Frontend implements the chat.Frontend interface for Telegram in webhook mode.
type Frontend struct {
	config     *Config
	logger     *zap.Logger
	dispatcher Dispatcher
	bot        *bot.Bot
}

// NewFrontend creates a new Telegram frontend.
func NewFrontend(config *Config, dispatcher Dispatcher, logger *zap.Logger) (*Frontend, error) {
	f := &Frontend{
		config:     config,
		logger:     logger,
		dispatcher: dispatcher,
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(f.handleUpdate),
	}
	if config.SecretToken != "" {
		opts = append(opts, bot.WithWebhookSecretToken(config.SecretToken))
	}

	b, err := bot.New(config.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	f.bot = b

	return f, nil
}

// Start registers the webhook with Telegram.
func (f *Frontend) Start(ctx context.Context) error {
	f.logger.Info("Registering Telegram webhook",
		zap.String("url", f.config.WebhookURL))

	_, err := f.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:                f.config.WebhookURL,
		SecretToken:        f.config.SecretToken,
		AllowedUpdates:     []string{"message", "inline_query"},
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	return nil
}

// Run processes webhook updates until the context is cancelled.
func (f *Frontend) Run(ctx context.Context) error {
	f.bot.StartWebhook(ctx)
	return nil
}

// Handler returns the HTTP handler that accepts Telegram webhook calls.
func (f *Frontend) Handler() http.Handler {
	return f.bot.WebhookHandler()
}

func (f *Frontend) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	converted := convertUpdate(update)
	if converted == nil {
		return
	}

	response := f.dispatcher.Dispatch(ctx, converted)
	if response == nil {
		return
	}

	if err := f.deliver(ctx, response); err != nil {
		f.logger.Warn("Failed to deliver response", zap.Error(err))
	}
}

func (f *Frontend) deliver(ctx context.Context, response *core.Response) error {
	switch {
	case response.Query != nil:
		_, err := f.bot.AnswerInlineQuery(ctx, &bot.AnswerInlineQueryParams{
			InlineQueryID: response.Query.ID,
			Results:       inlineResults(response.Query.Results),
			CacheTime:     inlineCacheTime,
		})
		if err != nil {
			return fmt.Errorf("failed to answer inline query: %w", err)
		}

	case response.Message != nil:
		chatID, err := strconv.ParseInt(response.Message.ChatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chat ID: %w", err)
		}

		// Disable link previews, replies are mostly bare service links that
		// render poorly through Telegram's preview system.
		disabled := true
		_, err = f.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   response.Message.Text,
			LinkPreviewOptions: &models.LinkPreviewOptions{
				IsDisabled: &disabled,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}

	return nil
}

// convertUpdate normalizes a Telegram update. Returns nil for update kinds
// the bot does not react to.
func convertUpdate(update *models.Update) *core.Update {
	switch {
	case update.InlineQuery != nil:
		return &core.Update{
			Query: &core.QueryEvent{
				ID:   update.InlineQuery.ID,
				Text: update.InlineQuery.Query,
			},
		}

	case update.Message != nil:
		return &core.Update{
			Message: &core.MessageEvent{
				ChatID:   strconv.FormatInt(update.Message.Chat.ID, 10),
				Commands: parseCommands(update.Message),
			},
		}
	}

	return nil
}

// parseCommands extracts bot commands from a message using its entity
// annotations. A "/start@SomeBot" mention keeps only the command name.
func parseCommands(message *models.Message) []core.Command {
	var commands []core.Command

	for _, entity := range message.Entities {
		if entity.Type != models.MessageEntityTypeBotCommand {
			continue
		}

		end := entity.Offset + entity.Length
		if entity.Offset < 0 || end > len(message.Text) {
			continue
		}

		name := strings.TrimPrefix(message.Text[entity.Offset:end], "/")
		if at := strings.Index(name, "@"); at >= 0 {
			name = name[:at]
		}
		if name == "" {
			continue
		}

		commands = append(commands, core.Command{
			Name: name,
			Args: strings.TrimSpace(message.Text[end:]),
		})
	}

	return commands
}

// inlineResults renders presentable results as Telegram inline query results:
// a photo result when cover art is available, a plain article otherwise.
func inlineResults(results []core.PresentableResult) []models.InlineQueryResult {
	converted := make([]models.InlineQueryResult, 0, len(results))

	for _, result := range results {
		markup := inlineKeyboard(result.Buttons)

		if result.Photo != nil {
			converted = append(converted, &models.InlineQueryResultPhoto{
				ID:           result.ID,
				PhotoURL:     result.Photo.URL,
				ThumbnailURL: result.Photo.URL,
				PhotoWidth:   result.Photo.Width,
				PhotoHeight:  result.Photo.Height,
				Title:        result.Title,
				Caption:      result.Photo.Caption,
				ReplyMarkup:  markup,
			})
			continue
		}

		converted = append(converted, &models.InlineQueryResultArticle{
			ID:    result.ID,
			Title: result.Title,
			InputMessageContent: &models.InputTextMessageContent{
				MessageText: result.Text,
			},
			ReplyMarkup: markup,
		})
	}

	return converted
}

// inlineKeyboard lays out one button per row, preserving link order.
func inlineKeyboard(buttons []core.Button) models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(buttons))
	for _, button := range buttons {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: button.Label, URL: button.URL},
		})
	}
	return models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
