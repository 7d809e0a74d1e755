// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// DownloadTimeout bounds a single media file download
const DownloadTimeout = 120 * time.Second

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot        *tgbot.Bot
	logger     zerolog.Logger
	httpClient *http.Client
	defaultFn  tgbot.HandlerFunc
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token string, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{
		logger: logger,
		httpClient: &http.Client{
			Timeout: DownloadTimeout,
		},
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(b.dispatchDefault),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	logger.Info().Msg("Telegram bot created successfully")

	return b, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// SetDefaultHandler sets the handler for updates no command route matched.
// Called by fx.Invoke after the delivery layer is constructed, which breaks
// the cyclic dependency between the bot and its handlers.
func (b *Bot) SetDefaultHandler(fn tgbot.HandlerFunc) {
	b.defaultFn = fn
}

// Start starts the bot (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

// Download fetches a file from the Telegram API by file id and stores it at dest,
// creating parent directories as needed
func (b *Bot) Download(ctx context.Context, fileID, dest string) error {
	dlCtx, cancel := context.WithTimeout(ctx, DownloadTimeout)
	defer cancel()

	file, err := b.bot.GetFile(dlCtx, &tgbot.GetFileParams{FileID: fileID})
	if err != nil {
		return fmt.Errorf("failed to resolve file %q: %w", fileID, err)
	}

	link := b.bot.FileDownloadLink(file)

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, link, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file %q: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file %q: unexpected status %d", fileID, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create media folder: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create media file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("failed to write media file: %w", err)
	}

	return out.Close()
}

// dispatchDefault forwards non-command updates to the registered default handler
func (b *Bot) dispatchDefault(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	if b.defaultFn == nil {
		return
	}
	b.defaultFn(ctx, bot, update)
}
