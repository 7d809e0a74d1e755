// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/archivegram/archivegrambot/config"
	"github.com/archivegram/archivegrambot/internal/domain/archive/consts"
	"github.com/archivegram/archivegrambot/internal/domain/archive/dto"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
	"github.com/archivegram/archivegrambot/internal/domain/archive/usecase/buissines"
	"github.com/archivegram/archivegrambot/pkg/fsutil"
)

// MaxUploadSize is the Bot API limit for documents sent by the bot
const MaxUploadSize = 20 * 1024 * 1024

// Handlers contains Telegram command handlers
type Handlers struct {
	uc      *buissines.UseCase
	bot     *tgbot.Bot
	access  *config.AccessConfig
	quota   *config.QuotaConfig
	storage *config.StorageConfig
	logger  zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(
	uc *buissines.UseCase,
	bot *tgbot.Bot,
	access *config.AccessConfig,
	quota *config.QuotaConfig,
	storage *config.StorageConfig,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		uc:      uc,
		bot:     bot,
		access:  access,
		quota:   quota,
		storage: storage,
		logger:  logger,
	}
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	var sb strings.Builder
	sb.WriteString("These commands are supported:\n")
	for _, cmd := range consts.AllCommands {
		fmt.Fprintf(&sb, "/%s — %s\n", cmd.Name, cmd.Description)
	}
	sb.WriteString("\nForward me a message to add it to your archive.")

	h.sendResponse(ctx, update.Message.Chat.ID, sb.String())
}

// HandleShowAlbums handles /showalbums command
func (h *Handlers) HandleShowAlbums(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.logCommand(chatID, "/showalbums")

	list, err := h.uc.ListAlbums(ctx, chatID)
	if err != nil {
		if errors.Is(err, archiveerrors.ErrNoAlbums) {
			h.sendResponse(ctx, chatID, "❗ No albums found!")
			return
		}
		h.logError(chatID, "/showalbums", err)
		h.sendResponse(ctx, chatID, "❌ Error listing albums. Please contact bot owners!")
		return
	}

	var sb strings.Builder
	sb.WriteString("<strong>Available albums</strong>:\n\n")
	for _, album := range list.Albums {
		fmt.Fprintf(&sb, "%s) %s (%d posts, %.2f MB)\n", album.Key, album.Title, album.PostCount, album.SizeMB)
	}
	fmt.Fprintf(&sb, "\n<strong>Total occupied space:</strong> %.2f/%d MB", list.TotalSizeMB, h.quota.MaxUserFolderSizeMB)

	h.sendHTMLResponse(ctx, chatID, sb.String())
}

// HandleConsolidateAll handles /consolidateall command
func (h *Handlers) HandleConsolidateAll(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.logCommand(chatID, "/consolidateall")

	if err := h.uc.Consolidate(ctx, chatID); err != nil {
		if errors.Is(err, archiveerrors.ErrNoAlbums) {
			h.sendResponse(ctx, chatID, "❗ No albums found!")
			return
		}
		h.logError(chatID, "/consolidateall", err)
		h.sendResponse(ctx, chatID, "❌ Error consolidating posts. Please contact bot owners!")
		return
	}

	h.sendResponse(ctx, chatID, "✅ Posts in all albums have been successfully consolidated.")
}

// HandleGenerateAll handles /generateall command
func (h *Handlers) HandleGenerateAll(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.logCommand(chatID, "/generateall")

	h.generate(ctx, chatID, &dto.GenerateRequest{UserID: chatID, All: true})
}

// HandleGenerate handles /generate command with an album username argument.
// It also covers /generateall, which shares the /generate prefix.
func (h *Handlers) HandleGenerate(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if commandName(update.Message.Text) == "/generateall" {
		h.HandleGenerateAll(ctx, b, update)
		return
	}

	chatID := update.Message.Chat.ID
	h.logCommand(chatID, "/generate")

	key := commandArgument(update.Message.Text)
	h.generate(ctx, chatID, &dto.GenerateRequest{UserID: chatID, Key: key})
}

// HandleDeleteAll handles /deleteall command
func (h *Handlers) HandleDeleteAll(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.logCommand(chatID, "/deleteall")

	if err := h.uc.DeleteAll(ctx, chatID); err != nil {
		if errors.Is(err, archiveerrors.ErrNoArchive) {
			h.sendResponse(ctx, chatID, "❗ No data found!")
			return
		}
		h.logError(chatID, "/deleteall", err)
		h.sendResponse(ctx, chatID, "❌ Error deleting data. Please contact bot owners!")
		return
	}

	h.sendResponse(ctx, chatID, "✅ All data deleted.")
}

// HandleDelete handles /delete command with an album username argument.
// It also covers /deleteall, which shares the /delete prefix.
func (h *Handlers) HandleDelete(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if commandName(update.Message.Text) == "/deleteall" {
		h.HandleDeleteAll(ctx, b, update)
		return
	}

	chatID := update.Message.Chat.ID
	h.logCommand(chatID, "/delete")

	key := commandArgument(update.Message.Text)
	if err := h.uc.DeleteAlbum(ctx, chatID, key); err != nil {
		switch {
		case errors.Is(err, archiveerrors.ErrAlbumKeyRequired):
			h.sendResponse(ctx, chatID, "❗ Please specify the album username after the command.")
		case errors.Is(err, archiveerrors.ErrAlbumNotFound):
			h.sendResponse(ctx, chatID, "❗ Album not found.")
		case errors.Is(err, archiveerrors.ErrNoArchive):
			h.sendResponse(ctx, chatID, "❗ No data found!")
		default:
			h.logError(chatID, "/delete", err)
			h.sendResponse(ctx, chatID, "❌ Error deleting album. Please check album username and/or contact bot owners!")
		}
		return
	}

	h.sendResponse(ctx, chatID, "✅ Album deleted.")
}

// HandleMessage handles every non-command message: it archives the post.
// Unknown slash commands get a hint instead.
func (h *Handlers) HandleMessage(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.Text == "/start" {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		h.sendResponse(ctx, chatID, "❌ Invalid command! Please call /help to see the list of available commands.")
		return
	}

	waitingID := h.sendWaiting(ctx, chatID)

	err := h.uc.AddPost(ctx, buildAddPostRequest(msg))

	h.deleteMessage(ctx, chatID, waitingID)

	if err != nil {
		h.replyResponse(ctx, chatID, msg.ID, h.ingestErrorText(chatID, err))
		return
	}

	h.replyResponse(ctx, chatID, msg.ID, "✅ Message added to archive.")
}

// ingestErrorText maps a typed ingestion failure to user-facing text
func (h *Handlers) ingestErrorText(chatID int64, err error) string {
	var tooLarge *archiveerrors.MediaTooLargeError
	var exceeded *archiveerrors.QuotaExceededError

	switch {
	case errors.Is(err, archiveerrors.ErrDuplicatePost):
		return "❗ Post already exists!"
	case errors.As(err, &tooLarge):
		kind := strings.ToUpper(string(tooLarge.Kind)[:1]) + string(tooLarge.Kind)[1:]
		return fmt.Sprintf("❗ %s file size exceeds %d MB size limit!", kind, tooLarge.LimitMB)
	case errors.As(err, &exceeded):
		return fmt.Sprintf("❗ User folder cannot exceed %d MB size limit!", exceeded.LimitMB)
	default:
		h.logError(chatID, "add_post", err)
		return "❌ Error adding message! Please contact bot owners!"
	}
}

// generate runs album generation and delivers the packaged archive
func (h *Handlers) generate(ctx context.Context, chatID int64, req *dto.GenerateRequest) {
	result, err := h.uc.GenerateAlbums(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, archiveerrors.ErrAlbumKeyRequired):
			h.sendResponse(ctx, chatID, "❗ Please specify the album username after the command.")
		case errors.Is(err, archiveerrors.ErrAlbumNotFound):
			h.sendResponse(ctx, chatID, "❌ Album not found!")
		case errors.Is(err, archiveerrors.ErrNothingGenerated):
			h.sendResponse(ctx, chatID, "❗ No albums have been generated.")
		default:
			h.logError(chatID, "generate", err)
			h.sendResponse(ctx, chatID, "❗ Error generating albums!")
		}
		return
	}

	successMsg := h.sendAndGetID(ctx, chatID, fmt.Sprintf("✅ Successfully generated %d albums.", result.Count))
	h.deliverArchive(ctx, chatID, successMsg, result.ArchivePath)
}

// deliverArchive uploads the packaged zip, unless it exceeds the Bot API limit
func (h *Handlers) deliverArchive(ctx context.Context, chatID int64, replyTo int, archivePath string) {
	info, err := os.Stat(archivePath)
	if err != nil {
		h.logError(chatID, "deliver_archive", err)
		h.sendResponse(ctx, chatID, "❌ Error sending archive. Please contact bot owners!")
		return
	}

	if info.Size() > MaxUploadSize {
		h.logger.Warn().Int64("user_id", chatID).Int64("size", info.Size()).Msg("Archive exceeds upload size limit, not sent")
		h.replyResponse(ctx, chatID, replyTo, "❗ Archive size exceeds 20 MB and cannot be sent automatically. In order to get it, please contact bot owners.")
		return
	}

	waitingID := h.sendWaiting(ctx, chatID)

	file, err := os.Open(archivePath)
	if err != nil {
		h.deleteMessage(ctx, chatID, waitingID)
		h.logError(chatID, "deliver_archive", err)
		h.sendResponse(ctx, chatID, "❌ Error sending archive. Please contact bot owners!")
		return
	}
	defer file.Close()

	_, err = h.bot.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: filepath.Base(archivePath),
			Data:     file,
		},
		ReplyParameters: &models.ReplyParameters{MessageID: replyTo},
	})

	h.deleteMessage(ctx, chatID, waitingID)

	if err != nil {
		h.logError(chatID, "deliver_archive", err)
		h.sendResponse(ctx, chatID, "❌ Error sending archive. Please contact bot owners!")
		return
	}

	h.logger.Info().Int64("user_id", chatID).Str("archive", archivePath).Msg("Archive delivered")

	// Result paths are reused between runs, stale trees would accumulate
	if err := fsutil.ClearDir(h.storage.ResultFolder); err != nil {
		h.logError(chatID, "clear_result_folder", err)
	}
}

// buildAddPostRequest maps a Telegram message onto an ingestion request
func buildAddPostRequest(msg *models.Message) *dto.AddPostRequest {
	req := &dto.AddPostRequest{
		UserID:    msg.Chat.ID,
		MessageID: msg.ID,
		Date:      time.Unix(int64(msg.Date), 0).UTC(),
		Text:      msg.Text,
	}
	if req.Text == "" {
		req.Text = msg.Caption
	}

	if origin := msg.ForwardOrigin; origin != nil {
		switch {
		case origin.MessageOriginChannel != nil:
			o := origin.MessageOriginChannel
			req.Origin = &dto.ForwardOrigin{
				ChatID:    o.Chat.ID,
				Title:     o.Chat.Title,
				Username:  o.Chat.Username,
				MessageID: o.MessageID,
				Date:      time.Unix(int64(o.Date), 0).UTC(),
			}
		case origin.MessageOriginChat != nil:
			o := origin.MessageOriginChat
			req.Origin = &dto.ForwardOrigin{
				ChatID:   o.SenderChat.ID,
				Title:    o.SenderChat.Title,
				Username: o.SenderChat.Username,
				Date:     time.Unix(int64(o.Date), 0).UTC(),
			}
		case origin.MessageOriginUser != nil:
			// Forwarded from a user: goes to the default album, only the
			// forward date is kept
			req.Origin = &dto.ForwardOrigin{
				Date: time.Unix(int64(origin.MessageOriginUser.Date), 0).UTC(),
			}
		case origin.MessageOriginHiddenUser != nil:
			req.Origin = &dto.ForwardOrigin{
				Date: time.Unix(int64(origin.MessageOriginHiddenUser.Date), 0).UTC(),
			}
		}
	}

	for _, p := range msg.Photo {
		req.Photos = append(req.Photos, dto.PhotoCandidate{
			FileID: p.FileID,
			Width:  p.Width,
			Height: p.Height,
			Size:   int64(p.FileSize),
		})
	}
	if msg.Video != nil {
		req.Video = &dto.VideoCandidate{
			FileID:   msg.Video.FileID,
			MimeType: msg.Video.MimeType,
			Size:     int64(msg.Video.FileSize),
		}
	}

	return req
}

// commandName returns the leading slash command token
func commandName(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	return parts[0]
}

// commandArgument returns the text after the command itself
func commandArgument(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", chatID).Msg("Failed to send response")
	}
}

func (h *Handlers) sendHTMLResponse(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", chatID).Msg("Failed to send response")
	}
}

func (h *Handlers) replyResponse(ctx context.Context, chatID int64, replyTo int, text string) {
	_, err := h.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: replyTo},
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", chatID).Msg("Failed to send response")
	}
}

func (h *Handlers) sendAndGetID(ctx context.Context, chatID int64, text string) int {
	msg, err := h.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", chatID).Msg("Failed to send response")
		return 0
	}
	return msg.ID
}

func (h *Handlers) sendWaiting(ctx context.Context, chatID int64) int {
	return h.sendAndGetID(ctx, chatID, "⌛️")
}

func (h *Handlers) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	_, err := h.bot.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		h.logger.Warn().Err(err).Int64("user_id", chatID).Msg("Failed to delete message")
	}
}

func (h *Handlers) logCommand(chatID int64, command string) {
	h.logger.Info().Int64("user_id", chatID).Str("command", command).Msg("Processing command")
}

func (h *Handlers) logError(chatID int64, operation string, err error) {
	h.logger.Error().Err(err).Int64("user_id", chatID).Str("operation", operation).Msg("Operation failed")
}
