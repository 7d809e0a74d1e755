package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Router registers archive command routes on the bot
type Router struct {
	handlers *Handlers
}

// NewRouter creates new Router
func NewRouter(handlers *Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes registers command handlers on the bot
func (r *Router) RegisterRoutes(b *tgbot.Bot) {
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, r.guard(r.handlers.HandleHelp))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/showalbums", tgbot.MatchTypeExact, r.guard(r.handlers.HandleShowAlbums))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/consolidateall", tgbot.MatchTypeExact, r.guard(r.handlers.HandleConsolidateAll))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/generateall", tgbot.MatchTypeExact, r.guard(r.handlers.HandleGenerateAll))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/generate", tgbot.MatchTypePrefix, r.guard(r.handlers.HandleGenerate))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/deleteall", tgbot.MatchTypeExact, r.guard(r.handlers.HandleDeleteAll))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/delete", tgbot.MatchTypePrefix, r.guard(r.handlers.HandleDelete))
}

// DefaultHandler returns the fallback handler for non-command messages
func (r *Router) DefaultHandler() tgbot.HandlerFunc {
	return r.guard(r.handlers.HandleMessage)
}

// guard rejects updates from users outside the allow list
func (r *Router) guard(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID
		if !r.handlers.access.Allowed(chatID) {
			r.handlers.logger.Warn().Int64("user_id", chatID).Msg("Unauthorized access attempt")
			r.handlers.sendResponse(ctx, chatID, "❗ You are not authorized to use this bot.")
			return
		}
		next(ctx, b, update)
	}
}
