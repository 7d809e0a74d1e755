// Package archive contains the album archive domain module
package archive

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/archivegram/archivegrambot/config"
	"github.com/archivegram/archivegrambot/internal/domain/archive/consts"
	telegramDelivery "github.com/archivegram/archivegrambot/internal/domain/archive/delivery/telegram"
	"github.com/archivegram/archivegrambot/internal/domain/archive/deps"
	"github.com/archivegram/archivegrambot/internal/domain/archive/generator"
	"github.com/archivegram/archivegrambot/internal/domain/archive/quota"
	jsonRepo "github.com/archivegram/archivegrambot/internal/domain/archive/repository/jsonfile"
	"github.com/archivegram/archivegrambot/internal/domain/archive/usecase/buissines"
	"github.com/archivegram/archivegrambot/internal/infrastructure/render"
	"github.com/archivegram/archivegrambot/internal/infrastructure/telegram"
)

// Module provides archive domain components for fx dependency injection
var Module = fx.Module("archive",
	// Repository
	fx.Provide(provideRepository),

	// Domain services
	fx.Provide(provideQuota),
	fx.Provide(provideDownloader),
	fx.Provide(provideRenderer),
	fx.Provide(provideGenerator),

	// UseCase
	fx.Provide(buissines.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// provideRepository creates the JSON file archive repository
func provideRepository(cfg *config.StorageConfig, logger zerolog.Logger) deps.ArchiveRepository {
	return jsonRepo.NewRepository(cfg, logger)
}

// provideQuota creates the storage quota tracker
func provideQuota(cfg *config.QuotaConfig, logger zerolog.Logger) deps.QuotaTracker {
	return quota.NewTracker(cfg, logger)
}

// provideDownloader exposes the bot as the media downloader
func provideDownloader(bot *telegram.Bot) deps.MediaDownloader {
	return bot
}

// provideRenderer exposes the template renderer as the gallery renderer
func provideRenderer(renderer *render.Renderer) deps.GalleryRenderer {
	return renderer
}

// provideGenerator creates the album generator
func provideGenerator(cfg *config.StorageConfig, renderer deps.GalleryRenderer, logger zerolog.Logger) deps.AlbumGenerator {
	return generator.NewGenerator(cfg, renderer, logger)
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(
	uc *buissines.UseCase,
	bot *telegram.Bot,
	access *config.AccessConfig,
	quotaCfg *config.QuotaConfig,
	storage *config.StorageConfig,
	logger zerolog.Logger,
) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), access, quotaCfg, storage, logger)
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	lc fx.Lifecycle,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
	logger zerolog.Logger,
) {
	// Non-command messages (forwarded posts) go through the default handler.
	// This resolves the cyclic dependency: Bot -> HandlerFunc <- Router -> Bot
	bot.SetDefaultHandler(router.DefaultHandler())

	// Register Telegram command routes
	router.RegisterRoutes(bot.Raw())

	// Publish the command menu once the bot is up
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			commands := make([]models.BotCommand, 0, len(consts.AllCommands))
			for _, cmd := range consts.AllCommands {
				commands = append(commands, models.BotCommand{
					Command:     cmd.Name,
					Description: cmd.Description,
				})
			}

			_, err := bot.Raw().SetMyCommands(ctx, &tgbot.SetMyCommandsParams{
				Commands: commands,
			})
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to publish command menu")
			}
			return nil
		},
	})
}
