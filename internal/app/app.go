// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/archivegram/archivegrambot/config"
	"github.com/archivegram/archivegrambot/internal/domain"
	"github.com/archivegram/archivegrambot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, telegram bot, gallery templates)
		infrastructure.Module,

		// Domain (archive business logic)
		domain.Module,
	)
}
