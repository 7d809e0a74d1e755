// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/archivegram/archivegrambot/internal/infrastructure/logger"
	"github.com/archivegram/archivegrambot/internal/infrastructure/render"
	"github.com/archivegram/archivegrambot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	telegram.Module,
	render.Module,
)
