// Package render contains the static gallery templating infrastructure
package render

import (
	"go.uber.org/fx"

	"github.com/archivegram/archivegrambot/config"
)

// Module provides the gallery renderer for fx dependency injection
var Module = fx.Module("render",
	fx.Provide(provideRenderer),
)

// provideRenderer creates the renderer from config
func provideRenderer(cfg *config.StorageConfig) (*Renderer, error) {
	return NewRenderer(cfg.TemplatesFolder)
}
