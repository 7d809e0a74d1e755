// Package generator materializes static gallery directories from stored
// albums and packages the per-user result tree into a downloadable archive.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/archivegram/archivegrambot/config"
	"github.com/archivegram/archivegrambot/internal/domain/archive/deps"
	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	"github.com/archivegram/archivegrambot/pkg/fsutil"
)

const (
	indexFileName     = "index.html"
	archiveNamePrefix = "ArchiveGramBot-Archive-"
	archiveNameLayout = "2006-01-02_15-04-05"
)

// Generator renders albums into {result_folder}/{user_id}/{album_key} trees
type Generator struct {
	renderer     deps.GalleryRenderer
	dataRoot     string
	resultRoot   string
	templatesDir string
	logger       zerolog.Logger
	now          func() time.Time
}

// NewGenerator creates a new gallery generator
func NewGenerator(cfg *config.StorageConfig, renderer deps.GalleryRenderer, logger zerolog.Logger) *Generator {
	return &Generator{
		renderer:     renderer,
		dataRoot:     cfg.DataFolder,
		resultRoot:   cfg.ResultFolder,
		templatesDir: cfg.TemplatesFolder,
		logger:       logger.With().Str("component", "generator").Logger(),
		now:          time.Now,
	}
}

// GenerateAlbum renders one channel into the user's result tree: shared css/img
// assets, the album's media folder copied into gallery/, and the rendered
// markup written as the index document.
func (g *Generator) GenerateAlbum(_ context.Context, userID int64, channel *entities.Channel) error {
	markup, err := g.renderer.Render(channel)
	if err != nil {
		return err
	}

	albumDir := filepath.Join(g.userResultDir(userID), channel.Username)
	mediaDir := filepath.Join(g.dataRoot, strconv.FormatInt(userID, 10), channel.Username)

	if err := fsutil.CopyDir(filepath.Join(g.templatesDir, "css"), filepath.Join(albumDir, "css")); err != nil {
		return fmt.Errorf("failed to copy css assets: %w", err)
	}
	if err := fsutil.CopyDir(filepath.Join(g.templatesDir, "img"), filepath.Join(albumDir, "img")); err != nil {
		return fmt.Errorf("failed to copy img assets: %w", err)
	}
	if err := fsutil.CopyDir(mediaDir, filepath.Join(albumDir, "gallery")); err != nil {
		return fmt.Errorf("failed to copy album media: %w", err)
	}

	if err := os.MkdirAll(albumDir, 0o755); err != nil {
		return fmt.Errorf("failed to create album folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(albumDir, indexFileName), []byte(markup), 0o644); err != nil {
		return fmt.Errorf("failed to write index document: %w", err)
	}

	g.logger.Info().
		Int64("user_id", userID).
		Str("album", channel.Username).
		Int("posts", len(channel.Posts)).
		Msg("Album generated")

	return nil
}

// Pack zips the user's result tree into a timestamp-named archive next to it.
// Entries use the store method: photos and videos are already compressed.
func (g *Generator) Pack(_ context.Context, userID int64) (string, error) {
	archivePath := filepath.Join(g.resultRoot, archiveNamePrefix+g.now().UTC().Format(archiveNameLayout)+".zip")

	if err := packTree(g.userResultDir(userID), archivePath); err != nil {
		return "", fmt.Errorf("failed to package result tree: %w", err)
	}

	return archivePath, nil
}

func (g *Generator) userResultDir(userID int64) string {
	return filepath.Join(g.resultRoot, strconv.FormatInt(userID, 10))
}
