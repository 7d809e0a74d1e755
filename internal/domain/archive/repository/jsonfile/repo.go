// Package jsonfile implements the archive storage layer on top of
// per-user JSON documents: {data_folder}/{user_id}/data.json plus one
// media folder per album key.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/archivegram/archivegrambot/config"
	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
	"github.com/archivegram/archivegrambot/pkg/fsutil"
)

const dataFileName = "data.json"

// Repository stores archive documents as JSON files under a data root
type Repository struct {
	root   string
	logger zerolog.Logger
}

// NewRepository creates a new JSON file repository
func NewRepository(cfg *config.StorageConfig, logger zerolog.Logger) *Repository {
	return &Repository{
		root:   cfg.DataFolder,
		logger: logger.With().Str("component", "jsonfile-repository").Logger(),
	}
}

// UserDir returns the user's data folder path
func (r *Repository) UserDir(userID int64) string {
	return filepath.Join(r.root, strconv.FormatInt(userID, 10))
}

// AlbumDir returns the media folder path for an album key
func (r *Repository) AlbumDir(userID int64, key string) string {
	return filepath.Join(r.UserDir(userID), key)
}

// UserDirSize returns the current on-disk size of the user's data folder
func (r *Repository) UserDirSize(userID int64) int64 {
	return fsutil.FolderSize(r.UserDir(userID))
}

// AlbumDirSize returns the current on-disk size of an album's media folder
func (r *Repository) AlbumDirSize(userID int64, key string) int64 {
	return fsutil.FolderSize(r.AlbumDir(userID, key))
}

// Load reads the user's archive document.
// It returns ErrNoArchive when the document does not exist and
// ErrCorruptData when it does not parse as the expected schema.
func (r *Repository) Load(_ context.Context, userID int64) (*entities.UserArchive, error) {
	data, err := os.ReadFile(r.dataFile(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, archiveerrors.ErrNoArchive
		}
		return nil, fmt.Errorf("failed to read archive for user %d: %w", userID, err)
	}

	var archive entities.UserArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("Archive document does not parse")
		return nil, fmt.Errorf("%w: %v", archiveerrors.ErrCorruptData, err)
	}
	if archive.Channels == nil {
		archive.Channels = []*entities.Channel{}
	}

	return &archive, nil
}

// Save rewrites the user's archive document. The document is written to a
// temporary file and renamed into place so readers never observe a partial write.
func (r *Repository) Save(_ context.Context, userID int64, archive *entities.UserArchive) error {
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize archive for user %d: %w", userID, err)
	}

	if err := os.MkdirAll(r.UserDir(userID), 0o755); err != nil {
		return fmt.Errorf("failed to create user folder: %w", err)
	}

	fileName := r.dataFile(userID)
	tmpFile := fileName + ".tmp"

	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write archive file: %w", err)
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync archive file: %w", err)
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to close archive file: %w", err)
	}

	return os.Rename(tmpFile, fileName)
}

// DeleteUser removes the user's whole data tree.
// It returns ErrNoArchive when the user has no data at all.
func (r *Repository) DeleteUser(_ context.Context, userID int64) error {
	userDir := r.UserDir(userID)
	if _, err := os.Stat(userDir); os.IsNotExist(err) {
		return archiveerrors.ErrNoArchive
	}

	if err := os.RemoveAll(userDir); err != nil {
		return fmt.Errorf("failed to delete user folder: %w", err)
	}

	r.logger.Info().Int64("user_id", userID).Msg("All user data deleted")
	return nil
}

// DeleteAlbumDir removes an album's media folder. A missing folder is not an
// error: text-only albums never create one.
func (r *Repository) DeleteAlbumDir(_ context.Context, userID int64, key string) error {
	if err := os.RemoveAll(r.AlbumDir(userID, key)); err != nil {
		return fmt.Errorf("failed to delete album folder %q: %w", key, err)
	}
	return nil
}

func (r *Repository) dataFile(userID int64) string {
	return filepath.Join(r.UserDir(userID), dataFileName)
}
