// Package deps contains interface definitions for the archive domain dependencies
package deps

import (
	"context"

	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
)

// ArchiveRepository defines the storage layer for per-user archive documents.
// Every mutation loads the whole document, changes it in memory and rewrites it;
// callers serialize operations per user id.
type ArchiveRepository interface {
	// Load reads the user's archive document
	Load(ctx context.Context, userID int64) (*entities.UserArchive, error)

	// Save rewrites the user's archive document atomically
	Save(ctx context.Context, userID int64, archive *entities.UserArchive) error

	// UserDir returns the user's data folder path
	UserDir(userID int64) string

	// AlbumDir returns the media folder path for an album key
	AlbumDir(userID int64, key string) string

	// UserDirSize returns the current on-disk size of the user's data folder
	UserDirSize(userID int64) int64

	// AlbumDirSize returns the current on-disk size of an album's media folder
	AlbumDirSize(userID int64, key string) int64

	// DeleteUser removes the user's whole data tree
	DeleteUser(ctx context.Context, userID int64) error

	// DeleteAlbumDir removes an album's media folder
	DeleteAlbumDir(ctx context.Context, userID int64, key string) error
}

// QuotaTracker validates a candidate media file against the configured caps
type QuotaTracker interface {
	// Check validates the file size against the per-kind cap and the user's
	// aggregate cap given the bytes already used
	Check(userID int64, kind entities.MediaKind, fileSize, usedBytes int64) error
}

// MediaDownloader fetches media files from the message transport
type MediaDownloader interface {
	// Download stores the file identified by fileID at dest
	Download(ctx context.Context, fileID, dest string) error
}

// GalleryRenderer renders one channel into a static gallery markup document
type GalleryRenderer interface {
	Render(channel *entities.Channel) (string, error)
}

// AlbumGenerator materializes gallery directories and packages the result tree
type AlbumGenerator interface {
	// GenerateAlbum renders one channel into the user's result tree
	GenerateAlbum(ctx context.Context, userID int64, channel *entities.Channel) error

	// Pack zips the user's result tree with store-only compression and
	// returns the archive path
	Pack(ctx context.Context, userID int64) (string, error)
}
