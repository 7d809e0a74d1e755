// Package errors contains domain-specific errors for the archive domain
package errors

import (
	"fmt"

	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	pkgerrors "github.com/archivegram/archivegrambot/pkg/errors"
)

// Domain errors for archive operations
var (
	ErrNoArchive        = pkgerrors.NewNotFoundError("no data found")
	ErrNoAlbums         = pkgerrors.NewNotFoundError("no albums found")
	ErrAlbumNotFound    = pkgerrors.NewNotFoundError("album not found")
	ErrDuplicatePost    = pkgerrors.NewConflictError("post already exists")
	ErrNothingGenerated = pkgerrors.NewNotFoundError("no albums have been generated")
	ErrCorruptData      = pkgerrors.NewInternalError("archive data is corrupted")
	ErrNotAuthorized    = pkgerrors.NewUnauthorizedError("user is not authorized")
	ErrAlbumKeyRequired = pkgerrors.NewValidationError("album username is not specified")
)

// MediaTooLargeError is returned when a single media file exceeds its per-kind cap
type MediaTooLargeError struct {
	Kind    entities.MediaKind
	Size    int64
	LimitMB int64
}

func (e *MediaTooLargeError) Error() string {
	return fmt.Sprintf("%s file size exceeds %d MB size limit", e.Kind, e.LimitMB)
}

// QuotaExceededError is returned when a media file would push the user folder over its cap
type QuotaExceededError struct {
	Used    int64
	Size    int64
	LimitMB int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("user folder cannot exceed %d MB size limit", e.LimitMB)
}
