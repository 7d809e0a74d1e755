// Package quota enforces the per-file and per-user disk budgets at ingestion time
package quota

import (
	"github.com/rs/zerolog"

	"github.com/archivegram/archivegrambot/config"
	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
)

// Tracker validates candidate media files against the configured caps
type Tracker struct {
	cfg    *config.QuotaConfig
	logger zerolog.Logger
}

// NewTracker creates a new quota tracker
func NewTracker(cfg *config.QuotaConfig, logger zerolog.Logger) *Tracker {
	return &Tracker{
		cfg:    cfg,
		logger: logger.With().Str("component", "quota-tracker").Logger(),
	}
}

// Check validates fileSize against the per-kind cap, then against the user's
// aggregate cap given usedBytes measured before download. The aggregate check
// is point-in-time, not transactional against concurrent ingestions.
func (t *Tracker) Check(userID int64, kind entities.MediaKind, fileSize, usedBytes int64) error {
	capBytes, capMB := t.kindCap(kind)

	if fileSize > capBytes {
		t.logger.Warn().
			Int64("user_id", userID).
			Str("kind", string(kind)).
			Int64("file_size", fileSize).
			Int64("limit", capBytes).
			Msg("Media file exceeds per-file size limit")
		return &archiveerrors.MediaTooLargeError{Kind: kind, Size: fileSize, LimitMB: capMB}
	}

	if usedBytes+fileSize > t.cfg.MaxUserFolderBytes() {
		t.logger.Warn().
			Int64("user_id", userID).
			Int64("used", usedBytes).
			Int64("file_size", fileSize).
			Int64("limit", t.cfg.MaxUserFolderBytes()).
			Msg("User folder would exceed size limit")
		return &archiveerrors.QuotaExceededError{Used: usedBytes, Size: fileSize, LimitMB: t.cfg.MaxUserFolderSizeMB}
	}

	return nil
}

func (t *Tracker) kindCap(kind entities.MediaKind) (capBytes, capMB int64) {
	if kind == entities.MediaKindVideo {
		return t.cfg.MaxVideoBytes(), t.cfg.MaxVideoSizeMB
	}
	return t.cfg.MaxPhotoBytes(), t.cfg.MaxPhotoSizeMB
}
