// Package buissines contains business logic for the archive domain
package buissines

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/archivegram/archivegrambot/internal/domain/archive/deps"
	"github.com/archivegram/archivegrambot/internal/domain/archive/dto"
	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
)

const mimeTypeMP4 = "video/mp4"

// UseCase contains business logic for archive operations
type UseCase struct {
	repo       deps.ArchiveRepository
	quota      deps.QuotaTracker
	downloader deps.MediaDownloader
	generator  deps.AlbumGenerator
	logger     zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	repo deps.ArchiveRepository,
	quota deps.QuotaTracker,
	downloader deps.MediaDownloader,
	generator deps.AlbumGenerator,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:       repo,
		quota:      quota,
		downloader: downloader,
		generator:  generator,
		logger:     logger,
	}
}

// AddPost archives one incoming message: it resolves or creates the target
// album, rejects duplicates, enforces quota, downloads the selected media file
// and rewrites the archive document.
func (uc *UseCase) AddPost(ctx context.Context, req *dto.AddPostRequest) error {
	log := uc.opLogger("add_post", req.UserID)

	key := entities.DefaultAlbumKey
	title := entities.DefaultAlbumTitle
	description := ""
	originID := int64(0)
	postID := req.MessageID
	forwardDate := req.Date

	if req.Origin != nil {
		originID = req.Origin.ChatID
		if req.Origin.Username != "" {
			key = req.Origin.Username
		}
		if req.Origin.Title != "" {
			title = req.Origin.Title
		}
		description = req.Origin.Description
		if req.Origin.MessageID != 0 {
			postID = req.Origin.MessageID
		}
		if !req.Origin.Date.IsZero() {
			forwardDate = req.Origin.Date
		}
	}

	archive, err := uc.repo.Load(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, archiveerrors.ErrNoArchive) {
			log.Error().Err(err).Msg("Failed to load archive")
			return err
		}
		archive = &entities.UserArchive{Channels: []*entities.Channel{}}
	}

	channel := archive.ChannelByID(originID)
	if channel != nil && channel.HasPost(postID) {
		log.Warn().Int("post_id", postID).Str("album", key).Msg("Post already exists in album")
		return archiveerrors.ErrDuplicatePost
	}

	post := entities.NewPost(postID, req.Date, forwardDate, req.Text)

	if media := selectMedia(req); media != nil {
		// Quota is measured against the folder size before download
		used := uc.repo.UserDirSize(req.UserID)
		if err := uc.quota.Check(req.UserID, media.kind, media.size, used); err != nil {
			return err
		}

		fileName := media.fileID + "." + media.ext
		dest := filepath.Join(uc.repo.AlbumDir(req.UserID, key), fileName)
		if err := uc.downloader.Download(ctx, media.fileID, dest); err != nil {
			log.Error().Err(err).Str("file_id", media.fileID).Msg("Failed to download media file")
			return fmt.Errorf("failed to download media file: %w", err)
		}

		switch media.kind {
		case entities.MediaKindPhoto:
			post.Photos = append(post.Photos, fileName)
		case entities.MediaKindVideo:
			post.Videos = append(post.Videos, fileName)
		}
	}

	if channel == nil {
		channel = &entities.Channel{
			ID:          originID,
			Title:       title,
			Description: description,
			Username:    key,
			Posts:       []*entities.Post{},
		}
		archive.Channels = append(archive.Channels, channel)
	}
	channel.Posts = append(channel.Posts, post)

	if err := uc.repo.Save(ctx, req.UserID, archive); err != nil {
		log.Error().Err(err).Msg("Failed to save archive")
		return err
	}

	log.Info().Int("post_id", postID).Str("album", key).Msg("Post added to archive")
	return nil
}

// mediaSelection is the single media file retained from an incoming message
type mediaSelection struct {
	kind   entities.MediaKind
	fileID string
	size   int64
	ext    string
}

// selectMedia picks the media file to store: the highest-resolution photo
// variant, or a video when its declared type is exactly video/mp4. Any other
// shape yields a text-only post.
func selectMedia(req *dto.AddPostRequest) *mediaSelection {
	if len(req.Photos) > 0 {
		best := req.Photos[0]
		for _, p := range req.Photos[1:] {
			if p.Width*p.Height > best.Width*best.Height {
				best = p
			}
		}
		return &mediaSelection{kind: entities.MediaKindPhoto, fileID: best.FileID, size: best.Size, ext: "jpg"}
	}

	if req.Video != nil && req.Video.MimeType == mimeTypeMP4 {
		return &mediaSelection{kind: entities.MediaKindVideo, fileID: req.Video.FileID, size: req.Video.Size, ext: "mp4"}
	}

	return nil
}

// opLogger builds a logger carrying a correlation id for one operation
func (uc *UseCase) opLogger(operation string, userID int64) zerolog.Logger {
	return uc.logger.With().
		Str("operation", operation).
		Str("op_id", uuid.NewString()).
		Int64("user_id", userID).
		Logger()
}
