package buissines

import (
	"context"
	"errors"
	"math"

	"github.com/archivegram/archivegrambot/internal/domain/archive/dto"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
)

// ListAlbums returns every stored album with its post count and disk usage
func (uc *UseCase) ListAlbums(ctx context.Context, userID int64) (*dto.AlbumList, error) {
	archive, err := uc.repo.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, archiveerrors.ErrNoArchive) {
			return nil, archiveerrors.ErrNoAlbums
		}
		return nil, err
	}

	if len(archive.Channels) == 0 {
		return nil, archiveerrors.ErrNoAlbums
	}

	albums := make([]dto.AlbumInfo, 0, len(archive.Channels))
	for _, channel := range archive.Channels {
		albums = append(albums, dto.AlbumInfo{
			Key:       channel.Username,
			Title:     channel.Title,
			PostCount: len(channel.Posts),
			SizeMB:    convertToMB(uc.repo.AlbumDirSize(userID, channel.Username)),
		})
	}

	return &dto.AlbumList{
		Albums:      albums,
		TotalSizeMB: convertToMB(uc.repo.UserDirSize(userID)),
	}, nil
}

// DeleteAlbum removes one album: its entry in the archive document and its
// media folder
func (uc *UseCase) DeleteAlbum(ctx context.Context, userID int64, key string) error {
	log := uc.opLogger("delete_album", userID)

	if key == "" {
		return archiveerrors.ErrAlbumKeyRequired
	}

	archive, err := uc.repo.Load(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load archive")
		return err
	}

	if !archive.RemoveChannel(key) {
		return archiveerrors.ErrAlbumNotFound
	}

	if err := uc.repo.Save(ctx, userID, archive); err != nil {
		log.Error().Err(err).Msg("Failed to save archive")
		return err
	}

	if err := uc.repo.DeleteAlbumDir(ctx, userID, key); err != nil {
		log.Error().Err(err).Str("album", key).Msg("Failed to delete album folder")
		return err
	}

	log.Info().Str("album", key).Msg("Album deleted")
	return nil
}

// DeleteAll removes the user's whole archive: the document and every media folder
func (uc *UseCase) DeleteAll(ctx context.Context, userID int64) error {
	log := uc.opLogger("delete_all", userID)

	if err := uc.repo.DeleteUser(ctx, userID); err != nil {
		if !errors.Is(err, archiveerrors.ErrNoArchive) {
			log.Error().Err(err).Msg("Failed to delete user data")
		}
		return err
	}

	log.Info().Msg("All user data deleted")
	return nil
}

// convertToMB converts bytes to megabytes rounded to two decimals
func convertToMB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024)*100) / 100
}
