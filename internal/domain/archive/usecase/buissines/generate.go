package buissines

import (
	"context"
	"errors"

	"github.com/archivegram/archivegrambot/internal/domain/archive/dto"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
)

// GenerateAlbums renders the selected albums into the result tree and packages
// it into one downloadable archive. A failed album is logged and skipped, it
// does not abort the remaining albums.
func (uc *UseCase) GenerateAlbums(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error) {
	log := uc.opLogger("generate_albums", req.UserID)

	if !req.All && req.Key == "" {
		return nil, archiveerrors.ErrAlbumKeyRequired
	}

	archive, err := uc.repo.Load(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, archiveerrors.ErrNoArchive) {
			if req.All {
				return nil, archiveerrors.ErrNothingGenerated
			}
			return nil, archiveerrors.ErrAlbumNotFound
		}
		log.Error().Err(err).Msg("Failed to load archive")
		return nil, err
	}

	if !req.All && archive.ChannelByKey(req.Key) == nil {
		return nil, archiveerrors.ErrAlbumNotFound
	}

	count := 0
	for _, channel := range archive.Channels {
		if !req.All && channel.Username != req.Key {
			continue
		}

		if err := uc.generator.GenerateAlbum(ctx, req.UserID, channel); err != nil {
			log.Error().Err(err).Str("album", channel.Username).Msg("Error generating album")
		} else {
			count++
		}

		if !req.All {
			break
		}
	}

	if count == 0 {
		return nil, archiveerrors.ErrNothingGenerated
	}

	archivePath, err := uc.generator.Pack(ctx, req.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to package generated albums")
		return nil, err
	}

	log.Info().Int("count", count).Str("archive", archivePath).Msg("Albums generated")
	return &dto.GenerateResult{Count: count, ArchivePath: archivePath}, nil
}
