package buissines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
)

// burstKey identifies one forwarding burst: posts whose date and forward date
// round down to the same minute were split from a single multi-media post.
type burstKey struct {
	date        int64
	forwardDate int64
}

// Consolidate merges posts the origin platform split into multiple messages.
// Each channel is processed independently; the result is sorted by the
// original unrounded date, so the outcome does not depend on grouping order.
func (uc *UseCase) Consolidate(ctx context.Context, userID int64) error {
	log := uc.opLogger("consolidate", userID)

	archive, err := uc.repo.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, archiveerrors.ErrNoArchive) {
			return archiveerrors.ErrNoAlbums
		}
		log.Error().Err(err).Msg("Failed to load archive")
		return err
	}

	if len(archive.Channels) == 0 {
		return archiveerrors.ErrNoAlbums
	}

	for _, channel := range archive.Channels {
		merged, err := consolidatePosts(channel.Posts)
		if err != nil {
			log.Error().Err(err).Str("album", channel.Username).Msg("Stored post has unparseable date")
			return fmt.Errorf("%w: %v", archiveerrors.ErrCorruptData, err)
		}
		channel.Posts = merged
	}

	if err := uc.repo.Save(ctx, userID, archive); err != nil {
		log.Error().Err(err).Msg("Failed to save archive")
		return err
	}

	log.Info().Msg("Posts in all albums consolidated")
	return nil
}

// consolidatePosts folds posts of the same burst into one post: media lists
// are concatenated in encounter order, the last non-empty caption wins and
// the fold accumulator keeps its post id.
func consolidatePosts(posts []*entities.Post) ([]*entities.Post, error) {
	groups := make(map[burstKey]*entities.Post, len(posts))
	merged := make([]*entities.Post, 0, len(posts))

	for _, post := range posts {
		date, err := entities.ParseDate(post.Date)
		if err != nil {
			return nil, err
		}
		forwardDate, err := entities.ParseDate(post.ForwardDate)
		if err != nil {
			return nil, err
		}

		key := burstKey{
			date:        date.Truncate(time.Minute).Unix(),
			forwardDate: forwardDate.Truncate(time.Minute).Unix(),
		}

		acc, ok := groups[key]
		if !ok {
			acc = clonePost(post)
			groups[key] = acc
			merged = append(merged, acc)
			continue
		}

		acc.Photos = append(acc.Photos, post.Photos...)
		acc.Videos = append(acc.Videos, post.Videos...)
		if post.Text != "" {
			acc.Text = post.Text
		}
	}

	// The wire format is zero-padded, lexicographic order is chronological
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})

	return merged, nil
}

func clonePost(post *entities.Post) *entities.Post {
	clone := *post
	clone.Photos = append([]string{}, post.Photos...)
	clone.Videos = append([]string{}, post.Videos...)
	return &clone
}
