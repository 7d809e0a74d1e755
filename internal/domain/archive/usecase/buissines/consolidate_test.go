package buissines

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
)

func storedPost(id int, date, forwardDate, text string, photos ...string) *entities.Post {
	if photos == nil {
		photos = []string{}
	}
	return &entities.Post{
		ID:          id,
		Date:        date,
		ForwardDate: forwardDate,
		Text:        text,
		Photos:      photos,
		Videos:      []string{},
	}
}

func TestConsolidate_MergesSameBurst(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = &entities.UserArchive{
		Channels: []*entities.Channel{{
			ID:       -1001,
			Username: "catpics",
			Posts: []*entities.Post{
				storedPost(1, "2024-03-01 12:00:05 UTC", "2024-03-01 11:59:10 UTC", "", "a.jpg"),
				storedPost(2, "2024-03-01 12:00:45 UTC", "2024-03-01 11:59:55 UTC", "the caption", "b.jpg"),
				storedPost(3, "2024-03-01 12:01:05 UTC", "2024-03-01 11:59:10 UTC", "later", "c.jpg"),
			},
		}},
	}

	require.NoError(t, env.uc.Consolidate(context.Background(), 42))

	posts := env.repo.archives[42].Channels[0].Posts
	require.Len(t, posts, 2)

	merged := posts[0]
	assert.Equal(t, 1, merged.ID, "the fold accumulator keeps its id")
	assert.Equal(t, "2024-03-01 12:00:05 UTC", merged.Date)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, merged.Photos, "media concatenated in encounter order")
	assert.Equal(t, "the caption", merged.Text, "last non-empty caption wins")

	assert.Equal(t, 3, posts[1].ID, "the next minute stays separate")
}

func TestConsolidate_LastNonEmptyCaptionWins(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = &entities.UserArchive{
		Channels: []*entities.Channel{{
			Username: "catpics",
			Posts: []*entities.Post{
				storedPost(1, "2024-03-01 12:00:05 UTC", "2024-03-01 12:00:05 UTC", "first"),
				storedPost(2, "2024-03-01 12:00:10 UTC", "2024-03-01 12:00:10 UTC", "second"),
				storedPost(3, "2024-03-01 12:00:20 UTC", "2024-03-01 12:00:20 UTC", ""),
			},
		}},
	}

	require.NoError(t, env.uc.Consolidate(context.Background(), 42))

	posts := env.repo.archives[42].Channels[0].Posts
	require.Len(t, posts, 1)
	assert.Equal(t, "second", posts[0].Text, "an empty caption does not overwrite an earlier one")
}

func TestConsolidate_DistinctForwardMinutesStaySeparate(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = &entities.UserArchive{
		Channels: []*entities.Channel{{
			Username: "catpics",
			Posts: []*entities.Post{
				storedPost(1, "2024-03-01 12:00:05 UTC", "2024-03-01 11:58:00 UTC", "a"),
				storedPost(2, "2024-03-01 12:00:45 UTC", "2024-03-01 11:59:00 UTC", "b"),
			},
		}},
	}

	require.NoError(t, env.uc.Consolidate(context.Background(), 42))

	assert.Len(t, env.repo.archives[42].Channels[0].Posts, 2)
}

func TestConsolidate_SortsByUnroundedDate(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = &entities.UserArchive{
		Channels: []*entities.Channel{{
			Username: "catpics",
			Posts: []*entities.Post{
				storedPost(5, "2024-03-01 12:05:00 UTC", "2024-03-01 12:05:00 UTC", "late"),
				storedPost(1, "2024-03-01 12:00:05 UTC", "2024-03-01 12:00:05 UTC", "early"),
				storedPost(3, "2024-03-01 12:02:30 UTC", "2024-03-01 12:02:30 UTC", "middle"),
			},
		}},
	}

	require.NoError(t, env.uc.Consolidate(context.Background(), 42))

	posts := env.repo.archives[42].Channels[0].Posts
	require.Len(t, posts, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{posts[0].ID, posts[1].ID, posts[2].ID})
}

func TestConsolidate_ChannelsProcessedIndependently(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = &entities.UserArchive{
		Channels: []*entities.Channel{
			{
				Username: "catpics",
				Posts: []*entities.Post{
					storedPost(1, "2024-03-01 12:00:05 UTC", "2024-03-01 12:00:05 UTC", "", "a.jpg"),
				},
			},
			{
				Username: "dogpics",
				Posts: []*entities.Post{
					// Same minute pair as catpics, but a different channel
					storedPost(7, "2024-03-01 12:00:30 UTC", "2024-03-01 12:00:30 UTC", "", "d.jpg"),
				},
			},
		},
	}

	require.NoError(t, env.uc.Consolidate(context.Background(), 42))

	archive := env.repo.archives[42]
	assert.Len(t, archive.Channels[0].Posts, 1)
	assert.Len(t, archive.Channels[1].Posts, 1)
	assert.Equal(t, []string{"d.jpg"}, archive.Channels[1].Posts[0].Photos)
}

func TestConsolidate_NoAlbums(t *testing.T) {
	env := newTestEnv()

	err := env.uc.Consolidate(context.Background(), 42)
	assert.ErrorIs(t, err, archiveerrors.ErrNoAlbums)

	env.repo.archives[42] = &entities.UserArchive{Channels: []*entities.Channel{}}
	err = env.uc.Consolidate(context.Background(), 42)
	assert.ErrorIs(t, err, archiveerrors.ErrNoAlbums)
}

func TestConsolidate_CorruptDate(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = &entities.UserArchive{
		Channels: []*entities.Channel{{
			Username: "catpics",
			Posts: []*entities.Post{
				storedPost(1, "not a date", "2024-03-01 12:00:05 UTC", ""),
			},
		}},
	}

	err := env.uc.Consolidate(context.Background(), 42)
	assert.ErrorIs(t, err, archiveerrors.ErrCorruptData)
}
