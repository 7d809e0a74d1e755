package buissines

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivegram/archivegrambot/internal/domain/archive/dto"
	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
)

func twoChannelArchive() *entities.UserArchive {
	return &entities.UserArchive{
		Channels: []*entities.Channel{
			{ID: -1001, Title: "Cats", Username: "catpics", Posts: []*entities.Post{}},
			{ID: -1002, Title: "Dogs", Username: "dogpics", Posts: []*entities.Post{}},
		},
	}
}

func TestGenerateAlbums_All(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = twoChannelArchive()

	result, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, All: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.NotEmpty(t, result.ArchivePath)
	assert.Equal(t, []string{"catpics", "dogpics"}, env.generator.generated)
}

func TestGenerateAlbums_SingleKey(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = twoChannelArchive()

	result, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, Key: "dogpics"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []string{"dogpics"}, env.generator.generated)
}

func TestGenerateAlbums_UnknownKey(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = twoChannelArchive()

	_, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, Key: "birds"})
	assert.ErrorIs(t, err, archiveerrors.ErrAlbumNotFound)
}

func TestGenerateAlbums_MissingKey(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42})
	assert.ErrorIs(t, err, archiveerrors.ErrAlbumKeyRequired)
}

func TestGenerateAlbums_AllWithZeroChannels(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = &entities.UserArchive{Channels: []*entities.Channel{}}

	_, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, All: true})
	assert.ErrorIs(t, err, archiveerrors.ErrNothingGenerated)
}

func TestGenerateAlbums_AllWithNoArchive(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, All: true})
	assert.ErrorIs(t, err, archiveerrors.ErrNothingGenerated)
}

func TestGenerateAlbums_FailedAlbumIsSkipped(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = twoChannelArchive()
	env.generator.failAlbums = map[string]error{"catpics": fmt.Errorf("render failed")}

	result, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, All: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []string{"dogpics"}, env.generator.generated)
}

func TestGenerateAlbums_AllAlbumsFail(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = twoChannelArchive()
	env.generator.failAlbums = map[string]error{
		"catpics": fmt.Errorf("render failed"),
		"dogpics": fmt.Errorf("render failed"),
	}

	_, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, All: true})
	assert.ErrorIs(t, err, archiveerrors.ErrNothingGenerated)
}

func TestGenerateAlbums_PackFailure(t *testing.T) {
	env := newTestEnv()
	env.repo.archives[42] = twoChannelArchive()
	env.generator.packErr = fmt.Errorf("disk full")

	_, err := env.uc.GenerateAlbums(context.Background(), &dto.GenerateRequest{UserID: 42, All: true})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, archiveerrors.ErrNothingGenerated)
}
