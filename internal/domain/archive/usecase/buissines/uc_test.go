package buissines

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivegram/archivegrambot/config"
	"github.com/archivegram/archivegrambot/internal/domain/archive/dto"
	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
	archiveerrors "github.com/archivegram/archivegrambot/internal/domain/archive/errors"
	"github.com/archivegram/archivegrambot/internal/domain/archive/quota"
)

const mb = 1024 * 1024

// fakeRepo is an in-memory deps.ArchiveRepository
type fakeRepo struct {
	archives      map[int64]*entities.UserArchive
	usedBytes     int64
	albumBytes    map[string]int64
	saves         int
	deletedAlbums []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		archives:   map[int64]*entities.UserArchive{},
		albumBytes: map[string]int64{},
	}
}

func (r *fakeRepo) Load(_ context.Context, userID int64) (*entities.UserArchive, error) {
	archive, ok := r.archives[userID]
	if !ok {
		return nil, archiveerrors.ErrNoArchive
	}
	return archive, nil
}

func (r *fakeRepo) Save(_ context.Context, userID int64, archive *entities.UserArchive) error {
	r.archives[userID] = archive
	r.saves++
	return nil
}

func (r *fakeRepo) UserDir(userID int64) string {
	return filepath.Join("data", fmt.Sprint(userID))
}

func (r *fakeRepo) AlbumDir(userID int64, key string) string {
	return filepath.Join(r.UserDir(userID), key)
}

func (r *fakeRepo) UserDirSize(int64) int64 { return r.usedBytes }

func (r *fakeRepo) AlbumDirSize(_ int64, key string) int64 { return r.albumBytes[key] }

func (r *fakeRepo) DeleteUser(_ context.Context, userID int64) error {
	if _, ok := r.archives[userID]; !ok {
		return archiveerrors.ErrNoArchive
	}
	delete(r.archives, userID)
	return nil
}

func (r *fakeRepo) DeleteAlbumDir(_ context.Context, _ int64, key string) error {
	r.deletedAlbums = append(r.deletedAlbums, key)
	return nil
}

// fakeDownloader records download calls
type fakeDownloader struct {
	err   error
	dests []string
}

func (d *fakeDownloader) Download(_ context.Context, _, dest string) error {
	if d.err != nil {
		return d.err
	}
	d.dests = append(d.dests, dest)
	return nil
}

// fakeGenerator records generated albums
type fakeGenerator struct {
	failAlbums map[string]error
	packErr    error
	generated  []string
}

func (g *fakeGenerator) GenerateAlbum(_ context.Context, _ int64, channel *entities.Channel) error {
	if err := g.failAlbums[channel.Username]; err != nil {
		return err
	}
	g.generated = append(g.generated, channel.Username)
	return nil
}

func (g *fakeGenerator) Pack(_ context.Context, _ int64) (string, error) {
	if g.packErr != nil {
		return "", g.packErr
	}
	return filepath.Join("result", "ArchiveGramBot-Archive-2024-03-01_12-30-45.zip"), nil
}

type testEnv struct {
	uc         *UseCase
	repo       *fakeRepo
	downloader *fakeDownloader
	generator  *fakeGenerator
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	downloader := &fakeDownloader{}
	gen := &fakeGenerator{}
	tracker := quota.NewTracker(&config.QuotaConfig{
		MaxUserFolderSizeMB: 10,
		MaxPhotoSizeMB:      5,
		MaxVideoSizeMB:      20,
	}, zerolog.Nop())

	return &testEnv{
		uc:         NewUseCase(repo, tracker, downloader, gen, zerolog.Nop()),
		repo:       repo,
		downloader: downloader,
		generator:  gen,
	}
}

func photoRequest(userID int64, messageID int) *dto.AddPostRequest {
	return &dto.AddPostRequest{
		UserID:    userID,
		MessageID: messageID,
		Date:      time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC),
		Text:      "orange",
		Origin: &dto.ForwardOrigin{
			ChatID:    -1001,
			Title:     "Cats",
			Username:  "catpics",
			MessageID: 17,
			Date:      time.Date(2024, 3, 1, 11, 59, 0, 0, time.UTC),
		},
		Photos: []dto.PhotoCandidate{
			{FileID: "small", Width: 90, Height: 60, Size: 10_000},
			{FileID: "large", Width: 1280, Height: 960, Size: 200_000},
			{FileID: "medium", Width: 640, Height: 480, Size: 50_000},
		},
	}
}

func TestAddPost_CreatesChannelFromOrigin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.uc.AddPost(ctx, photoRequest(42, 100)))

	archive := env.repo.archives[42]
	require.Len(t, archive.Channels, 1)

	channel := archive.Channels[0]
	assert.Equal(t, int64(-1001), channel.ID)
	assert.Equal(t, "Cats", channel.Title)
	assert.Equal(t, "catpics", channel.Username)

	require.Len(t, channel.Posts, 1)
	post := channel.Posts[0]
	assert.Equal(t, 17, post.ID, "forwarded origin message id wins over local id")
	assert.Equal(t, "2024-03-01 12:00:05 UTC", post.Date)
	assert.Equal(t, "2024-03-01 11:59:00 UTC", post.ForwardDate)
	assert.Equal(t, []string{"large.jpg"}, post.Photos, "highest resolution variant is kept")
	assert.Empty(t, post.Videos)
}

func TestAddPost_NotForwardedGoesToDefaultAlbum(t *testing.T) {
	env := newTestEnv()

	req := &dto.AddPostRequest{
		UserID:    42,
		MessageID: 100,
		Date:      time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC),
		Text:      "just a note",
	}
	require.NoError(t, env.uc.AddPost(context.Background(), req))

	archive := env.repo.archives[42]
	require.Len(t, archive.Channels, 1)

	channel := archive.Channels[0]
	assert.Equal(t, int64(0), channel.ID)
	assert.Equal(t, entities.DefaultAlbumKey, channel.Username)
	assert.Equal(t, entities.DefaultAlbumTitle, channel.Title)

	post := channel.Posts[0]
	assert.Equal(t, 100, post.ID)
	assert.Equal(t, post.Date, post.ForwardDate, "forward date equals date when not forwarded")
}

func TestAddPost_DuplicateRejectedBeforeDownload(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.uc.AddPost(ctx, photoRequest(42, 100)))
	savedBefore := env.repo.saves
	downloadsBefore := len(env.downloader.dests)

	err := env.uc.AddPost(ctx, photoRequest(42, 200))
	assert.ErrorIs(t, err, archiveerrors.ErrDuplicatePost)
	assert.Equal(t, savedBefore, env.repo.saves, "archive must stay unchanged")
	assert.Equal(t, downloadsBefore, len(env.downloader.dests), "no media is downloaded for a duplicate")
}

func TestAddPost_VideoMP4Accepted(t *testing.T) {
	env := newTestEnv()

	req := photoRequest(42, 100)
	req.Photos = nil
	req.Video = &dto.VideoCandidate{FileID: "vid-1", MimeType: "video/mp4", Size: 6 * mb}
	require.NoError(t, env.uc.AddPost(context.Background(), req))

	post := env.repo.archives[42].Channels[0].Posts[0]
	assert.Empty(t, post.Photos)
	assert.Equal(t, []string{"vid-1.mp4"}, post.Videos)
	assert.Equal(t, filepath.Join("data", "42", "catpics", "vid-1.mp4"), env.downloader.dests[0])
}

func TestAddPost_UnsupportedVideoBecomesTextOnly(t *testing.T) {
	env := newTestEnv()

	req := photoRequest(42, 100)
	req.Photos = nil
	req.Video = &dto.VideoCandidate{FileID: "vid-1", MimeType: "video/webm", Size: 6 * mb}
	require.NoError(t, env.uc.AddPost(context.Background(), req))

	post := env.repo.archives[42].Channels[0].Posts[0]
	assert.Empty(t, post.Photos)
	assert.Empty(t, post.Videos)
	assert.Empty(t, env.downloader.dests, "unsupported media is not downloaded")
}

func TestAddPost_MediaTooLarge(t *testing.T) {
	env := newTestEnv()

	req := photoRequest(42, 100)
	req.Photos = []dto.PhotoCandidate{{FileID: "huge", Width: 4000, Height: 3000, Size: 6 * mb}}

	err := env.uc.AddPost(context.Background(), req)
	var tooLarge *archiveerrors.MediaTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, entities.MediaKindPhoto, tooLarge.Kind)
	assert.Empty(t, env.repo.archives, "nothing is persisted on rejection")
}

func TestAddPost_QuotaExceeded(t *testing.T) {
	env := newTestEnv()
	env.repo.usedBytes = 9 * mb

	req := photoRequest(42, 100)
	req.Photos = []dto.PhotoCandidate{{FileID: "big", Width: 1000, Height: 1000, Size: 2 * mb}}

	err := env.uc.AddPost(context.Background(), req)
	var exceeded *archiveerrors.QuotaExceededError
	require.True(t, errors.As(err, &exceeded))
	assert.Empty(t, env.downloader.dests)
}

func TestAddPost_DownloadFailure(t *testing.T) {
	env := newTestEnv()
	env.downloader.err = fmt.Errorf("connection reset")

	err := env.uc.AddPost(context.Background(), photoRequest(42, 100))
	require.Error(t, err)
	assert.Empty(t, env.repo.archives, "post is not recorded when download fails")
}

func TestAddPost_SecondChannelAppended(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.uc.AddPost(ctx, photoRequest(42, 100)))

	req := photoRequest(42, 200)
	req.Origin = &dto.ForwardOrigin{ChatID: -1002, Title: "Dogs", Username: "dogpics", MessageID: 3}
	req.Photos = nil
	require.NoError(t, env.uc.AddPost(ctx, req))

	archive := env.repo.archives[42]
	require.Len(t, archive.Channels, 2)
	assert.Equal(t, "catpics", archive.Channels[0].Username)
	assert.Equal(t, "dogpics", archive.Channels[1].Username)
}
