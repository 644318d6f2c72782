package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alpha_backend/internal/models"
	"alpha_backend/internal/services/dto"
	"alpha_backend/pkg/apperrors"
)

type userFixture struct {
	svc      UserService
	users    *fakeUserRepo
	podcasts *fakePodcastRepo
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := newFakeUserRepo()
	podcasts := newFakePodcastRepo()
	return &userFixture{
		svc:      NewUserService(users, podcasts),
		users:    users,
		podcasts: podcasts,
	}
}

func TestToggleLiked(t *testing.T) {
	fx := newUserFixture(t)
	db := newTestDB(t)
	ctx := context.Background()
	podcast := fx.podcasts.put(&models.Podcast{Title: "Static", LegacyID: "1"})

	// Подкаст ищется и по легаси-id, в список попадает его uuid
	ids, err := fx.svc.ToggleLiked(ctx, db, "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{podcast.ID}, ids)

	// Счетчик лайков подкаста этим путем не затрагивается
	count, err := fx.podcasts.CountLikes(nil, podcast.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Повторный вызов убирает подкаст и возвращает пустой список
	ids, err = fx.svc.ToggleLiked(ctx, db, "u1", "1")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestToggleLikedUnknownPodcast(t *testing.T) {
	fx := newUserFixture(t)
	_, err := fx.svc.ToggleLiked(context.Background(), newTestDB(t), "u1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrPodcastNotFound)
}

func TestToggleLibrary(t *testing.T) {
	fx := newUserFixture(t)
	db := newTestDB(t)
	ctx := context.Background()
	podcast := fx.podcasts.put(&models.Podcast{Title: "Show"})

	inLibrary, err := fx.svc.ToggleLibrary(ctx, db, "u1", podcast.ID)
	require.NoError(t, err)
	assert.True(t, inLibrary)

	inLibrary, err = fx.svc.ToggleLibrary(ctx, db, "u1", podcast.ID)
	require.NoError(t, err)
	assert.False(t, inLibrary)
}

func TestToggleLibraryUnknownPodcast(t *testing.T) {
	fx := newUserFixture(t)
	_, err := fx.svc.ToggleLibrary(context.Background(), newTestDB(t), "u1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrPodcastNotFound)
}

func TestAddHistoryDeduplicates(t *testing.T) {
	fx := newUserFixture(t)
	db := newTestDB(t)
	ctx := context.Background()
	podcast := fx.podcasts.put(&models.Podcast{Title: "Show"})

	require.NoError(t, fx.svc.AddHistory(ctx, db, "u1", &dto.AddHistoryRequest{PodcastID: podcast.ID}))
	require.NoError(t, fx.svc.AddHistory(ctx, db, "u1", &dto.AddHistoryRequest{PodcastID: podcast.ID, Progress: 120}))

	entries, err := fx.svc.GetHistory(ctx, db, "u1")
	require.NoError(t, err)
	// Повторное прослушивание не дублирует запись
	require.Len(t, entries, 1)
	assert.Equal(t, 120, entries[0].Progress)
}

func TestAddHistoryCapsAtLimit(t *testing.T) {
	fx := newUserFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < HistoryLimit+5; i++ {
		p := fx.podcasts.put(&models.Podcast{Title: fmt.Sprintf("Show %d", i)})
		require.NoError(t, fx.users.CreateHistoryEntry(nil, &models.HistoryEntry{
			UserID:    "u1",
			PodcastID: p.ID,
			PlayedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}
	newest := fx.podcasts.put(&models.Podcast{Title: "Newest"})

	require.NoError(t, fx.svc.AddHistory(ctx, db, "u1", &dto.AddHistoryRequest{PodcastID: newest.ID}))

	entries, err := fx.svc.GetHistory(ctx, db, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, HistoryLimit)
	// Самая свежая запись - первой
	assert.Equal(t, newest.ID, entries[0].PodcastID)
}

func TestAddHistoryUnknownPodcast(t *testing.T) {
	fx := newUserFixture(t)
	err := fx.svc.AddHistory(context.Background(), newTestDB(t), "u1", &dto.AddHistoryRequest{PodcastID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrPodcastNotFound)
}

func TestGetPublicProfile(t *testing.T) {
	fx := newUserFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	channel := fx.users.put(&models.User{
		Username:       "alice",
		Email:          "alice@example.com",
		Phone:          "+100",
		ProfilePicture: "/uploads/profiles/a.png",
	})
	channelID := channel.ID
	fx.podcasts.put(&models.Podcast{Title: "Show", UserID: &channelID})
	require.NoError(t, fx.users.AddFollower(nil, channel.ID, "bob"))

	profile, err := fx.svc.GetPublicProfile(ctx, db, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, int64(1), profile.SubscriberCount)
	assert.Equal(t, 1, profile.PodcastCount)
}

func TestUpdateProfile(t *testing.T) {
	fx := newUserFixture(t)
	db := newTestDB(t)
	user := fx.users.put(&models.User{Username: "alice", Email: "a@b.com", Phone: "+1"})

	updated, err := fx.svc.UpdateProfile(context.Background(), db, user.ID, &dto.UpdateProfileRequest{
		Username: "alice-new",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice-new", updated.Username)
	// Незаполненные поля не затираются
	assert.Equal(t, "+1", updated.Phone)
}
