package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alpha_backend/internal/models"
	"alpha_backend/internal/otp"
	"alpha_backend/internal/storage"
	"alpha_backend/pkg/apperrors"
)

type accountFixture struct {
	svc      AccountService
	users    *fakeUserRepo
	podcasts *fakePodcastRepo
	subs     *fakeSubscriptionRepo
	comments *fakeCommentRepo
	mail     *recordingEmail
	store    *storage.LocalStorage
	basePath string
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	basePath := filepath.Join(t.TempDir(), "uploads")
	store, err := storage.NewLocalStorage(storage.Config{BasePath: basePath, BaseURL: "/uploads"})
	require.NoError(t, err)

	users := newFakeUserRepo()
	podcasts := newFakePodcastRepo()
	subs := newFakeSubscriptionRepo()
	comments := newFakeCommentRepo()
	mail := newRecordingEmail()

	return &accountFixture{
		svc:      NewAccountService(users, podcasts, subs, comments, mail, store),
		users:    users,
		podcasts: podcasts,
		subs:     subs,
		comments: comments,
		mail:     mail,
		store:    store,
		basePath: basePath,
	}
}

func (fx *accountFixture) writeUpload(t *testing.T, key string) {
	t.Helper()
	require.NoError(t, fx.store.Save(context.Background(), key, strings.NewReader("data")))
}

func (fx *accountFixture) uploadExists(key string) bool {
	_, err := os.Stat(filepath.Join(fx.basePath, filepath.FromSlash(key)))
	return err == nil
}

func TestRequestDeletionOTP(t *testing.T) {
	fx := newAccountFixture(t)
	user := fx.users.put(&models.User{Username: "alice", Email: "alice@example.com", IsVerified: true})

	err := fx.svc.RequestDeletionOTP(context.Background(), newTestDB(t), user.ID)
	require.NoError(t, err)

	sent := fx.mail.byKind("deletion_otp")
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].to)
	assert.Len(t, sent[0].code, 6)

	stored, err := fx.users.FindByID(nil, user.ID)
	require.NoError(t, err)
	require.True(t, stored.HasPendingOTP())
	assert.Equal(t, models.OTPPurposeDeletion, *stored.OTPPurpose)
}

func TestDeleteAccountCascade(t *testing.T) {
	fx := newAccountFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	user := fx.users.put(&models.User{
		Username:       "alice",
		Email:          "alice@example.com",
		Phone:          "+100",
		IsVerified:     true,
		ProfilePicture: "/uploads/profiles/alice.png",
	})
	other := fx.users.put(&models.User{Username: "bob", Email: "bob@example.com", IsVerified: true})

	userID := user.ID
	podcast := fx.podcasts.put(&models.Podcast{
		Title:    "Show",
		UserID:   &userID,
		Image:    "/uploads/thumbnails/show.png",
		AudioURL: "/uploads/audio/show.mp3",
		Episodes: []models.Episode{{AudioURL: "/uploads/audio/ep1.mp3"}},
	})
	// Подкаст из статического каталога с внешними ссылками не трогается
	fx.podcasts.put(&models.Podcast{
		Title:    "Static",
		LegacyID: "1",
		Image:    "https://cdn.example.com/static.png",
	})

	for _, key := range []string{"profiles/alice.png", "thumbnails/show.png", "audio/show.mp3", "audio/ep1.mp3"} {
		fx.writeUpload(t, key)
	}

	// Связи: bob подписан на alice, alice подписана на bob
	require.NoError(t, fx.users.AddFollower(nil, user.ID, other.ID))
	require.NoError(t, fx.users.AddFollower(nil, other.ID, user.ID))
	require.NoError(t, fx.subs.Create(nil, &models.Subscription{SubscriberID: other.ID, ChannelID: user.ID}))
	require.NoError(t, fx.subs.Create(nil, &models.Subscription{SubscriberID: user.ID, ChannelID: other.ID}))
	require.NoError(t, fx.comments.Create(nil, &models.Comment{UserID: user.ID, PodcastID: "1", Text: "hi"}))
	require.NoError(t, fx.users.CreateHistoryEntry(nil, &models.HistoryEntry{UserID: user.ID, PodcastID: podcast.ID, PlayedAt: time.Now()}))

	code, err := otp.Assign(user, models.OTPPurposeDeletion, time.Now())
	require.NoError(t, err)
	require.NoError(t, fx.users.Save(nil, user))

	err = fx.svc.DeleteAccount(ctx, db, user.ID, code, "leaving")
	require.NoError(t, err)

	// Пользователь и его подкасты удалены
	_, err = fx.users.FindByID(nil, user.ID)
	assert.Error(t, err)
	mine, _ := fx.podcasts.FindByUser(nil, user.ID)
	assert.Empty(t, mine)

	// Ребра подписок в обе стороны и комментарии зачищены
	assert.Equal(t, 0, fx.subs.count())
	subscribed, _ := fx.users.IsSubscribed(nil, other.ID, user.ID)
	assert.False(t, subscribed)
	left, _ := fx.comments.FindByPodcastID(nil, "1")
	assert.Empty(t, left)

	// Файлы управляемого дерева удалены
	for _, key := range []string{"profiles/alice.png", "thumbnails/show.png", "audio/show.mp3", "audio/ep1.mp3"} {
		assert.False(t, fx.uploadExists(key), "file %s should be removed", key)
	}

	// Администратор уведомлен
	sent := fx.mail.byKind("deleted")
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].to)
	assert.Equal(t, "leaving", sent[0].body)

	// Другой пользователь не затронут
	_, err = fx.users.FindByID(nil, other.ID)
	assert.NoError(t, err)
}

func TestDeleteAccountWrongOTP(t *testing.T) {
	fx := newAccountFixture(t)
	user := fx.users.put(&models.User{Username: "alice", Email: "a@b.com", IsVerified: true})

	_, err := otp.Assign(user, models.OTPPurposeDeletion, time.Now())
	require.NoError(t, err)
	require.NoError(t, fx.users.Save(nil, user))

	err = fx.svc.DeleteAccount(context.Background(), newTestDB(t), user.ID, "999999999", "leaving")
	assert.ErrorIs(t, err, apperrors.ErrOTPInvalid)

	// Аккаунт на месте, писем нет
	_, findErr := fx.users.FindByID(nil, user.ID)
	assert.NoError(t, findErr)
	assert.Empty(t, fx.mail.byKind("deleted"))
}

func TestDeleteAccountExpiredOTP(t *testing.T) {
	fx := newAccountFixture(t)
	user := fx.users.put(&models.User{Username: "alice", Email: "a@b.com", IsVerified: true})

	code, err := otp.Assign(user, models.OTPPurposeDeletion, time.Now().Add(-11*time.Minute))
	require.NoError(t, err)
	require.NoError(t, fx.users.Save(nil, user))

	err = fx.svc.DeleteAccount(context.Background(), newTestDB(t), user.ID, code, "leaving")
	assert.ErrorIs(t, err, apperrors.ErrOTPExpired)
}

func TestDeleteAccountMissingReason(t *testing.T) {
	fx := newAccountFixture(t)
	user := fx.users.put(&models.User{Username: "alice", Email: "a@b.com", IsVerified: true})

	code, err := otp.Assign(user, models.OTPPurposeDeletion, time.Now())
	require.NoError(t, err)
	require.NoError(t, fx.users.Save(nil, user))

	// Пустая причина отклоняется до проверки кода
	err = fx.svc.DeleteAccount(context.Background(), newTestDB(t), user.ID, code, "   ")
	assert.ErrorIs(t, err, apperrors.ErrDeletionReasonRequired)

	// Аккаунт цел, код не израсходован, писем нет
	stored, findErr := fx.users.FindByID(nil, user.ID)
	require.NoError(t, findErr)
	assert.True(t, stored.HasPendingOTP())
	assert.Empty(t, fx.mail.byKind("deleted"))

	// Тот же код после этого проходит
	err = fx.svc.DeleteAccount(context.Background(), newTestDB(t), user.ID, code, "leaving")
	require.NoError(t, err)
}

func TestDeleteAccountRejectsResetPurposeCode(t *testing.T) {
	fx := newAccountFixture(t)
	user := fx.users.put(&models.User{Username: "alice", Email: "a@b.com", IsVerified: true})

	// Код выдан для сброса пароля, а не для удаления
	code, err := otp.Assign(user, models.OTPPurposeReset, time.Now())
	require.NoError(t, err)
	require.NoError(t, fx.users.Save(nil, user))

	err = fx.svc.DeleteAccount(context.Background(), newTestDB(t), user.ID, code, "leaving")
	assert.ErrorIs(t, err, apperrors.ErrOTPInvalid)
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	fx := newAccountFixture(t)
	err := fx.svc.DeleteAccount(context.Background(), newTestDB(t), "nope", "123456", "leaving")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
