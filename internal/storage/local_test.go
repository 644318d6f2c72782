package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(Config{
		BasePath: filepath.Join(t.TempDir(), "uploads"),
		BaseURL:  "/uploads",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStorageSaveAndGet(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	err := store.Save(ctx, "audio/episode.mp3", strings.NewReader("audio-bytes"))
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "audio/episode.mp3")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Get(ctx, "audio/episode.mp3")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestLocalStorageDelete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "profiles/pic.png", strings.NewReader("img")))
	require.NoError(t, store.Delete(ctx, "profiles/pic.png"))

	exists, err := store.Exists(ctx, "profiles/pic.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageDeleteMissingIsNotError(t *testing.T) {
	store := newTestStorage(t)
	assert.NoError(t, store.Delete(context.Background(), "audio/missing.mp3"))
}

func TestLocalStorageGetURL(t *testing.T) {
	store := newTestStorage(t)
	assert.Equal(t, "/uploads/audio/a.mp3", store.GetURL("audio/a.mp3"))
}
