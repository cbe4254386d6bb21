package repofile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/sessions"
	"github.com/jrsteele09/squadhub/sessions/repofile"
	"github.com/stretchr/testify/require"
)

func TestFileRepo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "squadhub")
	repo, err := repofile.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get(ctx, sessions.StorageKey)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, sessions.StorageKey, []byte(`{"accessToken":"a"}`)))
		data, err := repo.Get(ctx, sessions.StorageKey)
		require.NoError(t, err)
		require.Equal(t, `{"accessToken":"a"}`, string(data))

		info, err := os.Stat(filepath.Join(dir, sessions.StorageKey+".json"))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("overwrite leaves no temp files", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, sessions.StorageKey, []byte(`{"accessToken":"b"}`)))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, sessions.StorageKey))
		require.NoError(t, repo.Delete(ctx, sessions.StorageKey))
		_, err := repo.Get(ctx, sessions.StorageKey)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("invalid key", func(t *testing.T) {
		require.Error(t, repo.Set(ctx, "../escape", []byte("x")))
		_, err := repo.Get(ctx, "")
		require.Error(t, err)
	})
}

func TestFileRepo_StoreRoundTrip(t *testing.T) {
	repo, err := repofile.New(t.TempDir())
	require.NoError(t, err)

	store := sessions.NewStore(repo)
	store.SetTokens("access", "refresh")

	restored := sessions.NewStore(repo)
	require.NoError(t, restored.Restore(context.Background()))
	require.Equal(t, "access", restored.AccessToken())
	require.Equal(t, "refresh", restored.RefreshToken())
}
