package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	t.Run("stores the session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.Reply(http.MethodPost, "users/auth/login/", http.StatusOK, loginJSON)

		u, err := auth.SignIn(context.Background(), f.service, f.store, auth.LoginRequest{Email: testEmail, Password: testPassword})
		require.NoError(t, err)
		require.Equal(t, int64(5), u.ID)

		snap := f.store.Snapshot()
		require.Equal(t, "new-access", snap.AccessToken)
		require.Equal(t, "new-refresh", snap.RefreshToken)
		require.Equal(t, "Blues", *snap.User.TeamName)
	})

	t.Run("failure leaves the store alone", func(t *testing.T) {
		f := setupTestFixture(t)
		f.backend.Reply(http.MethodPost, "users/auth/login/", http.StatusBadRequest, `{"detail":"No active account found with the given credentials"}`)

		_, err := auth.SignIn(context.Background(), f.service, f.store, auth.LoginRequest{Email: testEmail, Password: testPassword})
		require.Error(t, err)
		require.False(t, f.store.IsAuthenticated())
		require.Zero(t, f.repo.Writes())
	})
}

func TestSignOut(t *testing.T) {
	t.Run("backend logout then local clear", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.SetTokens("access", "refresh")
		f.backend.Reply(http.MethodPost, "users/auth/logout/", http.StatusOK, nil)

		require.NoError(t, auth.SignOut(context.Background(), f.service, f.store, f.navigator))
		require.JSONEq(t, `{"refresh":"refresh"}`, string(f.backend.Last(t).Body))
		require.False(t, f.store.IsAuthenticated())
		require.Equal(t, []string{apiclient.DefaultLoginRoute}, f.navigator.routes)
	})

	t.Run("backend failure still clears", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.SetTokens("access", "refresh")
		f.backend.Reply(http.MethodPost, "users/auth/logout/", http.StatusInternalServerError, "oops")

		err := auth.SignOut(context.Background(), f.service, f.store, f.navigator)
		require.Error(t, err)
		require.Equal(t, http.StatusInternalServerError, apiclient.StatusCode(err))
		require.False(t, f.store.IsAuthenticated())
	})

	t.Run("no refresh token", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.SetTokens("access", "")

		require.NoError(t, auth.SignOut(context.Background(), f.service, f.store, nil))
		require.Empty(t, f.backend.Requests())
		require.False(t, f.store.IsAuthenticated())
	})
}

func TestRefreshProfile(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SetTokens("access", "refresh")
	f.backend.Reply(http.MethodGet, "users/me/", http.StatusOK, profileJSON)

	u, err := auth.RefreshProfile(context.Background(), f.service, f.store)
	require.NoError(t, err)
	require.Equal(t, u.Email, f.store.User().Email)
}
