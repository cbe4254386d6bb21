package auth

import (
	"context"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/sessions"
	"github.com/jrsteele09/squadhub/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SignIn logs in with req and stores the returned session. The store is
// untouched when login fails.
func SignIn(ctx context.Context, svc *Service, store *sessions.Store, req LoginRequest) (*users.User, error) {
	resp, err := svc.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	store.Login(resp.User, resp.Access, resp.Refresh)
	log.Info().Int64("user_id", resp.User.ID).Str("role", resp.User.Role.String()).Msg("signed in")
	return resp.User, nil
}

// SignOut tells the backend to forget the refresh token, then always clears
// the local session and navigates to the login route. The backend error, if
// any, is returned for reporting only.
func SignOut(ctx context.Context, svc *Service, store *sessions.Store, nav apiclient.Navigator) error {
	err := svc.Logout(ctx, store.RefreshToken())
	if err != nil {
		log.Err(err).Msg("backend logout failed, clearing local session anyway")
		err = errors.Wrap(err, "[SignOut]")
	}
	store.Logout()
	if nav != nil {
		nav.Navigate(ctx, apiclient.DefaultLoginRoute)
	}
	return err
}

// RefreshProfile fetches the current profile into the store.
func RefreshProfile(ctx context.Context, svc *Service, store *sessions.Store) (*users.User, error) {
	u, err := svc.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	store.SetUser(u)
	return u, nil
}
