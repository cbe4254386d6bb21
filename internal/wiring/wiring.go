// Package wiring builds the session store, API client and resource services
// shared by the squadhub binaries.
package wiring

import (
	"context"
	"io"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/calendar"
	"github.com/jrsteele09/squadhub/communication"
	"github.com/jrsteele09/squadhub/documents"
	"github.com/jrsteele09/squadhub/internal/config"
	"github.com/jrsteele09/squadhub/profiles"
	"github.com/jrsteele09/squadhub/sessions"
	"github.com/jrsteele09/squadhub/sessions/repofile"
	"github.com/jrsteele09/squadhub/sessions/reporedis"
	"github.com/jrsteele09/squadhub/teams"
	"github.com/jrsteele09/squadhub/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Services is one client with every resource service on top of it.
type Services struct {
	Client    *apiclient.Client
	Auth      *auth.Service
	Users     *users.Service
	Teams     *teams.Service
	Calendar  *calendar.Service
	Comms     *communication.Service
	Documents *documents.Service
	Profiles  *profiles.Service
}

// OpenStore opens the configured session repo and restores the persisted
// tokens from it. The returned closer releases the repo.
func OpenStore(ctx context.Context, cfg config.SessionConfig) (*sessions.Store, io.Closer, error) {
	var (
		repo   sessions.Repo
		closer io.Closer = nopCloser{}
	)
	switch cfg.GetSessionBackend() {
	case config.SessionBackendRedis:
		r, err := reporedis.New(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetRedisDB(), cfg.GetRedisPrefix())
		if err != nil {
			return nil, nil, errors.Wrap(err, "[OpenStore]")
		}
		repo, closer = r, r
	default:
		r, err := repofile.New(cfg.GetSessionDir())
		if err != nil {
			return nil, nil, errors.Wrap(err, "[OpenStore]")
		}
		repo = r
	}

	store := sessions.NewStore(repo)
	if err := store.Restore(ctx); err != nil {
		log.Err(err).Str("backend", cfg.GetSessionBackend()).Msg("could not restore session, starting signed out")
	}
	return store, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewServices builds the client against cfg's base URL with store as the
// token source and session to clear on 401.
func NewServices(cfg config.ClientConfig, store *sessions.Store, opts ...apiclient.Option) (*Services, error) {
	opts = append([]apiclient.Option{apiclient.WithTimeout(cfg.GetHTTPTimeout())}, opts...)
	client, err := apiclient.New(cfg.GetAPIBaseURL(), store, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "[NewServices]")
	}
	return &Services{
		Client:    client,
		Auth:      auth.NewService(client),
		Users:     users.NewService(client),
		Teams:     teams.NewService(client),
		Calendar:  calendar.NewService(client),
		Comms:     communication.NewService(client),
		Documents: documents.NewService(client),
		Profiles:  profiles.NewService(client),
	}, nil
}
