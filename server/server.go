// Package server is the local web console: server rendered pages over the
// squadhub client services, gated by the same route guards as the CLI.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/calendar"
	"github.com/jrsteele09/squadhub/communication"
	"github.com/jrsteele09/squadhub/documents"
	"github.com/jrsteele09/squadhub/guards"
	"github.com/jrsteele09/squadhub/internal/config"
	"github.com/jrsteele09/squadhub/lineup"
	"github.com/jrsteele09/squadhub/profiles"
	"github.com/jrsteele09/squadhub/sessions"
	"github.com/jrsteele09/squadhub/teams"
	"github.com/jrsteele09/squadhub/users"
	"github.com/rs/zerolog/log"
)

// Deps are the client services the console renders.
type Deps struct {
	Store     *sessions.Store
	Boot      *auth.Bootstrapper
	Auth      *auth.Service
	Users     *users.Service
	Teams     *teams.Service
	Calendar  *calendar.Service
	Comms     *communication.Service
	Documents *documents.Service
	Profiles  *profiles.Service

	// Guards defaults to guards.DefaultTable.
	Guards guards.Table
}

type Server struct {
	env     string
	appName string
	router  *chi.Mux
	pages   *pageSet
	board   *lineup.Board
	Deps
}

func New(cfg config.EnvConfig, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Auth == nil {
		return nil, fmt.Errorf("[Server New] store and auth service are required")
	}
	if deps.Guards == nil {
		deps.Guards = guards.DefaultTable()
	}
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:     cfg.GetEnv(),
		appName: cfg.GetAppName(),
		router:  chi.NewRouter(),
		pages:   pages,
		board:   lineup.NewBoard(),
		Deps:    deps,
	}
	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logRoute(method, strings.TrimSuffix(route, "/*"))
		return nil
	})
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path string, err error) {
	log.Err(err).Msgf("[%-19s] %s", colourMethod(method), path)
}
