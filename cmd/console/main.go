package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/internal/config"
	"github.com/jrsteele09/squadhub/internal/logging"
	"github.com/jrsteele09/squadhub/internal/wiring"
	"github.com/jrsteele09/squadhub/server"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
	log.Info().Msg("console stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.GetLogLevel(), cfg.GetEnv(), os.Stderr)
	displayAppname(cfg.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closer, err := wiring.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, err := wiring.NewServices(cfg, store, apiclient.WithNavigator(server.Navigator()))
	if err != nil {
		return err
	}

	boot := auth.NewBootstrapper(store, svc.Auth)
	go func() {
		boot.Run(ctx)
		log.Info().Str("state", boot.State().String()).Bool("signed_in", store.IsAuthenticated()).Msg("session bootstrap finished")
		boot.Watch(ctx)
	}()

	handler, err := server.New(cfg, server.Deps{
		Store:     store,
		Boot:      boot,
		Auth:      svc.Auth,
		Users:     svc.Users,
		Teams:     svc.Teams,
		Calendar:  svc.Calendar,
		Comms:     svc.Comms,
		Documents: svc.Documents,
		Profiles:  svc.Profiles,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("console listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
