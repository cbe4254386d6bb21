package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/internal/config"
	"github.com/jrsteele09/squadhub/internal/logging"
	"github.com/jrsteele09/squadhub/internal/wiring"
	"github.com/jrsteele09/squadhub/sessions"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

// app is what every command runs against.
type app struct {
	cfg    config.Config
	store  *sessions.Store
	svc    *wiring.Services
	in     io.Reader
	out    io.Writer
	format outputFormat
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
	// offline commands skip session validation.
	offline bool
}

var commands = map[string]command{
	"login":         {usage: "login [--email EMAIL]", run: loginCmd, offline: true},
	"logout":        {usage: "logout", run: logoutCmd, offline: true},
	"status":        {usage: "status", run: statusCmd, offline: true},
	"whoami":        {usage: "whoami", run: whoamiCmd, offline: true},
	"version":       {usage: "version", run: versionCmd, offline: true},
	"teams":         {usage: "teams [mine|all|squad ID|staff ID]", run: teamsCmd},
	"events":        {usage: "events [--upcoming]", run: eventsCmd},
	"attendance":    {usage: "attendance EVENT [--set PLAYER=STATUS]", run: attendanceCmd},
	"messages":      {usage: "messages [list|show ID|send ID TEXT|watch ID]", run: messagesCmd},
	"announcements": {usage: "announcements [list|read ID]", run: announcementsCmd},
	"users":         {usage: "users search [QUERY] [--role ROLE]... [--interactive]", run: usersCmd},
	"documents":     {usage: "documents [list|upload FILE --title TITLE|delete ID]", run: documentsCmd},
	"profiles":      {usage: "profiles [positions|specialties|licenses]", run: profilesCmd},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("squadctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	output := flags.StringP("output", "o", string(formatTable), "output format: table, json or yaml")
	logLevel := flags.String("log-level", "", "overrides SQUADHUB_LOG_LEVEL")
	flags.Usage = func() { printUsage(flags) }
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		printUsage(flags)
		return 2
	}
	name, rest := flags.Arg(0), flags.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		printUsage(flags)
		return 2
	}
	format, err := parseFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	level := cfg.GetLogLevel()
	if *logLevel != "" {
		level = *logLevel
	}
	logging.Setup(level, cfg.GetEnv(), os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, closer, err := newApp(ctx, cfg, format)
	if err != nil {
		log.Err(err).Msg("startup failed")
		return 1
	}
	defer closer.Close()

	if !cmd.offline {
		auth.NewBootstrapper(a.store, a.svc.Auth).Run(ctx)
	}
	if err := cmd.run(ctx, a, rest); err != nil {
		log.Err(err).Str("command", name).Msg("command failed")
		fmt.Fprintln(os.Stderr, describe(err))
		return 1
	}
	return 0
}

func newApp(ctx context.Context, cfg config.Config, format outputFormat) (*app, io.Closer, error) {
	store, closer, err := wiring.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	nav := apiclient.NavigatorFunc(func(_ context.Context, route string) {
		if route == apiclient.DefaultLoginRoute {
			fmt.Fprintln(os.Stderr, "Your session has ended. Run `squadctl login` to sign in again.")
		}
	})
	svc, err := wiring.NewServices(cfg, store, apiclient.WithNavigator(nav))
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return &app{cfg: cfg, store: store, svc: svc, in: os.Stdin, out: os.Stdout, format: format}, closer, nil
}

func printUsage(flags *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: squadctl [flags] COMMAND [args]")
	fmt.Fprintln(os.Stderr, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "\nflags:")
	fmt.Fprint(os.Stderr, flags.FlagUsages())
}
