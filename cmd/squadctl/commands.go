package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/calendar"
	"github.com/jrsteele09/squadhub/communication"
	"github.com/jrsteele09/squadhub/documents"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/profiles"
	"github.com/jrsteele09/squadhub/search"
	"github.com/jrsteele09/squadhub/teams"
	"github.com/jrsteele09/squadhub/token"
	"github.com/jrsteele09/squadhub/users"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var errUsage = errors.New("invalid arguments, run squadctl without arguments for usage")

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not an id", s)
	}
	return id, nil
}

func loginCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reader := bufio.NewReader(a.in)
	if *email == "" {
		fmt.Fprint(a.out, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return err
		}
		*email = strings.TrimSpace(line)
	}
	password, err := readPassword(a, reader)
	if err != nil {
		return err
	}

	u, err := auth.SignIn(ctx, a.svc.Auth, a.store, auth.LoginRequest{Email: *email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.FullName(), u.Role)
	return nil
}

// readPassword reads without echo from a terminal, or a plain line
// otherwise.
func readPassword(a *app, reader *bufio.Reader) (string, error) {
	fmt.Fprint(a.out, "Password: ")
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logoutCmd(ctx context.Context, a *app, _ []string) error {
	nav := apiclient.NavigatorFunc(func(context.Context, string) {
		fmt.Fprintln(a.out, "Signed out")
	})
	return auth.SignOut(ctx, a.svc.Auth, a.store, nav)
}

type statusView struct {
	SignedIn  bool      `json:"signed_in"`
	UserID    int64     `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Expired   bool      `json:"expired"`
	Backend   string    `json:"backend"`
}

// statusCmd reports the stored session without calling the backend.
func statusCmd(_ context.Context, a *app, _ []string) error {
	snap := a.store.Snapshot()
	view := statusView{SignedIn: snap.IsAuthenticated(), Backend: a.cfg.GetSessionBackend()}
	if snap.User != nil {
		view.Email = snap.User.Email
		view.Role = snap.User.Role.String()
	}
	if claims, err := token.Inspect(snap.AccessToken); err == nil {
		view.UserID = claims.UserID
		view.ExpiresAt = claims.ExpiresAt
		view.Expired = claims.Expired()
	}

	t := &table{header: []string{"SIGNED IN", "USER", "EMAIL", "ROLE", "EXPIRES", "BACKEND"}}
	expires := "-"
	if !view.ExpiresAt.IsZero() {
		expires = view.ExpiresAt.Local().Format(time.RFC1123)
		if view.Expired {
			expires += " (expired)"
		}
	}
	t.add(strconv.FormatBool(view.SignedIn), strconv.FormatInt(view.UserID, 10), view.Email, view.Role, expires, view.Backend)
	return render(a.out, a.format, view, t)
}

func whoamiCmd(ctx context.Context, a *app, _ []string) error {
	u, err := auth.RefreshProfile(ctx, a.svc.Auth, a.store)
	if err != nil {
		return err
	}
	t := &table{header: []string{"ID", "NAME", "EMAIL", "ROLE", "TEAM"}}
	t.add(strconv.FormatInt(u.ID, 10), u.FullName(), u.Email, u.Role.String(), deref(u.TeamName))
	return render(a.out, a.format, u, t)
}

func versionCmd(_ context.Context, a *app, _ []string) error {
	figure.NewFigure(a.cfg.GetAppName(), "cybermedium", true).Print()
	fmt.Fprintf(a.out, "\nsquadctl %s\n", version)
	return nil
}

func teamsCmd(ctx context.Context, a *app, args []string) error {
	sub := "mine"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "mine":
		team, err := a.svc.Teams.MyTeam(ctx)
		if err != nil {
			return err
		}
		return renderTeams(a, []teams.Team{*team})
	case "all":
		list, err := a.svc.Teams.ListAll(ctx)
		if err != nil {
			return err
		}
		return renderTeams(a, list)
	case "squad", "staff":
		if len(args) != 2 {
			return errUsage
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		var (
			members []teams.Member
			value   any
		)
		if sub == "squad" {
			squad, err := a.svc.Teams.GetSquad(ctx, id, 0)
			if err != nil {
				return err
			}
			members, value = squad.Players, squad
		} else {
			staff, err := a.svc.Teams.GetStaff(ctx, id, 0)
			if err != nil {
				return err
			}
			members, value = staff.Staff, staff
		}
		t := &table{header: []string{"ID", "#", "NAME", "ROLE", "POSITION"}}
		for _, m := range members {
			t.add(strconv.FormatInt(m.ID, 10), deref(m.JerseyNumber), m.FullName(), m.Role.String(), deref(m.Position))
		}
		return render(a.out, a.format, value, t)
	}
	return errUsage
}

func renderTeams(a *app, list []teams.Team) error {
	t := &table{header: []string{"ID", "NAME", "HEAD COACH", "OWNER", "LOCATION"}}
	for _, team := range list {
		t.add(strconv.FormatInt(team.ID, 10), team.Name, team.HeadCoachName, deref(team.OwnerName), deref(team.Location))
	}
	return render(a.out, a.format, list, t)
}

func eventsCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("events")
	upcoming := fs.Bool("upcoming", false, "only events that have not started")
	if err := fs.Parse(args); err != nil {
		return err
	}
	events, err := a.svc.Calendar.ListEvents(ctx)
	if err != nil {
		return err
	}
	if *upcoming {
		now := time.Now()
		kept := events[:0]
		for i := range events {
			if events[i].Upcoming(now) {
				kept = append(kept, events[i])
			}
		}
		events = kept
	}
	t := &table{header: []string{"ID", "START", "DURATION", "TYPE", "TITLE", "LOCATION", "MANDATORY"}}
	for i := range events {
		e := &events[i]
		t.add(strconv.FormatInt(e.ID, 10), e.StartTime.Local().Format("Mon 02 Jan 15:04"), e.Duration().String(),
			string(e.EventType), e.Title, deref(e.Location), strconv.FormatBool(e.IsMandatory))
	}
	return render(a.out, a.format, events, t)
}

func attendanceCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("attendance")
	set := fs.StringArray("set", nil, "PLAYER=STATUS, repeatable")
	notes := fs.String("notes", "", "notes stored with each --set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	eventID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, pair := range *set {
		player, status, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("%q is not PLAYER=STATUS", pair)
		}
		playerID, err := parseID(player)
		if err != nil {
			return err
		}
		update := calendar.AttendanceUpdate{Status: calendar.AttendanceStatus(strings.ToUpper(status))}
		if *notes != "" {
			update.Notes = notes
		}
		if _, err := a.svc.Calendar.UpdateAttendance(ctx, eventID, playerID, update); err != nil {
			return err
		}
	}

	list, err := a.svc.Calendar.ListAttendance(ctx, eventID)
	if err != nil {
		return err
	}
	t := &table{header: []string{"PLAYER", "NAME", "POSITION", "STATUS", "NOTES"}}
	for _, row := range list {
		t.add(strconv.FormatInt(row.Player, 10), row.PlayerName, deref(row.PlayerPosition), string(row.Status), deref(row.Notes))
	}
	return render(a.out, a.format, list, t)
}

func messagesCmd(ctx context.Context, a *app, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		convs, err := a.svc.Comms.ListConversations(ctx)
		if err != nil {
			return err
		}
		var viewer int64
		if u := a.store.User(); u != nil {
			viewer = u.ID
		}
		t := &table{header: []string{"ID", "TITLE", "GROUP", "LAST MESSAGE"}}
		for i := range convs {
			c := &convs[i]
			last := "-"
			if c.LastMessage != nil {
				last = c.LastMessage.SenderName + ": " + c.LastMessage.Content
			}
			t.add(strconv.FormatInt(c.ID, 10), c.Title(viewer), strconv.FormatBool(c.IsGroupChat), last)
		}
		return render(a.out, a.format, convs, t)
	case "show":
		if len(args) != 2 {
			return errUsage
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		msgs, err := a.svc.Comms.ListMessages(ctx, id)
		if err != nil {
			return err
		}
		return render(a.out, a.format, msgs, messageTable(msgs))
	case "send":
		if len(args) < 3 {
			return errUsage
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		msg, err := a.svc.Comms.SendMessage(ctx, id, strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return render(a.out, a.format, msg, messageTable([]communication.Message{*msg}))
	case "watch":
		if len(args) != 2 {
			return errUsage
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		poller := communication.NewPoller(a.svc.Comms, id, a.cfg.GetPollInterval(), func(msgs []communication.Message) {
			for _, m := range msgs {
				fmt.Fprintf(a.out, "[%s] %s: %s\n", m.Timestamp, m.SenderName, m.Content)
			}
		})
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	return errUsage
}

func messageTable(msgs []communication.Message) *table {
	t := &table{header: []string{"ID", "TIME", "FROM", "MESSAGE"}}
	for _, m := range msgs {
		t.add(strconv.FormatInt(m.ID, 10), m.Timestamp, m.SenderName, m.Content)
	}
	return t
}

func announcementsCmd(ctx context.Context, a *app, args []string) error {
	if len(args) == 2 && args[0] == "read" {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		_, err = a.svc.Comms.MarkAnnouncementRead(ctx, id)
		return err
	}
	if len(args) > 1 || (len(args) == 1 && args[0] != "list") {
		return errUsage
	}
	list, err := a.svc.Comms.ListAnnouncements(ctx)
	if err != nil {
		return err
	}
	var viewer int64
	if u := a.store.User(); u != nil {
		viewer = u.ID
	}
	t := &table{header: []string{"ID", "TEAM", "TITLE", "URGENT", "READ"}}
	for i := range list {
		an := &list[i]
		t.add(strconv.FormatInt(an.ID, 10), an.TeamName, an.Title, strconv.FormatBool(an.IsUrgent), strconv.FormatBool(an.ReadByUser(viewer)))
	}
	return render(a.out, a.format, list, t)
}

func usersCmd(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 || args[0] != "search" {
		return errUsage
	}
	fs := newFlags("users search")
	roleFlags := fs.StringArray("role", nil, "restrict to a role, repeatable")
	interactive := fs.BoolP("interactive", "i", false, "read queries from stdin as you type them")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	var roles []users.RoleType
	for _, r := range *roleFlags {
		role := users.RoleType(strings.ToUpper(r))
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", r)
		}
		roles = append(roles, role)
	}
	fetch := func(ctx context.Context, q string) ([]users.User, error) {
		return a.svc.Users.AdminList(ctx, q, roles...)
	}

	if !*interactive {
		list, err := fetch(ctx, strings.Join(fs.Args(), " "))
		if err != nil {
			return err
		}
		return render(a.out, a.format, list, userTable(list))
	}
	return interactiveSearch(ctx, a, fetch)
}

// interactiveSearch treats each stdin line as the current search text.
// Only the results for the latest line are printed. When stdin closes the
// last query still pending is waited for before returning.
func interactiveSearch(ctx context.Context, a *app, fetch search.FetchFunc[users.User]) error {
	results := make(chan search.Result[users.User], 1)
	d := search.NewDebouncer(fetch, a.cfg.GetSearchDebounce(), func(r search.Result[users.User]) {
		select {
		case results <- r:
		case <-ctx.Done():
		}
	})
	defer d.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(a.out, "Type to search, Ctrl-D to quit.")
	var (
		latest  string
		pending bool
	)
	input := lines
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-input:
			if !ok {
				if !pending {
					return nil
				}
				input = nil
				continue
			}
			latest, pending = strings.TrimSpace(line), true
			d.Query(line)
		case r := <-results:
			if r.Query == latest {
				pending = false
			}
			if r.Err != nil {
				fmt.Fprintln(a.out, describe(r.Err))
				if apperrors.Is(r.Err, apperrors.ErrUnauthorized) {
					return r.Err
				}
			} else {
				fmt.Fprintf(a.out, "Results for %q:\n", r.Query)
				if err := render(a.out, a.format, r.Items, userTable(r.Items)); err != nil {
					return err
				}
			}
			if input == nil && !pending {
				return nil
			}
		}
	}
}

func userTable(list []users.User) *table {
	t := &table{header: []string{"ID", "NAME", "EMAIL", "ROLE", "TEAM"}}
	for i := range list {
		u := &list[i]
		t.add(strconv.FormatInt(u.ID, 10), u.FullName(), u.Email, u.Role.String(), deref(u.TeamName))
	}
	return t
}

func documentsCmd(ctx context.Context, a *app, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		docs, err := a.svc.Documents.List(ctx)
		if err != nil {
			return err
		}
		keys, groups := documents.GroupByType(docs)
		t := &table{header: []string{"TYPE", "ID", "TITLE", "TEAM", "UPLOADED BY", "UPLOADED"}}
		for _, key := range keys {
			for _, d := range groups[key] {
				t.add(key, strconv.FormatInt(d.ID, 10), d.Title, deref(d.TeamName), d.UploadedByName, d.UploadedAt)
			}
		}
		return render(a.out, a.format, docs, t)
	case "upload":
		return uploadDocument(ctx, a, args[1:])
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return a.svc.Documents.Delete(ctx, id)
	}
	return errUsage
}

func uploadDocument(ctx context.Context, a *app, args []string) error {
	fs := newFlags("documents upload")
	title := fs.String("title", "", "document title")
	description := fs.String("description", "", "optional description")
	team := fs.Int64("team", 0, "team the document belongs to")
	shared := fs.Int64Slice("share", nil, "player ids to share with")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	up := documents.Upload{
		Title:             *title,
		Description:       *description,
		SharedWithPlayers: *shared,
		File:              f,
		FileName:          filepath.Base(f.Name()),
	}
	if *team > 0 {
		up.Team = team
	}
	doc, err := a.svc.Documents.Upload(ctx, up)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %q as document %d\n", doc.Title, doc.ID)
	return nil
}

func profilesCmd(ctx context.Context, a *app, args []string) error {
	sub := "positions"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "positions":
		list, err := a.svc.Profiles.ListPositions(ctx)
		if err != nil {
			return err
		}
		t := &table{header: []string{"LINE", "KEY", "NAME"}}
		byLine := profiles.PositionsByLine(list)
		for _, line := range users.Positions {
			for _, p := range byLine[line] {
				t.add(string(line), p.Key, p.Name)
			}
		}
		return render(a.out, a.format, list, t)
	case "specialties":
		list, err := a.svc.Profiles.ListSpecialties(ctx)
		if err != nil {
			return err
		}
		t := &table{header: []string{"ID", "NAME"}}
		for _, s := range list {
			t.add(strconv.FormatInt(s.ID, 10), s.Name)
		}
		return render(a.out, a.format, list, t)
	case "licenses":
		list, err := a.svc.Profiles.ListLicenses(ctx)
		if err != nil {
			return err
		}
		t := &table{header: []string{"ID", "NAME", "ISSUER"}}
		for _, l := range list {
			t.add(strconv.FormatInt(l.ID, 10), l.Name, deref(l.Issuer))
		}
		return render(a.out, a.format, list, t)
	}
	return errUsage
}
