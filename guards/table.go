package guards

import (
	"strings"

	"github.com/jrsteele09/squadhub/sessions"
)

// Route binds a path pattern to its guards. Pattern segments in braces
// match any single segment. Redirect, when set, is followed after the
// guards allow the route.
type Route struct {
	Pattern  string
	Guards   []Guard
	Redirect string
}

// Table is an ordered route list; the first matching pattern wins.
type Table []Route

// DefaultTable mirrors the application's route tree.
func DefaultTable() Table {
	guest := []Guard{GuestOnly}
	authed := []Guard{AuthRequired}
	admin := []Guard{AuthRequired, AdminOnly}

	return Table{
		{Pattern: RouteLogin, Guards: guest},
		{Pattern: RouteRegister, Guards: guest},

		{Pattern: RouteDashboard, Guards: authed},
		{Pattern: RouteCalendar, Guards: authed},
		{Pattern: RouteCommunication, Guards: authed},
		{Pattern: RouteDocuments, Guards: authed},
		{Pattern: RouteTeam, Guards: authed},
		{Pattern: RouteProfile, Guards: authed},
		{Pattern: RouteLineup, Guards: authed},

		{Pattern: RouteAdmin, Guards: admin},
		{Pattern: RouteAdminUsers, Guards: admin},
		{Pattern: RouteAdminUserNew, Guards: admin},
		{Pattern: RouteAdminTeams, Guards: admin},
		{Pattern: RouteAdminTeamNew, Guards: admin},
		{Pattern: RouteAdminUserDetail, Guards: admin},
		{Pattern: RouteAdminTeamDetail, Guards: admin},

		{Pattern: RouteApp, Guards: authed, Redirect: RouteDashboard},
		{Pattern: RouteRoot, Redirect: RouteApp},
	}
}

// Match returns the first route whose pattern matches path.
func (t Table) Match(path string) (Route, bool) {
	for _, r := range t {
		if matchPattern(r.Pattern, path) {
			return r, true
		}
	}
	return Route{}, false
}

// Check evaluates the guards of the route matching path. Unknown paths are
// allowed so the caller can render its not found page; found reports
// whether any route matched.
func (t Table) Check(s sessions.Snapshot, path string) (d Decision, found bool) {
	r, ok := t.Match(path)
	if !ok {
		return allow, false
	}
	d = Chain(s, r.Guards...)
	if d.Allow && r.Redirect != "" {
		return redirect(r.Redirect), true
	}
	return d, true
}

func matchPattern(pattern, path string) bool {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if pattern == path {
		return true
	}
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], "{") && strings.HasSuffix(ps[i], "}") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
