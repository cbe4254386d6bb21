package guards

import (
	"github.com/jrsteele09/squadhub/sessions"
	"github.com/jrsteele09/squadhub/users"
)

// Decision is the outcome of a guard: either allow the route or redirect.
type Decision struct {
	Allow      bool
	RedirectTo string
}

var allow = Decision{Allow: true}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Guard decides from the session alone. Guards never call the network.
type Guard func(sessions.Snapshot) Decision

// GuestOnly keeps signed in users away from the login and register pages.
func GuestOnly(s sessions.Snapshot) Decision {
	if s.IsAuthenticated() {
		return redirect(RouteApp)
	}
	return allow
}

// AuthRequired sends anonymous visitors to the login page.
func AuthRequired(s sessions.Snapshot) Decision {
	if !s.IsAuthenticated() {
		return redirect(RouteLogin)
	}
	return allow
}

// AdminOnly requires a cached profile with the ADMIN role. A valid token
// without a loaded profile is not enough.
func AdminOnly(s sessions.Snapshot) Decision {
	if !users.Can(s.User, users.CapAdminArea) {
		return redirect(RouteApp)
	}
	return allow
}

// Chain applies guards in order and returns the first redirect.
func Chain(s sessions.Snapshot, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g(s); !d.Allow {
			return d
		}
	}
	return allow
}
