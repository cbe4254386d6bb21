package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/squadhub/apiclient"
)

// GuardMiddleware holds requests until session bootstrap has finished, then
// applies the route table to the current session snapshot.
func (s *Server) GuardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Boot != nil {
			select {
			case <-s.Boot.Ready():
			case <-r.Context().Done():
				return
			}
		}
		d, found := s.Guards.Check(s.Store.Snapshot(), r.URL.Path)
		if found && !d.Allow {
			http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// navigation records where the 401 handler asked to send the current
// request.
type navigation struct {
	mu    sync.Mutex
	route string
}

func (n *navigation) set(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = route
}

func (n *navigation) get() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

type navigationKey struct{}

// NavigationMiddleware gives each request a slot the Navigator can write the
// forced redirect into.
func NavigationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), navigationKey{}, &navigation{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func navigationFrom(ctx context.Context) *navigation {
	n, _ := ctx.Value(navigationKey{}).(*navigation)
	return n
}

// Navigator is the console's 401 navigator. It records the route on the
// request that hit the 401 so the handler can redirect there; repeated
// calls overwrite the same slot.
func Navigator() apiclient.Navigator {
	return apiclient.NavigatorFunc(func(ctx context.Context, route string) {
		if n := navigationFrom(ctx); n != nil {
			n.set(route)
		}
	})
}

// redirectTo returns the route the Navigator recorded for r, if any.
func redirectTo(r *http.Request) string {
	if n := navigationFrom(r.Context()); n != nil {
		return n.get()
	}
	return ""
}
