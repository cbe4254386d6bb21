package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/squadhub/guards"
	"github.com/jrsteele09/squadhub/users"
)

func (s *Server) initRoutes() {
	r := s.router
	r.Use(NavigationMiddleware)
	r.Use(s.HTMLMiddleware()...)
	r.NotFound(s.notFound)

	r.With(s.CacheMiddleware).Get("/static/*", s.serveFileHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.GuardMiddleware)

		r.Get(guards.RouteRoot, s.redirectHandler(guards.RouteApp))
		r.Get(guards.RouteApp, s.redirectHandler(guards.RouteDashboard))

		r.Get(guards.RouteLogin, s.LoginPageHandler())
		r.Post(guards.RouteLogin, s.LoginSubmissionHandler())
		r.Post(guards.RouteLogout, s.LogoutHandler())

		r.Get(guards.RouteDashboard, s.DashboardHandler())
		r.Get(guards.RouteCalendar, s.CalendarHandler())
		r.Post(guards.RouteCalendar, s.AttendanceSubmitHandler())
		r.Get(guards.RouteCommunication, s.CommunicationHandler())
		r.Post(guards.RouteCommunication, s.CommunicationSubmitHandler())
		r.Get(guards.RouteDocuments, s.DocumentsHandler())
		r.Post(guards.RouteDocuments, s.DocumentsSubmitHandler())
		r.Get(guards.RouteTeam, s.TeamHandler())
		r.Get(guards.RouteProfile, s.ProfileHandler())
		r.Post(guards.RouteProfile, s.PasswordChangeHandler())
		r.Get(guards.RouteLineup, s.LineupHandler())
		r.Post(guards.RouteLineup, s.LineupSubmitHandler())

		r.Get(guards.RouteAdmin, s.AdminHandler())
		r.Get(guards.RouteAdminUsers, s.AdminUsersListHandler())
		r.Get(guards.RouteAdminUserNew, s.AdminUserNewHandler())
		r.Post(guards.RouteAdminUserNew, s.AdminUserCreateHandler())
		r.Get(guards.RouteAdminUserDetail, s.AdminUserDetailHandler())
		r.Post(guards.RouteAdminUserDetail, s.AdminUserUpdateHandler())
		r.Get(guards.RouteAdminTeams, s.AdminTeamsListHandler())
		r.Get(guards.RouteAdminTeamNew, s.AdminTeamNewHandler())
		r.Post(guards.RouteAdminTeamNew, s.AdminTeamCreateHandler())
		r.Get(guards.RouteAdminTeamDetail, s.AdminTeamDetailHandler())
		r.Post(guards.RouteAdminTeamDetail, s.AdminTeamUpdateHandler())
	})
}

func (s *Server) redirectHandler(to string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, to, http.StatusSeeOther)
	}
}

// navFor builds the sidebar from the user's capabilities.
func navFor(u *users.User) []navLink {
	if u == nil {
		return nil
	}
	links := []navLink{{Label: "Dashboard", Href: guards.RouteDashboard}}
	if users.Can(u, users.CapTeamPages) {
		links = append(links,
			navLink{Label: "Calendar", Href: guards.RouteCalendar},
			navLink{Label: "Messages", Href: guards.RouteCommunication},
			navLink{Label: "Documents", Href: guards.RouteDocuments},
			navLink{Label: "Team", Href: guards.RouteTeam},
			navLink{Label: "Lineup", Href: guards.RouteLineup},
		)
	}
	if users.Can(u, users.CapAdminArea) {
		links = append(links,
			navLink{Label: "Calendar", Href: guards.RouteCalendar},
			navLink{Label: "Messages", Href: guards.RouteCommunication},
			navLink{Label: "Documents", Href: guards.RouteDocuments},
			navLink{Label: "Admin", Href: guards.RouteAdmin},
		)
	}
	return append(links, navLink{Label: "Profile", Href: guards.RouteProfile})
}
