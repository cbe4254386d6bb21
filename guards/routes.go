package guards

// Route path constants shared by the console, the CLI and the 401 handler.
const (
	// Guest routes
	RouteLogin    = "/login"
	RouteRegister = "/register"

	// Root redirects
	RouteRoot = "/"
	RouteApp  = "/app"

	// App routes
	RouteDashboard     = "/app/dashboard"
	RouteCalendar      = "/app/calendar"
	RouteCommunication = "/app/communication"
	RouteDocuments     = "/app/documents"
	RouteTeam          = "/app/team"
	RouteProfile       = "/app/profile"
	RouteLineup        = "/app/lineup"

	// Admin routes
	RouteAdmin           = "/app/admin"
	RouteAdminUsers      = "/app/admin/users"
	RouteAdminUserNew    = "/app/admin/users/new"
	RouteAdminUserDetail = "/app/admin/users/{id}"
	RouteAdminTeams      = "/app/admin/teams"
	RouteAdminTeamNew    = "/app/admin/teams/new"
	RouteAdminTeamDetail = "/app/admin/teams/{id}"

	// Session action
	RouteLogout = "/logout"
)
