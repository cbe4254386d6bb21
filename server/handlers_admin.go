package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/squadhub/guards"
	"github.com/jrsteele09/squadhub/internal/utils"
	"github.com/jrsteele09/squadhub/teams"
	"github.com/jrsteele09/squadhub/users"
)

func (s *Server) AdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "admin", s.newPage(r, "Admin", nil))
	}
}

type adminUsersData struct {
	Query    string
	Roles    []users.RoleType
	Selected map[users.RoleType]bool
	Users    []users.User
}

// AdminUsersListHandler searches users by ?q= and any number of ?role=.
func (s *Server) AdminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		data := adminUsersData{Query: q, Roles: users.Roles, Selected: map[users.RoleType]bool{}}
		var roles []users.RoleType
		for _, raw := range r.URL.Query()["role"] {
			role := users.RoleType(raw)
			if role.Valid() {
				roles = append(roles, role)
				data.Selected[role] = true
			}
		}
		list, err := s.Users.AdminList(r.Context(), q, roles...)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data.Users = list
		s.render(w, r, http.StatusOK, "admin_users", s.newPage(r, "Users", data))
	}
}

type userFormData struct {
	Form      users.CreateRequest
	User      *users.User
	Roles     []users.RoleType
	Positions []users.Position
}

func (s *Server) AdminUserNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := userFormData{Form: users.CreateRequest{Role: users.RolePlayer}, Roles: users.Roles}
		s.render(w, r, http.StatusOK, "admin_user_new", s.newPage(r, "New user", data))
	}
}

func (s *Server) AdminUserCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		req := users.CreateRequest{
			Email:     strings.TrimSpace(r.FormValue("email")),
			FirstName: strings.TrimSpace(r.FormValue("first_name")),
			LastName:  strings.TrimSpace(r.FormValue("last_name")),
			Role:      users.RoleType(r.FormValue("role")),
			Password:  r.FormValue("password"),
			Password2: r.FormValue("password2"),
		}
		if team, ok := formInt64(r, "team"); ok {
			req.Team = &team
		}
		u, err := s.Users.Create(r.Context(), req)
		if err != nil {
			req.Password, req.Password2 = "", ""
			page := s.newPage(r, "New user", userFormData{Form: req, Roles: users.Roles})
			s.formFail(w, r, err, "admin_user_new", page)
			return
		}
		http.Redirect(w, r, userDetailPath(u.ID), http.StatusSeeOther)
	}
}

func (s *Server) AdminUserDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			s.notFound(w, r)
			return
		}
		u, err := s.Users.Get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data := userFormData{User: u, Roles: users.Roles, Positions: users.Positions}
		s.render(w, r, http.StatusOK, "admin_user", s.newPage(r, u.FullName(), data))
	}
}

// AdminUserUpdateHandler saves the admin edit form, or deletes the user
// when action=delete.
func (s *Server) AdminUserUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := idParam(r)
		if !ok {
			s.notFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		if r.FormValue("action") == "delete" {
			if err := s.Users.Delete(ctx, id); err != nil {
				s.fail(w, r, err)
				return
			}
			http.Redirect(w, r, guards.RouteAdminUsers, http.StatusSeeOther)
			return
		}

		u, err := s.Users.Get(ctx, id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		update := users.AdminUpdateFrom(u)
		update.FirstName = strings.TrimSpace(r.FormValue("first_name"))
		update.LastName = strings.TrimSpace(r.FormValue("last_name"))
		update.Role = users.RoleType(r.FormValue("role"))
		update.Team = nil
		if team, ok := formInt64(r, "team"); ok {
			update.Team = &team
		}
		update.DateOfBirth = nil
		if dob := strings.TrimSpace(r.FormValue("date_of_birth")); dob != "" {
			update.DateOfBirth = &dob
		}
		update.JerseyNumber = nil
		if n, err := strconv.Atoi(r.FormValue("jersey_number")); err == nil {
			update.JerseyNumber = &n
		}
		update.Position = nil
		if pos := users.Position(r.FormValue("position")); pos.Valid() {
			update.Position = &pos
		}

		if _, err := s.Users.AdminUpdate(ctx, id, update); err != nil {
			data := userFormData{User: u, Roles: users.Roles, Positions: users.Positions}
			s.formFail(w, r, err, "admin_user", s.newPage(r, u.FullName(), data))
			return
		}
		http.Redirect(w, r, userDetailPath(id)+"?flash=Saved", http.StatusSeeOther)
	}
}

func (s *Server) AdminTeamsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Teams.ListAll(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "admin_teams", s.newPage(r, "Teams", list))
	}
}

type teamFormData struct {
	Form  teams.TeamInput
	Team  *teams.Team
	Squad *teams.Squad
}

func (s *Server) AdminTeamNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "admin_team_new", s.newPage(r, "New team", teamFormData{}))
	}
}

func teamInputFromForm(r *http.Request) teams.TeamInput {
	in := teams.TeamInput{Name: strings.TrimSpace(r.FormValue("name"))}
	if v := strings.TrimSpace(r.FormValue("location")); v != "" {
		in.Location = utils.Ptr(v)
	}
	if v := strings.TrimSpace(r.FormValue("established_date")); v != "" {
		in.EstablishedDate = utils.Ptr(v)
	}
	if v, ok := formInt64(r, "owner"); ok {
		in.Owner = &v
	}
	if v, ok := formInt64(r, "head_coach"); ok {
		in.HeadCoach = &v
	}
	return in
}

func (s *Server) AdminTeamCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		in := teamInputFromForm(r)
		t, err := s.Teams.Create(r.Context(), in)
		if err != nil {
			s.formFail(w, r, err, "admin_team_new", s.newPage(r, "New team", teamFormData{Form: in}))
			return
		}
		http.Redirect(w, r, teamDetailPath(t.ID), http.StatusSeeOther)
	}
}

func (s *Server) AdminTeamDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := s.teamForm(w, r)
		if !ok {
			return
		}
		s.render(w, r, http.StatusOK, "admin_team", s.newPage(r, data.Team.Name, data))
	}
}

func (s *Server) teamForm(w http.ResponseWriter, r *http.Request) (*teamFormData, bool) {
	id, ok := idParam(r)
	if !ok {
		s.notFound(w, r)
		return nil, false
	}
	t, err := s.Teams.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	squad, err := s.Teams.GetSquad(r.Context(), id, 0)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return &teamFormData{Form: teams.InputFrom(t), Team: t, Squad: squad}, true
}

// AdminTeamUpdateHandler saves the team form, or applies a roster action:
// add_member, remove_member or delete.
func (s *Server) AdminTeamUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := idParam(r)
		if !ok {
			s.notFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		var err error
		switch r.FormValue("action") {
		case "delete":
			if err = s.Teams.Delete(ctx, id); err == nil {
				http.Redirect(w, r, guards.RouteAdminTeams, http.StatusSeeOther)
				return
			}
		case "add_member":
			userID, ok := formInt64(r, "user")
			if !ok {
				http.Error(w, "user is required", http.StatusBadRequest)
				return
			}
			err = s.Teams.AddMember(ctx, id, teams.AddMemberRequest{UserID: userID, Role: users.RoleType(r.FormValue("role"))})
		case "remove_member":
			userID, ok := formInt64(r, "user")
			if !ok {
				http.Error(w, "user is required", http.StatusBadRequest)
				return
			}
			err = s.Teams.RemoveMember(ctx, id, userID)
		default:
			_, err = s.Teams.Update(ctx, id, teamInputFromForm(r))
		}
		if err != nil {
			data, ok := s.teamForm(w, r)
			if !ok {
				return
			}
			s.formFail(w, r, err, "admin_team", s.newPage(r, data.Team.Name, data))
			return
		}
		http.Redirect(w, r, teamDetailPath(id)+"?flash=Saved", http.StatusSeeOther)
	}
}

func userDetailPath(id int64) string {
	return strings.Replace(guards.RouteAdminUserDetail, "{id}", strconv.FormatInt(id, 10), 1)
}

func teamDetailPath(id int64) string {
	return strings.Replace(guards.RouteAdminTeamDetail, "{id}", strconv.FormatInt(id, 10), 1)
}
