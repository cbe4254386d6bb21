package users

// Capability is something a page or command may offer to the current user.
type Capability string

const (
	CapAdminArea        Capability = "admin_area"        // Admin pages
	CapManageUsers      Capability = "manage_users"      // Create, edit and delete any user
	CapTeamPages        Capability = "team_pages"        // My Team and Lineup Builder
	CapViewAttendance   Capability = "view_attendance"   // Attendance lists on events
	CapEditAttendance   Capability = "edit_attendance"   // Mark attendance
	CapPostAnnouncement Capability = "post_announcement" // Team announcements
	CapUploadDocument   Capability = "upload_document"   // Upload and delete documents
)

// Policy maps each role to what it may do.
type Policy map[RoleType][]Capability

// DefaultPolicy mirrors what the backend allows per role.
var DefaultPolicy = Policy{
	RolePlayer: {CapTeamPages},
	RoleCoach:  {CapTeamPages, CapViewAttendance, CapEditAttendance, CapPostAnnouncement, CapUploadDocument},
	RoleStaff:  {CapTeamPages, CapPostAnnouncement, CapUploadDocument},
	RoleAdmin:  {CapAdminArea, CapManageUsers, CapViewAttendance, CapEditAttendance, CapPostAnnouncement, CapUploadDocument},
}

// Can reports whether u holds capability c. A nil user can do nothing.
func (p Policy) Can(u *User, c Capability) bool {
	if u == nil {
		return false
	}
	for _, granted := range p[u.Role] {
		if granted == c {
			return true
		}
	}
	return false
}

// Capabilities returns everything u may do.
func (p Policy) Capabilities(u *User) []Capability {
	if u == nil {
		return nil
	}
	return append([]Capability(nil), p[u.Role]...)
}

// CanManageTeam allows admins, the team owner and coaches of that team to
// change its roster.
func (p Policy) CanManageTeam(u *User, teamID int64, ownerID *int64) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if ownerID != nil && *ownerID == u.ID {
		return true
	}
	return u.Role == RoleCoach && u.InTeam(teamID)
}

// Can checks c against DefaultPolicy.
func Can(u *User, c Capability) bool {
	return DefaultPolicy.Can(u, c)
}

// CanManageTeam checks against DefaultPolicy.
func CanManageTeam(u *User, teamID int64, ownerID *int64) bool {
	return DefaultPolicy.CanManageTeam(u, teamID, ownerID)
}
