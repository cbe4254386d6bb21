package users_test

import (
	"testing"

	"github.com/jrsteele09/squadhub/internal/utils"
	"github.com/jrsteele09/squadhub/users"
	"github.com/stretchr/testify/require"
)

func TestUser_Names(t *testing.T) {
	tests := []struct {
		name     string
		user     users.User
		fullName string
		initials string
	}{
		{"both names", users.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, "Ada Lovelace", "AL"},
		{"first only", users.User{FirstName: " ada ", Email: "ada@example.com"}, "ada", "A"},
		{"email fallback", users.User{Email: "zed@example.com"}, "zed@example.com", "Z"},
		{"nothing", users.User{}, "", "U"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.fullName, tt.user.FullName())
			require.Equal(t, tt.initials, tt.user.Initials())
		})
	}
}

func TestRoles(t *testing.T) {
	require.True(t, users.RoleCoach.Valid())
	require.False(t, users.RoleType("OWNER").Valid())
	require.True(t, users.PositionForward.Valid())
	require.False(t, users.Position("XX").Valid())

	var nobody *users.User
	require.False(t, nobody.IsAdmin())
	require.False(t, nobody.HasRole(users.Roles...))

	coach := &users.User{Role: users.RoleCoach, Team: utils.Ptr[int64](7)}
	require.True(t, coach.HasRole(users.RoleStaff, users.RoleCoach))
	require.True(t, coach.InTeam(7))
	require.False(t, coach.InTeam(8))
}

func TestPolicy_Can(t *testing.T) {
	tests := []struct {
		role    users.RoleType
		allowed []users.Capability
		denied  []users.Capability
	}{
		{users.RolePlayer, []users.Capability{users.CapTeamPages}, []users.Capability{users.CapAdminArea, users.CapViewAttendance, users.CapUploadDocument, users.CapPostAnnouncement}},
		{users.RoleCoach, []users.Capability{users.CapTeamPages, users.CapViewAttendance, users.CapPostAnnouncement, users.CapUploadDocument}, []users.Capability{users.CapAdminArea, users.CapManageUsers}},
		{users.RoleStaff, []users.Capability{users.CapPostAnnouncement, users.CapUploadDocument}, []users.Capability{users.CapAdminArea, users.CapViewAttendance}},
		{users.RoleAdmin, []users.Capability{users.CapAdminArea, users.CapManageUsers, users.CapViewAttendance}, []users.Capability{users.CapTeamPages}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			u := &users.User{Role: tt.role}
			for _, c := range tt.allowed {
				require.True(t, users.Can(u, c), c)
			}
			for _, c := range tt.denied {
				require.False(t, users.Can(u, c), c)
			}
		})
	}

	require.False(t, users.Can(nil, users.CapTeamPages))
	require.Nil(t, users.DefaultPolicy.Capabilities(nil))
}

func TestPolicy_CanManageTeam(t *testing.T) {
	const teamID = 3
	owner := int64(42)

	tests := []struct {
		name     string
		user     *users.User
		ownerID  *int64
		expected bool
	}{
		{"nil user", nil, &owner, false},
		{"admin", &users.User{ID: 1, Role: users.RoleAdmin}, nil, true},
		{"owner", &users.User{ID: 42, Role: users.RoleStaff}, &owner, true},
		{"coach of team", &users.User{ID: 2, Role: users.RoleCoach, Team: utils.Ptr[int64](teamID)}, &owner, true},
		{"coach of other team", &users.User{ID: 2, Role: users.RoleCoach, Team: utils.Ptr[int64](9)}, &owner, false},
		{"coach without team", &users.User{ID: 2, Role: users.RoleCoach}, nil, false},
		{"player of team", &users.User{ID: 5, Role: users.RolePlayer, Team: utils.Ptr[int64](teamID)}, &owner, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, users.CanManageTeam(tt.user, teamID, tt.ownerID))
		})
	}
}
