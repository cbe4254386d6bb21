package users

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RoleType is the single role a backend user holds.
type RoleType string

const (
	RolePlayer RoleType = "PLAYER" // Squad member, sees own team pages
	RoleCoach  RoleType = "COACH"  // Manages the team they belong to
	RoleStaff  RoleType = "STAFF"  // Club staff, may own teams
	RoleAdmin  RoleType = "ADMIN"  // Full access including the admin area
)

// Roles lists every role in display order.
var Roles = []RoleType{RolePlayer, RoleCoach, RoleStaff, RoleAdmin}

func (r RoleType) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (r RoleType) String() string {
	return string(r)
}

// Position is the coarse playing line of a player.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DF"
	PositionMidfielder Position = "MF"
	PositionForward    Position = "FW"
)

var Positions = []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}

func (p Position) Valid() bool {
	for _, pos := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}

type User struct {
	ID             int64     `json:"id"`              // Backend identifier
	Email          string    `json:"email"`           // Login email
	FirstName      string    `json:"first_name"`      // Given name
	LastName       string    `json:"last_name"`       // Family name
	Role           RoleType  `json:"role"`            // Single role
	Team           *int64    `json:"team"`            // ID of the team the user belongs to
	TeamName       *string   `json:"team_name"`       // Display name of Team
	DateOfBirth    *string   `json:"date_of_birth"`   // ISO date
	JerseyNumber   *int      `json:"jersey_number"`   // Players only
	Position       *Position `json:"position"`        // Players only
	ProfilePicture *string   `json:"profile_picture"` // Image URL
}

// FullName joins first and last name, falling back to the email.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Email
	}
	return name
}

// Initials returns up to two upper case letters for avatars. Without a name
// the first letter of the email's local part is used, then "U".
func (u *User) Initials() string {
	first := firstRune(strings.TrimSpace(u.FirstName))
	last := firstRune(strings.TrimSpace(u.LastName))
	if first != "" || last != "" {
		return strings.ToUpper(first + last)
	}
	local, _, _ := strings.Cut(u.Email, "@")
	if r := firstRune(local); r != "" {
		return strings.ToUpper(r)
	}
	return "U"
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsPlayer() bool {
	return u != nil && u.Role == RolePlayer
}

// HasRole checks if the user holds any of roles.
func (u *User) HasRole(roles ...RoleType) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// InTeam checks if the user's team is teamID.
func (u *User) InTeam(teamID int64) bool {
	return u != nil && u.Team != nil && *u.Team == teamID
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsPrint(r) {
		return ""
	}
	return string(r)
}
