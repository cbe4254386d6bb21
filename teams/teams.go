package teams

import "github.com/jrsteele09/squadhub/users"

type Team struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	ClubCrest       *string `json:"club_crest"`       // Image URL
	HeadCoach       *int64  `json:"head_coach"`       // User id of the head coach
	HeadCoachName   string  `json:"head_coach_name"`  // Display name of HeadCoach
	HeadCoachEmail  string  `json:"head_coach_email"` // Email of HeadCoach
	Owner           *int64  `json:"owner"`            // User id of the owner (STAFF or ADMIN)
	OwnerName       *string `json:"owner_name"`
	OwnerEmail      *string `json:"owner_email"`
	EstablishedDate *string `json:"established_date"` // ISO date
	Location        *string `json:"location"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// Member is a roster entry as listed in squads and staff lists.
type Member struct {
	ID             int64           `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Role           users.RoleType  `json:"role"`
	JerseyNumber   *int            `json:"jersey_number"`
	Position       *users.Position `json:"position"`
	ProfilePicture *string         `json:"profile_picture"`
}

func (m Member) FullName() string {
	u := users.User{FirstName: m.FirstName, LastName: m.LastName, Email: m.Email}
	return u.FullName()
}

type Squad struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Players []Member `json:"players"`
}

type Staff struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Staff []Member `json:"staff"`
}

// UnknownPosition groups players without a position.
const UnknownPosition = "Unknown"

// ByPosition groups players by position.
func (s *Squad) ByPosition() map[string][]Member {
	out := make(map[string][]Member)
	for _, p := range s.Players {
		key := UnknownPosition
		if p.Position != nil {
			key = string(*p.Position)
		}
		out[key] = append(out[key], p)
	}
	return out
}
