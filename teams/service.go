package teams

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/internal/utils"
	"github.com/jrsteele09/squadhub/users"
)

const (
	teamsPath  = "teams/"
	myTeamPath = "teams/my/"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// TeamInput is the body for create and full update. Every field is sent,
// unset optional fields as null.
type TeamInput struct {
	Name            string  `json:"name"`
	Location        *string `json:"location"`
	Owner           *int64  `json:"owner"`
	HeadCoach       *int64  `json:"head_coach"`
	EstablishedDate *string `json:"established_date"`
}

// InputFrom seeds an edit form from t.
func InputFrom(t *Team) TeamInput {
	return TeamInput{
		Name:            t.Name,
		Location:        t.Location,
		Owner:           t.Owner,
		HeadCoach:       t.HeadCoach,
		EstablishedDate: t.EstablishedDate,
	}
}

// AddMemberRequest links an existing user to a team.
type AddMemberRequest struct {
	UserID int64          `json:"user_id"`
	Role   users.RoleType `json:"role"`
}

// CreateMemberRequest creates a new user directly on the roster. Empty
// optional fields are left out. A profile picture switches the request to
// multipart.
type CreateMemberRequest struct {
	Role         users.RoleType
	Email        string
	FirstName    string
	LastName     string
	DateOfBirth  string
	JerseyNumber *int
	Position     users.Position

	Picture     io.Reader
	PictureName string
}

func (r CreateMemberRequest) fields() map[string]any {
	m := map[string]any{
		"role":       r.Role,
		"email":      r.Email,
		"first_name": r.FirstName,
		"last_name":  r.LastName,
	}
	if r.DateOfBirth != "" {
		m["date_of_birth"] = r.DateOfBirth
	}
	if r.JerseyNumber != nil {
		m["jersey_number"] = *r.JerseyNumber
	}
	if r.Position != "" {
		m["position"] = r.Position
	}
	return m
}

func (r CreateMemberRequest) form() *apiclient.Form {
	f := apiclient.NewForm().
		Add("role", string(r.Role)).
		Add("email", r.Email).
		Add("first_name", r.FirstName).
		Add("last_name", r.LastName)
	if r.DateOfBirth != "" {
		f.Add("date_of_birth", r.DateOfBirth)
	}
	if r.JerseyNumber != nil {
		f.Add("jersey_number", strconv.Itoa(*r.JerseyNumber))
	}
	if r.Position != "" {
		f.Add("position", string(r.Position))
	}
	name := r.PictureName
	if name == "" {
		name = "profile_picture"
	}
	return f.AddFile("profile_picture", name, r.Picture)
}

// UpdateMemberRequest changes squad details of a member. Fields left unset
// are not sent; utils.Null clears a value.
type UpdateMemberRequest struct {
	UserID          int64
	JerseyNumber    utils.Field[int]
	PrimaryPosition utils.Field[int64]
	SquadStatus     utils.Field[string]
}

func (r UpdateMemberRequest) MarshalJSON() ([]byte, error) {
	m := map[string]any{"user_id": r.UserID}
	utils.PutField(m, "jersey_number", r.JerseyNumber)
	utils.PutField(m, "primary_position", r.PrimaryPosition)
	utils.PutField(m, "squad_status", r.SquadStatus)
	return json.Marshal(m)
}

// MyTeam returns the team the current user belongs to or owns.
func (s *Service) MyTeam(ctx context.Context) (*Team, error) {
	var t Team
	if err := s.client.Get(ctx, myTeamPath, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetSquad lists the players of a team. A zero season means the current one.
func (s *Service) GetSquad(ctx context.Context, teamID int64, season int) (*Squad, error) {
	var sq Squad
	if err := s.client.Get(ctx, teamPath(teamID)+"squad/", seasonQuery(season), &sq); err != nil {
		return nil, err
	}
	return &sq, nil
}

func (s *Service) GetStaff(ctx context.Context, teamID int64, season int) (*Staff, error) {
	var st Staff
	if err := s.client.Get(ctx, teamPath(teamID)+"staff/", seasonQuery(season), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Team, error) {
	return apiclient.GetList[Team](ctx, s.client, teamsPath, nil)
}

func (s *Service) Get(ctx context.Context, id int64) (*Team, error) {
	var t Team
	if err := s.client.Get(ctx, teamPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) Create(ctx context.Context, in TeamInput) (*Team, error) {
	var t Team
	if err := s.client.Post(ctx, teamsPath, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) Update(ctx context.Context, id int64, in TeamInput) (*Team, error) {
	return s.put(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, teamPath(id))
}

// SetOwner changes only the owner; nil removes it.
func (s *Service) SetOwner(ctx context.Context, teamID int64, ownerID *int64) (*Team, error) {
	return s.put(ctx, teamID, map[string]*int64{"owner": ownerID})
}

// SetHeadCoach changes only the head coach; nil removes it.
func (s *Service) SetHeadCoach(ctx context.Context, teamID int64, coachID *int64) (*Team, error) {
	return s.put(ctx, teamID, map[string]*int64{"head_coach": coachID})
}

func (s *Service) AddMember(ctx context.Context, teamID int64, req AddMemberRequest) error {
	return s.client.Post(ctx, teamPath(teamID)+"add_member/", req, nil)
}

func (s *Service) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return s.client.Post(ctx, teamPath(teamID)+"remove_member/", map[string]int64{"user_id": userID}, nil)
}

func (s *Service) CreateMember(ctx context.Context, teamID int64, req CreateMemberRequest) (*Member, error) {
	var m Member
	path := teamPath(teamID) + "create_member/"
	var err error
	if req.Picture != nil {
		err = s.client.PostMultipart(ctx, path, req.form(), &m)
	} else {
		err = s.client.Post(ctx, path, req.fields(), &m)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) UpdateMember(ctx context.Context, teamID int64, req UpdateMemberRequest) (*Member, error) {
	var m Member
	if err := s.client.Patch(ctx, teamPath(teamID)+"update_member/", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) put(ctx context.Context, id int64, body any) (*Team, error) {
	var t Team
	if err := s.client.Put(ctx, teamPath(id), body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func teamPath(id int64) string {
	return fmt.Sprintf("teams/%d/", id)
}

func seasonQuery(season int) url.Values {
	if season == 0 {
		return nil
	}
	return url.Values{"season": {strconv.Itoa(season)}}
}
