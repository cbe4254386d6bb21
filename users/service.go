package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/internal/validation"
)

const (
	adminListPath = "users/admin/list/"
	registerPath  = "users/auth/register/"
)

// Service wraps the user endpoints. Errors from the client are returned
// unchanged.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// CreateRequest is the admin "create user" form.
type CreateRequest struct {
	Email     string   `json:"email" validate:"email"`
	FirstName string   `json:"first_name" validate:"min=1"`
	LastName  string   `json:"last_name" validate:"min=1"`
	Role      RoleType `json:"role" validate:"oneof=PLAYER COACH STAFF ADMIN"`
	Team      *int64   `json:"team"`
	Password  string   `json:"password" validate:"min=8"`
	Password2 string   `json:"password2" validate:"min=8"`
}

// Patch changes only the fields that are set.
type Patch struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// ProfileUpdate is what users may edit about themselves.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	DateOfBirth string
}

func (p ProfileUpdate) MarshalJSON() ([]byte, error) {
	var dob *string
	if p.DateOfBirth != "" {
		dob = &p.DateOfBirth
	}
	return json.Marshal(struct {
		FirstName   string  `json:"first_name"`
		LastName    string  `json:"last_name"`
		DateOfBirth *string `json:"date_of_birth"`
	}{p.FirstName, p.LastName, dob})
}

// AdminUpdate is the full admin edit of a user. Jersey number and position
// are sent as null unless the role is PLAYER.
type AdminUpdate struct {
	FirstName    string
	LastName     string
	Role         RoleType
	Team         *int64
	DateOfBirth  *string
	JerseyNumber *int
	Position     *Position
}

func (a AdminUpdate) MarshalJSON() ([]byte, error) {
	body := struct {
		FirstName    string    `json:"first_name"`
		LastName     string    `json:"last_name"`
		Role         RoleType  `json:"role"`
		Team         *int64    `json:"team"`
		DateOfBirth  *string   `json:"date_of_birth"`
		JerseyNumber *int      `json:"jersey_number"`
		Position     *Position `json:"position"`
	}{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Role:        a.Role,
		Team:        a.Team,
		DateOfBirth: a.DateOfBirth,
	}
	if a.Role == RolePlayer {
		body.JerseyNumber = a.JerseyNumber
		body.Position = a.Position
	}
	return json.Marshal(body)
}

// AdminUpdateFrom seeds an edit form from u.
func AdminUpdateFrom(u *User) AdminUpdate {
	return AdminUpdate{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		Team:         u.Team,
		DateOfBirth:  u.DateOfBirth,
		JerseyNumber: u.JerseyNumber,
		Position:     u.Position,
	}
}

// AdminList searches all users. Each role is sent as a repeated role
// parameter; an empty query is omitted.
func (s *Service) AdminList(ctx context.Context, q string, roles ...RoleType) ([]User, error) {
	query := url.Values{}
	if q = strings.TrimSpace(q); q != "" {
		query.Set("q", q)
	}
	for _, r := range roles {
		query.Add("role", string(r))
	}
	return apiclient.GetList[User](ctx, s.client, adminListPath, query)
}

// Create checks req locally before posting it to the register endpoint.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	if err := validation.Err(req); err != nil {
		return nil, err
	}
	var u User
	if err := s.client.Post(ctx, registerPath, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := s.client.Get(ctx, userPath(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*User, error) {
	var u User
	if err := s.client.Patch(ctx, userPath(id), patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) AdminUpdate(ctx context.Context, id int64, update AdminUpdate) (*User, error) {
	var u User
	if err := s.client.Patch(ctx, userPath(id), update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveProfile replaces the editable profile fields of the user.
func (s *Service) SaveProfile(ctx context.Context, id int64, update ProfileUpdate) (*User, error) {
	var u User
	if err := s.client.Put(ctx, userPath(id), update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, userPath(id))
}

func userPath(id int64) string {
	return fmt.Sprintf("users/%d/", id)
}
