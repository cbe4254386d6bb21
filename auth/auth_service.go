package auth

import (
	"context"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/users"
)

const (
	loginPath          = "users/auth/login/"
	registerPath       = "users/auth/register/"
	logoutPath         = "users/auth/logout/"
	profilePath        = "users/me/"
	passwordChangePath = "users/auth/password/change/"
)

// AuthResponse is returned by the login endpoint.
type AuthResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *users.User `json:"user"`
}

// Service wraps the authentication endpoints. Backend errors are returned
// unchanged so callers can normalize them.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Login exchanges credentials for a token pair and the user profile.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp AuthResponse
	if err := s.client.Post(ctx, loginPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Access == "" {
		return nil, MissingTokensErr
	}
	if resp.User == nil {
		return nil, MissingProfileErr
	}
	return &resp, nil
}

// Register creates an account. It does not sign the new user in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var u users.User
	if err := s.client.Post(ctx, registerPath, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout blacklists refreshToken on the server. Nothing is sent when the
// token is empty.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	body := map[string]string{"refresh": refreshToken}
	return s.client.Post(ctx, logoutPath, body, nil)
}

// GetProfile fetches the user the current access token belongs to.
func (s *Service) GetProfile(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := s.client.Get(ctx, profilePath, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword sets a new password. The backend only reads "password".
func (s *Service) ChangePassword(ctx context.Context, req PasswordChangeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	body := map[string]string{"password": req.NewPassword}
	return s.client.Put(ctx, passwordChangePath, body, nil)
}
