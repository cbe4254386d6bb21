// Package profiles reads the backend's reference lists used by profile
// and roster forms.
package profiles

import (
	"context"

	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/users"
)

type Position struct {
	ID   int64          `json:"id"`
	Key  string         `json:"key"`
	Name string         `json:"name"`
	Line users.Position `json:"line"`
}

type Specialty struct {
	ID   int64  `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type License struct {
	ID     int64   `json:"id"`
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Issuer *string `json:"issuer"`
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) ListPositions(ctx context.Context) ([]Position, error) {
	return apiclient.GetList[Position](ctx, s.client, "profiles/positions/", nil)
}

func (s *Service) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	return apiclient.GetList[Specialty](ctx, s.client, "profiles/specialties/", nil)
}

func (s *Service) ListLicenses(ctx context.Context) ([]License, error) {
	return apiclient.GetList[License](ctx, s.client, "profiles/licenses/", nil)
}

// PositionsByLine groups positions under their pitch line.
func PositionsByLine(positions []Position) map[users.Position][]Position {
	out := make(map[users.Position][]Position, len(users.Positions))
	for _, p := range positions {
		out[p.Line] = append(out[p.Line], p)
	}
	return out
}
