package sessions

import (
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/squadhub/users"
)

// Snapshot is a whole, consistent view of the client session.
// AccessToken alone decides whether the client is authenticated; User is a
// cache of the last fetched profile and is never persisted.
type Snapshot struct {
	User         *users.User
	AccessToken  string
	RefreshToken string
}

func (s Snapshot) IsAuthenticated() bool {
	return s.AccessToken != ""
}

func (s Snapshot) Tokens() Tokens {
	return Tokens{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
}

// Tokens is the only part of the session that survives a restart.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

type persistedTokens struct {
	AccessToken  *string `json:"accessToken"`
	RefreshToken *string `json:"refreshToken"`
}

// MarshalJSON writes missing tokens as null.
func (t Tokens) MarshalJSON() ([]byte, error) {
	return json.Marshal(persistedTokens{
		AccessToken:  nonEmpty(t.AccessToken),
		RefreshToken: nonEmpty(t.RefreshToken),
	})
}

func (t *Tokens) UnmarshalJSON(data []byte) error {
	var p persistedTokens
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode tokens: %w", err)
	}
	*t = Tokens{}
	if p.AccessToken != nil {
		t.AccessToken = *p.AccessToken
	}
	if p.RefreshToken != nil {
		t.RefreshToken = *p.RefreshToken
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
