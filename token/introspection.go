package token

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/pkg/errors"
)

// NowTimeFunc is swapped out by tests.
var NowTimeFunc = time.Now

// Claims are the parts of a backend access token the client cares about.
// The signature is never checked here; the backend remains the authority.
type Claims struct {
	TokenType string    `json:"token_type,omitempty"` // "access" or "refresh"
	UserID    int64     `json:"user_id,omitempty"`    // Backend user id
	JTI       string    `json:"jti,omitempty"`        // Token id
	IssuedAt  time.Time `json:"iat,omitempty"`        // Issued at time
	ExpiresAt time.Time `json:"exp,omitempty"`        // Expiration, zero when absent
}

// Expired reports whether the token's exp is in the past. Tokens without
// an exp never expire.
func (c *Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && NowTimeFunc().After(c.ExpiresAt)
}

// TTL is the time left before expiry, zero when expired or unknown.
func (c *Claims) TTL() time.Duration {
	if c.ExpiresAt.IsZero() {
		return 0
	}
	if d := c.ExpiresAt.Sub(NowTimeFunc()); d > 0 {
		return d
	}
	return 0
}

// Inspect decodes rawToken without verifying it.
func Inspect(rawToken string) (*Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, apperrors.ErrNoSession
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "error extracting claims")
	}

	claims := &Claims{}
	claims.TokenType, _ = mapClaims["token_type"].(string)
	claims.JTI, _ = mapClaims["jti"].(string)
	claims.UserID = userID(mapClaims["user_id"])
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	return claims, nil
}

// user_id is numeric by default but some backends emit it as a string.
func userID(v any) int64 {
	switch id := v.(type) {
	case float64:
		return int64(id)
	case string:
		n, _ := strconv.ParseInt(id, 10, 64)
		return n
	default:
		return 0
	}
}
