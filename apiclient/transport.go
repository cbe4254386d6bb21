package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	HeaderRequestID = "X-Request-ID"

	// DefaultLoginRoute is where a rejected session is sent.
	DefaultLoginRoute = "/login"
)

// TokenSource exposes the current bearer token. It is read on every request
// so the latest value is always used.
type TokenSource interface {
	Token() (*oauth2.Token, error)
}

// SessionEnder drops the client-side session after the backend rejects it.
type SessionEnder interface {
	Logout()
}

// Navigator performs the forced navigation after a 401. Implementations must
// be idempotent: concurrent 401s each call Navigate.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) {
	f(ctx, route)
}

// Transport authorizes outgoing requests and turns 401 responses into a
// hard session invalidation.
type Transport struct {
	Base       http.RoundTripper
	Tokens     TokenSource
	Session    SessionEnder
	Navigator  Navigator
	LoginRoute string
}

var _ http.RoundTripper = (*Transport)(nil)

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.New().String())
	}
	if t.Tokens != nil {
		if tok, err := t.Tokens.Token(); err == nil && tok != nil && tok.AccessToken != "" {
			tok.SetAuthHeader(req)
		}
	}

	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	if err != nil {
		// No response at all: network or TLS failure, the session is untouched
		log.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.Redacted()).Msg("request failed without response")
		return nil, err
	}

	log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode == http.StatusUnauthorized {
		t.invalidate(req.Context())
	}
	return resp, nil
}

func (t *Transport) invalidate(ctx context.Context) {
	log.Warn().Msg("backend rejected the session, logging out")
	if t.Session != nil {
		t.Session.Logout()
	}
	if t.Navigator != nil {
		route := t.LoginRoute
		if route == "" {
			route = DefaultLoginRoute
		}
		t.Navigator.Navigate(ctx, route)
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
