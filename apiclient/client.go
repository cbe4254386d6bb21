package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
)

const (
	contentTypeJSON = "application/json"
	maxErrorBody    = 1 << 20
)

// Client is the single HTTP client used by every resource service.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	transport *Transport
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its transport is wrapped,
// not replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc.Transport != nil {
			c.transport.Base = hc.Transport
		}
		c.http.Timeout = hc.Timeout
		c.http.Jar = hc.Jar
		c.http.CheckRedirect = hc.CheckRedirect
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		c.transport.Navigator = n
	}
}

// WithSessionEnder overrides the session that is cleared on 401. By default
// the token source is used when it implements SessionEnder.
func WithSessionEnder(s SessionEnder) Option {
	return func(c *Client) {
		c.transport.Session = s
	}
}

func WithLoginRoute(route string) Option {
	return func(c *Client) {
		c.transport.LoginRoute = route
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidBaseURL, "[apiclient New] %s", err)
	}

	t := &Transport{Tokens: tokens, LoginRoute: DefaultLoginRoute}
	if ender, ok := tokens.(SessionEnder); ok {
		t.Session = ender
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Transport: t},
		transport: t,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NormalizeBaseURL validates raw and ensures it ends with exactly one slash.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return "", apperrors.Wrapf(apperrors.ErrInvalidBaseURL, "%q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperrors.Wrapf(apperrors.ErrInvalidBaseURL, "%q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", apperrors.Wrapf(apperrors.ErrInvalidBaseURL, "%q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/"
	u.RawPath = ""
	return u.String(), nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL resolves path against the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// PostMultipart sends form as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, form *Form, out any) error {
	return c.doMultipart(ctx, http.MethodPost, path, form, out)
}

func (c *Client) PatchMultipart(ctx context.Context, path string, form *Form, out any) error {
	return c.doMultipart(ctx, http.MethodPatch, path, form, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[apiclient %s %s] encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return fmt.Errorf("[apiclient %s %s] %w", method, path, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if method != http.MethodGet && method != http.MethodDelete {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("[apiclient %s %s] encode form: %w", method, path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, nil), body)
	if err != nil {
		return fmt.Errorf("[apiclient %s %s] %w", method, path, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentType)
	return c.do(req, out)
}

// do sends req. Transport errors are returned as-is so callers can tell a
// missing response apart from an HTTP error status.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			StatusCode: resp.StatusCode,
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			Body:       body,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[apiclient %s %s] read body: %w", req.Method, req.URL.Path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[apiclient %s %s] decode body: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
