// Package apiclienttest provides a recording fake of the REST backend for
// service tests.
package apiclienttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/jrsteele09/squadhub/apiclient"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"golang.org/x/oauth2"
)

// Prefix is the path the client's base URL points at.
const Prefix = "/api/"

// Token is the bearer token every request carries.
const Token = "test-access-token"

// Request is one recorded call, with the path relative to Prefix.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map.
func (r Request) JSON(t testing.TB) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		t.Fatalf("request body is not a JSON object: %v (%s)", err, r.Body)
	}
	return m
}

// Multipart parses the recorded body as multipart/form-data.
func (r Request) Multipart(t testing.TB) (map[string][]string, map[string][]byte) {
	t.Helper()
	req, err := http.NewRequest(r.Method, "/", strings.NewReader(string(r.Body)))
	if err != nil {
		t.Fatal(err)
	}
	req.Header = r.Header.Clone()
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("request body is not multipart: %v", err)
	}
	files := map[string][]byte{}
	for field, headers := range req.MultipartForm.File {
		f, err := headers[0].Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(f)
		f.Close()
		files[field] = data
	}
	return req.MultipartForm.Value, files
}

type staticToken string

func (s staticToken) Token() (*oauth2.Token, error) {
	if s == "" {
		return nil, apperrors.ErrNoSession
	}
	return &oauth2.Token{AccessToken: string(s), TokenType: "Bearer"}, nil
}

// Backend routes requests by method and path and records every one.
type Backend struct {
	Server *httptest.Server
	Client *apiclient.Client

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

// New starts a backend and a client pointed at it. The client sends Token
// unless a different token source is wanted, in which case use NewClient.
func New(t testing.TB, opts ...apiclient.Option) *Backend {
	t.Helper()
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	b.Client = b.NewClient(t, staticToken(Token), opts...)
	return b
}

func (b *Backend) NewClient(t testing.TB, tokens apiclient.TokenSource, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(b.Server.URL+Prefix, tokens, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// Handle registers h for method and path (relative, e.g. "teams/1/").
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// Reply answers method and path with status and body. A string or []byte
// body is written raw, anything else is encoded as JSON.
func (b *Backend) Reply(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		var data []byte
		switch v := body.(type) {
		case nil:
		case string:
			data = []byte(v)
		case []byte:
			data = v
		default:
			var err error
			if data, err = json.Marshal(v); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		if len(data) > 0 {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = w.Write(data)
	})
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Last returns the most recent request, failing the test when none arrived.
func (b *Backend) Last(t testing.TB) Request {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatal("no request reached the backend")
	}
	return reqs[len(reqs)-1]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, Prefix)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		return
	}
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	h(w, r)
}
