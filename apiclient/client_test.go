package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/squadhub/apiclient"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeSession is a minimal token holder that records logouts.
type fakeSession struct {
	mu      sync.Mutex
	token   string
	logouts int32
}

func (f *fakeSession) Token() (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return nil, apperrors.ErrNoSession
	}
	return &oauth2.Token{AccessToken: f.token, TokenType: "Bearer"}, nil
}

func (f *fakeSession) Logout() {
	atomic.AddInt32(&f.logouts, 1)
	f.mu.Lock()
	f.token = ""
	f.mu.Unlock()
}

func (f *fakeSession) setToken(tok string) {
	f.mu.Lock()
	f.token = tok
	f.mu.Unlock()
}

type recordingNavigator struct {
	calls  int32
	routes sync.Map
}

func (n *recordingNavigator) Navigate(_ context.Context, route string) {
	atomic.AddInt32(&n.calls, 1)
	n.routes.Store(route, true)
}

type testFixture struct {
	server    *httptest.Server
	session   *fakeSession
	navigator *recordingNavigator
	client    *apiclient.Client
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := &fakeSession{}
	nav := &recordingNavigator{}
	c, err := apiclient.New(srv.URL+"/api", sess, apiclient.WithNavigator(nav))
	require.NoError(t, err)

	return &testFixture{server: srv, session: sess, navigator: nav, client: c}
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var lastAuth atomic.Value
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get(apiclient.HeaderRequestID))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	ctx := context.Background()

	t.Run("no token, no header", func(t *testing.T) {
		require.NoError(t, f.client.Get(ctx, "/users/me/", nil, nil))
		require.Equal(t, "", lastAuth.Load())
	})

	t.Run("token present", func(t *testing.T) {
		f.session.setToken("abc")
		require.NoError(t, f.client.Get(ctx, "/users/me/", nil, nil))
		require.Equal(t, "Bearer abc", lastAuth.Load())
	})

	t.Run("latest token is read at send time", func(t *testing.T) {
		f.session.setToken("rotated")
		require.NoError(t, f.client.Get(ctx, "/users/me/", nil, nil))
		require.Equal(t, "Bearer rotated", lastAuth.Load())
	})
}

func TestClient_PathJoining(t *testing.T) {
	var gotPath, gotQuery string
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, f.client.Get(context.Background(), "/teams/3/squad/", map[string][]string{"season": {"2024"}}, nil))
	require.Equal(t, "/api/teams/3/squad/", gotPath)
	require.Equal(t, "season=2024", gotQuery)
}

func TestClient_Unauthorized(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Given token not valid"}`))
	})
	f.session.setToken("expired")

	err := f.client.Get(context.Background(), "/users/me/", nil, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))

	require.EqualValues(t, 1, atomic.LoadInt32(&f.session.logouts))
	require.EqualValues(t, 1, atomic.LoadInt32(&f.navigator.calls))
	_, ok := f.navigator.routes.Load(apiclient.DefaultLoginRoute)
	require.True(t, ok)

	tok, err := f.session.Token()
	require.Error(t, err)
	require.Nil(t, tok)
}

func TestClient_ConcurrentUnauthorized(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	f.session.setToken("expired")

	const requests = 8
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.client.Get(context.Background(), "/teams/", nil, nil)
			require.ErrorIs(t, err, apiclient.ErrUnauthorized)
		}()
	}
	wg.Wait()

	// One logout and one navigation per rejected response
	require.EqualValues(t, requests, atomic.LoadInt32(&f.navigator.calls))
	require.EqualValues(t, requests, atomic.LoadInt32(&f.session.logouts))
}

func TestClient_TransportFailureLeavesSession(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	f.session.setToken("abc")
	f.server.Close()

	err := f.client.Get(context.Background(), "/users/me/", nil, nil)
	require.Error(t, err)
	require.Zero(t, apiclient.StatusCode(err))
	require.EqualValues(t, 0, atomic.LoadInt32(&f.session.logouts))
	require.EqualValues(t, 0, atomic.LoadInt32(&f.navigator.calls))
}

func TestClient_ValidationErrorKeepsBody(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"email":["Enter a valid email address."]}`))
	})

	err := f.client.Post(context.Background(), "/users/auth/register/", map[string]string{"email": "x"}, nil)
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.JSONEq(t, `{"email":["Enter a valid email address."]}`, string(apiErr.Body))
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.EqualValues(t, 0, atomic.LoadInt32(&f.session.logouts))
}

func TestClient_JSONRoundTrip(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["content"]})
	})

	var out map[string]string
	require.NoError(t, f.client.Post(context.Background(), "communication/conversations/1/messages/", map[string]string{"content": "hi"}, &out))
	require.Equal(t, "hi", out["echo"])
}

func TestClient_Multipart(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Playbook", r.FormValue("title"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		require.Equal(t, "playbook.pdf", header.Filename)
		require.Equal(t, "pdf-bytes", string(content))
		_, _ = w.Write([]byte(`{"id":7}`))
	})

	form := apiclient.NewForm().Add("title", "Playbook").AddFile("file", "playbook.pdf", strings.NewReader("pdf-bytes"))
	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, f.client.PostMultipart(context.Background(), "documents/", form, &out))
	require.Equal(t, 7, out.ID)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://api.example.com", want: "https://api.example.com/"},
		{in: "https://api.example.com/api", want: "https://api.example.com/api/"},
		{in: "https://api.example.com/api/", want: "https://api.example.com/api/"},
		{in: " http://localhost:8000/api// ", want: "http://localhost:8000/api/"},
		{in: "", wantErr: true},
		{in: "ftp://example.com", wantErr: true},
		{in: "/relative/only", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := apiclient.NormalizeBaseURL(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidBaseURL)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeList(t *testing.T) {
	type item struct {
		ID int `json:"id"`
	}

	t.Run("bare array", func(t *testing.T) {
		items, err := apiclient.DecodeList[item](json.RawMessage(`[{"id":1},{"id":2}]`))
		require.NoError(t, err)
		require.Len(t, items, 2)
	})

	t.Run("paginated", func(t *testing.T) {
		items, err := apiclient.DecodeList[item](json.RawMessage(`{"count":1,"next":null,"results":[{"id":9}]}`))
		require.NoError(t, err)
		require.Equal(t, []item{{ID: 9}}, items)
	})

	t.Run("object without results", func(t *testing.T) {
		items, err := apiclient.DecodeList[item](json.RawMessage(`{"count":0}`))
		require.NoError(t, err)
		require.Empty(t, items)
		require.NotNil(t, items)
	})

	t.Run("empty body", func(t *testing.T) {
		items, err := apiclient.DecodeList[item](nil)
		require.NoError(t, err)
		require.Empty(t, items)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := apiclient.DecodeList[item](json.RawMessage(`"nope"`))
		require.Error(t, err)
	})
}
