package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/squadhub/internal/config"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/users"
	"github.com/stretchr/testify/require"
)

type recordingFetch struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (f *recordingFetch) fetch(_ context.Context, q string) ([]users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return []users.User{{ID: 7, FirstName: "Casey", LastName: "Coach", Email: "casey@club.test", Role: users.RoleCoach}}, nil
}

func (f *recordingFetch) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newSearchApp(in io.Reader, out io.Writer) *app {
	return &app{
		cfg:    config.EnvVars{SearchDebounce: 20 * time.Millisecond},
		in:     in,
		out:    out,
		format: formatTable,
	}
}

func TestInteractiveSearch_FetchesLastLineAfterInputCloses(t *testing.T) {
	var out bytes.Buffer
	f := &recordingFetch{}

	err := interactiveSearch(context.Background(), newSearchApp(strings.NewReader("a\nab\n"), &out), f.fetch)
	require.NoError(t, err)
	require.Equal(t, []string{"ab"}, f.seen())
	require.Contains(t, out.String(), `Results for "ab":`)
	require.Contains(t, out.String(), "Casey Coach")
	require.NotContains(t, out.String(), `Results for "a":`)
}

func TestInteractiveSearch_EmptyInputReturnsWithoutFetching(t *testing.T) {
	var out bytes.Buffer
	f := &recordingFetch{}

	err := interactiveSearch(context.Background(), newSearchApp(strings.NewReader(""), &out), f.fetch)
	require.NoError(t, err)
	require.Empty(t, f.seen())
	require.Equal(t, "Type to search, Ctrl-D to quit.\n", out.String())
}

func TestInteractiveSearch_UnauthorizedEndsSearch(t *testing.T) {
	var out bytes.Buffer
	f := &recordingFetch{err: apperrors.Wrapf(apperrors.ErrUnauthorized, "users/")}

	err := interactiveSearch(context.Background(), newSearchApp(strings.NewReader("casey\n"), &out), f.fetch)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.Contains(t, out.String(), "Not signed in.")
}

func TestInteractiveSearch_StopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	var out bytes.Buffer
	f := &recordingFetch{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- interactiveSearch(ctx, newSearchApp(pr, &out), f.fetch)
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("search did not stop after cancel")
	}
	require.Empty(t, f.seen())
}
