package search_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/squadhub/search"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *recorder) add(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func TestDebouncer_OneFetchPerWindow(t *testing.T) {
	calls := &recorder{}
	results := make(chan search.Result[string], 4)
	d := search.NewDebouncer(func(_ context.Context, q string) ([]string, error) {
		calls.add(q)
		return []string{q + "-result"}, nil
	}, 30*time.Millisecond, func(r search.Result[string]) { results <- r })
	defer d.Close()

	d.Query("a")
	d.Query(" ab ")

	select {
	case r := <-results:
		require.Equal(t, "ab", r.Query)
		require.Equal(t, []string{"ab-result"}, r.Items)
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, []string{"ab"}, calls.all())
}

func TestDebouncer_StaleResultDiscarded(t *testing.T) {
	started := make(chan string, 4)
	release := make(chan struct{})
	staleCancelled := make(chan bool, 1)
	results := make(chan search.Result[string], 4)

	d := search.NewDebouncer(func(ctx context.Context, q string) ([]string, error) {
		started <- q
		if q == "a" {
			<-release
			staleCancelled <- ctx.Err() != nil
		}
		return []string{q}, nil
	}, 5*time.Millisecond, func(r search.Result[string]) { results <- r })
	defer d.Close()

	d.Query("a")
	require.Equal(t, "a", <-started)

	d.Query("ab")
	require.Equal(t, "ab", <-started)
	r := <-results
	require.Equal(t, "ab", r.Query)

	close(release)
	require.True(t, <-staleCancelled)

	select {
	case r := <-results:
		t.Fatalf("stale result delivered: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncer_Close(t *testing.T) {
	calls := &recorder{}
	d := search.NewDebouncer(func(_ context.Context, q string) ([]string, error) {
		calls.add(q)
		return nil, nil
	}, 10*time.Millisecond, nil)

	d.Query("x")
	d.Close()
	d.Query("y")
	time.Sleep(40 * time.Millisecond)
	require.Empty(t, calls.all())
}
