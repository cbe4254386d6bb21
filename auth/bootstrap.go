package auth

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jrsteele09/squadhub/sessions"
	"github.com/jrsteele09/squadhub/token"
	"github.com/jrsteele09/squadhub/users"
	"github.com/rs/zerolog/log"
)

// State is the progress of session validation.
type State int32

const (
	StateUninitialized State = iota
	StateValidating
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateValidating:
		return "validating"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// ProfileFetcher returns the profile of the current token holder.
type ProfileFetcher interface {
	GetProfile(ctx context.Context) (*users.User, error)
}

// Bootstrapper validates a restored session before anything is rendered.
// A present token is checked with exactly one profile fetch; any failure
// clears the session.
type Bootstrapper struct {
	store    *sessions.Store
	profiles ProfileFetcher

	state     atomic.Int32
	ready     chan struct{}
	readyOnce sync.Once

	// runMu serializes validations started by Run and Watch
	runMu     sync.Mutex
	mu        sync.Mutex
	validated string
}

func NewBootstrapper(store *sessions.Store, profiles ProfileFetcher) *Bootstrapper {
	return &Bootstrapper{
		store:    store,
		profiles: profiles,
		ready:    make(chan struct{}),
	}
}

// Run validates the current session once and always ends initialized.
// Without a stored token there is nothing to validate and the state goes
// straight to initialized.
func (b *Bootstrapper) Run(ctx context.Context) {
	if b.store.AccessToken() != "" {
		b.state.CompareAndSwap(int32(StateUninitialized), int32(StateValidating))
	}
	b.validate(ctx)
	b.state.Store(int32(StateInitialized))
	b.readyOnce.Do(func() { close(b.ready) })
}

// Ready is closed once the first Run finishes.
func (b *Bootstrapper) Ready() <-chan struct{} {
	return b.ready
}

func (b *Bootstrapper) Initialized() bool {
	return b.State() == StateInitialized
}

func (b *Bootstrapper) State() State {
	return State(b.state.Load())
}

// Watch validates again whenever the access token changes to a new value,
// until ctx is done. A token that changed before Watch started is validated
// straight away.
func (b *Bootstrapper) Watch(ctx context.Context) {
	changed := make(chan struct{}, 1)
	unsubscribe := b.store.Subscribe(func(s sessions.Snapshot) {
		if s.AccessToken == "" || s.AccessToken == b.lastValidated() {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	if current := b.store.AccessToken(); current != "" && current != b.lastValidated() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			b.validate(ctx)
		}
	}
}

func (b *Bootstrapper) validate(ctx context.Context) {
	b.runMu.Lock()
	defer b.runMu.Unlock()

	accessToken := b.store.AccessToken()
	if accessToken == "" {
		b.setValidated("")
		return
	}
	if accessToken == b.lastValidated() {
		return
	}

	if claims, err := token.Inspect(accessToken); err == nil {
		log.Debug().Int64("user_id", claims.UserID).Time("expires", claims.ExpiresAt).Bool("expired", claims.Expired()).Msg("validating stored session")
	}

	user, err := b.profiles.GetProfile(ctx)
	// The token may have been replaced while the profile was in flight.
	if b.store.AccessToken() != accessToken {
		return
	}
	if err != nil && ctx.Err() != nil {
		log.Debug().Err(err).Msg("session validation interrupted, keeping stored session")
		return
	}
	if err != nil {
		log.Err(err).Msg("stored session rejected, signing out")
		b.setValidated("")
		b.store.Logout()
		return
	}
	b.setValidated(accessToken)
	b.store.SetUser(user)
}

func (b *Bootstrapper) lastValidated() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.validated
}

func (b *Bootstrapper) setValidated(accessToken string) {
	b.mu.Lock()
	b.validated = accessToken
	b.mu.Unlock()
}
