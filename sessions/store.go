package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const defaultPersistTimeout = 5 * time.Second

// Store is the single source of truth for authentication state. State only
// changes through Login, Logout, SetUser and SetTokens; every change is
// persisted (tokens only) and published to subscribers.
type Store struct {
	// writeMu serializes mutations so persisted writes keep mutation order
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   Snapshot

	repo           Repo
	key            string
	persistTimeout time.Duration

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	// seq numbers mutations under writeMu; notifyMu keeps delivery in that
	// order and drops snapshots older than the last one delivered
	seq      uint64
	notifyMu sync.Mutex
	notified uint64
}

type StoreOption func(*Store)

// WithKey overrides the durable key, mainly for tests sharing a repo.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		s.key = key
	}
}

func WithPersistTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.persistTimeout = d
	}
}

// NewStore creates an empty store. A nil repo keeps the session in memory.
func NewStore(repo Repo, opts ...StoreOption) *Store {
	s := &Store{
		repo:           repo,
		key:            StorageKey,
		persistTimeout: defaultPersistTimeout,
		subs:           make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted token pair. The user is left empty until the
// session is validated.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	data, err := s.repo.Get(ctx, s.key)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("[sessions Restore] %w", err)
	}

	var tokens Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("discarding unreadable persisted session")
		return nil
	}

	s.writeMu.Lock()
	s.mu.Lock()
	s.state = Snapshot{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
	snap := s.state
	s.mu.Unlock()
	s.seq++
	seq := s.seq
	s.writeMu.Unlock()

	s.notify(seq, snap)
	return nil
}

// Login overwrites user and both tokens.
func (s *Store) Login(user *users.User, accessToken, refreshToken string) {
	s.update(func(Snapshot) Snapshot {
		return Snapshot{User: cloneUser(user), AccessToken: accessToken, RefreshToken: refreshToken}
	})
}

// Logout resets to the empty session. It never calls the backend.
func (s *Store) Logout() {
	s.update(func(Snapshot) Snapshot {
		return Snapshot{}
	})
}

// SetUser replaces the cached profile only.
func (s *Store) SetUser(user *users.User) {
	s.update(func(prev Snapshot) Snapshot {
		prev.User = cloneUser(user)
		return prev
	})
}

// SetTokens replaces the token pair only.
func (s *Store) SetTokens(accessToken, refreshToken string) {
	s.update(func(prev Snapshot) Snapshot {
		prev.AccessToken = accessToken
		prev.RefreshToken = refreshToken
		return prev
	})
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) AccessToken() string {
	return s.Snapshot().AccessToken
}

func (s *Store) RefreshToken() string {
	return s.Snapshot().RefreshToken
}

func (s *Store) User() *users.User {
	return s.Snapshot().User
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

// Token implements oauth2.TokenSource over the in-memory access token.
func (s *Store) Token() (*oauth2.Token, error) {
	snap := s.Snapshot()
	if snap.AccessToken == "" {
		return nil, apperrors.ErrNoSession
	}
	return &oauth2.Token{
		AccessToken:  snap.AccessToken,
		RefreshToken: snap.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}

// Subscribe registers fn for every subsequent change and returns a function
// that removes it. Snapshots arrive in mutation order; a snapshot superseded
// before it could be delivered is skipped. fn runs synchronously and must not
// mutate the store.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) update(mutate func(Snapshot) Snapshot) {
	s.writeMu.Lock()
	s.mu.Lock()
	s.state = mutate(s.state)
	snap := s.state
	s.mu.Unlock()

	s.persist(snap.Tokens())
	s.seq++
	seq := s.seq
	s.writeMu.Unlock()

	s.notify(seq, snap)
}

// persist writes the token pair. Failures are logged and the in-memory
// state stays authoritative.
func (s *Store) persist(tokens Tokens) {
	if s.repo == nil {
		return
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		log.Err(err).Msg("failed to encode session tokens")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.repo.Set(ctx, s.key, data); err != nil {
		log.Err(err).Str("key", s.key).Msg("failed to persist session tokens")
	}
}

// notify delivers snap unless a later mutation was already delivered.
func (s *Store) notify(seq uint64, snap Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.notified {
		return
	}
	s.notified = seq

	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func cloneUser(u *users.User) *users.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
