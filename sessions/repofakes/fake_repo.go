package repofakes

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/sessions"
)

var _ sessions.Repo = (*FakeRepo)(nil)

// FakeRepo is an in-memory key-value repo that can be told to fail writes.
type FakeRepo struct {
	values map[string][]byte
	writes int
	setErr error
	lock   sync.RWMutex
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{
		values: make(map[string][]byte),
	}
}

func (r *FakeRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *FakeRepo) Set(_ context.Context, key string, value []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.writes++
	if r.setErr != nil {
		return r.setErr
	}
	r.values[key] = append([]byte(nil), value...)
	return nil
}

func (r *FakeRepo) Delete(_ context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.values, key)
	return nil
}

// FailWrites makes every subsequent Set return err (nil restores).
func (r *FakeRepo) FailWrites(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.setErr = err
}

// Writes counts Set calls, including failed ones.
func (r *FakeRepo) Writes() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.writes
}

// Raw returns the stored bytes for key.
func (r *FakeRepo) Raw(key string) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.values[key]
	return string(v), ok
}
