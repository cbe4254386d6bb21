package sessions

import "context"

// StorageKey is the fixed durable key that holds the token pair.
const StorageKey = "auth-storage"

// Repo is durable key-value storage. Get returns errors.ErrNotFound for a
// missing key.
type Repo interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
