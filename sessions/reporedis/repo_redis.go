package reporedis

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Repo = (*RedisRepo)(nil)

// RedisRepo stores keys without expiry under an optional prefix.
type RedisRepo struct {
	client *redis.Client
	prefix string
}

// New connects to redis and verifies the connection with PING.
func New(ctx context.Context, addr, password string, db int, prefix string) (*RedisRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[reporedis New] ping %s: %w", addr, err)
	}
	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *RedisRepo {
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[reporedis Get] %w", err)
	}
	return value, nil
}

func (r *RedisRepo) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("[reporedis Set] %w", err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("[reporedis Delete] %w", err)
	}
	return nil
}

func (r *RedisRepo) Close() error {
	return r.client.Close()
}
