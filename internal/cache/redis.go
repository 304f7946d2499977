package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	c *redis.Client
}

// NewRedis connects to the redis instance at addr and pings it once to
// fail fast on bad connection parameters
func NewRedis(addr string, db int) (*Redis, error) {
	c := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %v, %w", addr, err)
	}

	return &Redis{c: c}, nil
}

func (r *Redis) Set(ctx context.Context, email, token string, ttl time.Duration) error {
	return r.c.Set(ctx, key(email), token, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, email string) (string, error) {
	v, err := r.c.Get(ctx, key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}

		return "", err
	}

	return v, nil
}

func (r *Redis) Delete(ctx context.Context, email string) error {
	return r.c.Del(ctx, key(email)).Err()
}
