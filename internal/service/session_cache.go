package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache guarda la lista de sesiones conocidas para no consultar el
// almacén en cada listado. Es opcional: un valor nil desactiva la cache.
type SessionCache interface {
	Get(ctx context.Context) ([]string, bool)
	Set(ctx context.Context, sessions []string) error
	Invalidate(ctx context.Context) error
}

type redisCommander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisSessionCache struct {
	client redisCommander
	ttl    time.Duration
	key    string
}

// NewRedisSessionCache construye la cache sobre Redis. Devuelve nil si no
// hay cliente, para que el wiring opcional quede en el caller.
func NewRedisSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisSessionCache{
		client: client,
		ttl:    ttl,
		key:    "chat:sessions",
	}
}

func (c *redisSessionCache) Get(ctx context.Context) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		return nil, false
	}
	var sessions []string
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, false
	}
	return sessions, true
}

func (c *redisSessionCache) Set(ctx context.Context, sessions []string) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, string(raw), c.ttl).Err()
}

func (c *redisSessionCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key).Err()
}
